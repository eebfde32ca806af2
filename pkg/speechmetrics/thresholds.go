package speechmetrics

import "fmt"

// Thresholds holds every cutoff used by the classifiers.
// The shipped values are product configuration, not statistically derived.
type Thresholds struct {
	// Timing analysis
	PauseMinGapSec     float64
	UtteranceMinGapSec float64

	// Speech rate (words per minute); lower is worse
	RateWarningBelowWPM float64
	RateRiskBelowWPM    float64

	// Mean pause duration (seconds); higher is worse
	PauseWarningAboveSec float64
	PauseRiskAboveSec    float64

	// Mean length of utterance (words); lower is worse
	MLUWarningBelow float64
	MLURiskBelow    float64

	// Sample size
	CriticalWordCount      float64
	LowConfidenceWordCount float64

	// Trend cutoffs, in percent of decline against the baseline
	RateDeclineWarningPct  float64
	RateDeclineRiskPct     float64
	PauseDeclineWarningPct float64
	PauseDeclineRiskPct    float64
	MLUDeclineWarningPct   float64
	MLUDeclineRiskPct      float64
	WordCountDropPct       float64
}

// DefaultThresholds returns the cutoffs the product ships with
func DefaultThresholds() Thresholds {
	return Thresholds{
		PauseMinGapSec:     0.5,
		UtteranceMinGapSec: 1.0,

		RateWarningBelowWPM: 120.0,
		RateRiskBelowWPM:    98.7,

		PauseWarningAboveSec: 2.5,
		PauseRiskAboveSec:    4.7,

		MLUWarningBelow: 19.4,
		MLURiskBelow:    10.0,

		CriticalWordCount:      51.9,
		LowConfidenceWordCount: 40,

		RateDeclineWarningPct:  10,
		RateDeclineRiskPct:     20,
		PauseDeclineWarningPct: 20,
		PauseDeclineRiskPct:    40,
		MLUDeclineWarningPct:   15,
		MLUDeclineRiskPct:      30,
		WordCountDropPct:       10,
	}
}

// Validate checks that each warning/risk pair is ordered
func (t Thresholds) Validate() error {
	if t.PauseMinGapSec <= 0 || t.UtteranceMinGapSec < t.PauseMinGapSec {
		return fmt.Errorf("utterance gap (%.2f) must be >= pause gap (%.2f) > 0", t.UtteranceMinGapSec, t.PauseMinGapSec)
	}
	if t.RateRiskBelowWPM > t.RateWarningBelowWPM {
		return fmt.Errorf("rate risk cutoff %.1f above warning cutoff %.1f", t.RateRiskBelowWPM, t.RateWarningBelowWPM)
	}
	if t.PauseRiskAboveSec < t.PauseWarningAboveSec {
		return fmt.Errorf("pause risk cutoff %.1f below warning cutoff %.1f", t.PauseRiskAboveSec, t.PauseWarningAboveSec)
	}
	if t.MLURiskBelow > t.MLUWarningBelow {
		return fmt.Errorf("mlu risk cutoff %.1f above warning cutoff %.1f", t.MLURiskBelow, t.MLUWarningBelow)
	}
	if t.LowConfidenceWordCount > t.CriticalWordCount {
		return fmt.Errorf("low-confidence word count %.1f above critical word count %.1f", t.LowConfidenceWordCount, t.CriticalWordCount)
	}
	pairs := [][2]float64{
		{t.RateDeclineWarningPct, t.RateDeclineRiskPct},
		{t.PauseDeclineWarningPct, t.PauseDeclineRiskPct},
		{t.MLUDeclineWarningPct, t.MLUDeclineRiskPct},
	}
	for _, p := range pairs {
		if p[0] < 0 || p[1] < p[0] {
			return fmt.Errorf("trend cutoffs out of order: warning %.1f, risk %.1f", p[0], p[1])
		}
	}
	return nil
}
