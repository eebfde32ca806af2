// Package speechmetrics turns a timed transcript into linguistic speech
// metrics and classifies them into normal, warning and risk bands.
//
// Every function in this package is pure: no I/O, no shared state and no
// error returns. Invalid or empty input degrades to zero values.
package speechmetrics

import (
	"cmp"
	"math"
	"slices"
)

// minDurationSec keeps rates finite for single-instant transcripts
const minDurationSec = 1e-6

// Analyzer applies a fixed set of thresholds
type Analyzer struct {
	th Thresholds
}

// New creates an analyzer with the given thresholds
func New(th Thresholds) *Analyzer {
	return &Analyzer{th: th}
}

// Thresholds returns the cutoffs used by the analyzer
func (a *Analyzer) Thresholds() Thresholds {
	return a.th
}

var defaultAnalyzer = New(DefaultThresholds())

// Calculate computes metrics using the default thresholds
func Calculate(t *Transcript) Metrics {
	return defaultAnalyzer.Calculate(t)
}

type token struct {
	text  string
	start float64
	end   float64
}

// Calculate computes the metrics of a transcript. Words without usable timing
// or without any letters are ignored; the result is the zero Metrics when
// nothing remains. Input order does not matter.
func (a *Analyzer) Calculate(t *Transcript) Metrics {
	if t == nil || len(t.Words) == 0 {
		return Metrics{}
	}

	tk := newTokenizer()
	tokens := make([]token, 0, len(t.Words))
	for _, w := range t.Words {
		if !validTiming(w.Start, w.End) {
			continue
		}
		text := tk.normalize(w.Word)
		if text == "" {
			continue
		}
		tokens = append(tokens, token{text: text, start: w.Start, end: w.End})
	}
	if len(tokens) == 0 {
		return Metrics{}
	}

	slices.SortFunc(tokens, func(x, y token) int {
		return cmp.Or(
			cmp.Compare(x.start, y.start),
			cmp.Compare(x.end, y.end),
			cmp.Compare(x.text, y.text),
		)
	})

	first, last := tokens[0], tokens[len(tokens)-1]
	duration := math.Max(last.end-first.start, minDurationSec)
	minutes := duration / 60

	utterances := 1
	pauses := 0
	var pauseTotal float64
	unique := make(map[string]struct{}, len(tokens))
	for i, tok := range tokens {
		unique[tok.text] = struct{}{}
		if i == 0 {
			continue
		}
		gap := tok.start - tokens[i-1].end
		if gap >= a.th.PauseMinGapSec {
			pauses++
			pauseTotal += gap
		}
		if gap >= a.th.UtteranceMinGapSec {
			utterances++
		}
	}

	total := len(tokens)
	m := Metrics{
		SpeechRateWPM:       round(float64(total)/minutes, 2),
		PausesPerMinute:     round(float64(pauses)/minutes, 2),
		MLU:                 round(float64(total)/float64(utterances), 2),
		TTR:                 round(float64(len(unique))/float64(total), 3),
		TotalWords:          total,
		SpeakingDurationSec: round(duration, 2),
		UtteranceCount:      utterances,
		PauseCount:          pauses,
	}
	if pauses > 0 {
		m.MeanPauseDurationSec = round(pauseTotal/float64(pauses), 2)
	}
	return m
}

func validTiming(start, end float64) bool {
	if math.IsNaN(start) || math.IsNaN(end) || math.IsInf(start, 0) || math.IsInf(end, 0) {
		return false
	}
	return start >= 0 && end >= start
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
