package speechmetrics

import (
	"fmt"
	"math"
	"strings"
)

// stableBandPct is the absolute change below which a metric counts as unchanged
const stableBandPct = 1.0

// EvaluateChange compares two snapshots using the default thresholds
func EvaluateChange(baseline, current *Metrics) *ChangeSummary {
	return defaultAnalyzer.EvaluateChange(baseline, current)
}

// EvaluateChange compares the current snapshot with a baseline. Speech rate
// and MLU decline when they decrease; pause duration declines when it
// increases. It returns nil when either snapshot is missing.
func (a *Analyzer) EvaluateChange(baseline, current *Metrics) *ChangeSummary {
	if baseline == nil || current == nil {
		return nil
	}

	rate := trend(KeySpeechRate, "말하기 속도", baseline.SpeechRateWPM, current.SpeechRateWPM,
		false, a.th.RateDeclineWarningPct, a.th.RateDeclineRiskPct, a.classifyRate(current.SpeechRateWPM).Level)
	pause := trend(KeyPauseDuration, "쉼 길이", baseline.MeanPauseDurationSec, current.MeanPauseDurationSec,
		true, a.th.PauseDeclineWarningPct, a.th.PauseDeclineRiskPct, a.classifyPause(current.MeanPauseDurationSec).Level)
	mlu := trend(KeyMLU, "문장 길이", baseline.MLU, current.MLU,
		false, a.th.MLUDeclineWarningPct, a.th.MLUDeclineRiskPct, a.classifySentenceLength(current.MLU).Level)

	cs := &ChangeSummary{
		SpeechRate:             rate,
		PauseDuration:          pause,
		MLU:                    mlu,
		OverallLevel:           combine(rate.Level, pause.Level, mlu.Level),
		WordCountChangePercent: percentChange(float64(baseline.TotalWords), float64(current.TotalWords)),
	}
	if -cs.WordCountChangePercent >= a.th.WordCountDropPct {
		cs.WordCountCaution = fmt.Sprintf("기준 녹음보다 발화 단어 수가 %.1f%% 줄었습니다. 말수가 줄어드는지 함께 살펴보세요.",
			-cs.WordCountChangePercent)
	}

	var reasons []string
	for _, d := range []TrendDetail{rate, pause, mlu} {
		if d.Level != LevelNormal {
			reasons = append(reasons, d.StatusText)
		}
	}
	if len(reasons) == 0 {
		cs.Rationale = "기준 녹음과 비교해 눈에 띄는 저하가 없습니다."
	} else {
		cs.Rationale = strings.Join(reasons, " ")
	}
	return cs
}

// trend builds the detail for one metric. increaseIsBad flips the sign so
// that decline is always positive. absolute is the level of the current value
// on its own and is used when a zero baseline leaves nothing to compare with.
func trend(key, label string, baseline, current float64, increaseIsBad bool, warnPct, riskPct float64, absolute Level) TrendDetail {
	change := percentChange(baseline, current)
	decline := -change
	if increaseIsBad {
		decline = change
	}

	d := TrendDetail{
		Key:           key,
		Label:         label,
		Baseline:      baseline,
		Current:       current,
		ChangePercent: change,
	}

	if baseline == 0 && current != baseline {
		worse := current < baseline
		if increaseIsBad {
			worse = current > baseline
		}
		d.Direction = DirectionImproved
		if worse {
			d.Direction = DirectionDeclined
		}
		d.Level = absolute
		if absolute == LevelNormal {
			d.StatusText = fmt.Sprintf("%s은(는) 기준 값이 0이라 비교할 수 없지만 현재 값은 정상 범위입니다.", label)
		} else {
			d.StatusText = fmt.Sprintf("%s은(는) 기준 값이 0이라 비교할 수 없으며 현재 값(%.1f)이 주의 범위입니다.", label, current)
		}
		return d
	}

	switch {
	case math.Abs(change) < stableBandPct:
		d.Direction = DirectionStable
	case decline > 0:
		d.Direction = DirectionDeclined
	default:
		d.Direction = DirectionImproved
	}

	switch {
	case decline >= riskPct:
		d.Level = LevelRisk
		d.StatusText = fmt.Sprintf("%s이(가) 기준 대비 %.1f%% 나빠졌습니다.", label, decline)
	case decline >= warnPct:
		d.Level = LevelWarning
		d.StatusText = fmt.Sprintf("%s이(가) 기준 대비 %.1f%% 다소 나빠졌습니다.", label, decline)
	case d.Direction == DirectionImproved:
		d.Level = LevelNormal
		d.StatusText = fmt.Sprintf("%s이(가) 기준 대비 %.1f%% 좋아졌습니다.", label, -decline)
	default:
		d.Level = LevelNormal
		d.StatusText = fmt.Sprintf("%s이(가) 기준과 비슷합니다.", label)
	}
	return d
}

// percentChange returns (current-baseline)/baseline in percent, or 0 when the
// baseline is zero.
func percentChange(baseline, current float64) float64 {
	if baseline == 0 {
		return 0
	}
	return round((current-baseline)/baseline*100, 2)
}
