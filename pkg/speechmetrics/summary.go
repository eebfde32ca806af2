package speechmetrics

import (
	"fmt"
	"strings"
)

// Summarize classifies metrics using the default thresholds
func Summarize(m *Metrics) *Summary {
	return defaultAnalyzer.Summarize(m)
}

// Summarize classifies each metric and combines the bands into an overall
// level. It returns nil for nil metrics.
func (a *Analyzer) Summarize(m *Metrics) *Summary {
	if m == nil {
		return nil
	}

	rate := a.classifyRate(m.SpeechRateWPM)
	pause := a.classifyPause(m.MeanPauseDurationSec)
	length := a.classifySentenceLength(m.MLU)

	s := &Summary{
		SpeechRate:     rate,
		PauseDuration:  pause,
		SentenceLength: length,
		OverallLevel:   combine(rate.Level, pause.Level, length.Level),
	}

	var reasons []string
	for _, ms := range []MetricSummary{rate, pause, length} {
		if ms.Level != LevelNormal {
			reasons = append(reasons, ms.StatusText)
		}
	}

	if float64(m.TotalWords) < a.th.CriticalWordCount {
		s.OverallLevel = LevelCritical
		reasons = append(reasons, fmt.Sprintf("발화량이 %d단어로 매우 적습니다.", m.TotalWords))
	}
	if float64(m.TotalWords) < a.th.LowConfidenceWordCount {
		s.LowConfidence = true
		reasons = append(reasons, "녹음된 단어 수가 적어 분석 결과의 신뢰도가 낮습니다. 조금 더 길게 말씀해 주세요.")
	}

	if len(reasons) == 0 {
		s.Rationale = "말하기 속도, 쉼, 문장 길이가 모두 정상 범위입니다."
	} else {
		s.Rationale = strings.Join(reasons, " ")
	}
	s.Suggestions = suggestionsFor(s)
	return s
}

// combine rolls three bands into one: two risks make a risk, one risk or two
// warnings make a warning.
func combine(levels ...Level) Level {
	var risk, warning int
	for _, l := range levels {
		switch l {
		case LevelRisk:
			risk++
		case LevelWarning:
			warning++
		}
	}
	switch {
	case risk >= 2:
		return LevelRisk
	case risk >= 1 || warning >= 2:
		return LevelWarning
	default:
		return LevelNormal
	}
}

func (a *Analyzer) classifyRate(wpm float64) MetricSummary {
	ms := MetricSummary{Key: KeySpeechRate, Label: "말하기 속도"}
	switch {
	case wpm < a.th.RateRiskBelowWPM:
		ms.Level = LevelRisk
		ms.StatusText = fmt.Sprintf("말하기 속도가 분당 %.1f단어로 많이 느립니다.", wpm)
		ms.HelperText = "말이 느려지는 것은 단어를 떠올리는 데 시간이 걸린다는 신호일 수 있습니다."
	case wpm < a.th.RateWarningBelowWPM:
		ms.Level = LevelWarning
		ms.StatusText = fmt.Sprintf("말하기 속도가 분당 %.1f단어로 다소 느립니다.", wpm)
		ms.HelperText = "피곤하거나 긴장한 상태에서도 속도가 느려질 수 있으니 다음 녹음과 비교해 보세요."
	default:
		ms.Level = LevelNormal
		ms.StatusText = fmt.Sprintf("말하기 속도가 분당 %.1f단어로 적절합니다.", wpm)
		ms.HelperText = "평소와 같은 속도로 대화하고 있습니다."
	}
	return ms
}

func (a *Analyzer) classifyPause(sec float64) MetricSummary {
	ms := MetricSummary{Key: KeyPauseDuration, Label: "쉼 길이"}
	switch {
	case sec > a.th.PauseRiskAboveSec:
		ms.Level = LevelRisk
		ms.StatusText = fmt.Sprintf("평균 쉼이 %.1f초로 깁니다.", sec)
		ms.HelperText = "말하는 중간에 긴 쉼이 잦으면 단어 찾기에 어려움이 있을 수 있습니다."
	case sec > a.th.PauseWarningAboveSec:
		ms.Level = LevelWarning
		ms.StatusText = fmt.Sprintf("평균 쉼이 %.1f초로 조금 깁니다.", sec)
		ms.HelperText = "생각을 정리하느라 쉼이 길어질 수 있습니다. 변화 추이를 지켜보세요."
	default:
		ms.Level = LevelNormal
		ms.StatusText = fmt.Sprintf("평균 쉼이 %.1f초로 자연스럽습니다.", sec)
		ms.HelperText = "말 사이의 쉼이 자연스러운 범위에 있습니다."
	}
	return ms
}

func (a *Analyzer) classifySentenceLength(mlu float64) MetricSummary {
	ms := MetricSummary{Key: KeySentenceLength, Label: "문장 길이"}
	switch {
	case mlu < a.th.MLURiskBelow:
		ms.Level = LevelRisk
		ms.StatusText = fmt.Sprintf("한 번에 말하는 길이가 평균 %.1f단어로 짧습니다.", mlu)
		ms.HelperText = "문장이 짧게 끊기면 생각을 이어서 표현하기 어려운 상태일 수 있습니다."
	case mlu < a.th.MLUWarningBelow:
		ms.Level = LevelWarning
		ms.StatusText = fmt.Sprintf("한 번에 말하는 길이가 평균 %.1f단어로 다소 짧습니다.", mlu)
		ms.HelperText = "이야기를 조금 더 길게 이어가 보도록 격려해 주세요."
	default:
		ms.Level = LevelNormal
		ms.StatusText = fmt.Sprintf("한 번에 말하는 길이가 평균 %.1f단어로 충분합니다.", mlu)
		ms.HelperText = "생각을 길게 이어서 표현하고 있습니다."
	}
	return ms
}

func suggestionsFor(s *Summary) []string {
	var out []string
	if s.SpeechRate.Level != LevelNormal {
		out = append(out, "하루 10분씩 소리 내어 책이나 신문을 읽어 보세요.")
	}
	if s.PauseDuration.Level != LevelNormal {
		out = append(out, "사진을 보고 떠오르는 것을 설명하는 연습을 해 보세요.")
	}
	if s.SentenceLength.Level != LevelNormal {
		out = append(out, "오늘 있었던 일을 처음부터 끝까지 이야기하듯 일기로 남겨 보세요.")
	}
	if s.LowConfidence {
		out = append(out, "다음 녹음에서는 1분 이상 충분히 말씀해 주세요.")
	}
	switch s.OverallLevel {
	case LevelRisk, LevelCritical:
		out = append(out, "변화가 계속되면 전문 의료진과 상담해 보시기를 권합니다.")
	case LevelNormal:
		if len(out) == 0 {
			out = append(out, "지금처럼 꾸준히 대화하고 기록을 이어가세요.")
		}
	}
	return out
}
