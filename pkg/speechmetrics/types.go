package speechmetrics

// Word is a single timed token from a speech-to-text provider.
// Start and End are seconds from the beginning of the recording.
// A missing timestamp is represented as NaN.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Transcript is the input of Calculate
type Transcript struct {
	Words []Word `json:"words"`
}

// Metrics is the linguistic snapshot of one recording
type Metrics struct {
	SpeechRateWPM        float64 `json:"speech_rate_wpm"`
	MeanPauseDurationSec float64 `json:"mean_pause_duration_sec"`
	PausesPerMinute      float64 `json:"pauses_per_minute"`
	MLU                  float64 `json:"mlu"`
	TTR                  float64 `json:"ttr"`
	TotalWords           int     `json:"total_words"`
	SpeakingDurationSec  float64 `json:"speaking_duration_sec"`
	UtteranceCount       int     `json:"utterance_count"`
	PauseCount           int     `json:"pause_count"`
}

// Level is a qualitative band
type Level string

const (
	LevelNormal   Level = "normal"
	LevelWarning  Level = "warning"
	LevelRisk     Level = "risk"
	LevelCritical Level = "critical" // only as an overall level
)

// Metric keys shared by summaries, trends and exports
const (
	KeySpeechRate     = "speech_rate"
	KeyPauseDuration  = "pause_duration"
	KeySentenceLength = "sentence_length"
	KeyMLU            = "mlu"
)

// MetricSummary is the judgment for a single metric
type MetricSummary struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	Level      Level  `json:"level"`
	StatusText string `json:"status_text"`
	HelperText string `json:"helper_text"`
}

// Summary combines the per-metric judgments into an overall level
type Summary struct {
	SpeechRate     MetricSummary `json:"speech_rate"`
	PauseDuration  MetricSummary `json:"pause_duration"`
	SentenceLength MetricSummary `json:"sentence_length"`
	OverallLevel   Level         `json:"overall_level"`
	Rationale      string        `json:"rationale"`
	Suggestions    []string      `json:"suggestions"`
	LowConfidence  bool          `json:"low_confidence"`
}

// Direction tells whether a metric moved toward or away from healthy speech
type Direction string

const (
	DirectionImproved Direction = "improved"
	DirectionStable   Direction = "stable"
	DirectionDeclined Direction = "declined"
)

// TrendDetail compares one metric against the baseline
type TrendDetail struct {
	Key           string    `json:"key"`
	Label         string    `json:"label"`
	Baseline      float64   `json:"baseline"`
	Current       float64   `json:"current"`
	ChangePercent float64   `json:"change_percent"`
	Direction     Direction `json:"direction"`
	Level         Level     `json:"level"`
	StatusText    string    `json:"status_text"`
}

// ChangeSummary is the baseline-vs-current comparison of a recording
type ChangeSummary struct {
	SpeechRate             TrendDetail `json:"speech_rate"`
	PauseDuration          TrendDetail `json:"pause_duration"`
	MLU                    TrendDetail `json:"mlu"`
	OverallLevel           Level       `json:"overall_level"`
	WordCountChangePercent float64     `json:"word_count_change_percent"`
	WordCountCaution       string      `json:"word_count_caution,omitempty"`
	Rationale              string      `json:"rationale"`
}
