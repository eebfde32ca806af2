package speech

import (
	"math"

	"github.com/johnquangdev/memory-care/pkg/speechmetrics"
)

// WordRequest is one recognised word. Missing timings are treated as unusable.
type WordRequest struct {
	Word  string   `json:"word" validate:"max=200"`
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

// MetricsRequest represents the request to analyse a raw transcript
type MetricsRequest struct {
	Words []WordRequest `json:"words" validate:"max=50000,dive"`
}

// CompareRequest represents the request to compare two metric sets
type CompareRequest struct {
	Baseline *speechmetrics.Metrics `json:"baseline" validate:"required"`
	Current  *speechmetrics.Metrics `json:"current" validate:"required"`
}

// ToWords converts the request into calculator input
func (r *MetricsRequest) ToWords() []speechmetrics.Word {
	words := make([]speechmetrics.Word, 0, len(r.Words))
	for _, w := range r.Words {
		word := speechmetrics.Word{Word: w.Word, Start: math.NaN(), End: math.NaN()}
		if w.Start != nil {
			word.Start = *w.Start
		}
		if w.End != nil {
			word.End = *w.End
		}
		words = append(words, word)
	}
	return words
}
