package output

import (
	"strconv"
	"unicode/utf8"
)

// charsPerToken approximates how much report text one LLM token covers.
const charsPerToken = 4

// Tokens is an approximate LLM token count.
type Tokens int

// EstimateTokens approximates the number of tokens an agent spends reading
// text, rounding up.
func EstimateTokens(text string) Tokens {
	n := utf8.RuneCountInString(text)
	return Tokens((n + charsPerToken - 1) / charsPerToken)
}

// String formats the count as 950, 1.5k or 2.3M.
func (t Tokens) String() string {
	switch {
	case t < 1000:
		return strconv.Itoa(int(t))
	case t < 1_000_000:
		return strconv.FormatFloat(float64(t)/1e3, 'f', 1, 64) + "k"
	default:
		return strconv.FormatFloat(float64(t)/1e6, 'f', 1, 64) + "M"
	}
}
