// Package scoring marks student answers and turns a finished test into a
// result with a percentage, a band score and a per-topic breakdown.
package scoring

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/abhisek/numeracy/internal/questiongen"
)

// Tolerance is the largest difference at which two numeric answers are
// still equal.
const Tolerance = 0.01

// NoAnswer is what FormatAnswer shows for an unanswered question.
const NoAnswer = "(No answer)"

var (
	currencySymbols = regexp.MustCompile(`[$€£¥¢]`)
	unitWords       = regexp.MustCompile(`\b(dollars?|cents?|mm|cm|m|km|g|kg|ml|l|litres?|meters?|grams?)\b`)
	numericInput    = regexp.MustCompile(`^-?\d*\.?\d+$|^\d+/\d+$`)
	inputNoise      = regexp.MustCompile(`[$€£¥,\s]`)
	leadingNumber   = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)(e[+-]?\d+)?`)
)

// normalized is an answer reduced to either a number or a lower-case string.
type normalized struct {
	num     float64
	str     string
	numeric bool
}

func (n normalized) text() string {
	if n.numeric {
		return strconv.FormatFloat(n.num, 'f', -1, 64)
	}
	return n.str
}

func normalize(answer string) normalized {
	s := strings.ToLower(strings.TrimSpace(answer))
	s = currencySymbols.ReplaceAllString(s, "")
	s = strings.TrimSpace(unitWords.ReplaceAllString(s, ""))

	if n, d, ok := strings.Cut(s, "/"); ok {
		num, ok1 := parseLeading(n)
		den, ok2 := parseLeading(d)
		if ok1 && ok2 && den != 0 {
			return normalized{num: num / den, numeric: true}
		}
	}
	if f, ok := parseLeading(s); ok {
		return normalized{num: f, numeric: true}
	}
	return normalized{str: s}
}

// parseLeading reads the number at the start of s, so "5 apples" is 5.
// Whatever follows must start with a space or a letter: "9:30" and
// "1,200" stay text.
func parseLeading(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	if rest := s[len(m):]; rest != "" {
		r, _ := utf8.DecodeRuneInString(rest)
		if !unicode.IsSpace(r) && !unicode.IsLetter(r) {
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// CheckAnswer reports whether a student's answer matches the correct one.
// Currency symbols and unit words are ignored, "n/d" fractions compare
// by value and numbers match within Tolerance. Anything else is compared
// as case-insensitive text. An empty answer is always wrong.
func CheckAnswer(student, correct string, answerType questiongen.AnswerType) bool {
	if strings.TrimSpace(student) == "" {
		return false
	}
	if answerType == questiongen.AnswerMultipleChoice && strings.EqualFold(strings.TrimSpace(student), strings.TrimSpace(correct)) {
		return true
	}

	s, c := normalize(student), normalize(correct)
	if s.numeric && c.numeric {
		return math.Abs(s.num-c.num) <= Tolerance
	}
	return s.text() == c.text()
}

// FormatAnswer renders an answer for the review table. Numeric answers,
// fractions included, show as whole numbers or to 2 places once currency
// and units are dropped; anything else is shown as given.
func FormatAnswer(answer string) string {
	if strings.TrimSpace(answer) == "" {
		return NoAnswer
	}
	n := normalize(answer)
	if !n.numeric {
		return answer
	}
	if n.num == math.Trunc(n.num) {
		return strconv.FormatFloat(n.num, 'f', -1, 64)
	}
	return strconv.FormatFloat(n.num, 'f', 2, 64)
}

// IsAnswered reports whether the answer holds anything but whitespace.
func IsAnswered(answer string) bool {
	return strings.TrimSpace(answer) != ""
}

// ValidNumericInput reports whether s looks like a number or a simple
// fraction once currency symbols, commas and spaces are removed.
func ValidNumericInput(s string) bool {
	cleaned := inputNoise.ReplaceAllString(s, "")
	if cleaned == "" {
		return false
	}
	return numericInput.MatchString(cleaned)
}
