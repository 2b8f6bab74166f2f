package scoring

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownYear is returned for a year level without a test configuration.
var ErrUnknownYear = errors.New("unknown year level")

// Focus tests are the same for every year.
const (
	FocusQuestionCount = 10
	FocusTimeLimit     = 15 * time.Minute
)

// TestType distinguishes a full practice test from a single-topic one.
type TestType string

const (
	TestFull  TestType = "full"
	TestFocus TestType = "focus"
)

// TestConfig describes a full practice test for one year level.
type TestConfig struct {
	Year          int
	QuestionCount int
	TimeLimit     time.Duration

	// CalculatorFrom is the 1-based question number from which a calculator
	// may be used. Zero means never.
	CalculatorFrom int
}

// CalculatorAllowed reports whether a calculator is available for the
// question at the given 0-based index.
func (c TestConfig) CalculatorAllowed(index int) bool {
	return c.CalculatorFrom > 0 && index+1 >= c.CalculatorFrom
}

var testConfigs = map[int]TestConfig{
	3: {Year: 3, QuestionCount: 35, TimeLimit: 45 * time.Minute},
	5: {Year: 5, QuestionCount: 40, TimeLimit: 50 * time.Minute},
	7: {Year: 7, QuestionCount: 48, TimeLimit: 60 * time.Minute, CalculatorFrom: 9},
}

// Years lists the supported year levels in ascending order.
func Years() []int {
	return []int{3, 5, 7}
}

// ConfigFor returns the full-test configuration for a year level.
func ConfigFor(year int) (TestConfig, error) {
	cfg, ok := testConfigs[year]
	if !ok {
		return TestConfig{}, fmt.Errorf("config for year %d: %w", year, ErrUnknownYear)
	}
	return cfg, nil
}

// FocusConfig returns the configuration of a focus test for a year level.
// Focus tests never allow a calculator.
func FocusConfig(year int) TestConfig {
	return TestConfig{Year: year, QuestionCount: FocusQuestionCount, TimeLimit: FocusTimeLimit}
}
