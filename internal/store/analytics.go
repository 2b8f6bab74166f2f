package store

import (
	"context"
	"math"
	"slices"

	"github.com/abhisek/numeracy/internal/scoring"
)

// YearStats summarises one year level.
type YearStats struct {
	Year           int     `json:"year"`
	Students       int     `json:"students"`
	TestsTaken     int     `json:"testsTaken"`
	AveragePercent float64 `json:"averagePercent"`
}

// Analytics is the admin overview across all students.
type Analytics struct {
	TotalStudents int                 `json:"totalStudents"`
	TotalTests    int                 `json:"totalTests"`
	Years         []YearStats         `json:"years"`
	Topics        []scoring.TopicStat `json:"topics"`
	WeakTopics    []scoring.TopicStat `json:"weakTopics"`
}

// Analytics aggregates results per year level and per topic. Topics are
// listed weakest first.
func (s *Store) Analytics(ctx context.Context) (*Analytics, error) {
	students, err := s.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	byStudent, err := s.allResults(ctx)
	if err != nil {
		return nil, err
	}

	type acc struct {
		students, tests int
		sum             float64
	}
	years := make(map[int]*acc)
	var all []scoring.TestResult
	for _, st := range students {
		a := years[st.YearLevel]
		if a == nil {
			a = &acc{}
			years[st.YearLevel] = a
		}
		a.students++
		for _, r := range byStudent[st.ID] {
			a.tests++
			a.sum += r.Percentage
			all = append(all, r)
		}
	}

	out := &Analytics{
		TotalStudents: len(students),
		TotalTests:    len(all),
		Topics:        scoring.MergeTopics(all),
		WeakTopics:    scoring.WeakTopics(all),
	}
	for y, a := range years {
		ys := YearStats{Year: y, Students: a.students, TestsTaken: a.tests}
		if a.tests > 0 {
			ys.AveragePercent = math.Round(a.sum/float64(a.tests)*10) / 10
		}
		out.Years = append(out.Years, ys)
	}
	slices.SortFunc(out.Years, func(a, b YearStats) int { return a.Year - b.Year })
	return out, nil
}
