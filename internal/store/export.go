package store

import (
	"context"
	"time"

	"github.com/abhisek/numeracy/internal/scoring"
)

// StudentExport is one student together with their results.
type StudentExport struct {
	Student
	Tests []scoring.TestResult `json:"tests"`
}

// Export is the document written by ExportAll.
type Export struct {
	Students   []StudentExport `json:"students"`
	ExportDate time.Time       `json:"exportDate"`
}

// ExportAll collects every student and result into one document.
func (s *Store) ExportAll(ctx context.Context) (*Export, error) {
	students, err := s.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	results, err := s.allResults(ctx)
	if err != nil {
		return nil, err
	}

	out := &Export{
		Students:   make([]StudentExport, 0, len(students)),
		ExportDate: s.now().UTC(),
	}
	for _, st := range students {
		tests := results[st.ID]
		if tests == nil {
			tests = []scoring.TestResult{}
		}
		out.Students = append(out.Students, StudentExport{Student: st, Tests: tests})
	}
	return out, nil
}
