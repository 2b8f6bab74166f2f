// Package metrics counts question generation activity in a private
// Prometheus registry.
package metrics

import (
	"fmt"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/abhisek/numeracy/internal/questiongen"
)

const namespace = "numeracy"

// Metrics implements questiongen.Recorder.
type Metrics struct {
	reg *prometheus.Registry

	generated *prometheus.CounterVec
	faults    *prometheus.CounterVec
	tests     *prometheus.CounterVec
}

var _ questiongen.Recorder = (*Metrics)(nil)

// New registers the counters in a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		generated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "questions_generated_total",
			Help:      "Questions generated, by topic",
		}, []string{"topic"}),
		faults: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_faults_total",
			Help:      "Recovered generation faults, by kind",
		}, []string{"kind"}),
		tests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tests_assembled_total",
			Help:      "Tests assembled, by type",
		}, []string{"type"}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

func (m *Metrics) QuestionGenerated(topic string) {
	m.generated.WithLabelValues(topic).Inc()
}

func (m *Metrics) Fault(kind questiongen.FaultKind) {
	m.faults.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) TestAssembled(kind string) {
	m.tests.WithLabelValues(kind).Inc()
}

// Summary renders every non-zero counter as "name{label="v"} n" lines,
// sorted.
func (m *Metrics) Summary() (string, error) {
	families, err := m.reg.Gather()
	if err != nil {
		return "", fmt.Errorf("gather metrics: %w", err)
	}
	var lines []string
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			v := metric.GetCounter().GetValue()
			if v == 0 {
				continue
			}
			var labels []string
			for _, lp := range metric.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), v))
		}
	}
	slices.Sort(lines)
	return strings.Join(lines, "\n"), nil
}
