package workflow

import (
	"sync"
	"time"

	"github.com/whuang/agentlab/internal/model/workflow"
)

// StepStats is a point-in-time snapshot of one step kind's execution
// record, exposed by the status endpoint.
type StepStats struct {
	Runs        int     `json:"runs"`
	Failures    int     `json:"failures"`
	SuccessRate float64 `json:"successRate"`
	AvgSeconds  float64 `json:"avgSeconds"`
}

type stepMetrics struct {
	runs     int
	failures int
	total    time.Duration
}

// metrics accumulates per-step execution counters across all sessions.
type metrics struct {
	mu      sync.Mutex
	perStep map[workflow.StepKind]*stepMetrics
}

func newMetrics() *metrics {
	return &metrics{perStep: make(map[workflow.StepKind]*stepMetrics)}
}

func (m *metrics) record(step workflow.StepKind, elapsed time.Duration, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sm, ok := m.perStep[step]
	if !ok {
		sm = &stepMetrics{}
		m.perStep[step] = sm
	}
	sm.runs++
	sm.total += elapsed
	if failed {
		sm.failures++
	}
}

func (m *metrics) snapshot() map[workflow.StepKind]StepStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[workflow.StepKind]StepStats, len(m.perStep))
	for step, sm := range m.perStep {
		stats := StepStats{Runs: sm.runs, Failures: sm.failures}
		if sm.runs > 0 {
			stats.SuccessRate = float64(sm.runs-sm.failures) / float64(sm.runs)
			stats.AvgSeconds = sm.total.Seconds() / float64(sm.runs)
		}
		out[step] = stats
	}
	return out
}
