// Package drift scores how far a user's newest event has moved from the
// one before it. The heuristic is a fixed linear one: each tracked meta
// field that changed between the two events adds a constant weight.
package drift

import (
	"sync/atomic"

	"github.com/driftwatch/driftwatch/internal/config"
	"github.com/driftwatch/driftwatch/internal/event"
	"github.com/driftwatch/driftwatch/internal/metrics"
)

// Risk bands, evaluated high to low against the configured thresholds.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// Result is the outcome of scoring one user.
type Result struct {
	Risk    string   `json:"risk"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// Scorer computes drift results. The scoring parameters can be swapped at
// runtime on config reload.
type Scorer struct {
	conf atomic.Pointer[config.ScoringConf]
}

// NewScorer creates a Scorer using conf.
func NewScorer(conf config.ScoringConf) *Scorer {
	s := &Scorer{}
	s.conf.Store(&conf)
	return s
}

// SwapConfig atomically replaces the scoring parameters (used on hot-reload).
func (s *Scorer) SwapConfig(conf config.ScoringConf) {
	s.conf.Store(&conf)
}

// Score compares the two most recent events in the history. Fewer than two
// events always yields score 0, risk Low. Reasons is an extension point and
// is currently always empty.
func (s *Scorer) Score(events []event.Event) Result {
	conf := s.conf.Load()

	score := 0
	if len(events) >= 2 {
		last := events[len(events)-1]
		prev := events[len(events)-2]
		for _, f := range event.TrackedFields {
			if event.MetaDiffers(last, prev, f.Key) {
				score += conf.FieldWeight
			}
		}
	}

	risk := RiskLow
	switch {
	case score >= conf.HighThreshold:
		risk = RiskHigh
	case score >= conf.MediumThreshold:
		risk = RiskMedium
	}

	metrics.DriftComputed.WithLabelValues(risk).Inc()
	return Result{Risk: risk, Score: score, Reasons: []string{}}
}
