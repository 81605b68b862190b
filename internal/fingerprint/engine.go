// Package fingerprint derives a device-signature hash and a volatility
// score from a user's full event history.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync/atomic"

	"github.com/driftwatch/driftwatch/internal/config"
	"github.com/driftwatch/driftwatch/internal/event"
	"github.com/driftwatch/driftwatch/internal/metrics"
)

// Profile summarizes a user's device signature.
type Profile struct {
	UserID      string           `json:"user_id"`
	Fingerprint string           `json:"fingerprint"`
	Tokens      []string         `json:"tokens"`
	Stability   int              `json:"stability"`
	History     []map[string]any `json:"history"`
}

// Engine computes fingerprint profiles. The per-field change weight is
// shared with the drift scorer and swapped on config reload.
type Engine struct {
	conf atomic.Pointer[config.ScoringConf]
}

// NewEngine creates an Engine using conf.
func NewEngine(conf config.ScoringConf) *Engine {
	e := &Engine{}
	e.conf.Store(&conf)
	return e
}

// SwapConfig atomically replaces the scoring parameters (used on hot-reload).
func (e *Engine) SwapConfig(conf config.ScoringConf) {
	e.conf.Store(&conf)
}

// Profile builds the profile for userID from its event history. Tokens and
// the hash come from the most recent event only; stability scans every
// consecutive pair in the full history.
func (e *Engine) Profile(userID string, events []event.Event) Profile {
	conf := e.conf.Load()

	tokens := extractTokens(events)

	history := make([]map[string]any, 0, len(events))
	for _, ev := range events {
		history = append(history, ev.Meta)
	}

	metrics.FingerprintsComputed.Inc()
	return Profile{
		UserID:      userID,
		Fingerprint: hashTokens(tokens),
		Tokens:      tokens,
		Stability:   stability(events, conf.FieldWeight),
		History:     history,
	}
}

// extractTokens builds the ordered token list from the latest event.
// Only string-typed meta values qualify; absent fields contribute nothing.
func extractTokens(events []event.Event) []string {
	tokens := []string{}
	if len(events) == 0 {
		return tokens
	}
	last := events[len(events)-1]
	for _, f := range event.TrackedFields {
		if v, ok := last.MetaString(f.Key); ok {
			tokens = append(tokens, f.Token+":"+v)
		}
	}
	return tokens
}

// hashTokens renders the token list as JSON (deterministic and
// order-preserving) and returns the sha256 of those bytes as lowercase hex.
func hashTokens(tokens []string) string {
	raw, _ := json.Marshal(tokens)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// stability tallies weight per differing tracked field over every
// consecutive pair of events and subtracts the tally from 100, clamped at
// zero. Histories of 0 or 1 event have no transitions and score 100.
func stability(events []event.Event, weight int) int {
	changes := 0
	for i := 1; i < len(events); i++ {
		for _, f := range event.TrackedFields {
			if event.MetaDiffers(events[i-1], events[i], f.Key) {
				changes++
			}
		}
	}
	score := 100 - changes*weight
	if score < 0 {
		return 0
	}
	return score
}
