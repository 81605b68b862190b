package event

import "reflect"

// Event is the canonical input model for all incoming events.
type Event struct {
	UserID string         `json:"user_id"`
	Kind   string         `json:"kind"` // "login", "session_start", etc.
	Meta   map[string]any `json:"meta"` // arbitrary session metadata
	TS     string         `json:"ts,omitempty"`
}

// TrackedField is one of the meta keys the scorers interpret. Everything
// else in Meta is opaque and preserved verbatim.
type TrackedField struct {
	Key   string // meta key, e.g. "dev_type"
	Token string // token name used by the fingerprint engine, e.g. "dev"
}

// TrackedFields lists the interpreted keys in the fixed order the
// fingerprint engine extracts them.
var TrackedFields = []TrackedField{
	{Key: "ip", Token: "ip"},
	{Key: "browser", Token: "browser"},
	{Key: "os", Token: "os"},
	{Key: "dev_type", Token: "dev"},
}

// MetaValue returns the meta value for key and whether the key is present.
// A present null is (nil, true), distinct from a missing key.
func (e Event) MetaValue(key string) (any, bool) {
	if e.Meta == nil {
		return nil, false
	}
	v, ok := e.Meta[key]
	return v, ok
}

// MetaString returns the meta value for key only if it is a string.
// Non-string values are treated as absent.
func (e Event) MetaString(key string) (string, bool) {
	v, ok := e.MetaValue(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// MetaDiffers reports whether a and b disagree on key. Presence counts:
// a missing key differs from any present value, including null. Present
// values are compared structurally, so nested meta survives the check.
func MetaDiffers(a, b Event, key string) bool {
	av, aok := a.MetaValue(key)
	bv, bok := b.MetaValue(key)
	if aok != bok {
		return true
	}
	if !aok {
		return false
	}
	return !reflect.DeepEqual(av, bv)
}
