package drift

import (
	"testing"

	"github.com/driftwatch/driftwatch/internal/config"
	"github.com/driftwatch/driftwatch/internal/event"
)

func defaultConf() config.ScoringConf {
	return config.ScoringConf{FieldWeight: 20, MediumThreshold: 30, HighThreshold: 60}
}

func withMeta(meta map[string]any) event.Event {
	return event.Event{UserID: "u1", Kind: "login", Meta: meta}
}

func TestScore(t *testing.T) {
	base := map[string]any{"ip": "1.1.1.1", "browser": "chrome", "os": "mac", "dev_type": "desktop"}

	cases := []struct {
		name      string
		events    []event.Event
		wantScore int
		wantRisk  string
	}{
		{
			name:      "no events",
			events:    nil,
			wantScore: 0,
			wantRisk:  RiskLow,
		},
		{
			name:      "single event",
			events:    []event.Event{withMeta(base)},
			wantScore: 0,
			wantRisk:  RiskLow,
		},
		{
			name: "identical events",
			events: []event.Event{
				withMeta(base),
				withMeta(map[string]any{"ip": "1.1.1.1", "browser": "chrome", "os": "mac", "dev_type": "desktop"}),
			},
			wantScore: 0,
			wantRisk:  RiskLow,
		},
		{
			name: "one field changed",
			events: []event.Event{
				withMeta(base),
				withMeta(map[string]any{"ip": "2.2.2.2", "browser": "chrome", "os": "mac", "dev_type": "desktop"}),
			},
			wantScore: 20,
			wantRisk:  RiskLow,
		},
		{
			name: "two fields changed",
			events: []event.Event{
				withMeta(base),
				withMeta(map[string]any{"ip": "2.2.2.2", "browser": "firefox", "os": "mac", "dev_type": "desktop"}),
			},
			wantScore: 40,
			wantRisk:  RiskMedium,
		},
		{
			name: "three fields changed",
			events: []event.Event{
				withMeta(base),
				withMeta(map[string]any{"ip": "2.2.2.2", "browser": "firefox", "os": "linux", "dev_type": "desktop"}),
			},
			wantScore: 60,
			wantRisk:  RiskHigh,
		},
		{
			name: "all fields changed",
			events: []event.Event{
				withMeta(base),
				withMeta(map[string]any{"ip": "2.2.2.2", "browser": "firefox", "os": "linux", "dev_type": "mobile"}),
			},
			wantScore: 80,
			wantRisk:  RiskHigh,
		},
		{
			name: "missing key differs from present",
			events: []event.Event{
				withMeta(map[string]any{"ip": "1.1.1.1"}),
				withMeta(map[string]any{}),
			},
			wantScore: 20,
			wantRisk:  RiskLow,
		},
		{
			name: "present null differs from missing",
			events: []event.Event{
				withMeta(map[string]any{"ip": nil}),
				withMeta(map[string]any{}),
			},
			wantScore: 20,
			wantRisk:  RiskLow,
		},
		{
			name: "both missing is not a change",
			events: []event.Event{
				withMeta(map[string]any{}),
				withMeta(map[string]any{}),
			},
			wantScore: 0,
			wantRisk:  RiskLow,
		},
		{
			name: "untracked keys are ignored",
			events: []event.Event{
				withMeta(map[string]any{"ip": "1.1.1.1", "session": "a"}),
				withMeta(map[string]any{"ip": "1.1.1.1", "session": "b"}),
			},
			wantScore: 0,
			wantRisk:  RiskLow,
		},
		{
			name: "only two newest events are compared",
			events: []event.Event{
				withMeta(map[string]any{"ip": "9.9.9.9", "browser": "edge", "os": "windows", "dev_type": "tablet"}),
				withMeta(base),
				withMeta(base),
			},
			wantScore: 0,
			wantRisk:  RiskLow,
		},
		{
			name: "non-string values compared structurally",
			events: []event.Event{
				withMeta(map[string]any{"dev_type": map[string]any{"class": "desktop"}}),
				withMeta(map[string]any{"dev_type": map[string]any{"class": "mobile"}}),
			},
			wantScore: 20,
			wantRisk:  RiskLow,
		},
	}

	s := NewScorer(defaultConf())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Score(tc.events)
			if got.Score != tc.wantScore {
				t.Errorf("Score = %d, want %d", got.Score, tc.wantScore)
			}
			if got.Risk != tc.wantRisk {
				t.Errorf("Risk = %q, want %q", got.Risk, tc.wantRisk)
			}
			if got.Reasons == nil || len(got.Reasons) != 0 {
				t.Errorf("Reasons = %v, want empty non-nil list", got.Reasons)
			}
		})
	}
}

func TestScore_Idempotent(t *testing.T) {
	events := []event.Event{
		withMeta(map[string]any{"ip": "1.1.1.1"}),
		withMeta(map[string]any{"ip": "2.2.2.2"}),
	}
	s := NewScorer(defaultConf())
	first := s.Score(events)
	second := s.Score(events)
	if first.Score != second.Score || first.Risk != second.Risk {
		t.Errorf("scoring not idempotent: %+v vs %+v", first, second)
	}
}

func TestSwapConfig(t *testing.T) {
	events := []event.Event{
		withMeta(map[string]any{"ip": "1.1.1.1"}),
		withMeta(map[string]any{"ip": "2.2.2.2"}),
	}
	s := NewScorer(defaultConf())
	if got := s.Score(events); got.Score != 20 {
		t.Fatalf("Score = %d, want 20", got.Score)
	}

	s.SwapConfig(config.ScoringConf{FieldWeight: 50, MediumThreshold: 30, HighThreshold: 60})
	got := s.Score(events)
	if got.Score != 50 {
		t.Errorf("Score after swap = %d, want 50", got.Score)
	}
	if got.Risk != RiskMedium {
		t.Errorf("Risk after swap = %q, want %q", got.Risk, RiskMedium)
	}
}
