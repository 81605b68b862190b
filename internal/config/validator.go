package config

import (
	"fmt"
	"strings"
)

// Validate checks the config for:
//   - Required fields
//   - A positive per-field weight
//   - Ordered, positive risk thresholds
func Validate(cfg *Config) error {
	if cfg.Version == "" {
		return fmt.Errorf("config: version is required")
	}
	var errs []string

	if cfg.Store.Path == "" {
		errs = append(errs, "store.path must not be empty")
	}
	sc := cfg.Scoring
	if sc.FieldWeight <= 0 {
		errs = append(errs, fmt.Sprintf("scoring.field_weight must be positive, got %d", sc.FieldWeight))
	}
	if sc.MediumThreshold <= 0 {
		errs = append(errs, fmt.Sprintf("scoring.medium_threshold must be positive, got %d", sc.MediumThreshold))
	}
	if sc.HighThreshold < sc.MediumThreshold {
		errs = append(errs, fmt.Sprintf("scoring.high_threshold (%d) must not be below medium_threshold (%d)",
			sc.HighThreshold, sc.MediumThreshold))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
