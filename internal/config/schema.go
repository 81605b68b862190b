package config

// Config is the top-level YAML structure.
type Config struct {
	Version string      `yaml:"version"`
	Server  ServerConf  `yaml:"server"`
	Store   StoreConf   `yaml:"store"`
	Scoring ScoringConf `yaml:"scoring"`
}

// ServerConf holds HTTP listener settings.
type ServerConf struct {
	Addr string `yaml:"addr"`
}

// StoreConf holds persistence settings.
type StoreConf struct {
	Path string `yaml:"path"`
}

// ScoringConf holds the tunable parameters of the drift and fingerprint
// heuristics. FieldWeight is the score added per differing tracked field;
// the thresholds classify a drift score into risk bands.
type ScoringConf struct {
	FieldWeight     int `yaml:"field_weight"`
	MediumThreshold int `yaml:"medium_threshold"`
	HighThreshold   int `yaml:"high_threshold"`
}
