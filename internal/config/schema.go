package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version      int           `yaml:"version"`
	Graph        GraphConfig   `yaml:"graph"`
	Mirror       MirrorConfig  `yaml:"mirror"`
	Pipes        PipesConfig   `yaml:"pipes"`
	Cadence      Cadence       `yaml:"cadence"`
	PumpInterval *Duration     `yaml:"pump_interval,omitempty"` // nil = use cadence profile
	Logging      LoggingConfig `yaml:"logging"`
}

// GraphConfig holds settings of the source graph
type GraphConfig struct {
	ID     string `yaml:"id,omitempty"`
	Strict *bool  `yaml:"strict,omitempty"` // nil = strict
}

// MirrorConfig holds settings of the replica graph
type MirrorConfig struct {
	ID     string `yaml:"id,omitempty"`
	Strict *bool  `yaml:"strict,omitempty"` // nil = non-strict
}

// PipesConfig holds both directions of a mirror
type PipesConfig struct {
	ToReplica PipeConfig `yaml:"to_replica"`
	ToSource  PipeConfig `yaml:"to_source"`
}

// PipeConfig holds the settings of one pipe
type PipeConfig struct {
	Name              string   `yaml:"name"`
	AttributePrefixes []string `yaml:"attribute_prefixes,omitempty"` // empty = every attribute
	AttributeOnly     bool     `yaml:"attribute_only"`
	Suppression       string   `yaml:"suppression"`
}

// LoggingConfig holds log settings
type LoggingConfig struct {
	Verbosity int `yaml:"verbosity"` // glog -v level
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
