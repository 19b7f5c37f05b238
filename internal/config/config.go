// Package config provides configuration management for graphsync.
//
// The config file describes how a source graph is mirrored: strictness of
// both graphs, the two pipes between them and how often they are pumped.
//
// Config file locations (priority order, see Candidates):
//  1. $GRAPHSYNC_CONFIG, a file or a directory holding graphsync.yaml
//  2. ./graphsync.yaml
//  3. $XDG_CONFIG_HOME/graphsync/graphsync.yaml
//  4. ~/.config/graphsync/graphsync.yaml
//  5. /etc/graphsync/graphsync.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"graphsync/internal/attribute"
)

// Suppression scopes accepted in pipe configs
var Suppressions = []string{"direction", "source", "replays", "none"}

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific file, or from graphsync.yaml
// when path is a directory. The returned path is the file actually read.
func LoadFromPath(path string) (*Config, string, error) {
	path = ResolvePath(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Parse decodes, completes and validates a config document
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns a mirror that forwards everything to the replica
// and lets the replica write back ui.* attributes only.
func DefaultConfig() *Config {
	cfg := &Config{
		Version: 1,
		Cadence: CadenceInteractive,
	}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Cadence == "" {
		c.Cadence = CadenceInteractive
	}

	if c.Pipes.ToReplica.Name == "" {
		c.Pipes.ToReplica.Name = "to-replica"
	}
	if c.Pipes.ToReplica.Suppression == "" {
		c.Pipes.ToReplica.Suppression = "direction"
	}

	// An untouched back pipe defaults to ui.* write-back
	if c.Pipes.ToSource.Name == "" {
		c.Pipes.ToSource.Name = "to-source"
		if len(c.Pipes.ToSource.AttributePrefixes) == 0 && !c.Pipes.ToSource.AttributeOnly {
			c.Pipes.ToSource.AttributePrefixes = []string{"ui."}
			c.Pipes.ToSource.AttributeOnly = true
		}
	}
	if c.Pipes.ToSource.Suppression == "" {
		c.Pipes.ToSource.Suppression = "direction"
	}
}

// Validate reports every problem of the config at once
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.Version != 1 {
		result = multierror.Append(result, fmt.Errorf("version: unsupported version %d", c.Version))
	}
	if !slices.Contains([]Cadence{CadenceRealtime, CadenceInteractive, CadenceBatch}, c.Cadence) {
		result = multierror.Append(result, fmt.Errorf("cadence: unknown cadence %q", c.Cadence))
	}
	if c.PumpInterval != nil && c.PumpInterval.Duration() <= 0 {
		result = multierror.Append(result, fmt.Errorf("pump_interval: must be positive, got %s", c.PumpInterval.Duration()))
	}
	if c.Logging.Verbosity < 0 {
		result = multierror.Append(result, fmt.Errorf("logging.verbosity: must not be negative"))
	}
	if c.Graph.ID != "" && c.Graph.ID == c.Mirror.ID {
		result = multierror.Append(result, fmt.Errorf("mirror.id: must differ from graph.id %q", c.Graph.ID))
	}
	if c.Pipes.ToReplica.Name == c.Pipes.ToSource.Name {
		result = multierror.Append(result, fmt.Errorf("pipes: both pipes are named %q", c.Pipes.ToReplica.Name))
	}

	if err := c.Pipes.ToReplica.validate("pipes.to_replica"); err != nil {
		result = multierror.Append(result, err)
	}
	if err := c.Pipes.ToSource.validate("pipes.to_source"); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

func (p PipeConfig) validate(field string) error {
	var result *multierror.Error

	if strings.TrimSpace(p.Name) == "" {
		result = multierror.Append(result, fmt.Errorf("%s.name: must not be empty", field))
	}
	if !slices.Contains(Suppressions, p.Suppression) {
		result = multierror.Append(result, fmt.Errorf("%s.suppression: unknown scope %q (want one of %s)", field, p.Suppression, strings.Join(Suppressions, ", ")))
	}
	for i, prefix := range p.AttributePrefixes {
		if prefix == "" {
			result = multierror.Append(result, fmt.Errorf("%s.attribute_prefixes[%d]: must not be empty", field, i))
		}
	}

	return result.ErrorOrNil()
}

// Filter returns the attribute filter of the pipe, nil when every
// attribute crosses it.
func (p PipeConfig) Filter() attribute.Filter {
	return attribute.Prefix(p.AttributePrefixes...)
}

// GraphStrict reports whether the source graph runs in strict mode
func (c *Config) GraphStrict() bool {
	if c.Graph.Strict == nil {
		return true
	}
	return *c.Graph.Strict
}

// MirrorStrict reports whether the replica graph runs in strict mode
func (c *Config) MirrorStrict() bool {
	if c.Mirror.Strict == nil {
		return false
	}
	return *c.Mirror.Strict
}

// EffectiveCadence returns the cadence profile with overrides applied
func (c *Config) EffectiveCadence() CadenceProfile {
	profile := c.Cadence.GetProfile()
	if c.PumpInterval != nil {
		profile.PumpInterval = c.PumpInterval.Duration()
	}
	return profile
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	cadence := c.EffectiveCadence()

	summary := fmt.Sprintf("Graph strict: %v, Mirror strict: %v\n", c.GraphStrict(), c.MirrorStrict())
	summary += fmt.Sprintf("Cadence: %s, Pump every: %s, Round delay: %s\n",
		c.Cadence, cadence.PumpInterval, cadence.RoundDelay)
	for _, p := range []PipeConfig{c.Pipes.ToReplica, c.Pipes.ToSource} {
		summary += fmt.Sprintf("Pipe %s: suppression=%s attribute_only=%v", p.Name, p.Suppression, p.AttributeOnly)
		if len(p.AttributePrefixes) > 0 {
			summary += fmt.Sprintf(" prefixes=%s", strings.Join(p.AttributePrefixes, ","))
		}
		summary += "\n"
	}

	return strings.TrimSuffix(summary, "\n")
}
