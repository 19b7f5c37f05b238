package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

func TestParseCadence(t *testing.T) {
	tests := []struct {
		input string
		want  Cadence
	}{
		{"realtime", CadenceRealtime},
		{"interactive", CadenceInteractive},
		{"batch", CadenceBatch},
		{"invalid", CadenceInteractive}, // Default
		{"", CadenceInteractive},        // Default
	}

	for _, tt := range tests {
		if got := ParseCadence(tt.input); got != tt.want {
			t.Errorf("ParseCadence(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestCadenceGetProfile(t *testing.T) {
	for _, c := range []Cadence{CadenceRealtime, CadenceInteractive, CadenceBatch} {
		if c.GetProfile().PumpInterval <= 0 {
			t.Errorf("Cadence(%s).GetProfile().PumpInterval should be positive", c)
		}
	}

	if CadenceRealtime.GetProfile().PumpInterval >= CadenceBatch.GetProfile().PumpInterval {
		t.Error("realtime cadence should pump more often than batch")
	}
	if Cadence("bogus").GetProfile() != CadenceInteractive.GetProfile() {
		t.Error("unknown cadence should fall back to interactive")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if !cfg.GraphStrict() {
		t.Error("source graph should be strict by default")
	}
	if cfg.MirrorStrict() {
		t.Error("mirror should be non-strict by default")
	}
	if cfg.Pipes.ToReplica.Filter() != nil {
		t.Error("to_replica should forward every attribute")
	}
	if !cfg.Pipes.ToSource.AttributeOnly {
		t.Error("to_source should be attribute only")
	}

	f := cfg.Pipes.ToSource.Filter()
	if !f.Accepts("ui.color") || f.Accepts("weight") {
		t.Error("to_source should only accept ui.* attributes")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestEffectiveCadence(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.EffectiveCadence().PumpInterval; got != CadenceInteractive.GetProfile().PumpInterval {
		t.Errorf("PumpInterval = %s, want interactive profile", got)
	}

	cfg.Cadence = CadenceBatch
	if got := cfg.EffectiveCadence().PumpInterval; got != time.Second {
		t.Errorf("PumpInterval = %s, want 1s", got)
	}

	override := Duration(250 * time.Millisecond)
	cfg.PumpInterval = &override
	profile := cfg.EffectiveCadence()
	if profile.PumpInterval != 250*time.Millisecond {
		t.Errorf("PumpInterval = %s, want 250ms", profile.PumpInterval)
	}
	if profile.RoundDelay != time.Second/4 {
		t.Errorf("RoundDelay = %s, override should keep the cadence's other settings", profile.RoundDelay)
	}
}

func TestParse(t *testing.T) {
	t.Run("partial document gets defaults", func(t *testing.T) {
		cfg, err := Parse([]byte(`
graph:
  id: source
  strict: false
mirror:
  id: replica
pipes:
  to_replica:
    attribute_prefixes: ["ui.", "layout."]
pump_interval: 50ms
`))
		if err != nil {
			t.Fatalf("Parse() error: %v", err)
		}
		if cfg.GraphStrict() {
			t.Error("graph.strict should be false")
		}
		if cfg.Pipes.ToReplica.Name != "to-replica" {
			t.Errorf("to_replica name = %q", cfg.Pipes.ToReplica.Name)
		}
		if cfg.Pipes.ToReplica.Suppression != "direction" {
			t.Errorf("to_replica suppression = %q", cfg.Pipes.ToReplica.Suppression)
		}
		if got := cfg.EffectiveCadence().PumpInterval; got != 50*time.Millisecond {
			t.Errorf("PumpInterval = %s, want 50ms", got)
		}
		if !cfg.Pipes.ToReplica.Filter().Accepts("layout.x") {
			t.Error("to_replica should accept layout.x")
		}
	})

	t.Run("every problem is reported", func(t *testing.T) {
		_, err := Parse([]byte(`
version: 2
graph:
  id: same
mirror:
  id: same
pipes:
  to_replica:
    name: both
    suppression: sometimes
  to_source:
    name: both
    attribute_prefixes: [""]
pump_interval: 0s
logging:
  verbosity: -1
`))
		if err == nil {
			t.Fatal("Parse() should fail")
		}

		var merr *multierror.Error
		if !errors.As(err, &merr) {
			t.Fatalf("error should wrap a multierror, got %T", err)
		}
		if len(merr.Errors) != 7 {
			t.Errorf("got %d errors, want 7: %v", len(merr.Errors), err)
		}
		for _, want := range []string{"version", "mirror.id", "pipes.to_replica.suppression", "attribute_prefixes[0]", "pump_interval", "verbosity", "both pipes"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("error should mention %q: %v", want, err)
			}
		}
	})

	t.Run("bad duration", func(t *testing.T) {
		if _, err := Parse([]byte("pump_interval: soon\n")); err == nil {
			t.Error("Parse() should reject an invalid duration")
		}
	})
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	strict := true
	cfg.Mirror.Strict = &strict
	cfg.Cadence = CadenceRealtime
	cfg.Pipes.ToSource.AttributePrefixes = []string{"ui.", "sel."}

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}
	if !loaded.MirrorStrict() {
		t.Error("mirror should be strict")
	}
	if loaded.Cadence != CadenceRealtime {
		t.Errorf("Cadence = %s, want %s", loaded.Cadence, CadenceRealtime)
	}
	if len(loaded.Pipes.ToSource.AttributePrefixes) != 2 {
		t.Errorf("to_source prefixes = %v", loaded.Pipes.ToSource.AttributePrefixes)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("LoadFromPath() should fail for a missing file")
	}
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))

	if found := FindConfigPath(); found != "" {
		t.Fatalf("FindConfigPath() = %s, want nothing in an empty tree", found)
	}

	xdgPath := filepath.Join(tmpDir, "xdg", ConfigDirName, ConfigFileName)
	if err := DefaultConfig().Save(xdgPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if found := FindConfigPath(); found != xdgPath {
		t.Errorf("FindConfigPath() = %s, want %s", found, xdgPath)
	}

	// Working directory beats XDG
	if err := DefaultConfig().Save(filepath.Join(tmpDir, ConfigFileName)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if found := FindConfigPath(); found == xdgPath || filepath.Base(found) != ConfigFileName {
		t.Errorf("FindConfigPath() = %s, want the working directory file", found)
	}

	// A missing explicit path falls back
	t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
	if found := FindConfigPath(); found == "" || found == "/nonexistent/path.yaml" {
		t.Errorf("FindConfigPath() = %q, should fall back when env path doesn't exist", found)
	}

	explicit := filepath.Join(tmpDir, "explicit.yaml")
	if err := os.WriteFile(explicit, []byte("version: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, explicit)
	if found := FindConfigPath(); found != explicit {
		t.Errorf("FindConfigPath() = %s, want %s", found, explicit)
	}

	// The env var may name a directory
	t.Setenv(EnvConfigPath, filepath.Dir(xdgPath))
	if found := FindConfigPath(); found != xdgPath {
		t.Errorf("FindConfigPath() = %s, want %s", found, xdgPath)
	}
}

func TestCandidates(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/someone")

	var origins []Origin
	for _, c := range Candidates() {
		origins = append(origins, c.Origin)
	}
	want := []Origin{OriginCwd, OriginHome, OriginSystem}
	if len(origins) != len(want) {
		t.Fatalf("Candidates() origins = %v, want %v", origins, want)
	}
	for i := range want {
		if origins[i] != want[i] {
			t.Errorf("Candidates()[%d] = %s, want %s", i, origins[i], want[i])
		}
	}
}

func TestLoadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Cadence = CadenceBatch
	if err := cfg.Save(filepath.Join(dir, ConfigFileName)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, path, err := LoadFromPath(dir)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != filepath.Join(dir, ConfigFileName) {
		t.Errorf("path = %s, want the file inside the directory", path)
	}
	if loaded.Cadence != CadenceBatch {
		t.Errorf("Cadence = %s, want %s", loaded.Cadence, CadenceBatch)
	}
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)

	if d.Duration() != 5*time.Minute {
		t.Errorf("Duration() = %s, want 5m", d.Duration())
	}

	marshaled, err := d.MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	if marshaled != "5m0s" {
		t.Errorf("MarshalYAML() = %v, want 5m0s", marshaled)
	}
}
