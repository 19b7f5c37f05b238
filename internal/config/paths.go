package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names a config file, or a directory holding graphsync.yaml
	EnvConfigPath = "GRAPHSYNC_CONFIG"
	// ConfigFileName is the file looked for in every searched directory
	ConfigFileName = "graphsync.yaml"
	// ConfigDirName is the directory under the user and system config roots
	ConfigDirName = "graphsync"
)

// Origin tells where a config candidate comes from
type Origin string

const (
	OriginEnv    Origin = "env"
	OriginCwd    Origin = "cwd"
	OriginXDG    Origin = "xdg"
	OriginHome   Origin = "home"
	OriginSystem Origin = "system"
)

// Candidate is one place a mirror config may live
type Candidate struct {
	Path   string
	Origin Origin
}

// Exists reports whether the candidate names a readable file
func (c Candidate) Exists() bool {
	info, err := os.Stat(c.Path)
	return err == nil && !info.IsDir()
}

// Candidates lists the searched locations, highest priority first. Unset
// environment variables contribute nothing.
func Candidates() []Candidate {
	var out []Candidate
	if path := os.Getenv(EnvConfigPath); path != "" {
		out = append(out, Candidate{Path: ResolvePath(path), Origin: OriginEnv})
	}

	cwd := ConfigFileName
	if abs, err := filepath.Abs(ConfigFileName); err == nil {
		cwd = abs
	}
	out = append(out, Candidate{Path: cwd, Origin: OriginCwd})

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		out = append(out, Candidate{Path: filepath.Join(xdgHome, ConfigDirName, ConfigFileName), Origin: OriginXDG})
	}
	if home := os.Getenv("HOME"); home != "" {
		out = append(out, Candidate{Path: filepath.Join(home, ".config", ConfigDirName, ConfigFileName), Origin: OriginHome})
	}
	out = append(out, Candidate{Path: filepath.Join("/etc", ConfigDirName, ConfigFileName), Origin: OriginSystem})
	return out
}

// FindConfigPath returns the first existing candidate, or "" if none
func FindConfigPath() string {
	for _, c := range Candidates() {
		if c.Exists() {
			return c.Path
		}
	}
	return ""
}

// ResolvePath maps a directory to the config file inside it. Other paths,
// including missing ones, are returned unchanged.
func ResolvePath(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, ConfigFileName)
	}
	return path
}
