package config

import "time"

// Cadence selects how eagerly mirrors are pumped
type Cadence string

const (
	CadenceRealtime    Cadence = "realtime"    // Short pump tick, barely any pause between rounds
	CadenceInteractive Cadence = "interactive" // Default, roughly one pump per frame
	CadenceBatch       Cadence = "batch"       // Let events pile up, pump rarely
)

// ParseCadence converts a string to Cadence, defaulting to CadenceInteractive
func ParseCadence(s string) Cadence {
	switch s {
	case "realtime":
		return CadenceRealtime
	case "interactive":
		return CadenceInteractive
	case "batch":
		return CadenceBatch
	default:
		return CadenceInteractive
	}
}

// CadenceProfile defines pump timing
type CadenceProfile struct {
	PumpInterval time.Duration `yaml:"pump_interval"`
	RoundDelay   time.Duration `yaml:"round_delay"` // Pause between two mutation rounds of the mirror demo
}

// CadenceProfiles maps cadences to their default profiles
var CadenceProfiles = map[Cadence]CadenceProfile{
	CadenceRealtime: {
		PumpInterval: 5 * time.Millisecond,
		RoundDelay:   time.Millisecond,
	},
	CadenceInteractive: {
		PumpInterval: 16 * time.Millisecond,
		RoundDelay:   20 * time.Millisecond,
	},
	CadenceBatch: {
		PumpInterval: time.Second,
		RoundDelay:   250 * time.Millisecond,
	},
}

// GetProfile returns the profile for a cadence
func (c Cadence) GetProfile() CadenceProfile {
	if profile, ok := CadenceProfiles[c]; ok {
		return profile
	}
	return CadenceProfiles[CadenceInteractive]
}
