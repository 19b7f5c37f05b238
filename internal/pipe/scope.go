package pipe

// Scope selects which replayed events a synchronised pipe refuses to capture
type Scope string

const (
	ScopeDirection Scope = "direction" // Events replayed by the paired pipe
	ScopeSource    Scope = "source"    // Events created by the paired pipe's source graph
	ScopeReplays   Scope = "replays"   // Every replayed event, whichever pipe delivered it
	ScopeNone      Scope = "none"      // Nothing; only safe without a paired pipe
)

// ParseScope converts a string to Scope, defaulting to ScopeDirection
func ParseScope(s string) Scope {
	switch s {
	case "direction":
		return ScopeDirection
	case "source":
		return ScopeSource
	case "replays":
		return ScopeReplays
	case "none":
		return ScopeNone
	default:
		return ScopeDirection
	}
}
