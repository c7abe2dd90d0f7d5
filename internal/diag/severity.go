package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	// SevError is deferred-fatal: the pass keeps running but the session
	// aborts once it ends.
	SevError
	// SevFatal unwinds the current pass immediately.
	SevFatal
	// SevBug is an internal invariant violation, always fatal.
	SevBug
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	case SevFatal:
		return "FATAL"
	case SevBug:
		return "BUG"
	}
	return "UNKNOWN"
}
