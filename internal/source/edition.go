package source

// Edition selects which revision of the language a macro definition
// belongs to. Expanded code keeps the edition of its defining macro.
type Edition uint8

const (
	Edition2024 Edition = iota
	Edition2025
)

// DefaultEdition is assumed when a manifest does not pick one.
const DefaultEdition = Edition2024

func (e Edition) String() string {
	switch e {
	case Edition2024:
		return "2024"
	case Edition2025:
		return "2025"
	}
	return "unknown"
}

// ParseEdition maps a manifest string to an Edition.
func ParseEdition(s string) (Edition, bool) {
	switch s {
	case "", "2024":
		return Edition2024, true
	case "2025":
		return Edition2025, true
	}
	return DefaultEdition, false
}
