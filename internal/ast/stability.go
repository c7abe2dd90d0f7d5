package ast

// StabilityLevel says whether a feature gate guards the definition.
type StabilityLevel uint8

const (
	Stable StabilityLevel = iota
	Unstable
)

// Stability is the stability marker of a macro definition.
type Stability struct {
	Level   StabilityLevel
	Feature string
	Since   string // Stable only
}

// Deprecation is the deprecation marker of a macro definition.
type Deprecation struct {
	Since string
	Note  string
}

// FindStability extracts a stability marker from definition attributes:
// `@stable(feature = "f", since = "1.0")` or `@unstable(feature = "f")`.
func FindStability(attrs []Attribute) (Stability, bool) {
	if a, ok := FindByName(attrs, "stable"); ok {
		st := Stability{Level: Stable}
		if f, ok := a.Meta.Get("feature"); ok {
			st.Feature = f.Value
		}
		if s, ok := a.Meta.Get("since"); ok {
			st.Since = s.Value
		}
		return st, true
	}
	if a, ok := FindByName(attrs, "unstable"); ok {
		st := Stability{Level: Unstable}
		if f, ok := a.Meta.Get("feature"); ok {
			st.Feature = f.Value
		}
		return st, true
	}
	return Stability{}, false
}

// FindDeprecation extracts a deprecation marker:
// `@deprecated(since = "...", note = "...")`.
func FindDeprecation(attrs []Attribute) (Deprecation, bool) {
	a, ok := FindByName(attrs, "deprecated")
	if !ok {
		return Deprecation{}, false
	}
	d := Deprecation{}
	if s, ok := a.Meta.Get("since"); ok {
		d.Since = s.Value
	}
	if n, ok := a.Meta.Get("note"); ok {
		d.Note = n.Value
	}
	return d, true
}
