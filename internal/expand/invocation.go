package expand

import (
	"strings"

	"quill/internal/ast"
	"quill/internal/source"
	"quill/internal/token"
)

// InvocationKind distinguishes the three invocation surfaces.
type InvocationKind uint8

const (
	InvBang InvocationKind = iota
	InvAttr
	InvDerive
)

// Invocation is one pending macro use: what was written, where, and what
// fragment kind its position requires.
type Invocation struct {
	Kind InvocationKind
	Span source.Span

	// InvBang payload.
	Mac *ast.MacCall

	// InvAttr payload.
	AttrMeta     *ast.MetaItem
	AttrTokens   token.Stream
	TargetTokens token.Stream

	// InvDerive payload.
	DerivePath []string

	// InvAttr and InvDerive target.
	Target Annotatable

	// Fragment is what the call site position expects back.
	Fragment FragmentKind
}

// Name returns the invoked macro name for diagnostics.
func (inv *Invocation) Name() string {
	switch inv.Kind {
	case InvBang:
		return inv.Mac.Name()
	case InvAttr:
		return inv.AttrMeta.Name
	case InvDerive:
		if len(inv.DerivePath) == 0 {
			return ""
		}
		return inv.DerivePath[len(inv.DerivePath)-1]
	}
	return ""
}

// Path returns the full invoked path for resolution.
func (inv *Invocation) Path() []string {
	switch inv.Kind {
	case InvBang:
		return inv.Mac.Path
	case InvAttr:
		return []string{inv.AttrMeta.Name}
	case InvDerive:
		return inv.DerivePath
	}
	return nil
}

// PathString renders the invoked path for diagnostics.
func (inv *Invocation) PathString() string {
	return strings.Join(inv.Path(), ".")
}
