package expand

import (
	"errors"

	"quill/internal/ast"
	"quill/internal/source"
)

// ErrIndeterminate is returned by ResolveMacroInvocation when the name
// cannot be resolved yet but more expansion may make it resolvable. The
// driver requeues the invocation; a forced resolution never returns it.
var ErrIndeterminate = errors.New("macro resolution indeterminate")

// InvocationRes is the successful outcome of resolving one invocation.
type InvocationRes interface {
	isInvocationRes()
}

// ResSingle binds the invocation to one extension.
type ResSingle struct {
	Ext *SyntaxExtension
}

// ResDeriveContainer binds a derive group to its member extensions, in
// declaration order.
type ResDeriveContainer struct {
	Exts []*SyntaxExtension
}

func (ResSingle) isInvocationRes()          {}
func (ResDeriveContainer) isInvocationRes() {}

// SpecialDerives are the built-in derives downstream passes care about.
type SpecialDerives uint8

const (
	DerivePartialEq SpecialDerives = 1 << iota
	DeriveEq
	DeriveCopy
)

// Contains reports whether every bit of other is set in d.
func (d SpecialDerives) Contains(other SpecialDerives) bool {
	return d&other == other
}

// Resolver is the name-resolution service expansion depends on. The
// expander owns the queue and the tree; the resolver owns the scopes.
type Resolver interface {
	// NextNodeID allocates a fresh node identity for synthesized nodes.
	NextNodeID() ast.NodeID

	// ModuleScope returns the expansion whose definition site the module
	// with the given node id resolves names against.
	ModuleScope(id ast.NodeID) source.ExpnID

	// RegisterBuiltin makes a compiler-provided extension resolvable
	// under name before user code is expanded.
	RegisterBuiltin(name string, ext *SyntaxExtension)

	// ResolveMacroInvocation resolves invoc against the scopes visible at
	// eagerRoot. Without force it may return ErrIndeterminate and must
	// leave no side effects in that case; with force it commits to a hard
	// answer. Any other error is a resolution failure the caller reports.
	ResolveMacroInvocation(invoc *Invocation, eagerRoot source.ExpnID, force bool) (InvocationRes, error)

	// CheckUnusedMacros reports definitions that were never invoked.
	CheckUnusedMacros()

	// HasDerives reports whether the expansion already carries all the
	// given special derives.
	HasDerives(expn source.ExpnID, derives SpecialDerives) bool

	// AddDerives records special derives applied under the expansion.
	AddDerives(expn source.ExpnID, derives SpecialDerives)
}
