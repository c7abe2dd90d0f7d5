package driver

import (
	"fmt"

	"quill/internal/ast"
	"quill/internal/diag"
	"quill/internal/expand"
	"quill/internal/source"
)

// TableResolver is the flat-scope resolver of the driver: one table of
// macro names per session. Names resolve by their last path segment.
type TableResolver struct {
	handler *diag.Handler

	macros map[string]*entry
	groups map[string][]*expand.SyntaxExtension

	nextID  ast.NodeID
	derives map[source.ExpnID]expand.SpecialDerives
}

type entry struct {
	ext     *expand.SyntaxExtension
	defSpan source.Span
	local   bool
	used    bool
}

func NewTableResolver(h *diag.Handler) *TableResolver {
	return &TableResolver{
		handler: h,
		macros:  make(map[string]*entry),
		groups:  make(map[string][]*expand.SyntaxExtension),
		derives: make(map[source.ExpnID]expand.SpecialDerives),
	}
}

// NextNodeID hands out node identities, starting past the dummy id.
func (r *TableResolver) NextNodeID() ast.NodeID {
	r.nextID++
	return r.nextID
}

// ModuleScope: the driver expands single programs, so every module
// resolves against the root.
func (r *TableResolver) ModuleScope(ast.NodeID) source.ExpnID {
	return source.RootExpnID
}

// RegisterBuiltin installs a compiler-provided extension.
func (r *TableResolver) RegisterBuiltin(name string, ext *expand.SyntaxExtension) {
	r.macros[name] = &entry{ext: ext}
}

// RegisterLocal installs a user-defined extension and tracks whether it
// ever gets used.
func (r *TableResolver) RegisterLocal(name string, ext *expand.SyntaxExtension, defSpan source.Span) {
	r.macros[name] = &entry{ext: ext, defSpan: defSpan, local: true}
}

// RegisterDeriveGroup installs a derive group resolving to exts, applied
// in the given order.
func (r *TableResolver) RegisterDeriveGroup(name string, exts []*expand.SyntaxExtension) {
	r.groups[name] = exts
}

// ResolveMacroInvocation looks the invocation's name up in the table.
// An unknown name is indeterminate until forced: the queue-based driver
// may define the macro by expanding something else first.
func (r *TableResolver) ResolveMacroInvocation(inv *expand.Invocation, _ source.ExpnID, force bool) (expand.InvocationRes, error) {
	name := inv.Name()

	if inv.Kind == expand.InvDerive {
		if exts, ok := r.groups[name]; ok {
			return expand.ResDeriveContainer{Exts: exts}, nil
		}
	}
	if ent, ok := r.macros[name]; ok {
		ent.used = true
		return expand.ResSingle{Ext: ent.ext}, nil
	}
	if !force {
		return nil, expand.ErrIndeterminate
	}
	return nil, fmt.Errorf("unresolved macro %q", name)
}

// CheckUnusedMacros warns about local definitions that were never
// invoked. Builtins are exempt.
func (r *TableResolver) CheckUnusedMacros() {
	for name, ent := range r.macros {
		if ent.local && !ent.used {
			r.handler.SpanWarn(ent.defSpan, diag.ExpInfo,
				fmt.Sprintf("unused macro definition `%s`", name))
		}
	}
}

// HasDerives reports whether expn already carries all bits of derives.
func (r *TableResolver) HasDerives(expn source.ExpnID, derives expand.SpecialDerives) bool {
	return r.derives[expn].Contains(derives)
}

// AddDerives records derives applied under expn.
func (r *TableResolver) AddDerives(expn source.ExpnID, derives expand.SpecialDerives) {
	r.derives[expn] |= derives
}
