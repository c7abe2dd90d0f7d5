package expand

import (
	"errors"
	"testing"

	"quill/internal/ast"
	"quill/internal/diag"
	"quill/internal/source"
	"quill/internal/token"
)

// mapResolver is the minimal Resolver used by the tests in this package.
type mapResolver struct {
	macros  map[string]*SyntaxExtension
	groups  map[string][]*SyntaxExtension
	nextID  ast.NodeID
	derives map[source.ExpnID]SpecialDerives
}

func newMapResolver() *mapResolver {
	return &mapResolver{
		macros:  make(map[string]*SyntaxExtension),
		groups:  make(map[string][]*SyntaxExtension),
		derives: make(map[source.ExpnID]SpecialDerives),
	}
}

func (r *mapResolver) NextNodeID() ast.NodeID {
	r.nextID++
	return r.nextID
}

func (r *mapResolver) ModuleScope(ast.NodeID) source.ExpnID { return source.RootExpnID }

func (r *mapResolver) RegisterBuiltin(name string, ext *SyntaxExtension) {
	r.macros[name] = ext
}

func (r *mapResolver) ResolveMacroInvocation(inv *Invocation, _ source.ExpnID, force bool) (InvocationRes, error) {
	if exts, ok := r.groups[inv.Name()]; ok {
		return ResDeriveContainer{Exts: exts}, nil
	}
	if ext, ok := r.macros[inv.Name()]; ok {
		return ResSingle{Ext: ext}, nil
	}
	if !force {
		return nil, ErrIndeterminate
	}
	return nil, errors.New("unresolved")
}

func (r *mapResolver) CheckUnusedMacros() {}

func (r *mapResolver) HasDerives(expn source.ExpnID, d SpecialDerives) bool {
	return r.derives[expn].Contains(d)
}

func (r *mapResolver) AddDerives(expn source.ExpnID, d SpecialDerives) {
	r.derives[expn] |= d
}

type testEnv struct {
	cx       *ExtCtxt
	bag      *diag.Bag
	resolver *mapResolver
	fileID   source.FileID
}

// newTestEnv builds a context over the given virtual source.
func newTestEnv(t *testing.T, src string) *testEnv {
	t.Helper()
	bag := diag.NewBag(64)
	handler := diag.NewHandler(diag.BagReporter{Bag: bag})
	files := source.NewFileSet()
	id := files.AddVirtual("test.ql", []byte(src))

	sess := NewSession(files, handler, source.Edition2024)
	resolver := newMapResolver()
	cx := NewExtCtxt(sess, DefaultExpansionConfig("test"), "test.ql", resolver)
	return &testEnv{cx: cx, bag: bag, resolver: resolver, fileID: id}
}

func (e *testEnv) scan(t *testing.T, src string) token.Stream {
	t.Helper()
	stream, problems := token.Scan(e.fileID, []byte(src))
	if len(problems) != 0 {
		t.Fatalf("scan problems: %+v", problems)
	}
	return stream
}

func (e *testEnv) span(start, end uint32) source.Span {
	return source.Span{File: e.fileID, Start: start, End: end}
}

// hasCode reports whether the bag holds a diagnostic with the code.
func (e *testEnv) hasCode(code diag.Code) bool {
	for _, d := range e.bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

// registerBang installs a tree-building bang macro under name.
func (e *testEnv) registerBang(name string, f TTMacroExpanderFunc) *SyntaxExtension {
	ext := DefaultExtension(LegacyBangKind{Expander: f}, source.Edition2024)
	e.resolver.RegisterBuiltin(name, ext)
	return ext
}

// strExt returns a bang macro producing the given string literal.
func strExt(value string) TTMacroExpanderFunc {
	return func(cx *ExtCtxt, sp source.Span, _ token.Stream) MacResult {
		return EagerExpr(cx.ExprStr(sp, value))
	}
}
