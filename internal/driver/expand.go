// Package driver runs the expansion pipeline over source files: scan,
// cut into statements, expand every macro, render the result.
package driver

import (
	"quill/internal/ast"
	"quill/internal/builtin"
	"quill/internal/diag"
	"quill/internal/errcodes"
	"quill/internal/expand"
	"quill/internal/source"
	"quill/internal/token"
)

// Options configures one expansion run.
type Options struct {
	Config         expand.ExpansionConfig
	Edition        source.Edition
	MaxDiagnostics int
}

// DefaultMaxDiagnostics bounds the per-file diagnostic count.
const DefaultMaxDiagnostics = 200

func (o Options) withDefaults() Options {
	if o.MaxDiagnostics <= 0 {
		o.MaxDiagnostics = DefaultMaxDiagnostics
	}
	if o.Config.RecursionLimit == 0 {
		o.Config.RecursionLimit = expand.DefaultRecursionLimit
	}
	return o
}

// FileResult is the outcome of expanding one file.
type FileResult struct {
	Path   string
	FileID source.FileID
	Output string
	Bag    *diag.Bag

	// Files is the file set diagnostics in Bag point into. Nil for
	// cache hits, which carry no diagnostics.
	Files *source.FileSet

	// Codes is the long-form error-code table the program registered.
	Codes []diag.CodeDescription
}

// HasErrors reports whether expansion of this file failed.
func (r FileResult) HasErrors() bool { return r.Bag.HasErrors() }

// ExpandFile loads and expands one file from disk.
func ExpandFile(path string, opts Options) FileResult {
	opts = opts.withDefaults()
	bag := diag.NewBag(opts.MaxDiagnostics)

	fileSet := source.NewFileSet()
	id, err := fileSet.Load(path)
	if err != nil {
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.IOLoadFileError,
			Message:  "failed to load file: " + err.Error(),
		})
		return FileResult{Path: path, Bag: bag}
	}
	return expandLoaded(fileSet, id, path, opts, bag)
}

// ExpandSource expands in-memory source under a virtual file name, for
// stdin and tests.
func ExpandSource(name string, src []byte, opts Options) FileResult {
	opts = opts.withDefaults()
	bag := diag.NewBag(opts.MaxDiagnostics)
	fileSet := source.NewFileSet()
	id := fileSet.AddVirtual(name, src)
	return expandLoaded(fileSet, id, name, opts, bag)
}

func expandLoaded(fileSet *source.FileSet, id source.FileID, path string, opts Options, bag *diag.Bag) FileResult {
	handler := diag.NewHandler(diag.BagReporter{Bag: bag})
	sess := expand.NewSession(fileSet, handler, opts.Edition)

	resolver := NewTableResolver(handler)
	builtin.RegisterAll(resolver, opts.Edition)
	errcodes.RegisterBuiltins(resolver, opts.Edition)

	cx := expand.NewExtCtxt(sess, opts.Config, path, resolver)

	stream, problems := token.Scan(id, fileSet.Get(id).Content)
	for _, p := range problems {
		handler.SpanErr(p.Span, diag.LexUnknownChar, p.Msg)
	}

	var output string
	if stmts, ok := parseProgram(cx, stream); ok {
		if frag, completed := runExpansion(cx, stmts); completed {
			resolver.CheckUnusedMacros()
			cx.FlushTrace()
			output = RenderStmts(frag.Stmts)
		}
	}

	bag.Sort()
	bag.Dedup()
	return FileResult{
		Path:   path,
		FileID: id,
		Output: output,
		Bag:    bag,
		Files:  fileSet,
		Codes:  sess.Diagnostics.Render(),
	}
}

// parseProgram cuts the token stream into semicolon-separated expression
// statements.
func parseProgram(cx *expand.ExtCtxt, stream token.Stream) ([]*ast.Stmt, bool) {
	cur := stream.Cursor()
	var stmts []*ast.Stmt
	for !cur.AtEnd() {
		at, _ := cur.Peek()
		expr, ok := expand.ParseExpr(cx, cur, at.Span)
		if !ok {
			cx.SpanErr(at.Span, diag.LexExpectedExpr, "expected an expression")
			return nil, false
		}
		stmts = append(stmts, cx.StmtOfExpr(expr))
		if cur.AtEnd() {
			break
		}
		sep, _ := cur.Next()
		if !sep.IsLeaf() || sep.Token.Kind != token.Semicolon {
			cx.SpanErr(sep.Span, diag.LexExpectedExpr, "expected token: `;`")
			return nil, false
		}
	}
	return stmts, true
}

// runExpansion drives the fragment to completion, absorbing the fatal
// unwind: the error it carries has already been reported.
func runExpansion(cx *expand.ExtCtxt, stmts []*ast.Stmt) (frag expand.AstFragment, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, fatal := r.(diag.FatalError); fatal {
				ok = false
				return
			}
			panic(r)
		}
	}()
	frag = cx.Expander().FullyExpandFragment(expand.StmtsFragment(stmts))
	return frag, true
}
