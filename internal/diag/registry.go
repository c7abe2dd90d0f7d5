package diag

import (
	"sort"
	"sync"

	"quill/internal/source"
)

// ErrorInfo is the registry record of one long-form error code.
type ErrorInfo struct {
	Description    string
	HasDescription bool
	UseSite        source.Span
	Used           bool
}

// UseOutcome classifies a MarkUsed call.
type UseOutcome uint8

const (
	// UseFirst: the first use; the site was recorded silently.
	UseFirst UseOutcome = iota
	// UseRepeated: the code was already used elsewhere; callers warn with a
	// note at the previous site.
	UseRepeated
	// UseUnregistered: the code was never registered; a user error.
	UseUnregistered
)

// Registry is the session-wide table of long-form error codes. One exists
// per compilation session, shared behind a mutex; critical sections are a
// single lookup-or-insert.
type Registry struct {
	mu    sync.Mutex
	codes map[string]*ErrorInfo
}

func NewRegistry() *Registry {
	return &Registry{codes: make(map[string]*ErrorInfo)}
}

// Register inserts a new code. Returns false when the code already exists;
// the original entry is kept in that case.
func (r *Registry) Register(code, description string, hasDescription bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.codes[code]; exists {
		return false
	}
	r.codes[code] = &ErrorInfo{Description: description, HasDescription: hasDescription}
	return true
}

// MarkUsed records a use site for code. The first use is recorded
// silently; a repeated use returns the previous site so the caller can
// point at it; an unregistered code is the caller's error to report.
func (r *Registry) MarkUsed(code string, site source.Span) (UseOutcome, source.Span) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.codes[code]
	if !ok {
		return UseUnregistered, source.Span{}
	}
	if info.Used {
		return UseRepeated, info.UseSite
	}
	info.Used = true
	info.UseSite = site
	return UseFirst, source.Span{}
}

// Get returns a copy of the record for code.
func (r *Registry) Get(code string) (ErrorInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.codes[code]
	if !ok {
		return ErrorInfo{}, false
	}
	return *info, true
}

// Len returns the number of registered codes.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.codes)
}

// CodeDescription is one row of the rendered code table.
type CodeDescription struct {
	Code        string `msgpack:"code"`
	Description string `msgpack:"description"`
}

// Render returns (code, description) pairs for every code that has a
// description, in ascending code order regardless of registration order.
func (r *Registry) Render() []CodeDescription {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]CodeDescription, 0, len(r.codes))
	for code, info := range r.codes {
		if !info.HasDescription {
			continue
		}
		out = append(out, CodeDescription{Code: code, Description: info.Description})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
