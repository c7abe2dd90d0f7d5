package ast

import "quill/internal/source"

// MetaItem is the parsed payload of an attribute: a bare word `name`, a
// list `name(a, b(c))`, or a key-value `name = "v"`.
type MetaItem struct {
	Name string
	Span source.Span

	Items   []MetaItem // list form
	HasList bool

	Value    string // key-value form
	HasValue bool
}

// Word builds a bare-word meta item.
func Word(name string, span source.Span) MetaItem {
	return MetaItem{Name: name, Span: span}
}

// List builds a list-form meta item.
func List(name string, span source.Span, items ...MetaItem) MetaItem {
	return MetaItem{Name: name, Span: span, Items: items, HasList: true}
}

// KeyValue builds a key-value meta item.
func KeyValue(name, value string, span source.Span) MetaItem {
	return MetaItem{Name: name, Span: span, Value: value, HasValue: true}
}

// IsWord reports whether the meta item is a bare word.
func (m *MetaItem) IsWord() bool { return !m.HasList && !m.HasValue }

// Get returns the nested item with the given name, if present.
func (m *MetaItem) Get(name string) (MetaItem, bool) {
	for _, it := range m.Items {
		if it.Name == name {
			return it, true
		}
	}
	return MetaItem{}, false
}

// Attribute is one `@name(...)` annotation on a definition.
type Attribute struct {
	Meta MetaItem
	Span source.Span
}

// FindByName returns the first attribute with the given name.
func FindByName(attrs []Attribute, name string) (Attribute, bool) {
	for _, a := range attrs {
		if a.Meta.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// ContainsName reports whether an attribute with the given name exists.
func ContainsName(attrs []Attribute, name string) bool {
	_, ok := FindByName(attrs, name)
	return ok
}

// ListContainsName reports whether a meta-item list has a bare word entry
// with the given name.
func ListContainsName(items []MetaItem, name string) bool {
	for _, it := range items {
		if it.IsWord() && it.Name == name {
			return true
		}
	}
	return false
}
