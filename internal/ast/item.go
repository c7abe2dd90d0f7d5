package ast

import "quill/internal/source"

// ItemKind is the shape tag of a top-level item.
type ItemKind uint8

const (
	ItemOther ItemKind = iota
	ItemStruct
	ItemEnum
	ItemUnion
	ItemConst
	ItemFn
)

// Item is a top-level item fragment.
type Item struct {
	ID    NodeID
	Name  string
	Kind  ItemKind
	Span  source.Span
	Attrs []Attribute

	// ItemConst payload.
	ConstTy    *Ty
	ConstValue *Expr
}

// DeriveAllowed reports whether derive extensions may annotate this item.
func (it *Item) DeriveAllowed() bool {
	switch it.Kind {
	case ItemStruct, ItemEnum, ItemUnion:
		return true
	default:
		return false
	}
}

// TraitItem is an item inside a trait declaration.
type TraitItem struct {
	ID   NodeID
	Name string
	Span source.Span
}

// ImplItem is an item inside an impl block.
type ImplItem struct {
	ID   NodeID
	Name string
	Span source.Span
}

// ForeignItem is an item inside an extern block.
type ForeignItem struct {
	ID   NodeID
	Name string
	Span source.Span
}
