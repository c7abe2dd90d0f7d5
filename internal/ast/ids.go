package ast

// NodeID identifies an AST node once the resolver has numbered it.
// Nodes created during expansion carry DummyNodeID until then.
type NodeID uint32

const DummyNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != DummyNodeID }
