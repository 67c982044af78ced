// Package document models structured configuration files (JSON and TOML)
// as a format-neutral tree and implements the deep-merge rules used when
// layering configuration shards over each other.
package document

import (
	"fmt"
	"strings"
)

// Kind discriminates the three shapes a document value can take.
type Kind uint8

const (
	// KindScalar is a leaf value: string, number, bool or null.
	KindScalar Kind = iota
	// KindSequence is an ordered list of values.
	KindSequence
	// KindMapping is an ordered set of key/value fields with unique keys.
	KindMapping
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Field is one key/value pair of a mapping node.
type Field struct {
	Key   string
	Value *Node
}

// Node is a single value in a document tree. Exactly one of Value, Items
// or Fields is meaningful, selected by Kind.
//
// Mapping fields keep the order keys first appeared in the source. The
// order is carried through Merge and Serialize so output stays stable
// across runs, but it has no effect on merge semantics.
type Node struct {
	Kind   Kind
	Value  any     // KindScalar
	Items  []*Node // KindSequence
	Fields []Field // KindMapping
}

// Scalar returns a new scalar node holding v.
func Scalar(v any) *Node {
	return &Node{Kind: KindScalar, Value: v}
}

// Sequence returns a new sequence node over items.
func Sequence(items ...*Node) *Node {
	return &Node{Kind: KindSequence, Items: items}
}

// Mapping returns a new mapping node over fields.
func Mapping(fields ...Field) *Node {
	return &Node{Kind: KindMapping, Fields: fields}
}

// Get returns the value stored under key and whether the mapping
// contains it. It is only meaningful on mapping nodes.
func (n *Node) Get(key string) (*Node, bool) {
	for _, f := range n.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// set replaces the value at key in place, or appends a new field when the
// key is not present yet.
func (n *Node) set(key string, v *Node) {
	for i := range n.Fields {
		if n.Fields[i].Key == key {
			n.Fields[i].Value = v
			return
		}
	}
	n.Fields = append(n.Fields, Field{Key: key, Value: v})
}

// Clone returns a deep copy of n sharing no mutable state with it.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindSequence:
		items := make([]*Node, len(n.Items))
		for i, item := range n.Items {
			items[i] = item.Clone()
		}
		return &Node{Kind: KindSequence, Items: items}
	case KindMapping:
		fields := make([]Field, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = Field{Key: f.Key, Value: f.Value.Clone()}
		}
		return &Node{Kind: KindMapping, Fields: fields}
	default:
		return &Node{Kind: KindScalar, Value: n.Value}
	}
}

// Equal reports whether two trees hold the same values. Mapping field
// order is ignored; sequence order is not.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Kind != other.Kind {
		return false
	}
	switch n.Kind {
	case KindSequence:
		if len(n.Items) != len(other.Items) {
			return false
		}
		for i := range n.Items {
			if !n.Items[i].Equal(other.Items[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(n.Fields) != len(other.Fields) {
			return false
		}
		for _, f := range n.Fields {
			v, ok := other.Get(f.Key)
			if !ok || !f.Value.Equal(v) {
				return false
			}
		}
		return true
	default:
		return fmt.Sprint(n.Value) == fmt.Sprint(other.Value)
	}
}

// String renders a compact single-line form of the tree for log and error
// messages. It is not a serialization format.
func (n *Node) String() string {
	var b strings.Builder
	n.writeCompact(&b)
	return b.String()
}

func (n *Node) writeCompact(b *strings.Builder) {
	if n == nil {
		b.WriteString("null")
		return
	}
	switch n.Kind {
	case KindSequence:
		b.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			item.writeCompact(b)
		}
		b.WriteByte(']')
	case KindMapping:
		b.WriteByte('{')
		for i, f := range n.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%q: ", f.Key)
			f.Value.writeCompact(b)
		}
		b.WriteByte('}')
	default:
		switch v := n.Value.(type) {
		case nil:
			b.WriteString("null")
		case string:
			fmt.Fprintf(b, "%q", v)
		default:
			fmt.Fprint(b, v)
		}
	}
}
