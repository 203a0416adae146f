package corpus

// ValueKind is the shape of a generic Value.
type ValueKind int

const (
	ScalarValue ValueKind = iota
	SequenceValue
	MappingValue
)

// Value is an order-preserving document tree for tables the engine carries
// through without interpreting.
type Value struct {
	Kind    ValueKind
	Tag     string // resolved scalar tag: !!str, !!int, !!float, !!bool or !!null
	Scalar  string
	Items   []*Value
	Members []Member
}

// Member is one key/value pair of a mapping Value.
type Member struct {
	Key   string
	Value *Value
}
