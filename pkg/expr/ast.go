package expr

// Node is the interface for all expression AST nodes.
type Node interface {
	nodeType() string
}

// NumberNode represents a numeric literal.
type NumberNode struct {
	Value float64
}

func (n *NumberNode) nodeType() string { return "Number" }

// UnaryNode represents a signed factor (e.g., -x).
type UnaryNode struct {
	Op      TokenType
	Operand Node
}

func (n *UnaryNode) nodeType() string { return "Unary" }

// BinaryNode represents a binary operation (e.g., a + b).
type BinaryNode struct {
	Op    TokenType
	Left  Node
	Right Node
}

func (n *BinaryNode) nodeType() string { return "Binary" }
