package expr

import (
	"fmt"

	"github.com/lemonberrylabs/deskcalc/pkg/types"
)

// Evaluate parses and evaluates a calculator expression. It is a pure
// function: no state is kept between calls. Syntax failures return an
// InvalidExpression error; division by a zero divisor returns a
// DivisionByZero error instead of producing infinity.
func Evaluate(input string) (float64, error) {
	node, err := ParseExpression(input)
	if err != nil {
		return 0, types.NewInvalidExpressionError(err.Error())
	}
	return evalNode(node)
}

func evalNode(node Node) (float64, error) {
	switch n := node.(type) {
	case *NumberNode:
		return n.Value, nil
	case *UnaryNode:
		return evalUnary(n)
	case *BinaryNode:
		return evalBinary(n)
	default:
		return 0, fmt.Errorf("unsupported expression node type: %T", node)
	}
}

func evalUnary(n *UnaryNode) (float64, error) {
	operand, err := evalNode(n.Operand)
	if err != nil {
		return 0, err
	}

	switch n.Op {
	case TokenMinus:
		return -operand, nil
	case TokenPlus:
		return operand, nil
	default:
		return 0, fmt.Errorf("unsupported unary operator: %s", n.Op)
	}
}

func evalBinary(n *BinaryNode) (float64, error) {
	left, err := evalNode(n.Left)
	if err != nil {
		return 0, err
	}
	right, err := evalNode(n.Right)
	if err != nil {
		return 0, err
	}

	switch n.Op {
	case TokenPlus:
		return left + right, nil
	case TokenMinus:
		return left - right, nil
	case TokenStar:
		return left * right, nil
	case TokenSlash:
		if right == 0 {
			return 0, types.NewZeroDivisionError()
		}
		return left / right, nil
	default:
		return 0, fmt.Errorf("unsupported binary operator: %s", n.Op)
	}
}
