package formula

import "fmt"

// Resolver supplies the numeric value of a referenced component id.
// Returning an error aborts evaluation of the whole expression; the
// caller decides how to contain it.
type Resolver func(id string) (float64, error)

// EvalError reports a failure during expression evaluation, as opposed
// to a ParseError which reports malformed source.
type EvalError struct {
	Message string
}

func (e *EvalError) Error() string { return "formula: " + e.Message }

// Eval computes the expression's value, resolving $id references through
// the supplied resolver. Division by zero is an EvalError, not an IEEE
// infinity: a model that divides by zero should show an error badge, not
// render "+Inf".
func (e *Expr) Eval(resolve Resolver) (float64, error) {
	return evalNode(e.root, resolve)
}

func evalNode(n node, resolve Resolver) (float64, error) {
	switch v := n.(type) {
	case numberNode:
		return v.value, nil
	case refNode:
		val, err := resolve(v.id)
		if err != nil {
			return 0, err
		}
		return val, nil
	case negateNode:
		val, err := evalNode(v.operand, resolve)
		if err != nil {
			return 0, err
		}
		return -val, nil
	case binaryNode:
		left, err := evalNode(v.left, resolve)
		if err != nil {
			return 0, err
		}
		right, err := evalNode(v.right, resolve)
		if err != nil {
			return 0, err
		}
		switch v.op {
		case tokPlus:
			return left + right, nil
		case tokMinus:
			return left - right, nil
		case tokStar:
			return left * right, nil
		case tokSlash:
			if right == 0 {
				return 0, &EvalError{Message: "division by zero"}
			}
			return left / right, nil
		}
	}
	return 0, &EvalError{Message: fmt.Sprintf("unknown node %T", n)}
}
