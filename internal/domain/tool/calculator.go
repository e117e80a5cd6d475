package tool

import (
	"context"
	"errors"
	"fmt"
)

var ErrDivisionByZero = errors.New("division by zero")

// calculate implements the calculator capability. Arguments arrive already
// validated: operation is one of the declared enum values, a and b are numbers.
func calculate(_ context.Context, args Args) (any, error) {
	operation := args["operation"].(string)
	a := args["a"].(float64)
	b := args["b"].(float64)

	switch operation {
	case "add":
		return a + b, nil
	case "subtract":
		return a - b, nil
	case "multiply":
		return a * b, nil
	case "divide":
		if b == 0 {
			return nil, ErrDivisionByZero
		}
		return a / b, nil
	}
	return nil, fmt.Errorf("unknown operation: %s", operation)
}
