package dice

// Roll evaluates an Expression using the given Source and returns a RollResult.
// Every call draws fresh dice; rolling the same expression twice is not idempotent.
//
// Precondition: expr must come from Parse; src must be non-nil.
// Postcondition: len(result.Dice) == sum of Count over dice terms;
// result.Total() == sum(result.Dice) + result.Modifier.
func Roll(expr Expression, src Source) RollResult {
	result := RollResult{Expression: expr.Raw}
	for _, t := range expr.Terms {
		if !t.IsDice() {
			result.Modifier += t.Sign * t.Value
			continue
		}
		for i := 0; i < t.Count; i++ {
			result.Dice = append(result.Dice, t.Sign*(src.Intn(t.Sides)+1))
		}
	}
	return result
}

// RollExpr parses expr and rolls it using src in a single call.
//
// Postcondition: Returns a RollResult or an error wrapping ErrMalformedExpression.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src), nil
}

// Evaluate parses and rolls expr, returning only the total.
//
// Postcondition: Returns the rolled total or an error wrapping ErrMalformedExpression.
func Evaluate(expr string, src Source) (int, error) {
	r, err := RollExpr(expr, src)
	if err != nil {
		return 0, err
	}
	return r.Total(), nil
}
