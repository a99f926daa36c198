package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxDice bounds the dice count of a single term.
const MaxDice = 1000

// Term is one signed operand of an Expression: either a flat value or a
// group of Count dice with Sides faces.
type Term struct {
	Sign  int // +1 or -1
	Count int // dice count; 0 with Sides == 0 marks a flat term
	Sides int // faces per die; 0 for a flat term
	Value int // flat value when Sides == 0
}

// IsDice reports whether t rolls dice rather than contributing a flat value.
func (t Term) IsDice() bool { return t.Sides > 0 }

// Expression is a parsed dice expression ready to be rolled.
type Expression struct {
	Raw   string
	Terms []Term
}

// Parse parses expr into an Expression.
//
// Grammar: term (op term)*, where term is <int> or <int>d<int> and op is
// '+' or '-'. Examples: "5", "3d6", "2d8+3-1", "1d1+0".
//
// Precondition: none; expr may be arbitrary user input.
// Postcondition: Returns an Expression with at least one term, or an error
// wrapping ErrMalformedExpression.
func Parse(expr string) (Expression, error) {
	raw := strings.TrimSpace(expr)
	if raw == "" {
		return Expression{}, fmt.Errorf("%w: empty expression", ErrMalformedExpression)
	}
	s := strings.ToLower(raw)

	var terms []Term
	sign := 1
	i := 0
	for {
		n, next, err := readInt(s, i)
		if err != nil {
			return Expression{}, fmt.Errorf("%w: missing operand at offset %d in %q", ErrMalformedExpression, i, raw)
		}
		i = next
		term := Term{Sign: sign, Value: n}

		if i < len(s) && s[i] == 'd' {
			sides, next, err := readInt(s, i+1)
			if err != nil {
				return Expression{}, fmt.Errorf("%w: missing die size in %q", ErrMalformedExpression, raw)
			}
			if sides < 1 {
				return Expression{}, fmt.Errorf("%w: die size must be >= 1 in %q", ErrMalformedExpression, raw)
			}
			if n > MaxDice {
				return Expression{}, fmt.Errorf("%w: dice count %d exceeds %d in %q", ErrMalformedExpression, n, MaxDice, raw)
			}
			term = Term{Sign: sign, Count: n, Sides: sides}
			i = next
		}
		terms = append(terms, term)

		if i == len(s) {
			break
		}
		switch s[i] {
		case '+':
			sign = 1
		case '-':
			sign = -1
		default:
			return Expression{}, fmt.Errorf("%w: unknown operator %q in %q", ErrMalformedExpression, s[i], raw)
		}
		i++
	}

	return Expression{Raw: raw, Terms: terms}, nil
}

// Validate reports whether expr parses, without rolling it.
func Validate(expr string) error {
	_, err := Parse(expr)
	return err
}

// readInt reads the run of decimal digits starting at s[i].
func readInt(s string, i int) (int, int, error) {
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i {
		return 0, i, fmt.Errorf("no digits at offset %d", i)
	}
	n, err := strconv.Atoi(s[i:j])
	if err != nil {
		return 0, i, err
	}
	return n, j, nil
}
