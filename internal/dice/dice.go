// Package dice models six-sided dice with arbitrary integer faces and the
// exact pairwise win odds between them.
package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Faces is the number of faces on every die.
const Faces = 6

// ErrInvalidDieSpec indicates a die spec without exactly six integer faces.
var ErrInvalidDieSpec = errors.New("dice: a die needs exactly six integer faces")

// ErrTooFewDice indicates a set too small to play with: after one party takes
// a die the other still needs a choice.
var ErrTooFewDice = errors.New("dice: at least three dice are required")

// Die is an ordered, immutable set of six faces. Repeats are allowed.
type Die [Faces]int

func (d Die) String() string {
	parts := make([]string, Faces)
	for i, f := range d {
		parts[i] = strconv.Itoa(f)
	}
	return strings.Join(parts, ",")
}

// Parse builds a Die from a comma-separated spec such as "2,2,4,4,9,9".
func Parse(spec string) (Die, error) {
	var d Die

	parts := strings.Split(spec, ",")
	if len(parts) != Faces {
		return d, fmt.Errorf("%w: %q has %d", ErrInvalidDieSpec, spec, len(parts))
	}

	for i, p := range parts {
		f, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return d, fmt.Errorf("%w: %q face %q is not an integer", ErrInvalidDieSpec, spec, p)
		}
		d[i] = f
	}
	return d, nil
}

// ParseSet parses one spec per element and validates the set is playable.
func ParseSet(specs []string) ([]Die, error) {
	if len(specs) < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewDice, len(specs))
	}

	set := make([]Die, len(specs))
	for i, s := range specs {
		d, err := Parse(s)
		if err != nil {
			return nil, err
		}
		set[i] = d
	}
	return set, nil
}
