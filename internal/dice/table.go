package dice

import (
	"fmt"
	"math"
	"strings"
)

// WinProbability returns the exact probability that a uniform face of a beats
// a uniform face of b, enumerating all 36 ordered face pairs. Ties count as
// losses for a.
func WinProbability(a, b Die) float64 {
	wins := 0
	for _, x := range a {
		for _, y := range b {
			if x > y {
				wins++
			}
		}
	}
	return float64(wins) / float64(Faces*Faces)
}

// Matrix holds the pairwise win odds for a dice set. Cell [i][j] is the
// probability that die i beats die j; the diagonal is undefined and stored
// as NaN.
type Matrix struct {
	Dice  []Die
	Cells [][]float64
}

// NewMatrix computes the full table for the set.
func NewMatrix(set []Die) Matrix {
	cells := make([][]float64, len(set))
	for i := range set {
		cells[i] = make([]float64, len(set))
		for j := range set {
			if i == j {
				cells[i][j] = math.NaN()
				continue
			}
			cells[i][j] = WinProbability(set[i], set[j])
		}
	}
	return Matrix{Dice: set, Cells: cells}
}

// MeanAgainst returns the average win probability of die i over the rest of
// the set. Used by the house to pick a die when it moves first.
func (m Matrix) MeanAgainst(i int) float64 {
	if len(m.Dice) < 2 {
		return 0
	}

	var sum float64
	for j := range m.Dice {
		if j != i {
			sum += m.Cells[i][j]
		}
	}
	return sum / float64(len(m.Dice)-1)
}

// Render draws the table as ASCII text, row die versus column die, with "-"
// on the diagonal.
func (m Matrix) Render() string {
	width := len("user die \\ house die")
	for _, d := range m.Dice {
		if w := len(d.String()); w > width {
			width = w
		}
	}

	var b strings.Builder
	sep := rowSeparator(width, len(m.Dice))

	b.WriteString(sep)
	fmt.Fprintf(&b, "| %-*s |", width, "user die \\ house die")
	for _, d := range m.Dice {
		fmt.Fprintf(&b, " %-*s |", width, d.String())
	}
	b.WriteString("\n")
	b.WriteString(sep)

	for i, d := range m.Dice {
		fmt.Fprintf(&b, "| %-*s |", width, d.String())
		for j := range m.Dice {
			cell := "-"
			if i != j {
				cell = fmt.Sprintf("%.4f", m.Cells[i][j])
			}
			fmt.Fprintf(&b, " %-*s |", width, cell)
		}
		b.WriteString("\n")
		b.WriteString(sep)
	}
	return b.String()
}

func rowSeparator(width, dice int) string {
	var b strings.Builder
	for i := 0; i < dice+1; i++ {
		b.WriteString("+")
		b.WriteString(strings.Repeat("-", width+2))
	}
	b.WriteString("+\n")
	return b.String()
}
