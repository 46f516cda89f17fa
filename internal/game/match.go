// Package game drives the dice duel as an explicit state machine over the
// commit-reveal protocol in internal/fair. Every random decision follows the
// same shape: the house commits to a hidden value, the user supplies an
// addend, and the published result is the modular sum, so neither party can
// steer an outcome alone. Blocking I/O lives in the front ends; Step takes an
// event and returns the next output, which keeps the whole flow testable
// without simulated input streams.
package game

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"

	"fairdice/internal/dice"
)

// Winner identifies who took a throw-off.
type Winner string

const (
	WinnerUser  Winner = "user"
	WinnerHouse Winner = "house"
	WinnerTie   Winner = "tie"
)

// Score is the running tally across replays of one match.
type Score struct {
	UserWins  int `json:"user_wins"`
	HouseWins int `json:"house_wins"`
	Ties      int `json:"ties"`
}

// Match is one interactive duel over a fixed dice set. It is not safe for
// concurrent use; the service serializes access per session.
type Match struct {
	dice   []dice.Die
	matrix dice.Matrix
	rand   io.Reader

	phase   Phase
	prompt  string
	pending *round

	userFirst  bool
	houseDie   int
	userDie    int
	houseFace  int
	userFace   int
	lastWinner Winner

	score     Score
	cancelled bool
	rounds    []RoundRecord
}

// NewMatch starts a duel over the set using crypto/rand for all house values.
func NewMatch(set []dice.Die) (*Match, error) {
	return NewMatchWithRand(set, rand.Reader)
}

// NewMatchWithRand is NewMatch with an explicit entropy source, for
// deterministic tests.
func NewMatchWithRand(set []dice.Die, r io.Reader) (*Match, error) {
	if len(set) < 3 {
		return nil, dice.ErrTooFewDice
	}

	m := &Match{
		dice:     set,
		matrix:   dice.NewMatrix(set),
		rand:     r,
		houseDie: -1,
		userDie:  -1,
	}
	return m, nil
}

// Start opens the first commit round and returns the opening output.
func (m *Match) Start() (Output, error) {
	return m.beginFirstMove(nil)
}

// Step advances the match with one user event.
func (m *Match) Step(ev Event) (Output, error) {
	if m.phase == PhaseTerminal {
		return Output{}, ErrMatchOver
	}

	switch e := ev.(type) {
	case HelpEvent:
		return Output{
			Lines:  []string{"Probability of the win for the user:", m.matrix.Render()},
			Prompt: m.prompt,
		}, nil
	case CancelEvent:
		m.phase = PhaseTerminal
		m.cancelled = true
		return Output{
			Lines: []string{"Game cancelled.", m.scoreLine()},
			Done:  true,
		}, nil
	case NumberEvent:
		return m.stepNumber(e.N)
	default:
		return Output{}, fmt.Errorf("%w: unknown event %T", ErrInvalidInput, ev)
	}
}

// Phase reports the current state.
func (m *Match) Phase() Phase { return m.phase }

// Score reports the tally so far.
func (m *Match) Score() Score { return m.score }

// Cancelled reports whether the match ended by cancellation.
func (m *Match) Cancelled() bool { return m.cancelled }

// LastWinner reports who took the most recent throw-off.
func (m *Match) LastWinner() Winner { return m.lastWinner }

// TakeRounds drains the completed round records accumulated since the last
// call. The service persists and broadcasts them.
func (m *Match) TakeRounds() []RoundRecord {
	r := m.rounds
	m.rounds = nil
	return r
}

func (m *Match) stepNumber(n int) (Output, error) {
	switch m.phase {
	case PhaseFirstMoveGuess:
		return m.stepFirstMove(n)
	case PhaseDiceChoice:
		return m.stepDiceChoice(n)
	case PhaseThrowInput:
		return m.stepThrow(n)
	case PhaseReplay:
		return m.stepReplay(n)
	default:
		return Output{}, ErrMatchOver
	}
}

func (m *Match) beginFirstMove(lines []string) (Output, error) {
	r, err := openRound(m.rand, PurposeFirstMove, 2)
	if err != nil {
		return Output{}, err
	}

	m.pending = r
	m.phase = PhaseFirstMoveGuess
	m.prompt = "Add your number modulo 2 (0 or 1):"

	lines = append(lines,
		"Let's determine who makes the first move.",
		fmt.Sprintf("I selected a random value in the range 0..1 (HMAC=%s).", r.commitment),
	)
	return Output{Lines: lines, Prompt: m.prompt}, nil
}

func (m *Match) stepFirstMove(n int) (Output, error) {
	if n < 0 || n > 1 {
		return Output{}, fmt.Errorf("%w: want 0 or 1, got %d", ErrInvalidInput, n)
	}

	rec, err := m.pending.close(n)
	if err != nil {
		return Output{}, err
	}
	m.pending = nil
	m.rounds = append(m.rounds, rec)
	m.userFirst = rec.Result == 1

	lines := []string{
		fmt.Sprintf("My number is %d (KEY=%s).", rec.HouseValue, rec.Key),
		fmt.Sprintf("The fair result is (%d + %d) mod 2 = %d.", rec.HouseValue, rec.UserValue, rec.Result),
	}

	if m.userFirst {
		lines = append(lines, "You make the first move.")
	} else {
		m.houseDie = m.pickHouseDie()
		lines = append(lines,
			"I make the first move.",
			fmt.Sprintf("I choose the [%s] die.", m.dice[m.houseDie]),
		)
	}

	m.phase = PhaseDiceChoice
	m.prompt = m.diceChoicePrompt()
	lines = append(lines, m.availableDiceLines()...)
	return Output{Lines: lines, Prompt: m.prompt}, nil
}

func (m *Match) stepDiceChoice(n int) (Output, error) {
	if n < 0 || n >= len(m.dice) {
		return Output{}, fmt.Errorf("%w: die index out of range: %d", ErrInvalidInput, n)
	}
	if n == m.houseDie {
		return Output{}, fmt.Errorf("%w: die %d is already taken", ErrInvalidInput, n)
	}

	m.userDie = n
	lines := []string{fmt.Sprintf("You choose the [%s] die.", m.dice[m.userDie])}

	if m.houseDie < 0 {
		m.houseDie = m.pickHouseDie()
		lines = append(lines, fmt.Sprintf("I choose the [%s] die.", m.dice[m.houseDie]))
	}

	return m.beginThrow(m.firstThrow(), lines)
}

func (m *Match) stepThrow(n int) (Output, error) {
	if n < 0 || n >= dice.Faces {
		return Output{}, fmt.Errorf("%w: want 0..%d, got %d", ErrInvalidInput, dice.Faces-1, n)
	}

	rec, err := m.pending.close(n)
	if err != nil {
		return Output{}, err
	}
	m.pending = nil
	m.rounds = append(m.rounds, rec)

	lines := []string{
		fmt.Sprintf("My number is %d (KEY=%s).", rec.HouseValue, rec.Key),
		fmt.Sprintf("The fair result is (%d + %d) mod %d = %d.",
			rec.HouseValue, rec.UserValue, rec.Modulus, rec.Result),
	}

	if rec.Purpose == PurposeHouseThrow {
		m.houseFace = m.dice[m.houseDie][rec.Result]
		lines = append(lines, fmt.Sprintf("My throw is %d.", m.houseFace))

		if m.firstThrow() == PurposeHouseThrow {
			return m.beginThrow(PurposeUserThrow, lines)
		}
		return m.finishThrowOff(lines)
	}

	m.userFace = m.dice[m.userDie][rec.Result]
	lines = append(lines, fmt.Sprintf("Your throw is %d.", m.userFace))

	if m.firstThrow() == PurposeUserThrow {
		return m.beginThrow(PurposeHouseThrow, lines)
	}
	return m.finishThrowOff(lines)
}

func (m *Match) stepReplay(n int) (Output, error) {
	switch n {
	case 1:
		m.houseDie = -1
		m.userDie = -1
		m.houseFace = 0
		m.userFace = 0
		return m.beginFirstMove([]string{"Another round it is."})
	case 0:
		m.phase = PhaseTerminal
		return Output{
			Lines: []string{"Thanks for playing.", m.scoreLine()},
			Done:  true,
		}, nil
	default:
		return Output{}, fmt.Errorf("%w: want 0 or 1, got %d", ErrInvalidInput, n)
	}
}

func (m *Match) beginThrow(purpose RoundPurpose, lines []string) (Output, error) {
	r, err := openRound(m.rand, purpose, dice.Faces)
	if err != nil {
		return Output{}, err
	}

	m.pending = r
	m.phase = PhaseThrowInput
	m.prompt = fmt.Sprintf("Add your number modulo %d (0..%d):", dice.Faces, dice.Faces-1)

	turn := "my"
	if purpose == PurposeUserThrow {
		turn = "your"
	}
	lines = append(lines,
		fmt.Sprintf("It's time for %s throw.", turn),
		fmt.Sprintf("I selected a random value in the range 0..%d (HMAC=%s).", dice.Faces-1, r.commitment),
	)
	return Output{Lines: lines, Prompt: m.prompt}, nil
}

func (m *Match) finishThrowOff(lines []string) (Output, error) {
	switch {
	case m.userFace > m.houseFace:
		m.lastWinner = WinnerUser
		m.score.UserWins++
		lines = append(lines, fmt.Sprintf("You win (%d > %d)!", m.userFace, m.houseFace))
	case m.houseFace > m.userFace:
		m.lastWinner = WinnerHouse
		m.score.HouseWins++
		lines = append(lines, fmt.Sprintf("I win (%d > %d)!", m.houseFace, m.userFace))
	default:
		m.lastWinner = WinnerTie
		m.score.Ties++
		lines = append(lines, fmt.Sprintf("It's a tie (%d = %d).", m.userFace, m.houseFace))
	}

	m.phase = PhaseReplay
	m.prompt = "Play another round? (1=yes, 0=no):"
	lines = append(lines, m.scoreLine())
	return Output{Lines: lines, Prompt: m.prompt}, nil
}

// firstThrow maps the first-move result to throw order: whoever moved first
// throws first.
func (m *Match) firstThrow() RoundPurpose {
	if m.userFirst {
		return PurposeUserThrow
	}
	return PurposeHouseThrow
}

// pickHouseDie takes the strongest remaining die. Against a known user die it
// maximizes the head-to-head odds; picking blind it maximizes the mean odds
// over the whole set. Die choice needs no commitment, it is public strategy.
func (m *Match) pickHouseDie() int {
	best, bestScore := -1, -1.0
	for i := range m.dice {
		if i == m.userDie {
			continue
		}

		var s float64
		if m.userDie >= 0 {
			s = m.matrix.Cells[i][m.userDie]
		} else {
			s = m.matrix.MeanAgainst(i)
		}
		if s > bestScore {
			best, bestScore = i, s
		}
	}
	return best
}

func (m *Match) availableDiceLines() []string {
	lines := []string{"Available dice:"}
	for i, d := range m.dice {
		if i == m.houseDie {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %d - [%s]", i, d))
	}
	return lines
}

func (m *Match) diceChoicePrompt() string {
	var idx []string
	for i := range m.dice {
		if i != m.houseDie {
			idx = append(idx, fmt.Sprintf("%d", i))
		}
	}
	return fmt.Sprintf("Choose your die (%s):", strings.Join(idx, ", "))
}

func (m *Match) scoreLine() string {
	return fmt.Sprintf("Score: you %d, me %d, ties %d.",
		m.score.UserWins, m.score.HouseWins, m.score.Ties)
}
