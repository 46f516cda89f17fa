package game

import "errors"

// Phase is the current state of a match.
type Phase int

const (
	// PhaseFirstMoveGuess awaits the user's 0/1 addend deciding who moves first.
	PhaseFirstMoveGuess Phase = iota
	// PhaseDiceChoice awaits the user's die selection.
	PhaseDiceChoice
	// PhaseThrowInput awaits the user's 0..5 addend for the current throw.
	PhaseThrowInput
	// PhaseReplay awaits the play-again answer.
	PhaseReplay
	// PhaseTerminal means the match is over; Step returns ErrMatchOver.
	PhaseTerminal
)

func (p Phase) String() string {
	switch p {
	case PhaseFirstMoveGuess:
		return "first_move_guess"
	case PhaseDiceChoice:
		return "dice_choice"
	case PhaseThrowInput:
		return "throw_input"
	case PhaseReplay:
		return "replay"
	case PhaseTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Event is a single user action fed to Match.Step.
type Event interface{ isEvent() }

// NumberEvent carries a numeric answer to the current prompt.
type NumberEvent struct{ N int }

// HelpEvent asks for the win-probability table; the state does not advance.
type HelpEvent struct{}

// CancelEvent abandons the match. Pending keys are discarded unrevealed.
type CancelEvent struct{}

func (NumberEvent) isEvent() {}
func (HelpEvent) isEvent()   {}
func (CancelEvent) isEvent() {}

// Output is what a front end should show after a step: zero or more lines,
// then the prompt to repeat until valid input arrives. Done marks a terminal
// step with no further prompt.
type Output struct {
	Lines  []string
	Prompt string
	Done   bool
}

var (
	// ErrInvalidInput indicates input outside the current prompt's range; the
	// match state is unchanged and the prompt should be repeated.
	ErrInvalidInput = errors.New("game: invalid input")

	// ErrMatchOver indicates a Step on a terminal match.
	ErrMatchOver = errors.New("game: match is over")

	// ErrCommitmentViolation indicates the revealed key failed to reproduce
	// the published commitment. Under correct operation this never happens.
	ErrCommitmentViolation = errors.New("game: revealed key does not match commitment")
)
