package event

const (
	EventRoundRevealed = "round.revealed"
	EventMatchFinished = "match.finished"
)
