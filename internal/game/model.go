package game

// CreateMatchRequest starts a match over the given dice specs, one
// comma-separated die per entry.
type CreateMatchRequest struct {
	Dice []string `json:"dice"`
}

// InputRequest is one step of an existing match: either a number answering
// the current prompt, or an action ("help" or "cancel").
type InputRequest struct {
	Number *int   `json:"number,omitempty"`
	Action string `json:"action,omitempty"`
}

// StepResponse mirrors the engine's Output plus the session bookkeeping a
// client needs.
type StepResponse struct {
	MatchID string        `json:"match_id"`
	Phase   string        `json:"phase"`
	Lines   []string      `json:"lines,omitempty"`
	Prompt  string        `json:"prompt,omitempty"`
	Done    bool          `json:"done"`
	Score   Score         `json:"score"`
	Rounds  []RoundRecord `json:"rounds,omitempty"`
}

// VerifyRequest is the external audit contract: a published commitment, the
// revealed key and the claimed house value.
type VerifyRequest struct {
	Hmac  string `json:"hmac"`
	Key   string `json:"key"`
	Value int    `json:"value"`
}

type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// RoundEvent is published on the bus for every revealed round.
type RoundEvent struct {
	MatchID string      `json:"match_id"`
	Round   RoundRecord `json:"round"`
}

// MatchEvent is published when a match reaches its terminal state.
type MatchEvent struct {
	MatchID   string `json:"match_id"`
	Winner    string `json:"winner"`
	Score     Score  `json:"score"`
	Cancelled bool   `json:"cancelled"`
}
