package game

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fairdice/internal/dice"
	"fairdice/internal/event"
	"fairdice/internal/logger"
	"fairdice/internal/monitoring"
)

// ErrMatchNotFound indicates an unknown or already finished match id.
var ErrMatchNotFound = errors.New("game: match not found")

// session guards one live match. Match itself is not safe for concurrent
// use, so every Step and the read of its results happen under the session
// mutex.
type session struct {
	mu sync.Mutex
	m  *Match
}

// Service keeps the live match sessions and turns engine steps into events,
// metrics and audit records.
type Service struct {
	mu       sync.Mutex
	sessions map[string]*session
	bus      *event.Bus
	board    *Scoreboard
}

func NewService(bus *event.Bus) *Service {
	return &Service{
		sessions: make(map[string]*session),
		bus:      bus,
		board:    NewScoreboard(),
	}
}

// Create parses the dice specs, starts a match and returns the opening
// output together with the fresh session id.
func (s *Service) Create(specs []string) (StepResponse, error) {
	set, err := dice.ParseSet(specs)
	if err != nil {
		return StepResponse{}, err
	}

	m, err := NewMatch(set)
	if err != nil {
		return StepResponse{}, err
	}

	out, err := m.Start()
	if err != nil {
		return StepResponse{}, err
	}

	id := uuid.New().String()

	s.mu.Lock()
	s.sessions[id] = &session{m: m}
	s.mu.Unlock()

	logger.Log.Info("match created",
		zap.String("match_id", id),
		zap.Int("dice", len(set)),
	)
	return s.response(id, m, out), nil
}

// Input steps a match with one event. Concurrent inputs for the same match
// serialize on the session mutex, which also keeps the audit order of
// revealed rounds consistent. Terminal steps remove the session; its audit
// trail stays in the store.
func (s *Service) Input(id string, ev Event) (StepResponse, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return StepResponse{}, ErrMatchNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	out, err := sess.m.Step(ev)
	if err != nil {
		return StepResponse{}, err
	}

	resp := s.response(id, sess.m, out)

	for _, r := range resp.Rounds {
		monitoring.RoundsRevealed.WithLabelValues(string(r.Purpose)).Inc()
		s.bus.Publish(event.EventRoundRevealed, &RoundEvent{MatchID: id, Round: r})
	}

	if out.Done {
		s.finish(id, sess.m)
	}
	return resp, nil
}

// Get reports a match's phase and score without advancing it.
func (s *Service) Get(id string) (StepResponse, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return StepResponse{}, ErrMatchNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	return StepResponse{
		MatchID: id,
		Phase:   sess.m.Phase().String(),
		Score:   sess.m.Score(),
	}, nil
}

// Stats returns the all-time outcome tallies.
func (s *Service) Stats() map[string]int {
	return s.board.Snapshot()
}

// finish is called with the session mutex held.
func (s *Service) finish(id string, m *Match) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	outcome := "cancelled"
	if !m.Cancelled() {
		outcome = string(m.LastWinner())
	}

	s.board.Record(outcome)
	monitoring.MatchesFinished.WithLabelValues(outcome).Inc()
	s.bus.Publish(event.EventMatchFinished, &MatchEvent{
		MatchID:   id,
		Winner:    outcome,
		Score:     m.Score(),
		Cancelled: m.Cancelled(),
	})

	logger.Log.Info("match finished",
		zap.String("match_id", id),
		zap.String("outcome", outcome),
	)
}

func (s *Service) response(id string, m *Match, out Output) StepResponse {
	return StepResponse{
		MatchID: id,
		Phase:   m.Phase().String(),
		Lines:   out.Lines,
		Prompt:  out.Prompt,
		Done:    out.Done,
		Score:   m.Score(),
		Rounds:  m.TakeRounds(),
	}
}
