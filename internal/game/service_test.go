package game

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairdice/internal/dice"
	"fairdice/internal/event"
	"fairdice/internal/fair"
)

type memStore struct {
	mu     sync.Mutex
	rounds map[string][]RoundRecord
}

func newMemStore() *memStore {
	return &memStore{rounds: make(map[string][]RoundRecord)}
}

func (m *memStore) RecordRound(matchID string, r RoundRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rounds[matchID] = append(m.rounds[matchID], r)
	return nil
}

func (m *memStore) Rounds(matchID string) ([]RoundRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]RoundRecord(nil), m.rounds[matchID]...), nil
}

type memHub struct {
	sent []interface{}
}

func (m *memHub) BroadcastJSON(v interface{}) {
	m.sent = append(m.sent, v)
}

func specs() []string {
	return []string{"2,2,4,4,9,9", "1,1,6,6,8,8", "3,3,5,5,7,7"}
}

func newTestService(t *testing.T) (*Service, *memStore, *memHub) {
	t.Helper()
	bus := event.NewBus()
	st := newMemStore()
	hub := &memHub{}
	RegisterConsumers(bus, st, hub)
	return NewService(bus), st, hub
}

func TestServiceCreateValidatesDice(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create([]string{"1,2,3,4,5,6"})
	assert.ErrorIs(t, err, dice.ErrTooFewDice)

	_, err = svc.Create([]string{"1,2,3", "1,2,3,4,5,6", "1,2,3,4,5,6"})
	assert.ErrorIs(t, err, dice.ErrInvalidDieSpec)
}

func TestServiceCreateOpensFirstRound(t *testing.T) {
	svc, st, _ := newTestService(t)

	resp, err := svc.Create(specs())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.MatchID)
	assert.Equal(t, "first_move_guess", resp.Phase)
	assert.NotEmpty(t, resp.Prompt)
	assert.Empty(t, resp.Rounds, "nothing revealed before user input")
	assert.Empty(t, st.rounds)
}

func TestServiceInputRevealsAndAudits(t *testing.T) {
	svc, st, hub := newTestService(t)

	created, err := svc.Create(specs())
	require.NoError(t, err)

	resp, err := svc.Input(created.MatchID, NumberEvent{N: 0})
	require.NoError(t, err)
	require.Len(t, resp.Rounds, 1)
	assert.Equal(t, "dice_choice", resp.Phase)

	rec := resp.Rounds[0]
	assert.Equal(t, PurposeFirstMove, rec.Purpose)
	assert.True(t, fair.Verify(rec.Commitment, rec.Key, rec.HouseValue))

	stored := st.rounds[created.MatchID]
	require.Len(t, stored, 1)
	assert.Equal(t, rec, stored[0])
	assert.NotEmpty(t, hub.sent)
}

func TestServiceUnknownMatch(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Input("nope", NumberEvent{N: 0})
	assert.ErrorIs(t, err, ErrMatchNotFound)

	_, err = svc.Get("nope")
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestServiceCancelFinishesMatch(t *testing.T) {
	svc, _, hub := newTestService(t)

	created, err := svc.Create(specs())
	require.NoError(t, err)

	resp, err := svc.Input(created.MatchID, CancelEvent{})
	require.NoError(t, err)
	assert.True(t, resp.Done)

	_, err = svc.Get(created.MatchID)
	assert.ErrorIs(t, err, ErrMatchNotFound, "terminal matches are dropped")

	assert.Equal(t, map[string]int{"cancelled": 1}, svc.Stats())

	last, ok := hub.sent[len(hub.sent)-1].(*MatchEvent)
	require.True(t, ok)
	assert.True(t, last.Cancelled)
}

func TestServiceFullDuel(t *testing.T) {
	svc, st, _ := newTestService(t)

	created, err := svc.Create(specs())
	require.NoError(t, err)
	id := created.MatchID

	// First move addend.
	resp, err := svc.Input(id, NumberEvent{N: 1})
	require.NoError(t, err)
	require.Equal(t, "dice_choice", resp.Phase)

	// The house may have taken die 0; fall back to die 1.
	resp, err = svc.Input(id, NumberEvent{N: 0})
	if err != nil {
		require.ErrorIs(t, err, ErrInvalidInput)
		resp, err = svc.Input(id, NumberEvent{N: 1})
	}
	require.NoError(t, err)
	require.Equal(t, "throw_input", resp.Phase)

	// Two throws.
	resp, err = svc.Input(id, NumberEvent{N: 3})
	require.NoError(t, err)
	require.Equal(t, "throw_input", resp.Phase)

	resp, err = svc.Input(id, NumberEvent{N: 5})
	require.NoError(t, err)
	require.Equal(t, "replay", resp.Phase)

	// Decline the replay.
	resp, err = svc.Input(id, NumberEvent{N: 0})
	require.NoError(t, err)
	assert.True(t, resp.Done)

	// One first-move round plus two throws, all auditable.
	stored := st.rounds[id]
	require.Len(t, stored, 3)
	for _, r := range stored {
		assert.True(t, fair.Verify(r.Commitment, r.Key, r.HouseValue))
	}

	total := 0
	for _, n := range svc.Stats() {
		total += n
	}
	assert.Equal(t, 1, total)
}

// Concurrent inputs for one match must serialize on the session, never race
// on the engine state, and leave a coherent audit trail.
func TestConcurrentInputsSerializePerSession(t *testing.T) {
	svc, st, _ := newTestService(t)

	created, err := svc.Create(specs())
	require.NoError(t, err)
	id := created.MatchID

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Input(id, NumberEvent{N: 1})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		ok := errors.Is(err, ErrInvalidInput) ||
			errors.Is(err, ErrMatchOver) ||
			errors.Is(err, ErrMatchNotFound)
		assert.True(t, ok, "goroutine %d: unexpected error: %v", i, err)
	}

	// Whatever interleaving won, every audited round must still verify.
	stored, err := st.Rounds(id)
	require.NoError(t, err)
	assert.NotEmpty(t, stored)
	for _, r := range stored {
		assert.True(t, fair.Verify(r.Commitment, r.Key, r.HouseValue))
	}
}
