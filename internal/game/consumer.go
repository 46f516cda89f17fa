package game

import (
	"go.uber.org/zap"

	"fairdice/internal/event"
	"fairdice/internal/logger"
)

// RoundStore persists revealed rounds; implemented by internal/store.
type RoundStore interface {
	RecordRound(matchID string, r RoundRecord) error
}

// Broadcaster fans events out to spectators; implemented by internal/ws.
type Broadcaster interface {
	BroadcastJSON(v interface{})
}

// RegisterConsumers wires the audit store and the websocket hub to the bus.
// A failed audit write is logged, never surfaced to the player: the reveal
// already happened and the protocol result stands.
func RegisterConsumers(bus *event.Bus, st RoundStore, hub Broadcaster) {

	bus.Subscribe(event.EventRoundRevealed, func(payload interface{}) {
		ev, ok := payload.(*RoundEvent)
		if !ok {
			return
		}

		if err := st.RecordRound(ev.MatchID, ev.Round); err != nil {
			logger.Log.Error("audit round",
				zap.String("match_id", ev.MatchID),
				zap.Error(err),
			)
		}
		hub.BroadcastJSON(ev)
	})

	bus.Subscribe(event.EventMatchFinished, func(payload interface{}) {
		if ev, ok := payload.(*MatchEvent); ok {
			hub.BroadcastJSON(ev)
		}
	})
}
