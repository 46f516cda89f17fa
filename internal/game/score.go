package game

import "sync"

// Scoreboard tallies finished matches by their last winner across all
// sessions the service has seen.
type Scoreboard struct {
	data map[string]int
	mu   sync.Mutex
}

func NewScoreboard() *Scoreboard {
	return &Scoreboard{
		data: make(map[string]int),
	}
}

func (b *Scoreboard) Record(outcome string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data[outcome]++
}

// Snapshot copies the tallies for reporting.
func (b *Scoreboard) Snapshot() map[string]int {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[string]int, len(b.data))
	for k, v := range b.data {
		out[k] = v
	}
	return out
}
