package domain

import "time"

// TurnRecord groups every formatted event produced while resolving a single
// turn number. The turn log is ordered and append-only: records carry
// strictly increasing turn numbers, and only the game-tick driver produces
// entries for it, once per resolved turn.
type TurnRecord struct {
	TurnNumber int
	Events     []string
	RecordedAt time.Time
}
