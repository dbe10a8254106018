package session

import "github.com/paperdrill/backend/internal/model"

// Ledger is the write-once record of finalized grading results: at most one
// entry per unit identifier, ever. A second write for the same identifier is
// a no-op.
type Ledger struct {
	entries map[model.UnitID]model.AnswerResult
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[model.UnitID]model.AnswerResult)}
}

// Record stores the result for its unit. It reports whether the entry was
// written; false means the unit already had one and nothing changed.
// Awarded points are capped at the possible points.
func (l *Ledger) Record(res model.AnswerResult) bool {
	if _, ok := l.entries[res.UnitID]; ok {
		return false
	}
	if res.PointsAwarded > res.PointsPossible {
		res.PointsAwarded = res.PointsPossible
	}
	l.entries[res.UnitID] = res
	return true
}

// Get returns the recorded result for a unit, if any.
func (l *Ledger) Get(id model.UnitID) (model.AnswerResult, bool) {
	res, ok := l.entries[id]
	return res, ok
}

// Has reports whether the unit has a recorded result.
func (l *Ledger) Has(id model.UnitID) bool {
	_, ok := l.entries[id]
	return ok
}

// Len returns the number of recorded results.
func (l *Ledger) Len() int { return len(l.entries) }

// Score folds the ledger into the running totals. It is always recomputed
// from the entries rather than patched incrementally, so the totals cannot
// drift from what the ledger actually holds.
func (l *Ledger) Score() model.Score {
	var s model.Score
	for _, res := range l.entries {
		s.Awarded += res.PointsAwarded
		s.Possible += res.PointsPossible
	}
	return s
}
