package storage

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// ScoreRecord is one score submission. Score is kept as an exact decimal everywhere
// inside the service; it is only turned into a float when written to the wire.
type ScoreRecord struct {
	Name  string
	Score apd.Decimal
	Game  string
}

// NewScoreRecord builds a record from a decimal literal such as "42" or "3.14".
func NewScoreRecord(name, score, game string) (ScoreRecord, error) {
	rec := ScoreRecord{Name: name, Game: game}
	if _, _, err := rec.Score.SetString(score); err != nil {
		return ScoreRecord{}, fmt.Errorf("parse score %q: %w", score, err)
	}
	return rec, nil
}

// ScoreText returns the score in plain decimal notation (no exponent), which is the
// form DynamoDB N attributes and Postgres NUMERIC both accept.
func (r *ScoreRecord) ScoreText() string {
	return r.Score.Text('f')
}

// ScoreFloat converts the exact score to the nearest float64.
func (r *ScoreRecord) ScoreFloat() (float64, error) {
	return r.Score.Float64()
}

// compareScore orders records by score, then name, so listings are deterministic.
func compareScore(a, b *ScoreRecord) int {
	if c := a.Score.Cmp(&b.Score); c != 0 {
		return c
	}
	switch {
	case a.Name < b.Name:
		return -1
	case a.Name > b.Name:
		return 1
	}
	return 0
}

// Bounds of the DynamoDB number type, which is the narrowest store.
const (
	maxScoreDigits   = 38
	minScoreExponent = -130
	maxScoreExponent = 125
)

// CheckRange reports an error when the score cannot be held by the store's numeric type.
func (r *ScoreRecord) CheckRange() error {
	if r.Score.Form != apd.Finite {
		return fmt.Errorf("score %s is not a finite number", r.Score.String())
	}
	if r.Score.IsZero() {
		return nil
	}
	digits := r.Score.NumDigits()
	if digits > maxScoreDigits {
		return fmt.Errorf("score has %d significant digits, at most %d are supported", digits, maxScoreDigits)
	}
	adjusted := int64(r.Score.Exponent) + digits - 1
	if adjusted < minScoreExponent || adjusted > maxScoreExponent {
		return fmt.Errorf("score magnitude is out of range")
	}
	return nil
}
