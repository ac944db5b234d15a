package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"

	"leaderboard-server/scoreerrors"
	"leaderboard-server/storage"
)

// submission is the POST body. Fields stay raw so presence and JSON type can be checked
// before conversion, and so the score literal never passes through a float64.
type submission struct {
	Name  json.RawMessage `json:"name"`
	Score json.RawMessage `json:"score"`
}

var jsonNull = []byte("null")

// decodeSubmission parses a POST body into a record for Game. All failures are
// *scoreerrors.ValidationError.
func decodeSubmission(body string, isBase64 bool) (storage.ScoreRecord, error) {
	raw := []byte(body)
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return storage.ScoreRecord{}, &scoreerrors.ValidationError{Reason: "body is not valid base64"}
		}
		raw = decoded
	}

	var sub submission
	if err := json.Unmarshal(raw, &sub); err != nil {
		return storage.ScoreRecord{}, &scoreerrors.ValidationError{Reason: "body must be a JSON object"}
	}

	if isAbsent(sub.Name) {
		return storage.ScoreRecord{}, scoreerrors.Invalid("name", "is required")
	}
	var name string
	if err := json.Unmarshal(sub.Name, &name); err != nil {
		return storage.ScoreRecord{}, scoreerrors.Invalid("name", "must be a string")
	}
	if name == "" {
		return storage.ScoreRecord{}, scoreerrors.Invalid("name", "must not be empty")
	}

	if isAbsent(sub.Score) {
		return storage.ScoreRecord{}, scoreerrors.Invalid("score", "is required")
	}
	dec := json.NewDecoder(bytes.NewReader(sub.Score))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return storage.ScoreRecord{}, scoreerrors.Invalid("score", "must be a number")
	}
	num, ok := v.(json.Number)
	if !ok {
		return storage.ScoreRecord{}, scoreerrors.Invalid("score", "must be a number")
	}

	rec, err := storage.NewScoreRecord(name, num.String(), Game)
	if err != nil {
		return storage.ScoreRecord{}, scoreerrors.Invalid("score", "must be a number")
	}
	if err := rec.CheckRange(); err != nil {
		return storage.ScoreRecord{}, scoreerrors.Invalid("score", "is out of range")
	}
	return rec, nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}
