package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"leaderboard-server/scoreerrors"
	"leaderboard-server/storage"
)

const (
	// Game is the only leaderboard partition this service reads or writes.
	Game = "clickgame"
	// TopScoresLimit caps the number of entries returned by GET.
	TopScoresLimit = 10
)

const (
	msgPreflight          = "CORS preflight request successful"
	msgScoreAdded         = "Score added successfully"
	msgUnsupportedMethod  = "Unsupported HTTP method"
	msgInvalidSubmissionf = "Invalid score submission: %s"
)

// CORSHeaders returns the headers attached to every response, on every path.
// A new map is returned each call so callers may add to it.
func CORSHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token",
	}
}

// ScoreEntry is one element of the GET response.
type ScoreEntry struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Game  string  `json:"game"`
}

// Handler holds dependencies for the leaderboard endpoint.
type Handler struct {
	Store  storage.ScoreStore
	logger *slog.Logger
}

// NewHandler creates a new Handler backed by store.
func NewHandler(store storage.ScoreStore) *Handler {
	return &Handler{
		Store:  store,
		logger: slog.Default().With("tag", "api"),
	}
}

// Handle serves one API Gateway proxy event. Store failures are returned as errors so
// the hosting runtime reports them as a generic fault; every other outcome is a response.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var (
		resp events.APIGatewayProxyResponse
		err  error
	)
	switch req.HTTPMethod {
	case http.MethodOptions:
		resp, err = respond(http.StatusOK, msgPreflight)
	case http.MethodGet:
		resp, err = h.listTopScores(ctx)
	case http.MethodPost:
		resp, err = h.submitScore(ctx, req)
	default:
		resp, err = respond(http.StatusBadRequest, msgUnsupportedMethod)
	}

	logger := h.log().With("request_id", req.RequestContext.RequestID, "method", req.HTTPMethod)
	if err != nil {
		logger.Error("request failed", "err", err)
		return events.APIGatewayProxyResponse{}, err
	}
	logger.Info("request handled", "status", resp.StatusCode)
	return resp, nil
}

func (h *Handler) log() *slog.Logger {
	if h.logger == nil {
		return slog.Default().With("tag", "api")
	}
	return h.logger
}

// listTopScores returns the lowest TopScoresLimit scores of Game, ascending.
// Lower is better: the score is a reaction time.
func (h *Handler) listTopScores(ctx context.Context) (events.APIGatewayProxyResponse, error) {
	recs, err := h.Store.ListTop(ctx, Game, TopScoresLimit)
	if err != nil {
		return events.APIGatewayProxyResponse{}, fmt.Errorf("list top scores: %w", err)
	}
	if len(recs) > TopScoresLimit {
		recs = recs[:TopScoresLimit]
	}
	entries := make([]ScoreEntry, 0, len(recs))
	for i := range recs {
		f, err := recs[i].ScoreFloat()
		if err != nil {
			return events.APIGatewayProxyResponse{}, fmt.Errorf("convert score of %q: %w", recs[i].Name, err)
		}
		entries = append(entries, ScoreEntry{Name: recs[i].Name, Score: f, Game: recs[i].Game})
	}
	return respond(http.StatusOK, entries)
}

// submitScore decodes the body and writes the record without any existence check.
func (h *Handler) submitScore(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	rec, err := decodeSubmission(req.Body, req.IsBase64Encoded)
	if err != nil {
		if scoreerrors.IsValidation(err) {
			h.log().Info("rejected submission", "request_id", req.RequestContext.RequestID, "reason", err)
			return respond(http.StatusBadRequest, fmt.Sprintf(msgInvalidSubmissionf, err))
		}
		return events.APIGatewayProxyResponse{}, err
	}
	if err := h.Store.Put(ctx, rec); err != nil {
		return events.APIGatewayProxyResponse{}, fmt.Errorf("submit score: %w", err)
	}
	return respond(http.StatusOK, msgScoreAdded)
}

// respond JSON-encodes body and attaches the CORS headers.
func respond(status int, body any) (events.APIGatewayProxyResponse, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{}, fmt.Errorf("encode response: %w", err)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    CORSHeaders(),
		Body:       string(b),
	}, nil
}
