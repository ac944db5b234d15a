package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Fixed DynamoDB identifiers. The table is keyed by name (hash) and score (range);
// ScoreIndex is a global secondary index keyed by game (hash) and score (range).
const (
	TableName      = "Leaderboard"
	ScoreIndexName = "ScoreIndex"

	attrName  = "name"
	attrScore = "score"
	attrGame  = "game"
)

// DynamoDBClient is the subset of *dynamodb.Client used by DynamoStore.
type DynamoDBClient interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

var _ DynamoDBClient = (*dynamodb.Client)(nil)

// DynamoStore persists score records in the Leaderboard table.
type DynamoStore struct {
	client DynamoDBClient
}

// NewDynamoStore wraps client.
func NewDynamoStore(client DynamoDBClient) *DynamoStore {
	return &DynamoStore{client: client}
}

// NewDynamoClient loads the default AWS config chain (Lambda execution role, env, shared
// config). region and endpoint override the chain when non-empty; endpoint is meant for
// DynamoDB Local.
func NewDynamoClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// ListTop queries ScoreIndex for game, ascending by score, returning at most limit items.
func (s *DynamoStore) ListTop(ctx context.Context, game string, limit int) ([]ScoreRecord, error) {
	keyCond := expression.Key(attrGame).Equal(expression.Value(game))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("build key condition: %w", err)
	}
	input := &dynamodb.QueryInput{
		TableName:                 aws.String(TableName),
		IndexName:                 aws.String(ScoreIndexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(true),
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}
	out, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", ScoreIndexName, err)
	}
	recs := make([]ScoreRecord, 0, len(out.Items))
	for _, item := range out.Items {
		rec, err := decodeItem(item)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	slog.Debug("queried top scores", "tag", "storage", "game", game, "count", len(recs))
	return recs, nil
}

// Put writes rec with PutItem. An item with the same name and score is replaced.
func (s *DynamoStore) Put(ctx context.Context, rec ScoreRecord) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(TableName),
		Item: map[string]types.AttributeValue{
			attrName:  &types.AttributeValueMemberS{Value: rec.Name},
			attrScore: &types.AttributeValueMemberN{Value: rec.ScoreText()},
			attrGame:  &types.AttributeValueMemberS{Value: rec.Game},
		},
	})
	if err != nil {
		return fmt.Errorf("put score for %q: %w", rec.Name, err)
	}
	return nil
}

func decodeItem(item map[string]types.AttributeValue) (ScoreRecord, error) {
	name, ok := item[attrName].(*types.AttributeValueMemberS)
	if !ok {
		return ScoreRecord{}, fmt.Errorf("item attribute %q missing or not a string", attrName)
	}
	game, ok := item[attrGame].(*types.AttributeValueMemberS)
	if !ok {
		return ScoreRecord{}, fmt.Errorf("item attribute %q missing or not a string", attrGame)
	}
	score, ok := item[attrScore].(*types.AttributeValueMemberN)
	if !ok {
		return ScoreRecord{}, fmt.Errorf("item attribute %q missing or not a number", attrScore)
	}
	return NewScoreRecord(name.Value, score.Value, game.Value)
}
