package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo records the inputs it receives and returns canned output.
type fakeDynamo struct {
	queryIn  *dynamodb.QueryInput
	queryOut *dynamodb.QueryOutput
	putIn    *dynamodb.PutItemInput
	err      error
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queryIn = in
	if f.err != nil {
		return nil, f.err
	}
	if f.queryOut == nil {
		return &dynamodb.QueryOutput{}, nil
	}
	return f.queryOut, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.putIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.PutItemOutput{}, nil
}

func item(name, score, game string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"name":  &types.AttributeValueMemberS{Value: name},
		"score": &types.AttributeValueMemberN{Value: score},
		"game":  &types.AttributeValueMemberS{Value: game},
	}
}

func TestDynamoStore_ListTopQueryShape(t *testing.T) {
	fake := &fakeDynamo{queryOut: &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{
		item("alice", "0.231", "clickgame"),
		item("bob", "3.14", "clickgame"),
	}}}
	s := NewDynamoStore(fake)

	recs, err := s.ListTop(context.Background(), "clickgame", 10)
	if err != nil {
		t.Fatalf("ListTop: %v", err)
	}

	in := fake.queryIn
	if aws.ToString(in.TableName) != TableName {
		t.Errorf("expected table %q, got %q", TableName, aws.ToString(in.TableName))
	}
	if aws.ToString(in.IndexName) != ScoreIndexName {
		t.Errorf("expected index %q, got %q", ScoreIndexName, aws.ToString(in.IndexName))
	}
	if !aws.ToBool(in.ScanIndexForward) {
		t.Error("expected ScanIndexForward=true (ascending)")
	}
	if aws.ToInt32(in.Limit) != 10 {
		t.Errorf("expected Limit=10, got %d", aws.ToInt32(in.Limit))
	}
	if in.KeyConditionExpression == nil {
		t.Fatal("expected a key condition expression")
	}
	var sawGame bool
	for _, v := range in.ExpressionAttributeValues {
		if s, ok := v.(*types.AttributeValueMemberS); ok && s.Value == "clickgame" {
			sawGame = true
		}
	}
	if !sawGame {
		t.Errorf("expected game value in expression values, got %+v", in.ExpressionAttributeValues)
	}
	var sawGameName bool
	for _, n := range in.ExpressionAttributeNames {
		if n == "game" {
			sawGameName = true
		}
	}
	if !sawGameName {
		t.Errorf("expected game attribute in expression names, got %+v", in.ExpressionAttributeNames)
	}

	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[1].Name != "bob" || recs[1].ScoreText() != "3.14" || recs[1].Game != "clickgame" {
		t.Errorf("unexpected decoded record %s/%s/%s", recs[1].Name, recs[1].ScoreText(), recs[1].Game)
	}
}

func TestDynamoStore_ListTopBadItem(t *testing.T) {
	bad := item("alice", "1", "clickgame")
	bad["score"] = &types.AttributeValueMemberS{Value: "1"}
	fake := &fakeDynamo{queryOut: &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{bad}}}

	if _, err := NewDynamoStore(fake).ListTop(context.Background(), "clickgame", 10); err == nil {
		t.Error("expected error for score stored as string")
	}
}

func TestDynamoStore_PutWritesNumberAttribute(t *testing.T) {
	fake := &fakeDynamo{}
	rec, _ := NewScoreRecord("alice", "3.14", "clickgame")

	if err := NewDynamoStore(fake).Put(context.Background(), rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	in := fake.putIn
	if aws.ToString(in.TableName) != TableName {
		t.Errorf("expected table %q, got %q", TableName, aws.ToString(in.TableName))
	}
	if in.ConditionExpression != nil {
		t.Error("put must be unconditional")
	}
	score, ok := in.Item["score"].(*types.AttributeValueMemberN)
	if !ok || score.Value != "3.14" {
		t.Errorf("expected score N=3.14, got %#v", in.Item["score"])
	}
	name, ok := in.Item["name"].(*types.AttributeValueMemberS)
	if !ok || name.Value != "alice" {
		t.Errorf("expected name S=alice, got %#v", in.Item["name"])
	}
	game, ok := in.Item["game"].(*types.AttributeValueMemberS)
	if !ok || game.Value != "clickgame" {
		t.Errorf("expected game S=clickgame, got %#v", in.Item["game"])
	}
}

func TestDynamoStore_ErrorsPropagate(t *testing.T) {
	boom := errors.New("throughput exceeded")
	fake := &fakeDynamo{err: boom}
	s := NewDynamoStore(fake)

	if _, err := s.ListTop(context.Background(), "clickgame", 10); !errors.Is(err, boom) {
		t.Errorf("ListTop: expected wrapped %v, got %v", boom, err)
	}
	rec, _ := NewScoreRecord("alice", "1", "clickgame")
	if err := s.Put(context.Background(), rec); !errors.Is(err, boom) {
		t.Errorf("Put: expected wrapped %v, got %v", boom, err)
	}
}
