package state

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	apperrors "github.com/lakedeploy/lakedeploy/internal/errors"
)

// DynamoDBAPI is the subset of the DynamoDB client the backend uses.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// stateItemID is the partition key of the single state item per table.
const stateItemID = "state"

// dynamoRecord is the table item. The state document is stored as a JSON
// string; the revision counter backs the optimistic write condition.
type dynamoRecord struct {
	ID       string `dynamodbav:"id"`
	Revision int64  `dynamodbav:"revision"`
	Document string `dynamodbav:"document"`
}

// DynamoBackend stores the state document in a DynamoDB table so multiple
// operators can share it. Saves are guarded by an optimistic revision
// check; a concurrent save surfaces as a state error instead of silently
// overwriting.
type DynamoBackend struct {
	client   DynamoDBAPI
	table    string
	revision int64
}

// NewDynamoBackend creates a backend over the given table.
func NewDynamoBackend(client DynamoDBAPI, table string) *DynamoBackend {
	return &DynamoBackend{client: client, table: table}
}

// Load fetches the state item. A missing item is an empty state at
// revision zero.
func (b *DynamoBackend) Load(ctx context.Context) (*State, error) {
	out, err := b.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(b.table),
		Key:            map[string]ddbtypes.AttributeValue{"id": &ddbtypes.AttributeValueMemberS{Value: stateItemID}},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, apperrors.ErrState("failed to read state from table "+b.table, err)
	}
	if len(out.Item) == 0 {
		b.revision = 0
		return NewState(), nil
	}

	var record dynamoRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, apperrors.ErrState("failed to decode state item", err)
	}

	var st State
	if err := json.Unmarshal([]byte(record.Document), &st); err != nil {
		return nil, apperrors.ErrState("state document in table "+b.table+" is corrupt", err)
	}
	b.revision = record.Revision
	return &st, nil
}

// Save writes the state, requiring that nobody else saved since our Load.
func (b *DynamoBackend) Save(ctx context.Context, st *State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return apperrors.ErrState("failed to encode state", err)
	}

	item, err := attributevalue.MarshalMap(dynamoRecord{
		ID:       stateItemID,
		Revision: b.revision + 1,
		Document: string(data),
	})
	if err != nil {
		return apperrors.ErrState("failed to encode state item", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(b.table),
		Item:      item,
	}
	if b.revision == 0 {
		input.ConditionExpression = aws.String("attribute_not_exists(id) OR revision = :prev")
	} else {
		input.ConditionExpression = aws.String("revision = :prev")
	}
	input.ExpressionAttributeValues = map[string]ddbtypes.AttributeValue{
		":prev": &ddbtypes.AttributeValueMemberN{Value: formatRevision(b.revision)},
	}

	if _, err := b.client.PutItem(ctx, input); err != nil {
		var conflict *ddbtypes.ConditionalCheckFailedException
		if errors.As(err, &conflict) {
			return apperrors.ErrState("state was modified by another operator, reload and retry", err)
		}
		return apperrors.ErrState("failed to write state to table "+b.table, err)
	}
	b.revision++
	return nil
}

func formatRevision(rev int64) string {
	return strconv.FormatInt(rev, 10)
}
