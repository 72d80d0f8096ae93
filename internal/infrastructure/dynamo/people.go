package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/organizer-api/internal/domain"
)

// PersonRepo provides typed DynamoDB operations for the people table.
type PersonRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPersonRepo(client *dynamodb.Client, tableName string) *PersonRepo {
	return &PersonRepo{client: client, tableName: tableName}
}

func (r *PersonRepo) Put(ctx context.Context, p *domain.Person) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal person: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PersonRepo) Get(ctx context.Context, personID string) (*domain.Person, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("person_id", personID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("person %s: %w", personID, domain.ErrNotFound)
	}
	var p domain.Person
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// List scans the full people table. The dataset is one owner's contacts, so a
// scan stays small.
func (r *PersonRepo) List(ctx context.Context) ([]domain.Person, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}
	var people []domain.Person
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &people); err != nil {
		return nil, err
	}
	return people, nil
}

func (r *PersonRepo) Update(ctx context.Context, personID string, updates map[string]interface{}) error {
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("person_id", personID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *PersonRepo) Delete(ctx context.Context, personID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("person_id", personID),
	})
	return err
}
