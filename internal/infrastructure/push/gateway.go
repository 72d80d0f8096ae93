package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/organizer-api/internal/application/scheduling"
	"github.com/organizer-api/internal/config"
)

// Notification statuses as stored on the platform side.
const (
	statusPending   = "pending"
	statusDelivered = "delivered"
	statusFailed    = "failed"
)

// batchWriteLimit is the DynamoDB BatchWriteItem ceiling.
const batchWriteLimit = 25

// scheduledItem is the platform-side record of one registered notification.
// The table is keyed by notification_id, so re-submitting under the same ID
// replaces the registration in place.
type scheduledItem struct {
	NotificationID string            `dynamodbav:"notification_id"`
	Title          string            `dynamodbav:"title"`
	Body           string            `dynamodbav:"body"`
	FireAt         string            `dynamodbav:"fire_at"` // RFC 3339 UTC, minute resolution
	Status         string            `dynamodbav:"status"`
	Payload        map[string]string `dynamodbav:"payload"`
	CreatedAt      time.Time         `dynamodbav:"created_at"`
}

// Gateway implements scheduling.Gateway on AWS: a DynamoDB table holds the
// registrations and SNS carries the actual delivery (see Worker).
type Gateway struct {
	db        *dynamodb.Client
	snsClient *sns.Client
	tableName string
	topicARN  string
	log       *slog.Logger
}

func NewGateway(cfg *config.Config, db *dynamodb.Client, log *slog.Logger) (*Gateway, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}
	snsOpts := []func(*sns.Options){}
	if cfg.AWSEndpointURL != "" {
		snsOpts = append(snsOpts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}
	return &Gateway{
		db:        db,
		snsClient: sns.NewFromConfig(awsCfg, snsOpts...),
		tableName: cfg.DynamoTables.ScheduledNotifications,
		topicARN:  cfg.SNSTopicARN,
		log:       log,
	}, nil
}

func (g *Gateway) Submit(ctx context.Context, notificationID string, n scheduling.Notification) error {
	item, err := attributevalue.MarshalMap(&scheduledItem{
		NotificationID: notificationID,
		Title:          n.Title,
		Body:           n.Body,
		FireAt:         n.FireAt.UTC().Truncate(time.Minute).Format(time.RFC3339),
		Status:         statusPending,
		Payload:        n.Payload,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal scheduled notification: %w", errors.Join(scheduling.ErrSchedulingFailure, err))
	}
	_, err = g.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(g.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put scheduled notification: %w", errors.Join(scheduling.ErrSchedulingFailure, err))
	}
	return nil
}

// Cancel deletes the registration row whatever its status, which removes both
// a pending and an already-fired-but-undismissed notification. Deleting a row
// that does not exist is a no-op at the platform.
func (g *Gateway) Cancel(ctx context.Context, notificationID string) error {
	_, err := g.db.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(g.tableName),
		Key: map[string]types.AttributeValue{
			"notification_id": &types.AttributeValueMemberS{Value: notificationID},
		},
	})
	if err != nil {
		return fmt.Errorf("delete scheduled notification: %w", err)
	}
	return nil
}

// CancelBatch amortizes bulk cancellation into BatchWriteItem calls of up to
// 25 deletes each. Unprocessed keys are reported, not retried.
func (g *Gateway) CancelBatch(ctx context.Context, notificationIDs []string) error {
	for start := 0; start < len(notificationIDs); start += batchWriteLimit {
		end := start + batchWriteLimit
		if end > len(notificationIDs) {
			end = len(notificationIDs)
		}
		reqs := make([]types.WriteRequest, 0, end-start)
		for _, nid := range notificationIDs[start:end] {
			reqs = append(reqs, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: map[string]types.AttributeValue{
						"notification_id": &types.AttributeValueMemberS{Value: nid},
					},
				},
			})
		}
		out, err := g.db.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{g.tableName: reqs},
		})
		if err != nil {
			return fmt.Errorf("batch delete scheduled notifications: %w", err)
		}
		if unprocessed := len(out.UnprocessedItems[g.tableName]); unprocessed > 0 {
			return fmt.Errorf("batch delete left %d notifications unprocessed", unprocessed)
		}
	}
	return nil
}

// RequestAuthorization probes whether the delivery topic is reachable. It is
// idempotent and may be called on every startup. When no topic is configured
// delivery is simply disabled, which is not an error.
func (g *Gateway) RequestAuthorization(ctx context.Context) (bool, error) {
	if g.topicARN == "" {
		g.log.Warn("no SNS topic configured, notifications will never fire")
		return false, nil
	}
	_, err := g.snsClient.GetTopicAttributes(ctx, &sns.GetTopicAttributesInput{
		TopicArn: aws.String(g.topicARN),
	})
	if err != nil {
		return false, fmt.Errorf("get topic attributes: %w", errors.Join(scheduling.ErrPermissionDenied, err))
	}
	return true, nil
}
