package push

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamotypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// Worker is the best-effort delivery loop. Every tick it queries the
// registrations that have come due and publishes each one to SNS exactly
// once. A failed publish marks the row failed and is never retried;
// delivery is not guaranteed.
type Worker struct {
	gateway  *Gateway
	interval time.Duration
}

func NewWorker(gateway *Gateway, interval time.Duration) *Worker {
	return &Worker{gateway: gateway, interval: interval}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.deliverDue(ctx)
		}
	}
}

func (w *Worker) deliverDue(ctx context.Context) {
	g := w.gateway
	if g.topicARN == "" {
		return
	}
	now := time.Now().UTC().Format(time.RFC3339)
	out, err := g.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(g.tableName),
		IndexName:              aws.String("status-fire_at-index"),
		KeyConditionExpression: aws.String("#s = :pending AND fire_at <= :now"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]dynamotypes.AttributeValue{
			":pending": &dynamotypes.AttributeValueMemberS{Value: statusPending},
			":now":     &dynamotypes.AttributeValueMemberS{Value: now},
		},
	})
	if err != nil {
		g.log.Warn("query due notifications", "err", err)
		return
	}
	var due []scheduledItem
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &due); err != nil {
		g.log.Warn("unmarshal due notifications", "err", err)
		return
	}

	for _, item := range due {
		status := statusDelivered
		if err := w.publish(ctx, item); err != nil {
			g.log.Warn("publish notification", "notification_id", item.NotificationID, "err", err)
			status = statusFailed
		}
		w.markStatus(ctx, item.NotificationID, status)
	}
}

func (w *Worker) publish(ctx context.Context, item scheduledItem) error {
	attrs := make(map[string]snstypes.MessageAttributeValue, len(item.Payload)+1)
	for k, v := range item.Payload {
		attrs[k] = snstypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(v),
		}
	}
	_, err := w.gateway.snsClient.Publish(ctx, &sns.PublishInput{
		TopicArn:          aws.String(w.gateway.topicARN),
		Subject:           aws.String(item.Title),
		Message:           aws.String(item.Body),
		MessageAttributes: attrs,
	})
	return err
}

// markStatus flips the row out of pending. A delivered row stays until the
// reminder is cancelled or rescheduled, mirroring an undismissed notification
// sitting in the platform's notification list.
func (w *Worker) markStatus(ctx context.Context, notificationID, status string) {
	g := w.gateway
	_, err := g.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(g.tableName),
		Key:              map[string]dynamotypes.AttributeValue{"notification_id": &dynamotypes.AttributeValueMemberS{Value: notificationID}},
		UpdateExpression: aws.String("SET #s = :s"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]dynamotypes.AttributeValue{
			":s": &dynamotypes.AttributeValueMemberS{Value: status},
		},
	})
	if err != nil {
		g.log.Warn("mark notification status", "notification_id", notificationID, "status", status, "err", err)
	}
}
