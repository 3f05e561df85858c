package notify

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Client enqueues notification tasks. Its methods satisfy the notifier
// interfaces declared by the booking and check-in services.
type Client struct {
	client *asynq.Client
	logger *zap.Logger
}

func NewClient(client *asynq.Client, logger *zap.Logger) *Client {
	return &Client{
		client: client,
		logger: logger,
	}
}

func (c *Client) enqueue(ctx context.Context, task *asynq.Task) error {
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue %s failed: %w", task.Type(), err)
	}
	c.logger.Debug("notification task enqueued",
		zap.String("type", task.Type()),
		zap.String("task_id", info.ID),
	)
	return nil
}

func (c *Client) BookingConfirmed(ctx context.Context, bookingID string) error {
	task, err := NewBookingConfirmedTask(bookingID)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}

func (c *Client) CheckinCompleted(ctx context.Context, bookingID string) error {
	task, err := NewCheckinCompletedTask(bookingID)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}
