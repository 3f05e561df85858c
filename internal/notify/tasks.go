package notify

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type names routed through the notification queue.
const (
	TypeBookingConfirmed = "notify:booking_confirmed"
	TypeCheckinCompleted = "notify:checkin_completed"
)

// BookingPayload carries the booking reference; handlers reload the full
// record so stale queue entries never deliver outdated details.
type BookingPayload struct {
	BookingID string `json:"booking_id"`
}

func newBookingTask(taskType, bookingID string) (*asynq.Task, error) {
	payload, err := json.Marshal(BookingPayload{BookingID: bookingID})
	if err != nil {
		return nil, fmt.Errorf("encode %s payload failed: %w", taskType, err)
	}
	return asynq.NewTask(taskType, payload, asynq.MaxRetry(5)), nil
}

func NewBookingConfirmedTask(bookingID string) (*asynq.Task, error) {
	return newBookingTask(TypeBookingConfirmed, bookingID)
}

func NewCheckinCompletedTask(bookingID string) (*asynq.Task, error) {
	return newBookingTask(TypeCheckinCompleted, bookingID)
}
