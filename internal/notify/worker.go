package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/eventsfp/booking-backend/internal/booking"
)

// Worker consumes notification tasks. Actual delivery goes to the log;
// swapping in an email or SMS sender only touches the deliver method.
type Worker struct {
	bookings booking.Repository
	logger   *zap.Logger
}

func NewWorker(bookings booking.Repository, logger *zap.Logger) *Worker {
	return &Worker{
		bookings: bookings,
		logger:   logger,
	}
}

// Mux returns the task router for the asynq server.
func (w *Worker) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingConfirmed, w.handleBookingConfirmed)
	mux.HandleFunc(TypeCheckinCompleted, w.handleCheckinCompleted)
	return mux
}

func (w *Worker) loadBooking(ctx context.Context, task *asynq.Task) (*booking.Booking, error) {
	var payload BookingPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		// Malformed payloads can never succeed; drop instead of retrying.
		return nil, fmt.Errorf("decode %s payload failed: %w: %w", task.Type(), err, asynq.SkipRetry)
	}
	return w.bookings.GetByID(ctx, payload.BookingID)
}

func (w *Worker) handleBookingConfirmed(ctx context.Context, task *asynq.Task) error {
	b, err := w.loadBooking(ctx, task)
	if err != nil {
		return err
	}

	w.deliver("booking confirmed", b)
	return nil
}

func (w *Worker) handleCheckinCompleted(ctx context.Context, task *asynq.Task) error {
	b, err := w.loadBooking(ctx, task)
	if err != nil {
		return err
	}

	w.deliver("check-in completed", b)
	return nil
}

func (w *Worker) deliver(subject string, b *booking.Booking) {
	w.logger.Info("notification delivered",
		zap.String("subject", subject),
		zap.String("booking_id", b.ID),
		zap.String("recipient", b.CustomerEmail),
		zap.String("event", b.EventName),
		zap.Time("start_time", b.StartTime),
	)
}
