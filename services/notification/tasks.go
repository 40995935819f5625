package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"silverarcade/models"
)

const (
	TypeSendAcknowledgement = "email:acknowledgement"
	TypeSendConfirmation    = "email:confirmation"
)

// emailPayload carries the reservation snapshot into the queue so the worker
// does not need a second storage round trip.
type emailPayload struct {
	Reservation models.Reservation `json:"reservation"`
}

func newEmailTask(taskType string, res *models.Reservation) (*asynq.Task, error) {
	b, err := json.Marshal(emailPayload{Reservation: *res})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, b, asynq.MaxRetry(5)), nil
}

// AsynqNotifier enqueues email tasks onto the Redis-backed queue; a worker
// process renders and delivers them.
type AsynqNotifier struct {
	client *asynq.Client
}

// NewAsynqNotifier wraps an asynq client.
func NewAsynqNotifier(client *asynq.Client) *AsynqNotifier {
	return &AsynqNotifier{client: client}
}

func (n *AsynqNotifier) SendAcknowledgement(ctx context.Context, res *models.Reservation) error {
	return n.enqueue(ctx, TypeSendAcknowledgement, res)
}

func (n *AsynqNotifier) SendConfirmation(ctx context.Context, res *models.Reservation) error {
	return n.enqueue(ctx, TypeSendConfirmation, res)
}

func (n *AsynqNotifier) enqueue(ctx context.Context, taskType string, res *models.Reservation) error {
	if res.GuestInfo.Email == "" {
		return nil
	}
	task, err := newEmailTask(taskType, res)
	if err != nil {
		return err
	}
	if _, err := n.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue %s task: %w", taskType, err)
	}
	return nil
}
