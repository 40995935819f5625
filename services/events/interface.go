package events

import "context"

// Sink broadcasts state-change notifications to listening real-time clients.
// Delivery is best effort: the caller logs and swallows every error, and no
// core behaviour may depend on a publish succeeding.
type Sink interface {
	Publish(ctx context.Context, event string, payload any) error
}

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }

// Multi fans an event out to several sinks. Each sink gets the event even if
// an earlier one failed; the last error is returned for logging.
type Multi []Sink

func (m Multi) Publish(ctx context.Context, event string, payload any) error {
	var last error
	for _, s := range m {
		if err := s.Publish(ctx, event, payload); err != nil {
			last = err
		}
	}
	return last
}
