package notify

import "context"

// Message is a templated notification handed to the dispatcher. The
// producer's contract ends at "accepted for delivery": there is no return
// channel for success or failure.
type Message struct {
	Recipient string
	Subject   string
	Template  string
	Variables map[string]any
}

// Sender delivers a single message. Implementations can be swapped
// (SMTP, SES, a test double) without changing callers.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Store records delivered notifications for audit.
type Store interface {
	Record(ctx context.Context, msg Message) error
}
