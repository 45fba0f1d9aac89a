package notification

import (
	"context"
	"log/slog"
)

type Channel string
type Priority string

const (
	ChannelEmail Channel = "email"
)

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Content holds the channel-specific message data.
type Content struct {
	EmailSubject  string
	EmailHTMLBody string
}

// Notification is the universal object used to send any notification.
type Notification struct {
	Recipient string
	Channels  []Channel
	Priority  Priority
	Content   Content
}

type emailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Service is the main interface for the notification system. Delivery is
// best effort: failures are logged, never returned to the request path.
type Service interface {
	Send(ctx context.Context, n Notification) error
}

type service struct {
	log         *slog.Logger
	emailSender emailSender
}

// NewService creates a new notification service.
func NewService(log *slog.Logger, emailSender emailSender) Service {
	return &service{log: log, emailSender: emailSender}
}

// Send dispatches the notification to each requested channel in its own
// goroutine and returns immediately.
func (s *service) Send(ctx context.Context, n Notification) error {
	for _, channel := range n.Channels {
		go func(ch Channel) {
			var err error
			switch ch {
			case ChannelEmail:
				s.log.Info("dispatching email notification", "recipient", n.Recipient)
				err = s.emailSender.Send(context.WithoutCancel(ctx), n.Recipient, n.Content.EmailSubject, n.Content.EmailHTMLBody)
			default:
				s.log.Warn("unsupported notification channel", "channel", ch)
			}
			if err != nil {
				s.log.Error("failed to send notification", "channel", ch, "recipient", n.Recipient, "error", err)
			}
		}(channel)
	}
	return nil
}
