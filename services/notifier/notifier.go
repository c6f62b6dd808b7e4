package notifier

import (
	"context"
	"fmt"
	"html"

	"sjsage522/topicworker/internal/portal"
	apperrors "sjsage522/topicworker/pkg/errors"
)

// Mailer sends a single HTML message
type Mailer interface {
	Send(ctx context.Context, subject, htmlBody string) error
}

// Notifier announces a newly found topic
type Notifier interface {
	Notify(ctx context.Context, topic portal.Topic) error
}

// TopicNotifier emails one message per topic
type TopicNotifier struct {
	mailer Mailer
}

// NewTopicNotifier creates a notifier sending through mailer
func NewTopicNotifier(mailer Mailer) *TopicNotifier {
	return &TopicNotifier{mailer: mailer}
}

// Notify sends the topic announcement
func (n *TopicNotifier) Notify(ctx context.Context, topic portal.Topic) error {
	if err := n.mailer.Send(ctx, Subject(topic), Body(topic)); err != nil {
		return apperrors.NewNotification("notifier", fmt.Sprintf("failed to send email about %q", topic.Topic), err)
	}
	return nil
}

// Subject returns the email subject for topic
func Subject(topic portal.Topic) string {
	return topic.Topic
}

// Body returns the HTML email body for topic
func Body(topic portal.Topic) string {
	return fmt.Sprintf("<b>Temat:</b> %s<br><b>Osoba zgłaszająca temat:</b> %s<br><b>Link:</b> %s",
		html.EscapeString(topic.Topic),
		html.EscapeString(topic.Provider),
		html.EscapeString(topic.Link))
}
