package notifier

import (
	"context"

	"github.com/lookfor-app/experience-service/pkg/rabbitmq"
)

// RoutingKeyCancelled routes cancellation notices to the delivery queue.
const RoutingKeyCancelled = "notification.experience.cancelled"

// AMQPNotifier publishes one message per recipient to the notifications
// exchange. Delivery happens out of band in the notification consumer; a
// successful publish only means the message was handed to the broker.
type AMQPNotifier struct {
	publisher *rabbitmq.Publisher
}

func NewAMQPNotifier(publisher *rabbitmq.Publisher) *AMQPNotifier {
	return &AMQPNotifier{publisher: publisher}
}

func (n *AMQPNotifier) Send(ctx context.Context, to Contact, subject, body string) error {
	return n.publisher.Publish(ctx, RoutingKeyCancelled, Message{
		To:      to.Email,
		Name:    to.Name,
		Subject: subject,
		Body:    body,
	})
}
