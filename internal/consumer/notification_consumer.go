package consumer

import (
	"context"
	"encoding/json"
	"log"

	"github.com/lookfor-app/experience-service/internal/mailer"
	"github.com/lookfor-app/experience-service/internal/notifier"
	amqp "github.com/rabbitmq/amqp091-go"
)

// NotificationConsumer drains the notifications queue and delivers each
// message by mail. Delivery failures stay on this side of the channel; the
// core never hears about them.
type NotificationConsumer struct {
	mailer mailer.Mailer
}

func NewNotificationConsumer(m mailer.Mailer) *NotificationConsumer {
	return &NotificationConsumer{mailer: m}
}

func (nc *NotificationConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			nc.handleMessage(msg)
		}
		log.Println("[NotificationConsumer] channel closed, stopping consumer")
	}()
}

func (nc *NotificationConsumer) handleMessage(msg amqp.Delivery) {
	var notice notifier.Message
	if err := json.Unmarshal(msg.Body, &notice); err != nil {
		log.Printf("[NotificationConsumer] failed to unmarshal: %v", err)
		msg.Nack(false, false)
		return
	}

	if err := nc.mailer.Send(context.Background(), notice.To, notice.Subject, notice.Body); err != nil {
		log.Printf("[NotificationConsumer] failed to deliver to %s: %v", notice.To, err)
		msg.Nack(false, true) // requeue
		return
	}

	log.Printf("[NotificationConsumer] delivered %q to %s", notice.Subject, notice.To)
	msg.Ack(false)
}
