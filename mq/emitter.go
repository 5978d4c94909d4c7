// Package mq is the notification dispatcher: a Redis pub/sub channel
// between state changes and email delivery, so a slow or failing mail
// relay never blocks a request.
package mq

import (
	"context"
	"encoding/json"
	"log"

	"atlas/mailer"
	"atlas/models"
	"atlas/rdx"
)

const noticeChannel = "notices"

type Emitter struct {
	rdx *rdx.Client
}

func NewEmitter(r *rdx.Client) *Emitter {
	return &Emitter{rdx: r}
}

// Emit publishes the notice, fire-and-forget. A publish failure is logged
// and swallowed: the state change it announces has already been persisted.
func (e *Emitter) Emit(ctx context.Context, n models.Notice) {
	data, err := json.Marshal(n)
	if err != nil {
		log.Printf("[mq] failed to marshal notice %s: %v", n.Kind, err)
		return
	}
	if err := e.rdx.Conn.Publish(ctx, noticeChannel, data).Err(); err != nil {
		log.Printf("[mq] failed to publish notice %s: %v", n.Kind, err)
	}
}

// StartNotificationWorker consumes notices and sends mail until ctx is
// cancelled. Send failures are logged only.
func StartNotificationWorker(ctx context.Context, r *rdx.Client, m mailer.Mailer) {
	sub := r.Conn.Subscribe(ctx, noticeChannel)
	defer sub.Close()
	ch := sub.Channel()

	log.Println("[mq] notification worker listening")
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var n models.Notice
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				log.Printf("[mq] bad notice payload: %v", err)
				continue
			}
			if n.Recipient == "" {
				continue
			}
			subject, body := mailer.Render(n.Kind, n.Payload)
			if err := m.Send(n.Recipient, subject, body); err != nil {
				log.Printf("[mq] mail %s to %s failed: %v", n.Kind, n.Recipient, err)
			}
		}
	}
}
