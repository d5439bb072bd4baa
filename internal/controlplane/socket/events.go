package socket

import (
	"github.com/dkeye/sfu-control-plane/internal/domain"
	"github.com/dkeye/sfu-control-plane/internal/fanout"
)

func eventProducerClosed(userID domain.UserID, key domain.ProducerKey) fanout.Event {
	return fanout.Event{
		Type:    fanout.EventProducerClosed,
		Payload: map[string]any{"userId": userID, "kind": key.Kind, "type": key.Type},
	}
}

// ack is the §6 response callback shape for a successful admin:* event.
func ack(extra map[string]any) map[string]any {
	out := map[string]any{"success": true}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// nack is the §6 response callback shape for a failed admin:* event.
func nack(message string) map[string]any {
	return map[string]any{"error": message}
}
