package pubsub

import (
	"context"

	"cloud.google.com/go/pubsub"
)

type SubscriptionHandler struct {
	SubscriptionId string
	Handler        func(ctx context.Context, message *pubsub.Message)
}

// Publishable names the topic a message belongs on; the message itself is
// JSON-encoded as-is.
type Publishable interface {
	GetEventTopicName() string
}
