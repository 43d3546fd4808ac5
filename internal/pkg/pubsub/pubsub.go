package pubsub

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/chiptally/chiptally-backend/internal/pkg/utils"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var ctx context.Context
var client *pubsub.Client

// Publishable is any event that knows which topic it belongs on.
type Publishable interface {
	GetEventTopicName() string
}

// InitPubSub connects to Google Pub/Sub when GOOGLE_PROJECT_ID is configured.
// Without a project id the exporter stays disabled and Publish is a no-op;
// the ledger itself never depends on it.
func InitPubSub() {
	projectID, _ := viper.Get("GOOGLE_PROJECT_ID").(string)
	if projectID == "" {
		log.Info().Msg("Pub/Sub export disabled, no GOOGLE_PROJECT_ID configured")
		return
	}

	ctx = context.Background()
	var err error
	client, err = pubsub.NewClient(ctx, projectID)
	if err != nil {
		log.Error().Err(err).Msg("Error initializing Pub/Sub connection")
		client = nil
		return
	}
	log.Info().Msg(fmt.Sprintf("Pub/Sub export enabled for project %s", projectID))
}

func Enabled() bool {
	return client != nil
}

// Publish is fire-and-forget. Failures are logged and never surfaced to the
// request that produced the event.
func Publish(message Publishable) {
	if client == nil {
		return
	}

	t := client.Topic(message.GetEventTopicName())
	result := t.Publish(ctx, &pubsub.Message{Data: utils.JsonEncode(message)})

	go func(res *pubsub.PublishResult) {
		defer t.Stop()
		_, err := res.Get(ctx)
		if err != nil {
			log.Warn().Err(err).Msg(fmt.Sprintf("Failed to publish message for %s", message.GetEventTopicName()))
		}
	}(result)
}

func CloseClient() {
	if client != nil {
		client.Close()
	}
}
