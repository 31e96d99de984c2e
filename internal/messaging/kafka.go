package messaging

import (
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v3/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// NewKafkaPublisher creates a Kafka-backed watermill publisher for
// production deployments, where committed orders are consumed by downstream
// systems (notifications, analytics).
func NewKafkaPublisher(brokers []string) (message.Publisher, error) {
	saramaConfig := kafka.DefaultSaramaSyncPublisherConfig()
	saramaConfig.ClientID = "pastryshop-backend"
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Version = sarama.V3_6_0_0

	pub, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:               brokers,
			Marshaler:             kafka.DefaultMarshaler{},
			OverwriteSaramaConfig: saramaConfig,
		},
		watermill.NewSlogLogger(slog.Default()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}
	return pub, nil
}
