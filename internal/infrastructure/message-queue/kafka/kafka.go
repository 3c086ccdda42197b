package kafka

import (
	"context"

	"github.com/Mohanapriya2828/schoolapp-ado/config"
	"github.com/segmentio/kafka-go"
)

func CreateKafkaProducer(ctx context.Context, config *config.Config) (*kafka.Conn, error) {
	conn, err := kafka.DialLeader(ctx, "tcp", config.KafkaConfig.BrokerAddress,
		config.KafkaConfig.BrokerTopic, config.KafkaConfig.BrokerPartition)
	if err != nil {
		return nil, err
	}

	return conn, nil
}
