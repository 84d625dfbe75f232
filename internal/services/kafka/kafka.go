package kafka

import (
	"context"

	"github.com/iwtcode/roombaService/internal/config"
	"github.com/iwtcode/roombaService/internal/interfaces"
	"github.com/iwtcode/roombaService/internal/middleware/logging"

	"github.com/segmentio/kafka-go"
)

type KafkaProducer struct {
	writer *kafka.Writer
	logger *logging.Logger
}

// NewKafkaProducer создает новый экземпляр продюсера Kafka
// для публикации событий смены состояния миссии
func NewKafkaProducer(cfg *config.AppConfig, logger *logging.Logger) (interfaces.KafkaService, error) {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.KafkaBroker),
		Topic:    cfg.KafkaTopic,
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaProducer{
		writer: writer,
		logger: logger.WithPrefix("KAFKA"),
	}, nil
}

// Produce отправляет сообщение в Kafka
func (p *KafkaProducer) Produce(ctx context.Context, key, value []byte) error {
	err := p.writer.WriteMessages(ctx,
		kafka.Message{
			Key:   key,
			Value: value,
		},
	)
	if err != nil {
		p.logger.Error("Failed to produce state event", "error", err)
	}
	return err
}

// Close закрывает соединение с Kafka
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
