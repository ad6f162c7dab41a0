package kafka

import (
	"github.com/IBM/sarama"
)

// NewSyncProducer builds a synchronous Kafka producer for domain events.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Partitioner = sarama.NewHashPartitioner
	config.Version = sarama.V2_0_0_0
	config.ClientID = "linkup-service"

	return sarama.NewSyncProducer(brokers, config)
}
