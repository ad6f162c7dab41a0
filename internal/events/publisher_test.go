package events

import (
	"encoding/json"
	"testing"

	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitPublishesEnvelope(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var env envelope
		if err := json.Unmarshal(value, &env); err != nil {
			return err
		}
		assert.Equal(t, TypeFriendRequested, env.Type)
		assert.False(t, env.OccurredAt.IsZero())
		return nil
	})

	publisher := NewPublisher(producer, "linkup.events")
	publisher.Emit(TypeFriendRequested, "edge-1", map[string]string{"status": "pending"})

	require.NoError(t, producer.Close())
}

func TestEmitSurvivesSendFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(assert.AnError)

	publisher := NewPublisher(producer, "linkup.events")
	publisher.Emit(TypeIdentitySynced, "user-1", nil)

	require.NoError(t, producer.Close())
}

func TestNilPublisherIsNoOp(t *testing.T) {
	var publisher *Publisher

	publisher.Emit(TypeFriendRemoved, "edge-1", nil)
	assert.NoError(t, publisher.Close())
}

func TestNewPublisherWithNilProducer(t *testing.T) {
	assert.Nil(t, NewPublisher(nil, "linkup.events"))
}
