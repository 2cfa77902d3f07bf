package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	skafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []skafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...skafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func TestKafkaProducer_SendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("writes topic key and value", func(t *testing.T) {
		fw := &fakeWriter{}
		p := NewKafkaProducerWithWriter(fw)

		err := p.SendMessage(ctx, "shipment_status_events", []byte("AFG-2025-1234"), []byte(`{"new_status":"delivered"}`))
		require.NoError(t, err)
		require.Len(t, fw.msgs, 1)
		assert.Equal(t, "shipment_status_events", fw.msgs[0].Topic)
		assert.Equal(t, "AFG-2025-1234", string(fw.msgs[0].Key))

		require.NoError(t, p.Close())
		assert.True(t, fw.closed)
	})

	t.Run("write failure", func(t *testing.T) {
		brokerErr := errors.New("leader not available")
		p := NewKafkaProducerWithWriter(&fakeWriter{err: brokerErr})

		err := p.SendMessage(ctx, "events", nil, []byte("{}"))
		assert.ErrorIs(t, err, brokerErr)
	})
}

func TestLogProducer(t *testing.T) {
	p := NewLogProducer(zap.NewNop())
	assert.NoError(t, p.SendMessage(context.Background(), "events", []byte("k"), []byte("v")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.SendMessage(ctx, "events", nil, nil), context.Canceled)
	assert.NoError(t, p.Close())
}
