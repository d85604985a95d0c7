package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	kafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/foodorders/pkg/models"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublishOrderCreated(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w, logger: zap.NewNop()}

	event := &OrderCreated{
		ID:         42,
		ExternalID: "65cc7e0f9d2f1a0001a3b001",
		Status:     models.StatusReceived,
		Items: []models.CartItem{
			{ItemID: 1, Price: "10.00", Amount: 2},
		},
	}
	require.NoError(t, p.PublishOrderCreated(context.Background(), event))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	require.Equal(t, []byte(event.ExternalID), msg.Key)

	var decoded OrderCreated
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	require.Equal(t, *event, decoded)

	require.Len(t, msg.Headers, 1)
	require.Equal(t, "correlation_id", msg.Headers[0].Key)
	require.NotEmpty(t, msg.Headers[0].Value)
}

func TestPublishOrderCreatedWriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker unavailable")}
	p := &Publisher{writer: w, logger: zap.NewNop()}

	err := p.PublishOrderCreated(context.Background(), &OrderCreated{ID: 1})
	require.Error(t, err)
}

func TestCloseClosesWriter(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w, logger: zap.NewNop()}

	require.NoError(t, p.Close())
	require.True(t, w.closed)
}
