package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"chatbot-be/pkg/events"
	pktNats "chatbot-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNatsRoundTrip(t *testing.T) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("Skipping integration test: NATS_URL not set")
	}

	pub, err := pktNats.NewPublisher(url)
	require.NoError(t, err)
	t.Cleanup(pub.Close)

	sub, err := pktNats.NewSubscriber(url)
	require.NoError(t, err)
	t.Cleanup(sub.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sessionID := uuid.NewString()
	received := make(chan events.Event, 8)
	durable := "it-" + uuid.NewString()[:8]
	require.NoError(t, sub.Subscribe(ctx, pktNats.SubjectPrefix+events.TypeSessionFinalized, durable,
		func(_ context.Context, e events.Event) error {
			received <- e
			return nil
		}))

	require.NoError(t, pub.Publish(ctx, events.SessionFinalized("u-it", sessionID)))

	for {
		select {
		case e := <-received:
			if e.Payload()["session_id"] == sessionID {
				assert.Equal(t, events.TypeSessionFinalized, e.EventType())
				return
			}
		case <-ctx.Done():
			t.Fatal("event not received")
		}
	}
}
