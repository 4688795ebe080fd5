package logbus

import (
	"context"
	"testing"
	"time"

	"techknowledgepills/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPublisher(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewPublisher(zap.New(core))

	err := p.Publish(context.Background(),
		events.NewUserRegistered("u1", "ada@example.com", time.Now()),
		events.NewContentCompleted("i1", "u1", "c1", nil, time.Now()),
	)

	require.NoError(t, err)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, events.TypeContentCompleted, logs.All()[1].ContextMap()["eventType"])
}
