package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"techknowledgepills/domain/events"
	pkgerrors "techknowledgepills/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockEventBridge struct {
	mock.Mock
}

func (m *MockEventBridge) PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*eventbridge.PutEventsOutput), args.Error(1)
}

func TestPublisher(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	t.Run("chunks into calls of ten", func(t *testing.T) {
		client := new(MockEventBridge)
		p := NewPublisher(client, "bus", "techknowledgepills.api", zap.NewNop())

		batch := make([]events.DomainEvent, 0, 23)
		for i := 0; i < 23; i++ {
			batch = append(batch, events.NewStressRecorded(fmt.Sprintf("s%d", i), "u1", 2, "mock", ts))
		}
		client.On("PutEvents", ctx, mock.Anything).Return(&eventbridge.PutEventsOutput{}, nil)

		require.NoError(t, p.Publish(ctx, batch...))

		client.AssertNumberOfCalls(t, "PutEvents", 3)
		last := client.Calls[2].Arguments.Get(1).(*eventbridge.PutEventsInput)
		assert.Len(t, last.Entries, 3)
	})

	t.Run("carries type, source and json detail", func(t *testing.T) {
		client := new(MockEventBridge)
		p := NewPublisher(client, "bus", "techknowledgepills.api", zap.NewNop())

		client.On("PutEvents", ctx, mock.MatchedBy(func(in *eventbridge.PutEventsInput) bool {
			e := in.Entries[0]
			var detail map[string]interface{}
			if err := json.Unmarshal([]byte(aws.ToString(e.Detail)), &detail); err != nil {
				return false
			}
			return aws.ToString(e.DetailType) == events.TypeUserRegistered &&
				aws.ToString(e.Source) == "techknowledgepills.api" &&
				aws.ToString(e.EventBusName) == "bus" &&
				detail["email"] == "ada@example.com"
		})).Return(&eventbridge.PutEventsOutput{}, nil)

		require.NoError(t, p.Publish(ctx, events.NewUserRegistered("u1", "ada@example.com", ts)))
		client.AssertExpectations(t)
	})

	t.Run("fails on partially rejected batches", func(t *testing.T) {
		client := new(MockEventBridge)
		p := NewPublisher(client, "bus", "src", zap.NewNop())
		client.On("PutEvents", ctx, mock.Anything).Return(&eventbridge.PutEventsOutput{
			FailedEntryCount: 1,
			Entries:          []types.PutEventsResultEntry{{ErrorCode: aws.String("ThrottlingException")}},
		}, nil)

		err := p.Publish(ctx, events.NewUserRegistered("u1", "a@b.c", ts))

		assert.ErrorContains(t, err, "1 events failed")
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeExternal))
	})

	t.Run("does nothing for an empty batch", func(t *testing.T) {
		client := new(MockEventBridge)
		p := NewPublisher(client, "bus", "src", zap.NewNop())

		assert.NoError(t, p.Publish(ctx))
		client.AssertNotCalled(t, "PutEvents", mock.Anything, mock.Anything)
	})
}
