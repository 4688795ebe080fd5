package seed

import (
	"context"
	"testing"
	"time"

	"techknowledgepills/application/ports"
	"techknowledgepills/application/ports/mocks"
	"techknowledgepills/domain/config"
	"techknowledgepills/domain/core/entities"
	"techknowledgepills/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCatalogue(t *testing.T) {
	now := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

	pills, err := Catalogue(now, config.DefaultDomainConfig())
	require.NoError(t, err)
	require.Len(t, pills, 13)

	counts := map[valueobjects.ContentType]int{}
	for _, p := range pills {
		counts[p.Type]++
		assert.True(t, p.CreatedAt.Before(now))
		if p.Type == valueobjects.ContentTypeQuiz {
			quiz, err := p.Quiz()
			require.NoError(t, err)
			assert.NotEmpty(t, quiz.Questions)
		}
	}
	assert.Equal(t, 5, counts[valueobjects.ContentTypeArticle])
	assert.Equal(t, 4, counts[valueobjects.ContentTypeVideo])
	assert.Equal(t, 4, counts[valueobjects.ContentTypeQuiz])
}

type stubLocker struct {
	held     bool
	released int
}

func (l *stubLocker) TryLock(context.Context, string, time.Duration) (func(context.Context) error, error) {
	if l.held {
		return nil, ports.ErrLockHeld
	}
	return func(context.Context) error { l.released++; return nil }, nil
}

func TestSeeder(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds an empty catalogue", func(t *testing.T) {
		repo := new(mocks.MockContentRepository)
		repo.On("Count", ctx).Return(0, nil)
		repo.On("SaveBatch", ctx, mock.MatchedBy(func(c []*entities.Content) bool { return len(c) == 13 })).Return(nil)

		lock := &stubLocker{}
		n, err := NewSeeder(repo, lock, config.DefaultDomainConfig(), zap.NewNop()).Run(ctx)

		require.NoError(t, err)
		assert.Equal(t, 13, n)
		assert.Equal(t, 1, lock.released)
	})

	t.Run("leaves existing content alone", func(t *testing.T) {
		repo := new(mocks.MockContentRepository)
		repo.On("Count", ctx).Return(2, nil)

		n, err := NewSeeder(repo, &stubLocker{}, config.DefaultDomainConfig(), zap.NewNop()).Run(ctx)

		require.NoError(t, err)
		assert.Zero(t, n)
		repo.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
	})

	t.Run("skips while another instance holds the lock", func(t *testing.T) {
		repo := new(mocks.MockContentRepository)

		n, err := NewSeeder(repo, &stubLocker{held: true}, config.DefaultDomainConfig(), zap.NewNop()).Run(ctx)

		require.NoError(t, err)
		assert.Zero(t, n)
		repo.AssertNotCalled(t, "Count", mock.Anything)
	})
}
