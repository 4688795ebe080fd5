package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"techknowledgepills/application/commands"
	"techknowledgepills/application/ports/mocks"
	"techknowledgepills/domain/config"
	"techknowledgepills/domain/core/entities"
	"techknowledgepills/domain/core/valueobjects"
	"techknowledgepills/domain/events"
	"techknowledgepills/domain/services"
	pkgerrors "techknowledgepills/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestContentHandlers(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultDomainConfig()

	t.Run("creates content and clears the cache", func(t *testing.T) {
		repo := new(mocks.MockContentRepository)
		cache := new(mocks.MockCache)
		h := NewContentHandlers(repo, new(mocks.MockInteractionRepository), new(mocks.MockEventPublisher), cache, cfg, zap.NewNop())

		repo.On("Save", ctx, mock.MatchedBy(func(c *entities.Content) bool {
			return c.ID == "c1" && c.Title == "Breathing" && len(c.Tags) == 2
		})).Return(nil)
		cache.On("Clear", ctx).Return(nil)

		err := h.HandleCreate(ctx, commands.CreateContentCommand{
			ContentID: "c1",
			UserID:    "u1",
			Title:     " Breathing ",
			Type:      valueobjects.ContentTypeArticle,
			Body:      "Box breathing in four steps",
			Tags:      []string{"calm", " focus "},
		})

		require.NoError(t, err)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("rejects a video without url", func(t *testing.T) {
		repo := new(mocks.MockContentRepository)
		h := NewContentHandlers(repo, new(mocks.MockInteractionRepository), new(mocks.MockEventPublisher), new(mocks.MockCache), cfg, zap.NewNop())

		err := h.HandleCreate(ctx, commands.CreateContentCommand{
			ContentID: "c1",
			UserID:    "u1",
			Title:     "Talk",
			Type:      valueobjects.ContentTypeVideo,
		})

		assert.ErrorIs(t, err, pkgerrors.ErrVideoURLRequired)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("keeps creation time on update", func(t *testing.T) {
		created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		existing := &entities.Content{ID: "c1", Title: "Old", Type: valueobjects.ContentTypeArticle, CreatedAt: created, UpdatedAt: created}

		repo := new(mocks.MockContentRepository)
		cache := new(mocks.MockCache)
		h := NewContentHandlers(repo, new(mocks.MockInteractionRepository), new(mocks.MockEventPublisher), cache, cfg, zap.NewNop())

		repo.On("GetByID", ctx, "c1").Return(existing, nil)
		repo.On("Save", ctx, existing).Return(nil)
		cache.On("Clear", ctx).Return(nil)

		err := h.HandleUpdate(ctx, commands.UpdateContentCommand{
			ContentID: "c1",
			UserID:    "u1",
			Title:     "New",
			Type:      valueobjects.ContentTypeArticle,
		})

		require.NoError(t, err)
		assert.Equal(t, "New", existing.Title)
		assert.Equal(t, created, existing.CreatedAt)
		assert.True(t, existing.UpdatedAt.After(created))
	})

	t.Run("returns not found when updating a missing pill", func(t *testing.T) {
		repo := new(mocks.MockContentRepository)
		h := NewContentHandlers(repo, new(mocks.MockInteractionRepository), new(mocks.MockEventPublisher), new(mocks.MockCache), cfg, zap.NewNop())
		repo.On("GetByID", ctx, "missing").Return(nil, pkgerrors.ErrContentNotFound)

		err := h.HandleUpdate(ctx, commands.UpdateContentCommand{ContentID: "missing", UserID: "u1", Title: "x", Type: valueobjects.ContentTypeArticle})

		assert.ErrorIs(t, err, pkgerrors.ErrContentNotFound)
	})

	t.Run("still succeeds when the cache cannot be cleared", func(t *testing.T) {
		repo := new(mocks.MockContentRepository)
		cache := new(mocks.MockCache)
		h := NewContentHandlers(repo, new(mocks.MockInteractionRepository), new(mocks.MockEventPublisher), cache, cfg, zap.NewNop())
		repo.On("Delete", ctx, "c1").Return(nil)
		cache.On("Clear", ctx).Return(errors.New("cache down"))

		assert.NoError(t, h.HandleDelete(ctx, commands.DeleteContentCommand{ContentID: "c1", UserID: "u1"}))
	})

	t.Run("records completion and invalidates recommendations", func(t *testing.T) {
		repo := new(mocks.MockContentRepository)
		interactions := new(mocks.MockInteractionRepository)
		publisher := new(mocks.MockEventPublisher)
		cache := new(mocks.MockCache)
		h := NewContentHandlers(repo, interactions, publisher, cache, cfg, zap.NewNop())

		repo.On("GetByID", ctx, "c1").Return(&entities.Content{ID: "c1"}, nil)
		interactions.On("Save", ctx, mock.MatchedBy(func(i *entities.Interaction) bool {
			return i.UserID == "u1" && i.ContentID == "c1" && *i.Rating == 4
		})).Return(nil)
		publisher.On("Publish", ctx, mock.MatchedBy(func(evts []events.DomainEvent) bool {
			return len(evts) == 1 && evts[0].GetEventType() == events.TypeContentCompleted
		})).Return(nil)
		cache.On("Delete", ctx, "recommendations:u1").Return(nil)

		err := h.HandleComplete(ctx, commands.CompleteContentCommand{
			InteractionID: "i1",
			UserID:        "u1",
			ContentID:     "c1",
			Rating:        intPtr(4),
		})

		require.NoError(t, err)
		interactions.AssertExpectations(t)
		publisher.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("does not complete a missing pill", func(t *testing.T) {
		repo := new(mocks.MockContentRepository)
		interactions := new(mocks.MockInteractionRepository)
		h := NewContentHandlers(repo, interactions, new(mocks.MockEventPublisher), new(mocks.MockCache), cfg, zap.NewNop())
		repo.On("GetByID", ctx, "c9").Return(nil, pkgerrors.ErrContentNotFound)

		err := h.HandleComplete(ctx, commands.CompleteContentCommand{InteractionID: "i1", UserID: "u1", ContentID: "c9"})

		assert.ErrorIs(t, err, pkgerrors.ErrContentNotFound)
		interactions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestStressHandlers(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a manual reading", func(t *testing.T) {
		repo := new(mocks.MockStressIndicatorRepository)
		publisher := new(mocks.MockEventPublisher)
		cache := new(mocks.MockCache)
		h := NewStressHandlers(repo, publisher, cache, zap.NewNop())

		repo.On("Save", ctx, mock.MatchedBy(func(s *entities.StressIndicator) bool {
			return s.Source == entities.StressSourceManual && s.Level == valueobjects.StressLevelHigh && !s.Timestamp.IsZero()
		})).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(errors.New("bus offline"))
		cache.On("Delete", ctx, "recommendations:u1").Return(nil)

		err := h.HandleRecord(ctx, commands.RecordStressIndicatorCommand{
			IndicatorID: "s1",
			UserID:      "u1",
			Level:       valueobjects.StressLevelHigh,
		})

		require.NoError(t, err)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("rejects an out of range level", func(t *testing.T) {
		repo := new(mocks.MockStressIndicatorRepository)
		h := NewStressHandlers(repo, new(mocks.MockEventPublisher), new(mocks.MockCache), zap.NewNop())

		err := h.HandleRecord(ctx, commands.RecordStressIndicatorCommand{IndicatorID: "s1", UserID: "u1", Level: 7})

		assert.ErrorIs(t, err, pkgerrors.ErrInvalidStressLevel)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestHealthHandlers(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultDomainConfig()

	t.Run("stores the metric and derives a stress reading", func(t *testing.T) {
		healthRepo := new(mocks.MockHealthMetricRepository)
		stressRepo := new(mocks.MockStressIndicatorRepository)
		publisher := new(mocks.MockEventPublisher)
		cache := new(mocks.MockCache)
		h := NewHealthHandlers(healthRepo, stressRepo, services.NewHealthAnalyzer(), publisher, cache, cfg, zap.NewNop())

		ts := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
		healthRepo.On("Save", ctx, mock.MatchedBy(func(m *entities.HealthMetric) bool {
			return m.DeviceType == cfg.DefaultDeviceType
		})).Return(nil)
		stressRepo.On("Save", ctx, mock.MatchedBy(func(s *entities.StressIndicator) bool {
			return s.Source == entities.StressSourceHealthMetric &&
				s.Level == valueobjects.StressLevelCritical &&
				s.Timestamp.Equal(ts) &&
				s.Notes != nil
		})).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)
		cache.On("Delete", ctx, "recommendations:u1").Return(nil)

		err := h.HandleIngest(ctx, commands.IngestHealthMetricCommand{
			MetricID:   "m1",
			UserID:     "u1",
			Timestamp:  ts,
			HeartRate:            intPtr(130),
			SleepHours:           floatPtr(4.5),
			HeartRateVariability: intPtr(25),
			Steps:                intPtr(1000),
		})

		require.NoError(t, err)
		stressRepo.AssertExpectations(t)
		publisher.AssertNumberOfCalls(t, "Publish", 2)
	})

	t.Run("ignores a failed derivation", func(t *testing.T) {
		healthRepo := new(mocks.MockHealthMetricRepository)
		stressRepo := new(mocks.MockStressIndicatorRepository)
		publisher := new(mocks.MockEventPublisher)
		h := NewHealthHandlers(healthRepo, stressRepo, services.NewHealthAnalyzer(), publisher, new(mocks.MockCache), cfg, zap.NewNop())

		healthRepo.On("Save", ctx, mock.Anything).Return(nil)
		stressRepo.On("Save", ctx, mock.Anything).Return(pkgerrors.NewDatabaseError("save", errors.New("FOREIGN KEY constraint failed")))
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		err := h.HandleIngest(ctx, commands.IngestHealthMetricCommand{MetricID: "m1", UserID: "ghost"})

		assert.NoError(t, err)
	})

	t.Run("fails when the metric cannot be stored", func(t *testing.T) {
		healthRepo := new(mocks.MockHealthMetricRepository)
		stressRepo := new(mocks.MockStressIndicatorRepository)
		h := NewHealthHandlers(healthRepo, stressRepo, services.NewHealthAnalyzer(), new(mocks.MockEventPublisher), new(mocks.MockCache), cfg, zap.NewNop())
		healthRepo.On("Save", ctx, mock.Anything).Return(errors.New("disk full"))

		err := h.HandleIngest(ctx, commands.IngestHealthMetricCommand{MetricID: "m1", UserID: "u1"})

		assert.Error(t, err)
		stressRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func floatPtr(v float64) *float64 { return &v }

func TestCipherHandlers(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultDomainConfig()

	t.Run("defaults the algorithm", func(t *testing.T) {
		repo := new(mocks.MockCipherRepository)
		h := NewCipherHandlers(repo, cfg, zap.NewNop())
		repo.On("Save", ctx, mock.MatchedBy(func(c *entities.Cipher) bool {
			return c.Algorithm == entities.DefaultCipherAlgorithm && c.IsActive
		})).Return(nil)

		err := h.HandleCreate(ctx, commands.CreateCipherCommand{CipherID: "k1", UserID: "u1", KeyName: "github", EncryptedData: "b64=="})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("surfaces duplicate key names", func(t *testing.T) {
		repo := new(mocks.MockCipherRepository)
		h := NewCipherHandlers(repo, cfg, zap.NewNop())
		repo.On("Save", ctx, mock.Anything).Return(pkgerrors.ErrDuplicateCipher)

		err := h.HandleCreate(ctx, commands.CreateCipherCommand{CipherID: "k2", UserID: "u1", KeyName: "github", EncryptedData: "x"})

		assert.ErrorIs(t, err, pkgerrors.ErrDuplicateCipher)
	})

	t.Run("patches only provided fields", func(t *testing.T) {
		existing, err := entities.NewCipher("k1", "u1", "github", "old", strPtr("token"), "", time.Now(), cfg)
		require.NoError(t, err)

		repo := new(mocks.MockCipherRepository)
		h := NewCipherHandlers(repo, cfg, zap.NewNop())
		repo.On("GetByID", ctx, "u1", "k1").Return(existing, nil)
		repo.On("Save", ctx, existing).Return(nil)

		inactive := false
		err = h.HandleUpdate(ctx, commands.UpdateCipherCommand{CipherID: "k1", UserID: "u1", IsActive: &inactive})

		require.NoError(t, err)
		assert.Equal(t, "github", existing.KeyName)
		assert.Equal(t, "old", existing.EncryptedData)
		assert.False(t, existing.IsActive)
		assert.NotNil(t, existing.UpdatedAt)
	})

	t.Run("reports another user's cipher as missing", func(t *testing.T) {
		repo := new(mocks.MockCipherRepository)
		h := NewCipherHandlers(repo, cfg, zap.NewNop())
		repo.On("Delete", ctx, "u2", "k1").Return(pkgerrors.ErrCipherNotFound)

		err := h.HandleDelete(ctx, commands.DeleteCipherCommand{CipherID: "k1", UserID: "u2"})

		assert.ErrorIs(t, err, pkgerrors.ErrCipherNotFound)
	})
}
