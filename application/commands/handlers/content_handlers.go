package handlers

import (
	"context"
	"time"

	"techknowledgepills/application/commands"
	"techknowledgepills/application/ports"
	"techknowledgepills/application/queries"
	"techknowledgepills/domain/config"
	"techknowledgepills/domain/core/entities"

	"go.uber.org/zap"
)

// ContentHandlers handles writes to the pill catalogue
type ContentHandlers struct {
	contentRepo     ports.ContentRepository
	interactionRepo ports.InteractionRepository
	publisher       ports.EventPublisher
	cache           ports.Cache
	cfg             *config.DomainConfig
	logger          *zap.Logger
}

// NewContentHandlers creates the content command handlers
func NewContentHandlers(
	contentRepo ports.ContentRepository,
	interactionRepo ports.InteractionRepository,
	publisher ports.EventPublisher,
	cache ports.Cache,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *ContentHandlers {
	return &ContentHandlers{
		contentRepo:     contentRepo,
		interactionRepo: interactionRepo,
		publisher:       publisher,
		cache:           cache,
		cfg:             cfg,
		logger:          logger,
	}
}

// HandleCreate executes CreateContentCommand
func (h *ContentHandlers) HandleCreate(ctx context.Context, cmd commands.CreateContentCommand) error {
	content, err := entities.NewContent(cmd.ContentID, entities.ContentInput{
		Title:    cmd.Title,
		Type:     cmd.Type,
		Body:     cmd.Body,
		VideoURL: cmd.VideoURL,
		QuizData: cmd.QuizData,
		Tags:     cmd.Tags,
	}, time.Now(), h.cfg)
	if err != nil {
		return err
	}

	if err := h.contentRepo.Save(ctx, content); err != nil {
		return err
	}
	h.invalidateCatalogue(ctx)
	return nil
}

// HandleUpdate executes UpdateContentCommand
func (h *ContentHandlers) HandleUpdate(ctx context.Context, cmd commands.UpdateContentCommand) error {
	content, err := h.contentRepo.GetByID(ctx, cmd.ContentID)
	if err != nil {
		return err
	}

	if err := content.Update(entities.ContentInput{
		Title:    cmd.Title,
		Type:     cmd.Type,
		Body:     cmd.Body,
		VideoURL: cmd.VideoURL,
		QuizData: cmd.QuizData,
		Tags:     cmd.Tags,
	}, time.Now(), h.cfg); err != nil {
		return err
	}

	if err := h.contentRepo.Save(ctx, content); err != nil {
		return err
	}
	h.invalidateCatalogue(ctx)
	return nil
}

// HandleDelete executes DeleteContentCommand
func (h *ContentHandlers) HandleDelete(ctx context.Context, cmd commands.DeleteContentCommand) error {
	if err := h.contentRepo.Delete(ctx, cmd.ContentID); err != nil {
		return err
	}
	h.invalidateCatalogue(ctx)
	return nil
}

// HandleComplete executes CompleteContentCommand. Completing twice updates
// the rating and completion time.
func (h *ContentHandlers) HandleComplete(ctx context.Context, cmd commands.CompleteContentCommand) error {
	if _, err := h.contentRepo.GetByID(ctx, cmd.ContentID); err != nil {
		return err
	}

	interaction, err := entities.NewInteraction(cmd.InteractionID, cmd.UserID, cmd.ContentID, cmd.Rating, time.Now(), h.cfg)
	if err != nil {
		return err
	}
	if err := h.interactionRepo.Save(ctx, interaction); err != nil {
		return err
	}

	publishEvents(ctx, h.publisher, h.logger, interaction)
	if err := h.cache.Delete(ctx, queries.RecommendationsCacheKey(cmd.UserID)); err != nil {
		h.logger.Warn("Failed to invalidate recommendations", zap.String("userID", cmd.UserID), zap.Error(err))
	}
	return nil
}

// invalidateCatalogue drops every cached read, recommendations included
func (h *ContentHandlers) invalidateCatalogue(ctx context.Context) {
	if err := h.cache.Clear(ctx); err != nil {
		h.logger.Warn("Failed to clear query cache", zap.Error(err))
	}
}
