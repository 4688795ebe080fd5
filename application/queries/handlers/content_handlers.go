package handlers

import (
	"context"

	"techknowledgepills/application/ports"
	"techknowledgepills/application/queries"

	"go.uber.org/zap"
)

// ContentQueryHandlers serves catalogue reads
type ContentQueryHandlers struct {
	contentRepo ports.ContentRepository
	logger      *zap.Logger
}

// NewContentQueryHandlers creates the catalogue query handlers
func NewContentQueryHandlers(contentRepo ports.ContentRepository, logger *zap.Logger) *ContentQueryHandlers {
	return &ContentQueryHandlers{
		contentRepo: contentRepo,
		logger:      logger,
	}
}

// HandleList executes ListContentQuery
func (h *ContentQueryHandlers) HandleList(ctx context.Context, _ queries.ListContentQuery) ([]queries.ContentResult, error) {
	list, err := h.contentRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return queries.NewContentResults(list), nil
}

// HandleGet executes GetContentQuery
func (h *ContentQueryHandlers) HandleGet(ctx context.Context, q queries.GetContentQuery) (*queries.ContentResult, error) {
	content, err := h.contentRepo.GetByID(ctx, q.ContentID)
	if err != nil {
		return nil, err
	}
	result := queries.NewContentResult(content)
	return &result, nil
}

// HandleListByType executes ListContentByTypeQuery
func (h *ContentQueryHandlers) HandleListByType(ctx context.Context, q queries.ListContentByTypeQuery) ([]queries.ContentResult, error) {
	list, err := h.contentRepo.ListByType(ctx, q.Type)
	if err != nil {
		return nil, err
	}
	return queries.NewContentResults(list), nil
}
