package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"techknowledgepills/application/commands"
	"techknowledgepills/application/commands/bus"
	"techknowledgepills/application/queries"
	querybus "techknowledgepills/application/queries/bus"
	"techknowledgepills/domain/core/valueobjects"
	"techknowledgepills/pkg/common"
	pkgerrors "techknowledgepills/pkg/errors"
)

// ContentHandler handles knowledge pill requests
type ContentHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *ContentHandler {
	return &ContentHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errs,
		logger:     logger,
	}
}

// ContentRequest is the body of create and update. Tags travel comma-separated.
type ContentRequest struct {
	Title    string                   `json:"title"`
	Type     valueobjects.ContentType `json:"type"`
	Body     string                   `json:"body"`
	VideoURL string                   `json:"videoUrl"`
	QuizData string                   `json:"quizData"`
	Tags     string                   `json:"tags"`
}

// CompleteRequest is the body of a completion
type CompleteRequest struct {
	Rating *int `json:"rating"`
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// ListContent handles GET /api/content
func (h *ContentHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ListContentQuery{})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// GetContent handles GET /api/content/{id}
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetContentQuery{ContentID: chi.URLParam(r, "id")})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// ListByType handles GET /api/content/type/{type}. The type is a number or a name.
func (h *ContentHandler) ListByType(w http.ResponseWriter, r *http.Request) {
	contentType, err := valueobjects.ParseContentType(chi.URLParam(r, "type"))
	if err != nil {
		h.errors.Handle(w, r, pkgerrors.ErrInvalidContentType)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListContentByTypeQuery{Type: contentType})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// CreateContent handles POST /api/content
func (h *ContentHandler) CreateContent(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req ContentRequest
	if err := decode(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	cmd := commands.CreateContentCommand{
		ContentID: uuid.New().String(),
		UserID:    userID,
		Title:     req.Title,
		Type:      req.Type,
		Body:      req.Body,
		VideoURL:  req.VideoURL,
		QuizData:  req.QuizData,
		Tags:      splitTags(req.Tags),
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondContent(w, r, cmd.ContentID, http.StatusCreated)
}

// UpdateContent handles PUT /api/content/{id}
func (h *ContentHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req ContentRequest
	if err := decode(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	cmd := commands.UpdateContentCommand{
		ContentID: chi.URLParam(r, "id"),
		UserID:    userID,
		Title:     req.Title,
		Type:      req.Type,
		Body:      req.Body,
		VideoURL:  req.VideoURL,
		QuizData:  req.QuizData,
		Tags:      splitTags(req.Tags),
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondContent(w, r, cmd.ContentID, http.StatusOK)
}

// DeleteContent handles DELETE /api/content/{id}. Deleting a missing pill succeeds.
func (h *ContentHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	cmd := commands.DeleteContentCommand{ContentID: chi.URLParam(r, "id"), UserID: userID}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondNoContent(w)
}

// CompleteContent handles POST /api/content/{id}/complete
func (h *ContentHandler) CompleteContent(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req CompleteRequest
	if err := decodeOptional(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	cmd := commands.CompleteContentCommand{
		InteractionID: uuid.New().String(),
		UserID:        userID,
		ContentID:     chi.URLParam(r, "id"),
		Rating:        req.Rating,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondNoContent(w)
}

func (h *ContentHandler) respondContent(w http.ResponseWriter, r *http.Request, contentID string, status int) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetContentQuery{ContentID: contentID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, status, result)
}
