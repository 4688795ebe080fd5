package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"techknowledgepills/application/commands"
	"techknowledgepills/application/commands/bus"
	"techknowledgepills/application/queries"
	querybus "techknowledgepills/application/queries/bus"
	"techknowledgepills/pkg/common"
	pkgerrors "techknowledgepills/pkg/errors"
)

// CipherHandler handles per-user cipher records
type CipherHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewCipherHandler creates a new cipher handler
func NewCipherHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *CipherHandler {
	return &CipherHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errs,
		logger:     logger,
	}
}

// CreateCipherRequest is the body of a new cipher
type CreateCipherRequest struct {
	KeyName       string  `json:"keyName"`
	EncryptedData string  `json:"encryptedData"`
	Description   *string `json:"description"`
	Algorithm     string  `json:"algorithm"`
}

// UpdateCipherRequest patches a cipher; absent fields are left alone
type UpdateCipherRequest struct {
	KeyName       *string `json:"keyName"`
	EncryptedData *string `json:"encryptedData"`
	Description   *string `json:"description"`
	Algorithm     *string `json:"algorithm"`
	IsActive      *bool   `json:"isActive"`
}

// ListCiphers handles GET /api/cipher
func (h *CipherHandler) ListCiphers(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListCiphersQuery{UserID: userID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// GetCipher handles GET /api/cipher/{id}
func (h *CipherHandler) GetCipher(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.respondCipher(w, r, userID, chi.URLParam(r, "id"), http.StatusOK)
}

// GetCipherByKey handles GET /api/cipher/key/{keyName}
func (h *CipherHandler) GetCipherByKey(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetCipherByKeyQuery{
		UserID:  userID,
		KeyName: chi.URLParam(r, "keyName"),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// CreateCipher handles POST /api/cipher
func (h *CipherHandler) CreateCipher(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req CreateCipherRequest
	if err := decode(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	cmd := commands.CreateCipherCommand{
		CipherID:      uuid.New().String(),
		UserID:        userID,
		KeyName:       req.KeyName,
		EncryptedData: req.EncryptedData,
		Description:   req.Description,
		Algorithm:     req.Algorithm,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondCipher(w, r, userID, cmd.CipherID, http.StatusCreated)
}

// UpdateCipher handles PUT /api/cipher/{id}
func (h *CipherHandler) UpdateCipher(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req UpdateCipherRequest
	if err := decode(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	cmd := commands.UpdateCipherCommand{
		CipherID:      chi.URLParam(r, "id"),
		UserID:        userID,
		KeyName:       req.KeyName,
		EncryptedData: req.EncryptedData,
		Description:   req.Description,
		Algorithm:     req.Algorithm,
		IsActive:      req.IsActive,
	}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.respondCipher(w, r, userID, cmd.CipherID, http.StatusOK)
}

// DeleteCipher handles DELETE /api/cipher/{id}
func (h *CipherHandler) DeleteCipher(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	cmd := commands.DeleteCipherCommand{CipherID: chi.URLParam(r, "id"), UserID: userID}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondNoContent(w)
}

func (h *CipherHandler) respondCipher(w http.ResponseWriter, r *http.Request, userID, cipherID string, status int) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetCipherQuery{UserID: userID, CipherID: cipherID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, status, result)
}
