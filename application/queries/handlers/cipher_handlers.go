package handlers

import (
	"context"

	"techknowledgepills/application/ports"
	"techknowledgepills/application/queries"
)

// CipherQueryHandlers serves a user's ciphers. Lookups never cross users.
type CipherQueryHandlers struct {
	cipherRepo ports.CipherRepository
}

func NewCipherQueryHandlers(cipherRepo ports.CipherRepository) *CipherQueryHandlers {
	return &CipherQueryHandlers{cipherRepo: cipherRepo}
}

func (h *CipherQueryHandlers) HandleList(ctx context.Context, q queries.ListCiphersQuery) ([]queries.CipherResult, error) {
	list, err := h.cipherRepo.ListByUser(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]queries.CipherResult, 0, len(list))
	for _, c := range list {
		out = append(out, queries.NewCipherResult(c))
	}
	return out, nil
}

func (h *CipherQueryHandlers) HandleGet(ctx context.Context, q queries.GetCipherQuery) (*queries.CipherResult, error) {
	cipher, err := h.cipherRepo.GetByID(ctx, q.UserID, q.CipherID)
	if err != nil {
		return nil, err
	}
	result := queries.NewCipherResult(cipher)
	return &result, nil
}

func (h *CipherQueryHandlers) HandleGetByKey(ctx context.Context, q queries.GetCipherByKeyQuery) (*queries.CipherResult, error) {
	cipher, err := h.cipherRepo.GetByKeyName(ctx, q.UserID, q.KeyName)
	if err != nil {
		return nil, err
	}
	result := queries.NewCipherResult(cipher)
	return &result, nil
}
