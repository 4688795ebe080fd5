package handlers

import (
	"context"
	"time"

	"techknowledgepills/application/commands"
	"techknowledgepills/application/ports"
	"techknowledgepills/domain/config"
	"techknowledgepills/domain/core/entities"

	"go.uber.org/zap"
)

// CipherHandlers manages a user's encrypted blobs
type CipherHandlers struct {
	cipherRepo ports.CipherRepository
	cfg        *config.DomainConfig
	logger     *zap.Logger
}

// NewCipherHandlers creates the cipher command handlers
func NewCipherHandlers(cipherRepo ports.CipherRepository, cfg *config.DomainConfig, logger *zap.Logger) *CipherHandlers {
	return &CipherHandlers{
		cipherRepo: cipherRepo,
		cfg:        cfg,
		logger:     logger,
	}
}

// HandleCreate executes CreateCipherCommand
func (h *CipherHandlers) HandleCreate(ctx context.Context, cmd commands.CreateCipherCommand) error {
	cipher, err := entities.NewCipher(
		cmd.CipherID,
		cmd.UserID,
		cmd.KeyName,
		cmd.EncryptedData,
		cmd.Description,
		cmd.Algorithm,
		time.Now(),
		h.cfg,
	)
	if err != nil {
		return err
	}
	return h.cipherRepo.Save(ctx, cipher)
}

// HandleUpdate executes UpdateCipherCommand. Ciphers of other users are reported as missing.
func (h *CipherHandlers) HandleUpdate(ctx context.Context, cmd commands.UpdateCipherCommand) error {
	cipher, err := h.cipherRepo.GetByID(ctx, cmd.UserID, cmd.CipherID)
	if err != nil {
		return err
	}

	if err := cipher.Apply(entities.CipherPatch{
		KeyName:       cmd.KeyName,
		EncryptedData: cmd.EncryptedData,
		Description:   cmd.Description,
		Algorithm:     cmd.Algorithm,
		IsActive:      cmd.IsActive,
	}, time.Now(), h.cfg); err != nil {
		return err
	}
	return h.cipherRepo.Save(ctx, cipher)
}

// HandleDelete executes DeleteCipherCommand
func (h *CipherHandlers) HandleDelete(ctx context.Context, cmd commands.DeleteCipherCommand) error {
	if err := h.cipherRepo.Delete(ctx, cmd.UserID, cmd.CipherID); err != nil {
		return err
	}
	h.logger.Debug("Cipher deleted", zap.String("cipherID", cmd.CipherID))
	return nil
}
