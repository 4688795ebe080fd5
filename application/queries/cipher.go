package queries

import (
	"time"

	"techknowledgepills/domain/core/entities"
	pkgerrors "techknowledgepills/pkg/errors"
)

// CipherResult is the wire shape of a cipher
type CipherResult struct {
	ID            string     `json:"id"`
	KeyName       string     `json:"keyName"`
	EncryptedData string     `json:"encryptedData"`
	Description   *string    `json:"description"`
	Algorithm     string     `json:"algorithm"`
	IsActive      bool       `json:"isActive"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt"`
}

func NewCipherResult(c *entities.Cipher) CipherResult {
	return CipherResult{
		ID:            c.ID,
		KeyName:       c.KeyName,
		EncryptedData: c.EncryptedData,
		Description:   c.Description,
		Algorithm:     c.Algorithm,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

type ListCiphersQuery struct {
	UserID string
}

func (q ListCiphersQuery) Validate() error {
	if q.UserID == "" {
		return pkgerrors.NewValidationError("user id is required")
	}
	return nil
}

type GetCipherQuery struct {
	UserID   string
	CipherID string
}

func (q GetCipherQuery) Validate() error {
	if q.UserID == "" || q.CipherID == "" {
		return pkgerrors.NewValidationError("user id and cipher id are required")
	}
	return nil
}

type GetCipherByKeyQuery struct {
	UserID  string
	KeyName string
}

func (q GetCipherByKeyQuery) Validate() error {
	if q.UserID == "" || q.KeyName == "" {
		return pkgerrors.NewValidationError("user id and key name are required")
	}
	return nil
}
