package entities

import (
	"strings"
	"time"

	"techknowledgepills/domain/config"
	pkgerrors "techknowledgepills/pkg/errors"
)

// DefaultCipherAlgorithm is assumed when a client does not name one
const DefaultCipherAlgorithm = "AES256"

// Cipher is an opaque encrypted blob a user stores under a key name.
// The server never decrypts it.
type Cipher struct {
	ID            string
	UserID        string
	KeyName       string
	EncryptedData string
	Description   *string
	Algorithm     string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

// CipherPatch lists the fields an update may change. Nil means unchanged.
type CipherPatch struct {
	KeyName       *string
	EncryptedData *string
	Description   *string
	Algorithm     *string
	IsActive      *bool
}

// NewCipher validates and builds a cipher
func NewCipher(id, userID, keyName, data string, description *string, algorithm string, now time.Time, cfg *config.DomainConfig) (*Cipher, error) {
	c := &Cipher{
		ID:            id,
		UserID:        userID,
		KeyName:       strings.TrimSpace(keyName),
		EncryptedData: data,
		Description:   description,
		Algorithm:     strings.TrimSpace(algorithm),
		IsActive:      true,
		CreatedAt:     now.UTC(),
	}
	if c.Algorithm == "" {
		c.Algorithm = DefaultCipherAlgorithm
	}
	if err := c.validate(cfg); err != nil {
		return nil, err
	}
	return c, nil
}

// Apply merges a patch. Empty strings for key name, data and algorithm are ignored.
func (c *Cipher) Apply(p CipherPatch, now time.Time, cfg *config.DomainConfig) error {
	if p.KeyName != nil && strings.TrimSpace(*p.KeyName) != "" {
		c.KeyName = strings.TrimSpace(*p.KeyName)
	}
	if p.EncryptedData != nil && *p.EncryptedData != "" {
		c.EncryptedData = *p.EncryptedData
	}
	if p.Description != nil {
		c.Description = p.Description
	}
	if p.Algorithm != nil && strings.TrimSpace(*p.Algorithm) != "" {
		c.Algorithm = strings.TrimSpace(*p.Algorithm)
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
	t := now.UTC()
	c.UpdatedAt = &t
	return c.validate(cfg)
}

func (c *Cipher) validate(cfg *config.DomainConfig) error {
	v := pkgerrors.NewValidationErrors()
	v.AddIf(c.UserID == "", "userId", "is required")
	v.AddIf(c.KeyName == "", "keyName", "is required")
	v.AddIf(len(c.KeyName) > cfg.MaxKeyNameLength, "keyName", "is too long")
	v.AddIf(c.EncryptedData == "", "encryptedData", "is required")
	v.AddIf(len(c.EncryptedData) > cfg.MaxCipherValue, "encryptedData", "is too long")
	return v.Err()
}
