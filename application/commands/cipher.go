package commands

import "techknowledgepills/pkg/utils"

// CreateCipherCommand stores an encrypted blob under a key name
type CreateCipherCommand struct {
	CipherID      string  `json:"id" validate:"required"`
	UserID        string  `json:"userId" validate:"required"`
	KeyName       string  `json:"keyName" validate:"required"`
	EncryptedData string  `json:"encryptedData" validate:"required"`
	Description   *string `json:"description"`
	Algorithm     string  `json:"algorithm"`
}

func (c CreateCipherCommand) Validate() error { return utils.ValidateStruct(c) }

// UpdateCipherCommand patches a cipher. Nil fields are left alone.
type UpdateCipherCommand struct {
	CipherID      string  `json:"id" validate:"required"`
	UserID        string  `json:"userId" validate:"required"`
	KeyName       *string `json:"keyName"`
	EncryptedData *string `json:"encryptedData"`
	Description   *string `json:"description"`
	Algorithm     *string `json:"algorithm"`
	IsActive      *bool   `json:"isActive"`
}

func (c UpdateCipherCommand) Validate() error { return utils.ValidateStruct(c) }

// DeleteCipherCommand removes a cipher owned by the user
type DeleteCipherCommand struct {
	CipherID string `json:"id" validate:"required"`
	UserID   string `json:"userId" validate:"required"`
}

func (c DeleteCipherCommand) Validate() error { return utils.ValidateStruct(c) }
