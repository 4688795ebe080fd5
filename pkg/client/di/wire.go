//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"techknowledgepills/pkg/client/config"
)

// InitializeApp builds the client graph. Construction performs no I/O
// beyond reading the session file.
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(AppSet)
	return nil, nil, nil
}
