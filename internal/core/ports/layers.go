package ports

import (
	"context"

	"go.trai.ch/navcache/internal/core/domain"
)

// LayerSource loads the configuration layers that activate and order content files.
//
//go:generate go run go.uber.org/mock/mockgen -source=layers.go -destination=mocks/mock_layers.go -package=mocks
type LayerSource interface {
	// Layers reads every configured layer and returns them in precedence order.
	Layers(ctx context.Context) (*domain.LayerStack, error)
}
