package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/paperdrill/backend/internal/model"
)

// ErrUnknownModel is returned when no provider is registered under the
// requested model name.
var ErrUnknownModel = errors.New("unknown assistant model")

// Registry routes tutoring requests to named providers. Model names are
// matched case-insensitively, so "Openai" and "openai" are the same
// provider.
type Registry struct {
	clients map[string]Client
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Client)}
}

// Register adds a provider under the given model name.
func (r *Registry) Register(name string, c Client) {
	r.clients[strings.ToLower(name)] = c
}

// Ask routes the request to the provider registered under modelName and
// wraps the answer with the model name the caller asked for.
func (r *Registry) Ask(ctx context.Context, modelName string, req Request) (model.AIResponse, error) {
	c, ok := r.clients[strings.ToLower(strings.TrimSpace(modelName))]
	if !ok {
		return model.AIResponse{}, fmt.Errorf("%w: %q", ErrUnknownModel, modelName)
	}
	text, err := c.Ask(ctx, req)
	if err != nil {
		return model.AIResponse{}, err
	}
	return model.AIResponse{Model: modelName, Response: text}, nil
}
