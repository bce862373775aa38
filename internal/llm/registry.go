package llm

import (
	"fmt"

	"github.com/phanicodella/talentsync/internal/config"
)

// ProviderFactory creates a provider instance from the loaded configuration.
type ProviderFactory func(cfg *config.Config) (Provider, error)

var providers = make(map[string]ProviderFactory)

// RegisterProvider registers a provider factory under the given name.
// Provider packages call this from init; main blank-imports them.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewProvider instantiates the named provider.
func NewProvider(name string, cfg *config.Config) (Provider, error) {
	factory, exists := providers[name]
	if !exists {
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
	return factory(cfg)
}
