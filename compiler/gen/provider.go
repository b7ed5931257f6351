package gen

import (
	"maps"
	"slices"
)

// ClientProvider describes a sibling generator that produces the data accessor
// (ctx.prisma) the emitted procedures call into.
type ClientProvider struct {
	Name    string // provider identifier as written in the schema.
	Example string // generator block users can copy into their schema.
}

var clientProviders = map[string]*ClientProvider{
	"prisma-client-js": {
		Name: "prisma-client-js",
		Example: `generator client {
  provider = "prisma-client-js"
}
`,
	},
	"prisma-client": {
		Name: "prisma-client",
		Example: `generator client {
  provider = "prisma-client"
  output   = "./generated/client"
}
`,
	},
}

// NewClientProvider returns the registered provider with the given identifier.
func NewClientProvider(name string) (*ClientProvider, bool) {
	p, ok := clientProviders[name]
	return p, ok
}

// ClientProviderNames returns the accepted provider identifiers, sorted in
// reverse so the legacy JS client is listed first.
func ClientProviderNames() []string {
	names := slices.Sorted(maps.Keys(clientProviders))
	slices.Reverse(names)
	return names
}

// String implements the fmt.Stringer interface.
func (p *ClientProvider) String() string { return p.Name }

// RequireClient returns the first configured provider that is a known client
// generator, or a ProviderError listing the accepted identifiers.
func RequireClient(providers []string) (*ClientProvider, error) {
	for _, name := range providers {
		if p, ok := clientProviders[name]; ok {
			return p, nil
		}
	}
	return nil, &ProviderError{Found: providers}
}
