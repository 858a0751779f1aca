package storage

import (
	"context"

	"go.uber.org/zap"

	"github.com/cloudrelay/uploader/internal/apperr"
)

// Factory builds an Adapter from a resolved config.
type Factory func(ctx context.Context, cfg ProviderConfig) (Adapter, error)

// DefaultFactories maps each provider to its SDK-backed adapter.
var DefaultFactories = map[ProviderID]Factory{
	ProviderS3: func(ctx context.Context, cfg ProviderConfig) (Adapter, error) {
		return NewS3Storage(ctx, cfg)
	},
	ProviderMinio: func(ctx context.Context, cfg ProviderConfig) (Adapter, error) {
		return NewMinioStorage(cfg)
	},
	ProviderGCS: func(ctx context.Context, cfg ProviderConfig) (Adapter, error) {
		return NewGCSStorage(ctx, cfg)
	},
}

// Client is the process-wide handle for one provider. It is either usable
// (holds an adapter) or unusable (holds the reason), never both.
type Client struct {
	id      ProviderID
	adapter Adapter
	err     error
}

// NewClient resolves the provider config from lookup and builds its adapter.
// Any failure yields an unusable client rather than an error.
func NewClient(ctx context.Context, id ProviderID, lookup LookupFunc, factory Factory) *Client {
	cfg, err := Resolve(id, lookup)
	if err != nil {
		return Unusable(id, err)
	}
	adapter, err := factory(ctx, cfg)
	if err != nil {
		return Unusable(id, err)
	}
	return Ready(id, adapter)
}

// Ready returns a usable client around adapter.
func Ready(id ProviderID, adapter Adapter) *Client {
	return &Client{id: id, adapter: adapter}
}

// Unusable returns a client that rejects every call with a configuration error.
func Unusable(id ProviderID, reason error) *Client {
	return &Client{id: id, err: reason}
}

// ID returns the provider id.
func (c *Client) ID() ProviderID {
	return c.id
}

// Usable reports whether the provider was initialized.
func (c *Client) Usable() bool {
	return c.adapter != nil
}

// Err returns the initialization failure, or nil for a usable client.
func (c *Client) Err() error {
	return c.err
}

// Adapter returns the provider adapter, or a configuration error when the
// client is unusable.
func (c *Client) Adapter() (Adapter, error) {
	if c.adapter == nil {
		return nil, apperr.Configuration(c.id.String(), c.err)
	}
	return c.adapter, nil
}

// Registry holds one Client per supported provider. It is built once at
// startup and read-only afterwards.
type Registry struct {
	clients map[ProviderID]*Client
}

// NewRegistry collects clients. Providers without a client are reported as
// unusable.
func NewRegistry(clients ...*Client) *Registry {
	r := &Registry{clients: make(map[ProviderID]*Client, len(Providers))}
	for _, c := range clients {
		r.clients[c.id] = c
	}
	return r
}

// Open resolves every provider from lookup using factories and logs each
// provider that could not be initialized.
func Open(ctx context.Context, lookup LookupFunc, factories map[ProviderID]Factory, logger *zap.Logger) *Registry {
	clients := make([]*Client, 0, len(Providers))
	for _, id := range Providers {
		c := NewClient(ctx, id, lookup, factories[id])
		if c.Usable() {
			logger.Info("storage provider initialized", zap.String("provider", id.String()))
		} else {
			logger.Warn("storage provider unusable",
				zap.String("provider", id.String()),
				zap.Error(c.Err()))
		}
		clients = append(clients, c)
	}
	return NewRegistry(clients...)
}

// Client returns the client for id. Unknown ids are a client-input error.
func (r *Registry) Client(id string) (*Client, error) {
	pid := ProviderID(id)
	if !pid.Valid() {
		return nil, apperr.Inputf("unsupported provider %q", id)
	}
	c, ok := r.clients[pid]
	if !ok {
		return Unusable(pid, nil), nil
	}
	return c, nil
}

// Adapter returns the usable adapter for id.
func (r *Registry) Adapter(id string) (Adapter, error) {
	c, err := r.Client(id)
	if err != nil {
		return nil, err
	}
	return c.Adapter()
}

// Clients returns every provider's client in display order.
func (r *Registry) Clients() []*Client {
	out := make([]*Client, 0, len(Providers))
	for _, id := range Providers {
		c, ok := r.clients[id]
		if !ok {
			c = Unusable(id, nil)
		}
		out = append(out, c)
	}
	return out
}
