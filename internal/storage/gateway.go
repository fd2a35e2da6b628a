package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/etickets/ticket-admin/internal/domain"
	"github.com/etickets/ticket-admin/pkg/errorutil"
)

// Stable record keys. These names are load-bearing: stores written by earlier
// versions of the product are read back under the same keys.
const (
	KeyTickets         = "etickets_tickets"
	KeyEmployees       = "etickets_employees"
	KeyCustomers       = "etickets_customers"
	KeyCurrentUser     = "etickets_current_user"
	KeyIsAuthenticated = "etickets_is_authenticated"
	KeyCredentials     = "etickets_user_credentials"
	KeySequences       = "etickets_sequences"
)

// AllKeys is the full key space ClearAll operates on.
var AllKeys = []string{
	KeyTickets,
	KeyEmployees,
	KeyCustomers,
	KeyCurrentUser,
	KeyIsAuthenticated,
	KeyCredentials,
	KeySequences,
}

// Gateway is the persistence boundary: JSON serialization over a Backend,
// plus the process-wide writer lock. Services bracket every
// read-modify-write sequence with Lock/Unlock; the gateway itself never
// mutates data.
type Gateway struct {
	mu      sync.Mutex
	backend Backend
}

// NewGateway wraps a backend.
func NewGateway(backend Backend) *Gateway {
	return &Gateway{backend: backend}
}

// Lock takes the single-writer lock.
func (g *Gateway) Lock() { g.mu.Lock() }

// Unlock releases the single-writer lock.
func (g *Gateway) Unlock() { g.mu.Unlock() }

// Backend exposes the underlying backend for health checks.
func (g *Gateway) Backend() Backend { return g.backend }

// Load decodes the record at key into out. Returns found=false and leaves
// out untouched when the key is absent; a stored value that cannot be
// decoded is a storage failure, not a silent default.
func (g *Gateway) Load(ctx context.Context, key string, out any) (bool, error) {
	data, err := g.backend.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errorutil.NewStorageFailed("read", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, errorutil.NewStorageFailed("decode", err)
	}
	return true, nil
}

// Store encodes value as JSON and writes it under key.
func (g *Gateway) Store(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errorutil.NewStorageFailed("encode", err)
	}
	if err := g.backend.Set(ctx, key, data); err != nil {
		return errorutil.NewStorageFailed("write", err)
	}
	return nil
}

// StoreAll writes several records, as one unit when the backend supports
// batching. Without batch support the writes are sequential and a crash
// between them can leave related collections inconsistent.
func (g *Gateway) StoreAll(ctx context.Context, values map[string]any) error {
	encoded := make(map[string][]byte, len(values))
	for key, value := range values {
		data, err := json.Marshal(value)
		if err != nil {
			return errorutil.NewStorageFailed("encode", err)
		}
		encoded[key] = data
	}

	if batch, ok := g.backend.(BatchBackend); ok {
		if err := batch.SetBatch(ctx, encoded); err != nil {
			return errorutil.NewStorageFailed("write", err)
		}
		return nil
	}

	for key, data := range encoded {
		if err := g.backend.Set(ctx, key, data); err != nil {
			return errorutil.NewStorageFailed("write", err)
		}
	}
	return nil
}

// Remove deletes the record at key. Removing an absent key is not an error.
func (g *Gateway) Remove(ctx context.Context, key string) error {
	if err := g.backend.Remove(ctx, key); err != nil {
		return errorutil.NewStorageFailed("remove", err)
	}
	return nil
}

// ClearAll removes every known record.
func (g *Gateway) ClearAll(ctx context.Context) error {
	for _, key := range AllKeys {
		if err := g.Remove(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Tickets loads the ticket collection, defaulting to empty.
func (g *Gateway) Tickets(ctx context.Context) ([]domain.Ticket, error) {
	tickets := []domain.Ticket{}
	if _, err := g.Load(ctx, KeyTickets, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// Employees loads the employee collection, defaulting to empty.
func (g *Gateway) Employees(ctx context.Context) ([]domain.Employee, error) {
	employees := []domain.Employee{}
	if _, err := g.Load(ctx, KeyEmployees, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// Customers loads the customer collection, defaulting to empty.
func (g *Gateway) Customers(ctx context.Context) ([]domain.Customer, error) {
	customers := []domain.Customer{}
	if _, err := g.Load(ctx, KeyCustomers, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// Credentials loads the credential list. found=false means the list has
// never been written, which is the trigger for admin seeding.
func (g *Gateway) Credentials(ctx context.Context) ([]domain.Credential, bool, error) {
	credentials := []domain.Credential{}
	found, err := g.Load(ctx, KeyCredentials, &credentials)
	if err != nil {
		return nil, false, err
	}
	return credentials, found, nil
}

// Sequences loads the identifier counters, defaulting to all-zero.
func (g *Gateway) Sequences(ctx context.Context) (domain.Sequences, error) {
	var seq domain.Sequences
	if _, err := g.Load(ctx, KeySequences, &seq); err != nil {
		return domain.Sequences{}, err
	}
	return seq, nil
}

// Session loads the persisted session, if any.
func (g *Gateway) Session(ctx context.Context) (*domain.Session, error) {
	var session domain.Session
	found, err := g.Load(ctx, KeyCurrentUser, &session)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &session, nil
}

// Authenticated loads the persisted authentication flag.
func (g *Gateway) Authenticated(ctx context.Context) (bool, error) {
	var authenticated bool
	if _, err := g.Load(ctx, KeyIsAuthenticated, &authenticated); err != nil {
		return false, err
	}
	return authenticated, nil
}

// SaveSession persists the session and authentication flag together.
func (g *Gateway) SaveSession(ctx context.Context, session domain.Session) error {
	return g.StoreAll(ctx, map[string]any{
		KeyCurrentUser:     session,
		KeyIsAuthenticated: true,
	})
}

// ClearAuth removes the session and authentication flag, leaving entity
// collections intact.
func (g *Gateway) ClearAuth(ctx context.Context) error {
	if err := g.Remove(ctx, KeyCurrentUser); err != nil {
		return err
	}
	return g.Remove(ctx, KeyIsAuthenticated)
}
