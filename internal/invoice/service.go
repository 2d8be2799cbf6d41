package invoice

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ccj16/regdesk/internal/api"
	"github.com/ccj16/regdesk/internal/cachemanager"
)

// Service reads invoices from the backend.
type Service struct {
	byRegistration *cachemanager.ReadThroughCache[string, Invoice, string]
	byID           *cachemanager.ReadThroughCache[string, Invoice, uint64]
}

// NewService creates a Service. A positive ttl caches invoices in memory.
func NewService(client *api.Client, ttl time.Duration) *Service {
	cache := cachemanager.NewInMemoryCacheManager[string, Invoice]("invoice", ttl, cachemanager.DefaultCleanupInterval)

	return &Service{
		byRegistration: cachemanager.NewReadThroughCache[string, Invoice, string](
			cache,
			func(ctx context.Context, key string) (Invoice, error) {
				return api.GetJSON[Invoice](ctx, client, api.RegistrationInvoicePath(key), nil)
			},
			ttl,
		),
		byID: cachemanager.NewReadThroughCache[string, Invoice, uint64](
			cache,
			func(ctx context.Context, id uint64) (Invoice, error) {
				return api.GetJSON[Invoice](ctx, client, api.InvoicePath(id), nil)
			},
			ttl,
		),
	}
}

// GetByRegistration fetches the invoice for a registration's security key.
func (s *Service) GetByRegistration(ctx context.Context, securityKey string) (Invoice, error) {
	inv, err := s.byRegistration.Get(ctx, "reg:"+securityKey, securityKey)
	if err != nil {
		return Invoice{}, fmt.Errorf("fetching invoice for registration: %w", err)
	}
	return inv, nil
}

// GetByID fetches an invoice by its numeric id.
func (s *Service) GetByID(ctx context.Context, id uint64) (Invoice, error) {
	inv, err := s.byID.Get(ctx, "id:"+strconv.FormatUint(id, 10), id)
	if err != nil {
		return Invoice{}, fmt.Errorf("fetching invoice %d: %w", id, err)
	}
	return inv, nil
}

// Refresh drops the cached invoice for a registration.
func (s *Service) Refresh(ctx context.Context, securityKey string) {
	s.byRegistration.Invalidate(ctx, "reg:"+securityKey)
}
