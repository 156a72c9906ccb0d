// Package catalog manages the product catalog: the seeded baseline plus
// admin edits, all persisted as a single collection.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/hamadpass/khodarji-backend/internal/storage"
	pkgerrors "github.com/hamadpass/khodarji-backend/pkg/errors"
	"github.com/hamadpass/khodarji-backend/pkg/latency"
	"github.com/hamadpass/khodarji-backend/pkg/logger"
	"github.com/hamadpass/khodarji-backend/pkg/types"
)

// Service exposes catalog reads and admin mutations.
type Service interface {
	List(ctx context.Context) ([]types.Product, error)
	Save(ctx context.Context, product types.Product) (*types.Product, error)
	Delete(ctx context.Context, id string) error
}

type collectionStore interface {
	Read(ctx context.Context, key string, dest any) error
	Write(ctx context.Context, key string, value any) error
}

// catalogMeta records which seed version populated the stored catalog.
type catalogMeta struct {
	SeedVersion int `json:"seedVersion"`
}

type service struct {
	store collectionStore
	sim   *latency.Simulator
	logg  *logger.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewService builds the catalog service over the durable store.
func NewService(store collectionStore, sim *latency.Simulator, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("storage required")
	}
	return &service{
		store:    store,
		sim:      sim,
		logg:     logg,
		inFlight: make(map[string]struct{}),
	}, nil
}

// List returns the full catalog, installing or refreshing the seed first
// when the stored seed version lags the canonical one.
func (s *service) List(ctx context.Context) ([]types.Product, error) {
	if err := s.sim.Wait(ctx, latency.OpGetProducts); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products interrupted")
	}
	return s.load(ctx)
}

// load reads the stored catalog, reseeding when the recorded seed version is
// stale or the catalog has never been populated.
func (s *service) load(ctx context.Context) ([]types.Product, error) {
	var meta catalogMeta
	if err := s.store.Read(ctx, storage.KeyCatalog, &meta); err != nil {
		return nil, err
	}

	var products []types.Product
	if err := s.store.Read(ctx, storage.KeyProducts, &products); err != nil {
		return nil, err
	}

	if meta.SeedVersion >= seedVersion && products != nil {
		return products, nil
	}

	products = SeedProducts()
	if err := s.store.Write(ctx, storage.KeyProducts, products); err != nil {
		return nil, err
	}
	if err := s.store.Write(ctx, storage.KeyCatalog, catalogMeta{SeedVersion: seedVersion}); err != nil {
		return nil, err
	}
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"seed_version": seedVersion,
			"products":     len(products),
		})
		s.logg.Info(logCtx, "catalog seeded")
	}
	return products, nil
}

// Save inserts or replaces a product by id. Concurrent saves of the same
// product are rejected rather than queued.
func (s *service) Save(ctx context.Context, product types.Product) (*types.Product, error) {
	if product.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if !product.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product category")
	}
	if product.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	if err := s.acquire(product.ID); err != nil {
		return nil, err
	}
	defer s.release(product.ID)

	if err := s.sim.Wait(ctx, latency.OpSaveProduct); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save product interrupted")
	}

	products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	replaced := false
	for i := range products {
		if products[i].ID == product.ID {
			products[i] = product
			replaced = true
			break
		}
	}
	if !replaced {
		products = append(products, product)
	}

	if err := s.store.Write(ctx, storage.KeyProducts, products); err != nil {
		return nil, err
	}
	return &product, nil
}

// Delete removes a product by id. Deleting an absent id is a no-op.
func (s *service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	if err := s.acquire(id); err != nil {
		return err
	}
	defer s.release(id)

	if err := s.sim.Wait(ctx, latency.OpDeleteProduct); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product interrupted")
	}

	products, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := products[:0]
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(products) {
		return nil
	}
	return s.store.Write(ctx, storage.KeyProducts, kept)
}

func (s *service) acquire(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return pkgerrors.New(pkgerrors.CodeConflict, "product update already in progress")
	}
	s.inFlight[id] = struct{}{}
	return nil
}

func (s *service) release(id string) {
	s.mu.Lock()
	delete(s.inFlight, id)
	s.mu.Unlock()
}
