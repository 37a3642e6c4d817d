package testutil

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"github.com/skeeterman/lawnbill/internal/domain/catalog"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/types"
)

// InMemoryCatalogStore implements catalog.Repository
type InMemoryCatalogStore struct {
	*InMemoryStore[*catalog.Item]
}

// NewInMemoryCatalogStore creates a new in-memory catalog store
func NewInMemoryCatalogStore() *InMemoryCatalogStore {
	return &InMemoryCatalogStore{
		InMemoryStore: NewInMemoryStore[*catalog.Item](),
	}
}

func copyItem(i *catalog.Item) *catalog.Item {
	if i == nil {
		return nil
	}
	out := *i
	return &out
}

func (s *InMemoryCatalogStore) Create(ctx context.Context, item *catalog.Item) error {
	return s.InMemoryStore.Create(ctx, item.ID, copyItem(item))
}

func (s *InMemoryCatalogStore) Get(ctx context.Context, id string) (*catalog.Item, error) {
	item, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("catalog item not found").
			WithHintf("Catalog item %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyItem(item), nil
}

func (s *InMemoryCatalogStore) GetByVariationID(ctx context.Context, variationID string) (*catalog.Item, error) {
	return s.findOne(ctx, func(i *catalog.Item) bool {
		return i.VariationID == variationID
	})
}

func (s *InMemoryCatalogStore) GetPlanByName(ctx context.Context, name string) (*catalog.Item, error) {
	return s.findOne(ctx, func(i *catalog.Item) bool {
		return i.ItemType == types.CatalogItemTypePlan &&
			strings.Contains(strings.ToLower(i.Name), strings.ToLower(name))
	})
}

func (s *InMemoryCatalogStore) GetFeeItem(ctx context.Context) (*catalog.Item, error) {
	return s.findOne(ctx, func(i *catalog.Item) bool {
		return i.ItemType == types.CatalogItemTypeFee
	})
}

func (s *InMemoryCatalogStore) findOne(ctx context.Context, match func(*catalog.Item) bool) (*catalog.Item, error) {
	filterFn := func(_ context.Context, i *catalog.Item, _ interface{}) bool {
		return i.Status != types.StatusDeleted && match(i)
	}

	items, err := s.InMemoryStore.List(ctx, nil, filterFn, nil)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ierr.NewError("catalog item not found").
			WithHint("No matching catalog item").
			Mark(ierr.ErrNotFound)
	}
	return copyItem(items[0]), nil
}

func (s *InMemoryCatalogStore) ListByType(ctx context.Context, itemType types.CatalogItemType) ([]*catalog.Item, error) {
	filterFn := func(_ context.Context, i *catalog.Item, _ interface{}) bool {
		return i.Status != types.StatusDeleted && i.ItemType == itemType
	}

	items, err := s.InMemoryStore.List(ctx, nil, filterFn, itemSortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(i *catalog.Item, _ int) *catalog.Item {
		return copyItem(i)
	}), nil
}

func (s *InMemoryCatalogStore) ListByVariationIDs(ctx context.Context, variationIDs []string) ([]*catalog.Item, error) {
	filterFn := func(_ context.Context, i *catalog.Item, _ interface{}) bool {
		return i.Status != types.StatusDeleted && lo.Contains(variationIDs, i.VariationID)
	}

	items, err := s.InMemoryStore.List(ctx, nil, filterFn, itemSortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(i *catalog.Item, _ int) *catalog.Item {
		return copyItem(i)
	}), nil
}

func (s *InMemoryCatalogStore) Update(ctx context.Context, item *catalog.Item) error {
	return s.InMemoryStore.Update(ctx, item.ID, copyItem(item))
}

func (s *InMemoryCatalogStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}

func itemSortFn(i, j *catalog.Item) bool {
	return i.Name < j.Name
}
