package suppliers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/storetrack/storetrack/internal/masterdata/shared"
)

type fakeRepo struct {
	byID   map[int64]Supplier
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[int64]Supplier{}}
}

func (f *fakeRepo) List(_ context.Context, _ shared.ListFilters) ([]Supplier, int, error) {
	var list []Supplier
	for _, s := range f.byID {
		list = append(list, s)
	}
	return list, len(list), nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (Supplier, error) {
	s, ok := f.byID[id]
	if !ok {
		return Supplier{}, shared.ErrNotFound
	}
	return s, nil
}

func (f *fakeRepo) Create(_ context.Context, supplier Supplier) (Supplier, error) {
	f.nextID++
	supplier.ID = f.nextID
	f.byID[supplier.ID] = supplier
	return supplier, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, supplier Supplier) error {
	if _, ok := f.byID[id]; !ok {
		return shared.ErrNotFound
	}
	supplier.ID = id
	f.byID[id] = supplier
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), Supplier{Name: "  "})
	require.Error(t, err)

	created, err := svc.Create(context.Background(), Supplier{Name: "Acme Foods", Email: "orders@acme.test"})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
}

func TestGetRejectsInvalidID(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Get(context.Background(), 0)
	require.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = svc.Get(context.Background(), 99)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteMissingSupplier(t *testing.T) {
	svc := NewService(newFakeRepo())

	err := svc.Delete(context.Background(), 7)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
