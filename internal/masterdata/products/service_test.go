package products

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/storetrack/storetrack/internal/masterdata/shared"
)

type fakeRepo struct {
	byCode map[string]Product
	ledger map[string]int64
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byCode: map[string]Product{}, ledger: map[string]int64{}}
}

func (f *fakeRepo) List(_ context.Context, _ shared.ListFilters) ([]ListItem, int, error) {
	var list []ListItem
	for _, p := range f.byCode {
		list = append(list, ListItem{Product: p})
	}
	return list, len(list), nil
}

func (f *fakeRepo) GetByCode(_ context.Context, code string) (Product, error) {
	p, ok := f.byCode[code]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) Create(_ context.Context, product Product) (Product, error) {
	if _, ok := f.byCode[product.Code]; ok {
		return Product{}, shared.ErrDuplicate
	}
	f.nextID++
	product.ID = f.nextID
	f.byCode[product.Code] = product
	return product, nil
}

func (f *fakeRepo) UpdateByCode(_ context.Context, code string, product Product) error {
	existing, ok := f.byCode[code]
	if !ok {
		return shared.ErrNotFound
	}
	existing.Name = product.Name
	existing.CategoryID = product.CategoryID
	existing.BrandID = product.BrandID
	existing.UnitPrice = product.UnitPrice
	f.byCode[code] = existing
	return nil
}

func (f *fakeRepo) DeleteByCode(_ context.Context, code string) error {
	if _, ok := f.byCode[code]; !ok {
		return shared.ErrNotFound
	}
	if _, ok := f.ledger[code]; ok {
		f.ledger[code] = 0
	}
	delete(f.byCode, code)
	return nil
}

func (f *fakeRepo) SearchCodes(_ context.Context, prefix string) ([]string, error) {
	var codes []string
	for code := range f.byCode {
		if strings.HasPrefix(code, prefix) {
			codes = append(codes, code)
		}
	}
	return codes, nil
}

func TestCreateGeneratesCodeAndBarcode(t *testing.T) {
	svc := NewService(newFakeRepo())

	created, err := svc.Create(context.Background(), CreateRequest{
		Name:       "Almond Milk 1L",
		CategoryID: 1,
		BrandID:    2,
		UnitPrice:  decimal.NewFromFloat(3.50),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.Code)
	require.NotEmpty(t, created.Barcode)
	require.True(t, strings.HasPrefix(created.Code, "P"))
	require.True(t, strings.HasPrefix(created.Barcode, "B"))
}

func TestCreateKeepsProvidedCode(t *testing.T) {
	svc := NewService(newFakeRepo())

	created, err := svc.Create(context.Background(), CreateRequest{
		Code:       "SKU-100",
		Name:       "Oat Bar",
		CategoryID: 1,
		BrandID:    1,
	})
	require.NoError(t, err)
	require.Equal(t, "SKU-100", created.Code)
}

func TestCreateRejectsMissingFields(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), CreateRequest{Name: "", CategoryID: 1, BrandID: 1})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(context.Background(), CreateRequest{Name: "X", CategoryID: 0, BrandID: 1})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(context.Background(), CreateRequest{Name: "   ", CategoryID: 1, BrandID: 1})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(context.Background(), CreateRequest{
		Name: "X", CategoryID: 1, BrandID: 1, UnitPrice: decimal.NewFromInt(-1),
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateDoesNotTouchCodeOrBarcode(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), CreateRequest{
		Code: "SKU-7", Barcode: "EAN-7", Name: "Rice 5kg", CategoryID: 1, BrandID: 1,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateByCode(context.Background(), created.Code, UpdateRequest{
		Name:       "Rice 5kg Premium",
		CategoryID: 2,
		BrandID:    3,
		UnitPrice:  decimal.NewFromInt(12),
	})
	require.NoError(t, err)
	require.Equal(t, "SKU-7", updated.Code)
	require.Equal(t, "EAN-7", updated.Barcode)
	require.Equal(t, "Rice 5kg Premium", updated.Name)
	require.Equal(t, int64(2), updated.CategoryID)
}

func TestUpdateMissingProduct(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.UpdateByCode(context.Background(), "NOPE", UpdateRequest{
		Name: "X", CategoryID: 1, BrandID: 1,
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteZeroesLedgerRowWithoutRemovingIt(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), CreateRequest{
		Code: "SKU-9", Name: "Soy Sauce", CategoryID: 1, BrandID: 1,
	})
	require.NoError(t, err)
	repo.ledger["SKU-9"] = 25

	require.NoError(t, svc.DeleteByCode(context.Background(), created.Code))

	total, ok := repo.ledger["SKU-9"]
	require.True(t, ok)
	require.Equal(t, int64(0), total)
	_, err = svc.GetByCode(context.Background(), "SKU-9")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSearchCodesRequiresPrefix(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.SearchCodes(context.Background(), "  ")
	require.ErrorIs(t, err, shared.ErrRequiredField)
}
