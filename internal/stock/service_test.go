package stock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	totals map[string]int64
}

func (f *fakeRepo) TotalByProductCode(_ context.Context, code string) (int64, error) {
	total, ok := f.totals[code]
	if !ok {
		return 0, ErrLedgerNotFound
	}
	return total, nil
}

func (f *fakeRepo) List(_ context.Context) ([]LedgerEntry, error) {
	var entries []LedgerEntry
	for code, total := range f.totals {
		entries = append(entries, LedgerEntry{ProductCode: code, TotalStock: total})
	}
	return entries, nil
}

func TestTotalStock(t *testing.T) {
	svc := NewService(&fakeRepo{totals: map[string]int64{"SKU-1": 42}})

	total, err := svc.TotalStock(context.Background(), "SKU-1")
	require.NoError(t, err)
	require.Equal(t, int64(42), total)
}

func TestTotalStockMissingLedgerReportsZero(t *testing.T) {
	svc := NewService(&fakeRepo{totals: map[string]int64{}})

	total, err := svc.TotalStock(context.Background(), "SKU-404")
	require.NoError(t, err)
	require.Zero(t, total)
}
