package removal

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/storetrack/storetrack/internal/stock"
)

type fakeRepo struct {
	products map[string]bool
	lots     []Lot
	ledger   map[string]int64
	records  []Record
	nextID   int64

	productChecks int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		products: map[string]bool{},
		ledger:   map[string]int64{},
	}
}

func (f *fakeRepo) addLot(code string, remaining int64, expiry, delivery *time.Time) {
	f.nextID++
	f.lots = append(f.lots, Lot{
		ID:           f.nextID,
		ProductCode:  code,
		Remaining:    remaining,
		ExpiryDate:   expiry,
		DeliveryDate: delivery,
	})
}

func (f *fakeRepo) ProductExists(_ context.Context, code string) (bool, error) {
	f.productChecks++
	return f.products[code], nil
}

func (f *fakeRepo) ListTracked(_ context.Context, reason Reason) ([]TrackedRecord, error) {
	var tracked []TrackedRecord
	for _, rec := range f.records {
		if rec.Reason == reason {
			tracked = append(tracked, TrackedRecord{Record: rec})
		}
	}
	return tracked, nil
}

func (f *fakeRepo) ListExpiredInStock(_ context.Context, asOf time.Time) ([]ExpiredLot, error) {
	var lots []ExpiredLot
	for _, lot := range f.lots {
		if lot.Remaining > 0 && lot.ExpiryDate != nil && lot.ExpiryDate.Before(asOf) {
			lots = append(lots, ExpiredLot{
				LotID:       lot.ID,
				ProductCode: lot.ProductCode,
				Remaining:   lot.Remaining,
				ExpiryDate:  lot.ExpiryDate,
			})
		}
	}
	return lots, nil
}

// WithTx runs fn against a copy of the state and commits only on success, so
// failed removals leave nothing mutated.
func (f *fakeRepo) WithTx(_ context.Context, fn func(ctx context.Context, tx TxRepository) error) error {
	clone := &fakeTx{
		lots:   append([]Lot(nil), f.lots...),
		ledger: map[string]int64{},
		parent: f,
	}
	for k, v := range f.ledger {
		clone.ledger[k] = v
	}
	if err := fn(context.Background(), clone); err != nil {
		return err
	}
	f.lots = clone.lots
	f.ledger = clone.ledger
	f.records = append(f.records, clone.inserted...)
	return nil
}

type fakeTx struct {
	lots     []Lot
	ledger   map[string]int64
	inserted []Record
	parent   *fakeRepo
}

func (t *fakeTx) SelectLotsForUpdate(_ context.Context, code string, expiredBefore *time.Time) ([]Lot, error) {
	var eligible []Lot
	for _, lot := range t.lots {
		if lot.ProductCode != code || lot.Remaining <= 0 {
			continue
		}
		if expiredBefore != nil {
			if lot.ExpiryDate == nil || !lot.ExpiryDate.Before(*expiredBefore) {
				continue
			}
		}
		eligible = append(eligible, lot)
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		switch {
		case a.ExpiryDate == nil && b.ExpiryDate == nil:
		case a.ExpiryDate == nil:
			return false
		case b.ExpiryDate == nil:
			return true
		case !a.ExpiryDate.Equal(*b.ExpiryDate):
			return a.ExpiryDate.Before(*b.ExpiryDate)
		}
		if a.DeliveryDate != nil && b.DeliveryDate != nil && !a.DeliveryDate.Equal(*b.DeliveryDate) {
			return a.DeliveryDate.Before(*b.DeliveryDate)
		}
		return a.ID < b.ID
	})
	return eligible, nil
}

func (t *fakeTx) UpdateLotRemaining(_ context.Context, lotID, remaining int64) error {
	for i := range t.lots {
		if t.lots[i].ID == lotID {
			t.lots[i].Remaining = remaining
			return nil
		}
	}
	return errors.New("lot not found")
}

func (t *fakeTx) GetLedgerForUpdate(_ context.Context, code string) (stock.LedgerEntry, error) {
	total, ok := t.ledger[code]
	if !ok {
		return stock.LedgerEntry{}, stock.ErrLedgerNotFound
	}
	return stock.LedgerEntry{ProductCode: code, TotalStock: total}, nil
}

func (t *fakeTx) SetLedgerTotal(_ context.Context, code string, total int64) error {
	if _, ok := t.ledger[code]; !ok {
		return stock.ErrLedgerNotFound
	}
	t.ledger[code] = total
	return nil
}

func (t *fakeTx) InsertRecord(_ context.Context, record Record) (Record, error) {
	t.parent.nextID++
	record.ID = t.parent.nextID
	t.inserted = append(t.inserted, record)
	return record, nil
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newTestService(repo Repository, cfg ServiceConfig) *Service {
	svc := NewService(slog.Default(), repo, cfg, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestRemoveExpiredWalksLotsFirstExpiredFirst(t *testing.T) {
	repo := newFakeRepo()
	repo.products["SKU-1"] = true
	repo.addLot("SKU-1", 5, date(2026, time.July, 1), date(2026, time.June, 1))
	repo.addLot("SKU-1", 7, date(2026, time.August, 1), date(2026, time.July, 1))
	repo.ledger["SKU-1"] = 12

	svc := newTestService(repo, ServiceConfig{})

	result, err := svc.Remove(context.Background(), ReasonExpired, Input{ProductCode: "SKU-1", Quantity: 7})
	require.NoError(t, err)

	require.Equal(t, int64(7), result.RequestedQty)
	require.Equal(t, int64(7), result.AllocatedQty)
	require.Len(t, result.Records, 2)
	require.Equal(t, int64(5), result.Records[0].Quantity)
	require.Equal(t, int64(2), result.Records[1].Quantity)
	require.Equal(t, int64(5), result.TotalQuantity)

	require.Equal(t, int64(0), repo.lots[0].Remaining)
	require.Equal(t, int64(5), repo.lots[1].Remaining)
	require.Equal(t, int64(5), repo.ledger["SKU-1"])
}

func TestRemoveExpiredSkipsUnexpiredAndUndatedLots(t *testing.T) {
	repo := newFakeRepo()
	repo.products["SKU-1"] = true
	repo.addLot("SKU-1", 3, date(2026, time.July, 1), nil)
	repo.addLot("SKU-1", 10, date(2026, time.December, 1), nil)
	repo.addLot("SKU-1", 10, nil, nil)
	repo.ledger["SKU-1"] = 23

	svc := newTestService(repo, ServiceConfig{})

	result, err := svc.Remove(context.Background(), ReasonExpired, Input{ProductCode: "SKU-1", Quantity: 3})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	require.Equal(t, repo.lots[0].ID, result.Records[0].LotID)

	_, err = svc.Remove(context.Background(), ReasonExpired, Input{ProductCode: "SKU-1", Quantity: 1})
	require.ErrorIs(t, err, ErrInsufficientStock)
}

func TestRemoveExpiredLotExpiringTodayNotEligible(t *testing.T) {
	repo := newFakeRepo()
	repo.products["SKU-1"] = true
	repo.addLot("SKU-1", 5, date(2026, time.August, 15), nil)
	repo.ledger["SKU-1"] = 5

	svc := newTestService(repo, ServiceConfig{})

	_, err := svc.Remove(context.Background(), ReasonExpired, Input{ProductCode: "SKU-1", Quantity: 1})
	require.ErrorIs(t, err, ErrInsufficientStock)
}

func TestRemoveDefectiveUndatedLotsSortLast(t *testing.T) {
	repo := newFakeRepo()
	repo.products["SKU-1"] = true
	repo.addLot("SKU-1", 4, nil, date(2026, time.June, 1))
	repo.addLot("SKU-1", 4, date(2026, time.December, 1), date(2026, time.July, 1))
	repo.ledger["SKU-1"] = 8

	svc := newTestService(repo, ServiceConfig{})

	result, err := svc.Remove(context.Background(), ReasonDefective, Input{ProductCode: "SKU-1", Quantity: 6})
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	// The dated lot drains first even though the undated one arrived earlier.
	require.Equal(t, repo.lots[1].ID, result.Records[0].LotID)
	require.Equal(t, int64(4), result.Records[0].Quantity)
	require.Equal(t, repo.lots[0].ID, result.Records[1].LotID)
	require.Equal(t, int64(2), result.Records[1].Quantity)
}

func TestRemoveStrictShortfallMutatesNothing(t *testing.T) {
	repo := newFakeRepo()
	repo.products["SKU-1"] = true
	repo.addLot("SKU-1", 3, date(2026, time.July, 1), nil)
	repo.ledger["SKU-1"] = 3

	svc := newTestService(repo, ServiceConfig{})

	_, err := svc.Remove(context.Background(), ReasonExpired, Input{ProductCode: "SKU-1", Quantity: 5})
	require.ErrorIs(t, err, ErrInsufficientStock)

	require.Equal(t, int64(3), repo.lots[0].Remaining)
	require.Equal(t, int64(3), repo.ledger["SKU-1"])
	require.Empty(t, repo.records)
}

func TestRemoveShortfallModeDrainsAndDebitsFullAmount(t *testing.T) {
	repo := newFakeRepo()
	repo.products["SKU-1"] = true
	repo.addLot("SKU-1", 3, date(2026, time.July, 1), nil)
	repo.ledger["SKU-1"] = 10

	svc := newTestService(repo, ServiceConfig{AllowShortfall: true})

	result, err := svc.Remove(context.Background(), ReasonExpired, Input{ProductCode: "SKU-1", Quantity: 5})
	require.NoError(t, err)

	require.Equal(t, int64(5), result.RequestedQty)
	require.Equal(t, int64(3), result.AllocatedQty)
	require.Equal(t, int64(0), repo.lots[0].Remaining)
	// Legacy behaviour: the ledger drops by the full requested amount.
	require.Equal(t, int64(5), repo.ledger["SKU-1"])
	require.Equal(t, int64(5), result.TotalQuantity)
}

func TestRemoveRejectsNonPositiveQuantityBeforeAnyRead(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, ServiceConfig{})

	_, err := svc.Remove(context.Background(), ReasonExpired, Input{ProductCode: "SKU-1", Quantity: 0})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Remove(context.Background(), ReasonDefective, Input{ProductCode: "SKU-1", Quantity: -2})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	require.Zero(t, repo.productChecks)
}

func TestRemoveUnknownProduct(t *testing.T) {
	svc := newTestService(newFakeRepo(), ServiceConfig{})

	_, err := svc.Remove(context.Background(), ReasonDefective, Input{ProductCode: "SKU-404", Quantity: 1})
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestRemoveMissingLedgerRow(t *testing.T) {
	repo := newFakeRepo()
	repo.products["SKU-1"] = true
	repo.addLot("SKU-1", 5, date(2026, time.July, 1), nil)

	svc := newTestService(repo, ServiceConfig{})

	_, err := svc.Remove(context.Background(), ReasonExpired, Input{ProductCode: "SKU-1", Quantity: 1})
	require.ErrorIs(t, err, stock.ErrLedgerNotFound)
}

func TestRemoveInvalidReason(t *testing.T) {
	svc := newTestService(newFakeRepo(), ServiceConfig{})

	_, err := svc.Remove(context.Background(), Reason("LOST"), Input{ProductCode: "SKU-1", Quantity: 1})
	require.ErrorIs(t, err, ErrInvalidReason)
}

func TestListTrackedFiltersByReason(t *testing.T) {
	repo := newFakeRepo()
	repo.products["SKU-1"] = true
	repo.addLot("SKU-1", 5, date(2026, time.July, 1), nil)
	repo.addLot("SKU-1", 5, nil, nil)
	repo.ledger["SKU-1"] = 10

	svc := newTestService(repo, ServiceConfig{})

	_, err := svc.Remove(context.Background(), ReasonExpired, Input{ProductCode: "SKU-1", Quantity: 2})
	require.NoError(t, err)
	_, err = svc.Remove(context.Background(), ReasonDefective, Input{ProductCode: "SKU-1", Quantity: 1})
	require.NoError(t, err)

	expired, err := svc.ListTracked(context.Background(), ReasonExpired)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	require.Equal(t, ReasonExpired, expired[0].Reason)

	defective, err := svc.ListTracked(context.Background(), ReasonDefective)
	require.NoError(t, err)
	require.Len(t, defective, 1)
}
