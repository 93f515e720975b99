package transactions

import (
	"context"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	inbound  map[string]*InboundTransaction
	outbound []OutboundTransaction
	ledger   map[string]int64
	nextID   int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		inbound: map[string]*InboundTransaction{},
		ledger:  map[string]int64{},
	}
}

func (f *fakeRepo) CreateInbound(_ context.Context, txn InboundTransaction) (InboundTransaction, error) {
	if _, ok := f.inbound[txn.InvoiceNumber]; ok {
		return InboundTransaction{}, ErrDuplicateInvoice
	}
	f.nextID++
	txn.ID = f.nextID
	for i := range txn.Lines {
		f.nextID++
		txn.Lines[i].ID = f.nextID
		txn.Lines[i].TransactionID = txn.ID
		f.ledger[txn.Lines[i].ProductCode] += txn.Lines[i].Quantity
	}
	stored := txn
	f.inbound[txn.InvoiceNumber] = &stored
	return txn, nil
}

func (f *fakeRepo) DeleteInbound(_ context.Context, invoice string) error {
	txn, ok := f.inbound[invoice]
	if !ok {
		return ErrNotFound
	}
	for _, line := range txn.Lines {
		f.ledger[line.ProductCode] -= line.RemainingQuantity
	}
	delete(f.inbound, invoice)
	return nil
}

func (f *fakeRepo) MarkDelivered(_ context.Context, invoice string) error {
	txn, ok := f.inbound[invoice]
	if !ok {
		return ErrNotFound
	}
	txn.IsDelivered = true
	return nil
}

func (f *fakeRepo) GetInboundByInvoice(_ context.Context, invoice string, undeliveredOnly bool) (InboundTransaction, error) {
	txn, ok := f.inbound[invoice]
	if !ok || (undeliveredOnly && txn.IsDelivered) {
		return InboundTransaction{}, ErrNotFound
	}
	return *txn, nil
}

func (f *fakeRepo) ListPendingInvoices(_ context.Context) ([]string, error) {
	var invoices []string
	for invoice, txn := range f.inbound {
		if !txn.IsDelivered {
			invoices = append(invoices, invoice)
		}
	}
	return invoices, nil
}

func (f *fakeRepo) ListInbound(_ context.Context) ([]InboundTransaction, error) {
	var list []InboundTransaction
	for _, txn := range f.inbound {
		list = append(list, *txn)
	}
	return list, nil
}

func (f *fakeRepo) CreateOutbound(_ context.Context, txn OutboundTransaction) (OutboundTransaction, error) {
	f.nextID++
	txn.ID = f.nextID
	f.outbound = append(f.outbound, txn)
	return txn, nil
}

func (f *fakeRepo) ListOutbound(_ context.Context) ([]OutboundTransaction, error) {
	return f.outbound, nil
}

func newTestService(repo Repository) *Service {
	return NewService(slog.Default(), repo, nil, nil)
}

func inboundRequest(invoice string, lines ...CreateInboundLineRequest) CreateInboundRequest {
	return CreateInboundRequest{
		InvoiceNumber:   invoice,
		SupplierID:      1,
		InwardStockDate: "2026-08-01",
		Lines:           lines,
	}
}

func TestCreateInboundIncrementsLedger(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	created, err := svc.CreateInbound(context.Background(), inboundRequest("INV-1",
		CreateInboundLineRequest{ProductCode: "SKU-1", Quantity: 10, UnitPrice: decimal.NewFromInt(3), ExpiryDate: "2026-12-01"},
		CreateInboundLineRequest{ProductCode: "SKU-2", Quantity: 4, UnitPrice: decimal.NewFromInt(5)},
	))
	require.NoError(t, err)
	require.Len(t, created.Lines, 2)
	require.Equal(t, int64(10), repo.ledger["SKU-1"])
	require.Equal(t, int64(4), repo.ledger["SKU-2"])

	line := created.Lines[0]
	require.Equal(t, line.Quantity, line.RemainingQuantity)
	require.True(t, line.Total.Equal(decimal.NewFromInt(30)))
	require.NotNil(t, line.ExpiryDate)
}

func TestCreateInboundGeneratesInvoiceNumber(t *testing.T) {
	svc := newTestService(newFakeRepo())

	created, err := svc.CreateInbound(context.Background(), inboundRequest("",
		CreateInboundLineRequest{ProductCode: "SKU-1", Quantity: 1},
	))
	require.NoError(t, err)
	require.NotEmpty(t, created.InvoiceNumber)
}

func TestCreateInboundDuplicateInvoice(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.CreateInbound(context.Background(), inboundRequest("INV-1",
		CreateInboundLineRequest{ProductCode: "SKU-1", Quantity: 1},
	))
	require.NoError(t, err)

	_, err = svc.CreateInbound(context.Background(), inboundRequest("INV-1",
		CreateInboundLineRequest{ProductCode: "SKU-1", Quantity: 1},
	))
	require.ErrorIs(t, err, ErrDuplicateInvoice)
}

func TestCreateInboundRejectsInvalidInput(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.CreateInbound(context.Background(), CreateInboundRequest{
		InvoiceNumber: "INV-1", SupplierID: 1, InwardStockDate: "2026-08-01",
	})
	require.ErrorIs(t, err, ErrNoLines)

	_, err = svc.CreateOutbound(context.Background(), CreateOutboundRequest{
		InvoiceNumber: "OUT-1", BranchCode: "BR-01", OutwardDate: "2026-08-01",
	})
	require.ErrorIs(t, err, ErrNoLines)

	_, err = svc.CreateInbound(context.Background(), CreateInboundRequest{
		InvoiceNumber: "INV-2", SupplierID: 1, InwardStockDate: "not-a-date",
		Lines: []CreateInboundLineRequest{{ProductCode: "SKU-1", Quantity: 1}},
	})
	require.Error(t, err)

	_, err = svc.CreateInbound(context.Background(), inboundRequest("INV-3",
		CreateInboundLineRequest{ProductCode: "SKU-1", Quantity: 0},
	))
	require.Error(t, err)
}

func TestDeleteInboundReversesByRemainingQuantity(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.CreateInbound(context.Background(), inboundRequest("INV-1",
		CreateInboundLineRequest{ProductCode: "SKU-1", Quantity: 10},
	))
	require.NoError(t, err)
	require.Equal(t, int64(10), repo.ledger["SKU-1"])

	// Simulate a partial depletion: 6 units consumed, 4 remain on the lot.
	repo.inbound["INV-1"].Lines[0].RemainingQuantity = 4
	repo.ledger["SKU-1"] = 4

	require.NoError(t, svc.DeleteInbound(context.Background(), "INV-1"))
	require.Equal(t, int64(0), repo.ledger["SKU-1"])
}

func TestMarkDeliveredIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.CreateInbound(context.Background(), inboundRequest("INV-1",
		CreateInboundLineRequest{ProductCode: "SKU-1", Quantity: 1},
	))
	require.NoError(t, err)

	require.NoError(t, svc.MarkDelivered(context.Background(), "INV-1"))
	require.NoError(t, svc.MarkDelivered(context.Background(), "INV-1"))
	require.True(t, repo.inbound["INV-1"].IsDelivered)
}

func TestGetPendingByInvoiceExcludesDelivered(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.CreateInbound(context.Background(), inboundRequest("INV-1",
		CreateInboundLineRequest{ProductCode: "SKU-1", Quantity: 1},
	))
	require.NoError(t, err)

	_, err = svc.GetPendingByInvoice(context.Background(), "INV-1")
	require.NoError(t, err)

	require.NoError(t, svc.MarkDelivered(context.Background(), "INV-1"))

	_, err = svc.GetPendingByInvoice(context.Background(), "INV-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateOutboundLeavesLedgerUntouched(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.CreateInbound(context.Background(), inboundRequest("INV-1",
		CreateInboundLineRequest{ProductCode: "SKU-1", Quantity: 10},
	))
	require.NoError(t, err)

	created, err := svc.CreateOutbound(context.Background(), CreateOutboundRequest{
		InvoiceNumber: "OUT-1",
		BranchCode:    "BR-01",
		OutwardDate:   "2026-08-02",
		Lines: []CreateOutboundLineRequest{
			{ProductCode: "SKU-1", QtyRequested: 6, UnitPrice: decimal.NewFromInt(2)},
		},
	})
	require.NoError(t, err)
	require.True(t, created.Lines[0].Total.Equal(decimal.NewFromInt(12)))

	require.Equal(t, int64(10), repo.ledger["SKU-1"])
}
