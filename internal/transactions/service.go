package transactions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storetrack/storetrack/internal/shared"
)

// CacheInvalidator bumps the reports cache version after a mutation.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}

// Auditor records audit trail entries.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

type Service struct {
	logger  *slog.Logger
	repo    Repository
	cache   CacheInvalidator
	auditor Auditor
}

func NewService(logger *slog.Logger, repo Repository, cache CacheInvalidator, auditor Auditor) *Service {
	return &Service{logger: logger, repo: repo, cache: cache, auditor: auditor}
}

// CreateInbound records a supplier delivery. Each line becomes a lot with
// remaining quantity equal to its quantity, and the ledger is incremented in
// the same database transaction.
func (s *Service) CreateInbound(ctx context.Context, req CreateInboundRequest) (InboundTransaction, error) {
	if len(req.Lines) == 0 {
		return InboundTransaction{}, ErrNoLines
	}
	if err := validate.Struct(req); err != nil {
		return InboundTransaction{}, fmt.Errorf("%w: %s", shared.ErrInvalidArgument, err)
	}

	inwardDate, err := parseDate(req.InwardStockDate)
	if err != nil {
		return InboundTransaction{}, fmt.Errorf("%w: invalid inward_stock_date", shared.ErrInvalidArgument)
	}
	deliveryDate, err := parseOptionalDate(req.DeliveryDate)
	if err != nil {
		return InboundTransaction{}, fmt.Errorf("%w: invalid delivery_date", shared.ErrInvalidArgument)
	}

	txn := InboundTransaction{
		InvoiceNumber:   strings.TrimSpace(req.InvoiceNumber),
		SupplierID:      req.SupplierID,
		InwardStockDate: inwardDate,
		DeliveryDate:    deliveryDate,
		Remarks:         req.Remarks,
	}
	if txn.InvoiceNumber == "" {
		txn.InvoiceNumber = generateInvoiceNumber("IN")
	}

	for _, lineReq := range req.Lines {
		mfgDate, err := parseOptionalDate(lineReq.ManufacturingDate)
		if err != nil {
			return InboundTransaction{}, fmt.Errorf("%w: invalid manufacturing_date", shared.ErrInvalidArgument)
		}
		expiryDate, err := parseOptionalDate(lineReq.ExpiryDate)
		if err != nil {
			return InboundTransaction{}, fmt.Errorf("%w: invalid expiry_date", shared.ErrInvalidArgument)
		}
		lineDelivery, err := parseOptionalDate(lineReq.DeliveryDate)
		if err != nil {
			return InboundTransaction{}, fmt.Errorf("%w: invalid line delivery_date", shared.ErrInvalidArgument)
		}

		txn.Lines = append(txn.Lines, InboundLine{
			ProductCode:       strings.TrimSpace(lineReq.ProductCode),
			Quantity:          lineReq.Quantity,
			RemainingQuantity: lineReq.Quantity,
			UnitPrice:         lineReq.UnitPrice,
			Total:             lineReq.UnitPrice.Mul(decimal.NewFromInt(lineReq.Quantity)),
			ManufacturingDate: mfgDate,
			ExpiryDate:        expiryDate,
			DeliveryDate:      lineDelivery,
		})
	}

	created, err := s.repo.CreateInbound(ctx, txn)
	if err != nil {
		return InboundTransaction{}, err
	}

	s.audit(ctx, "inbound.create", created.InvoiceNumber, map[string]any{"lines": len(created.Lines)})
	s.bumpCache(ctx)
	return created, nil
}

// DeleteInbound removes a transaction, crediting the ledger back only by what
// each lot still holds.
func (s *Service) DeleteInbound(ctx context.Context, invoiceNumber string) error {
	if strings.TrimSpace(invoiceNumber) == "" {
		return fmt.Errorf("%w: invoice number required", shared.ErrInvalidArgument)
	}
	if err := s.repo.DeleteInbound(ctx, invoiceNumber); err != nil {
		return err
	}
	s.audit(ctx, "inbound.delete", invoiceNumber, nil)
	s.bumpCache(ctx)
	return nil
}

// MarkDelivered flags the transaction as delivered. Calling it again on an
// already delivered transaction is a no-op.
func (s *Service) MarkDelivered(ctx context.Context, invoiceNumber string) error {
	if strings.TrimSpace(invoiceNumber) == "" {
		return fmt.Errorf("%w: invoice number required", shared.ErrInvalidArgument)
	}
	if err := s.repo.MarkDelivered(ctx, invoiceNumber); err != nil {
		return err
	}
	s.audit(ctx, "inbound.deliver", invoiceNumber, nil)
	s.bumpCache(ctx)
	return nil
}

// GetPendingByInvoice looks up an undelivered transaction by its invoice
// number. Delivered transactions report not found.
func (s *Service) GetPendingByInvoice(ctx context.Context, invoiceNumber string) (InboundTransaction, error) {
	if strings.TrimSpace(invoiceNumber) == "" {
		return InboundTransaction{}, fmt.Errorf("%w: invoice number required", shared.ErrInvalidArgument)
	}
	return s.repo.GetInboundByInvoice(ctx, invoiceNumber, true)
}

// ListPendingInvoices returns invoice numbers awaiting delivery.
func (s *Service) ListPendingInvoices(ctx context.Context) ([]string, error) {
	return s.repo.ListPendingInvoices(ctx)
}

func (s *Service) ListInbound(ctx context.Context) ([]InboundTransaction, error) {
	return s.repo.ListInbound(ctx)
}

// CreateOutbound records a branch transfer. The stock ledger is not touched
// here.
func (s *Service) CreateOutbound(ctx context.Context, req CreateOutboundRequest) (OutboundTransaction, error) {
	if len(req.Lines) == 0 {
		return OutboundTransaction{}, ErrNoLines
	}
	if err := validate.Struct(req); err != nil {
		return OutboundTransaction{}, fmt.Errorf("%w: %s", shared.ErrInvalidArgument, err)
	}

	outwardDate, err := parseDate(req.OutwardDate)
	if err != nil {
		return OutboundTransaction{}, fmt.Errorf("%w: invalid outward_date", shared.ErrInvalidArgument)
	}

	txn := OutboundTransaction{
		InvoiceNumber: strings.TrimSpace(req.InvoiceNumber),
		BranchCode:    strings.TrimSpace(req.BranchCode),
		OutwardDate:   outwardDate,
		Remarks:       req.Remarks,
	}
	if txn.InvoiceNumber == "" {
		txn.InvoiceNumber = generateInvoiceNumber("OUT")
	}

	for _, lineReq := range req.Lines {
		txn.Lines = append(txn.Lines, OutboundLine{
			ProductCode:  strings.TrimSpace(lineReq.ProductCode),
			QtyRequested: lineReq.QtyRequested,
			UnitPrice:    lineReq.UnitPrice,
			Total:        lineReq.UnitPrice.Mul(decimal.NewFromInt(lineReq.QtyRequested)),
		})
	}

	created, err := s.repo.CreateOutbound(ctx, txn)
	if err != nil {
		return OutboundTransaction{}, err
	}

	s.audit(ctx, "outbound.create", created.InvoiceNumber, map[string]any{"lines": len(created.Lines)})
	s.bumpCache(ctx)
	return created, nil
}

func (s *Service) ListOutbound(ctx context.Context) ([]OutboundTransaction, error) {
	return s.repo.ListOutbound(ctx)
}

func (s *Service) audit(ctx context.Context, action, entityID string, meta map[string]any) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Record(ctx, shared.AuditLog{
		Action:   action,
		Entity:   "transaction",
		EntityID: entityID,
		Meta:     meta,
		At:       time.Now(),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("audit record failed", "action", action, "error", err)
	}
}

func (s *Service) bumpCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil && s.logger != nil {
		s.logger.Warn("report cache bump failed", "error", err)
	}
}

func generateInvoiceNumber(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(id[:10])
}
