package orders

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pukpuklouis/blackliving-backend/internal/pricing"
	"github.com/pukpuklouis/blackliving-backend/pkg/db/models"
	"github.com/pukpuklouis/blackliving-backend/pkg/enums"
	pkgerrors "github.com/pukpuklouis/blackliving-backend/pkg/errors"
	"github.com/pukpuklouis/blackliving-backend/pkg/gomypay"
	"github.com/pukpuklouis/blackliving-backend/pkg/logger"
	"github.com/pukpuklouis/blackliving-backend/pkg/pagination"
	"github.com/pukpuklouis/blackliving-backend/pkg/types"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// catalogResolver supplies authoritative name, price, and availability.
type catalogResolver interface {
	ResolveItem(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (name string, priceCents int, inStock bool, err error)
}

// logisticsProvider supplies the current logistic_settings.
type logisticsProvider interface {
	Logistics(ctx context.Context) (types.LogisticsConfig, error)
}

// paymentInitiator starts the gateway flow for a freshly created order.
type paymentInitiator interface {
	InitiateForOrder(ctx context.Context, order *models.Order) (*gomypay.Descriptor, error)
}

// cartCleaner drops the session cart's line items after a successful submit.
type cartCleaner interface {
	ClearItems(ctx context.Context, token string) error
}

// Service owns order submission and lookups.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error)
	GetByOrderNo(ctx context.Context, orderNo string) (*OrderView, error)
	AdminList(ctx context.Context, params pagination.Params, status string) ([]OrderView, string, error)
	UpdateStatus(ctx context.Context, orderNo string, target enums.OrderStatus) (*OrderView, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	catalog   catalogResolver
	logistics logisticsProvider
	payments  paymentInitiator
	carts     cartCleaner
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the order service with the required dependencies.
func NewService(repo Repository, tx txRunner, catalog catalogResolver, logistics logisticsProvider, payments paymentInitiator, carts cartCleaner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog resolver required")
	}
	if logistics == nil {
		return nil, fmt.Errorf("logistics provider required")
	}
	if payments == nil {
		return nil, fmt.Errorf("payment initiator required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart cleaner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("orders logger required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		catalog:   catalog,
		logistics: logistics,
		payments:  payments,
		carts:     carts,
		logg:      logg,
		now:       time.Now,
	}, nil
}

// Submit validates, prices, and persists an order, then chains into payment
// initiation for gateway methods. All validation happens before any side
// effect; a gateway failure after the order is committed leaves the order in
// payment_status initiation_failed instead of rolling it back.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	method, err := validateSubmitInput(input)
	if err != nil {
		return nil, err
	}

	items, err := s.resolveLineItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	subtotal := 0
	for _, item := range items {
		subtotal += item.LineTotalCents
	}

	cfg, err := s.logistics.Logistics(ctx)
	if err != nil {
		return nil, err
	}
	shippingFee := pricing.Calculate(subtotal, cfg, input.ShippingAddress)
	total := subtotal + shippingFee

	if input.SubtotalCents != subtotal || input.ShippingFeeCents != shippingFee || input.TotalCents != total {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order totals do not match current pricing").
			WithDetails(map[string]int{
				"subtotal":    subtotal,
				"shippingFee": shippingFee,
				"total":       total,
			})
	}

	order := &models.Order{
		OrderNo:          s.generateOrderNo(),
		CustomerName:     strings.TrimSpace(input.Customer.Name),
		CustomerEmail:    strings.TrimSpace(input.Customer.Email),
		CustomerPhone:    strings.TrimSpace(input.Customer.Phone),
		ShippingAddress:  input.ShippingAddress,
		Currency:         enums.CurrencyTWD,
		SubtotalCents:    subtotal,
		ShippingFeeCents: shippingFee,
		TotalCents:       total,
		PaymentMethod:    method,
		PaymentStatus:    enums.PaymentStatusUnpaid,
		Status:           enums.OrderStatusPending,
		Notes:            input.Notes,
		Items:            items,
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	ctx = s.logg.WithOrderNo(ctx, order.OrderNo)
	s.logg.Info(ctx, "order created")

	if input.CartToken != "" {
		if err := s.carts.ClearItems(ctx, input.CartToken); err != nil {
			// The order exists; a stale cart is a nuisance, not a failure.
			s.logg.Warn(ctx, fmt.Sprintf("clearing cart after submit failed: %v", err))
		}
	}

	result := &SubmitResult{
		OrderNo:       order.OrderNo,
		PaymentStatus: enums.PaymentStatusUnpaid,
	}
	if !method.RequiresGateway() {
		return result, nil
	}

	descriptor, err := s.payments.InitiateForOrder(ctx, order)
	if err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("payment initiation failed: %v", err))
		if updateErr := s.repo.Update(ctx, order.ID, map[string]any{
			"payment_status": enums.PaymentStatusInitiationFailed,
		}); updateErr != nil {
			s.logg.Error(ctx, "marking order initiation_failed", updateErr)
		}
		result.PaymentStatus = enums.PaymentStatusInitiationFailed
		return result, nil
	}

	result.PaymentStatus = enums.PaymentStatusPending
	result.Payment = descriptor
	return result, nil
}

func validateSubmitInput(input SubmitInput) (enums.PaymentMethod, error) {
	if len(input.Items) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if strings.TrimSpace(input.Customer.Name) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	if !emailRe.MatchString(strings.TrimSpace(input.Customer.Email)) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "customer email is invalid")
	}
	if digitCount(input.Customer.Phone) < 10 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "customer phone must have at least 10 digits")
	}
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "line item product id required")
		}
		if item.Quantity < 1 {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "line item quantity must be at least 1")
		}
	}
	method, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	return method, nil
}

func (s *service) resolveLineItems(ctx context.Context, submitted []SubmittedItem) ([]models.OrderLineItem, error) {
	items := make([]models.OrderLineItem, 0, len(submitted))
	var outOfStock []string

	for _, entry := range submitted {
		name, priceCents, inStock, err := s.catalog.ResolveItem(ctx, entry.ProductID, entry.VariantID)
		if err != nil {
			return nil, err
		}
		if !inStock {
			outOfStock = append(outOfStock, name)
			continue
		}
		items = append(items, models.OrderLineItem{
			ProductID:      entry.ProductID,
			VariantID:      entry.VariantID,
			Name:           name,
			UnitPriceCents: priceCents,
			Quantity:       entry.Quantity,
			LineTotalCents: priceCents * entry.Quantity,
		})
	}

	if len(outOfStock) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "some items are out of stock").
			WithDetails(map[string][]string{"outOfStock": outOfStock})
	}
	return items, nil
}

func digitCount(value string) int {
	count := 0
	for _, r := range value {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count
}

// generateOrderNo produces BLyyyymmddHHMMSS plus four random digits.
func (s *service) generateOrderNo() string {
	suffix := int64(0)
	if n, err := rand.Int(rand.Reader, big.NewInt(10000)); err == nil {
		suffix = n.Int64()
	}
	return fmt.Sprintf("BL%s%04d", s.now().UTC().Format("20060102150405"), suffix)
}

func (s *service) GetByOrderNo(ctx context.Context, orderNo string) (*OrderView, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}

	order, err := s.repo.FindByOrderNo(ctx, orderNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	view := toOrderView(*order)
	return &view, nil
}

func (s *service) AdminList(ctx context.Context, params pagination.Params, status string) ([]OrderView, string, error) {
	var statusFilter *enums.OrderStatus
	if status != "" {
		parsed, err := enums.ParseOrderStatus(status)
		if err != nil {
			return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
		}
		statusFilter = &parsed
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListPaged(ctx, cursor, pagination.LimitWithBuffer(params.Limit), statusFilter)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	next := ""
	if len(rows) > limit {
		last := rows[limit-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}

	views := make([]OrderView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toOrderView(row))
	}
	return views, next, nil
}

// allowedTransitions is the admin fulfillment state machine. Completed and
// cancelled orders are terminal.
var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:   {enums.OrderStatusConfirmed, enums.OrderStatusCancelled},
	enums.OrderStatusConfirmed: {enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusShipped:   {enums.OrderStatusCompleted},
}

func canTransition(from, to enums.OrderStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *service) UpdateStatus(ctx context.Context, orderNo string, target enums.OrderStatus) (*OrderView, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.repo.FindByOrderNo(ctx, strings.TrimSpace(orderNo))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if order.Status == target {
		view := toOrderView(*order)
		return &view, nil
	}
	if !canTransition(order.Status, target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, target))
	}

	if err := s.repo.Update(ctx, order.ID, map[string]any{"status": target}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	order.Status = target
	view := toOrderView(*order)
	return &view, nil
}
