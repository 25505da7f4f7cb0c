package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pukpuklouis/blackliving-backend/pkg/db/models"
	"github.com/pukpuklouis/blackliving-backend/pkg/enums"
	pkgerrors "github.com/pukpuklouis/blackliving-backend/pkg/errors"
	"github.com/pukpuklouis/blackliving-backend/pkg/gomypay"
	"github.com/pukpuklouis/blackliving-backend/pkg/logger"
)

// taxRate is the surcharge applied on top of the order total when charging
// through the gateway.
var taxRate = decimal.NewFromFloat(1.05)

type gateway interface {
	Initiate(ctx context.Context, req gomypay.Request) (*gomypay.Descriptor, error)
	VerifyCallback(values url.Values) (*gomypay.Callback, error)
}

type orderStore interface {
	FindByOrderNo(ctx context.Context, orderNo string) (*models.Order, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// CallbackResult is what the gateway notification resolved to.
type CallbackResult struct {
	OrderNo string `json:"orderNumber"`
	Paid    bool   `json:"paid"`
}

// Service drives gateway payment initiation and callback settlement.
type Service interface {
	Initiate(ctx context.Context, orderNo string) (*gomypay.Descriptor, error)
	InitiateForOrder(ctx context.Context, order *models.Order) (*gomypay.Descriptor, error)
	HandleCallback(ctx context.Context, values url.Values) (*CallbackResult, error)
}

type service struct {
	repo   Repository
	orders orderStore
	gw     gateway
	logg   *logger.Logger
}

// NewService builds the payment service with the required dependencies.
func NewService(repo Repository, orders orderStore, gw gateway, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payment repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order store required")
	}
	if gw == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if logg == nil {
		return nil, fmt.Errorf("payment logger required")
	}
	return &service{repo: repo, orders: orders, gw: gw, logg: logg}, nil
}

// grossAmountCents applies the tax multiplier to the order total, rounding to
// the nearest cent.
func grossAmountCents(totalCents int) int {
	return int(decimal.NewFromInt(int64(totalCents)).Mul(taxRate).Round(0).IntPart())
}

// gatewayAmount converts a cent amount to the whole-dollar figure the gateway
// expects, rounding to the nearest dollar.
func gatewayAmount(amountCents int) int64 {
	return decimal.NewFromInt(int64(amountCents)).Div(decimal.NewFromInt(100)).Round(0).IntPart()
}

func sendTypeFor(method enums.PaymentMethod) (string, error) {
	switch method {
	case enums.PaymentMethodCreditCard:
		return gomypay.SendTypeCreditCard, nil
	case enums.PaymentMethodVirtualAccount:
		return gomypay.SendTypeVirtualAccount, nil
	case enums.PaymentMethodApplePay:
		return gomypay.SendTypeApplePay, nil
	case enums.PaymentMethodGooglePay:
		return gomypay.SendTypeGooglePay, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("payment method %s does not use the gateway", method))
	}
}

// Initiate looks up the order and starts (or restarts) the gateway flow for
// it. Orders that already settled are rejected.
func (s *service) Initiate(ctx context.Context, orderNo string) (*gomypay.Descriptor, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}

	order, err := s.orders.FindByOrderNo(ctx, orderNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if order.PaymentStatus == enums.PaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already paid")
	}

	return s.InitiateForOrder(ctx, order)
}

// InitiateForOrder records a transaction attempt and asks the gateway for a
// payment descriptor. On success the order moves to payment_status pending;
// on failure the transaction is marked failed and the error is returned for
// the caller to decide what the order should rest at.
func (s *service) InitiateForOrder(ctx context.Context, order *models.Order) (*gomypay.Descriptor, error) {
	sendType, err := sendTypeFor(order.PaymentMethod)
	if err != nil {
		return nil, err
	}

	gross := grossAmountCents(order.TotalCents)
	txn := &models.PaymentTransaction{
		OrderID:     order.ID,
		OrderNo:     order.OrderNo,
		AmountCents: gross,
		Method:      order.PaymentMethod,
		Status:      enums.PaymentStatusPending,
	}
	if _, err := s.repo.Create(ctx, txn); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment transaction")
	}

	ctx = s.logg.WithOrderNo(ctx, order.OrderNo)

	descriptor, err := s.gw.Initiate(ctx, gomypay.Request{
		OrderNo:    order.OrderNo,
		Amount:     gatewayAmount(gross),
		SendType:   sendType,
		BuyerName:  order.CustomerName,
		BuyerPhone: order.CustomerPhone,
		BuyerEmail: order.CustomerEmail,
	})
	if err != nil {
		msg := err.Error()
		if updateErr := s.repo.Update(ctx, txn.ID, map[string]any{
			"status":         enums.PaymentStatusFailed,
			"result_message": &msg,
		}); updateErr != nil {
			s.logg.Error(ctx, "marking payment transaction failed", updateErr)
		}
		return nil, err
	}

	if err := s.orders.Update(ctx, order.ID, map[string]any{
		"payment_status": enums.PaymentStatusPending,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order payment status")
	}

	s.logg.Info(ctx, "payment initiated")
	return descriptor, nil
}

// HandleCallback verifies the gateway notification checksum and settles the
// order and its latest transaction. An unverifiable checksum is rejected
// without touching any state.
func (s *service) HandleCallback(ctx context.Context, values url.Values) (*CallbackResult, error) {
	callback, err := s.gw.VerifyCallback(values)
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithOrderNo(ctx, callback.OrderNo)

	order, err := s.orders.FindByOrderNo(ctx, callback.OrderNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	status := enums.PaymentStatusFailed
	if callback.Succeeded() {
		status = enums.PaymentStatusPaid
	}

	if err := s.orders.Update(ctx, order.ID, map[string]any{
		"payment_status": status,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle order payment status")
	}

	if txn, findErr := s.repo.FindLatestByOrderNo(ctx, callback.OrderNo); findErr == nil {
		updates := map[string]any{
			"status":      status,
			"result_code": &callback.Result,
		}
		if callback.TradeNo != "" {
			tradeNo := callback.TradeNo
			updates["gateway_trade_no"] = &tradeNo
		}
		if callback.RetMsg != "" {
			retMsg := callback.RetMsg
			updates["result_message"] = &retMsg
		}
		if err := s.repo.Update(ctx, txn.ID, updates); err != nil {
			s.logg.Error(ctx, "updating payment transaction from callback", err)
		}
	} else if !errors.Is(findErr, gorm.ErrRecordNotFound) {
		s.logg.Error(ctx, "loading payment transaction for callback", findErr)
	}

	if callback.Succeeded() {
		s.logg.Info(ctx, "payment settled")
	} else {
		s.logg.Warn(ctx, fmt.Sprintf("payment failed at gateway: %s", callback.RetMsg))
	}

	return &CallbackResult{OrderNo: callback.OrderNo, Paid: callback.Succeeded()}, nil
}
