package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	paymentsvc "github.com/pukpuklouis/blackliving-backend/internal/payment"
	"github.com/pukpuklouis/blackliving-backend/pkg/db/models"
	pkgerrors "github.com/pukpuklouis/blackliving-backend/pkg/errors"
	"github.com/pukpuklouis/blackliving-backend/pkg/gomypay"
)

type stubPaymentService struct {
	initiateOut *gomypay.Descriptor
	initiateErr error
	gotOrderNo  string

	callbackOut    *paymentsvc.CallbackResult
	callbackErr    error
	callbackValues url.Values
}

func (s *stubPaymentService) Initiate(ctx context.Context, orderNo string) (*gomypay.Descriptor, error) {
	s.gotOrderNo = orderNo
	return s.initiateOut, s.initiateErr
}

func (s *stubPaymentService) InitiateForOrder(ctx context.Context, order *models.Order) (*gomypay.Descriptor, error) {
	panic("unimplemented")
}

func (s *stubPaymentService) HandleCallback(ctx context.Context, values url.Values) (*paymentsvc.CallbackResult, error) {
	s.callbackValues = values
	return s.callbackOut, s.callbackErr
}

func TestInitiatePayment(t *testing.T) {
	svc := &stubPaymentService{initiateOut: &gomypay.Descriptor{}}
	handler := InitiatePayment(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/payment/initiate", strings.NewReader(`{"orderNumber":"BL202608290001"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotOrderNo != "BL202608290001" {
		t.Fatalf("unexpected order number: %q", svc.gotOrderNo)
	}
}

func TestInitiatePaymentRequiresOrderNumber(t *testing.T) {
	svc := &stubPaymentService{}
	handler := InitiatePayment(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/payment/initiate", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.gotOrderNo != "" {
		t.Fatal("service should not be called without an order number")
	}
}

func TestPaymentCallbackAcknowledges(t *testing.T) {
	svc := &stubPaymentService{callbackOut: &paymentsvc.CallbackResult{OrderNo: "BL202608290001", Paid: true}}
	handler := PaymentCallback(svc, nil)

	form := url.Values{}
	form.Set("result", "1")
	form.Set("e_orderno", "BL202608290001")
	req := httptest.NewRequest(http.MethodPost, "/api/payment/callback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Body.String() != "0000" {
		t.Fatalf("expected gateway acknowledgement body, got %q", resp.Body.String())
	}
	if svc.callbackValues.Get("e_orderno") != "BL202608290001" {
		t.Fatal("expected form values forwarded to the service")
	}
}

func TestPaymentCallbackRejectsBadChecksum(t *testing.T) {
	svc := &stubPaymentService{callbackErr: pkgerrors.New(pkgerrors.CodeValidation, "checksum mismatch")}
	handler := PaymentCallback(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/payment/callback", strings.NewReader("result=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if resp.Body.String() == "0000" {
		t.Fatal("must not acknowledge an unverified callback")
	}
}
