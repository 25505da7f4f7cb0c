package gomypay

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pukpuklouis/blackliving-backend/pkg/config"
	pkgerrors "github.com/pukpuklouis/blackliving-backend/pkg/errors"
	"github.com/pukpuklouis/blackliving-backend/pkg/logger"
)

// Send_Type values understood by the gateway.
const (
	SendTypeCreditCard     = "0"
	SendTypeVirtualAccount = "4"
	SendTypeApplePay       = "7"
	SendTypeGooglePay      = "8"
)

// Descriptor types returned to the storefront.
const (
	DescriptorForm     = "form"
	DescriptorRedirect = "redirect"
)

var (
	errCustomerIDRequired = errors.New("gomypay customer id is required")
	errStrCheckRequired   = errors.New("gomypay str_check code is required")
	errLoggerRequired     = errors.New("gomypay logger is required")
)

// Client talks to the GOMYPAY shunt endpoint with form-encoded POSTs.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	customerID  string
	strCheck    string
	returnURL   string
	callbackURL string
	logger      *logger.Logger
}

// Request carries everything needed to start a payment at the gateway.
type Request struct {
	OrderNo    string
	Amount     int64 // whole New Taiwan dollars
	SendType   string
	BuyerName  string
	BuyerPhone string
	BuyerEmail string
	BuyerMemo  string
}

// VirtualAccountInfo is returned for ATM transfers so the buyer knows where to pay.
type VirtualAccountInfo struct {
	BankCode   string `json:"bankCode"`
	Account    string `json:"account"`
	ExpireDate string `json:"expireDate,omitempty"`
}

// Descriptor tells the storefront how to continue the payment flow.
type Descriptor struct {
	Type           string              `json:"type"`
	SubmitURL      string              `json:"submitUrl,omitempty"`
	FormData       map[string]string   `json:"formData,omitempty"`
	RedirectURL    string              `json:"redirectUrl,omitempty"`
	VirtualAccount *VirtualAccountInfo `json:"virtualAccount,omitempty"`
}

// Callback holds the fields the gateway posts back after a payment attempt.
type Callback struct {
	Result     string
	OrderNo    string
	TradeNo    string
	RetMsg     string
	AvCode     string
	StrCheck   string
}

// Succeeded reports whether the gateway marked the attempt as paid.
func (c Callback) Succeeded() bool {
	return c.Result == "1"
}

// NewClient validates the merchant credentials and builds the gateway client.
func NewClient(cfg config.GomypayConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	customerID := strings.TrimSpace(cfg.CustomerID)
	if customerID == "" {
		return nil, errCustomerIDRequired
	}
	strCheck := strings.TrimSpace(cfg.StrCheck)
	if strCheck == "" {
		return nil, errStrCheckRequired
	}

	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     strings.TrimSpace(cfg.BaseURL),
		customerID:  customerID,
		strCheck:    strCheck,
		returnURL:   strings.TrimSpace(cfg.ReturnURL),
		callbackURL: strings.TrimSpace(cfg.CallbackURL),
		logger:      logg,
	}, nil
}

// Initiate starts a payment at the gateway. Card and wallet types never leave
// the server; the buyer's browser must post the form itself, so those return a
// form descriptor. Virtual accounts are created server to server and the
// assigned account is returned for display.
func (c *Client) Initiate(ctx context.Context, req Request) (*Descriptor, error) {
	values, err := c.buildValues(req)
	if err != nil {
		return nil, err
	}

	if req.SendType == SendTypeVirtualAccount {
		return c.createVirtualAccount(ctx, req, values)
	}

	form := make(map[string]string, len(values))
	for key := range values {
		form[key] = values.Get(key)
	}
	return &Descriptor{
		Type:      DescriptorForm,
		SubmitURL: c.baseURL,
		FormData:  form,
	}, nil
}

func (c *Client) buildValues(req Request) (url.Values, error) {
	if strings.TrimSpace(req.OrderNo) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	if req.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	switch req.SendType {
	case SendTypeCreditCard, SendTypeVirtualAccount, SendTypeApplePay, SendTypeGooglePay:
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported send type %q", req.SendType))
	}

	values := url.Values{}
	values.Set("Send_Type", req.SendType)
	values.Set("Pay_Mode_No", "2")
	values.Set("CustomerId", c.customerID)
	values.Set("Order_No", req.OrderNo)
	values.Set("Amount", strconv.FormatInt(req.Amount, 10))
	values.Set("TransCode", "00")
	values.Set("Buyer_Name", req.BuyerName)
	values.Set("Buyer_Telm", req.BuyerPhone)
	values.Set("Buyer_Mail", req.BuyerEmail)
	values.Set("Buyer_Memo", req.BuyerMemo)
	values.Set("Return_url", c.returnURL)
	values.Set("Callback_Url", c.callbackURL)
	values.Set("e_return", "1")
	values.Set("Str_Check", "1")
	return values, nil
}

type gatewayResponse struct {
	Result     string `json:"result"`
	RetMsg     string `json:"ret_msg"`
	OrderNo    string `json:"e_orderno"`
	TradeNo    string `json:"OrderID"`
	BankCode   string `json:"BankCode"`
	PayAccount string `json:"PayAccount"`
	ExpireDate string `json:"ExpireDate"`
}

func (c *Client) createVirtualAccount(ctx context.Context, req Request, values url.Values) (*Descriptor, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building gateway request")
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeGateway, err, "calling payment gateway")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeGateway, err, "reading gateway response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeGateway, fmt.Sprintf("gateway returned status %d", resp.StatusCode))
	}

	var parsed gatewayResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeGateway, err, "decoding gateway response")
	}
	if parsed.Result != "1" {
		msg := parsed.RetMsg
		if msg == "" {
			msg = "virtual account creation rejected"
		}
		return nil, pkgerrors.New(pkgerrors.CodeGateway, msg)
	}

	c.logger.Info(c.logger.WithOrderNo(ctx, req.OrderNo), "virtual account assigned")

	return &Descriptor{
		Type:        DescriptorRedirect,
		RedirectURL: c.returnURL,
		VirtualAccount: &VirtualAccountInfo{
			BankCode:   parsed.BankCode,
			Account:    parsed.PayAccount,
			ExpireDate: parsed.ExpireDate,
		},
	}, nil
}

// VerifyCallback parses a gateway form post using the client's merchant code.
func (c *Client) VerifyCallback(values url.Values) (*Callback, error) {
	return ParseCallback(values, c.strCheck)
}

// ParseCallback reads the gateway's form post and verifies its checksum.
func ParseCallback(values url.Values, strCheck string) (*Callback, error) {
	cb := &Callback{
		Result:   values.Get("result"),
		OrderNo:  values.Get("e_orderno"),
		TradeNo:  values.Get("OrderID"),
		RetMsg:   values.Get("ret_msg"),
		AvCode:   values.Get("avcode"),
		StrCheck: values.Get("str_check"),
	}
	if cb.OrderNo == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "callback is missing the order number")
	}
	expected := ChecksumFor(cb.Result, cb.OrderNo, strCheck)
	if cb.StrCheck == "" || !strings.EqualFold(cb.StrCheck, expected) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "callback checksum mismatch")
	}
	return cb, nil
}

// ChecksumFor computes the MD5 hex digest over the result flag, the order
// number, and the merchant check code, matching what the gateway sends.
func ChecksumFor(result, orderNo, strCheck string) string {
	sum := md5.Sum([]byte(result + orderNo + strCheck))
	return hex.EncodeToString(sum[:])
}
