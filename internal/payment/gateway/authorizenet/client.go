// Package authorizenet implements the gateway collaborator for an
// Authorize.Net-style processor: AIM form posts for one-time captures and
// ARB XML posts for recurring subscriptions.
package authorizenet

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/donara/internal/config"
	paymentdomain "github.com/smallbiznis/donara/internal/payment/domain"
)

const (
	productionChargeURL       = "https://secure.authorize.net/gateway/transact.dll"
	sandboxChargeURL          = "https://test.authorize.net/gateway/transact.dll"
	productionSubscriptionURL = "https://api.authorize.net/xml/v1/request.api"
	sandboxSubscriptionURL    = "https://apitest.authorize.net/xml/v1/request.api"

	delimChar = "|"

	// AIM response code field values.
	responseApproved = "1"

	// ARB result codes.
	resultOK = "Ok"
)

type Client struct {
	login           string
	transactionKey  string
	chargeURL       string
	subscriptionURL string
	client          *http.Client
}

func NewClient(cfg config.GatewayConfig) (*Client, error) {
	if cfg.Login == "" || cfg.TransactionKey == "" {
		return nil, paymentdomain.ErrInvalidConfig
	}

	chargeURL := strings.TrimSpace(cfg.ChargeURL)
	subscriptionURL := strings.TrimSpace(cfg.SubscriptionURL)
	if chargeURL == "" {
		chargeURL = productionChargeURL
		if cfg.TestMode {
			chargeURL = sandboxChargeURL
		}
	}
	if subscriptionURL == "" {
		subscriptionURL = productionSubscriptionURL
		if cfg.TestMode {
			subscriptionURL = sandboxSubscriptionURL
		}
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 12 * time.Second
	}

	return &Client{
		login:           cfg.Login,
		transactionKey:  cfg.TransactionKey,
		chargeURL:       chargeURL,
		subscriptionURL: subscriptionURL,
		client:          &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) ChargeOnce(ctx context.Context, req paymentdomain.ChargeRequest) (paymentdomain.GatewayResponse, error) {
	values := url.Values{}
	values.Set("x_login", c.login)
	values.Set("x_tran_key", c.transactionKey)
	values.Set("x_version", "3.1")
	values.Set("x_delim_data", "TRUE")
	values.Set("x_delim_char", delimChar)
	values.Set("x_relay_response", "FALSE")
	values.Set("x_method", "CC")
	values.Set("x_type", "AUTH_CAPTURE")
	values.Set("x_amount", req.Amount.StringFixed(2))
	values.Set("x_card_num", req.CardNumber)
	values.Set("x_card_code", req.CardCode)
	values.Set("x_exp_date", req.ExpirationDate)
	values.Set("x_first_name", req.FirstName)
	values.Set("x_last_name", req.LastName)
	if req.Street != "" {
		values.Set("x_address", req.Street)
		values.Set("x_city", req.City)
		values.Set("x_state", req.State)
		values.Set("x_zip", req.Zip)
	}
	if req.Description != "" {
		values.Set("x_description", req.Description)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.chargeURL, strings.NewReader(values.Encode()))
	if err != nil {
		return paymentdomain.GatewayResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return paymentdomain.GatewayResponse{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return paymentdomain.GatewayResponse{}, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return paymentdomain.GatewayResponse{}, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	return parseChargeResponse(string(body))
}

// parseChargeResponse decodes the delimited AIM response. Field 1 is the
// response code (1 approved, 2 declined, 3 error), field 3 the reason code,
// field 4 the human-readable reason.
func parseChargeResponse(raw string) (paymentdomain.GatewayResponse, error) {
	fields := strings.Split(strings.TrimSpace(raw), delimChar)
	if len(fields) < 4 {
		return paymentdomain.GatewayResponse{}, fmt.Errorf("malformed gateway response: %d fields", len(fields))
	}

	responseCode := strings.TrimSpace(fields[0])
	return paymentdomain.GatewayResponse{
		Approved:   responseCode == responseApproved,
		ReasonCode: strings.TrimSpace(fields[2]),
		ReasonText: strings.TrimSpace(fields[3]),
		Raw:        raw,
	}, nil
}

type arbRequest struct {
	XMLName        xml.Name        `xml:"ARBCreateSubscriptionRequest"`
	XMLNS          string          `xml:"xmlns,attr"`
	Authentication arbAuth         `xml:"merchantAuthentication"`
	Subscription   arbSubscription `xml:"subscription"`
}

type arbAuth struct {
	Name           string `xml:"name"`
	TransactionKey string `xml:"transactionKey"`
}

type arbSubscription struct {
	Name            string             `xml:"name"`
	PaymentSchedule arbPaymentSchedule `xml:"paymentSchedule"`
	Amount          string             `xml:"amount"`
	Payment         arbPayment         `xml:"payment"`
	BillTo          arbBillTo          `xml:"billTo"`
}

type arbPaymentSchedule struct {
	Interval         arbInterval `xml:"interval"`
	StartDate        string      `xml:"startDate"`
	TotalOccurrences int         `xml:"totalOccurrences"`
}

type arbInterval struct {
	Length int    `xml:"length"`
	Unit   string `xml:"unit"`
}

type arbPayment struct {
	CreditCard arbCreditCard `xml:"creditCard"`
}

type arbCreditCard struct {
	CardNumber     string `xml:"cardNumber"`
	ExpirationDate string `xml:"expirationDate"`
	CardCode       string `xml:"cardCode"`
}

type arbBillTo struct {
	FirstName string `xml:"firstName"`
	LastName  string `xml:"lastName"`
}

type arbResponse struct {
	XMLName  xml.Name    `xml:"ARBCreateSubscriptionResponse"`
	Messages arbMessages `xml:"messages"`
}

type arbMessages struct {
	ResultCode string       `xml:"resultCode"`
	Message    []arbMessage `xml:"message"`
}

type arbMessage struct {
	Code string `xml:"code"`
	Text string `xml:"text"`
}

func (c *Client) CreateSubscription(ctx context.Context, req paymentdomain.SubscriptionRequest) (paymentdomain.GatewayResponse, error) {
	payload := arbRequest{
		XMLNS: "AnetApi/xml/v1/schema/AnetApiSchema.xsd",
		Authentication: arbAuth{
			Name:           c.login,
			TransactionKey: c.transactionKey,
		},
		Subscription: arbSubscription{
			Name: req.Name,
			PaymentSchedule: arbPaymentSchedule{
				Interval: arbInterval{
					Length: req.IntervalMonths,
					Unit:   "months",
				},
				StartDate:        req.StartDate.Format("2006-01-02"),
				TotalOccurrences: req.TotalOccurrences,
			},
			Amount: req.Amount.StringFixed(2),
			Payment: arbPayment{
				CreditCard: arbCreditCard{
					CardNumber:     req.CardNumber,
					ExpirationDate: req.ExpirationDate,
					CardCode:       req.CardCode,
				},
			},
			BillTo: arbBillTo{
				FirstName: req.FirstName,
				LastName:  req.LastName,
			},
		},
	}

	body, err := xml.Marshal(payload)
	if err != nil {
		return paymentdomain.GatewayResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.subscriptionURL, bytes.NewReader(body))
	if err != nil {
		return paymentdomain.GatewayResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "text/xml")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return paymentdomain.GatewayResponse{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return paymentdomain.GatewayResponse{}, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return paymentdomain.GatewayResponse{}, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var parsed arbResponse
	if err := xml.Unmarshal(normalizeXML(raw), &parsed); err != nil {
		return paymentdomain.GatewayResponse{}, fmt.Errorf("malformed gateway response: %w", err)
	}

	out := paymentdomain.GatewayResponse{
		Approved: parsed.Messages.ResultCode == resultOK,
		Raw:      string(raw),
	}
	if len(parsed.Messages.Message) > 0 {
		out.ReasonCode = parsed.Messages.Message[0].Code
		out.ReasonText = parsed.Messages.Message[0].Text
	}
	return out, nil
}

// normalizeXML strips the UTF-8 BOM the gateway prefixes to its XML bodies.
func normalizeXML(raw []byte) []byte {
	return bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
}

var _ paymentdomain.GatewayClient = (*Client)(nil)

// String identifies the client without leaking credentials.
func (c *Client) String() string {
	return "authorizenet gateway (" + strconv.Itoa(int(c.client.Timeout/time.Second)) + "s timeout)"
}
