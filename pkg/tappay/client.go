package tappay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Config holds TapPay pay-by-prime settings
type Config struct {
	APIURL     string
	PartnerKey string
	MerchantID string
	Currency   string
	Timeout    time.Duration
}

// Client implements Gateway against the TapPay pay-by-prime endpoint
type Client struct {
	apiURL     string
	partnerKey string
	merchantID string
	currency   string
	client     *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new TapPay client
func NewClient(cfg Config, logger *logrus.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "TWD"
	}

	return &Client{
		apiURL:     cfg.APIURL,
		partnerKey: cfg.PartnerKey,
		merchantID: cfg.MerchantID,
		currency:   currency,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// payByPrimeRequest is the request sent to TapPay
type payByPrimeRequest struct {
	Prime       string     `json:"prime"`
	PartnerKey  string     `json:"partner_key"`
	MerchantID  string     `json:"merchant_id"`
	Amount      int        `json:"amount"`
	Currency    string     `json:"currency"`
	Details     string     `json:"details"`
	Cardholder  cardholder `json:"cardholder"`
	Remember    bool       `json:"remember"`
	ThreeDomain bool       `json:"three_domain_secure"`
}

type cardholder struct {
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name"`
	Email       string `json:"email"`
}

// payByPrimeResponse is the response from TapPay. Status 0 means the
// charge succeeded; any other value is a decline with Msg set.
type payByPrimeResponse struct {
	Status     int    `json:"status"`
	Msg        string `json:"msg"`
	RecTradeID string `json:"rec_trade_id"`
}

// Charge exchanges a one-time prime for an actual charge of amount
func (c *Client) Charge(prime string, amount int, details string, contact Contact) (*Result, error) {
	request := &payByPrimeRequest{
		Prime:      prime,
		PartnerKey: c.partnerKey,
		MerchantID: c.merchantID,
		Amount:     amount,
		Currency:   c.currency,
		Details:    details,
		Cardholder: cardholder{
			PhoneNumber: contact.Phone,
			Name:        contact.Name,
			Email:       contact.Email,
		},
	}

	jsonBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal charge request: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"amount":   amount,
		"currency": c.currency,
		"details":  details,
	}).Info("Charging payment prime via TapPay")

	req, err := http.NewRequest(http.MethodPost, c.apiURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build charge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.partnerKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("TapPay call failed at transport level")
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrGatewayUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"response":    string(body),
		}).Error("TapPay returned non-OK HTTP status")
		return nil, fmt.Errorf("%w: HTTP %d", ErrGatewayUnavailable, resp.StatusCode)
	}

	var chargeResp payByPrimeResponse
	if err := json.Unmarshal(body, &chargeResp); err != nil {
		c.logger.WithFields(logrus.Fields{
			"body":  string(body),
			"error": err.Error(),
		}).Error("Failed to parse TapPay response")
		return nil, fmt.Errorf("%w: malformed response", ErrGatewayUnavailable)
	}

	if chargeResp.Status != 0 {
		c.logger.WithFields(logrus.Fields{
			"status": chargeResp.Status,
			"msg":    chargeResp.Msg,
		}).Warn("TapPay declined the charge")
		return nil, &DeclinedError{Status: chargeResp.Status, Msg: chargeResp.Msg}
	}

	c.logger.WithFields(logrus.Fields{
		"rec_trade_id": chargeResp.RecTradeID,
		"amount":       amount,
	}).Info("TapPay charge succeeded")

	return &Result{
		Status:     chargeResp.Status,
		Msg:        chargeResp.Msg,
		RecTradeID: chargeResp.RecTradeID,
	}, nil
}
