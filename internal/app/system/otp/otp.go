// Package otp wraps the Twilio Verify REST API for SMS one-time codes.
// https://www.twilio.com/docs/verify/api
package otp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kiranapage/kiranapage/internal/app/system/wa"
)

const verifyBaseURL = "https://verify.twilio.com/v2"

// ErrExpiredMessage is shown when Twilio no longer knows the verification.
// Twilio returns 404 when a code was already approved, expired (about 10
// minutes), or hit max attempts.
const ErrExpiredMessage = "This code has expired or was already used. Please request a new code and try again."

// Config holds the Twilio Verify credentials.
type Config struct {
	AccountSID       string
	AuthToken        string
	VerifyServiceSID string
}

// Client sends and checks OTP codes via Twilio Verify.
type Client struct {
	cfg     Config
	httpc   *http.Client
	baseURL string
	log     *zap.Logger
}

// New creates a Client. A Client built from empty credentials is valid but
// reports Configured() == false and refuses to send.
func New(cfg Config, log *zap.Logger) *Client {
	return &Client{
		cfg:     cfg,
		httpc:   &http.Client{Timeout: 15 * time.Second},
		baseURL: verifyBaseURL,
		log:     log,
	}
}

// Configured reports whether all three Twilio credentials are present.
func (c *Client) Configured() bool {
	return c.cfg.AccountSID != "" && c.cfg.AuthToken != "" && c.cfg.VerifyServiceSID != ""
}

// Result is the outcome of a send or check call. Message is safe to show
// to the end user when Success is false.
type Result struct {
	Success bool
	Message string
}

type verifyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Send asks Twilio to deliver an SMS code to the given mobile number. The
// number may be in any format; it is normalized to E.164 here.
func (c *Client) Send(ctx context.Context, mobile string) (Result, error) {
	if !c.Configured() {
		return Result{}, fmt.Errorf("otp: twilio is not configured")
	}

	form := url.Values{}
	form.Set("To", wa.E164(mobile))
	form.Set("Channel", "sms")

	status, body, err := c.post(ctx, "/Services/"+c.cfg.VerifyServiceSID+"/Verifications", form)
	if err != nil {
		return Result{}, err
	}

	if status < 300 && body.Status == "pending" {
		return Result{Success: true}, nil
	}

	msg := body.Message
	if msg == "" {
		msg = "Failed to send OTP"
	}
	c.log.Warn("otp send refused",
		zap.Int("status", status),
		zap.String("twilio_status", body.Status))
	return Result{Success: false, Message: msg}, nil
}

// Check verifies a code the user typed against Twilio.
func (c *Client) Check(ctx context.Context, mobile, code string) (Result, error) {
	if !c.Configured() {
		return Result{}, fmt.Errorf("otp: twilio is not configured")
	}

	form := url.Values{}
	form.Set("To", wa.E164(mobile))
	form.Set("Code", strings.TrimSpace(code))

	status, body, err := c.post(ctx, "/Services/"+c.cfg.VerifyServiceSID+"/VerificationCheck", form)
	if err != nil {
		return Result{}, err
	}

	if status < 300 && body.Status == "approved" {
		return Result{Success: true}, nil
	}
	if status == http.StatusNotFound {
		return Result{Success: false, Message: ErrExpiredMessage}, nil
	}

	msg := body.Message
	if msg == "" {
		msg = "Invalid or expired code"
	}
	return Result{Success: false, Message: msg}, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values) (int, verifyResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, verifyResponse{}, fmt.Errorf("otp: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, verifyResponse{}, fmt.Errorf("otp: call twilio: %w", err)
	}
	defer resp.Body.Close()

	var body verifyResponse
	// Twilio always answers JSON; a decode failure still leaves the status
	// code usable.
	_ = json.NewDecoder(resp.Body).Decode(&body)

	return resp.StatusCode, body, nil
}
