package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// OTPClient starts and checks phone-number verifications.
type OTPClient interface {
	StartVerification(ctx context.Context, phoneNumber string) (string, error)
	CheckVerification(ctx context.Context, requestId, code string) error
}

// VonageOTPClient relays OTPs through the Vonage Verify API.
type VonageOTPClient struct {
	apiKey     string
	apiSecret  string
	brand      string
	baseURL    string
	httpClient *http.Client
}

func NewVonageOTPClient(apiKey, apiSecret, brand string) *VonageOTPClient {
	return &VonageOTPClient{
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		brand:      brand,
		baseURL:    "https://api.nexmo.com",
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *VonageOTPClient) StartVerification(ctx context.Context, phoneNumber string) (string, error) {
	form := url.Values{
		"api_key":    {c.apiKey},
		"api_secret": {c.apiSecret},
		"number":     {phoneNumber},
		"brand":      {c.brand},
	}
	result, err := c.post(ctx, "/verify/json", form)
	if err != nil {
		return "", err
	}
	if result.Status != "0" {
		return "", fmt.Errorf("verification not started: %v", result.ErrorText)
	}
	return result.RequestId, nil
}

func (c *VonageOTPClient) CheckVerification(ctx context.Context, requestId, code string) error {
	form := url.Values{
		"api_key":    {c.apiKey},
		"api_secret": {c.apiSecret},
		"request_id": {requestId},
		"code":       {code},
	}
	result, err := c.post(ctx, "/verify/check/json", form)
	if err != nil {
		return err
	}
	if result.Status != "0" {
		return fmt.Errorf("verification check failed: %v", result.ErrorText)
	}
	return nil
}

type vonageResponse struct {
	RequestId string `json:"request_id"`
	Status    string `json:"status"`
	ErrorText string `json:"error_text"`
}

func (c *VonageOTPClient) post(ctx context.Context, path string, form url.Values) (vonageResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return vonageResponse{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return vonageResponse{}, fmt.Errorf("otp request failed: %v", err)
	}
	defer resp.Body.Close()

	var result vonageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return vonageResponse{}, fmt.Errorf("cannot decode otp response: %v", err)
	}
	return result, nil
}
