// Package courier talks to the Pathao merchant API: token lifecycle,
// consignment creation and tracking lookups. Responses are passed back
// opaque; nothing here interprets courier state.
package courier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

const (
	// tokens are refreshed this long before they actually expire
	tokenExpiryBuffer = 5 * time.Minute

	defaultTokenTTL = 432000 * time.Second // 5 days, Pathao's default

	retryAttempts = 3
	retryBackoff  = 500 * time.Millisecond
)

type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

// Client is a Pathao API client with in-process token caching.
type Client struct {
	cfg  Config
	http *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{cfg: cfg, http: httpClient}
}

type TokenResponse struct {
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CreateOrderRequest is the consignment payload Pathao expects.
type CreateOrderRequest struct {
	StoreID            int    `json:"store_id"`
	MerchantOrderID    string `json:"merchant_order_id"`
	RecipientName      string `json:"recipient_name"`
	RecipientPhone     string `json:"recipient_phone"`
	RecipientAddress   string `json:"recipient_address"`
	DeliveryType       int    `json:"delivery_type"`
	ItemType           int    `json:"item_type"`
	SpecialInstruction string `json:"special_instruction"`
	ItemQuantity       int    `json:"item_quantity"`
	ItemWeight         string `json:"item_weight"`
	ItemDescription    string `json:"item_description"`
	AmountToCollect    string `json:"amount_to_collect"`
}

// CreateOrderResponse carries the courier-assigned consignment id and
// status, stored on the order as opaque tracking fields.
type CreateOrderResponse struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
	Data    struct {
		ConsignmentID   string `json:"consignment_id"`
		MerchantOrderID string `json:"merchant_order_id"`
		OrderStatus     string `json:"order_status"`
		DeliveryFee     any    `json:"delivery_fee"`
	} `json:"data"`
}

type OrderInfoResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Data    struct {
		ConsignmentID string `json:"consignment_id"`
		OrderStatus   string `json:"order_status"`
		UpdatedAt     string `json:"updated_at"`
	} `json:"data"`
}

// CreateOrder books a consignment with Pathao.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	out := &CreateOrderResponse{}
	if err := c.do(ctx, http.MethodPost, "/aladdin/api/v1/orders", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// OrderInfo fetches current courier status for a consignment.
func (c *Client) OrderInfo(ctx context.Context, consignmentID string) (*OrderInfoResponse, error) {
	out := &OrderInfoResponse{}
	path := fmt.Sprintf("/aladdin/api/v1/orders/%s/info", consignmentID)
	if err := c.do(ctx, http.MethodGet, path, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Token returns a valid access token, issuing or refreshing as needed.
// A cached token is reused until it is within the expiry buffer.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.expiresAt.Add(-tokenExpiryBuffer)) {
		return c.accessToken, nil
	}

	var (
		resp *TokenResponse
		err  error
	)
	if c.refreshToken != "" {
		resp, err = c.issueToken(ctx, map[string]string{
			"client_id":     c.cfg.ClientID,
			"client_secret": c.cfg.ClientSecret,
			"grant_type":    "refresh_token",
			"refresh_token": c.refreshToken,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("Pathao token refresh failed, falling back to password grant")
		}
	}
	if resp == nil {
		resp, err = c.issueToken(ctx, map[string]string{
			"client_id":     c.cfg.ClientID,
			"client_secret": c.cfg.ClientSecret,
			"grant_type":    "password",
			"username":      c.cfg.Username,
			"password":      c.cfg.Password,
		})
		if err != nil {
			return "", err
		}
	}

	ttl := defaultTokenTTL
	if resp.ExpiresIn > 0 {
		ttl = time.Duration(resp.ExpiresIn) * time.Second
	}

	c.accessToken = resp.AccessToken
	c.refreshToken = resp.RefreshToken
	c.expiresAt = time.Now().Add(ttl)

	return c.accessToken, nil
}

func (c *Client) issueToken(ctx context.Context, form map[string]string) (*TokenResponse, error) {
	body, err := json.Marshal(form)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/aladdin/api/v1/issue-token", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pathao issue-token: status %d", resp.StatusCode)
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, err
	}

	return &tokenResp, nil
}

// do sends an authenticated request, retrying only transport-level
// failures with bounded backoff. API-level errors (non-2xx) are terminal
// and surfaced immediately.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	token, err := c.Token(ctx)
	if err != nil {
		return err
	}

	var body []byte
	if in != nil {
		body, err = json.Marshal(in)
		if err != nil {
			return err
		}
	}

	var lastErr error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBackoff * time.Duration(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.http.Do(req)
		if err != nil {
			// transport failure: the request may never have reached the
			// API, safe to retry
			lastErr = err
			logger.Warn().Err(err).Int("attempt", attempt+1).Str("path", path).Msg("Pathao request failed")
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return fmt.Errorf("pathao %s %s: status %d", method, path, resp.StatusCode)
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		return err
	}

	return fmt.Errorf("pathao %s %s failed after %d attempts: %w", method, path, retryAttempts, lastErr)
}
