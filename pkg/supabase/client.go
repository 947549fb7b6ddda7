// Package supabase is a thin client for the Supabase PostgREST and GoTrue
// APIs. Row-level security is enforced server-side; passing a user JWT scopes
// requests to that user, the service key bypasses RLS for system jobs.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client represents a Supabase client
type Client struct {
	URL        string
	ServiceKey string
	HTTPClient *http.Client
}

// NewClient creates a new Supabase client
func NewClient(url, serviceKey string) *Client {
	return &Client{
		URL:        url,
		ServiceKey: serviceKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Filters are PostgREST query parameters, e.g. {"user_id": "eq.<uuid>"}.
type Filters map[string]string

func (c *Client) do(ctx context.Context, method, table string, filters Filters, payload any, userToken string, prefer string) ([]byte, error) {
	url := fmt.Sprintf("%s/rest/v1/%s", c.URL, table)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	for key, value := range filters {
		q.Add(key, value)
	}
	req.URL.RawQuery = q.Encode()

	req.Header.Set("apikey", c.ServiceKey)
	token := c.ServiceKey
	if userToken != "" {
		token = userToken
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("supabase error (status %d): %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

// Query selects rows from a table. An empty userToken uses the service key.
func (c *Client) Query(ctx context.Context, table string, filters Filters, userToken string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, table, filters, nil, userToken, "")
}

// Insert inserts one record or a slice of records into a table.
func (c *Client) Insert(ctx context.Context, table string, data any, userToken string) ([]byte, error) {
	return c.do(ctx, http.MethodPost, table, nil, data, userToken, "return=representation")
}

// UpdateWhere patches all rows matching the filters.
func (c *Client) UpdateWhere(ctx context.Context, table string, filters Filters, data any, userToken string) ([]byte, error) {
	return c.do(ctx, http.MethodPatch, table, filters, data, userToken, "return=representation")
}

// DeleteWhere deletes all rows matching the filters.
func (c *Client) DeleteWhere(ctx context.Context, table string, filters Filters, userToken string) error {
	_, err := c.do(ctx, http.MethodDelete, table, filters, nil, userToken, "")
	return err
}

// User represents a Supabase auth user
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// VerifyToken verifies a JWT with the GoTrue auth endpoint and returns the
// user it belongs to.
func (c *Client) VerifyToken(ctx context.Context, token string) (*User, error) {
	url := fmt.Sprintf("%s/auth/v1/user", c.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.ServiceKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("token verification failed (status %d): %s", resp.StatusCode, string(body))
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &user, nil
}

// TokenResponse is the GoTrue password-grant response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// SignInWithPassword exchanges email/password credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*TokenResponse, error) {
	return c.authRequest(ctx, fmt.Sprintf("%s/auth/v1/token?grant_type=password", c.URL), email, password)
}

// SignUp registers a new user with GoTrue.
func (c *Client) SignUp(ctx context.Context, email, password string) (*TokenResponse, error) {
	return c.authRequest(ctx, fmt.Sprintf("%s/auth/v1/signup", c.URL), email, password)
}

func (c *Client) authRequest(ctx context.Context, url, email, password string) (*TokenResponse, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.ServiceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("auth request failed (status %d): %s", resp.StatusCode, string(body))
	}

	var tr TokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("failed to decode auth response: %w", err)
	}
	return &tr, nil
}
