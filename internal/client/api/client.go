// Package api is the HTTP client for the NutriGenie server. It keeps the
// session token obtained at login and sends it as a bearer credential on
// subsequent calls.
package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnauthorized is returned when the server rejects the credentials or
// the session token.
var ErrUnauthorized = errors.New("unauthorized")

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// User mirrors the account fields the server returns.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AskResult is one dispatcher answer. ModelUsed is nil when every model
// failed and Response carries the server's apology text.
type AskResult struct {
	ModelUsed *string `json:"model_used"`
	Response  string  `json:"response"`
}

// HistoryEntry is one saved query/response pair.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	Feature   string    `json:"feature"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusUnauthorized {
			return ErrUnauthorized
		}
		var er errorResponse
		if json.Unmarshal(data, &er) == nil && er.Error != "" {
			return errors.New(er.Error)
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	if out != nil {
		return json.Unmarshal(data, out)
	}

	return nil
}

// Ping checks that the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/api/ping", nil, nil)
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {

	req := map[string]string{"username": username, "email": email, "password": password}

	var user User
	if err := c.doJSON(ctx, http.MethodPost, "/api/register", req, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// Login authenticates and keeps the returned session token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {

	req := map[string]string{"email": email, "password": password}

	var resp struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/login", req, &resp); err != nil {
		return nil, err
	}

	c.token = resp.Token
	return &resp.User, nil
}

// Logout drops the session both server- and client-side.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/api/logout", nil, nil)
	c.token = ""
	return err
}

// LoggedIn reports whether a session token is held.
func (c *Client) LoggedIn() bool {
	return c.token != ""
}

// Ask submits one query for a feature, optionally with image bytes.
func (c *Client) Ask(ctx context.Context, feature, query string, image []byte, imageMIMEType string) (*AskResult, error) {

	req := map[string]string{"feature": feature, "query": query}
	if len(image) > 0 {
		req["image_base64"] = base64.StdEncoding.EncodeToString(image)
		req["image_mime_type"] = imageMIMEType
	}

	var result AskResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/ask", req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// History lists the most recent saved entries for one feature.
func (c *Client) History(ctx context.Context, feature string) ([]HistoryEntry, error) {

	var resp struct {
		Entries []HistoryEntry `json:"entries"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/history/"+feature, nil, &resp); err != nil {
		return nil, err
	}

	return resp.Entries, nil
}

// DeleteHistory removes one saved entry by identifier.
func (c *Client) DeleteHistory(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/history/%d", id), nil, nil)
}
