// Package accounts is the HTTP client for the remote accounts API
// (registration, login, logout and the current user).
package accounts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/joestump/experiment40/internal/metrics"
)

const (
	registerPath = "/api/accounts/register/"
	tokenPath    = "/api/accounts/token/"
	mePath       = "/api/accounts/me/"
	logoutPath   = "/api/accounts/logout/"

	csrfCookie = "csrftoken"
	csrfHeader = "X-CSRFToken"

	maxBodyBytes = 1 << 20
)

// Client holds the API location and transport settings shared by every
// visitor. Bind it to one visitor with Session.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// NewClient returns a Client for the API rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse accounts API URL: %w", err)
	}
	return &Client{baseURL: u, http: &http.Client{Timeout: timeout}}, nil
}

// Session is a Client bound to one visitor's cookies and language.
type Session struct {
	baseURL *url.URL
	http    *http.Client
	lang    string
}

// Session binds c to jar, which supplies and receives the API's cookies, and
// to lang, sent as Accept-Language so error messages come back localized.
func (c *Client) Session(jar http.CookieJar, lang string) *Session {
	return &Session{
		baseURL: c.baseURL,
		http: &http.Client{
			Transport: c.http.Transport,
			Timeout:   c.http.Timeout,
			Jar:       jar,
		},
		lang: lang,
	}
}

// Register creates an account.
func (s *Session) Register(ctx context.Context, reg Registration) error {
	status, body, err := s.do(ctx, "register", http.MethodPost, registerPath, reg)
	if err != nil {
		return err
	}
	if !ok(status) {
		return &APIError{Status: status, Message: errorMessage(body)}
	}
	return nil
}

// Login exchanges credentials for session tokens. The API stores them as
// cookies in the session's jar.
func (s *Session) Login(ctx context.Context, creds Credentials) (*Tokens, error) {
	status, body, err := s.do(ctx, "token", http.MethodPost, tokenPath, creds)
	if err != nil {
		return nil, err
	}
	if !ok(status) {
		return nil, &APIError{Status: status, Message: errorMessage(body)}
	}
	var t Tokens
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &t); err != nil {
			return nil, fmt.Errorf("decode token response: %w", err)
		}
	}
	return &t, nil
}

// CurrentUser returns the signed-in user, or nil when the API answers 401.
func (s *Session) CurrentUser(ctx context.Context) (*User, error) {
	status, body, err := s.do(ctx, "me", http.MethodGet, mePath, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		return nil, nil
	}
	if !ok(status) {
		return nil, fmt.Errorf("%w: status %d", ErrFetchUser, status)
	}
	var u User
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("decode current user: %w", err)
	}
	return &u, nil
}

// Logout asks the API to revoke and clear the session cookies.
func (s *Session) Logout(ctx context.Context) error {
	status, body, err := s.do(ctx, "logout", http.MethodPost, logoutPath, nil)
	if err != nil {
		return err
	}
	if !ok(status) {
		return &APIError{Status: status, Message: errorMessage(body)}
	}
	return nil
}

func (s *Session) do(ctx context.Context, endpoint, method, path string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal %s request: %w", endpoint, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL.JoinPath(path).String(), body)
	if err != nil {
		return 0, nil, fmt.Errorf("create %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if s.lang != "" {
		req.Header.Set("Accept-Language", s.lang)
	}
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(csrfHeader, s.csrfToken())
	}

	start := time.Now()
	resp, err := s.http.Do(req)
	metrics.AccountsRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AccountsRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return 0, nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()
	metrics.AccountsRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}
	return resp.StatusCode, respBody, nil
}

func (s *Session) csrfToken() string {
	if s.http.Jar == nil {
		return ""
	}
	for _, c := range s.http.Jar.Cookies(s.baseURL) {
		if c.Name == csrfCookie {
			return c.Value
		}
	}
	return ""
}

func ok(status int) bool { return status >= 200 && status < 300 }
