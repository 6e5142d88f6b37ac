// Package api is the typed client for the GoldMart backend REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"goldmart/internal/logger"
	"goldmart/internal/logger/sl"
	"goldmart/internal/metric"
)

type Scope int

const (
	ScopePublic Scope = iota
	ScopeUser
	ScopeAdmin
)

func (s Scope) String() string {
	switch s {
	case ScopeUser:
		return "user"
	case ScopeAdmin:
		return "admin"
	}
	return "public"
}

// TokenSource supplies the bearer tokens for user and admin calls. An empty
// token means the header is not sent.
type TokenSource interface {
	Token() string
	AdminToken() string
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Tokens  TokenSource
	// OnUnauthorized runs after any user-scoped call answered 401.
	OnUnauthorized func()
	// OnAdminUnauthorized runs after any admin-scoped call answered 401.
	OnAdminUnauthorized func()
	Log                 *slog.Logger
}

func New(baseURL string, timeout time.Duration, tokens TokenSource, log *slog.Logger) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Tokens:  tokens,
		Log:     log,
	}
}

// ImageURL resolves a stored product image path the way the storefront always
// has: absolute URLs pass through, everything else lives under /uploads.
func (c *Client) ImageURL(p string) string {
	if p == "" {
		return "/images/placeholder.jpg"
	}
	if strings.HasPrefix(p, "http") {
		return p
	}
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimPrefix(p, "public/")
	origin := strings.TrimSuffix(strings.TrimRight(c.BaseURL, "/"), "/api")
	if strings.HasPrefix(p, "/uploads/") {
		return origin + p
	}
	if strings.HasPrefix(p, "uploads/") {
		return origin + "/" + p
	}
	return origin + "/uploads/" + strings.TrimPrefix(p, "/")
}

type request struct {
	scope    Scope
	method   string
	path     string
	endpoint string
	body     any
	header   http.Header
}

func (c *Client) doJSON(ctx context.Context, r request, out any) error {
	body, _, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (c *Client) do(ctx context.Context, r request) ([]byte, http.Header, error) {
	log := logger.OrDefault(c.Log)
	var rd io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, nil, err
		}
		rd = bytes.NewReader(b)
	}
	u := strings.TrimRight(c.BaseURL, "/") + r.path
	req, err := http.NewRequestWithContext(ctx, r.method, u, rd)
	if err != nil {
		return nil, nil, err
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if tok := c.token(r.scope); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	hc := c.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		metric.ObserveBackend(r.endpoint, 0, time.Since(start))
		log.Error("backend call failed", slog.String("endpoint", r.endpoint), sl.Err(err), sl.Traced(ctx))
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	metric.ObserveBackend(r.endpoint, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		c.unauthorized(r.scope)
	}
	if resp.StatusCode >= 400 {
		e := &Error{Status: resp.StatusCode, Message: extractMessage(body)}
		log.Warn("backend rejected call",
			slog.String("endpoint", r.endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("message", e.Message),
			sl.Traced(ctx))
		return nil, nil, e
	}
	return body, resp.Header, nil
}

func (c *Client) token(s Scope) string {
	if c.Tokens == nil {
		return ""
	}
	switch s {
	case ScopeUser:
		return c.Tokens.Token()
	case ScopeAdmin:
		return c.Tokens.AdminToken()
	}
	return ""
}

func (c *Client) unauthorized(s Scope) {
	switch s {
	case ScopeUser:
		metric.ForcedLogoutsTotal.WithLabelValues("user").Inc()
		if c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
	case ScopeAdmin:
		metric.ForcedLogoutsTotal.WithLabelValues("admin").Inc()
		if c.OnAdminUnauthorized != nil {
			c.OnAdminUnauthorized()
		}
	}
}
