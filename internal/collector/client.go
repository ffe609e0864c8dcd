// Package collector is the HTTP client for the card collection service.
//
// Every endpoint the service exposes is a method on Client. Errors are
// classified into ErrValidation, ErrTransient, ErrAborted, ErrUnauthorized
// or a *ServiceError carrying the service's own message.
package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rshade/cardcollector/internal/logging"
)

// Header names sent with every request.
const (
	RequestIDHeader = "X-Request-Id"
	sessionCookie   = "session"
	loginPath       = "/login"
	maxBodyBytes    = 10 << 20
	defaultTimeout  = 30 * time.Second
)

// CollectionQueryService fetches collection pages.
type CollectionQueryService interface {
	FetchPage(ctx context.Context, q Query) (CollectionPage, error)
}

// CardSearcher finds printings by name for the add-card flow.
type CardSearcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// Client talks to one collection service. Safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient uses a copy of hc for requests, so its transport and jar
// are shared but hc itself is never modified. A cookie jar is added to the
// copy when hc has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc == nil {
			return
		}
		own := *hc
		c.httpClient = &own
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the client logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = logging.ComponentLogger(l, "collector") }
}

// New returns a Client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid server url %q", ErrValidation, baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient.Jar == nil {
		jar, jarErr := cookiejar.New(nil)
		if jarErr != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", jarErr)
		}
		c.httpClient.Jar = jar
	}
	return c, nil
}

// BaseURL returns the service URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// SetSession installs a previously saved session cookie.
func (c *Client) SetSession(value string) {
	if value == "" {
		return
	}
	c.httpClient.Jar.SetCookies(c.baseURL, []*http.Cookie{{Name: sessionCookie, Value: value, Path: "/"}})
}

// Session returns the current session cookie value, or "".
func (c *Client) Session() string {
	for _, ck := range c.httpClient.Jar.Cookies(c.baseURL) {
		if ck.Name == sessionCookie {
			return ck.Value
		}
	}
	return ""
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return nil, fmt.Errorf("%w: building request for %s: %w", ErrValidation, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set(logging.TraceIDHeader, logging.GetOrGenerateTraceID(ctx))
	if method != http.MethodGet {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}
	return req, nil
}

// send executes req and returns the body of a 2xx response that was not
// redirected to the login page.
func (c *Client) send(ctx context.Context, req *http.Request, path string) ([]byte, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrapRequestError(ctx, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("operation", path).
		Str("method", req.Method).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("trace_id", req.Header.Get(logging.TraceIDHeader)).
		Msg("service request")

	if resp.StatusCode == http.StatusUnauthorized || (path != loginPath && resp.Request.URL.Path == loginPath) {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: unexpected status %d", ErrTransient, path, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, wrapRequestError(ctx, path, err)
	}
	return data, nil
}

// decode checks for an {"error": ...} body and then unmarshals into out.
func decode(path string, data []byte, out any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return fmt.Errorf("%w: %s: decoding response: %w", ErrTransient, path, err)
		}
		if envelope.Error != "" {
			return &ServiceError{Endpoint: path, Message: envelope.Error}
		}
	}
	if out == nil {
		return nil
	}
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: %s: empty response", ErrTransient, path)
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("%w: %s: decoding response: %w", ErrTransient, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	data, err := c.send(ctx, req, path)
	if err != nil {
		return err
	}
	return decode(path, data, out)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, nil, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	data, err := c.send(ctx, req, path)
	if err != nil {
		return err
	}
	return decode(path, data, out)
}

// postFile uploads r as the multipart field "upload".
func (c *Client) postFile(ctx context.Context, path, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("upload", filename)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrValidation, path, err)
	}
	if _, err = io.Copy(part, r); err != nil {
		return fmt.Errorf("%w: %s: reading upload: %w", ErrValidation, path, err)
	}
	if err = mw.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrValidation, path, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	data, err := c.send(ctx, req, path)
	if err != nil {
		return err
	}
	return decode(path, data, out)
}

// Login posts credentials to the login form. The service answers with a
// redirect: back to the login page on failure, elsewhere on success. The
// session cookie lands in the client's jar.
func (c *Client) Login(ctx context.Context, creds Credentials) error {
	if err := validateStruct(creds); err != nil {
		return err
	}
	form := url.Values{}
	form.Set("username", creds.Username)
	form.Set("password", creds.Password)

	req, err := c.newRequest(ctx, http.MethodPost, loginPath, nil, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapRequestError(ctx, loginPath, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s: unexpected status %d", ErrTransient, loginPath, resp.StatusCode)
	}
	if resp.Request.URL.Path == loginPath || c.Session() == "" {
		return &ServiceError{Endpoint: loginPath, Message: "Login failed."}
	}

	c.logger.Info().Str("operation", "login").Str("username", creds.Username).Msg("logged in")
	return nil
}

// Logout ends the server session and forgets the cookie.
func (c *Client) Logout(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/logout", nil, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapRequestError(ctx, "/logout", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	c.httpClient.Jar.SetCookies(c.baseURL, []*http.Cookie{{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1}})
	return nil
}

// IsAborted reports whether err came from a cancelled request.
func IsAborted(err error) bool {
	return errors.Is(err, ErrAborted)
}
