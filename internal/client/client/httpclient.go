package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/chatdesk/internal/client/models"
	"github.com/dmitrijs2005/chatdesk/internal/common"
	"github.com/dmitrijs2005/chatdesk/internal/logging"
	"github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"
)

// DefaultDocumentsCacheTTL is how long a document listing is reused unless
// WithDocumentsCacheTTL says otherwise.
const DefaultDocumentsCacheTTL = 30 * time.Second

const (
	documentsCacheKey = "documents"
	maxErrorBody      = 64 << 10
	maxImageBody      = 32 << 20
)

// HTTPClient talks to the chatdesk REST backend.
type HTTPClient struct {
	apiURL       string
	documentsURL string

	authed *http.Client
	plain  *http.Client

	tokens         TokenSource
	docs           *cache.Cache
	onUnauthorized func(ctx context.Context)
	logger         logging.Logger
}

type Option func(*HTTPClient)

// WithTimeout bounds every request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		c.authed.Timeout = d
		c.plain.Timeout = d
	}
}

// WithUnauthorizedHandler registers fn to run whenever an authenticated call
// is rejected with 401.
func WithUnauthorizedHandler(fn func(ctx context.Context)) Option {
	return func(c *HTTPClient) { c.onUnauthorized = fn }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// WithDocumentsCacheTTL sets how long a document listing is reused. A
// non-positive ttl disables the cache.
func WithDocumentsCacheTTL(ttl time.Duration) Option {
	return func(c *HTTPClient) {
		if ttl <= 0 {
			c.docs = nil
			return
		}
		c.docs = cache.New(ttl, 2*ttl)
	}
}

// NewHTTPClient builds a client for the given base URLs. An empty
// documentsURL falls back to apiURL.
func NewHTTPClient(apiURL, documentsURL string, tokens TokenSource, opts ...Option) (*HTTPClient, error) {
	if documentsURL == "" {
		documentsURL = apiURL
	}
	for _, raw := range []string{apiURL, documentsURL} {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid base url %q: %w", raw, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid base url %q: scheme and host required", raw)
		}
	}

	c := &HTTPClient{
		apiURL:       strings.TrimRight(apiURL, "/"),
		documentsURL: strings.TrimRight(documentsURL, "/"),
		plain:        &http.Client{},
		tokens:       tokens,
		authed: &http.Client{
			Transport: &oauth2.Transport{
				Source: storeTokenSource{tokens: tokens},
				Base:   http.DefaultTransport,
			},
		},
		docs:   cache.New(DefaultDocumentsCacheTTL, 2*DefaultDocumentsCacheTTL),
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// storeTokenSource adapts TokenSource to oauth2. The token is read on every
// request so a logout or re-login takes effect immediately.
type storeTokenSource struct {
	tokens TokenSource
}

func (s storeTokenSource) Token() (*oauth2.Token, error) {
	if s.tokens == nil {
		return nil, ErrNoToken
	}
	t := s.tokens.Token()
	if t == "" {
		return nil, ErrNoToken
	}
	return &oauth2.Token{AccessToken: t, TokenType: "Bearer"}, nil
}

func (c *HTTPClient) Close() error {
	c.plain.CloseIdleConnections()
	c.authed.CloseIdleConnections()
	return nil
}

// Ping reports whether the backend answers HTTP at all; any status counts.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.plain.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// Login exchanges credentials for an access token using the OAuth2 password
// grant (form-encoded POST /token).
func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	cfg := oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.apiURL + common.PathToken,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.plain)

	tok, err := cfg.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			return "", &APIError{Status: re.Response.StatusCode, Detail: parseDetail(re.Body)}
		}
		return "", c.mapTransportError(err)
	}
	return tok.AccessToken, nil
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, c.plain, http.MethodPost, c.apiURL, common.PathUsers, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, c.authed, http.MethodGet, c.apiURL, common.PathCurrentUser, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) UpdatePlan(ctx context.Context, plan common.Plan) error {
	return c.doJSON(ctx, c.authed, http.MethodPatch, c.apiURL, common.PathUpdatePlan, models.UpdatePlanRequest{Plan: plan}, nil)
}

func (c *HTTPClient) UpdatePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := models.UpdatePasswordRequest{CurrentPassword: currentPassword, NewPassword: newPassword}
	return c.doJSON(ctx, c.authed, http.MethodPatch, c.apiURL, common.PathUpdatePassword, body, nil)
}

func (c *HTTPClient) AdminDashboard(ctx context.Context) (models.Dashboard, error) {
	var d models.Dashboard
	if err := c.doJSON(ctx, c.authed, http.MethodGet, c.apiURL, common.PathAdminDashboard, nil, &d); err != nil {
		return nil, err
	}
	return d, nil
}

func (c *HTTPClient) RegularDashboard(ctx context.Context) (models.Dashboard, error) {
	var d models.Dashboard
	if err := c.doJSON(ctx, c.authed, http.MethodGet, c.apiURL, common.PathRegularDash, nil, &d); err != nil {
		return nil, err
	}
	return d, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.doJSON(ctx, c.authed, http.MethodGet, c.apiURL, common.PathAdminUsers, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListDocuments returns the visible documents. Listings are cached per
// bearer token, so a different session never sees another one's result.
func (c *HTTPClient) ListDocuments(ctx context.Context) ([]models.Document, error) {
	key := c.documentsKey()
	if c.docs != nil {
		if v, ok := c.docs.Get(key); ok {
			cached := v.([]models.Document)
			return append([]models.Document(nil), cached...), nil
		}
	}

	var docs []models.Document
	if err := c.doJSON(ctx, c.authed, http.MethodGet, c.documentsURL, common.PathDocuments, nil, &docs); err != nil {
		return nil, err
	}
	if c.docs != nil {
		c.docs.SetDefault(key, docs)
	}
	return append([]models.Document(nil), docs...), nil
}

// ClearCache drops every cached document listing.
func (c *HTTPClient) ClearCache() {
	if c.docs != nil {
		c.docs.Flush()
	}
}

func (c *HTTPClient) documentsKey() string {
	if c.tokens == nil {
		return documentsCacheKey
	}
	return documentsCacheKey + ":" + c.tokens.Token()
}

func (c *HTTPClient) GetDocument(ctx context.Context, id int) (*models.Document, error) {
	var doc models.Document
	if err := c.doJSON(ctx, c.authed, http.MethodGet, c.documentsURL, common.PathDocuments+strconv.Itoa(id), nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *HTTPClient) DeleteDocument(ctx context.Context, id int) error {
	defer c.ClearCache()
	return c.doJSON(ctx, c.authed, http.MethodDelete, c.documentsURL, common.PathDocuments+strconv.Itoa(id), nil, nil)
}

func (c *HTTPClient) UploadDocument(ctx context.Context, req UploadRequest) (*models.Document, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", req.Filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, req.Content); err != nil {
		return nil, fmt.Errorf("read upload content: %w", err)
	}
	if err := w.WriteField("title", req.Title); err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := w.WriteField("description", req.Description); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	defer c.ClearCache()

	var doc models.Document
	if err := c.do(ctx, c.authed, http.MethodPost, c.documentsURL, common.PathUploadDocument, &buf, w.FormDataContentType(), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *HTTPClient) Query(ctx context.Context, query string, documentID int) (string, error) {
	var resp models.QueryResponse
	req := models.QueryRequest{Query: query, DocumentID: documentID}
	if err := c.doJSON(ctx, c.authed, http.MethodPost, c.documentsURL, common.PathQuery, req, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// GenerateImage returns the backend reply with ImageURL made absolute.
func (c *HTTPClient) GenerateImage(ctx context.Context, prompt string) (*models.ImageResponse, error) {
	var resp models.ImageResponse
	if err := c.doJSON(ctx, c.authed, http.MethodPost, c.documentsURL, common.PathGenerateImage, models.ImageRequest{Prompt: prompt}, &resp); err != nil {
		return nil, err
	}
	c.logger.Debug(ctx, "image generated", "filename", resp.Filename, "image_url", resp.ImageURL, "image_data_len", len(resp.ImageData))
	resp.ImageURL = c.ResolveImageURL(resp.ImageURL)
	return &resp, nil
}

// FetchImage downloads raw image bytes from an absolute URL.
func (c *HTTPClient) FetchImage(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.plain.Do(req)
	if err != nil {
		return nil, c.mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{Status: resp.StatusCode, Detail: parseDetail(body)}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxImageBody))
}

// ResolveImageURL turns a server-relative image path into an absolute URL on
// the documents backend. Absolute URLs pass through unchanged.
func (c *HTTPClient) ResolveImageURL(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http") {
		return raw
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return c.documentsURL + raw
}

func (c *HTTPClient) doJSON(ctx context.Context, hc *http.Client, method, base, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, hc, method, base, path, body, contentType, out)
}

func (c *HTTPClient) do(ctx context.Context, hc *http.Client, method, base, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, base+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		if hc == c.authed && errors.Is(err, ErrNoToken) {
			return &APIError{Status: http.StatusUnauthorized, Detail: "Not authenticated"}
		}
		return c.mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.mapStatus(ctx, hc, method, path, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) mapStatus(ctx context.Context, hc *http.Client, method, path string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{Status: resp.StatusCode, Detail: parseDetail(body)}

	c.logger.Warn(ctx, "api request failed", "method", method, "path", path, "status", resp.StatusCode, "detail", apiErr.Detail)

	if resp.StatusCode == http.StatusUnauthorized && hc == c.authed {
		c.ClearCache()
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
	}
	return apiErr
}

func (c *HTTPClient) mapTransportError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// parseDetail pulls "detail" out of a FastAPI-style error body. Non-string
// details (validation error lists) are returned as raw JSON; non-JSON bodies
// as trimmed text.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}
	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}
	return string(envelope.Detail)
}
