package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/marketpulse/internal/client/models"
	"github.com/dmitrijs2005/marketpulse/internal/common"
)

// HTTPClient is the production Client implementation over net/http.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// authTransport attaches the stored bearer token to every outbound request,
// mirroring a request interceptor: the token is re-read from the source on
// each call, so a login that lands mid-session is picked up immediately.
type authTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.tokens.Token(req.Context())
	if err == nil && token != "" {
		req = req.Clone(req.Context())
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	return t.base.RoundTrip(req)
}

// NewHTTPClient builds an HTTPClient for the given backend base URL.
// A zero timeout leaves the transport default in place.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http: &http.Client{
			Timeout:   timeout,
			Transport: &authTransport{base: http.DefaultTransport, tokens: tokens},
		},
	}
}

func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// errorResponse is the backend's application-error payload shape.
type errorResponse struct {
	Message string `json:"message"`
}

// do issues one JSON request and decodes a JSON response into out (which may
// be nil). Transport failures map to ErrUnavailable; non-2xx statuses map to
// *APIError carrying the server message.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&er)
		return &APIError{Status: resp.StatusCode, Message: er.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result models.LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) SignUp(ctx context.Context, data models.SignUpData) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", data, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/verify-email", map[string]string{"token": token}, nil)
}

func (c *HTTPClient) ResendVerification(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/resend-verification", nil, nil)
}

func (c *HTTPClient) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email}, nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"token": token, "newPassword": newPassword}
	return c.do(ctx, http.MethodPost, "/auth/reset-password", body, nil)
}

func (c *HTTPClient) Me(ctx context.Context) (*models.Identity, error) {
	var identity models.Identity
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (c *HTTPClient) Segments(ctx context.Context) ([]models.Segment, error) {
	var segments []models.Segment
	if err := c.do(ctx, http.MethodGet, "/customer-intelligence/segments", nil, &segments); err != nil {
		return nil, err
	}
	return segments, nil
}

func (c *HTTPClient) SegmentDetails(ctx context.Context, id int64) (*models.Segment, error) {
	var segment models.Segment
	path := fmt.Sprintf("/customer-intelligence/segments/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &segment); err != nil {
		return nil, err
	}
	return &segment, nil
}

func (c *HTTPClient) Behaviors(ctx context.Context, filter BehaviorFilter) ([]models.BehaviorCount, error) {
	params := url.Values{}
	if filter.StartDate != "" {
		params.Set("startDate", filter.StartDate)
	}
	if filter.EndDate != "" {
		params.Set("endDate", filter.EndDate)
	}
	if filter.SegmentID != "" {
		params.Set("segmentId", filter.SegmentID)
	}
	path := "/customer-intelligence/behaviors"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var behaviors []models.BehaviorCount
	if err := c.do(ctx, http.MethodGet, path, nil, &behaviors); err != nil {
		return nil, err
	}
	return behaviors, nil
}

func (c *HTTPClient) Metrics(ctx context.Context) (*models.CustomerMetrics, error) {
	var metrics models.CustomerMetrics
	if err := c.do(ctx, http.MethodGet, "/customer-intelligence/metrics", nil, &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}

func (c *HTTPClient) Engagement(ctx context.Context, segmentID string) ([]models.EngagementPoint, error) {
	path := "/customer-intelligence/engagement"
	if segmentID != "" {
		path += "?segmentId=" + url.QueryEscape(segmentID)
	}
	var points []models.EngagementPoint
	if err := c.do(ctx, http.MethodGet, path, nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}

func (c *HTTPClient) GrowthStrategy(ctx context.Context) (*models.GrowthStrategy, error) {
	var strategy models.GrowthStrategy
	if err := c.do(ctx, http.MethodGet, "/growth-strategy", nil, &strategy); err != nil {
		return nil, err
	}
	return &strategy, nil
}

func (c *HTTPClient) MarketTrends(ctx context.Context, industry string) ([]models.MarketTrend, error) {
	path := "/market-analysis/trends"
	if industry != "" {
		path += "?industry=" + url.QueryEscape(industry)
	}
	var trends []models.MarketTrend
	if err := c.do(ctx, http.MethodGet, path, nil, &trends); err != nil {
		return nil, err
	}
	return trends, nil
}

func (c *HTTPClient) MarketSize(ctx context.Context, industry string) (*models.MarketSize, error) {
	path := "/market-analysis/market-size?industry=" + url.QueryEscape(industry)
	var size models.MarketSize
	if err := c.do(ctx, http.MethodGet, path, nil, &size); err != nil {
		return nil, err
	}
	return &size, nil
}

func (c *HTTPClient) Competitors(ctx context.Context, industry string) ([]models.Competitor, error) {
	path := "/competitor-analysis/competitors"
	if industry != "" {
		path += "?industry=" + url.QueryEscape(industry)
	}
	var competitors []models.Competitor
	if err := c.do(ctx, http.MethodGet, path, nil, &competitors); err != nil {
		return nil, err
	}
	return competitors, nil
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.BusinessProfile, error) {
	var profile models.BusinessProfile
	if err := c.do(ctx, http.MethodGet, "/business-profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *HTTPClient) SaveProfile(ctx context.Context, profile models.BusinessProfile) error {
	return c.do(ctx, http.MethodPut, "/business-profile", profile, nil)
}
