package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bearcart-analytics/internal/domain/metrics"
)

// ErrReportUnavailable 上游回報稽核報告不存在。
var ErrReportUnavailable = errors.New("quality report unavailable")

// APIError 為上游非 2xx 回應，Detail 取自回應的 detail 欄位。
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("upstream api error (status %d)", e.Status)
	}
	return fmt.Sprintf("upstream api error (status %d): %s", e.Status, e.Detail)
}

// Client 呼叫上游分析服務的 /api/dashboard 與 /api/quality。
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 建立上游客戶端；timeout <= 0 時預設 10 秒。
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) call(ctx context.Context, path string, params url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.Detail != "" {
			apiErr.Detail = payload.Detail
		} else {
			apiErr.Detail = strings.TrimSpace(string(body))
		}
		return nil, apiErr
	}
	return body, nil
}

// FetchMetrics 取得指定區間的彙總指標。
func (c *Client) FetchMetrics(ctx context.Context, timeRange string) (metrics.AggregateMetrics, error) {
	params := url.Values{}
	params.Set("range", metrics.NormalizeRange(timeRange))
	body, err := c.call(ctx, "/api/dashboard", params)
	if err != nil {
		return metrics.AggregateMetrics{}, err
	}
	var m metrics.AggregateMetrics
	if err := json.Unmarshal(body, &m); err != nil {
		return metrics.AggregateMetrics{}, fmt.Errorf("decode dashboard payload: %w", err)
	}
	return m, nil
}

// FetchQuality 取得資料清洗稽核；上游以 200 加上 error 欄位表示報告不存在。
func (c *Client) FetchQuality(ctx context.Context) (*metrics.QualityReport, error) {
	body, err := c.call(ctx, "/api/quality", nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		metrics.QualityReport
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode quality payload: %w", err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrReportUnavailable, payload.Error)
	}
	report := payload.QualityReport
	return &report, nil
}

// Ping 以稽核端點確認上游可連線。
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.call(ctx, "/api/quality", nil)
	return err
}
