// Package client is the REST client for the licorera backend. It owns no
// state beyond connection settings; callers cache what they need.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"licorera-pos/config"
	"licorera-pos/model"
)

// APIError is a non-2xx answer from the backend. Detail carries the
// backend's own message, which is authoritative over any local pre-check.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Detail, e.StatusCode)
	}
	return fmt.Sprintf("api: status %d", e.StatusCode)
}

type Client struct {
	baseURL  string
	adminKey string
	http     *http.Client
	log      *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(cfg *config.Config, opts ...Option) *Client {
	c := &Client{
		baseURL:  config.NormalizeAPIBase(cfg.APIBase),
		adminKey: cfg.AdminKey,
		http:     &http.Client{Timeout: cfg.HTTPTimeout},
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// privileged marks requests that must carry the X-API-Key header. Catalog
// reads and sale writes deliberately do not.
const (
	public     = false
	privileged = true
)

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, priv bool) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if priv {
		req.Header.Set("X-API-Key", c.adminKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) apiError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Detail = body.Detail
	}
	c.log.Warn("backend rejected request",
		zap.Int("status", resp.StatusCode),
		zap.String("detail", apiErr.Detail))
	return apiErr
}

/* -------- Products -------- */

// FetchProducts lists the catalog, optionally filtered server-side by a
// name substring.
func (c *Client) FetchProducts(ctx context.Context, q string) ([]model.Product, error) {
	query := url.Values{}
	if q != "" {
		query.Set("q", q)
	}
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/products", query, nil, &products, public); err != nil {
		return nil, err
	}
	return products, nil
}

type ProductCreate struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Cost  float64 `json:"cost_per_unit"`
	Stock int     `json:"stock"`
}

func (c *Client) CreateProduct(ctx context.Context, req ProductCreate) (model.Product, error) {
	var p model.Product
	err := c.do(ctx, http.MethodPost, "/products", nil, req, &p, privileged)
	return p, err
}

type ProductPatch struct {
	Name  *string  `json:"name,omitempty"`
	Price *float64 `json:"price,omitempty"`
	Cost  *float64 `json:"cost_per_unit,omitempty"`
}

func (c *Client) UpdateProduct(ctx context.Context, id int, patch ProductPatch) (model.Product, error) {
	var p model.Product
	err := c.do(ctx, http.MethodPut, "/products/"+strconv.Itoa(id), nil, patch, &p, privileged)
	return p, err
}

func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	var out struct {
		OK bool `json:"ok"`
	}
	return c.do(ctx, http.MethodDelete, "/products/"+strconv.Itoa(id), nil, nil, &out, privileged)
}

/* -------- Inventory -------- */

// AdjustStock applies a signed stock delta outside the POS flow.
func (c *Client) AdjustStock(ctx context.Context, productID, qty int, note string) (model.StockAdjustResult, error) {
	req := model.StockAdjustRequest{ProductID: productID, Qty: qty, Note: note}
	var out model.StockAdjustResult
	err := c.do(ctx, http.MethodPost, "/inventory/adjust", nil, req, &out, privileged)
	return out, err
}

/* -------- Sales -------- */

// CreateSale submits the sale. The returned total is the backend's, not the
// terminal's local derivation.
func (c *Client) CreateSale(ctx context.Context, req model.SaleRequest) (model.SaleResult, error) {
	var out model.SaleResult
	if err := c.do(ctx, http.MethodPost, "/sales", nil, req, &out, public); err != nil {
		return model.SaleResult{}, err
	}
	c.log.Info("sale registered",
		zap.Int("sale_id", out.SaleID),
		zap.Int64("total", out.Total))
	return out, nil
}

func (c *Client) FetchSalesReport(ctx context.Context, f model.ReportFilter) ([]model.SaleRow, error) {
	query := url.Values{}
	if f.Start != "" {
		query.Set("start", f.Start)
	}
	if f.End != "" {
		query.Set("end", f.End)
	}
	if f.PaymentMethod != "" {
		query.Set("payment_method", f.PaymentMethod)
	}
	if f.StaffID != 0 {
		query.Set("staff_id", strconv.Itoa(f.StaffID))
	}
	if f.Query != "" {
		query.Set("q", f.Query)
	}
	if f.Limit != 0 {
		query.Set("limit", strconv.Itoa(f.Limit))
	}
	var out struct {
		Rows []model.SaleRow `json:"rows"`
	}
	if err := c.do(ctx, http.MethodGet, "/sales", query, nil, &out, public); err != nil {
		return nil, err
	}
	return out.Rows, nil
}

func (c *Client) FetchSaleDetail(ctx context.Context, id int) (model.SaleDetail, error) {
	var out model.SaleDetail
	err := c.do(ctx, http.MethodGet, "/sales/"+strconv.Itoa(id), nil, nil, &out, public)
	return out, err
}

// ExportSalesCSV streams the report export; the payload is an opaque CSV
// blob produced by the backend.
func (c *Client) ExportSalesCSV(ctx context.Context, f model.ReportFilter) ([]byte, error) {
	query := url.Values{}
	if f.Start != "" {
		query.Set("start", f.Start)
	}
	if f.End != "" {
		query.Set("end", f.End)
	}
	if f.PaymentMethod != "" {
		query.Set("payment_method", f.PaymentMethod)
	}
	if f.StaffID != 0 {
		query.Set("staff_id", strconv.Itoa(f.StaffID))
	}

	u := c.baseURL + "/sales/export?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET /sales/export: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(resp)
	}
	return io.ReadAll(resp.Body)
}

/* -------- Stats / Settings -------- */

func (c *Client) FetchDashboardStats(ctx context.Context) (model.DashboardStats, error) {
	var out model.DashboardStats
	err := c.do(ctx, http.MethodGet, "/stats/dashboard", nil, nil, &out, public)
	return out, err
}

func (c *Client) FetchSettings(ctx context.Context) (model.Settings, error) {
	var out model.Settings
	err := c.do(ctx, http.MethodGet, "/settings", nil, nil, &out, public)
	return out, err
}

func (c *Client) UpdateSettings(ctx context.Context, patch map[string]any) (model.Settings, error) {
	var out model.Settings
	err := c.do(ctx, http.MethodPut, "/settings", nil, patch, &out, privileged)
	return out, err
}

/* -------- License -------- */

func (c *Client) LicenseStatus(ctx context.Context) (model.LicenseStatus, error) {
	var out model.LicenseStatus
	err := c.do(ctx, http.MethodGet, "/license/status", nil, nil, &out, public)
	return out, err
}

// ActivateLicense sends the activation code as entered; normalization is the
// caller's concern.
func (c *Client) ActivateLicense(ctx context.Context, code string) error {
	body := map[string]string{"code": code}
	return c.do(ctx, http.MethodPost, "/license/activate", nil, body, nil, public)
}

func (c *Client) ResetLicense(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/license/reset", nil, nil, nil, public)
}

// BaseURL reports the normalized backend base, mainly for logs.
func (c *Client) BaseURL() string {
	return c.baseURL
}
