// Package client is the HTTP client the TUI and CLI commands use to talk to
// a running microbooks server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/microbooks/microbooks/internal/engine"
	"github.com/microbooks/microbooks/internal/ledger"
	"github.com/microbooks/microbooks/internal/store"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) CreateAccount(ctx context.Context, acct *ledger.Account) (*ledger.Account, error) {
	body := map[string]any{
		"code":            acct.Code,
		"name":            acct.Name,
		"type":            acct.Type,
		"sub_type":        acct.SubType,
		"role":            acct.Role,
		"opening_balance": acct.OpeningBalance.String(),
		"parent_code":     acct.ParentCode,
		"is_posting":      acct.IsPosting,
	}
	var result ledger.Account
	if err := c.post(ctx, "/api/v1/accounts", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListAccounts(ctx context.Context, typ ledger.AccountType, postingOnly bool) ([]ledger.Account, error) {
	params := url.Values{}
	if typ != "" {
		params.Set("type", string(typ))
	}
	if postingOnly {
		params.Set("posting", "true")
	}
	var result []ledger.Account
	if err := c.get(ctx, "/api/v1/accounts?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetAccount(ctx context.Context, id string) (*ledger.Account, error) {
	var result ledger.Account
	if err := c.get(ctx, "/api/v1/accounts/"+url.PathEscape(id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type BalanceResponse struct {
	AccountID string      `json:"account_id"`
	AsOf      ledger.Date `json:"as_of"`
	Balance   string      `json:"balance"`
	Formatted string      `json:"formatted"`
}

func (c *Client) GetAccountBalance(ctx context.Context, id string, asOf ledger.Date) (*BalanceResponse, error) {
	path := "/api/v1/accounts/" + url.PathEscape(id) + "/balance"
	if asOf != "" {
		path += "?as_of=" + url.QueryEscape(string(asOf))
	}
	var result BalanceResponse
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetAccountLedger(ctx context.Context, id string, from, to ledger.Date) (*engine.Statement, error) {
	path := "/api/v1/accounts/" + url.PathEscape(id) + "/ledger?" + periodQuery(from, to)
	var result engine.Statement
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type AccountUpdateRequest struct {
	Name           *string        `json:"name,omitempty"`
	Status         *ledger.Status `json:"status,omitempty"`
	OpeningBalance *string        `json:"opening_balance,omitempty"`
}

func (c *Client) UpdateAccount(ctx context.Context, id string, upd AccountUpdateRequest) (*ledger.Account, error) {
	var result ledger.Account
	if err := c.patch(ctx, "/api/v1/accounts/"+url.PathEscape(id), upd, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DeleteAccount(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/accounts/"+url.PathEscape(id))
}

// CreateDocumentResult pairs the stored document with the advisory warnings
// the server's balance check produced.
type CreateDocumentResult struct {
	Document any
	Warnings []engine.Warning
}

func (c *Client) CreateDocument(ctx context.Context, kind ledger.SourceKind, doc any) (*CreateDocumentResult, error) {
	var raw struct {
		Document json.RawMessage  `json:"document"`
		Warnings []engine.Warning `json:"warnings"`
	}
	if err := c.post(ctx, "/api/v1/documents/"+url.PathEscape(string(kind)), doc, &raw); err != nil {
		return nil, err
	}
	stored, err := ledger.NewDocument(kind)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw.Document, stored); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &CreateDocumentResult{Document: stored, Warnings: raw.Warnings}, nil
}

func (c *Client) ListDocuments(ctx context.Context, kind ledger.SourceKind, from, to ledger.Date) ([]store.DocumentSummary, error) {
	params := url.Values{}
	if kind != "" {
		params.Set("kind", string(kind))
	}
	if from != "" {
		params.Set("from", string(from))
	}
	if to != "" {
		params.Set("to", string(to))
	}
	var result []store.DocumentSummary
	if err := c.get(ctx, "/api/v1/documents?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetDocument(ctx context.Context, ref ledger.SourceRef) (any, error) {
	doc, err := ledger.NewDocument(ref.Kind)
	if err != nil {
		return nil, err
	}
	path := "/api/v1/documents/" + url.PathEscape(string(ref.Kind)) + "/" + url.PathEscape(ref.ID)
	if err := c.get(ctx, path, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Client) DeleteDocument(ctx context.Context, ref ledger.SourceRef) error {
	path := "/api/v1/documents/" + url.PathEscape(string(ref.Kind)) + "/" + url.PathEscape(ref.ID)
	return c.del(ctx, path)
}

func (c *Client) TrialBalance(ctx context.Context, from, to ledger.Date) (*engine.TrialBalance, error) {
	var result engine.TrialBalance
	if err := c.get(ctx, "/api/v1/reports/trial-balance?"+periodQuery(from, to), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) LedgerSummary(ctx context.Context, from, to ledger.Date) (*engine.LedgerSummary, error) {
	var result engine.LedgerSummary
	if err := c.get(ctx, "/api/v1/reports/gl-summary?"+periodQuery(from, to), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ProfitAndLoss(ctx context.Context, from, to ledger.Date) (*engine.ProfitAndLoss, error) {
	var result engine.ProfitAndLoss
	if err := c.get(ctx, "/api/v1/reports/pnl?"+periodQuery(from, to), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) BalanceSheet(ctx context.Context, asOf ledger.Date) (*engine.BalanceSheet, error) {
	path := "/api/v1/reports/balance-sheet"
	if asOf != "" {
		path += "?as_of=" + url.QueryEscape(string(asOf))
	}
	var result engine.BalanceSheet
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Receivables(ctx context.Context, from, to ledger.Date) (*engine.PartnerSummary, error) {
	var result engine.PartnerSummary
	if err := c.get(ctx, "/api/v1/reports/receivables?"+periodQuery(from, to), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Payables(ctx context.Context, from, to ledger.Date) (*engine.PartnerSummary, error) {
	var result engine.PartnerSummary
	if err := c.get(ctx, "/api/v1/reports/payables?"+periodQuery(from, to), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) SalesByCustomer(ctx context.Context, from, to ledger.Date) (*engine.SalesReport, error) {
	var result engine.SalesReport
	if err := c.get(ctx, "/api/v1/reports/sales-by-customer?"+periodQuery(from, to), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) SalesByItem(ctx context.Context, from, to ledger.Date) (*engine.SalesReport, error) {
	var result engine.SalesReport
	if err := c.get(ctx, "/api/v1/reports/sales-by-item?"+periodQuery(from, to), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Warnings(ctx context.Context) ([]engine.Warning, error) {
	var result []engine.Warning
	if err := c.get(ctx, "/api/v1/reports/warnings", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetChart(ctx context.Context) ([]ledger.Account, error) {
	var result []ledger.Account
	if err := c.get(ctx, "/api/v1/chart", &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Ping checks if the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/v1/chart", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func periodQuery(from, to ledger.Date) string {
	params := url.Values{}
	if from != "" {
		params.Set("from", string(from))
	}
	if to != "" {
		params.Set("to", string(to))
	}
	return params.Encode()
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.doRequest(req, result)
}

func (c *Client) del(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, "DELETE", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		var apiErr apiError
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

func (c *Client) patch(ctx context.Context, path string, body any, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "PATCH", c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doRequest(req, result)
}

func (c *Client) post(ctx context.Context, path string, body any, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doRequest(req, result)
}

type apiError struct {
	Error string `json:"error"`
}

func (c *Client) doRequest(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	if result != nil {
		if err := json.Unmarshal(bodyBytes, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
