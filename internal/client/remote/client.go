package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pocketledger/pocketledger-go/internal/client/models"
	"github.com/pocketledger/pocketledger-go/internal/common"
	"github.com/pocketledger/pocketledger-go/internal/logging"
)

const defaultRequestTimeout = 15 * time.Second

// tokenExpiredCode is the row-store's error code for an expired JWT.
const tokenExpiredCode = "PGRST301"

// RESTClient talks to a PostgREST-style row-store. Every request carries the
// store's public key and the caller's bearer token; inserts use
// merge-duplicates semantics so upserts are idempotent by row id.
type RESTClient struct {
	baseURL string
	anonKey string
	token   TokenFunc
	http    *http.Client
	log     logging.Logger
}

func NewRESTClient(baseURL, anonKey string, token TokenFunc, log logging.Logger) *RESTClient {
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		token:   token,
		http:    &http.Client{Timeout: defaultRequestTimeout},
		log:     log.With("component", "remote"),
	}
}

func tableFor(kind models.EntityKind) (string, bool) {
	switch kind {
	case models.EntityContact:
		return "contacts", true
	case models.EntityTransaction:
		return "transactions", true
	case models.EntityBudget:
		return "budgets", true
	case models.EntityBudgetItem:
		return "budget_items", true
	}
	return "", false
}

func (c *RESTClient) EnsureUser(ctx context.Context, externalID string) (string, error) {
	query := url.Values{"on_conflict": {"external_id"}}
	body := []appUserRow{{ExternalID: externalID}}

	var out []appUserRow
	err := c.do(ctx, http.MethodPost, "/rest/v1/app_users", query, body, &out, "resolution=merge-duplicates,return=representation")
	if err != nil {
		return "", fmt.Errorf("ensure user: %w", err)
	}
	if len(out) == 0 || out[0].ID == "" {
		return "", fmt.Errorf("ensure user: %w: empty representation", common.ErrRemoteRejected)
	}
	return out[0].ID, nil
}

func (c *RESTClient) UpsertContact(ctx context.Context, userID string, v *models.Contact) error {
	return c.upsert(ctx, "contacts", []contactRow{contactToRow(userID, v)})
}

func (c *RESTClient) UpsertTransaction(ctx context.Context, userID string, v *models.Transaction) error {
	return c.upsert(ctx, "transactions", []transactionRow{transactionToRow(userID, v)})
}

func (c *RESTClient) UpsertBudget(ctx context.Context, userID string, v *models.Budget) error {
	return c.upsert(ctx, "budgets", []budgetRow{budgetToRow(userID, v)})
}

func (c *RESTClient) UpsertBudgetItem(ctx context.Context, userID string, v *models.BudgetItem) error {
	return c.upsert(ctx, "budget_items", []budgetItemRow{budgetItemToRow(userID, v)})
}

func (c *RESTClient) upsert(ctx context.Context, table string, rows any) error {
	err := c.do(ctx, http.MethodPost, "/rest/v1/"+table, nil, rows, nil, "resolution=merge-duplicates,return=minimal")
	if err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	return nil
}

func (c *RESTClient) Delete(ctx context.Context, userID string, kind models.EntityKind, id string) error {
	table, ok := tableFor(kind)
	if !ok {
		return fmt.Errorf("delete: unknown entity kind %q", kind)
	}

	query := url.Values{
		"id":      {"eq." + id},
		"user_id": {"eq." + userID},
	}
	if err := c.do(ctx, http.MethodDelete, "/rest/v1/"+table, query, nil, nil, ""); err != nil {
		return fmt.Errorf("delete %s/%s: %w", table, id, err)
	}
	return nil
}

func (c *RESTClient) SnapshotContacts(ctx context.Context, userID string) ([]*models.Contact, error) {
	var rows []contactRow
	if err := c.list(ctx, "contacts", userID, "*", &rows); err != nil {
		return nil, err
	}
	result := make([]*models.Contact, 0, len(rows))
	for _, r := range rows {
		result = append(result, rowToContact(r))
	}
	return result, nil
}

func (c *RESTClient) SnapshotTransactions(ctx context.Context, userID string) ([]*models.Transaction, error) {
	var rows []transactionRow
	if err := c.list(ctx, "transactions", userID, "*", &rows); err != nil {
		return nil, err
	}
	result := make([]*models.Transaction, 0, len(rows))
	for _, r := range rows {
		result = append(result, rowToTransaction(r))
	}
	return result, nil
}

func (c *RESTClient) SnapshotBudgets(ctx context.Context, userID string) ([]*models.Budget, error) {
	var rows []budgetRow
	if err := c.list(ctx, "budgets", userID, "*,budget_items(*)", &rows); err != nil {
		return nil, err
	}
	result := make([]*models.Budget, 0, len(rows))
	for _, r := range rows {
		result = append(result, rowToBudget(r))
	}
	return result, nil
}

func (c *RESTClient) list(ctx context.Context, table, userID, sel string, out any) error {
	query := url.Values{
		"user_id": {"eq." + userID},
		"select":  {sel},
	}
	if err := c.do(ctx, http.MethodGet, "/rest/v1/"+table, query, nil, out, ""); err != nil {
		return fmt.Errorf("snapshot %s: %w", table, err)
	}
	return nil
}

// do executes one request: marshal body, attach auth headers, classify the
// outcome. out, when non-nil, receives the decoded JSON response.
func (c *RESTClient) do(ctx context.Context, method, path string, query url.Values, body, out any, prefer string) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return err
	}

	token, err := c.token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransportErr(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyStatus(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func classifyTransportErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", common.ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", common.ErrTimeout, err)
	}
	// connection-level failure with no response: the store is unreachable,
	// not rejecting us
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", common.ErrOffline, err)
	}
	return err
}

// classifyStatus maps a non-2xx response onto the error taxonomy. 401/403,
// the store's expired-JWT code, and expiry-flavored message bodies all count
// as expiry-class so the credential manager can refresh once and retry.
func classifyStatus(status int, body []byte) error {
	text := strings.ToLower(string(body))

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return fmt.Errorf("%w: status %d: %s", common.ErrTokenExpired, status, strings.TrimSpace(string(body)))
	}
	if strings.Contains(string(body), tokenExpiredCode) ||
		strings.Contains(text, "jwt expired") ||
		strings.Contains(text, "token expired") {
		return fmt.Errorf("%w: status %d: %s", common.ErrTokenExpired, status, strings.TrimSpace(string(body)))
	}

	return fmt.Errorf("%w: status %d: %s", common.ErrRemoteRejected, status, strings.TrimSpace(string(body)))
}
