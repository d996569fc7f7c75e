package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketledger/pocketledger-go/internal/client/models"
	"github.com/pocketledger/pocketledger-go/internal/common"
	"github.com/pocketledger/pocketledger-go/internal/logging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticToken(token string) TokenFunc {
	return func(ctx context.Context) (string, error) { return token, nil }
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *RESTClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRESTClient(srv.URL, "anon-key", staticToken("tok-1"), logging.NewDiscardLogger())
}

func TestUpsertContact_SendsAuthAndMergeDuplicates(t *testing.T) {
	var gotReq *http.Request
	var gotBody []contactRow

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(r.Context())
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	})

	contact := &models.Contact{ID: "c1", Name: "Alice"}
	contact.Touch(100)
	require.NoError(t, c.UpsertContact(context.Background(), "u1", contact))

	assert.Equal(t, "/rest/v1/contacts", gotReq.URL.Path)
	assert.Equal(t, "anon-key", gotReq.Header.Get("apikey"))
	assert.Equal(t, "Bearer tok-1", gotReq.Header.Get("Authorization"))
	assert.Contains(t, gotReq.Header.Get("Prefer"), "resolution=merge-duplicates")

	require.Len(t, gotBody, 1)
	assert.Equal(t, "c1", gotBody[0].ID)
	assert.Equal(t, "u1", gotBody[0].UserID)
	assert.EqualValues(t, 100, gotBody[0].UpdatedAt)
}

func TestDelete_ScopesByUserAndID(t *testing.T) {
	var gotURL string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Delete(context.Background(), "u1", models.EntityTransaction, "t9"))

	assert.Contains(t, gotURL, "/rest/v1/transactions")
	assert.Contains(t, gotURL, "id=eq.t9")
	assert.Contains(t, gotURL, "user_id=eq.u1")
}

func TestSnapshotBudgets_JoinsItems(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "budget_items")
		_, _ = w.Write([]byte(`[
			{"id":"b1","user_id":"u1","title":"May","total_budget":80,"period_start":1,"period_end":2,"updated_at":200,
			 "budget_items":[{"id":"i1","user_id":"u1","budget_id":"b1","title":"food","amount":30,"position":0,"updated_at":150}]}
		]`))
	})

	budgets, err := c.SnapshotBudgets(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, budgets, 1)

	b := budgets[0]
	assert.True(t, b.Synced, "snapshot records arrive synced")
	assert.True(t, b.TotalBudget.Equal(decimal.NewFromInt(80)))
	require.Len(t, b.Items, 1)
	assert.True(t, b.Items[0].Synced)
	assert.Equal(t, "b1", b.Items[0].BudgetID)
}

func TestEnsureUser_ReturnsCloudUserID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/app_users", r.URL.Path)
		assert.Contains(t, r.URL.RawQuery, "on_conflict=external_id")
		_, _ = w.Write([]byte(`[{"id":"cloud-7","external_id":"idp-sub-1"}]`))
	})

	id, err := c.EnsureUser(context.Background(), "idp-sub-1")
	require.NoError(t, err)
	assert.Equal(t, "cloud-7", id)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "401 is expiry-class", status: 401, body: `{"message":"bad"}`, want: common.ErrTokenExpired},
		{name: "403 is expiry-class", status: 403, body: ``, want: common.ErrTokenExpired},
		{name: "PGRST301 is expiry-class", status: 500, body: `{"code":"PGRST301"}`, want: common.ErrTokenExpired},
		{name: "jwt expired text is expiry-class", status: 400, body: `jwt expired`, want: common.ErrTokenExpired},
		{name: "other non-2xx is remote rejection", status: 422, body: `{"message":"constraint"}`, want: common.ErrRemoteRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			contact := &models.Contact{ID: "c1", Name: "x"}
			err := c.UpsertContact(context.Background(), "u1", contact)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
