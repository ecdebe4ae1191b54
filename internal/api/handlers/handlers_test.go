package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/enrichhq/enrichctl/internal/api/dto/common"
	"github.com/enrichhq/enrichctl/internal/credential"
	"github.com/enrichhq/enrichctl/internal/export"
	"github.com/enrichhq/enrichctl/internal/jobs"
	"github.com/enrichhq/enrichctl/internal/notice"
	"github.com/enrichhq/enrichctl/internal/remote"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool                  `json:"success"`
	Data    json.RawMessage       `json:"data"`
	Error   *common.ErrorResponse `json:"error"`
}

func perform(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

type mockTokenStore struct {
	listFunc   func(ctx context.Context) credential.ListResult
	createFunc func(ctx context.Context) (credential.CreateResult, error)
	revokeFunc func(ctx context.Context, id string) credential.RevokeResult
	revoked    []string
}

func (m *mockTokenStore) List(ctx context.Context) credential.ListResult {
	return m.listFunc(ctx)
}

func (m *mockTokenStore) Create(ctx context.Context) (credential.CreateResult, error) {
	return m.createFunc(ctx)
}

func (m *mockTokenStore) Revoke(ctx context.Context, id string) credential.RevokeResult {
	m.revoked = append(m.revoked, id)
	return m.revokeFunc(ctx, id)
}

func tokenRouter(store TokenStore) *gin.Engine {
	h := NewTokenHandler(store)
	r := gin.New()
	r.GET("/tokens", h.ListTokens)
	r.POST("/tokens", h.CreateToken)
	r.DELETE("/tokens/:id", h.RevokeToken)
	return r
}

func TestTokenHandler(t *testing.T) {
	t.Run("degraded list still answers 200 with a warning", func(t *testing.T) {
		store := &mockTokenStore{listFunc: func(context.Context) credential.ListResult {
			return credential.ListResult{
				Tokens:   []credential.APIToken{{ID: "a"}},
				Degraded: true,
				Notices:  []notice.Notice{notice.Warning("offline")},
			}
		}}
		w, env := perform(t, tokenRouter(store), http.MethodGet, "/tokens", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)

		var result credential.ListResult
		require.NoError(t, json.Unmarshal(env.Data, &result))
		assert.True(t, result.Degraded)
		require.Len(t, result.Notices, 1)
		assert.Equal(t, notice.LevelWarning, result.Notices[0].Level)
	})

	t.Run("create answers 201", func(t *testing.T) {
		store := &mockTokenStore{createFunc: func(context.Context) (credential.CreateResult, error) {
			return credential.CreateResult{Token: credential.APIToken{ID: "local-1"}, LocallyGenerated: true}, nil
		}}
		w, env := perform(t, tokenRouter(store), http.MethodPost, "/tokens", "")
		assert.Equal(t, http.StatusCreated, w.Code)

		var result credential.CreateResult
		require.NoError(t, json.Unmarshal(env.Data, &result))
		assert.Equal(t, "local-1", result.Token.ID)
		assert.True(t, result.LocallyGenerated)
	})

	t.Run("create failure answers 500", func(t *testing.T) {
		store := &mockTokenStore{createFunc: func(context.Context) (credential.CreateResult, error) {
			return credential.CreateResult{}, errors.New("disk full")
		}}
		w, env := perform(t, tokenRouter(store), http.MethodPost, "/tokens", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.False(t, env.Success)
	})

	t.Run("revoke of unknown id answers 200", func(t *testing.T) {
		store := &mockTokenStore{revokeFunc: func(context.Context, string) credential.RevokeResult {
			return credential.RevokeResult{Removed: false, Tokens: []credential.APIToken{}}
		}}
		w, env := perform(t, tokenRouter(store), http.MethodDelete, "/tokens/missing", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)
		assert.Equal(t, []string{"missing"}, store.revoked)
	})
}

type mockSnapshots struct {
	snapshot  jobs.Snapshot
	refreshed int
}

func (m *mockSnapshots) Snapshot() jobs.Snapshot { return m.snapshot }

func (m *mockSnapshots) Refresh(context.Context) jobs.Snapshot {
	m.refreshed++
	return m.snapshot
}

func sampleJobs() []jobs.Job {
	base := time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)
	out := make([]jobs.Job, 0, 12)
	for i := 0; i < 12; i++ {
		status := jobs.StatusCompleted
		if i%3 == 0 {
			status = jobs.StatusProcessing
		}
		out = append(out, jobs.Job{
			ID:        fmt.Sprintf("job-%02d", i),
			FileName:  fmt.Sprintf("leads-%02d.csv", i),
			Status:    status,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	return out
}

func batchRouter(snaps JobSnapshots) *gin.Engine {
	h := NewBatchHandler(snaps, 5)
	r := gin.New()
	r.GET("/batches", h.ListBatches)
	r.POST("/batches/refresh", h.RefreshBatches)
	return r
}

type listData struct {
	Page    jobs.Page       `json:"page"`
	Notices []notice.Notice `json:"notices"`
}

func TestBatchHandlerList(t *testing.T) {
	snaps := &mockSnapshots{snapshot: jobs.Snapshot{Jobs: sampleJobs(), RefreshedAt: time.Now()}}
	r := batchRouter(snaps)

	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantTotal int
		wantFirst string
	}{
		{name: "default sort newest first", query: "", wantPage: 1, wantTotal: 12, wantFirst: "job-11"},
		{name: "ascending by created_at", query: "?sort=created_at&dir=asc", wantPage: 1, wantTotal: 12, wantFirst: "job-00"},
		{name: "status filter", query: "?status=processing&dir=asc&sort=file_name", wantPage: 1, wantTotal: 4, wantFirst: "job-00"},
		{name: "search", query: "?search=LEADS-07", wantPage: 1, wantTotal: 1, wantFirst: "job-07"},
		{name: "page clamped to last", query: "?page=99", wantPage: 3, wantTotal: 12, wantFirst: "job-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := perform(t, r, http.MethodGet, "/batches"+tt.query, "")
			require.Equal(t, http.StatusOK, w.Code)

			var data listData
			require.NoError(t, json.Unmarshal(env.Data, &data))
			assert.Equal(t, tt.wantPage, data.Page.Number)
			assert.Equal(t, tt.wantTotal, data.Page.TotalItems)
			require.NotEmpty(t, data.Page.Items)
			assert.Equal(t, tt.wantFirst, data.Page.Items[0].ID)
			assert.Empty(t, data.Notices)
		})
	}
}

func TestBatchHandlerListRejectsBadQuery(t *testing.T) {
	r := batchRouter(&mockSnapshots{})

	for _, q := range []string{"?status=bogus", "?sort=nope", "?dir=sideways", "?page_size=1000"} {
		w, env := perform(t, r, http.MethodGet, "/batches"+q, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
		require.NotNil(t, env.Error)
		assert.Equal(t, string(common.ErrCodeValidation), env.Error.Code)
	}
}

func TestBatchHandlerStaleSnapshot(t *testing.T) {
	snaps := &mockSnapshots{snapshot: jobs.Snapshot{
		Jobs:        sampleJobs(),
		RefreshedAt: time.Now().Add(-time.Minute),
		Err:         errors.New("connection refused"),
	}}
	w, env := perform(t, batchRouter(snaps), http.MethodGet, "/batches", "")
	require.Equal(t, http.StatusOK, w.Code)

	var data listData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Notices, 1)
	assert.Equal(t, notice.LevelWarning, data.Notices[0].Level)
}

func TestBatchHandlerRefresh(t *testing.T) {
	t.Run("first refresh failing is an upstream error", func(t *testing.T) {
		snaps := &mockSnapshots{snapshot: jobs.Snapshot{Err: errors.New("down")}}
		w, env := perform(t, batchRouter(snaps), http.MethodPost, "/batches/refresh", "")
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, string(common.ErrCodeUpstream), env.Error.Code)
		assert.Equal(t, 1, snaps.refreshed)
	})

	t.Run("refresh returns page one", func(t *testing.T) {
		snaps := &mockSnapshots{snapshot: jobs.Snapshot{Jobs: sampleJobs(), RefreshedAt: time.Now()}}
		w, env := perform(t, batchRouter(snaps), http.MethodPost, "/batches/refresh", "")
		require.Equal(t, http.StatusOK, w.Code)

		var data listData
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, 1, data.Page.Number)
		assert.Len(t, data.Page.Items, 5)
	})
}

type mockExporter struct {
	exportFunc func(ctx context.Context, req export.Request) (export.Outcome, error)
	requests   []export.Request
}

func (m *mockExporter) Export(ctx context.Context, req export.Request) (export.Outcome, error) {
	m.requests = append(m.requests, req)
	return m.exportFunc(ctx, req)
}

func exportRouter(exporter Exporter) *gin.Engine {
	h := NewExportHandler(exporter, []string{"csv", "json"})
	r := gin.New()
	r.GET("/exports/destinations", h.ListDestinations)
	r.POST("/exports", h.Export)
	return r
}

func TestExportHandlerPartialFailure(t *testing.T) {
	exporter := &mockExporter{exportFunc: func(_ context.Context, req export.Request) (export.Outcome, error) {
		return export.Outcome{
			Destination: req.Destination,
			Succeeded:   []string{"a", "c"},
			Failed:      []export.Failure{{ID: "b", Reason: "timeout"}},
		}, nil
	}}

	w, env := perform(t, exportRouter(exporter), http.MethodPost, "/exports",
		`{"targets":["a","b","c"],"destination":"crm-push"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		RemainingSelection []string      `json:"remainingSelection"`
		Notice             notice.Notice `json:"notice"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, []string{"b"}, data.RemainingSelection)
	assert.Equal(t, notice.LevelWarning, data.Notice.Level)

	require.Len(t, exporter.requests, 1)
	assert.Equal(t, export.DestinationCRM, exporter.requests[0].Destination)
}

func TestExportHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   common.ErrorCode
	}{
		{"not completed", fmt.Errorf("%w: leads.csv", export.ErrJobNotCompleted), http.StatusBadRequest, common.ErrCodeValidation},
		{"validation", fmt.Errorf("%w: no jobs selected", export.ErrValidation), http.StatusBadRequest, common.ErrCodeValidation},
		{"not found", fmt.Errorf("%w: x", export.ErrJobNotFound), http.StatusNotFound, common.ErrCodeNotFound},
		{"remote failure", errors.New("503 from export service"), http.StatusBadGateway, common.ErrCodeExportFailed},
		{"rejected token", &remote.StatusError{StatusCode: http.StatusUnauthorized}, http.StatusUnauthorized, common.ErrCodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := &mockExporter{exportFunc: func(context.Context, export.Request) (export.Outcome, error) {
				return export.Outcome{}, tt.err
			}}
			w, env := perform(t, exportRouter(exporter), http.MethodPost, "/exports",
				`{"targets":["a"],"destination":"csv"}`)
			assert.Equal(t, tt.wantStatus, w.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, string(tt.wantCode), env.Error.Code)
		})
	}
}

func TestExportHandlerEmptySelection(t *testing.T) {
	exporter := &mockExporter{}
	w, _ := perform(t, exportRouter(exporter), http.MethodPost, "/exports", `{"targets":[],"destination":"csv"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, exporter.requests)
}

func TestExportHandlerMalformedBody(t *testing.T) {
	exporter := &mockExporter{}
	w, env := perform(t, exportRouter(exporter), http.MethodPost, "/exports", `{"targets":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, string(common.ErrCodeBadRequest), env.Error.Code)
	assert.Empty(t, exporter.requests)
}

func TestExportHandlerDestinations(t *testing.T) {
	w, env := perform(t, exportRouter(&mockExporter{}), http.MethodGet, "/exports/destinations", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"destinations":["csv","json"]}`, string(env.Data))
}
