package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/enrichhq/enrichctl/internal/cache"
	"github.com/enrichhq/enrichctl/internal/credential"
	"github.com/enrichhq/enrichctl/internal/export"
	"github.com/enrichhq/enrichctl/internal/jobs"
	"github.com/enrichhq/enrichctl/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthority struct {
	exported []string
}

func (f *fakeAuthority) ListTokens(context.Context) ([]credential.APIToken, error) {
	return []credential.APIToken{{ID: "remote-1", Secret: "s1", CreatedAt: time.Now()}}, nil
}

func (f *fakeAuthority) CreateToken(context.Context) (credential.APIToken, error) {
	return credential.APIToken{ID: "remote-2", Secret: "s2", CreatedAt: time.Now()}, nil
}

func (f *fakeAuthority) RevokeToken(context.Context, string) error { return nil }

func (f *fakeAuthority) ExportFile(_ context.Context, jobID, _, _ string) error {
	f.exported = append(f.exported, jobID)
	return nil
}

func (f *fakeAuthority) PushIntegration(context.Context, string, string) error { return nil }

type staticSource []jobs.Job

func (s staticSource) ListJobs(context.Context) ([]jobs.Job, error) { return s, nil }

func newTestServer(t *testing.T) (*Server, *fakeAuthority) {
	t.Helper()
	logger := logging.NewDiscard()
	authority := &fakeAuthority{}

	poller := jobs.NewPoller(staticSource{
		{ID: "done", FileName: "done.csv", Status: jobs.StatusCompleted, CreatedAt: time.Now()},
		{ID: "busy", FileName: "busy.csv", Status: jobs.StatusProcessing, CreatedAt: time.Now()},
	}, logger)
	poller.Refresh(context.Background())

	registry := export.NewRegistry(authority)
	orchestrator := export.NewOrchestrator(registry, poller, export.Options{Logger: logger})

	server := NewServer(Deps{
		Tokens:       credential.NewStore(authority, cache.NewMemoryKV(), logger),
		Jobs:         poller,
		Exporter:     orchestrator,
		Destinations: registry.Destinations(),
	}, Options{AllowedOrigins: []string{"*"}, Logger: logger})
	return server, authority
}

func TestServerRoutes(t *testing.T) {
	server, authority := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"list tokens", http.MethodGet, "/api/v1/tokens", "", http.StatusOK},
		{"create token", http.MethodPost, "/api/v1/tokens", "", http.StatusCreated},
		{"revoke token", http.MethodDelete, "/api/v1/tokens/remote-1", "", http.StatusOK},
		{"list batches", http.MethodGet, "/api/v1/batches?status=completed", "", http.StatusOK},
		{"destinations", http.MethodGet, "/api/v1/exports/destinations", "", http.StatusOK},
		{"export completed", http.MethodPost, "/api/v1/exports", `{"targets":["done"],"destination":"csv"}`, http.StatusOK},
		{"export processing", http.MethodPost, "/api/v1/exports", `{"targets":["busy"],"destination":"csv"}`, http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			w := httptest.NewRecorder()
			server.Handler().ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}

	assert.Equal(t, []string{"done"}, authority.exported)
}

func TestServerDestinationsListed(t *testing.T) {
	server, _ := newTestServer(t)

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/exports/destinations", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Destinations []string `json:"destinations"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Data.Destinations, "csv")
	assert.Contains(t, body.Data.Destinations, "crm-push")
}
