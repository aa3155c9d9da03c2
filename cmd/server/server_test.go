package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Simplici0/webquote/internal/auth"
	"github.com/Simplici0/webquote/internal/currency"
	"github.com/Simplici0/webquote/internal/db"
	"github.com/Simplici0/webquote/internal/estimate"
	"github.com/Simplici0/webquote/internal/migrations"
	"github.com/Simplici0/webquote/internal/pricing"
	"github.com/Simplici0/webquote/internal/store"
	"github.com/Simplici0/webquote/internal/teamrates"
)

const testSecret = "test-secret"

type staticFX struct{}

func (staticFX) Snapshot(context.Context) currency.Snapshot { return currency.Static() }

func newTestServer(t *testing.T) *server {
	t.Helper()

	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})
	if err := migrations.Up(context.Background(), database); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	st := store.New(database)
	svc := estimate.NewService(estimate.Options{
		Team:   teamrates.Default(),
		Roles:  st,
		FX:     staticFX{},
		Logger: zerolog.Nop(),
	})
	return &server{svc: svc, store: st, fx: staticFX{}, tokenSecret: testSecret, log: zerolog.Nop()}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	token, err := auth.Sign(testSecret, "tests", time.Now())
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

const landingRequest = `{
	"title": "Launch page",
	"notes": "spring campaign",
	"answers": {"project_type": "landing_page", "tier": "simple", "hourly_rate": 100}
}`

func TestHealthIsPublic(t *testing.T) {
	h := newTestServer(t).routes()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
}

func TestAPIRequiresValidToken(t *testing.T) {
	h := newTestServer(t).routes()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/rates", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", rr.Code)
	}

	forged, err := auth.Sign("other-secret", "tests", time.Now())
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rates", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for forged token, got %d", rr.Code)
	}
}

func TestRatesAndFX(t *testing.T) {
	h := newTestServer(t).routes()

	rr := do(t, h, http.MethodGet, "/api/v1/rates", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var rates ratesResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &rates); err != nil {
		t.Fatalf("decode rates: %v", err)
	}
	if rates.Table.Version == "" || len(rates.Currencies) != 5 || rates.MaxHourlyRate != 500 {
		t.Fatalf("unexpected rates response: %+v", rates)
	}

	rr = do(t, h, http.MethodGet, "/api/v1/fx", "")
	var snap currency.Snapshot
	if err := json.Unmarshal(rr.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode fx: %v", err)
	}
	if snap.Base != currency.USD || snap.Rates[currency.EUR] != 0.92 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestCreateListAndFetchEstimate(t *testing.T) {
	h := newTestServer(t).routes()

	rr := do(t, h, http.MethodPost, "/api/v1/estimates", landingRequest)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var created estimate.Estimate
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode estimate: %v", err)
	}
	if created.ID == "" || created.Result == nil || created.Result.TotalCost != 2400 {
		t.Fatalf("unexpected estimate: %+v", created)
	}
	if loc := rr.Header().Get("Location"); loc != "/api/v1/estimates/"+created.ID {
		t.Fatalf("unexpected location %q", loc)
	}

	rr = do(t, h, http.MethodGet, "/api/v1/estimates?q=spring", "")
	var items []store.Summary
	if err := json.Unmarshal(rr.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(items) != 1 || items[0].ID != created.ID || items[0].TotalCost != 2400 {
		t.Fatalf("unexpected list: %+v", items)
	}

	rr = do(t, h, http.MethodGet, "/api/v1/estimates?q=winter", "")
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("expected empty list, got %s", rr.Body.String())
	}

	rr = do(t, h, http.MethodGet, "/api/v1/estimates/"+created.ID, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var fetched estimate.Estimate
	if err := json.Unmarshal(rr.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("decode estimate: %v", err)
	}
	if fetched.Result.TotalCost != created.Result.TotalCost || fetched.Title != "Launch page" {
		t.Fatalf("fetched estimate differs: %+v", fetched)
	}

	rr = do(t, h, http.MethodGet, "/api/v1/estimates/missing", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestHandleEstimateTextReturnsPlainText(t *testing.T) {
	srv := newTestServer(t)
	rr := do(t, srv.routes(), http.MethodPost, "/api/v1/estimates", landingRequest)
	var created estimate.Estimate
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode estimate: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/estimates/"+created.ID+"/text", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", created.ID)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rr = httptest.NewRecorder()
	srv.handleEstimateText(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("expected text/plain content type, got %q", rr.Header().Get("Content-Type"))
	}

	body := rr.Body.String()
	for _, expected := range []string{"Launch page", "Total: 2400.00 USD", "Payment plan (50/50):", "Notes:"} {
		if !strings.Contains(body, expected) {
			t.Fatalf("expected body to contain %q, got: %s", expected, body)
		}
	}
}

func TestCalculateEndpoint(t *testing.T) {
	h := newTestServer(t).routes()

	rr := do(t, h, http.MethodPost, "/api/v1/calculate", `{
		"input": {"project_type": "landing_page", "tier": "simple", "hourly_rate": 100},
		"target": "GBP"
	}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var res pricing.Result
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.Currency != currency.GBP || res.TotalCost != 1896 {
		t.Fatalf("unexpected result: currency=%s total=%v", res.Currency, res.TotalCost)
	}
}

func TestCalculateRejectsBadRequests(t *testing.T) {
	h := newTestServer(t).routes()

	cases := map[string]string{
		"unknown tier":   `{"input": {"project_type": "landing_page", "tier": "enterprise", "hourly_rate": 100}}`,
		"bad currency":   `{"input": {"project_type": "landing_page", "tier": "simple", "hourly_rate": 100}, "target": "JPY"}`,
		"malformed json": `{"input": `,
		"unknown field":  `{"inputs": {}}`,
	}
	for name, body := range cases {
		rr := do(t, h, http.MethodPost, "/api/v1/calculate", body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", name, rr.Code)
		}
	}
}
