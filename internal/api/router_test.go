// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/rentpredict/internal/feedback"
	"github.com/tomtom215/rentpredict/internal/features"
	"github.com/tomtom215/rentpredict/internal/predict"
)

const validListing = `{
	"areaSqm": 45, "latitude": 52.0907, "longitude": 5.1214,
	"city": "Utrecht", "pc4": "3511 AB", "propertyType": "Apartment",
	"furnish": "Furnished", "internet": "Yes", "kitchen": "Own",
	"shower": "Own", "toilet": "Own", "living": "Own",
	"smokingInside": "No", "pets": "No"
}`

type fakePredictor struct {
	mu    sync.Mutex
	rent  float64
	err   error
	calls []features.Listing
}

func (f *fakePredictor) Predict(_ context.Context, in features.Listing) (predict.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, in)
	if f.err != nil {
		return predict.Result{}, f.err
	}
	return predict.Result{PredictedRent: f.rent}, nil
}

func (f *fakePredictor) Version() string { return "v7" }

func (f *fakePredictor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeFeedbackStore struct {
	mu      sync.Mutex
	records []feedback.Record
}

func (s *fakeFeedbackStore) Submit(_ context.Context, rec feedback.Record) (feedback.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ID = "fb-1"
	rec.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.records = append(s.records, rec)
	return rec, nil
}

func (s *fakeFeedbackStore) List(_ context.Context, limit int) ([]feedback.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > len(s.records) {
		limit = len(s.records)
	}
	return append([]feedback.Record(nil), s.records[:limit]...), nil
}

func newTestRouter(p Predictor, store FeedbackStore) http.Handler {
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	return NewRouter(NewHandler(p, store), NewChiMiddleware(cfg)).SetupChi()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestPredict_Success(t *testing.T) {
	t.Parallel()

	p := &fakePredictor{rent: 1133.46}
	w := do(t, newTestRouter(p, nil), http.MethodPost, "/predict", validListing)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var body map[string]float64
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 1 || body["predicted_rent"] != 1133.46 {
		t.Errorf("body = %v, want only predicted_rent 1133.46", body)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers not applied")
	}

	got := p.calls[0]
	if got.City != "Utrecht" || got.PC4 != "3511 AB" || got.AreaSqm != 45 {
		t.Errorf("listing passed raw to the service, got %+v", got)
	}
}

func TestPredict_LooseTypes(t *testing.T) {
	t.Parallel()

	p := &fakePredictor{rent: 1}
	body := strings.Replace(validListing, `"pc4": "3511 AB"`, `"pc4": 3511`, 1)
	body = strings.Replace(body, `"areaSqm": 45`, `"areaSqm": "45.5"`, 1)

	w := do(t, newTestRouter(p, nil), http.MethodPost, "/predict", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if got := p.calls[0]; got.PC4 != "3511" || got.AreaSqm != 45.5 {
		t.Errorf("listing = %+v, want pc4 \"3511\" and area 45.5", got)
	}
}

func TestPredict_EmptyStringIsPresent(t *testing.T) {
	t.Parallel()

	p := &fakePredictor{rent: 1}
	body := strings.Replace(validListing, `"pc4": "3511 AB"`, `"pc4": ""`, 1)

	w := do(t, newTestRouter(p, nil), http.MethodPost, "/predict", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestPredict_ClientErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "malformed json",
			body:       `{"areaSqm": 45,`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeBadRequest,
		},
		{
			name:       "empty body",
			body:       "",
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeBadRequest,
		},
		{
			name:       "missing field",
			body:       strings.Replace(validListing, `"pets": "No"`, `"other": "No"`, 1),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   ErrCodeValidationFailed,
			wantMsg:    "pets is required",
		},
		{
			name:       "null field",
			body:       strings.Replace(validListing, `"city": "Utrecht"`, `"city": null`, 1),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   ErrCodeValidationFailed,
		},
		{
			name:       "nan area",
			body:       strings.Replace(validListing, `"areaSqm": 45`, `"areaSqm": "NaN"`, 1),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   ErrCodeValidationFailed,
			wantMsg:    "areaSqm must be a finite number",
		},
		{
			name:       "non numeric area",
			body:       strings.Replace(validListing, `"areaSqm": 45`, `"areaSqm": "large"`, 1),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   ErrCodeValidationFailed,
		},
		{
			name:       "boolean city",
			body:       strings.Replace(validListing, `"city": "Utrecht"`, `"city": true`, 1),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   ErrCodeValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &fakePredictor{rent: 1}
			w := do(t, newTestRouter(p, nil), http.MethodPost, "/predict", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			resp := decodeEnvelope(t, w)
			if resp.Success || resp.Error == nil {
				t.Fatalf("expected error envelope, got %s", w.Body.String())
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Error.Code, tt.wantCode)
			}
			if tt.wantMsg != "" && resp.Error.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", resp.Error.Message, tt.wantMsg)
			}
			if resp.Error.RequestID == "" {
				t.Error("error envelope has no request_id")
			}
			if p.callCount() != 0 {
				t.Error("invalid request reached the prediction service")
			}
		})
	}
}

func TestPredict_ModelFailure(t *testing.T) {
	t.Parallel()

	p := &fakePredictor{err: errors.New("booster exploded")}
	w := do(t, newTestRouter(p, nil), http.MethodPost, "/predict", validListing)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	resp := decodeEnvelope(t, w)
	if resp.Error == nil || resp.Error.Code != ErrCodeInternalError {
		t.Errorf("error = %+v, want INTERNAL_ERROR", resp.Error)
	}
	if strings.Contains(w.Body.String(), "booster exploded") {
		t.Error("internal error text leaked to the client")
	}
}

func TestVersionAndHealth(t *testing.T) {
	t.Parallel()

	h := newTestRouter(&fakePredictor{}, nil)

	w := do(t, h, http.MethodGet, "/version", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != `{"model_version":"v7"}` {
		t.Errorf("/version = %d %s", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodGet, "/healthz", "")
	var health HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Code != http.StatusOK || health.Status != "ok" || health.ModelVersion != "v7" {
		t.Errorf("/healthz = %d %+v", w.Code, health)
	}
}

// Every JSON route is written by the same encoder and carries the same
// content type.
func TestJSONRoutes_ShareEncoder(t *testing.T) {
	t.Parallel()

	h := newTestRouter(&fakePredictor{}, nil)
	want := "application/json; charset=utf-8"

	for _, tc := range []struct {
		method, path, body string
	}{
		{http.MethodPost, "/predict", validListing},
		{http.MethodGet, "/version", ""},
		{http.MethodGet, "/healthz", ""},
	} {
		w := do(t, h, tc.method, tc.path, tc.body)
		if w.Code != http.StatusOK {
			t.Errorf("%s %s = %d", tc.method, tc.path, w.Code)
			continue
		}
		if got := w.Header().Get("Content-Type"); got != want {
			t.Errorf("%s %s Content-Type = %q, want %q", tc.method, tc.path, got, want)
		}
	}
}

func TestFeedback_Disabled(t *testing.T) {
	t.Parallel()

	h := newTestRouter(&fakePredictor{}, nil)
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		w := do(t, h, method, "/feedback", `{"predicted_rent": 1}`)
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s /feedback = %d, want 503", method, w.Code)
		}
		if resp := decodeEnvelope(t, w); resp.Error == nil || resp.Error.Code != ErrCodeServiceUnavailable {
			t.Errorf("%s /feedback error = %+v", method, resp.Error)
		}
	}
}

func TestFeedback_SubmitAndList(t *testing.T) {
	t.Parallel()

	store := &fakeFeedbackStore{}
	h := newTestRouter(&fakePredictor{}, store)

	w := do(t, h, http.MethodPost, "/feedback", `{"request_id":"req-1","predicted_rent":1133.46,"actual_rent":1200,"rating":4,"comment":"close"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, body %s", w.Code, w.Body.String())
	}
	if len(store.records) != 1 {
		t.Fatalf("stored %d records", len(store.records))
	}
	rec := store.records[0]
	if rec.ModelVersion != "v7" || rec.PredictedRent != 1133.46 || *rec.Rating != 4 || *rec.ActualRent != 1200 {
		t.Errorf("stored record = %+v", rec)
	}

	w = do(t, h, http.MethodGet, "/feedback?limit=10", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d", w.Code)
	}
	resp := decodeEnvelope(t, w)
	if resp.Meta == nil || resp.Meta.Count == nil || *resp.Meta.Count != 1 {
		t.Errorf("meta = %+v, want count 1", resp.Meta)
	}
}

func TestFeedback_Invalid(t *testing.T) {
	t.Parallel()

	store := &fakeFeedbackStore{}
	h := newTestRouter(&fakePredictor{}, store)

	tests := []struct {
		name string
		body string
	}{
		{"missing predicted rent", `{"rating": 3}`},
		{"rating out of range", `{"predicted_rent": 1000, "rating": 6}`},
		{"negative actual rent", `{"predicted_rent": 1000, "actual_rent": -1}`},
	}
	for _, tt := range tests {
		w := do(t, h, http.MethodPost, "/feedback", tt.body)
		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: status = %d, want 422", tt.name, w.Code)
		}
	}

	w := do(t, h, http.MethodGet, "/feedback?limit=abc", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad limit: status = %d, want 400", w.Code)
	}
	if len(store.records) != 0 {
		t.Errorf("invalid feedback was stored: %+v", store.records)
	}
}

func TestStaticAndMetrics(t *testing.T) {
	t.Parallel()

	h := newTestRouter(&fakePredictor{}, nil)

	w := do(t, h, http.MethodGet, "/", "")
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
		t.Errorf("GET / = %d %q", w.Code, w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), "/static/app.js") {
		t.Error("index page does not load app.js")
	}

	w = do(t, h, http.MethodGet, "/static/app.js", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/predict") {
		t.Errorf("GET /static/app.js = %d", w.Code)
	}

	w = do(t, h, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "pred_requests_total") {
		t.Errorf("GET /metrics = %d", w.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	w := do(t, newTestRouter(&fakePredictor{}, nil), http.MethodGet, "/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if resp := decodeEnvelope(t, w); resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 1
	cfg.RateLimitWindow = time.Minute
	h := NewRouter(NewHandler(&fakePredictor{rent: 1}, nil), NewChiMiddleware(cfg)).SetupChi()

	if w := do(t, h, http.MethodPost, "/predict", validListing); w.Code != http.StatusOK {
		t.Fatalf("first request = %d", w.Code)
	}
	if w := do(t, h, http.MethodPost, "/predict", validListing); w.Code != http.StatusTooManyRequests {
		t.Errorf("second request = %d, want 429", w.Code)
	}
	if w := do(t, h, http.MethodGet, "/version", ""); w.Code != http.StatusOK {
		t.Errorf("/version is not rate limited, got %d", w.Code)
	}
}
