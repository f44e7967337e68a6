// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/tomtom215/rentpredict/internal/feedback"
	"github.com/tomtom215/rentpredict/internal/features"
	"github.com/tomtom215/rentpredict/internal/logging"
	"github.com/tomtom215/rentpredict/internal/metrics"
	"github.com/tomtom215/rentpredict/internal/predict"
)

// Predictor serves predictions. *predict.Service implements it.
type Predictor interface {
	Predict(ctx context.Context, in features.Listing) (predict.Result, error)
	Version() string
}

// FeedbackStore stores feedback. *feedback.Store implements it.
type FeedbackStore interface {
	Submit(ctx context.Context, rec feedback.Record) (feedback.Record, error)
	List(ctx context.Context, limit int) ([]feedback.Record, error)
}

// Handler holds the HTTP handlers.
type Handler struct {
	predictor Predictor
	feedback  FeedbackStore
}

// NewHandler creates the handlers. A nil store disables the feedback routes.
func NewHandler(predictor Predictor, store FeedbackStore) *Handler {
	return &Handler{predictor: predictor, feedback: store}
}

// PredictResponse is the POST /predict success body.
type PredictResponse struct {
	PredictedRent float64 `json:"predicted_rent"`
}

// VersionResponse is the GET /version body.
type VersionResponse struct {
	ModelVersion string `json:"model_version"`
}

// HealthResponse is the GET /healthz body.
type HealthResponse struct {
	Status       string `json:"status"`
	ModelVersion string `json:"model_version"`
}

// Predict handles POST /predict.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.predictor.Predict(r.Context(), req.Listing())
	if err != nil {
		// Already counted and logged by the prediction service.
		NewResponseWriter(w, r).InternalError("Prediction failed")
		return
	}

	NewResponseWriter(w, r).Raw(http.StatusOK, PredictResponse{PredictedRent: result.PredictedRent})
}

// Version handles GET /version.
func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Raw(http.StatusOK, VersionResponse{ModelVersion: h.predictor.Version()})
}

// Health handles GET /healthz. The service only starts once its artifacts
// are loaded, so a response means it is ready.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Raw(http.StatusOK, HealthResponse{Status: "ok", ModelVersion: h.predictor.Version()})
}

// SubmitFeedback handles POST /feedback.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.feedback == nil {
		rw.ServiceUnavailable("Feedback collection is disabled")
		return
	}

	var req FeedbackRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rec, err := h.feedback.Submit(r.Context(), feedback.Record{
		RequestID:     req.RequestID,
		PredictedRent: *req.PredictedRent,
		ActualRent:    req.ActualRent,
		Rating:        req.Rating,
		Comment:       req.Comment,
		ModelVersion:  h.predictor.Version(),
	})
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to store feedback")
		rw.InternalError("Failed to store feedback")
		return
	}

	metrics.FeedbackSubmitted.Inc()
	logging.Ctx(r.Context()).Info().
		Str("event", "feedback_submitted").
		Str("feedback_id", rec.ID).
		Str("prediction_request_id", rec.RequestID).
		Msg("Feedback stored")

	rw.Created(rec)
}

// ListFeedback handles GET /feedback?limit=N.
func (h *Handler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.feedback == nil {
		rw.ServiceUnavailable("Feedback collection is disabled")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			rw.BadRequest("limit must be a non-negative integer")
			return
		}
		limit = n
	}

	records, err := h.feedback.List(r.Context(), limit)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to list feedback")
		rw.InternalError("Failed to list feedback")
		return
	}
	if records == nil {
		records = []feedback.Record{}
	}
	rw.SuccessList(records, len(records))
}
