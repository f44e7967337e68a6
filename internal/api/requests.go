// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/rentpredict/internal/features"
	"github.com/tomtom215/rentpredict/internal/validation"
)

// maxBodyBytes bounds request bodies. A listing is a few hundred bytes.
const maxBodyBytes = 64 << 10

var (
	errEmptyBody = errors.New("request body is empty")
	errNotNumber = errors.New("value is not a number")
	errNotString = errors.New("value is not a string or number")
)

// LooseFloat is a number that also accepts a numeric JSON string
// ("45", " 45.5 ").
type LooseFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *LooseFloat) UnmarshalJSON(data []byte) error {
	text := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return fmt.Errorf("%w: %s", errNotNumber, data)
	}
	// Out-of-range values arrive as infinities and fail the finite check.
	*f = LooseFloat(v)
	return nil
}

// LooseString is a string that also accepts a JSON number, kept as written
// (a pc4 of 3511 becomes "3511").
type LooseString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *LooseString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = LooseString(str)
		return nil
	}
	text := string(data)
	if _, err := strconv.ParseFloat(text, 64); err != nil && !errors.Is(err, strconv.ErrRange) {
		return fmt.Errorf("%w: %s", errNotString, data)
	}
	*s = LooseString(text)
	return nil
}

// PredictRequest is the POST /predict body. Every field is required; an
// empty string counts as present.
type PredictRequest struct {
	AreaSqm   *LooseFloat `json:"areaSqm" validate:"required,finite"`
	Latitude  *LooseFloat `json:"latitude" validate:"required,finite"`
	Longitude *LooseFloat `json:"longitude" validate:"required,finite"`

	City          *LooseString `json:"city" validate:"required"`
	PC4           *LooseString `json:"pc4" validate:"required"`
	PropertyType  *LooseString `json:"propertyType" validate:"required"`
	Furnish       *LooseString `json:"furnish" validate:"required"`
	Internet      *LooseString `json:"internet" validate:"required"`
	Kitchen       *LooseString `json:"kitchen" validate:"required"`
	Shower        *LooseString `json:"shower" validate:"required"`
	Toilet        *LooseString `json:"toilet" validate:"required"`
	Living        *LooseString `json:"living" validate:"required"`
	SmokingInside *LooseString `json:"smokingInside" validate:"required"`
	Pets          *LooseString `json:"pets" validate:"required"`
}

// Listing converts a validated request.
func (req *PredictRequest) Listing() features.Listing {
	return features.Listing{
		AreaSqm:       float64(*req.AreaSqm),
		Latitude:      float64(*req.Latitude),
		Longitude:     float64(*req.Longitude),
		City:          string(*req.City),
		PC4:           string(*req.PC4),
		PropertyType:  string(*req.PropertyType),
		Furnish:       string(*req.Furnish),
		Internet:      string(*req.Internet),
		Kitchen:       string(*req.Kitchen),
		Shower:        string(*req.Shower),
		Toilet:        string(*req.Toilet),
		Living:        string(*req.Living),
		SmokingInside: string(*req.SmokingInside),
		Pets:          string(*req.Pets),
	}
}

// FeedbackRequest is the POST /feedback body.
type FeedbackRequest struct {
	RequestID     string   `json:"request_id" validate:"max=128"`
	PredictedRent *float64 `json:"predicted_rent" validate:"required,finite,gte=0"`
	ActualRent    *float64 `json:"actual_rent" validate:"omitempty,finite,gte=0"`
	Rating        *int     `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment       string   `json:"comment" validate:"max=2000"`
}

// decodeAndValidate reads a JSON body into v and validates it. It writes
// the error response itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	rw := NewResponseWriter(w, r)

	err := decodeBody(w, r, v)
	switch {
	case err == nil:
	case isMalformed(err):
		rw.BadRequest("Malformed JSON: " + err.Error())
		return false
	default:
		rw.ValidationFailed("Invalid request body: "+err.Error(), nil)
		return false
	}

	if verr := validation.ValidateStruct(v); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationFailed(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return errEmptyBody
	}
	return json.Unmarshal(body, v)
}

// isMalformed separates unreadable bodies (400) from well-formed JSON with
// the wrong content (422).
func isMalformed(err error) bool {
	var syntaxErr *json.SyntaxError
	var maxBytesErr *http.MaxBytesError
	return errors.Is(err, errEmptyBody) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.As(err, &syntaxErr) ||
		errors.As(err, &maxBytesErr)
}
