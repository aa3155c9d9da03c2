package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/webquote/internal/currency"
	"github.com/Simplici0/webquote/internal/estimate"
	"github.com/Simplici0/webquote/internal/pricing"
	"github.com/Simplici0/webquote/internal/ratetable"
	"github.com/Simplici0/webquote/internal/store"
)

const maxBodyBytes = 1 << 20

type ratesResponse struct {
	Table         ratetable.Table `json:"table"`
	Currencies    []string        `json:"currencies"`
	MinHourlyRate float64         `json:"min_hourly_rate"`
	MaxHourlyRate float64         `json:"max_hourly_rate"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleRates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ratesResponse{
		Table:         ratetable.Snapshot(),
		Currencies:    currency.Codes(),
		MinHourlyRate: ratetable.MinHourlyRate,
		MaxHourlyRate: ratetable.MaxHourlyRate,
	})
}

func (s *server) handleFX(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.fx.Snapshot(r.Context()))
}

func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req estimate.CalculateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.svc.Calculate(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleEstimateCreate(w http.ResponseWriter, r *http.Request) {
	var req estimate.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	e, err := s.svc.Run(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), e); err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/estimates/"+e.ID)
	writeJSON(w, http.StatusCreated, e)
}

func (s *server) handleEstimatesList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	items, err := s.store.List(r.Context(), query)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *server) handleEstimateGet(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *server) handleEstimateText(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := estimate.WriteText(&buf, e); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pricing.ErrUnknownTier), errors.Is(err, estimate.ErrInvalidRequest):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error().Err(err).Msg("request failed")
		writeErrorMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
