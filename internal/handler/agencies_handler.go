package handler

import (
	"encoding/json"
	"net/http"

	"github.com/castbook/castbook-api-go/internal/domain"
	"github.com/castbook/castbook-api-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Agencies — /v1/users/{userId}/agencies
// ============================================================

type agencyRequest struct {
	Name          string  `json:"name"`
	Email         string  `json:"email,omitempty"`
	CommissionPct float64 `json:"commission_pct,omitempty"`
}

func listAgenciesHandler(svc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users/{userId}/agencies")
		defer span.End()

		userID := chi.URLParam(r, "userId")

		agencies, err := svc.ListAgencies(ctx, userID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"agencies": agencies, "count": len(agencies)})
	}
}

func createAgencyHandler(svc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/users/{userId}/agencies")
		defer span.End()

		userID := chi.URLParam(r, "userId")

		var req agencyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		created, err := svc.CreateAgency(ctx, &domain.Agency{
			UserID:        userID,
			Name:          req.Name,
			Email:         req.Email,
			CommissionPct: req.CommissionPct,
		})
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

func deleteAgencyHandler(svc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/users/{userId}/agencies/{agencyId}")
		defer span.End()

		userID := chi.URLParam(r, "userId")
		agencyID := chi.URLParam(r, "agencyId")

		if err := svc.DeleteAgency(ctx, userID, agencyID); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
