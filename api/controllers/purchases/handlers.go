package purchases

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/pharmops-backend/api/responses"
	"github.com/angelmondragon/pharmops-backend/api/validators"
	"github.com/angelmondragon/pharmops-backend/internal/purchases"
	"github.com/angelmondragon/pharmops-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pharmops-backend/pkg/errors"
	"github.com/angelmondragon/pharmops-backend/pkg/logger"
	"github.com/angelmondragon/pharmops-backend/pkg/pagination"
	"github.com/angelmondragon/pharmops-backend/pkg/types"
)

func Create(service purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req createPurchaseRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		purchase, err := service.Create(ctx, req.toInput())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, purchase)
	}
}

func List(service purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		params := purchases.ListParams{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParsePurchaseStatus(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status").
					WithDetails(map[string]any{"field": "status"}))
				return
			}
			params.Status = &status
		}

		result, err := service.List(ctx, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Page[purchases.Purchase]{
			Items:      result.Items,
			NextCursor: result.NextCursor,
		})
	}
}

func Get(service purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		purchaseID := strings.TrimSpace(chi.URLParam(r, "purchaseId"))
		if purchaseID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "purchaseId is required"))
			return
		}

		purchase, err := service.Get(ctx, purchaseID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, purchase)
	}
}

// ApplyEvent drives the purchase lifecycle from the dashboard, mirroring the
// chat buttons.
func ApplyEvent(service purchases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		purchaseID := strings.TrimSpace(chi.URLParam(r, "purchaseId"))
		if purchaseID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "purchaseId is required"))
			return
		}

		var req eventRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		purchase, err := service.ApplyEvent(ctx, purchaseID, req.event())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, purchase)
	}
}
