package analytics

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/pharmops-backend/api/responses"
	"github.com/angelmondragon/pharmops-backend/api/validators"
	"github.com/angelmondragon/pharmops-backend/internal/replenishment"
	"github.com/angelmondragon/pharmops-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pharmops-backend/pkg/errors"
	"github.com/angelmondragon/pharmops-backend/pkg/logger"
	"github.com/angelmondragon/pharmops-backend/pkg/types"
)

const maxDaysParam = 10000

// Products lists every product with its computed analytics and the summary
// of the filtered set.
func Products(service replenishment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		query, err := parseReportQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		report, err := service.Report(ctx, query)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteEnvelope(w, http.StatusOK, types.SuccessEnvelope{
			Data:    report.Records,
			Summary: report.Summary,
		})
	}
}

// ProductDetail returns one product's analytics and the formula breakdown.
func ProductDetail(service replenishment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if productID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "productId is required"))
			return
		}
		if logg != nil {
			ctx = logg.WithProductID(ctx, productID)
		}

		detail, err := service.Detail(ctx, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteEnvelope(w, http.StatusOK, types.SuccessEnvelope{
			Data:         detail.Record,
			Calculations: detail.Calculations,
		})
	}
}

func Recommendations(service replenishment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		report, err := service.Recommendations(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteEnvelope(w, http.StatusOK, types.SuccessEnvelope{
			Data: report.Items,
			Summary: map[string]any{
				"count":              report.Count,
				"totalEstimatedCost": report.TotalEstimatedCost,
			},
		})
	}
}

func LowStock(service replenishment.Service, defaultDays int, logg *logger.Logger) http.HandlerFunc {
	if defaultDays <= 0 {
		defaultDays = replenishment.DefaultLowStockDays
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		days, err := validators.ParseQueryInt(r, "days", defaultDays, 1, maxDaysParam)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		records, err := service.LowStock(ctx, days)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteEnvelope(w, http.StatusOK, types.SuccessEnvelope{
			Data:    records,
			Summary: map[string]int{"count": len(records), "days": days},
		})
	}
}

func parseReportQuery(r *http.Request) (replenishment.Query, error) {
	filter, err := enums.ParseAnalyticsFilter(strings.TrimSpace(r.URL.Query().Get("filter")))
	if err != nil {
		return replenishment.Query{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid filter").
			WithDetails(map[string]any{"field": "filter"})
	}
	minDays, err := validators.ParseOptionalQueryInt(r, "minDays", 0, replenishment.NoSalesDaysToZero)
	if err != nil {
		return replenishment.Query{}, err
	}
	maxDays, err := validators.ParseOptionalQueryInt(r, "maxDays", 0, replenishment.NoSalesDaysToZero)
	if err != nil {
		return replenishment.Query{}, err
	}
	return replenishment.Query{Filter: filter, MinDays: minDays, MaxDays: maxDays}, nil
}
