package replenishment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pharmops-backend/pkg/db"
	"github.com/angelmondragon/pharmops-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pharmops-backend/pkg/errors"
	"github.com/angelmondragon/pharmops-backend/pkg/logger"
)

// Service serves replenishment analytics over the current product snapshot.
type Service interface {
	Report(ctx context.Context, q Query) (*Report, error)
	Detail(ctx context.Context, productID string) (*Detail, error)
	Recommendations(ctx context.Context) (*RecommendationReport, error)
	LowStock(ctx context.Context, days int) ([]Record, error)
}

// Query is the product listing request.
type Query struct {
	Filter  enums.AnalyticsFilter
	MinDays *int
	MaxDays *int
}

// Report is the filtered listing and its aggregate.
type Report struct {
	Records []Record
	Summary Summary
}

type Detail struct {
	Record       Record
	Calculations Calculations
}

type RecommendationReport struct {
	Items              []Recommendation `json:"items"`
	Count              int              `json:"count"`
	TotalEstimatedCost decimal.Decimal  `json:"totalEstimatedCost"`
}

// ServiceParams configure the analytics service.
type ServiceParams struct {
	Reader       ProductReader
	Logger       *logger.Logger
	Locale       enums.Locale
	Workers      int
	LowStockDays int
}

type service struct {
	reader       ProductReader
	logg         *logger.Logger
	locale       enums.Locale
	workers      int
	lowStockDays int
}

func NewService(params ServiceParams) (Service, error) {
	if params.Reader == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	locale := params.Locale
	if !locale.IsValid() {
		locale = enums.LocaleRU
	}
	workers := params.Workers
	if workers <= 0 {
		workers = 1
	}
	lowStockDays := params.LowStockDays
	if lowStockDays <= 0 {
		lowStockDays = DefaultLowStockDays
	}
	return &service{
		reader:       params.Reader,
		logg:         params.Logger,
		locale:       locale,
		workers:      workers,
		lowStockDays: lowStockDays,
	}, nil
}

func (s *service) Report(ctx context.Context, q Query) (*Report, error) {
	if q.Filter != "" && !q.Filter.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown filter %q", q.Filter))
	}
	if q.MinDays != nil && q.MaxDays != nil && *q.MinDays > *q.MaxDays {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minDays must not exceed maxDays")
	}

	records, err := s.computeAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := Filter(records, Criteria(q))
	return &Report{Records: filtered, Summary: Summarize(filtered)}, nil
}

func (s *service) Detail(ctx context.Context, productID string) (*Detail, error) {
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "productId is required")
	}
	snapshot, err := s.reader.GetSnapshot(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product snapshot")
	}
	record := Compute(*snapshot)
	return &Detail{Record: record, Calculations: Explain(record)}, nil
}

func (s *service) Recommendations(ctx context.Context) (*RecommendationReport, error) {
	records, err := s.computeAll(ctx)
	if err != nil {
		return nil, err
	}
	items := Recommend(records, s.locale)
	return &RecommendationReport{
		Items:              items,
		Count:              len(items),
		TotalEstimatedCost: TotalEstimatedCost(items),
	}, nil
}

func (s *service) LowStock(ctx context.Context, days int) ([]Record, error) {
	if days < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "days must be positive")
	}
	if days == 0 {
		days = s.lowStockDays
	}
	records, err := s.computeAll(ctx)
	if err != nil {
		return nil, err
	}
	return LowStock(records, days), nil
}

func (s *service) computeAll(ctx context.Context) ([]Record, error) {
	snapshots, err := s.reader.ListSnapshots(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product snapshots")
	}
	records := ComputeAll(snapshots, s.workers)
	s.logg.Debug(s.logg.WithField(ctx, "products", len(records)), "replenishment analytics computed")
	return records, nil
}
