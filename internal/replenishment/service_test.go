package replenishment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/pharmops-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pharmops-backend/pkg/errors"
	"github.com/angelmondragon/pharmops-backend/pkg/logger"
)

type fakeReader struct {
	listFn func(ctx context.Context) ([]Snapshot, error)
	getFn  func(ctx context.Context, id string) (*Snapshot, error)
}

func (f *fakeReader) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx)
}

func (f *fakeReader) GetSnapshot(ctx context.Context, id string) (*Snapshot, error) {
	if f.getFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.getFn(ctx, id)
}

func catalog() []Snapshot {
	return []Snapshot{
		{ProductID: "p1", Name: "Ibuprofen", StockQuantity: 46, AvgDailySales30d: 2.3, InTransit: 5, DeliveryDays: 14, MinStock: 10},
		{ProductID: "p2", Name: "Bandage", StockQuantity: 3, AvgDailySales30d: 0.5, DeliveryDays: 21, MinStock: 5},
		{ProductID: "p3", Name: "Vitamin C", StockQuantity: 59, AvgDailySales30d: 1.8, InTransit: 12, DeliveryDays: 14, MinStock: 8},
		{ProductID: "p4", Name: "Thermometer", StockQuantity: 2},
	}
}

func newTestService(t *testing.T, reader ProductReader) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Reader: reader, Logger: logger.Nop(), Locale: enums.LocaleEN, Workers: 2})
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{Logger: logger.Nop()})
	assert.Error(t, err)
	_, err = NewService(ServiceParams{Reader: &fakeReader{}})
	assert.Error(t, err)
}

func TestReportFiltersAndSummarizes(t *testing.T) {
	svc := newTestService(t, &fakeReader{listFn: func(context.Context) ([]Snapshot, error) { return catalog(), nil }})

	report, err := svc.Report(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, report.Records, 4)
	assert.Equal(t, 4, report.Summary.TotalProducts)

	report, err = svc.Report(context.Background(), Query{Filter: enums.AnalyticsFilterCritical})
	require.NoError(t, err)
	require.Len(t, report.Records, 1)
	assert.Equal(t, "p2", report.Records[0].ProductID)
	assert.Equal(t, 1, report.Summary.CriticalProducts)
}

func TestReportValidatesQuery(t *testing.T) {
	svc := newTestService(t, &fakeReader{})

	_, err := svc.Report(context.Background(), Query{Filter: "soon"})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	minDays, maxDays := 10, 5
	_, err = svc.Report(context.Background(), Query{MinDays: &minDays, MaxDays: &maxDays})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestReportWrapsReaderFailure(t *testing.T) {
	svc := newTestService(t, &fakeReader{listFn: func(context.Context) ([]Snapshot, error) { return nil, errors.New("db down") }})

	_, err := svc.Report(context.Background(), Query{})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}

func TestDetail(t *testing.T) {
	svc := newTestService(t, &fakeReader{getFn: func(_ context.Context, id string) (*Snapshot, error) {
		for _, s := range catalog() {
			if s.ProductID == id {
				return &s, nil
			}
		}
		return nil, gorm.ErrRecordNotFound
	}})

	detail, err := svc.Detail(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, 13, detail.Record.RecommendedQty)
	assert.Equal(t, "ceil(3 / 0.5) = 6", detail.Calculations.DaysToZero)

	_, err = svc.Detail(context.Background(), "missing")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestRecommendationsAndLowStock(t *testing.T) {
	svc := newTestService(t, &fakeReader{listFn: func(context.Context) ([]Snapshot, error) { return catalog(), nil }})

	recs, err := svc.Recommendations(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, recs.Count)
	assert.Equal(t, "p2", recs.Items[0].ProductID)
	assert.Equal(t, "p4", recs.Items[1].ProductID)
	assert.Equal(t, "Planned purchase", recs.Items[1].Reason)

	low, err := svc.LowStock(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "p2", low[0].ProductID)

	_, err = svc.LowStock(context.Background(), -1)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}
