package replenishment

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pharmops-backend/pkg/db"
	"github.com/angelmondragon/pharmops-backend/pkg/db/dbtest"
	"github.com/angelmondragon/pharmops-backend/pkg/db/models"
)

func TestRepositoryReadsSnapshots(t *testing.T) {
	conn := dbtest.Open(t)
	ctx := context.Background()

	delivery, minStock := 21, 7
	rows := []models.Product{
		{ID: "p2", Name: "Bandage", StockQuantity: 3, AvgDailySales30d: 0.5, DeliveryDays: &delivery, MinStock: &minStock,
			CostPrice: decimal.NewNullDecimal(decimal.RequireFromString("4.25"))},
		{ID: "p1", Name: "Aspirin", StockQuantity: 40, AvgDailySales30d: 1.5},
	}
	require.NoError(t, conn.Create(&rows).Error)

	repo := NewRepository(conn)
	snapshots, err := repo.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, "p1", snapshots[0].ProductID, "ordered by name")
	assert.Equal(t, 0, snapshots[0].DeliveryDays, "absent lead time stays zero for Compute to default")
	assert.False(t, snapshots[0].CostPrice.Valid)

	got, err := repo.GetSnapshot(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, 21, got.DeliveryDays)
	assert.Equal(t, 7, got.MinStock)
	require.True(t, got.CostPrice.Valid)
	assert.True(t, got.CostPrice.Decimal.Equal(decimal.RequireFromString("4.25")))

	_, err = repo.GetSnapshot(ctx, "nope")
	assert.True(t, db.IsNotFound(err))
}
