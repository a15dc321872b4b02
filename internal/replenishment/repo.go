package replenishment

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/pharmops-backend/pkg/db/models"
)

// ProductReader loads stock snapshots.
type ProductReader interface {
	ListSnapshots(ctx context.Context) ([]Snapshot, error)
	GetSnapshot(ctx context.Context, productID string) (*Snapshot, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a product snapshot reader bound to the provided DB.
func NewRepository(db *gorm.DB) ProductReader {
	return &repository{db: db}
}

func (r *repository) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, snapshotFromModel(row))
	}
	return out, nil
}

// GetSnapshot returns gorm.ErrRecordNotFound for unknown ids.
func (r *repository) GetSnapshot(ctx context.Context, productID string) (*Snapshot, error) {
	var row models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", productID).First(&row).Error; err != nil {
		return nil, err
	}
	s := snapshotFromModel(row)
	return &s, nil
}

func snapshotFromModel(p models.Product) Snapshot {
	s := Snapshot{
		ProductID:        p.ID,
		Name:             p.Name,
		StockQuantity:    p.StockQuantity,
		AvgDailySales30d: p.AvgDailySales30d,
		InTransit:        p.InTransit,
		CostPrice:        p.CostPrice,
		Price:            p.Price,
	}
	if p.DeliveryDays != nil {
		s.DeliveryDays = *p.DeliveryDays
	}
	if p.MinStock != nil {
		s.MinStock = *p.MinStock
	}
	return s
}
