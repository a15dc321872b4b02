package purchases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgdb "github.com/angelmondragon/pharmops-backend/pkg/db"
	"github.com/angelmondragon/pharmops-backend/pkg/db/models"
	"github.com/angelmondragon/pharmops-backend/pkg/enums"
	"github.com/angelmondragon/pharmops-backend/pkg/pagination"
)

// Repository persists purchases. Get returns gorm.ErrRecordNotFound for
// unknown ids.
type Repository interface {
	Create(ctx context.Context, p *Purchase) error
	Get(ctx context.Context, id string) (*Purchase, error)
	List(ctx context.Context, q ListQuery) ([]Purchase, error)
	// UpdateStatus applies the change only while the row is still in from and
	// reports whether it did.
	UpdateStatus(ctx context.Context, id string, from, to enums.PurchaseStatus, at time.Time) (bool, error)
	SetNotificationRef(ctx context.Context, id string, ref MessageRef) error
}

// ListQuery is the repository form of ListParams.
type ListQuery struct {
	Limit  int
	After  *pagination.Cursor
	Status *enums.PurchaseStatus
}

type repository struct {
	db     *gorm.DB
	client *pkgdb.Client
}

// NewRepository builds a purchases repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db, client: pkgdb.Wrap(db)}
}

// Create writes the purchase row and its items atomically.
func (r *repository) Create(ctx context.Context, p *Purchase) error {
	row := toModel(p)
	return r.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(&row).Error; err != nil {
			return err
		}
		if len(row.Items) == 0 {
			return nil
		}
		return tx.Create(&row.Items).Error
	})
}

func (r *repository) Get(ctx context.Context, id string) (*Purchase, error) {
	var row models.Purchase
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	p := fromModel(row)
	return &p, nil
}

func (r *repository) List(ctx context.Context, q ListQuery) ([]Purchase, error) {
	query := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Order("created_at DESC").
		Order("id DESC")
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}
	if q.After != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", q.After.CreatedAt, q.After.CreatedAt, q.After.ID)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var rows []models.Purchase
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Purchase, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id string, from, to enums.PurchaseStatus, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) SetNotificationRef(ctx context.Context, id string, ref MessageRef) error {
	return r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"telegram_chat_id":    ref.ChatID,
			"telegram_message_id": ref.MessageID,
		}).Error
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func toModel(p *Purchase) models.Purchase {
	row := models.Purchase{
		ID:        p.ID,
		IsUrgent:  p.IsUrgent,
		TotalCost: p.TotalCost,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Items:     make([]models.PurchaseItem, 0, len(p.Items)),
	}
	if p.Notification != nil {
		row.TelegramChatID = &p.Notification.ChatID
		row.TelegramMessageID = &p.Notification.MessageID
	}
	for i, item := range p.Items {
		row.Items = append(row.Items, models.PurchaseItem{
			ID:         uuid.New(),
			PurchaseID: p.ID,
			Position:   i,
			ProductID:  item.ProductID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			Price:      item.Price,
			Total:      item.Total,
			CreatedAt:  p.CreatedAt,
		})
	}
	return row
}

func fromModel(row models.Purchase) Purchase {
	p := Purchase{
		ID:        row.ID,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		TotalCost: row.TotalCost,
		IsUrgent:  row.IsUrgent,
		Status:    row.Status,
		Items:     make([]Item, 0, len(row.Items)),
	}
	if row.TelegramChatID != nil && row.TelegramMessageID != nil {
		p.Notification = &MessageRef{ChatID: *row.TelegramChatID, MessageID: *row.TelegramMessageID}
	}
	for _, item := range row.Items {
		p.Items = append(p.Items, Item{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Total:     item.Total,
		})
	}
	return p
}
