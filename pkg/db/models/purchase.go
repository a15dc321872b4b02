package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pharmops-backend/pkg/enums"
)

// Purchase is a procurement order tracked through its status lifecycle.
type Purchase struct {
	ID                string               `gorm:"column:id;primaryKey"`
	IsUrgent          bool                 `gorm:"column:is_urgent;not null;default:false"`
	TotalCost         decimal.Decimal      `gorm:"column:total_cost;type:numeric(14,2);not null"`
	Status            enums.PurchaseStatus `gorm:"column:status;not null;default:'pending'"`
	TelegramChatID    *int64               `gorm:"column:telegram_chat_id"`
	TelegramMessageID *int                 `gorm:"column:telegram_message_id"`
	Items             []PurchaseItem       `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
