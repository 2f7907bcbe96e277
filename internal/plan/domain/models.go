package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Plan is a subscription plan. MonthlyPrice is in minor units (centavos).
type Plan struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"not null" json:"name"`
	MonthlyPrice int64        `gorm:"not null" json:"monthly_price"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// SubscriberCount is populated by list queries, never stored.
	SubscriberCount int64 `gorm:"->;-:migration" json:"subscriber_count"`
}

func (Plan) TableName() string { return "plans" }
