package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/konektanet/konekta/pkg/dates"
	"gorm.io/datatypes"
)

type State string

const (
	StateActive   State = "active"
	StateArchived State = "archived"
)

// Customer is a subscriber. DueDate and Credit form the billing ledger:
// outside administrative overrides they are mutated only by payment
// reconciliation. Credit is in minor units and always smaller than the
// plan's monthly price after a reconciliation.
type Customer struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	FullName string       `gorm:"column:fullname;not null" json:"fullname"`
	Phone    string       `json:"phone,omitempty"`
	Purok    string       `json:"purok,omitempty"`
	Sitio    string       `json:"sitio,omitempty"`
	Barangay string       `gorm:"not null" json:"barangay"`
	Branch   string       `json:"branch,omitempty"`
	Notes    string       `json:"notes,omitempty"`

	PlanID  snowflake.ID `gorm:"not null;index" json:"plan_id"`
	DueDate *dates.Date  `gorm:"column:duedate;type:date" json:"duedate"`
	Credit  int64        `gorm:"not null;default:0" json:"credit"`
	State   State        `gorm:"not null;default:active" json:"state"`

	Images datatypes.JSON `gorm:"type:json" json:"images,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// PlanName is populated by join queries, never stored.
	PlanName string `gorm:"-" json:"plan_name,omitempty"`
}

func (Customer) TableName() string { return "customers" }
