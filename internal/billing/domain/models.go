package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/konektanet/konekta/pkg/dates"
)

// Payment is one reconciled payment. AmountPaid is the raw amount the
// customer handed over, in minor units; any credit consumed during the
// reconciliation lives on the customer ledger, not here.
type Payment struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	CustomerID    snowflake.ID `gorm:"not null;index" json:"customer_id"`
	PlanID        snowflake.ID `gorm:"not null" json:"plan_id"`
	AmountPaid    int64        `gorm:"not null" json:"amount_paid"`
	MonthsCovered int64        `gorm:"not null" json:"months_covered"`
	PaymentDate   dates.Date   `gorm:"type:date;not null" json:"payment_date"`
	ResultingDue  dates.Date   `gorm:"column:resulting_duedate;type:date;not null" json:"resulting_duedate"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	CustomerName string `gorm:"-" json:"customer_name,omitempty"`
	PlanName     string `gorm:"-" json:"plan_name,omitempty"`
}

func (Payment) TableName() string { return "payments" }
