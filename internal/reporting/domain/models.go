package domain

import (
	"github.com/bwmarrin/snowflake"
	"github.com/konektanet/konekta/pkg/dates"
)

// Record is the slice of a payment the aggregator cares about.
type Record struct {
	Amount int64
	Date   dates.Date
}

// YearSales breaks one year of payments down by month and quarter.
// Monthly[0] is January, Quarterly[0] is Jan-Mar.
type YearSales struct {
	Year        int       `json:"year"`
	YearlyTotal int64     `json:"yearly_total"`
	Monthly     [12]int64 `json:"monthly"`
	Quarterly   [4]int64  `json:"quarterly"`
}

// Sale is one payment row as the sales report shows it. Customer name
// and branch ride along from a join so the report stands on its own.
type Sale struct {
	ID            snowflake.ID `json:"id" gorm:"column:id"`
	CustomerID    snowflake.ID `json:"customer_id" gorm:"column:customer_id"`
	CustomerName  string       `json:"customer_name" gorm:"column:customer_name"`
	Branch        string       `json:"branch" gorm:"column:branch"`
	AmountPaid    int64        `json:"amount_paid" gorm:"column:amount_paid"`
	MonthsCovered int64        `json:"months_covered" gorm:"column:months_covered"`
	PaymentDate   dates.Date   `json:"payment_date" gorm:"column:payment_date"`
	ResultingDue  dates.Date   `json:"resulting_duedate" gorm:"column:resulting_duedate"`
}

// Dashboard is the landing-page summary. Sales carries every year with
// at least one payment, newest first.
type Dashboard struct {
	Sales          []YearSales `json:"sales"`
	TotalCustomers int64       `json:"total_customers"`
	DueCustomers   int64       `json:"due_customers"`
}
