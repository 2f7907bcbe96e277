package domain

import (
	"github.com/konektanet/konekta/internal/config"
	"github.com/konektanet/konekta/pkg/dates"
)

// ReconcileInput is the full state a reconciliation decision depends on.
// Everything is a value; Reconcile never touches storage.
type ReconcileInput struct {
	Amount       int64
	Credit       int64
	MonthlyPrice int64
	DueDate      *dates.Date
	PaymentDate  dates.Date
	AnchorMode   config.AnchorMode
}

// ReconcileOutcome is what a single payment does to the ledger.
type ReconcileOutcome struct {
	MonthsCovered int64
	NewCredit     int64
	CreditUsed    int64
	TotalPayable  int64
	NewDueDate    dates.Date
}

// Reconcile applies one payment to a customer ledger.
//
// The payment amount and any accumulated credit pool together; the pool
// buys whole months at the plan's monthly price and the remainder stays
// behind as the new credit. The due date advances by that many calendar
// months from an anchor chosen by policy, with end-of-month days clamped
// (Jan 31 + 1 month is Feb 28, or Feb 29 in a leap year).
//
// A customer with no due date yet anchors at the payment date, so their
// due date gets set even when the pool buys zero months. An existing due
// date only moves when at least one month is bought: a partial payment
// banks credit without marking any time as paid, whatever the anchor
// policy.
func Reconcile(in ReconcileInput) ReconcileOutcome {
	totalPayable := in.Amount + in.Credit
	monthsCovered := totalPayable / in.MonthlyPrice
	newCredit := totalPayable - monthsCovered*in.MonthlyPrice

	hasDue := in.DueDate != nil && !in.DueDate.IsZero()
	anchor := in.PaymentDate
	if hasDue {
		anchor = *in.DueDate
		if in.AnchorMode == config.AnchorMaxOfDueAndPayment {
			anchor = dates.Max(anchor, in.PaymentDate)
		}
	}

	newDueDate := anchor.AddMonths(int(monthsCovered))
	if hasDue && monthsCovered == 0 {
		newDueDate = *in.DueDate
	}

	creditUsed := in.Credit - newCredit
	if creditUsed < 0 {
		creditUsed = 0
	}

	return ReconcileOutcome{
		MonthsCovered: monthsCovered,
		NewCredit:     newCredit,
		CreditUsed:    creditUsed,
		TotalPayable:  totalPayable,
		NewDueDate:    newDueDate,
	}
}
