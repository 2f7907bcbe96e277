package receipt

import (
	"bytes"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Data is everything a printed payment receipt shows.
type Data struct {
	ReceiptNumber string
	BusinessName  string
	BranchName    string
	CustomerName  string
	CustomerAddr  string
	PlanName      string
	PaymentDate   string
	AmountPaid    string
	MonthsCovered int64
	CreditBalance string
	NextDueDate   string
}

// Generate renders a one-page PDF receipt for a reconciled payment.
func Generate(data Data) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(8, data.BusinessName, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, "Official Receipt", props.Text{
			Size:  12,
			Align: align.Right,
			Top:   4,
		}),
	)

	m.AddRow(18,
		col.New(6).Add(
			text.New("Receipt no: "+data.ReceiptNumber, props.Text{Top: 0}),
			text.New("Date paid: "+data.PaymentDate, props.Text{Top: 4}),
			text.New("Branch: "+data.BranchName, props.Text{Top: 8}),
		),
		col.New(6).Add(
			text.New(data.CustomerName, props.Text{Style: fontstyle.Bold}),
			text.New(data.CustomerAddr, props.Text{Top: 5}),
		),
	)

	m.AddRow(10,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Months", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(3, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(12,
		text.NewCol(6, data.PlanName, props.Text{Size: 9}),
		text.NewCol(3, fmt.Sprintf("%d", data.MonthsCovered), props.Text{Size: 9, Align: align.Right}),
		text.NewCol(3, data.AmountPaid, props.Text{Size: 9, Align: align.Right}),
	)

	m.AddRow(10,
		col.New(6),
		text.NewCol(3, "Credit balance", props.Text{Size: 9}),
		text.NewCol(3, data.CreditBalance, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(6),
		text.NewCol(3, "Next due date", props.Text{Size: 9}),
		text.NewCol(3, data.NextDueDate, props.Text{Size: 9, Align: align.Right}),
	)

	m.AddRow(15,
		text.NewCol(12, data.AmountPaid+" paid on "+data.PaymentDate, props.Text{
			Size:  13,
			Style: fontstyle.Bold,
			Top:   5,
		}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}
