package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	purchasedomain "github.com/gamevault/gamevault/internal/purchase/domain"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type PDFProvider struct{}

func NewProvider() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateReceipt(ctx context.Context, receipt purchasedomain.Receipt) (io.Reader, error) {
	_ = ctx

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(30,
		text.NewCol(12, "GameVault Receipt", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Receipt number: "+receipt.PurchaseID.String(), props.Text{Top: 0}),
			text.New("Date: "+receipt.CreatedAt.Format(time.RFC1123), props.Text{Top: 4}),
		),
		col.New(6).Add(
			text.New("Purchased by", props.Text{Style: fontstyle.Bold}),
			text.New(receipt.Username, props.Text{Top: 5}),
			text.New(receipt.Email, props.Text{Top: 9}),
		),
	)

	m.AddRow(10,
		text.NewCol(6, "Title", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Activation key", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	m.AddRow(15,
		text.NewCol(6, receipt.TitleName, props.Text{Size: 9}),
		text.NewCol(4, receipt.KeyCode, props.Text{Size: 9}),
		text.NewCol(2, formatCents(receipt.PriceCents), props.Text{Size: 9, Align: align.Right}),
	)

	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, formatCents(receipt.PriceCents), props.Text{Size: 9, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
