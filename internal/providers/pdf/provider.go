package pdf

import (
	"context"
	"io"

	purchasedomain "github.com/gamevault/gamevault/internal/purchase/domain"
	"go.uber.org/fx"
)

// Provider renders purchase receipts.
type Provider interface {
	GenerateReceipt(ctx context.Context, receipt purchasedomain.Receipt) (io.Reader, error)
}

var Module = fx.Module("providers.pdf",
	fx.Provide(NewProvider),
)
