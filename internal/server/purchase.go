package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	purchasedomain "github.com/gamevault/gamevault/internal/purchase/domain"
)

type createPurchaseRequest struct {
	TitleID string `json:"title_id"`

	// AgreedPriceCents pins the price shown to the buyer. Omitted means
	// charge the live price.
	AgreedPriceCents *int64 `json:"agreed_price_cents"`
}

func (s *Server) CreatePurchase(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.purchaseSvc.Purchase(c.Request.Context(), purchasedomain.PurchaseRequest{
		AccountID:        account.ID.String(),
		TitleID:          strings.TrimSpace(req.TitleID),
		AgreedPriceCents: req.AgreedPriceCents,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListLibrary(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.purchaseSvc.ListOwned(c.Request.Context(), purchasedomain.ListOwnedRequest{
		AccountID: account.ID.String(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetReceiptPDF(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	receipt, err := s.purchaseSvc.GetReceipt(c.Request.Context(), purchasedomain.GetReceiptRequest{
		PurchaseID: strings.TrimSpace(c.Param("id")),
		AccountID:  account.ID.String(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.pdf.GenerateReceipt(c.Request.Context(), receipt)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="receipt-`+receipt.PurchaseID.String()+`.pdf"`)
	c.DataFromReader(http.StatusOK, -1, "application/pdf", doc, nil)
}

func isPurchaseValidationError(err error) bool {
	switch err {
	case purchasedomain.ErrInvalidID,
		purchasedomain.ErrInvalidPrice:
		return true
	default:
		return false
	}
}
