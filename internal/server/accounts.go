package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	accountdomain "github.com/gamevault/gamevault/internal/account/domain"
	"github.com/gamevault/gamevault/pkg/db/pagination"
)

func (s *Server) ListAccounts(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Username string `form:"username"`
		Role     string `form:"role"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.accountSvc.List(c.Request.Context(), accountdomain.ListAccountRequest{
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
		Username:  strings.TrimSpace(query.Username),
		Role:      strings.TrimSpace(query.Role),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type setRoleRequest struct {
	Role string `json:"role"`
}

func (s *Server) SetAccountRole(c *gin.Context) {
	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.accountSvc.SetRole(c.Request.Context(), accountdomain.SetRoleRequest{
		ID:   strings.TrimSpace(c.Param("id")),
		Role: strings.TrimSpace(req.Role),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type creditBalanceRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

func (s *Server) CreditAccountBalance(c *gin.Context) {
	var req creditBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.accountSvc.CreditBalance(c.Request.Context(), accountdomain.CreditBalanceRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		AmountCents: req.AmountCents,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
