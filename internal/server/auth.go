package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	accountdomain "github.com/gamevault/gamevault/internal/account/domain"
	authdomain "github.com/gamevault/gamevault/internal/auth/domain"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func (s *Server) RegisterAccount(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	account, err := s.accountSvc.Register(c.Request.Context(), accountdomain.RegisterRequest{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
		Email:    strings.TrimSpace(req.Email),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": account})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, resp.Token, resp.ExpiresAt)
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) Logout(c *gin.Context) {
	if token, ok := s.sessions.ReadToken(c); ok {
		if err := s.authsvc.Logout(c.Request.Context(), token); err != nil {
			AbortWithError(c, err)
			return
		}
	}

	s.sessions.Clear(c)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Me(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": account})
}

func isAccountValidationError(err error) bool {
	switch err {
	case accountdomain.ErrInvalidUsername,
		accountdomain.ErrInvalidPassword,
		accountdomain.ErrInvalidEmail,
		accountdomain.ErrInvalidID,
		accountdomain.ErrInvalidRole,
		accountdomain.ErrInvalidAmount:
		return true
	default:
		return false
	}
}
