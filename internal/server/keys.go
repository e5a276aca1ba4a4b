package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	keydomain "github.com/gamevault/gamevault/internal/keyinv/domain"
)

type addKeyRequest struct {
	KeyCode string `json:"key_code"`
}

func (s *Server) AddKey(c *gin.Context) {
	var req addKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.keySvc.Add(c.Request.Context(), keydomain.AddKeyRequest{
		TitleID: strings.TrimSpace(c.Param("id")),
		KeyCode: strings.TrimSpace(req.KeyCode),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type addKeyBatchRequest struct {
	Count int `json:"count"`
}

func (s *Server) AddKeyBatch(c *gin.Context) {
	var req addKeyBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.keySvc.AddBatch(c.Request.Context(), keydomain.AddKeyBatchRequest{
		TitleID: strings.TrimSpace(c.Param("id")),
		Count:   req.Count,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListKeys(c *gin.Context) {
	resp, err := s.keySvc.ListByTitle(c.Request.Context(), keydomain.ListKeysRequest{
		TitleID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isKeyValidationError(err error) bool {
	switch err {
	case keydomain.ErrInvalidID,
		keydomain.ErrInvalidKey,
		keydomain.ErrInvalidBatchSize:
		return true
	default:
		return false
	}
}
