package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/gamevault/gamevault/internal/catalog/domain"
	"github.com/gamevault/gamevault/pkg/db/pagination"
)

type createTitleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Developer   string `json:"developer"`
	Publisher   string `json:"publisher"`
	Genre       string `json:"genre"`
}

func (s *Server) CreateTitle(c *gin.Context) {
	var req createTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.Create(c.Request.Context(), catalogdomain.CreateTitleRequest{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Developer:   req.Developer,
		Publisher:   req.Publisher,
		Genre:       req.Genre,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCatalog(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Genre string `form:"genre"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.List(c.Request.Context(), catalogdomain.ListTitleRequest{
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
		Genre:     strings.TrimSpace(query.Genre),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTitle(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	title, err := s.catalogSvc.GetByID(c.Request.Context(), catalogdomain.GetTitleRequest{ID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	available, err := s.keySvc.CountAvailable(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"title":     title,
		"available": available,
	}})
}

type updateTitleRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"price_cents"`
	Developer   *string `json:"developer"`
	Publisher   *string `json:"publisher"`
	Genre       *string `json:"genre"`
}

func (s *Server) UpdateTitle(c *gin.Context) {
	var req updateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.Update(c.Request.Context(), catalogdomain.UpdateTitleRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Developer:   req.Developer,
		Publisher:   req.Publisher,
		Genre:       req.Genre,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteTitle(c *gin.Context) {
	err := s.catalogSvc.Delete(c.Request.Context(), catalogdomain.DeleteTitleRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func isCatalogValidationError(err error) bool {
	switch err {
	case catalogdomain.ErrInvalidID,
		catalogdomain.ErrInvalidName,
		catalogdomain.ErrInvalidPrice:
		return true
	default:
		return false
	}
}
