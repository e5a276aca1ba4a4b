package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	accountdomain "github.com/gamevault/gamevault/internal/account/domain"
	socialdomain "github.com/gamevault/gamevault/internal/social/domain"
)

type addFriendRequest struct {
	Username string `json:"username"`
}

func (s *Server) AddFriend(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req addFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.socialSvc.AddFriend(c.Request.Context(), socialdomain.AddFriendRequest{
		AccountID:      account.ID.String(),
		FriendUsername: strings.TrimSpace(req.Username),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListFriends(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.socialSvc.ListFriends(c.Request.Context(), socialdomain.ListFriendsRequest{
		AccountID: account.ID.String(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CommonGames(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.socialSvc.CommonGames(c.Request.Context(), socialdomain.CommonGamesRequest{
		AccountID: account.ID.String(),
		FriendID:  strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SearchAccounts(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		AbortWithError(c, newValidationError("q", "required", "q is required"))
		return
	}

	resp, err := s.accountSvc.Search(c.Request.Context(), accountdomain.SearchRequest{
		Term:      term,
		ExcludeID: account.ID.String(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isSocialValidationError(err error) bool {
	switch err {
	case socialdomain.ErrInvalidID,
		socialdomain.ErrInvalidUsername,
		socialdomain.ErrSelfFriend:
		return true
	default:
		return false
	}
}
