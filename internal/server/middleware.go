package server

import (
	"github.com/gin-gonic/gin"
	accountdomain "github.com/gamevault/gamevault/internal/account/domain"
	obscontext "github.com/gamevault/gamevault/internal/observability/context"
)

const contextAccountKey = "account"

func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		account, err := s.authsvc.Resolve(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := obscontext.WithAccountID(c.Request.Context(), account.ID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Set(contextAccountKey, account)
		c.Next()
	}
}

// Authorize gates a route on the acting account's role. It must run after
// AuthRequired.
func (s *Server) Authorize(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := currentAccount(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		err := s.authzSvc.Authorize(c.Request.Context(), account.ID.String(), string(account.Role), object, action)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func currentAccount(c *gin.Context) (accountdomain.Account, bool) {
	value, ok := c.Get(contextAccountKey)
	if !ok {
		return accountdomain.Account{}, false
	}
	account, ok := value.(accountdomain.Account)
	return account, ok
}
