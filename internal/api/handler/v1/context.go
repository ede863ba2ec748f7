package v1

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/hawtsauce/gatherly-api/internal/api/handler/v1/response"
	"github.com/hawtsauce/gatherly-api/internal/api/middleware"
	"github.com/hawtsauce/gatherly-api/internal/domain"
	"github.com/hawtsauce/gatherly-api/internal/service"
)

// getUserFromContext loads the authenticated user stored by the JWT
// middleware. A missing or stale user id renders as 401, not 500.
func getUserFromContext(ctx *gin.Context, uSvc UserService) (domain.User, *response.Err) {
	userID := ctx.GetString(middleware.ContextKeyUserID)
	if userID == "" {
		return domain.User{}, response.ErrUnauthorized(errors.New("user id not found in context"))
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrUnauthorized(fmt.Errorf("user %v no longer exists", userID))
		}

		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("uSvc.GetUser -> %w", err))
	}

	return user, nil
}
