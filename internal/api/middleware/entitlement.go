package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/wpshift/membership_go_server/internal/pkg/response"
	"github.com/wpshift/membership_go_server/internal/service"
)

// MembershipRequired 会员门槛中间件，planID 为 0 表示任意有效会员即可
func MembershipRequired(accessService *service.AccessService, planID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		hasAccess, err := accessService.HasAccess(userID, planID)
		if err != nil {
			response.ServerError(c, "会员校验失败")
			c.Abort()
			return
		}

		if !hasAccess {
			response.MembershipError(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}
