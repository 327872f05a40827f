package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"lisa/cmd/api/dto"
	"lisa/cmd/api/trace"
	"lisa/cmd/internal/logger"
)

// Recovery 는 핸들러 panic 을 500 으로 바꾸고 구조화 로그로 남긴다.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.ErrorWithFields("panic recovered", logger.Fields{
			"request_id": trace.RequestIDFromContext(c.Request.Context()),
			"path":       c.Request.URL.Path,
			"panic":      fmt.Sprint(recovered),
		})
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "internal server error"})
	})
}
