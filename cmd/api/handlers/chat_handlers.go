package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lisa/cmd/api/dto"
	"lisa/cmd/api/services"
)

// ChatHandler godoc
// @Summary      LISA 에게 질문
// @Description  문서가 인덱싱되어 있으면 문서 검색 기반으로, 아니면 LLM 이 직접 답한다. 검색 실패 시 직접 응답으로 대체한다.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ChatRequestDTO  true  "chat request"
// @Success      200   {object}  dto.ChatResponseDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      500   {object}  dto.ErrorResponseDTO
// @Router       /api/chat [post]
func ChatHandler(chatSvc *services.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ChatRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: describeBindError(err)})
			return
		}

		reply, chatErr := chatSvc.Chat(c.Request.Context(), req.Message, req.History())
		if chatErr != nil {
			c.JSON(chatErr.StatusCode, dto.ErrorResponseDTO{Error: chatErr.ErrorCode})
			return
		}

		c.JSON(http.StatusOK, dto.ChatResponseDTO{
			Message:   reply.Message,
			Timestamp: reply.Timestamp,
		})
	}
}
