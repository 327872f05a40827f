package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lisa/cmd/api/dto"
)

// StatusReporter 는 rag.Service 의 준비 상태 조회 부분이다.
type StatusReporter interface {
	IsReady() bool
	HasDocuments() bool
}

func ragStatus(r StatusReporter) dto.RAGStatusDTO {
	if r == nil {
		return dto.RAGStatusDTO{Ready: true}
	}
	return dto.RAGStatusDTO{Ready: r.IsReady(), HasDocuments: r.HasDocuments()}
}

// RAGStatusHandler godoc
// @Summary      문서 검색 준비 상태
// @Description  인덱스 초기화가 끝났는지(ready)와 문서가 인덱싱되었는지(hasDocuments)를 반환한다. 블로킹하지 않는다.
// @Tags         chat
// @Produce      json
// @Success      200  {object}  dto.RAGStatusDTO
// @Router       /api/rag-status [get]
func RAGStatusHandler(reporter StatusReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, ragStatus(reporter))
	}
}

// HealthHandler godoc
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  dto.HealthDTO
// @Router       /health [get]
func HealthHandler(reporter StatusReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthDTO{Status: "ok", RAG: ragStatus(reporter)})
	}
}
