package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lucianodboretti/agentic-factory-backend/internal/errs"
)

// writeError 将服务错误映射为 HTTP 状态码
// 校验错误 400，实体不存在 404，其余一律 500 并隐藏内部细节
func writeError(c *gin.Context, err error, notFoundMsg, serverMsg string) {
	switch {
	case errs.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": serverMsg})
	}
}
