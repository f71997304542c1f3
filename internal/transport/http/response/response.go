package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK 成功响应直接回实体/对象，不包信封
func OK(c *gin.Context, data any) {
	if data == nil {
		data = struct{}{}
	}
	c.JSON(http.StatusOK, data)
}

// Err 失败响应统一 {"error": "..."}，带真实 HTTP 状态
func Err(c *gin.Context, status int, msg string) {
	if msg == "" {
		msg = DefaultMsg[status]
	}
	c.JSON(status, gin.H{"error": msg})
}

func AbortErr(c *gin.Context, status int, msg string) {
	if msg == "" {
		msg = DefaultMsg[status]
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// List 列表信封：{<key>: items, total, has_more, ...extra}
// key 按实体命名（"logs"/"payouts"/"disputes"…），与面板合同一致
func List(c *gin.Context, key string, items any, total int64, hasMore bool, extra gin.H) {
	body := gin.H{
		key:        items,
		"total":    total,
		"has_more": hasMore,
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}
