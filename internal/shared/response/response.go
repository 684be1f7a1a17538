package response

import (
	"github.com/gin-gonic/gin"
)

type PaginationMeta struct {
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
}

func NewPaginationMeta(total int64, page, limit int) PaginationMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return PaginationMeta{
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   limit,
	}
}

type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Success writes {"success": true, "<key>": data}.
func Success(c *gin.Context, status int, key string, data any) {
	c.JSON(status, gin.H{
		"success": true,
		key:       data,
	})
}

// SuccessWithMeta is Success plus a pagination block.
func SuccessWithMeta(c *gin.Context, status int, key string, data any, meta PaginationMeta) {
	c.JSON(status, gin.H{
		"success": true,
		key:       data,
		"meta":    meta,
	})
}

// Error writes {"success": false, "error": message, "details": details}.
// An empty details is omitted.
func Error(c *gin.Context, status int, message string, details string) {
	c.JSON(status, ErrorEnvelope{
		Success: false,
		Error:   message,
		Details: details,
	})
}

// Abort is Error followed by c.Abort, for middleware.
func Abort(c *gin.Context, status int, message string) {
	Error(c, status, message, "")
	c.Abort()
}
