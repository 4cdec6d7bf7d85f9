package util

import "github.com/gin-gonic/gin"

// JSON writes a success payload with the given status.
func JSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

// Error writes the uniform error body: {"error": message}.
// Handlers recover locally; there is never a partial-success response.
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}
