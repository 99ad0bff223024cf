package utils

import "github.com/gin-gonic/gin"

// Uniform response envelope: {ok, data} on success, {ok, error} on failure.

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"ok": true, "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"ok": false, "error": message})
}
