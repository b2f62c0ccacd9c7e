package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BindJson 綁定 JSON body，失敗時直接回傳 400 與指定的錯誤訊息
func BindJson(c *gin.Context, obj interface{}, message string) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": message,
		})
		return err
	}
	return nil
}

func BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return err
	}
	return nil
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
