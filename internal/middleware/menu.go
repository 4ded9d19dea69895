package middleware

import "github.com/gin-gonic/gin"

const activeMenuKey = "active_menu"

// ActiveMenu marks which navigation entry the response belongs to.
func ActiveMenu(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(activeMenuKey, name)
		c.Next()
	}
}

func MenuFrom(c *gin.Context) string {
	return c.GetString(activeMenuKey)
}
