package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const dbKey = "db"

// DBMiddleware makes the shared connection available to handlers, so
// nothing below the router touches a package-level database.
func DBMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(dbKey, db)
		c.Next()
	}
}

// GetDB returns the request-scoped connection.
func GetDB(c *gin.Context) *gorm.DB {
	return c.MustGet(dbKey).(*gorm.DB)
}
