package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/library-backend/config"
	"github.com/vnkhanh/library-backend/controllers"
	"github.com/vnkhanh/library-backend/jobs"
	"github.com/vnkhanh/library-backend/middleware"
	"github.com/vnkhanh/library-backend/models"
	"github.com/vnkhanh/library-backend/ws"
)

// SetupRouter registers the whole API surface and wires the shared
// pieces into the controllers.
func SetupRouter(r *gin.Engine, db *gorm.DB, cfg config.Settings, exports *jobs.ExportStore) *gin.Engine {
	controllers.Cfg = cfg
	controllers.Exports = exports

	r.Use(middleware.DBMiddleware(db))

	r.GET("/health", controllers.HealthCheck)

	// Auth
	r.POST("/user_register", controllers.UserRegister)
	r.POST("/user_login", controllers.UserLogin)
	r.POST("/librarian_login", controllers.LibrarianLogin)

	// CSV export job: start + poll
	r.GET("/download", controllers.DownloadCSV)
	r.GET("/getcsv/:id", controllers.GetCSV)

	// Live borrow-event feed
	r.GET("/ws/notifications", ws.HandleNotificationsWebSocket)

	user := r.Group("")
	{
		user.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleUser))

		user.GET("/get_all_books", controllers.GetAllBooks)
		user.GET("/available_books", controllers.AvailableBooks)
		user.GET("/user_books", controllers.UserBooks)
		user.GET("/user_name", controllers.GetUserName)
		user.GET("/book_content/:id", controllers.BookContent)
		user.POST("/like_book/:id", controllers.LikeBook)
		user.POST("/dislike_book/:id", controllers.DislikeBook)
		user.POST("/request_book/:id", controllers.RequestBook)
		user.POST("/return_book/:id", controllers.ReturnBook)
	}

	librarian := r.Group("")
	{
		librarian.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleLibrarian))

		librarian.GET("/get_sections", controllers.GetSections)
		librarian.GET("/app_data", controllers.AppData)
		librarian.POST("/add_section", controllers.AddSection)
		librarian.PUT("/update_section/:id", controllers.UpdateSection)
		librarian.POST("/delete_section/:id", controllers.DeleteSection)

		librarian.POST("/add_book", controllers.AddBook)
		librarian.PUT("/update_book/:id", controllers.UpdateBook)
		librarian.POST("/delete_book/:id", controllers.DeleteBook)

		librarian.GET("/issued_books", controllers.IssuedBooks)
		librarian.POST("/approve_book/:id", controllers.ApproveBook)
		librarian.POST("/revoke_access/:id", controllers.RevokeAccess)
		librarian.POST("/check_overdue_books", controllers.CheckOverdueBooks)
	}

	return r
}
