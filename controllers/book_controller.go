package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/library-backend/middleware"
	"github.com/vnkhanh/library-backend/models"
)

type AddBookInput struct {
	BookName    string `json:"book_name" binding:"required"`
	Author      string `json:"author" binding:"required"`
	Description string `json:"description" binding:"required"`
	Content     string `json:"content" binding:"required"`
	SectionID   uint   `json:"section_id" binding:"required"`
}

type UpdateBookInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Author      string `json:"author" binding:"required"`
}

func AddBook(c *gin.Context) {
	var input AddBookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields (name, content, author, section_id) are required"})
		return
	}

	db := middleware.GetDB(c)

	var section models.Section
	if err := db.First(&section, input.SectionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Section not found"})
		return
	}

	book := models.Book{
		BookName:    input.BookName,
		Author:      input.Author,
		Description: input.Description,
		Content:     input.Content,
		SectionID:   input.SectionID,
	}
	if err := db.Create(&book).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create book"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Book created successfully", "book_id": book.ID})
}

func UpdateBook(c *gin.Context) {
	db := middleware.GetDB(c)

	var book models.Book
	if err := db.First(&book, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Book not found"})
		return
	}

	var input UpdateBookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields (name, description, author) are required"})
		return
	}

	book.BookName = input.Name
	book.Description = input.Description
	book.Author = input.Author
	if err := db.Save(&book).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update book"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book updated successfully"})
}

// DeleteBook removes a book, releasing the holder's slot when the book
// is currently out.
func DeleteBook(c *gin.Context) {
	db := middleware.GetDB(c)

	var book models.Book
	if err := db.First(&book, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Book not found"})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if book.UserID != nil {
			var user models.User
			if err := tx.First(&user, *book.UserID).Error; err == nil && user.BookCounts > 0 {
				user.BookCounts--
				if err := tx.Save(&user).Error; err != nil {
					return err
				}
			}
		}
		return tx.Delete(&book).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not delete book"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
}

func GetAllBooks(c *gin.Context) {
	db := middleware.GetDB(c)

	var books []models.Book
	if err := db.Find(&books).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	allBooks := make([]gin.H, 0, len(books))
	for _, book := range books {
		allBooks = append(allBooks, gin.H{
			"id":           book.ID,
			"book_name":    book.BookName,
			"author":       book.Author,
			"description":  book.Description,
			"content":      book.Content,
			"section_id":   book.SectionID,
			"likes":        book.Likes,
			"dislikes":     book.Dislikes,
			"due_date":     book.DueDate,
			"date_created": book.DateCreated,
			"user_id":      book.UserID,
			"is_approved":  book.IsApproved,
			"is_requested": book.IsRequested,
		})
	}
	c.JSON(http.StatusOK, gin.H{"books": allBooks})
}

func AvailableBooks(c *gin.Context) {
	db := middleware.GetDB(c)

	var books []models.Book
	err := db.Where("is_requested = ? AND is_approved = ? AND user_id IS NULL", false, false).
		Find(&books).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	info := make([]gin.H, 0, len(books))
	for _, book := range books {
		info = append(info, gin.H{
			"book_id":     book.ID,
			"book_name":   book.BookName,
			"author":      book.Author,
			"description": book.Description,
		})
	}
	c.JSON(http.StatusOK, gin.H{"available_books_info": info})
}

func IssuedBooks(c *gin.Context) {
	db := middleware.GetDB(c)

	var books []models.Book
	if err := db.Where("is_approved = ?", true).Find(&books).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	info := make([]gin.H, 0, len(books))
	for _, book := range books {
		var username string
		if book.UserID != nil {
			var user models.User
			if err := db.First(&user, *book.UserID).Error; err == nil {
				username = user.Username
			}
		}
		info = append(info, gin.H{
			"user_id":     book.UserID,
			"username":    username,
			"book_name":   book.BookName,
			"author":      book.Author,
			"description": book.Description,
		})
	}
	c.JSON(http.StatusOK, gin.H{"issued_books_info": info})
}

// UserBooks lists the caller's approved books, releasing any that went
// overdue since the last visit before building the response.
func UserBooks(c *gin.Context) {
	db := middleware.GetDB(c)
	user := middleware.CurrentUser(c)

	var held []models.Book
	err := db.Where("is_requested = ? AND is_approved = ? AND user_id = ?", true, true, user.ID).
		Find(&held).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	books := make([]gin.H, 0, len(held))
	for _, book := range held {
		if book.DueDate != nil && book.DueDate.Before(time.Now()) {
			err := db.Transaction(func(tx *gorm.DB) error {
				if user.BookCounts > 0 {
					user.BookCounts--
					if err := tx.Save(user).Error; err != nil {
						return err
					}
				}
				book.ResetLending()
				return tx.Save(&book).Error
			})
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			continue
		}
		books = append(books, gin.H{
			"id":          book.ID,
			"author":      book.Author,
			"description": book.Description,
			"section_id":  book.SectionID,
			"content":     book.Content,
			"book_name":   book.BookName,
		})
	}

	c.JSON(http.StatusOK, gin.H{"books": books})
}

func LikeBook(c *gin.Context) {
	db := middleware.GetDB(c)

	var book models.Book
	if err := db.First(&book, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Book not found."})
		return
	}

	book.Likes++
	if err := db.Save(&book).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update book"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book liked successfully"})
}

func DislikeBook(c *gin.Context) {
	db := middleware.GetDB(c)

	var book models.Book
	if err := db.First(&book, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Book not found"})
		return
	}

	book.Dislikes++
	if err := db.Save(&book).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update book"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book disliked successfully"})
}

// BookContent serves the full text, but only to the approved borrower.
func BookContent(c *gin.Context) {
	db := middleware.GetDB(c)
	user := middleware.CurrentUser(c)

	var book models.Book
	if err := db.First(&book, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found."})
		return
	}

	if !book.IsApproved || book.UserID == nil || *book.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden access"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"book": gin.H{
			"book_id":     book.ID,
			"book_name":   book.BookName,
			"author":      book.Author,
			"description": book.Description,
			"rating":      book.Rating(),
			"content":     book.Content,
		},
	})
}
