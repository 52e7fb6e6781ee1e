package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/library-backend/middleware"
	"github.com/vnkhanh/library-backend/models"
	"github.com/vnkhanh/library-backend/services"
	"github.com/vnkhanh/library-backend/ws"
)

func RequestBook(c *gin.Context) {
	db := middleware.GetDB(c)
	user := middleware.CurrentUser(c)

	var book models.Book
	if err := db.First(&book, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found."})
		return
	}

	switch err := services.RequestBook(db, book.ID, user.ID); {
	case err == nil:
	case errors.Is(err, services.ErrLimitExceeded):
		c.JSON(http.StatusBadRequest, gin.H{"error": "You have reached the maximum limit of books."})
		return
	case errors.Is(err, services.ErrAlreadyTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "This book is already requested by another user."})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ws.PublishBorrowEvent("requested", book.ID, book.BookName, fmt.Sprintf("%s requested by %s", book.BookName, user.Username))
	c.JSON(http.StatusOK, gin.H{"message": "Book requested successfully!"})
}

func ApproveBook(c *gin.Context) {
	db := middleware.GetDB(c)

	var book models.Book
	if err := db.First(&book, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unable to approve the book."})
		return
	}

	if err := services.ApproveBook(db, book.ID, Cfg.LoanPeriod); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unable to approve the book."})
		return
	}

	ws.PublishBorrowEvent("approved", book.ID, book.BookName, fmt.Sprintf("%s approved", book.BookName))
	c.JSON(http.StatusOK, gin.H{"message": "Book approved successfully!"})
}

func ReturnBook(c *gin.Context) {
	db := middleware.GetDB(c)

	var book models.Book
	if err := db.First(&book, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}

	switch err := services.ReturnBook(db, book.ID); {
	case err == nil:
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "This book is not issued"})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ws.PublishBorrowEvent("returned", book.ID, book.BookName, fmt.Sprintf("%s returned", book.BookName))
	c.JSON(http.StatusOK, gin.H{"message": "Book returned successfully"})
}

func RevokeAccess(c *gin.Context) {
	db := middleware.GetDB(c)

	var book models.Book
	if err := db.First(&book, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Unable to revoke access. Book not found"})
		return
	}

	switch err := services.RevokeAccess(db, book.ID); {
	case err == nil:
	case errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unable to revoke access. Book is not issued"})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	ws.PublishBorrowEvent("revoked", book.ID, book.BookName, fmt.Sprintf("access to %s revoked", book.BookName))
	c.JSON(http.StatusOK, gin.H{"message": "Access revoked successfully"})
}

func CheckOverdueBooks(c *gin.Context) {
	db := middleware.GetDB(c)

	swept, err := services.OverdueSweep(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if swept > 0 {
		ws.PublishBorrowEvent("overdue", 0, "", fmt.Sprintf("%d overdue books released", swept))
	}
	c.JSON(http.StatusOK, gin.H{"message": "Overdue books checked and access revoked successfully!"})
}
