package services

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/vnkhanh/library-backend/models"
)

// MaxBooksPerUser caps how many books a user may hold at once.
const MaxBooksPerUser = 5

// RequestBook moves an available book into the requested state on
// behalf of userID and bumps the user's running count. Each transition
// runs in its own transaction so the count and the book flags can
// never diverge.
func RequestBook(db *gorm.DB, bookID, userID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			return ErrNotFound
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return ErrNotFound
		}

		if user.BookCounts >= MaxBooksPerUser {
			return ErrLimitExceeded
		}

		if !book.Available() {
			return ErrAlreadyTaken
		}

		book.IsRequested = true
		book.UserID = &userID
		if err := tx.Save(&book).Error; err != nil {
			return err
		}

		user.BookCounts++
		return tx.Save(&user).Error
	})
}

// ApproveBook grants a pending request and stamps the due date.
func ApproveBook(db *gorm.DB, bookID uint, loanPeriod time.Duration) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			return ErrNotFound
		}

		if !book.IsRequested || book.IsApproved {
			return ErrInvalidState
		}

		due := time.Now().Add(loanPeriod)
		book.IsApproved = true
		book.DueDate = &due
		return tx.Save(&book).Error
	})
}

// ReturnBook hands an approved book back and releases the borrower's
// slot.
func ReturnBook(db *gorm.DB, bookID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			return ErrNotFound
		}

		if !book.IsApproved {
			return ErrInvalidState
		}

		return releaseBook(tx, &book)
	})
}

// RevokeAccess forces a requested or approved book back to available.
func RevokeAccess(db *gorm.DB, bookID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			return ErrNotFound
		}

		if book.Available() {
			return ErrInvalidState
		}

		return releaseBook(tx, &book)
	})
}

// OverdueSweep releases every approved book whose due date has passed
// and reports how many it touched. Running it again right away finds
// nothing and changes nothing.
func OverdueSweep(db *gorm.DB) (int, error) {
	swept := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		var overdue []models.Book
		if err := tx.Where("is_approved = ? AND due_date < ?", true, time.Now()).Find(&overdue).Error; err != nil {
			return err
		}

		for i := range overdue {
			if err := releaseBook(tx, &overdue[i]); err != nil {
				return err
			}
			swept++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return swept, nil
}

// releaseBook resets the lending fields and decrements the borrower's
// count. A missing borrower row is logged and skipped so the book is
// never left stuck.
func releaseBook(tx *gorm.DB, book *models.Book) error {
	if book.UserID != nil {
		var user models.User
		if err := tx.First(&user, *book.UserID).Error; err != nil {
			log.Printf("book %d: borrower %d not found, releasing anyway", book.ID, *book.UserID)
		} else if user.BookCounts > 0 {
			user.BookCounts--
			if err := tx.Save(&user).Error; err != nil {
				return err
			}
		}
	}

	book.ResetLending()
	return tx.Save(book).Error
}
