package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/library-backend/middleware"
	"github.com/vnkhanh/library-backend/models"
)

type SectionInput struct {
	SectionName string `json:"section_name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

func GetSections(c *gin.Context) {
	db := middleware.GetDB(c)

	var sections []models.Section
	if err := db.Find(&sections).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sectionsData := make([]gin.H, 0, len(sections))
	for _, section := range sections {
		sectionsData = append(sectionsData, gin.H{
			"id":           section.ID,
			"section_name": section.SectionName,
		})
	}
	c.JSON(http.StatusOK, sectionsData)
}

func AddSection(c *gin.Context) {
	var input SectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required data"})
		return
	}

	db := middleware.GetDB(c)

	section := models.Section{
		SectionName: input.SectionName,
		Description: input.Description,
	}
	if err := db.Create(&section).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Section name already exists"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Section created successfully"})
}

func UpdateSection(c *gin.Context) {
	db := middleware.GetDB(c)

	var section models.Section
	if err := db.First(&section, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Section not found"})
		return
	}

	var input SectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required data"})
		return
	}

	section.SectionName = input.SectionName
	section.Description = input.Description
	if err := db.Save(&section).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update section"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Section updated successfully"})
}

// DeleteSection removes a section and every book in it. Holders of
// books being deleted get their running count released first.
func DeleteSection(c *gin.Context) {
	db := middleware.GetDB(c)

	var section models.Section
	if err := db.Preload("Books").First(&section, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Section not found"})
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, book := range section.Books {
			if book.UserID == nil {
				continue
			}
			var user models.User
			if err := tx.First(&user, *book.UserID).Error; err != nil {
				continue
			}
			if user.BookCounts > 0 {
				user.BookCounts--
				if err := tx.Save(&user).Error; err != nil {
					return err
				}
			}
		}
		if err := tx.Where("section_id = ?", section.ID).Delete(&models.Book{}).Error; err != nil {
			return err
		}
		return tx.Delete(&section).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not delete section"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Section deleted successfully"})
}

// AppData returns the librarian dashboard snapshot: all users, books
// and sections.
func AppData(c *gin.Context) {
	db := middleware.GetDB(c)

	var users []models.User
	if err := db.Preload("Roles").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	allUsers := make([]gin.H, 0, len(users))
	usernames := make(map[uint]string, len(users))
	for _, user := range users {
		usernames[user.ID] = user.Username
		allUsers = append(allUsers, gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"username":   user.Username,
			"active":     user.Active,
			"roles":      user.RoleNames(),
			"book_count": user.BookCounts,
		})
	}

	var sections []models.Section
	if err := db.Preload("Books").Find(&sections).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	sectionNames := make(map[uint]string, len(sections))
	allSections := make([]gin.H, 0, len(sections))
	for _, section := range sections {
		sectionNames[section.ID] = section.SectionName
		bookNames := make([]string, 0, len(section.Books))
		for _, book := range section.Books {
			bookNames = append(bookNames, book.BookName)
		}
		allSections = append(allSections, gin.H{
			"id":           section.ID,
			"section_name": section.SectionName,
			"date_created": section.DateCreated,
			"description":  section.Description,
			"books":        bookNames,
		})
	}

	var books []models.Book
	if err := db.Find(&books).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	allBooks := make([]gin.H, 0, len(books))
	for _, book := range books {
		var username interface{}
		if book.UserID != nil {
			username = usernames[*book.UserID]
		}
		allBooks = append(allBooks, gin.H{
			"id":           book.ID,
			"book_name":    book.BookName,
			"author":       book.Author,
			"description":  book.Description,
			"content":      book.Content,
			"section_id":   book.SectionID,
			"section_name": sectionNames[book.SectionID],
			"likes":        book.Likes,
			"dislikes":     book.Dislikes,
			"date_created": book.DateCreated,
			"user_id":      book.UserID,
			"username":     username,
			"is_approved":  book.IsApproved,
			"is_requested": book.IsRequested,
		})
	}

	c.JSON(http.StatusOK, gin.H{"users": allUsers, "books": allBooks, "sections": allSections})
}
