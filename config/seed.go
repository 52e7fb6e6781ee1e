package config

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vnkhanh/library-backend/models"
)

// Seed creates the two roles, the librarian account and a starter
// catalog. Safe to run on every startup.
func Seed(db *gorm.DB, librarianEmail string) error {
	roles := []models.Role{
		{Name: models.RoleUser, Description: "This is the user role"},
		{Name: models.RoleLibrarian, Description: "This is the librarian role"},
	}
	for i := range roles {
		if err := db.Where(models.Role{Name: roles[i].Name}).FirstOrCreate(&roles[i]).Error; err != nil {
			return err
		}
	}

	var librarian models.User
	err := db.Where("email = ?", librarianEmail).First(&librarian).Error
	if err == gorm.ErrRecordNotFound {
		hashed, err := bcrypt.GenerateFromPassword([]byte(getEnvOrDefault("LIBRARIAN_PASSWORD", "librarian")), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		librarian = models.User{
			Username: "librarian",
			Email:    librarianEmail,
			Password: string(hashed),
			Roles:    []models.Role{roles[1]},
		}
		if err := db.Create(&librarian).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	sections := []models.Section{
		{SectionName: "Fiction", Description: "Fictional works including novels, short stories, etc."},
		{SectionName: "Science", Description: "Books related to science and technology."},
		{SectionName: "History", Description: "Books on historical events and figures."},
		{SectionName: "Biography", Description: "Biographies and autobiographies of famous personalities."},
		{SectionName: "Philosophy", Description: "Books on philosophical thoughts and theories."},
	}
	for i := range sections {
		if err := db.Where(models.Section{SectionName: sections[i].SectionName}).FirstOrCreate(&sections[i]).Error; err != nil {
			return err
		}
	}

	books := []models.Book{
		{BookName: "Shadows of Justice", Author: "Harper Lee", Description: "A powerful narrative on social inequality and the quest for justice.", Content: "A small town grapples with deep-seated prejudice through the eyes of a young girl whose father takes on a case that challenges the town's moral compass.", SectionID: sections[0].ID, Likes: 12, Dislikes: 3},
		{BookName: "The Universe Unveiled", Author: "Stephen Hawking", Description: "An exploration of the universe's most intriguing mysteries.", Content: "From the origins of the universe to black holes and the nature of time, complex theories made accessible to every reader.", SectionID: sections[1].ID, Likes: 15, Dislikes: 2},
		{BookName: "Reflections of Hope", Author: "Anne Frank", Description: "The remarkable story of a young girl during a time of great turmoil.", Content: "Diary entries written in hiding reveal thoughts on life, love and the resilience of the human spirit in the darkest of times.", SectionID: sections[2].ID, Likes: 25, Dislikes: 1},
		{BookName: "The Innovator's Journey", Author: "Walter Isaacson", Description: "A detailed look into the life of a groundbreaking tech visionary.", Content: "The highs and lows of a technology pioneer whose drive produced some of the most iconic products of our time.", SectionID: sections[3].ID, Likes: 10, Dislikes: 0},
		{BookName: "Thoughts to Live By", Author: "Marcus Aurelius", Description: "A collection of philosophical insights from an ancient ruler.", Content: "Meditations on life, leadership and the pursuit of virtue, with timeless guidance on navigating hardship with integrity.", SectionID: sections[4].ID, Likes: 20, Dislikes: 4},
	}
	for i := range books {
		if err := db.Where(models.Book{BookName: books[i].BookName}).FirstOrCreate(&books[i]).Error; err != nil {
			return err
		}
	}

	log.Println("sample data initialized successfully")
	return nil
}
