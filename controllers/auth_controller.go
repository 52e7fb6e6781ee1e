package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vnkhanh/library-backend/config"
	"github.com/vnkhanh/library-backend/middleware"
	"github.com/vnkhanh/library-backend/models"
	"github.com/vnkhanh/library-backend/utils"
)

// Cfg holds the runtime settings. Set once by routes.SetupRouter.
var Cfg config.Settings

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func UserRegister(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email, Username and Password are required."})
		return
	}

	db := middleware.GetDB(c)

	var existing models.User
	if err := db.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Email already registered."})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not hash password"})
		return
	}

	var userRole models.Role
	if err := db.Where("name = ?", models.RoleUser).First(&userRole).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "User role is not provisioned"})
		return
	}

	newUser := models.User{
		Email:        input.Email,
		Username:     input.Username,
		Password:     string(hashed),
		LastActivity: time.Now(),
		Roles:        []models.Role{userRole},
	}
	if err := db.Create(&newUser).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully. You can login now."})
}

func UserLogin(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and Password are required."})
		return
	}

	// The librarian signs in through its own endpoint.
	if input.Email == Cfg.LibrarianEmail {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid Email ID"})
		return
	}

	db := middleware.GetDB(c)

	var user models.User
	if err := db.Preload("Roles").Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found. Register first."})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Incorrect Password"})
		return
	}

	if err := touchActivity(db, &user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not record login"})
		return
	}

	token, err := utils.GenerateToken(user.ID, user.RoleNames())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"auth_token": token, "role": user.RoleNames()})
}

func LibrarianLogin(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and Password are required."})
		return
	}

	if input.Email != Cfg.LibrarianEmail {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid Email ID"})
		return
	}

	db := middleware.GetDB(c)

	var user models.User
	if err := db.Preload("Roles").Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Incorrect Password"})
		return
	}

	if err := touchActivity(db, &user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not record login"})
		return
	}

	token, err := utils.GenerateToken(user.ID, user.RoleNames())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"auth_token": token, "role": user.RoleNames()})
}

func GetUserName(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"username": user.Username})
}

func touchActivity(db *gorm.DB, user *models.User) error {
	user.LastActivity = time.Now()
	return db.Model(user).Update("last_activity", user.LastActivity).Error
}
