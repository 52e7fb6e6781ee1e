package jobs

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/library-backend/config"
	"github.com/vnkhanh/library-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func createUserWithRole(t *testing.T, db *gorm.DB, email, roleName string, lastActivity time.Time) models.User {
	t.Helper()
	var role models.Role
	require.NoError(t, db.Where(models.Role{Name: roleName}).FirstOrCreate(&role).Error)
	user := models.User{
		Username:     email[:len(email)-len("@x.com")],
		Email:        email,
		Password:     "x",
		Active:       true,
		LastActivity: lastActivity,
		Roles:        []models.Role{role},
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestInactivityJobNoStaleUsers(t *testing.T) {
	db := newTestDB(t)
	createUserWithRole(t, db, "fresh@x.com", models.RoleUser, time.Now())

	notified := 0
	job := &InactivityJob{
		DB:     db,
		Window: 24 * time.Hour,
		Notify: func(string) error {
			notified++
			return nil
		},
	}

	msg, err := job.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, "no inactive users today", msg)
	assert.Equal(t, 0, notified)
}

func TestInactivityJobNotifiesStaleUsers(t *testing.T) {
	db := newTestDB(t)
	stale := time.Now().Add(-48 * time.Hour)
	createUserWithRole(t, db, "sleepy@x.com", models.RoleUser, stale)
	createUserWithRole(t, db, "fresh@x.com", models.RoleUser, time.Now())

	// The librarian is never pinged, however stale.
	createUserWithRole(t, db, "librarian@x.com", models.RoleLibrarian, stale)

	var pinged []string
	job := &InactivityJob{
		DB:     db,
		Window: 24 * time.Hour,
		Notify: func(username string) error {
			pinged = append(pinged, username)
			return nil
		},
	}

	msg, err := job.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, "notification sent to chat space", msg)
	assert.Equal(t, []string{"sleepy"}, pinged)
}

func TestMonthlyReportJob(t *testing.T) {
	db := newTestDB(t)
	reader := createUserWithRole(t, db, "reader@x.com", models.RoleUser, time.Now())
	createUserWithRole(t, db, "librarian@x.com", models.RoleLibrarian, time.Now())

	section := models.Section{SectionName: "s", Description: "d"}
	require.NoError(t, db.Create(&section).Error)
	due := time.Now().Add(72 * time.Hour)
	issued := models.Book{
		BookName: "Issued One", Author: "A", Description: "d", Content: "c",
		SectionID: section.ID, UserID: &reader.ID,
		IsRequested: true, IsApproved: true, DueDate: &due,
	}
	require.NoError(t, db.Create(&issued).Error)
	require.NoError(t, db.Create(&models.Book{
		BookName: "Shelf One", Author: "B", Description: "d", Content: "c", SectionID: section.ID,
	}).Error)

	var sentTo []string
	var lastBody string
	job := &MonthlyReportJob{
		DB: db,
		Send: func(to, subject, body string) error {
			sentTo = append(sentTo, to)
			lastBody = body
			return nil
		},
	}

	msg, err := job.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, "monthly report sent", msg)

	// Only the user-role account gets mail, with both book lists rendered.
	assert.Equal(t, []string{"reader@x.com"}, sentTo)
	assert.Contains(t, lastBody, "Issued One")
	assert.Contains(t, lastBody, "Shelf One")
}

func TestMonthlyReportJobDeliveryFailureDoesNotAbort(t *testing.T) {
	db := newTestDB(t)
	createUserWithRole(t, db, "first@x.com", models.RoleUser, time.Now())
	createUserWithRole(t, db, "second@x.com", models.RoleUser, time.Now())

	attempts := 0
	job := &MonthlyReportJob{
		DB: db,
		Send: func(to, subject, body string) error {
			attempts++
			return errors.New("smtp down")
		},
	}

	msg, err := job.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, "monthly report sent", msg)
	assert.Equal(t, 2, attempts)
}

func TestExportStore(t *testing.T) {
	db := newTestDB(t)
	section := models.Section{SectionName: "s", Description: "d"}
	require.NoError(t, db.Create(&section).Error)
	require.NoError(t, db.Create(&models.Book{
		BookName: "Exported", Author: "Writer", Description: "d", Content: "c", SectionID: section.ID,
	}).Error)

	store := NewExportStore(t.TempDir())

	// Unknown ids read as pending.
	_, done := store.Lookup("nope")
	assert.False(t, done)

	id := store.Start(db)

	var path string
	require.Eventually(t, func() bool {
		var ok bool
		path, ok = store.Lookup(id)
		return ok
	}, 5*time.Second, 10*time.Millisecond)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"author", "book_name"}, rows[0])
	assert.Equal(t, []string{"Writer", "Exported"}, rows[1])
}
