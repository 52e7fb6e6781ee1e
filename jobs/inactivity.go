package jobs

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/vnkhanh/library-backend/models"
)

// InactivityJob pings users who have not visited the app within the
// configured window via the chat webhook. The librarian account is
// never pinged.
type InactivityJob struct {
	DB       *gorm.DB
	Window   time.Duration
	CronSpec string
	Notify   func(username string) error
}

func (j *InactivityJob) Name() string { return "daily-inactivity-check" }
func (j *InactivityJob) Spec() string { return j.CronSpec }

func (j *InactivityJob) Run() error {
	msg, err := j.RunOnce()
	if err != nil {
		return err
	}
	log.Printf("[%s] %s", j.Name(), msg)
	return nil
}

// RunOnce scans for stale users and reports a summary. An empty scan
// is a normal outcome, not an error.
func (j *InactivityJob) RunOnce() (string, error) {
	threshold := time.Now().Add(-j.Window)

	var staleUsers []models.User
	err := j.DB.Where("last_activity < ? AND username <> ?", threshold, "librarian").
		Find(&staleUsers).Error
	if err != nil {
		return "", err
	}

	if len(staleUsers) == 0 {
		return "no inactive users today", nil
	}

	for _, user := range staleUsers {
		if err := j.Notify(user.Username); err != nil {
			log.Printf("failed to notify %s: %v", user.Username, err)
		}
	}

	return "notification sent to chat space", nil
}
