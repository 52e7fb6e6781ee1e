package jobs

import (
	"bytes"
	"html/template"
	"log"

	"gorm.io/gorm"

	"github.com/vnkhanh/library-backend/models"
)

const reportTemplate = `<html>
<body>
<h2>Hello {{.Username}},</h2>
<p>Here is your monthly library report.</p>
<h3>Books currently issued to you</h3>
{{if .IssuedBooks}}<ul>
{{range .IssuedBooks}}<li>{{.BookName}} by {{.Author}} (due {{.DueDate.Format "02 Jan 2006"}})</li>
{{end}}</ul>{{else}}<p>You have no books issued right now.</p>{{end}}
<h3>All books in the library</h3>
<ul>
{{range .AllBooks}}<li>{{.BookName}} by {{.Author}}</li>
{{end}}</ul>
<p>Happy reading!</p>
</body>
</html>`

var reportTmpl = template.Must(template.New("report").Parse(reportTemplate))

// MonthlyReportJob mails every user-role account a report of their
// issued books and the full catalog.
type MonthlyReportJob struct {
	DB       *gorm.DB
	CronSpec string
	Send     func(to, subject, body string) error
}

func (j *MonthlyReportJob) Name() string { return "monthly-report" }
func (j *MonthlyReportJob) Spec() string { return j.CronSpec }

func (j *MonthlyReportJob) Run() error {
	msg, err := j.RunOnce()
	if err != nil {
		return err
	}
	log.Printf("[%s] %s", j.Name(), msg)
	return nil
}

// RunOnce sends the batch and reports a summary. A delivery failure
// for one recipient is logged and never aborts the rest.
func (j *MonthlyReportJob) RunOnce() (string, error) {
	var users []models.User
	err := j.DB.
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.name = ?", models.RoleUser).
		Find(&users).Error
	if err != nil {
		return "", err
	}

	var allBooks []models.Book
	if err := j.DB.Find(&allBooks).Error; err != nil {
		return "", err
	}

	for _, user := range users {
		var issued []models.Book
		err := j.DB.Where("is_requested = ? AND is_approved = ? AND user_id = ?", true, true, user.ID).
			Find(&issued).Error
		if err != nil {
			return "", err
		}

		var body bytes.Buffer
		err = reportTmpl.Execute(&body, map[string]interface{}{
			"Username":    user.Username,
			"IssuedBooks": issued,
			"AllBooks":    allBooks,
		})
		if err != nil {
			return "", err
		}

		if err := j.Send(user.Email, "Monthly Report", body.String()); err != nil {
			log.Printf("failed to send email to %s: %v", user.Email, err)
		}
	}

	return "monthly report sent", nil
}
