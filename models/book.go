package models

import "time"

// Book moves through three lending states: available
// (is_requested=false, is_approved=false, user_id=nil), requested
// (is_requested=true, user_id set) and approved (both flags set,
// due_date set). Return, revoke and the overdue sweep all reset it
// back to available.
type Book struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	BookName    string     `gorm:"size:100;not null" json:"book_name"`
	Author      string     `gorm:"size:100;not null" json:"author"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	SectionID   uint       `gorm:"not null" json:"section_id"`
	Likes       int        `gorm:"default:0" json:"likes"`
	Dislikes    int        `gorm:"default:0" json:"dislikes"`
	DueDate     *time.Time `json:"due_date"`
	DateCreated time.Time  `gorm:"autoCreateTime" json:"date_created"`
	UserID      *uint      `json:"user_id"`
	IsApproved  bool       `gorm:"default:false" json:"is_approved"`
	IsRequested bool       `gorm:"default:false" json:"is_requested"`
}

// Available reports whether the book can be requested.
func (b *Book) Available() bool {
	return !b.IsRequested && !b.IsApproved && b.UserID == nil
}

// Rating is the like percentage over all votes, 0 when unvoted.
func (b *Book) Rating() float64 {
	total := b.Likes + b.Dislikes
	if total == 0 {
		return 0
	}
	return float64(b.Likes) / float64(total) * 100
}

// ResetLending puts the book back in the available state.
func (b *Book) ResetLending() {
	b.UserID = nil
	b.IsRequested = false
	b.IsApproved = false
	b.DueDate = nil
}
