package models

import "time"

type Section struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SectionName string    `gorm:"size:100;uniqueIndex;not null" json:"section_name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	DateCreated time.Time `gorm:"autoCreateTime" json:"date_created"`

	// Deleting a section deletes its books.
	Books []Book `gorm:"constraint:OnDelete:CASCADE" json:"books,omitempty"`
}
