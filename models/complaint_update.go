package models

import "time"

// ComplaintUpdate is an append-only audit entry recording a status and a staff comment
type ComplaintUpdate struct {
	UpdateID      uint       `gorm:"primaryKey;autoIncrement" json:"update_id"`
	ComplaintID   uint       `gorm:"not null;index" json:"complaint_id"`
	Complaint     *Complaint `gorm:"foreignKey:ComplaintID;references:ComplaintID" json:"-"`
	UpdatedBy     string     `gorm:"not null;index;size:128" json:"updated_by"` // author user id
	Status        string     `gorm:"not null" json:"status"`
	Comment       string     `gorm:"type:text;not null" json:"comment"`
	UpdatedAt     time.Time  `gorm:"index" json:"updated_at"`
	UpdatedByName *string    `gorm:"->;-:migration" json:"updated_by_name,omitempty"` // joined from users.full_name
}

// TableName specifies the table name for the ComplaintUpdate model
func (ComplaintUpdate) TableName() string {
	return "complaint_updates"
}
