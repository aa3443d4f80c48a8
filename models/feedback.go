package models

import "time"

// Feedback is the customer's rating of how a complaint was handled, at most one per complaint
type Feedback struct {
	FeedbackID  uint       `gorm:"primaryKey;autoIncrement" json:"feedback_id"`
	ComplaintID uint       `gorm:"not null;uniqueIndex" json:"complaint_id"`
	Complaint   *Complaint `gorm:"foreignKey:ComplaintID;references:ComplaintID" json:"-"`
	Rating      int        `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comments    *string    `gorm:"type:text" json:"comments"`
	SubmittedAt time.Time  `gorm:"autoCreateTime" json:"submitted_at"`
}

// TableName specifies the table name for the Feedback model
func (Feedback) TableName() string {
	return "feedback"
}

// All returns every model in migration order
func All() []interface{} {
	return []interface{}{&User{}, &Complaint{}, &ComplaintUpdate{}, &Attachment{}, &Feedback{}}
}
