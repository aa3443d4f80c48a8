package models

import "time"

// Complaint status values
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
	StatusClosed     = "Closed"
)

// Complaint priority values
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

var Statuses = []string{StatusPending, StatusInProgress, StatusResolved, StatusClosed}

var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

// Complaint is a customer complaint and its current triage state
type Complaint struct {
	ComplaintID   uint      `gorm:"primaryKey;autoIncrement" json:"complaint_id"`
	UserID        string    `gorm:"not null;index;size:128" json:"user_id"` // owner
	Owner         *User     `gorm:"foreignKey:UserID;references:UserID" json:"-"`
	Category      string    `gorm:"not null" json:"category"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	Status        string    `gorm:"not null;default:'Pending';index" json:"status"`
	Priority      string    `gorm:"not null;default:'Medium';index" json:"priority"`
	AssignedStaff *string   `gorm:"index;size:128" json:"assigned_staff"` // nullable user id
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Complaint model
func (Complaint) TableName() string {
	return "complaints"
}

// IsValidStatus reports whether status is a complaint status
func IsValidStatus(status string) bool {
	return contains(Statuses, status)
}

// IsValidPriority reports whether priority is a complaint priority
func IsValidPriority(priority string) bool {
	return contains(Priorities, priority)
}
