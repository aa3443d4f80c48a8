package models

import "time"

// Attachment is metadata for a file the client uploaded to blob storage
type Attachment struct {
	AttachmentID uint       `gorm:"primaryKey;autoIncrement" json:"attachment_id"`
	ComplaintID  uint       `gorm:"not null;index" json:"complaint_id"`
	Complaint    *Complaint `gorm:"foreignKey:ComplaintID;references:ComplaintID" json:"-"`
	FileName     string     `gorm:"not null" json:"file_name"`
	FileURL      string     `gorm:"type:text;not null" json:"file_url"`
	FileType     string     `gorm:"not null" json:"file_type"`
	FileSize     int64      `gorm:"not null" json:"file_size"` // bytes
	UploadedAt   time.Time  `gorm:"autoCreateTime;index" json:"uploaded_at"`
}

// TableName specifies the table name for the Attachment model
func (Attachment) TableName() string {
	return "attachments"
}
