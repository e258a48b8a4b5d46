package model

import (
	"time"

	"gorm.io/gorm"
)

type FileRecord struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	Name string `gorm:"column:name;size:255;not null" json:"name"`

	// ObjectName is the key of the stored bytes in the object store bucket.
	ObjectName string `gorm:"column:object_name;size:512;not null" json:"-"`

	ContentType string `gorm:"column:content_type;size:100;not null" json:"content_type"`
	Size        int64  `gorm:"column:size;not null" json:"size"`

	UploaderID uint64 `gorm:"column:uploader_id;index;not null" json:"uploader_id"`
	Uploader   User   `gorm:"foreignKey:UploaderID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	// Active is the soft-delete flag. Deleted files stay in the table while
	// download links still reference them; only the flag flips.
	Active bool `gorm:"column:active;not null;default:true" json:"active"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName returns the database table name.
func (FileRecord) TableName() string {
	return "file_record"
}
