package model

import "time"

type DownloadLink struct {
	ID uint64 `gorm:"primaryKey"`

	FileID uint64     `gorm:"column:file_id;not null;index"`
	File   FileRecord `gorm:"foreignKey:FileID;references:ID;constraint:OnDelete:CASCADE"`

	UserID uint64 `gorm:"column:user_id;not null;index"`
	User   User   `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`

	// Token is the opaque encrypted string handed to the client. The unique
	// index makes a token collision an issuance failure instead of a silent
	// overwrite.
	Token string `gorm:"column:token;size:500;uniqueIndex;not null"`

	ExpiresAt time.Time `gorm:"column:expires_at;not null"`

	Used   bool       `gorm:"column:used;not null;default:false"`
	UsedAt *time.Time `gorm:"column:used_at"`

	CreatedAt time.Time
}

// TableName returns the database table name.
func (DownloadLink) TableName() string {
	return "download_link"
}
