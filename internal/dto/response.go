package dto

import "time"

// DownloadLinkResponse is returned when a link is issued.
type DownloadLinkResponse struct {
	DownloadLink string    `json:"download_link"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}
