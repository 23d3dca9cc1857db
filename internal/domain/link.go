package domain

import (
	"time"
)

// ShortLink is the sole persistent entity: a short code mapped to a
// target URL. The code is immutable after creation; only the target
// may change, which is what keeps printed QR codes working.
type ShortLink struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	Code       string    `gorm:"uniqueIndex;not null;size:16" json:"code"`
	TargetURL  string    `gorm:"not null;size:2048" json:"target_url"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	ClickCount int64     `gorm:"default:0" json:"click_count"`
}

// TableName specifies the table name for GORM.
func (ShortLink) TableName() string {
	return "short_links"
}

// CreateLinkRequest is the payload for POST /create.
// Code is optional; when absent a random code is generated.
type CreateLinkRequest struct {
	TargetURL string `json:"target_url" binding:"required,max=2048"`
	Code      string `json:"code,omitempty"`
}

// UpdateLinkRequest is the payload for PATCH /update/{code}.
type UpdateLinkRequest struct {
	TargetURL string `json:"target_url" binding:"required,max=2048"`
}

// PaginatedLinks is the response for GET /links.
type PaginatedLinks struct {
	Items []ShortLink `json:"items"`
	Total int64       `json:"total"`
	Skip  int         `json:"skip"`
	Limit int         `json:"limit"`
}

// LoginRequest carries the admin credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// QRResponse carries a base64-encoded PNG for GET /qr/{code}.
type QRResponse struct {
	QRBase64 string `json:"qr_base64"`
}

// MessageResponse is a generic acknowledgement body.
type MessageResponse struct {
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// ErrorResponse represents a standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
