package model

import (
	"time"

	"github.com/google/uuid"
)

// AccessAuth is the only token purpose issued today.
const AccessAuth = "auth"

// UserToken is one live session token. A token is valid only while its row
// exists: deleting the row revokes the session even though the token's
// signature still verifies.
type UserToken struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	UserID    uuid.UUID `json:"-" gorm:"type:char(36);index;not null"`
	Access    string    `json:"access" gorm:"size:32;not null"`
	Token     string    `json:"token" gorm:"size:512;not null;index:idx_user_tokens_token,length:191"`
	CreatedAt time.Time `json:"-"`
}
