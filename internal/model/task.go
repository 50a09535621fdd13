package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is a single todo item owned by exactly one user. CompletedDate is
// epoch milliseconds and is zero exactly when IsCompleted is false.
// Ownership never changes after creation.
type Task struct {
	ID            uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Text          string    `json:"text" gorm:"size:1024;not null"`
	IsCompleted   bool      `json:"isCompleted" gorm:"not null;default:false"`
	CompletedDate int64     `json:"completedDate" gorm:"not null;default:0"`
	OwnerID       uuid.UUID `json:"ownerId" gorm:"type:char(36);index;not null"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

// BeforeCreate assigns the primary key before the first insert.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
