package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role distinguishes what a token holder may do.
type Role string

const (
	RoleTrainer Role = "trainer"
	RoleClient  Role = "client"
)

// User is a trainer account. Clients live in their own collection (see Client)
// and log in through Telegram only.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`    // unique
	PasswordHash   string             `bson:"passwordHash" json:"-"` // never exposed
	Role           Role               `bson:"role" json:"role"`
	TelegramHandle string             `bson:"telegramHandle,omitempty" json:"telegramHandle,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Clients managed by this trainer.
	ClientIDs []primitive.ObjectID `bson:"clientIds,omitempty" json:"clientIds,omitempty"`
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

// NormalizeHandle strips a leading "@" and lower-cases a Telegram username so
// "@Anna_Fit" and "anna_fit" resolve to the same record.
func NormalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
}
