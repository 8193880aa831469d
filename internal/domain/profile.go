package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is created the first time someone logs in through Telegram.
type Profile struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TelegramID     int64              `bson:"telegramId" json:"telegramId"`
	TelegramHandle string             `bson:"telegramHandle" json:"telegramHandle"`
	FirstName      string             `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName       string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	PhotoURL       string             `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	Role           Role               `bson:"role" json:"role"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// ChatBinding remembers which private chat belongs to a Telegram handle, so
// the bot can message people it only knows by username.
type ChatBinding struct {
	TelegramHandle string    `bson:"_id" json:"telegramHandle"`
	ChatID         int64     `bson:"chatId" json:"chatId"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
