package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Goal is the training goal a client picks during onboarding.
type Goal string

const (
	GoalWeightLoss Goal = "weight_loss"
	GoalMuscleGain Goal = "muscle_gain"
	GoalEndurance  Goal = "endurance"
	GoalStrength   Goal = "strength"
)

func (g Goal) Valid() bool {
	switch g {
	case GoalWeightLoss, GoalMuscleGain, GoalEndurance, GoalStrength:
		return true
	}
	return false
}

// Equipment is where the client trains.
type Equipment string

const (
	EquipmentGym  Equipment = "gym"
	EquipmentHome Equipment = "home"
)

func (e Equipment) Valid() bool {
	return e == EquipmentGym || e == EquipmentHome
}

// Client is a person being coached. Completed workouts and the current weekly
// plan are embedded so a single read is enough to classify engagement.
type Client struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name           string              `bson:"name" json:"name"`
	Age            int                 `bson:"age,omitempty" json:"age,omitempty"`
	Gender         string              `bson:"gender,omitempty" json:"gender,omitempty"`
	HeightCm       float64             `bson:"heightCm,omitempty" json:"heightCm,omitempty"`
	WeightKg       float64             `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	Goal           Goal                `bson:"goal" json:"goal"`
	Equipment      Equipment           `bson:"equipment" json:"equipment"`
	TelegramHandle string              `bson:"telegramHandle" json:"telegramHandle"` // normalized, unique
	TrainerID      *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"`

	CompletedWorkouts []WorkoutRecord `bson:"completedWorkouts" json:"completedWorkouts"`
	WeeklyPlan        WeeklyPlan      `bson:"weeklyPlan" json:"weeklyPlan"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasTrainer reports whether a trainer is assigned.
func (c *Client) HasTrainer() bool {
	return c.TrainerID != nil && *c.TrainerID != primitive.NilObjectID
}
