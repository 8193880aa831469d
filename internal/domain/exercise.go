// internal/domain/exercise.go
package domain

// PlannedExercise is one line of a trainer's plan for a weekday.
type PlannedExercise struct {
	Name  string `bson:"name" json:"name"`
	Sets  int    `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps  string `bson:"reps,omitempty" json:"reps,omitempty"` // "8-10", "AMRAP", "30s"
	Rest  string `bson:"rest,omitempty" json:"rest,omitempty"`
	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`

	// Object key of a demo video in S3; clients get a presigned URL for it.
	VideoKey string `bson:"videoKey,omitempty" json:"videoKey,omitempty"`
}

// PerformedExercise is what the client actually did.
type PerformedExercise struct {
	Name     string  `bson:"name" json:"name"`
	Sets     int     `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps     int     `bson:"reps,omitempty" json:"reps,omitempty"`
	WeightKg float64 `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
}
