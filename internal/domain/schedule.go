package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutSchedule is one weekly recurring training block for a client.
// Several blocks may share a day and may overlap.
type WorkoutSchedule struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"` // Denormalized owner
	DayOfWeek int                `bson:"dayOfWeek" json:"dayOfWeek"` // 0 = Sunday .. 6 = Saturday
	StartTime string             `bson:"startTime" json:"startTime"` // HH:MM
	EndTime   string             `bson:"endTime" json:"endTime"`     // HH:MM, after StartTime
	Location  string             `bson:"location,omitempty" json:"location,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WeekdayNames maps DayOfWeek values to display names.
var WeekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
