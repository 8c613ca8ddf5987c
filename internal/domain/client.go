package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientFilter selects clients by their active flag.
type ClientFilter string

const (
	FilterAll    ClientFilter = "all"
	FilterActive ClientFilter = "active"
	FilterPast   ClientFilter = "past" // inactive clients
)

// Client is a person trained by a User.
type Client struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           primitive.ObjectID `bson:"userId" json:"userId"` // Owning trainer
	Name             string             `bson:"name" json:"name"`
	StartDate        time.Time          `bson:"startDate" json:"startDate"`   // UTC midnight, anchors billing cycles
	MonthlyFee       decimal.Decimal    `bson:"monthlyFee" json:"monthlyFee"` // > 0
	StartingWeightKg *float64           `bson:"startingWeightKg,omitempty" json:"startingWeightKg,omitempty"`
	IsActive         bool               `bson:"isActive" json:"isActive"`
	Notes            string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
