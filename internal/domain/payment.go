package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment is money received from a client. Month and Year record the billing
// cycle the payment was attributed to when it was created; they are derived
// from PaidOn and the client's start date and are never edited directly.
type Payment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"` // Denormalized owner for auth checks
	Amount    decimal.Decimal    `bson:"amount" json:"amount"`
	PaidOn    time.Time          `bson:"paidOn" json:"paidOn"` // UTC midnight
	Month     int                `bson:"month" json:"month"`   // 1-12, cycle start month
	Year      int                `bson:"year" json:"year"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
