package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Statement stores metadata about an exported earnings statement.
// The CSV itself lives in object storage.
type Statement struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	Month        int                `bson:"month" json:"month"`
	Year         int                `bson:"year" json:"year"`
	ObjectKey    string             `bson:"objectKey" json:"-"` // key in the bucket, internal use
	FileName     string             `bson:"fileName" json:"fileName"`
	ContentType  string             `bson:"contentType" json:"contentType"`
	Size         int64              `bson:"size" json:"size"`
	PaymentCount int                `bson:"paymentCount" json:"paymentCount"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
