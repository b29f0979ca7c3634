package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/grandstay/booking-console/internal/core/ports"
)

const auditCollection = "booking_transitions"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(auditCollection)}
}

// InsertTransition persists one status change attempt.
func (r *AuditRepository) InsertTransition(ctx context.Context, rec ports.TransitionRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, transitionDocument(rec))
	return err
}

func transitionDocument(rec ports.TransitionRecord) bson.M {
	doc := bson.M{
		"booking_id":  rec.BookingID,
		"from":        string(rec.From),
		"to":          string(rec.To),
		"actor":       rec.Actor,
		"role":        string(rec.Role),
		"outcome":     rec.Outcome,
		"occurred_at": rec.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if rec.Error != "" {
		doc["error"] = rec.Error
	}
	return doc
}

// EnsureIndexes creates the indexes used to read a booking's history.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "booking_id", Value: 1}, {Key: "occurred_at", Value: 1}}},
		{Keys: bson.D{{Key: "actor", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

var _ ports.AuditRepository = (*AuditRepository)(nil)
