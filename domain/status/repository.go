package status

import (
	"context"

	"github.com/akeren/resfi-api/internal/models"
	"github.com/akeren/resfi-api/pkg/circuitbreaker"
	apperrors "github.com/akeren/resfi-api/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type StatusCheckRepository interface {
	// Insert stores one status check document.
	Insert(ctx context.Context, check *models.StatusCheck) error
	// List returns up to limit documents in natural order.
	List(ctx context.Context, limit int64) ([]*models.StatusCheck, error)
	// Ping checks the document store connection.
	Ping(ctx context.Context) error
}

type statusCheckRepository struct {
	collection *mongo.Collection
	breaker    circuitbreaker.CircuitBreaker
}

// NewStatusCheckRepository guards every call with breaker; nil gets the default breaker.
func NewStatusCheckRepository(db *mongo.Database, breaker circuitbreaker.CircuitBreaker) StatusCheckRepository {
	return newStatusCheckRepository(db.Collection(CollectionName), breaker)
}

func newStatusCheckRepository(collection *mongo.Collection, breaker circuitbreaker.CircuitBreaker) *statusCheckRepository {
	if breaker == nil {
		breaker = circuitbreaker.NewCircuitBreaker(nil)
	}
	return &statusCheckRepository{collection: collection, breaker: breaker}
}

func (r *statusCheckRepository) Insert(ctx context.Context, check *models.StatusCheck) error {
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		_, err := r.collection.InsertOne(ctx, toDocument(check))
		return err
	})
	if err != nil {
		return apperrors.NewDatabaseError(MessageStoreError, err)
	}

	return nil
}

func (r *statusCheckRepository) List(ctx context.Context, limit int64) ([]*models.StatusCheck, error) {
	var docs []statusCheckDocument

	// Only store round trips count against the breaker; decoding happens after.
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		opts := options.Find().
			SetProjection(bson.D{{Key: "_id", Value: 0}}).
			SetLimit(limit)

		cursor, err := r.collection.Find(ctx, bson.D{}, opts)
		if err != nil {
			return err
		}

		return cursor.All(ctx, &docs)
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError(MessageStoreError, err)
	}

	checks := make([]*models.StatusCheck, 0, len(docs))
	for _, doc := range docs {
		check, err := fromDocument(doc)
		if err != nil {
			return nil, apperrors.NewDatabaseError(MessageStoreError, err)
		}
		checks = append(checks, check)
	}

	return checks, nil
}

func (r *statusCheckRepository) Ping(ctx context.Context) error {
	if err := r.collection.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return apperrors.NewServiceUnavailableError("document store unreachable", err)
	}
	return nil
}
