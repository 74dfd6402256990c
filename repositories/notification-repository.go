package repositories

import (
	"context"
	"time"

	"github.com/Dipxssi/synergysphere/models"
	"github.com/Dipxssi/synergysphere/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepo is the MongoDB implementation of services.NotificationStore.
type NotificationRepo struct {
	collection *mongo.Collection
}

func NewNotificationRepo(collection *mongo.Collection) *NotificationRepo {
	return &NotificationRepo{collection: collection}
}

func (r *NotificationRepo) Insert(ctx context.Context, notification *models.Notification) error {
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

func (r *NotificationRepo) FindByRecipient(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"recipient": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, recipient primitive.ObjectID, at time.Time) error {
	filter := bson.M{"_id": id, "recipient": recipient}
	update := bson.M{"$set": bson.M{"isRead": true, "readAt": at}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}
