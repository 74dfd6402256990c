package repositories

import (
	"context"
	"errors"

	"github.com/Dipxssi/synergysphere/models"
	"github.com/Dipxssi/synergysphere/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskRepo is the MongoDB implementation of services.TaskStore.
type TaskRepo struct {
	collection *mongo.Collection
}

func NewTaskRepo(collection *mongo.Collection) *TaskRepo {
	return &TaskRepo{collection: collection}
}

func (r *TaskRepo) Insert(ctx context.Context, task *models.Task) error {
	_, err := r.collection.InsertOne(ctx, task)
	return err
}

func (r *TaskRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepo) FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"project": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepo) Replace(ctx context.Context, task *models.Task) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (r *TaskRepo) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"project": projectID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *TaskRepo) PushComment(ctx context.Context, taskID primitive.ObjectID, comment models.Comment) error {
	update := bson.M{"$push": bson.M{"comments": comment}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": taskID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

// CountByStatus groups the project's tasks by status server-side.
func (r *TaskRepo) CountByStatus(ctx context.Context, projectID primitive.ObjectID) (map[models.TaskStatus]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"project": projectID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make(map[models.TaskStatus]int)
	for cursor.Next(ctx) {
		var group struct {
			Status models.TaskStatus `bson:"_id"`
			Count  int               `bson:"count"`
		}
		if err := cursor.Decode(&group); err != nil {
			return nil, err
		}
		counts[group.Status] = group.Count
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
