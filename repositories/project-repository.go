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

// ProjectRepo is the MongoDB implementation of services.ProjectStore.
type ProjectRepo struct {
	collection *mongo.Collection
}

func NewProjectRepo(collection *mongo.Collection) *ProjectRepo {
	return &ProjectRepo{collection: collection}
}

func (r *ProjectRepo) Insert(ctx context.Context, project *models.Project) error {
	_, err := r.collection.InsertOne(ctx, project)
	return err
}

func (r *ProjectRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, services.ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepo) FindForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	filter := bson.M{"$or": []bson.M{
		{"owner": userID},
		{"members.user": userID},
	}}
	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepo) Replace(ctx context.Context, project *models.Project) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": project.ID}, project)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (r *ProjectRepo) PushMember(ctx context.Context, projectID primitive.ObjectID, member models.Member) error {
	update := bson.M{"$push": bson.M{"members": member}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": projectID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (r *ProjectRepo) SetTaskStats(ctx context.Context, projectID primitive.ObjectID, stats models.TaskStats) error {
	update := bson.M{"$set": bson.M{"taskStats": stats}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": projectID}, update)
	return err
}
