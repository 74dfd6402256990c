package services

import (
	"context"
	"time"

	"github.com/Dipxssi/synergysphere/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store interfaces the services are built against. The repositories package
// provides the MongoDB implementations; lookups for absent documents return
// ErrNotFound.

type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByIDs fetches the given users in one round trip; unknown ids are
	// simply absent from the result.
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
	SetLastLogin(ctx context.Context, id primitive.ObjectID, when time.Time) error
}

type ProjectStore interface {
	Insert(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	// FindForUser returns projects where the user is owner or member,
	// newest first.
	FindForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Project, error)
	Replace(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	PushMember(ctx context.Context, projectID primitive.ObjectID, member models.Member) error
	SetTaskStats(ctx context.Context, projectID primitive.ObjectID, stats models.TaskStats) error
}

type TaskStore interface {
	Insert(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	// FindByProject returns the project's tasks, newest first.
	FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error)
	Replace(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error)
	PushComment(ctx context.Context, taskID primitive.ObjectID, comment models.Comment) error
	// CountByStatus groups the project's tasks by status and counts each
	// group, including statuses outside the recognized enum.
	CountByStatus(ctx context.Context, projectID primitive.ObjectID) (map[models.TaskStatus]int, error)
}

type NotificationStore interface {
	Insert(ctx context.Context, notification *models.Notification) error
	// FindByRecipient returns the user's notifications, newest first.
	FindByRecipient(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, recipient primitive.ObjectID, at time.Time) error
}
