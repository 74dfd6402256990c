package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationTaskAssigned    NotificationType = "task_assigned"
	NotificationTaskUpdated     NotificationType = "task_updated"
	NotificationProjectInvite   NotificationType = "project_invite"
	NotificationDueDateReminder NotificationType = "due_date_reminder"
	NotificationProjectUpdate   NotificationType = "project_update"
	NotificationCommentAdded    NotificationType = "comment_added"
)

type NotificationData struct {
	ProjectID *primitive.ObjectID `bson:"projectId,omitempty" json:"projectId,omitempty"`
	TaskID    *primitive.ObjectID `bson:"taskId,omitempty" json:"taskId,omitempty"`
	ActionURL string              `bson:"actionUrl,omitempty" json:"actionUrl,omitempty"`
}

type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Recipient primitive.ObjectID  `bson:"recipient" json:"recipient"`
	Sender    *primitive.ObjectID `bson:"sender,omitempty" json:"sender,omitempty"`
	Type      NotificationType    `bson:"type" json:"type"`
	Title     string              `bson:"title" json:"title"`
	Message   string              `bson:"message" json:"message"`
	Data      NotificationData    `bson:"data" json:"data"`
	IsRead    bool                `bson:"isRead" json:"isRead"`
	ReadAt    *time.Time          `bson:"readAt,omitempty" json:"readAt,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}
