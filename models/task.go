package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusReview     TaskStatus = "review"
	StatusDone       TaskStatus = "done"
)

type Comment struct {
	User      primitive.ObjectID `bson:"user" json:"user"`
	Message   string             `bson:"message" json:"message"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Attachment struct {
	Name       string             `bson:"name" json:"name"`
	URL        string             `bson:"url" json:"url"`
	UploadedBy primitive.ObjectID `bson:"uploadedBy" json:"uploadedBy"`
	UploadedAt time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}

// TimeTracking durations are minutes, as in the original schema.
type TimeTracking struct {
	Estimated int        `bson:"estimated" json:"estimated"`
	Actual    int        `bson:"actual" json:"actual"`
	StartTime *time.Time `bson:"startTime,omitempty" json:"startTime,omitempty"`
	EndTime   *time.Time `bson:"endTime,omitempty" json:"endTime,omitempty"`
}

type Task struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title        string              `bson:"title" json:"title"`
	Description  string              `bson:"description" json:"description"`
	Project      primitive.ObjectID  `bson:"project" json:"project"`
	Assignee     *primitive.ObjectID `bson:"assignee,omitempty" json:"assignee,omitempty"`
	CreatedBy    primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	Status       TaskStatus          `bson:"status" json:"status"`
	Priority     Priority            `bson:"priority" json:"priority"`
	DueDate      *time.Time          `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Tags         []string            `bson:"tags" json:"tags"`
	Position     int                 `bson:"position" json:"position"`
	Attachments  []Attachment        `bson:"attachments" json:"attachments"`
	Comments     []Comment           `bson:"comments" json:"comments"`
	TimeTracking TimeTracking        `bson:"timeTracking" json:"timeTracking"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

type CommentView struct {
	User      UserSummary `json:"user"`
	Message   string      `json:"message"`
	CreatedAt time.Time   `json:"createdAt"`
}

// TaskView is a task with assignee, creator and comment authors resolved.
type TaskView struct {
	ID           primitive.ObjectID `json:"id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Project      primitive.ObjectID `json:"project"`
	Assignee     *UserSummary       `json:"assignee,omitempty"`
	CreatedBy    UserSummary        `json:"createdBy"`
	Status       TaskStatus         `json:"status"`
	Priority     Priority           `json:"priority"`
	DueDate      *time.Time         `json:"dueDate,omitempty"`
	Tags         []string           `json:"tags"`
	Position     int                `json:"position"`
	Attachments  []Attachment       `json:"attachments"`
	Comments     []CommentView      `json:"comments"`
	TimeTracking TimeTracking       `json:"timeTracking"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}
