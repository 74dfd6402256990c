package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationPreferences controls which events a user wants to hear about.
type NotificationPreferences struct {
	Email           bool `bson:"email" json:"email"`
	InApp           bool `bson:"inApp" json:"inApp"`
	TaskAssignments bool `bson:"taskAssignments" json:"taskAssignments"`
	ProjectUpdates  bool `bson:"projectUpdates" json:"projectUpdates"`
}

func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		Email:           true,
		InApp:           true,
		TaskAssignments: true,
		ProjectUpdates:  true,
	}
}

type User struct {
	ID          primitive.ObjectID      `bson:"_id,omitempty" json:"id"`
	FirstName   string                  `bson:"firstName" json:"firstName"`
	LastName    string                  `bson:"lastName" json:"lastName"`
	Email       string                  `bson:"email" json:"email"`
	Password    string                  `bson:"password" json:"-"`
	Avatar      string                  `bson:"avatar" json:"avatar"`
	IsActive    bool                    `bson:"isActive" json:"isActive"`
	LastLogin   *time.Time              `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	Preferences NotificationPreferences `bson:"notificationPreferences" json:"notificationPreferences"`
	CreatedAt   time.Time               `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time               `bson:"updatedAt" json:"updatedAt"`
}

// UserSummary is the slice of a user that gets merged into populated
// project/task responses (what the original schema exposed via populate).
type UserSummary struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	Email     string             `bson:"email" json:"email"`
	Avatar    string             `bson:"avatar" json:"avatar"`
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Avatar:    u.Avatar,
	}
}
