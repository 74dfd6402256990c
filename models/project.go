package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectArchived  ProjectStatus = "archived"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type MemberRole string

const (
	RoleOwner  MemberRole = "owner"
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
)

// DefaultProjectColor is the UI hint used when a project is created without one.
const DefaultProjectColor = "#3498db"

type Member struct {
	User     primitive.ObjectID `bson:"user" json:"user"`
	Role     MemberRole         `bson:"role" json:"role"`
	JoinedAt time.Time          `bson:"joinedAt" json:"joinedAt"`
}

// TaskStats holds per-status task counts for a project. It is always written
// as a whole from a full recount, never patched incrementally.
type TaskStats struct {
	Total      int `bson:"total" json:"total"`
	Todo       int `bson:"todo" json:"todo"`
	InProgress int `bson:"inProgress" json:"inProgress"`
	Review     int `bson:"review" json:"review"`
	Done       int `bson:"done" json:"done"`
}

type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Owner       primitive.ObjectID `bson:"owner" json:"owner"`
	Members     []Member           `bson:"members" json:"members"`
	Status      ProjectStatus      `bson:"status" json:"status"`
	Priority    Priority           `bson:"priority" json:"priority"`
	StartDate   time.Time          `bson:"startDate" json:"startDate"`
	EndDate     *time.Time         `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Color       string             `bson:"color" json:"color"`
	TaskStats   TaskStats          `bson:"taskStats" json:"taskStats"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// MemberView is a project member with the referenced user merged in.
type MemberView struct {
	User     UserSummary `json:"user"`
	Role     MemberRole  `json:"role"`
	JoinedAt time.Time   `json:"joinedAt"`
}

// ProjectView is a project with its user references resolved, the shape the
// original API produced through populate.
type ProjectView struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Owner       UserSummary        `json:"owner"`
	Members     []MemberView       `json:"members"`
	Status      ProjectStatus      `json:"status"`
	Priority    Priority           `json:"priority"`
	StartDate   time.Time          `json:"startDate"`
	EndDate     *time.Time         `json:"endDate,omitempty"`
	Color       string             `json:"color"`
	TaskStats   TaskStats          `json:"taskStats"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}
