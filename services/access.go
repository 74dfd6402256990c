package services

import (
	"github.com/Dipxssi/synergysphere/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership predicates over a project document. These are the only access
// rules in the system; every project/task operation gates on exactly one of
// them before touching the store.

// IsProjectMember reports whether the user owns the project or appears in its
// member list.
func IsProjectMember(userID primitive.ObjectID, project *models.Project) bool {
	if project.Owner == userID {
		return true
	}
	for _, m := range project.Members {
		if m.User == userID {
			return true
		}
	}
	return false
}

// IsProjectOwnerOrAdmin reports whether the user owns the project or is a
// member holding the owner or admin role.
func IsProjectOwnerOrAdmin(userID primitive.ObjectID, project *models.Project) bool {
	if project.Owner == userID {
		return true
	}
	for _, m := range project.Members {
		if m.User == userID && (m.Role == models.RoleOwner || m.Role == models.RoleAdmin) {
			return true
		}
	}
	return false
}

// IsProjectOwner reports whether the user is the project's owner.
func IsProjectOwner(userID primitive.ObjectID, project *models.Project) bool {
	return project.Owner == userID
}
