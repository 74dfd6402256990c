package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Dipxssi/synergysphere/models"
)

// Field limits carried over from the persisted document schema.
const (
	maxProjectNameLen        = 100
	maxProjectDescriptionLen = 500
	maxTaskTitleLen          = 100
	maxTaskDescriptionLen    = 2000
	maxTagLen                = 20
	maxCommentLen            = 1000
	maxNameLen               = 30
	minPasswordLen           = 6
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

func validateProject(p *models.Project) error {
	if strings.TrimSpace(p.Name) == "" {
		return validationErr("name", "project name is required")
	}
	if len(p.Name) > maxProjectNameLen {
		return validationErr("name", fmt.Sprintf("project name cannot exceed %d characters", maxProjectNameLen))
	}
	if strings.TrimSpace(p.Description) == "" {
		return validationErr("description", "project description is required")
	}
	if len(p.Description) > maxProjectDescriptionLen {
		return validationErr("description", fmt.Sprintf("description cannot exceed %d characters", maxProjectDescriptionLen))
	}
	switch p.Status {
	case models.ProjectActive, models.ProjectCompleted, models.ProjectOnHold, models.ProjectArchived:
	default:
		return validationErr("status", fmt.Sprintf("invalid project status %q", p.Status))
	}
	if err := validatePriority(p.Priority); err != nil {
		return err
	}
	return nil
}

func validateTask(t *models.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return validationErr("title", "task title is required")
	}
	if len(t.Title) > maxTaskTitleLen {
		return validationErr("title", fmt.Sprintf("title cannot exceed %d characters", maxTaskTitleLen))
	}
	if len(t.Description) > maxTaskDescriptionLen {
		return validationErr("description", fmt.Sprintf("description cannot exceed %d characters", maxTaskDescriptionLen))
	}
	if err := validateTaskStatus(t.Status); err != nil {
		return err
	}
	if err := validatePriority(t.Priority); err != nil {
		return err
	}
	for _, tag := range t.Tags {
		if len(tag) > maxTagLen {
			return validationErr("tags", fmt.Sprintf("tag %q cannot exceed %d characters", tag, maxTagLen))
		}
	}
	return nil
}

func validateTaskStatus(status models.TaskStatus) error {
	switch status {
	case models.StatusTodo, models.StatusInProgress, models.StatusReview, models.StatusDone:
		return nil
	default:
		return validationErr("status", fmt.Sprintf("invalid task status %q", status))
	}
}

func validatePriority(priority models.Priority) error {
	switch priority {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return nil
	default:
		return validationErr("priority", fmt.Sprintf("invalid priority %q", priority))
	}
}

func validateComment(message string) error {
	if strings.TrimSpace(message) == "" {
		return validationErr("message", "comment message is required")
	}
	if len(message) > maxCommentLen {
		return validationErr("message", fmt.Sprintf("message cannot exceed %d characters", maxCommentLen))
	}
	return nil
}

func validateRegistration(in RegisterInput) error {
	if strings.TrimSpace(in.FirstName) == "" {
		return validationErr("firstName", "first name is required")
	}
	if len(in.FirstName) > maxNameLen {
		return validationErr("firstName", fmt.Sprintf("first name cannot exceed %d characters", maxNameLen))
	}
	if strings.TrimSpace(in.LastName) == "" {
		return validationErr("lastName", "last name is required")
	}
	if len(in.LastName) > maxNameLen {
		return validationErr("lastName", fmt.Sprintf("last name cannot exceed %d characters", maxNameLen))
	}
	if !emailPattern.MatchString(in.Email) {
		return validationErr("email", "please enter a valid email")
	}
	if len(in.Password) < minPasswordLen {
		return validationErr("password", fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	return nil
}
