package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dipxssi/synergysphere/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectService owns project CRUD, membership management and the task-stat
// recomputation that task mutations trigger.
type ProjectService struct {
	projects      ProjectStore
	tasks         TaskStore
	users         UserStore
	notifications *NotificationService
}

func NewProjectService(projects ProjectStore, tasks TaskStore, users UserStore, notifications *NotificationService) *ProjectService {
	return &ProjectService{
		projects:      projects,
		tasks:         tasks,
		users:         users,
		notifications: notifications,
	}
}

type CreateProjectInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Priority    models.Priority `json:"priority"`
	StartDate   *time.Time      `json:"startDate"`
	EndDate     *time.Time      `json:"endDate"`
	Color       string          `json:"color"`
}

// ProjectPatch carries the updatable fields of a project. Anything not listed
// here (owner, members, taskStats) cannot be written through an update.
type ProjectPatch struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Status      *models.ProjectStatus `json:"status"`
	Priority    *models.Priority      `json:"priority"`
	StartDate   *time.Time            `json:"startDate"`
	EndDate     *time.Time            `json:"endDate"`
	Color       *string               `json:"color"`
}

// ListForUser returns every project the user owns or belongs to, newest
// first, with user references resolved.
func (s *ProjectService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.ProjectView, error) {
	projects, err := s.projects.FindForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects: %w", err)
	}
	return s.populateProjects(ctx, projects)
}

// Get loads a single project. Absence and lack of membership are deliberately
// indistinguishable so non-members cannot probe for project existence.
func (s *ProjectService) Get(ctx context.Context, projectID, userID primitive.ObjectID) (*models.ProjectView, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("project not found or access denied: %w", ErrNotFound)
		}
		return nil, err
	}
	if !IsProjectMember(userID, project) {
		return nil, fmt.Errorf("project not found or access denied: %w", ErrNotFound)
	}
	return s.populateProject(ctx, project)
}

// Create persists a new project owned by ownerID. The owner always becomes
// the first member with the owner role.
func (s *ProjectService) Create(ctx context.Context, in CreateProjectInput, ownerID primitive.ObjectID) (*models.ProjectView, error) {
	now := time.Now().UTC()

	project := &models.Project{
		ID:          primitive.NewObjectID(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Owner:       ownerID,
		Members: []models.Member{
			{User: ownerID, Role: models.RoleOwner, JoinedAt: now},
		},
		Status:    models.ProjectActive,
		Priority:  in.Priority,
		StartDate: now,
		EndDate:   in.EndDate,
		Color:     in.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if project.Priority == "" {
		project.Priority = models.PriorityMedium
	}
	if in.StartDate != nil {
		project.StartDate = *in.StartDate
	}
	if project.Color == "" {
		project.Color = models.DefaultProjectColor
	}

	if err := validateProject(project); err != nil {
		return nil, err
	}
	if err := s.projects.Insert(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return s.populateProject(ctx, project)
}

// Update applies the patch for an owner or admin member. Patch fields left
// nil keep their stored values.
func (s *ProjectService) Update(ctx context.Context, projectID primitive.ObjectID, patch ProjectPatch, userID primitive.ObjectID) (*models.ProjectView, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("project not found: %w", ErrNotFound)
		}
		return nil, err
	}
	if !IsProjectOwnerOrAdmin(userID, project) {
		return nil, fmt.Errorf("insufficient permissions to update project: %w", ErrAccessDenied)
	}

	if patch.Name != nil {
		project.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		project.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Status != nil {
		project.Status = *patch.Status
	}
	if patch.Priority != nil {
		project.Priority = *patch.Priority
	}
	if patch.StartDate != nil {
		project.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		project.EndDate = patch.EndDate
	}
	if patch.Color != nil {
		project.Color = *patch.Color
	}
	project.UpdatedAt = time.Now().UTC()

	if err := validateProject(project); err != nil {
		return nil, err
	}
	if err := s.projects.Replace(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return s.populateProject(ctx, project)
}

// Delete removes the project and all of its tasks. Only the owner may do
// this. Tasks go first so a failure between the two writes cannot leave
// tasks pointing at a live project.
func (s *ProjectService) Delete(ctx context.Context, projectID, userID primitive.ObjectID) error {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("project not found: %w", ErrNotFound)
		}
		return err
	}
	if !IsProjectOwner(userID, project) {
		return fmt.Errorf("only the owner can delete a project: %w", ErrAccessDenied)
	}

	if _, err := s.tasks.DeleteByProject(ctx, projectID); err != nil {
		return fmt.Errorf("failed to delete project tasks: %w", err)
	}
	if err := s.projects.Delete(ctx, projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// AddMember invites the user with the given email. Duplicate membership is
// matched by user id, not email, so an address change cannot smuggle the same
// user in twice.
func (s *ProjectService) AddMember(ctx context.Context, projectID primitive.ObjectID, email string, userID primitive.ObjectID) (*models.ProjectView, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("project not found: %w", ErrNotFound)
		}
		return nil, err
	}
	if !IsProjectOwnerOrAdmin(userID, project) {
		return nil, fmt.Errorf("insufficient permissions to add members: %w", ErrAccessDenied)
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return nil, err
	}

	for _, m := range project.Members {
		if m.User == user.ID {
			return nil, fmt.Errorf("user is already a member of this project: %w", ErrConflict)
		}
	}

	member := models.Member{User: user.ID, Role: models.RoleMember, JoinedAt: time.Now().UTC()}
	if err := s.projects.PushMember(ctx, projectID, member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	project.Members = append(project.Members, member)

	s.notifications.Notify(ctx, models.Notification{
		Recipient: user.ID,
		Sender:    &userID,
		Type:      models.NotificationProjectInvite,
		Title:     "Added to project",
		Message:   fmt.Sprintf("You have been added to the project %q", project.Name),
		Data:      models.NotificationData{ProjectID: &project.ID},
	})

	return s.populateProject(ctx, project)
}

// RecomputeTaskStats rebuilds the project's per-status task counts from a
// full regroup of its tasks. Tasks carrying an unrecognized status are left
// out of every bucket, including the total, so a recount always converges to
// the same snapshot no matter how many writes raced before it.
func (s *ProjectService) RecomputeTaskStats(ctx context.Context, projectID primitive.ObjectID) error {
	counts, err := s.tasks.CountByStatus(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to count tasks: %w", err)
	}

	stats := models.TaskStats{
		Todo:       counts[models.StatusTodo],
		InProgress: counts[models.StatusInProgress],
		Review:     counts[models.StatusReview],
		Done:       counts[models.StatusDone],
	}
	stats.Total = stats.Todo + stats.InProgress + stats.Review + stats.Done

	if err := s.projects.SetTaskStats(ctx, projectID, stats); err != nil {
		return fmt.Errorf("failed to write task stats: %w", err)
	}
	return nil
}

func (s *ProjectService) populateProject(ctx context.Context, project *models.Project) (*models.ProjectView, error) {
	views, err := s.populateProjects(ctx, []models.Project{*project})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// populateProjects resolves owner and member references for a batch of
// projects with a single user lookup.
func (s *ProjectService) populateProjects(ctx context.Context, projects []models.Project) ([]models.ProjectView, error) {
	idSet := make(map[primitive.ObjectID]struct{})
	for _, p := range projects {
		idSet[p.Owner] = struct{}{}
		for _, m := range p.Members {
			idSet[m.User] = struct{}{}
		}
	}
	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve users: %w", err)
	}

	views := make([]models.ProjectView, 0, len(projects))
	for _, p := range projects {
		view := models.ProjectView{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Owner:       summaryFor(users, p.Owner),
			Members:     make([]models.MemberView, 0, len(p.Members)),
			Status:      p.Status,
			Priority:    p.Priority,
			StartDate:   p.StartDate,
			EndDate:     p.EndDate,
			Color:       p.Color,
			TaskStats:   p.TaskStats,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		}
		for _, m := range p.Members {
			view.Members = append(view.Members, models.MemberView{
				User:     summaryFor(users, m.User),
				Role:     m.Role,
				JoinedAt: m.JoinedAt,
			})
		}
		views = append(views, view)
	}
	return views, nil
}

// summaryFor tolerates dangling references: an id with no user document
// resolves to a summary carrying only the id.
func summaryFor(users map[primitive.ObjectID]models.User, id primitive.ObjectID) models.UserSummary {
	if u, ok := users[id]; ok {
		return u.Summary()
	}
	return models.UserSummary{ID: id}
}
