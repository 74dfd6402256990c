package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dipxssi/synergysphere/logging"
	"github.com/Dipxssi/synergysphere/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskService owns task CRUD and comments. Every operation resolves the
// task's project and gates on the membership predicates; status-affecting
// writes hand stat recomputation to the ProjectService.
type TaskService struct {
	tasks          TaskStore
	projects       ProjectStore
	users          UserStore
	projectService *ProjectService
	notifications  *NotificationService
}

func NewTaskService(tasks TaskStore, projects ProjectStore, users UserStore, projectService *ProjectService, notifications *NotificationService) *TaskService {
	return &TaskService{
		tasks:          tasks,
		projects:       projects,
		users:          users,
		projectService: projectService,
		notifications:  notifications,
	}
}

type CreateTaskInput struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Project     primitive.ObjectID  `json:"project"`
	Assignee    *primitive.ObjectID `json:"assignee"`
	Priority    models.Priority     `json:"priority"`
	DueDate     *time.Time          `json:"dueDate"`
	Tags        []string            `json:"tags"`
	CreatedBy   primitive.ObjectID  `json:"-"`
}

// TaskPatch carries the updatable fields of a task. createdBy and project are
// fixed at creation and cannot be rewritten through an update.
type TaskPatch struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	Assignee    *primitive.ObjectID `json:"assignee"`
	Status      *models.TaskStatus  `json:"status"`
	Priority    *models.Priority    `json:"priority"`
	DueDate     *time.Time          `json:"dueDate"`
	Tags        *[]string           `json:"tags"`
	Position    *int                `json:"position"`
	Estimated   *int                `json:"estimated"`
	Actual      *int                `json:"actual"`
}

// ListForProject returns the project's tasks, newest first, for members only.
// As on all read paths, missing project and missing membership look the same.
func (s *TaskService) ListForProject(ctx context.Context, projectID, userID primitive.ObjectID) ([]models.TaskView, error) {
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

	tasks, err := s.tasks.FindByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	return s.populateTasks(ctx, tasks)
}

func (s *TaskService) Get(ctx context.Context, taskID, userID primitive.ObjectID) (*models.TaskView, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("task not found: %w", ErrNotFound)
		}
		return nil, err
	}

	project, err := s.projects.FindByID(ctx, task.Project)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("task not found: %w", ErrNotFound)
		}
		return nil, err
	}
	if !IsProjectMember(userID, project) {
		return nil, fmt.Errorf("task not found: %w", ErrNotFound)
	}
	return s.populateTask(ctx, task)
}

// Create persists a task for a project member and recomputes the project's
// task stats afterwards.
func (s *TaskService) Create(ctx context.Context, in CreateTaskInput) (*models.TaskView, error) {
	project, err := s.projects.FindByID(ctx, in.Project)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("project not found: %w", ErrNotFound)
		}
		return nil, err
	}
	if !IsProjectMember(in.CreatedBy, project) {
		return nil, fmt.Errorf("only project members can create tasks: %w", ErrAccessDenied)
	}

	now := time.Now().UTC()
	task := &models.Task{
		ID:          primitive.NewObjectID(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Project:     in.Project,
		Assignee:    in.Assignee,
		CreatedBy:   in.CreatedBy,
		Status:      models.StatusTodo,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Tags:        in.Tags,
		Attachments: []models.Attachment{},
		Comments:    []models.Comment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}

	if err := validateTask(task); err != nil {
		return nil, err
	}
	if err := s.tasks.Insert(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if err := s.projectService.RecomputeTaskStats(ctx, task.Project); err != nil {
		logging.Logger.Warnf("Event ID: TASK_STATS_RECOMPUTE_FAILED, Description: Failed to recompute stats for project %s: %v", task.Project.Hex(), err)
	}

	if task.Assignee != nil && *task.Assignee != task.CreatedBy {
		s.notifications.Notify(ctx, models.Notification{
			Recipient: *task.Assignee,
			Sender:    &task.CreatedBy,
			Type:      models.NotificationTaskAssigned,
			Title:     "New task assigned",
			Message:   fmt.Sprintf("You have been assigned the task %q", task.Title),
			Data:      models.NotificationData{ProjectID: &task.Project, TaskID: &task.ID},
		})
	}

	return s.populateTask(ctx, task)
}

// Update applies the patch for any project member. The pre-merge status is
// captured first: stats are recomputed only when the effective status
// actually changed.
func (s *TaskService) Update(ctx context.Context, taskID primitive.ObjectID, patch TaskPatch, userID primitive.ObjectID) (*models.TaskView, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("task not found: %w", ErrNotFound)
		}
		return nil, err
	}

	project, err := s.projects.FindByID(ctx, task.Project)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("project not found: %w", ErrNotFound)
		}
		return nil, err
	}
	if !IsProjectMember(userID, project) {
		return nil, fmt.Errorf("only project members can update tasks: %w", ErrAccessDenied)
	}

	oldStatus := task.Status

	if patch.Title != nil {
		task.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		task.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Assignee != nil {
		task.Assignee = patch.Assignee
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
	if patch.Tags != nil {
		task.Tags = *patch.Tags
	}
	if patch.Position != nil {
		task.Position = *patch.Position
	}
	if patch.Estimated != nil {
		task.TimeTracking.Estimated = *patch.Estimated
	}
	if patch.Actual != nil {
		task.TimeTracking.Actual = *patch.Actual
	}
	task.UpdatedAt = time.Now().UTC()

	if err := validateTask(task); err != nil {
		return nil, err
	}
	if err := s.tasks.Replace(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if task.Status != oldStatus {
		if err := s.projectService.RecomputeTaskStats(ctx, task.Project); err != nil {
			logging.Logger.Warnf("Event ID: TASK_STATS_RECOMPUTE_FAILED, Description: Failed to recompute stats for project %s: %v", task.Project.Hex(), err)
		}
	}

	return s.populateTask(ctx, task)
}

// Delete removes a task. The rule is looser than update: owners and admins
// may delete anything, and a task's creator may always delete their own task.
func (s *TaskService) Delete(ctx context.Context, taskID, userID primitive.ObjectID) error {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("task not found: %w", ErrNotFound)
		}
		return err
	}

	project, err := s.projects.FindByID(ctx, task.Project)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("project not found: %w", ErrNotFound)
		}
		return err
	}
	if !IsProjectOwnerOrAdmin(userID, project) && task.CreatedBy != userID {
		return fmt.Errorf("insufficient permissions to delete task: %w", ErrAccessDenied)
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if err := s.projectService.RecomputeTaskStats(ctx, task.Project); err != nil {
		logging.Logger.Warnf("Event ID: TASK_STATS_RECOMPUTE_FAILED, Description: Failed to recompute stats for project %s: %v", task.Project.Hex(), err)
	}
	return nil
}

// AddComment appends to the task's comment list. Comments are append-only:
// there is no edit or delete, and stats are untouched.
func (s *TaskService) AddComment(ctx context.Context, taskID primitive.ObjectID, message string, userID primitive.ObjectID) (*models.TaskView, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("task not found: %w", ErrNotFound)
		}
		return nil, err
	}

	project, err := s.projects.FindByID(ctx, task.Project)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("project not found: %w", ErrNotFound)
		}
		return nil, err
	}
	if !IsProjectMember(userID, project) {
		return nil, fmt.Errorf("only project members can comment: %w", ErrAccessDenied)
	}

	if err := validateComment(message); err != nil {
		return nil, err
	}

	comment := models.Comment{
		User:      userID,
		Message:   strings.TrimSpace(message),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.tasks.PushComment(ctx, taskID, comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	task.Comments = append(task.Comments, comment)

	if task.CreatedBy != userID {
		s.notifications.Notify(ctx, models.Notification{
			Recipient: task.CreatedBy,
			Sender:    &userID,
			Type:      models.NotificationCommentAdded,
			Title:     "New comment",
			Message:   fmt.Sprintf("New comment on task %q", task.Title),
			Data:      models.NotificationData{ProjectID: &task.Project, TaskID: &task.ID},
		})
	}

	return s.populateTask(ctx, task)
}

func (s *TaskService) populateTask(ctx context.Context, task *models.Task) (*models.TaskView, error) {
	views, err := s.populateTasks(ctx, []models.Task{*task})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// populateTasks resolves assignee, creator and comment-author references for
// a batch of tasks with a single user lookup.
func (s *TaskService) populateTasks(ctx context.Context, tasks []models.Task) ([]models.TaskView, error) {
	idSet := make(map[primitive.ObjectID]struct{})
	for _, t := range tasks {
		idSet[t.CreatedBy] = struct{}{}
		if t.Assignee != nil {
			idSet[*t.Assignee] = struct{}{}
		}
		for _, c := range t.Comments {
			idSet[c.User] = struct{}{}
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

	views := make([]models.TaskView, 0, len(tasks))
	for _, t := range tasks {
		view := models.TaskView{
			ID:           t.ID,
			Title:        t.Title,
			Description:  t.Description,
			Project:      t.Project,
			CreatedBy:    summaryFor(users, t.CreatedBy),
			Status:       t.Status,
			Priority:     t.Priority,
			DueDate:      t.DueDate,
			Tags:         t.Tags,
			Position:     t.Position,
			Attachments:  t.Attachments,
			Comments:     make([]models.CommentView, 0, len(t.Comments)),
			TimeTracking: t.TimeTracking,
			CreatedAt:    t.CreatedAt,
			UpdatedAt:    t.UpdatedAt,
		}
		if t.Assignee != nil {
			assignee := summaryFor(users, *t.Assignee)
			view.Assignee = &assignee
		}
		for _, c := range t.Comments {
			view.Comments = append(view.Comments, models.CommentView{
				User:      summaryFor(users, c.User),
				Message:   c.Message,
				CreatedAt: c.CreatedAt,
			})
		}
		views = append(views, view)
	}
	return views, nil
}
