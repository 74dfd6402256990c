package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Dipxssi/synergysphere/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory store fakes. They mirror the repository behavior the services
// rely on: ErrNotFound for absent documents, newest-first list ordering.

type fakeUserStore struct {
	users map[primitive.ObjectID]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (s *fakeUserStore) Insert(_ context.Context, user *models.User) error {
	s.users[user.ID] = *user
	return nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fakeUserStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	found := make(map[primitive.ObjectID]models.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			found[id] = u
		}
	}
	return found, nil
}

func (s *fakeUserStore) SetLastLogin(_ context.Context, id primitive.ObjectID, when time.Time) error {
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.LastLogin = &when
	s.users[id] = u
	return nil
}

type fakeProjectStore struct {
	projects   map[primitive.ObjectID]models.Project
	statWrites int
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: make(map[primitive.ObjectID]models.Project)}
}

func (s *fakeProjectStore) Insert(_ context.Context, project *models.Project) error {
	s.projects[project.ID] = *project
	return nil
}

func (s *fakeProjectStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *fakeProjectStore) FindForUser(_ context.Context, userID primitive.ObjectID) ([]models.Project, error) {
	var result []models.Project
	for _, p := range s.projects {
		project := p
		if IsProjectMember(userID, &project) {
			result = append(result, project)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *fakeProjectStore) Replace(_ context.Context, project *models.Project) error {
	if _, ok := s.projects[project.ID]; !ok {
		return ErrNotFound
	}
	s.projects[project.ID] = *project
	return nil
}

func (s *fakeProjectStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.projects[id]; !ok {
		return ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

func (s *fakeProjectStore) PushMember(_ context.Context, projectID primitive.ObjectID, member models.Member) error {
	p, ok := s.projects[projectID]
	if !ok {
		return ErrNotFound
	}
	p.Members = append(p.Members, member)
	s.projects[projectID] = p
	return nil
}

func (s *fakeProjectStore) SetTaskStats(_ context.Context, projectID primitive.ObjectID, stats models.TaskStats) error {
	p, ok := s.projects[projectID]
	if !ok {
		return ErrNotFound
	}
	p.TaskStats = stats
	s.projects[projectID] = p
	s.statWrites++
	return nil
}

type fakeTaskStore struct {
	tasks map[primitive.ObjectID]models.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[primitive.ObjectID]models.Task)}
}

func (s *fakeTaskStore) Insert(_ context.Context, task *models.Task) error {
	s.tasks[task.ID] = *task
	return nil
}

func (s *fakeTaskStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (s *fakeTaskStore) FindByProject(_ context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	result := []models.Task{}
	for _, t := range s.tasks {
		if t.Project == projectID {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *fakeTaskStore) Replace(_ context.Context, task *models.Task) error {
	if _, ok := s.tasks[task.ID]; !ok {
		return ErrNotFound
	}
	s.tasks[task.ID] = *task
	return nil
}

func (s *fakeTaskStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *fakeTaskStore) DeleteByProject(_ context.Context, projectID primitive.ObjectID) (int64, error) {
	var deleted int64
	for id, t := range s.tasks {
		if t.Project == projectID {
			delete(s.tasks, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *fakeTaskStore) PushComment(_ context.Context, taskID primitive.ObjectID, comment models.Comment) error {
	t, ok := s.tasks[taskID]
	if !ok {
		return ErrNotFound
	}
	t.Comments = append(t.Comments, comment)
	s.tasks[taskID] = t
	return nil
}

func (s *fakeTaskStore) CountByStatus(_ context.Context, projectID primitive.ObjectID) (map[models.TaskStatus]int, error) {
	counts := make(map[models.TaskStatus]int)
	for _, t := range s.tasks {
		if t.Project == projectID {
			counts[t.Status]++
		}
	}
	return counts, nil
}

type fakeNotificationStore struct {
	notifications []models.Notification
	failing       bool
}

func (s *fakeNotificationStore) Insert(_ context.Context, notification *models.Notification) error {
	if s.failing {
		return errors.New("store unavailable")
	}
	s.notifications = append(s.notifications, *notification)
	return nil
}

func (s *fakeNotificationStore) FindByRecipient(_ context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	result := []models.Notification{}
	for _, n := range s.notifications {
		if n.Recipient == userID {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *fakeNotificationStore) MarkRead(_ context.Context, id, recipient primitive.ObjectID, at time.Time) error {
	for i, n := range s.notifications {
		if n.ID == id && n.Recipient == recipient {
			s.notifications[i].IsRead = true
			s.notifications[i].ReadAt = &at
			return nil
		}
	}
	return ErrNotFound
}

// fixture wires the services against the fakes the way main wires them
// against the Mongo repositories.
type fixture struct {
	users         *fakeUserStore
	projects      *fakeProjectStore
	tasks         *fakeTaskStore
	notifications *fakeNotificationStore

	userService    *UserService
	projectService *ProjectService
	taskService    *TaskService
}

func newFixture() *fixture {
	f := &fixture{
		users:         newFakeUserStore(),
		projects:      newFakeProjectStore(),
		tasks:         newFakeTaskStore(),
		notifications: &fakeNotificationStore{},
	}
	jwtService := NewJWTService("test-secret", time.Hour)
	notificationService := NewNotificationService(f.notifications, nil)
	f.userService = NewUserService(f.users, jwtService)
	f.projectService = NewProjectService(f.projects, f.tasks, f.users, notificationService)
	f.taskService = NewTaskService(f.tasks, f.projects, f.users, f.projectService, notificationService)
	return f
}

func (f *fixture) seedUser(firstName, email string) models.User {
	user := models.User{
		ID:        primitive.NewObjectID(),
		FirstName: firstName,
		LastName:  "Tester",
		Email:     email,
		Password:  "hashed",
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	f.users.users[user.ID] = user
	return user
}
