package services

import (
	"context"
	"testing"

	"github.com/Dipxssi/synergysphere/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (f *fixture) projectStats(t *testing.T, projectID primitive.ObjectID) models.TaskStats {
	t.Helper()
	project, err := f.projects.FindByID(context.Background(), projectID)
	require.NoError(t, err)
	return project.TaskStats
}

func TestTaskService_Create(t *testing.T) {
	f := newFixture()
	alice := f.seedUser("Alice", "alice@example.com")
	bob := f.seedUser("Bob", "bob@example.com")
	project := createProject(t, f, alice, "Launch")
	_, err := f.projectService.AddMember(context.Background(), project.ID, bob.Email, alice.ID)
	require.NoError(t, err)

	t.Run("member creates with defaults", func(t *testing.T) {
		view, err := f.taskService.Create(context.Background(), CreateTaskInput{
			Title:     "Write spec",
			Project:   project.ID,
			CreatedBy: alice.ID,
		})
		require.NoError(t, err)

		assert.Equal(t, models.StatusTodo, view.Status)
		assert.Equal(t, models.PriorityMedium, view.Priority)
		assert.Equal(t, alice.ID, view.CreatedBy.ID)
		assert.NotNil(t, view.Tags)
		assert.Empty(t, view.Comments)
	})

	t.Run("assignee other than creator is notified", func(t *testing.T) {
		_, err := f.taskService.Create(context.Background(), CreateTaskInput{
			Title:     "Review designs",
			Project:   project.ID,
			Assignee:  &bob.ID,
			CreatedBy: alice.ID,
		})
		require.NoError(t, err)

		notifications, err := f.notifications.FindByRecipient(context.Background(), bob.ID)
		require.NoError(t, err)
		var assigned int
		for _, n := range notifications {
			if n.Type == models.NotificationTaskAssigned {
				assigned++
			}
		}
		assert.Equal(t, 1, assigned)
	})

	t.Run("self-assignment does not notify", func(t *testing.T) {
		before, err := f.notifications.FindByRecipient(context.Background(), alice.ID)
		require.NoError(t, err)

		_, err = f.taskService.Create(context.Background(), CreateTaskInput{
			Title:     "Solo task",
			Project:   project.ID,
			Assignee:  &alice.ID,
			CreatedBy: alice.ID,
		})
		require.NoError(t, err)

		after, err := f.notifications.FindByRecipient(context.Background(), alice.ID)
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("non-member is denied", func(t *testing.T) {
		eve := f.seedUser("Eve", "eve@example.com")
		_, err := f.taskService.Create(context.Background(), CreateTaskInput{
			Title:     "Sneaky",
			Project:   project.ID,
			CreatedBy: eve.ID,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("blank title rejected", func(t *testing.T) {
		_, err := f.taskService.Create(context.Background(), CreateTaskInput{
			Title:     "  ",
			Project:   project.ID,
			CreatedBy: alice.ID,
		})
		assert.True(t, IsValidation(err))
	})

	t.Run("absent project is not found", func(t *testing.T) {
		_, err := f.taskService.Create(context.Background(), CreateTaskInput{
			Title:     "Orphan",
			Project:   primitive.NewObjectID(),
			CreatedBy: alice.ID,
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

// TestTaskService_StatsLifecycle walks a task through its whole life and
// checks the project stats after every step.
func TestTaskService_StatsLifecycle(t *testing.T) {
	f := newFixture()
	alice := f.seedUser("Alice", "alice@example.com")
	project := createProject(t, f, alice, "Launch")

	task, err := f.taskService.Create(context.Background(), CreateTaskInput{
		Title:     "Write spec",
		Project:   project.ID,
		CreatedBy: alice.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStats{Total: 1, Todo: 1}, f.projectStats(t, project.ID))

	status := models.StatusInProgress
	_, err = f.taskService.Update(context.Background(), task.ID, TaskPatch{Status: &status}, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStats{Total: 1, InProgress: 1}, f.projectStats(t, project.ID))

	err = f.taskService.Delete(context.Background(), task.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStats{}, f.projectStats(t, project.ID))
}

func TestTaskService_Update(t *testing.T) {
	f := newFixture()
	alice := f.seedUser("Alice", "alice@example.com")
	bob := f.seedUser("Bob", "bob@example.com")
	project := createProject(t, f, alice, "Launch")

	task, err := f.taskService.Create(context.Background(), CreateTaskInput{
		Title:     "Write spec",
		Project:   project.ID,
		CreatedBy: alice.ID,
	})
	require.NoError(t, err)

	t.Run("non-member is denied", func(t *testing.T) {
		title := "Hijacked"
		_, err := f.taskService.Update(context.Background(), task.ID, TaskPatch{Title: &title}, bob.ID)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("patch without status change skips stat recompute", func(t *testing.T) {
		writes := f.projects.statWrites
		title := "Write the spec"
		updated, err := f.taskService.Update(context.Background(), task.ID, TaskPatch{Title: &title}, alice.ID)
		require.NoError(t, err)

		assert.Equal(t, "Write the spec", updated.Title)
		assert.Equal(t, models.StatusTodo, updated.Status)
		assert.Equal(t, writes, f.projects.statWrites)
	})

	t.Run("status change triggers stat recompute", func(t *testing.T) {
		writes := f.projects.statWrites
		status := models.StatusReview
		updated, err := f.taskService.Update(context.Background(), task.ID, TaskPatch{Status: &status}, alice.ID)
		require.NoError(t, err)

		assert.Equal(t, models.StatusReview, updated.Status)
		assert.Equal(t, writes+1, f.projects.statWrites)
		assert.Equal(t, models.TaskStats{Total: 1, Review: 1}, f.projectStats(t, project.ID))
	})

	t.Run("setting the same status again still skips recompute", func(t *testing.T) {
		writes := f.projects.statWrites
		status := models.StatusReview
		_, err := f.taskService.Update(context.Background(), task.ID, TaskPatch{Status: &status}, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, writes, f.projects.statWrites)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		bad := models.TaskStatus("cancelled")
		_, err := f.taskService.Update(context.Background(), task.ID, TaskPatch{Status: &bad}, alice.ID)
		assert.True(t, IsValidation(err))
	})

	t.Run("absent task is not found", func(t *testing.T) {
		title := "X"
		_, err := f.taskService.Update(context.Background(), primitive.NewObjectID(), TaskPatch{Title: &title}, alice.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTaskService_Delete(t *testing.T) {
	f := newFixture()
	alice := f.seedUser("Alice", "alice@example.com")
	bob := f.seedUser("Bob", "bob@example.com")
	carol := f.seedUser("Carol", "carol@example.com")
	project := createProject(t, f, alice, "Launch")
	for _, u := range []models.User{bob, carol} {
		_, err := f.projectService.AddMember(context.Background(), project.ID, u.Email, alice.ID)
		require.NoError(t, err)
	}

	newTask := func(creator primitive.ObjectID) primitive.ObjectID {
		view, err := f.taskService.Create(context.Background(), CreateTaskInput{
			Title:     "Disposable",
			Project:   project.ID,
			CreatedBy: creator,
		})
		require.NoError(t, err)
		return view.ID
	}

	t.Run("plain member cannot delete another member's task", func(t *testing.T) {
		id := newTask(bob.ID)
		err := f.taskService.Delete(context.Background(), id, carol.ID)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("creator can always delete their own task", func(t *testing.T) {
		id := newTask(bob.ID)
		err := f.taskService.Delete(context.Background(), id, bob.ID)
		require.NoError(t, err)
		_, err = f.tasks.FindByID(context.Background(), id)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("owner can delete any task", func(t *testing.T) {
		id := newTask(bob.ID)
		err := f.taskService.Delete(context.Background(), id, alice.ID)
		require.NoError(t, err)
	})

	t.Run("delete recomputes stats", func(t *testing.T) {
		id := newTask(alice.ID)
		writes := f.projects.statWrites
		err := f.taskService.Delete(context.Background(), id, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, writes+1, f.projects.statWrites)
	})
}

func TestTaskService_GetAndList(t *testing.T) {
	f := newFixture()
	alice := f.seedUser("Alice", "alice@example.com")
	bob := f.seedUser("Bob", "bob@example.com")
	project := createProject(t, f, alice, "Launch")

	task, err := f.taskService.Create(context.Background(), CreateTaskInput{
		Title:     "Write spec",
		Project:   project.ID,
		Assignee:  &alice.ID,
		CreatedBy: alice.ID,
	})
	require.NoError(t, err)

	t.Run("member reads a populated task", func(t *testing.T) {
		got, err := f.taskService.Get(context.Background(), task.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Write spec", got.Title)
		require.NotNil(t, got.Assignee)
		assert.Equal(t, "Alice", got.Assignee.FirstName)
	})

	t.Run("non-member gets not found on get", func(t *testing.T) {
		_, err := f.taskService.Get(context.Background(), task.ID, bob.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("non-member gets not found on list", func(t *testing.T) {
		_, err := f.taskService.ListForProject(context.Background(), project.ID, bob.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("member lists the project tasks", func(t *testing.T) {
		tasks, err := f.taskService.ListForProject(context.Background(), project.ID, alice.ID)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, task.ID, tasks[0].ID)
	})
}

func TestTaskService_AddComment(t *testing.T) {
	f := newFixture()
	alice := f.seedUser("Alice", "alice@example.com")
	bob := f.seedUser("Bob", "bob@example.com")
	carol := f.seedUser("Carol", "carol@example.com")
	project := createProject(t, f, alice, "Launch")
	_, err := f.projectService.AddMember(context.Background(), project.ID, carol.Email, alice.ID)
	require.NoError(t, err)

	task, err := f.taskService.Create(context.Background(), CreateTaskInput{
		Title:     "Write spec",
		Project:   project.ID,
		CreatedBy: alice.ID,
	})
	require.NoError(t, err)

	t.Run("member comments and sees the author populated", func(t *testing.T) {
		view, err := f.taskService.AddComment(context.Background(), task.ID, "Looks good to me", carol.ID)
		require.NoError(t, err)

		require.Len(t, view.Comments, 1)
		assert.Equal(t, "Looks good to me", view.Comments[0].Message)
		assert.Equal(t, "Carol", view.Comments[0].User.FirstName)
		assert.False(t, view.Comments[0].CreatedAt.IsZero())
	})

	t.Run("task creator is notified of the comment", func(t *testing.T) {
		notifications, err := f.notifications.FindByRecipient(context.Background(), alice.ID)
		require.NoError(t, err)
		require.Len(t, notifications, 1)
		assert.Equal(t, models.NotificationCommentAdded, notifications[0].Type)
	})

	t.Run("commenting on your own task does not notify", func(t *testing.T) {
		before, err := f.notifications.FindByRecipient(context.Background(), alice.ID)
		require.NoError(t, err)

		_, err = f.taskService.AddComment(context.Background(), task.ID, "Self note", alice.ID)
		require.NoError(t, err)

		after, err := f.notifications.FindByRecipient(context.Background(), alice.ID)
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("non-member is denied", func(t *testing.T) {
		_, err := f.taskService.AddComment(context.Background(), task.ID, "Hi", bob.ID)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("blank comment rejected", func(t *testing.T) {
		_, err := f.taskService.AddComment(context.Background(), task.ID, "   ", carol.ID)
		assert.True(t, IsValidation(err))
	})

	t.Run("comments do not touch stats", func(t *testing.T) {
		writes := f.projects.statWrites
		_, err := f.taskService.AddComment(context.Background(), task.ID, "Still no recompute", carol.ID)
		require.NoError(t, err)
		assert.Equal(t, writes, f.projects.statWrites)
	})
}
