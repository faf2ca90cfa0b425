package sqlite

import (
    "context"
    "errors"
    "path/filepath"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "taskbot/internal/models"
)

func newTestDB(t *testing.T) *DB {
    t.Helper()
    db, err := Open(filepath.Join(t.TempDir(), "test.db"))
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    return db
}

func TestCreateTaskGroupFansOut(t *testing.T) {
    db := newTestDB(t)
    ctx := context.Background()

    tasks, err := db.CreateTaskGroup(ctx, "подготовить отчет", "01.12.2026", "-100123", []string{"@ivan", "@olga", "@petr"}, "@boss")
    require.NoError(t, err)
    require.Len(t, tasks, 3)

    for i, task := range tasks {
        assert.Equal(t, int64(1), task.GroupTaskID)
        assert.Equal(t, models.StatusActive, task.Status)
        assert.Equal(t, "", task.CompletedAt)
        assert.Equal(t, "@boss", task.AssignedBy)
        assert.Equal(t, "подготовить отчет", task.TaskText)
        assert.Equal(t, "01.12.2026", task.Deadline)
        assert.Equal(t, "-100123", task.GroupID)
        if i > 0 {
            assert.Greater(t, task.ID, tasks[i-1].ID)
        }
    }

    second, err := db.CreateTaskGroup(ctx, "другая задача", "02.12.2026", "", []string{"@ivan"}, "@boss")
    require.NoError(t, err)
    assert.Equal(t, int64(2), second[0].GroupTaskID)
}

func TestAllTasksCarryGroupFields(t *testing.T) {
    db := newTestDB(t)
    ctx := context.Background()

    _, err := db.CreateTaskGroup(ctx, "текст", "05.05.2026", "chat1", []string{"@ivan"}, "@boss")
    require.NoError(t, err)

    all, err := db.AllTasks(ctx)
    require.NoError(t, err)
    require.Len(t, all, 1)
    assert.Equal(t, "текст", all[0].TaskText)
    assert.Equal(t, "05.05.2026", all[0].Deadline)
    assert.Equal(t, "chat1", all[0].GroupID)
}

func TestAddExecutors(t *testing.T) {
    db := newTestDB(t)
    ctx := context.Background()

    created, err := db.CreateTaskGroup(ctx, "текст", "01.01.2027", "", []string{"@ivan"}, "@boss")
    require.NoError(t, err)
    groupID := created[0].GroupTaskID

    added, err := db.AddExecutors(ctx, groupID, []string{"@olga", "@petr"}, "@boss")
    require.NoError(t, err)
    require.Len(t, added, 2)
    for _, task := range added {
        assert.Equal(t, groupID, task.GroupTaskID)
        assert.Equal(t, "текст", task.TaskText)
        assert.Equal(t, models.StatusActive, task.Status)
    }

    siblings, err := db.TasksByGroup(ctx, groupID)
    require.NoError(t, err)
    assert.Len(t, siblings, 3)
}

func TestAddExecutorsUnknownGroup(t *testing.T) {
    db := newTestDB(t)
    ctx := context.Background()

    _, err := db.AddExecutors(ctx, 99, []string{"@ivan"}, "@boss")
    require.Error(t, err)
    assert.True(t, errors.Is(err, ErrNotFound))

    // the failed append must not leave partial rows behind
    all, err := db.AllTasks(ctx)
    require.NoError(t, err)
    assert.Empty(t, all)
}

func TestUpdateTaskStatus(t *testing.T) {
    db := newTestDB(t)
    ctx := context.Background()

    created, err := db.CreateTaskGroup(ctx, "текст", "01.01.2027", "", []string{"@ivan"}, "@boss")
    require.NoError(t, err)
    id := created[0].ID

    done, err := db.UpdateTaskStatus(ctx, id, models.StatusCompleted)
    require.NoError(t, err)
    assert.Equal(t, models.StatusCompleted, done.Status)
    require.NotEmpty(t, done.CompletedAt)
    _, perr := time.ParseInLocation(TimeLayout, done.CompletedAt, time.Local)
    assert.NoError(t, perr)

    reopened, err := db.UpdateTaskStatus(ctx, id, models.StatusActive)
    require.NoError(t, err)
    assert.Equal(t, models.StatusActive, reopened.Status)
    assert.Equal(t, "", reopened.CompletedAt)

    _, err = db.UpdateTaskStatus(ctx, 999, models.StatusCompleted)
    assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteTaskKeepsGroup(t *testing.T) {
    db := newTestDB(t)
    ctx := context.Background()

    created, err := db.CreateTaskGroup(ctx, "текст", "01.01.2027", "", []string{"@ivan", "@olga"}, "@boss")
    require.NoError(t, err)
    groupID := created[0].GroupTaskID

    remaining, err := db.DeleteTask(ctx, created[0].ID)
    require.NoError(t, err)
    assert.Equal(t, 1, remaining)

    remaining, err = db.DeleteTask(ctx, created[1].ID)
    require.NoError(t, err)
    assert.Equal(t, 0, remaining)

    // the group row survives so its id is never reallocated
    group, err := db.GroupByID(ctx, groupID)
    require.NoError(t, err)
    assert.Equal(t, "текст", group.TaskText)

    next, err := db.CreateTaskGroup(ctx, "новая", "01.01.2027", "", []string{"@ivan"}, "@boss")
    require.NoError(t, err)
    assert.Equal(t, groupID+1, next[0].GroupTaskID)

    _, err = db.DeleteTask(ctx, created[0].ID)
    assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUpdateGroupPartialPatch(t *testing.T) {
    db := newTestDB(t)
    ctx := context.Background()

    created, err := db.CreateTaskGroup(ctx, "старый текст", "01.01.2027", "chat1", []string{"@ivan"}, "@boss")
    require.NoError(t, err)
    groupID := created[0].GroupTaskID

    deadline := "15.02.2027"
    group, err := db.UpdateGroup(ctx, groupID, models.GroupUpdate{Deadline: &deadline})
    require.NoError(t, err)
    assert.Equal(t, "15.02.2027", group.Deadline)
    assert.Equal(t, "старый текст", group.TaskText)
    assert.Equal(t, "chat1", group.GroupID)

    // empty patch still returns the current row
    group, err = db.UpdateGroup(ctx, groupID, models.GroupUpdate{})
    require.NoError(t, err)
    assert.Equal(t, "15.02.2027", group.Deadline)

    _, err = db.UpdateGroup(ctx, 999, models.GroupUpdate{Deadline: &deadline})
    assert.True(t, errors.Is(err, ErrNotFound))
}
