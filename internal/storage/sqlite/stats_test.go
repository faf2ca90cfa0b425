package sqlite

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "taskbot/internal/models"
)

func TestStats(t *testing.T) {
    db := newTestDB(t)
    ctx := context.Background()

    past := time.Now().AddDate(0, 0, -3).Format("02.01.2006")
    future := time.Now().AddDate(0, 0, 3).Format("02.01.2006")

    overdue, err := db.CreateTaskGroup(ctx, "просроченная", past, "", []string{"@ivan", "@olga"}, "@boss")
    require.NoError(t, err)
    _, err = db.CreateTaskGroup(ctx, "текущая", future, "", []string{"@ivan"}, "@boss")
    require.NoError(t, err)
    _, err = db.CreateTaskGroup(ctx, "без срока", "когда-нибудь", "", []string{"@petr"}, "@boss")
    require.NoError(t, err)

    // completed tasks never count as overdue
    _, err = db.UpdateTaskStatus(ctx, overdue[0].ID, models.StatusCompleted)
    require.NoError(t, err)

    _, err = db.UpsertUser(ctx, "@ivan", "Иван", nil)
    require.NoError(t, err)
    _, err = db.UpsertGroup(ctx, "dev", "Разработка")
    require.NoError(t, err)

    stats, err := db.Stats(ctx)
    require.NoError(t, err)
    assert.Equal(t, 4, stats.TotalTasks)
    assert.Equal(t, 3, stats.ActiveTasks)
    assert.Equal(t, 1, stats.CompletedTasks)
    assert.Equal(t, 1, stats.OverdueTasks)
    assert.Equal(t, 1, stats.UsersCount)
    assert.Equal(t, 1, stats.GroupsCount)
}

func TestParseDeadlineFormats(t *testing.T) {
    _, ok := parseDeadline("15.02.2027")
    assert.True(t, ok)
    _, ok = parseDeadline("15.02.2027 10:30:00")
    assert.True(t, ok)
    _, ok = parseDeadline("2027-02-15")
    assert.False(t, ok)
    _, ok = parseDeadline("")
    assert.False(t, ok)
}
