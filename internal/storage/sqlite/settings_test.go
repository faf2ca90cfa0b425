package sqlite

import (
    "context"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "taskbot/internal/models"
)

func TestSettingsDefaultsWhenEmpty(t *testing.T) {
    db := newTestDB(t)

    s, err := db.Settings(context.Background())
    require.NoError(t, err)
    assert.Equal(t, models.DefaultSettings(), s)
}

func TestSettingsRoundTrip(t *testing.T) {
    db := newTestDB(t)
    ctx := context.Background()

    in := models.Settings{
        TaskCreated:     false,
        TaskCompleted:   true,
        TaskDeleted:     false,
        OverdueReminder: true,
        Admins:          []string{"@boss", "@lead"},
        GroupChatIDs:    []string{"-100111", "-100222"},
    }
    require.NoError(t, db.SaveSettings(ctx, in))

    out, err := db.Settings(ctx)
    require.NoError(t, err)
    assert.Equal(t, in, out)
}

func TestSeedDefaults(t *testing.T) {
    db := newTestDB(t)
    ctx := context.Background()

    err := db.SeedDefaults(ctx,
        []string{"boss", "@lead", " "},
        []string{"-100111"},
        []string{"ivan", "@olga"})
    require.NoError(t, err)

    s, err := db.Settings(ctx)
    require.NoError(t, err)
    assert.Equal(t, []string{"@boss", "@lead"}, s.Admins)
    assert.Equal(t, []string{"-100111"}, s.GroupChatIDs)
    assert.True(t, s.TaskCreated)

    users, err := db.AllUsers(ctx)
    require.NoError(t, err)
    require.Len(t, users, 2)
    assert.Equal(t, "@ivan", users[0].Username)
    assert.Equal(t, "ivan", users[0].FullName)

    // seeding is first-run only
    err = db.SeedDefaults(ctx, []string{"@other"}, nil, []string{"@petr"})
    require.NoError(t, err)
    s, err = db.Settings(ctx)
    require.NoError(t, err)
    assert.Equal(t, []string{"@boss", "@lead"}, s.Admins)
    users, err = db.AllUsers(ctx)
    require.NoError(t, err)
    assert.Len(t, users, 2)
}

func TestParseBool(t *testing.T) {
    for _, v := range []string{"true", "1", "yes", "on", "TRUE"} {
        assert.True(t, parseBool(v), v)
    }
    for _, v := range []string{"false", "0", "", "off", "nope"} {
        assert.False(t, parseBool(v), v)
    }
}
