package bot

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestSessionsGetCreatesWithDefaults(t *testing.T) {
    s := NewSessions(30 * time.Minute)
    sess := s.Get(1)
    assert.Equal(t, StateIdle, sess.State)
    assert.Equal(t, "all", sess.Filter)
    assert.Equal(t, 0, sess.Page)

    sess.Filter = "overdue"
    assert.Equal(t, "overdue", s.Get(1).Filter, "same session comes back")
}

func TestSessionsExpire(t *testing.T) {
    now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
    s := NewSessions(30 * time.Minute)
    s.now = func() time.Time { return now }

    sess := s.Get(1)
    sess.State = StateTaskText
    sess.Draft.TaskText = "текст"

    now = now.Add(10 * time.Minute)
    assert.Equal(t, StateTaskText, s.Get(1).State, "touched sessions survive")

    now = now.Add(31 * time.Minute)
    fresh := s.Get(1)
    assert.Equal(t, StateIdle, fresh.State, "expired session is replaced")
    assert.Empty(t, fresh.Draft.TaskText)
}

func TestSessionsReset(t *testing.T) {
    s := NewSessions(time.Hour)
    sess := s.Get(1)
    sess.State = StateManageText
    sess.SelectedTask = 7
    sess.Filter = "completed"
    sess.Page = 2

    s.Reset(1)
    sess = s.Get(1)
    assert.Equal(t, StateIdle, sess.State)
    assert.Zero(t, sess.SelectedTask)
    assert.Equal(t, "completed", sess.Filter, "list view survives a form reset")
    assert.Equal(t, 2, sess.Page)
}

func TestSessionsSweep(t *testing.T) {
    now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
    s := NewSessions(30 * time.Minute)
    s.now = func() time.Time { return now }

    s.Get(1)
    now = now.Add(20 * time.Minute)
    s.Get(2)
    now = now.Add(20 * time.Minute)
    s.Sweep()

    s.mu.Lock()
    defer s.mu.Unlock()
    assert.NotContains(t, s.byID, int64(1))
    assert.Contains(t, s.byID, int64(2))
}

func TestSessionsZeroTTLNeverExpires(t *testing.T) {
    now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
    s := NewSessions(0)
    s.now = func() time.Time { return now }

    sess := s.Get(1)
    sess.State = StateAddAdminUsername
    now = now.Add(1000 * time.Hour)
    assert.Equal(t, StateAddAdminUsername, s.Get(1).State)
}
