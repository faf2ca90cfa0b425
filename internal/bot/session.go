package bot

import (
    "sync"
    "time"
)

// Session is the per-chat UI state: the active form state with its drafts,
// plus the admin list view (filter and page). Sessions expire after a TTL
// so abandoned flows do not linger.
type Session struct {
    State   string
    Draft   TaskDraft
    NewUser NewUserDraft

    Filter string
    Page   int

    // Task id a free-text reply applies to while editing text or deadline.
    SelectedTask int64

    touched time.Time
}

type Sessions struct {
    mu   sync.Mutex
    ttl  time.Duration
    byID map[int64]*Session
    now  func() time.Time
}

func NewSessions(ttl time.Duration) *Sessions {
    return &Sessions{
        ttl:  ttl,
        byID: make(map[int64]*Session),
        now:  time.Now,
    }
}

// Get returns the live session for a user, creating one if absent or
// expired.
func (s *Sessions) Get(userID int64) *Session {
    s.mu.Lock()
    defer s.mu.Unlock()
    sess, ok := s.byID[userID]
    if !ok || s.expired(sess) {
        sess = &Session{Filter: "all"}
        s.byID[userID] = sess
    }
    sess.touched = s.now()
    return sess
}

// Reset clears the form state but keeps the list view.
func (s *Sessions) Reset(userID int64) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if sess, ok := s.byID[userID]; ok {
        sess.State = StateIdle
        sess.Draft = TaskDraft{}
        sess.NewUser = NewUserDraft{}
        sess.SelectedTask = 0
        sess.touched = s.now()
    }
}

// Sweep drops expired sessions; run periodically from the bot loop.
func (s *Sessions) Sweep() {
    s.mu.Lock()
    defer s.mu.Unlock()
    for id, sess := range s.byID {
        if s.expired(sess) {
            delete(s.byID, id)
        }
    }
}

func (s *Sessions) expired(sess *Session) bool {
    return s.ttl > 0 && s.now().Sub(sess.touched) > s.ttl
}
