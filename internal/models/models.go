package models

// TaskGroup is one task definition fanned out to several executors.
// Deadline is stored as opaque DD.MM.YYYY text and never validated on write.
type TaskGroup struct {
	GroupTaskID int64  `json:"group_task_id"`
	TaskText    string `json:"task_text"`
	Deadline    string `json:"deadline"`
	GroupID     string `json:"group_id"`
	CreatedAt   string `json:"created_at"`
}

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Task is a single executor's row within a group. CompletedAt is the empty
// string while the task is active. TaskText, Deadline and GroupID are
// denormalized from the owning group on reads so list consumers can filter
// and render without a second lookup.
type Task struct {
	ID          int64  `json:"id"`
	GroupTaskID int64  `json:"group_task_id"`
	AssignedTo  string `json:"assigned_to"`
	AssignedBy  string `json:"assigned_by"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	CompletedAt string `json:"completed_at"`

	TaskText string `json:"task_text,omitempty"`
	Deadline string `json:"deadline,omitempty"`
	GroupID  string `json:"group_id,omitempty"`
}

func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusCompleted
}

type User struct {
	Username string   `json:"username"`
	FullName string   `json:"full_name"`
	Groups   []string `json:"groups"`
}

type Group struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Settings is the bot-wide configuration persisted in the config table.
// Booleans are stored as "true"/"false" text, lists as JSON arrays.
type Settings struct {
	TaskCreated     bool     `json:"task_created"`
	TaskCompleted   bool     `json:"task_completed"`
	TaskDeleted     bool     `json:"task_deleted"`
	OverdueReminder bool     `json:"overdue_reminder"`
	Admins          []string `json:"admins"`
	GroupChatIDs    []string `json:"group_chat_ids"`
}

func DefaultSettings() Settings {
	return Settings{
		TaskCreated:     true,
		TaskCompleted:   true,
		TaskDeleted:     true,
		OverdueReminder: true,
		Admins:          []string{},
		GroupChatIDs:    []string{},
	}
}

type Stats struct {
	TotalTasks     int `json:"total_tasks"`
	ActiveTasks    int `json:"active_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	OverdueTasks   int `json:"overdue_tasks"`
	UsersCount     int `json:"users_count"`
	GroupsCount    int `json:"groups_count"`
}
