package bot

import (
    "fmt"
    "strings"
    "time"

    "taskbot/internal/models"
)

// TasksPerPage is the fixed page size of admin task listings.
const TasksPerPage = 5

const deadlineLayout = "02.01.2006"

// NormalizeHandle ensures the leading "@" on a user handle.
func NormalizeHandle(username string) string {
    if strings.HasPrefix(username, "@") {
        return username
    }
    return "@" + username
}

// ParseAssignees splits a comma separated list of handles.
func ParseAssignees(raw string) []string {
    var out []string
    for _, u := range strings.Split(raw, ",") {
        if u = strings.TrimSpace(u); u != "" {
            out = append(out, NormalizeHandle(u))
        }
    }
    return out
}

// DeadlineDate parses the opaque deadline string. The bool is false for
// anything that is not strict DD.MM.YYYY.
func DeadlineDate(deadline string) (time.Time, bool) {
    t, err := time.ParseInLocation(deadlineLayout, deadline, time.Local)
    if err != nil {
        return time.Time{}, false
    }
    return t, true
}

// IsOverdue reports whether an active task's deadline lies strictly before
// today. Completed tasks and unparsable deadlines are never overdue.
func IsOverdue(task models.Task, today time.Time) bool {
    if task.Status == models.StatusCompleted {
        return false
    }
    d, ok := DeadlineDate(task.Deadline)
    if !ok {
        return false
    }
    return d.Before(truncateToDay(today))
}

// MatchesFilter applies one of the named list filters. Date-bucket filters
// exclude tasks whose deadline fails to parse.
func MatchesFilter(task models.Task, filterKey string, today time.Time) bool {
    switch filterKey {
    case "all":
        return true
    case "active":
        return task.Status == models.StatusActive
    case "completed":
        return task.Status == models.StatusCompleted
    case "overdue":
        return IsOverdue(task, today)
    }
    d, ok := DeadlineDate(task.Deadline)
    if !ok {
        return false
    }
    day := truncateToDay(today)
    switch filterKey {
    case "today":
        return d.Equal(day)
    case "tomorrow":
        return d.Equal(day.AddDate(0, 0, 1))
    case "week":
        return !d.Before(day) && !d.After(day.AddDate(0, 0, 7))
    case "month":
        return !d.Before(day) && !d.After(day.AddDate(0, 0, 30))
    }
    return true
}

// Filter keeps the tasks matching the named filter.
func Filter(tasks []models.Task, filterKey string, today time.Time) []models.Task {
    var out []models.Task
    for _, t := range tasks {
        if MatchesFilter(t, filterKey, today) {
            out = append(out, t)
        }
    }
    return out
}

// Paginate slices one page out of the filtered list and reports whether
// previous/next pages exist.
func Paginate(tasks []models.Task, page int) ([]models.Task, bool, bool) {
    start := page * TasksPerPage
    end := start + TasksPerPage
    if start >= len(tasks) {
        return nil, page > 0, false
    }
    if end > len(tasks) {
        end = len(tasks)
    }
    return tasks[start:end], page > 0, end < len(tasks)
}

// DeadlineFromChoice maps a preset button to a concrete date string.
func DeadlineFromChoice(choice string, today time.Time) string {
    day := truncateToDay(today)
    switch choice {
    case "tomorrow":
        day = day.AddDate(0, 0, 1)
    case "3days":
        day = day.AddDate(0, 0, 3)
    case "week":
        day = day.AddDate(0, 0, 7)
    }
    return day.Format(deadlineLayout)
}

func truncateToDay(t time.Time) time.Time {
    return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func formatTaskCard(t models.Task, includeCompletedAt bool) string {
    lines := []string{
        fmt.Sprintf("#%d — %s", t.ID, t.TaskText),
        "Срок: " + t.Deadline,
        "Назначил: " + t.AssignedBy,
        "Статус: " + t.Status,
    }
    if includeCompletedAt {
        lines = append(lines, "Выполнено: "+t.CompletedAt)
    }
    return strings.Join(lines, "\n")
}

func formatTaskLine(t models.Task) string {
    icon := "🟡"
    if t.Status == models.StatusCompleted {
        icon = "✅"
    }
    return fmt.Sprintf("#%d %s %s (до %s) [group %d]", t.ID, icon, t.TaskText, t.Deadline, t.GroupTaskID)
}
