package sqlite

import (
    "context"
    "time"

    "taskbot/internal/models"
)

var deadlineFormats = []string{TimeLayout, "02.01.2006"}

// Stats aggregates task, user and group counts. Overdue counts only active
// tasks whose group deadline parses and lies in the past; unparsable
// deadlines never count as overdue.
func (d *DB) Stats(ctx context.Context) (models.Stats, error) {
    var s models.Stats
    counts := []struct {
        query string
        dst   *int
    }{
        {`SELECT COUNT(*) FROM tasks`, &s.TotalTasks},
        {`SELECT COUNT(*) FROM tasks WHERE status = 'active'`, &s.ActiveTasks},
        {`SELECT COUNT(*) FROM tasks WHERE status = 'completed'`, &s.CompletedTasks},
        {`SELECT COUNT(*) FROM users`, &s.UsersCount},
        {`SELECT COUNT(*) FROM groups`, &s.GroupsCount},
    }
    for _, c := range counts {
        if err := d.SQL.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
            return s, err
        }
    }

    rows, err := d.SQL.QueryContext(ctx, `
        SELECT tg.deadline
        FROM tasks t
        JOIN task_groups tg ON t.group_task_id = tg.group_task_id
        WHERE t.status = 'active'
    `)
    if err != nil { return s, err }
    defer rows.Close()

    now := time.Now()
    for rows.Next() {
        var deadline string
        if err := rows.Scan(&deadline); err != nil { return s, err }
        if t, ok := parseDeadline(deadline); ok && t.Before(now) {
            s.OverdueTasks++
        }
    }
    return s, rows.Err()
}

func parseDeadline(v string) (time.Time, bool) {
    for _, layout := range deadlineFormats {
        if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
            return t, true
        }
    }
    return time.Time{}, false
}
