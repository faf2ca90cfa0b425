package sqlite

import (
    "context"
    "encoding/json"
    "strings"

    "taskbot/internal/models"
)

// Settings are persisted as flat key/value rows: booleans as lowercase
// "true"/"false" text, the admin and group-chat lists as JSON arrays.
func (d *DB) Settings(ctx context.Context) (models.Settings, error) {
    s := models.DefaultSettings()
    rows, err := d.SQL.QueryContext(ctx, `SELECT key, value FROM config`)
    if err != nil { return s, err }
    defer rows.Close()

    for rows.Next() {
        var key, value string
        if err := rows.Scan(&key, &value); err != nil { return s, err }
        switch key {
        case "task_created":
            s.TaskCreated = parseBool(value)
        case "task_completed":
            s.TaskCompleted = parseBool(value)
        case "task_deleted":
            s.TaskDeleted = parseBool(value)
        case "overdue_reminder":
            s.OverdueReminder = parseBool(value)
        case "admins":
            s.Admins = parseList(value)
        case "group_chat_ids":
            s.GroupChatIDs = parseList(value)
        }
    }
    return s, rows.Err()
}

func (d *DB) SaveSettings(ctx context.Context, s models.Settings) error {
    entries := map[string]string{
        "task_created":     formatBool(s.TaskCreated),
        "task_completed":   formatBool(s.TaskCompleted),
        "task_deleted":     formatBool(s.TaskDeleted),
        "overdue_reminder": formatBool(s.OverdueReminder),
        "admins":           formatList(s.Admins),
        "group_chat_ids":   formatList(s.GroupChatIDs),
    }
    for key, value := range entries {
        _, err := d.SQL.ExecContext(ctx, `INSERT OR REPLACE INTO config (key, value) VALUES (?, ?)`, key, value)
        if err != nil { return err }
    }
    return nil
}

// SeedDefaults populates the config table and the users table on first run.
// Admin and employee handles come from environment lists; an already
// populated table is left alone.
func (d *DB) SeedDefaults(ctx context.Context, admins, groupChatIDs, employees []string) error {
    var configRows int
    if err := d.SQL.QueryRowContext(ctx, `SELECT COUNT(*) FROM config`).Scan(&configRows); err != nil {
        return err
    }
    if configRows == 0 {
        s := models.DefaultSettings()
        s.Admins = normalizeHandles(admins)
        s.GroupChatIDs = groupChatIDs
        if err := d.SaveSettings(ctx, s); err != nil { return err }
    }

    var userRows int
    if err := d.SQL.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&userRows); err != nil {
        return err
    }
    if userRows == 0 {
        for _, handle := range normalizeHandles(employees) {
            if _, err := d.UpsertUser(ctx, handle, strings.TrimPrefix(handle, "@"), nil); err != nil {
                return err
            }
        }
    }
    return nil
}

func normalizeHandles(handles []string) []string {
    out := make([]string, 0, len(handles))
    for _, h := range handles {
        h = strings.TrimSpace(h)
        if h == "" { continue }
        if !strings.HasPrefix(h, "@") { h = "@" + h }
        out = append(out, h)
    }
    return out
}

func parseBool(v string) bool {
    switch strings.ToLower(v) {
    case "true", "1", "yes", "on":
        return true
    }
    return false
}

func formatBool(v bool) string {
    if v { return "true" }
    return "false"
}

func parseList(v string) []string {
    var out []string
    if err := json.Unmarshal([]byte(v), &out); err != nil || out == nil {
        return []string{}
    }
    return out
}

func formatList(v []string) string {
    if v == nil { v = []string{} }
    b, _ := json.Marshal(v)
    return string(b)
}
