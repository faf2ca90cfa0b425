package sqlite

import (
    "context"
    "database/sql"
    "fmt"
    "strings"

    "taskbot/internal/models"
)

// nextGroupTaskID allocates group ids as max existing + 1. The connection
// pool is capped at one connection, which keeps the allocation serial.
func nextGroupTaskID(ctx context.Context, tx *sql.Tx) (int64, error) {
    row := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(group_task_id), 0) FROM task_groups`)
    var maxID int64
    if err := row.Scan(&maxID); err != nil { return 0, err }
    return maxID + 1, nil
}

// CreateTaskGroup inserts one group row and one task row per executor in a
// single transaction and returns the created task rows.
func (d *DB) CreateTaskGroup(ctx context.Context, text, deadline, groupID string, assignedTo []string, assignedBy string) ([]models.Task, error) {
    now := Now()
    tx, err := d.SQL.BeginTx(ctx, nil)
    if err != nil { return nil, err }
    defer tx.Rollback()

    groupTaskID, err := nextGroupTaskID(ctx, tx)
    if err != nil { return nil, err }

    _, err = tx.ExecContext(ctx, `
        INSERT INTO task_groups (group_task_id, task_text, deadline, group_id, created_at)
        VALUES (?, ?, ?, ?, ?)
    `, groupTaskID, text, deadline, groupID, now)
    if err != nil { return nil, err }

    group := models.TaskGroup{GroupTaskID: groupTaskID, TaskText: text, Deadline: deadline, GroupID: groupID, CreatedAt: now}
    tasks, err := insertTaskRows(ctx, tx, group, assignedTo, assignedBy, now)
    if err != nil { return nil, err }

    if err := tx.Commit(); err != nil { return nil, err }
    return tasks, nil
}

// AddExecutors appends task rows to an existing group. Nothing is inserted
// when the group id is unknown.
func (d *DB) AddExecutors(ctx context.Context, groupTaskID int64, assignedTo []string, assignedBy string) ([]models.Task, error) {
    now := Now()
    tx, err := d.SQL.BeginTx(ctx, nil)
    if err != nil { return nil, err }
    defer tx.Rollback()

    var group models.TaskGroup
    err = tx.QueryRowContext(ctx, `
        SELECT group_task_id, task_text, deadline, group_id, created_at
        FROM task_groups WHERE group_task_id=?`, groupTaskID).
        Scan(&group.GroupTaskID, &group.TaskText, &group.Deadline, &group.GroupID, &group.CreatedAt)
    if err == sql.ErrNoRows {
        return nil, fmt.Errorf("task group %d: %w", groupTaskID, ErrNotFound)
    }
    if err != nil { return nil, err }

    tasks, err := insertTaskRows(ctx, tx, group, assignedTo, assignedBy, now)
    if err != nil { return nil, err }

    if err := tx.Commit(); err != nil { return nil, err }
    return tasks, nil
}

func insertTaskRows(ctx context.Context, tx *sql.Tx, group models.TaskGroup, assignedTo []string, assignedBy, now string) ([]models.Task, error) {
    var tasks []models.Task
    for _, executor := range assignedTo {
        res, err := tx.ExecContext(ctx, `
            INSERT INTO tasks (group_task_id, assigned_to, assigned_by, status, created_at, completed_at)
            VALUES (?, ?, ?, ?, ?, ?)
        `, group.GroupTaskID, executor, assignedBy, models.StatusActive, now, "")
        if err != nil { return nil, err }
        id, _ := res.LastInsertId()
        tasks = append(tasks, models.Task{
            ID:          id,
            GroupTaskID: group.GroupTaskID,
            AssignedTo:  executor,
            AssignedBy:  assignedBy,
            Status:      models.StatusActive,
            CreatedAt:   now,
            CompletedAt: "",
            TaskText:    group.TaskText,
            Deadline:    group.Deadline,
            GroupID:     group.GroupID,
        })
    }
    return tasks, nil
}

// Reads denormalize the owning group's text, deadline and chat id into each
// task row so the bot can filter and render from one list call.
const taskColumns = `
    t.id, t.group_task_id, t.assigned_to, t.assigned_by, t.status, t.created_at, t.completed_at,
    tg.task_text, tg.deadline, tg.group_id`

const taskFrom = ` FROM tasks t JOIN task_groups tg ON t.group_task_id = tg.group_task_id`

func (d *DB) AllTasks(ctx context.Context) ([]models.Task, error) {
    rows, err := d.SQL.QueryContext(ctx, `SELECT `+taskColumns+taskFrom)
    if err != nil { return nil, err }
    defer rows.Close()
    return scanTasks(rows)
}

func (d *DB) TasksByGroup(ctx context.Context, groupTaskID int64) ([]models.Task, error) {
    rows, err := d.SQL.QueryContext(ctx, `SELECT `+taskColumns+taskFrom+` WHERE t.group_task_id=?`, groupTaskID)
    if err != nil { return nil, err }
    defer rows.Close()
    return scanTasks(rows)
}

func (d *DB) TaskByID(ctx context.Context, id int64) (*models.Task, error) {
    row := d.SQL.QueryRowContext(ctx, `SELECT `+taskColumns+taskFrom+` WHERE t.id=?`, id)
    t := &models.Task{}
    err := row.Scan(&t.ID, &t.GroupTaskID, &t.AssignedTo, &t.AssignedBy, &t.Status, &t.CreatedAt, &t.CompletedAt,
        &t.TaskText, &t.Deadline, &t.GroupID)
    if err == sql.ErrNoRows {
        return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
    }
    if err != nil { return nil, err }
    return t, nil
}

func (d *DB) GroupByID(ctx context.Context, groupTaskID int64) (*models.TaskGroup, error) {
    row := d.SQL.QueryRowContext(ctx, `
        SELECT group_task_id, task_text, deadline, group_id, created_at
        FROM task_groups WHERE group_task_id=?`, groupTaskID)
    g := &models.TaskGroup{}
    err := row.Scan(&g.GroupTaskID, &g.TaskText, &g.Deadline, &g.GroupID, &g.CreatedAt)
    if err == sql.ErrNoRows {
        return nil, fmt.Errorf("task group %d: %w", groupTaskID, ErrNotFound)
    }
    if err != nil { return nil, err }
    return g, nil
}

// UpdateGroup patches only the supplied fields and returns the full updated
// group row.
func (d *DB) UpdateGroup(ctx context.Context, groupTaskID int64, upd models.GroupUpdate) (*models.TaskGroup, error) {
    var fields []string
    var values []any
    if upd.TaskText != nil {
        fields = append(fields, "task_text = ?")
        values = append(values, *upd.TaskText)
    }
    if upd.Deadline != nil {
        fields = append(fields, "deadline = ?")
        values = append(values, *upd.Deadline)
    }
    if upd.GroupID != nil {
        fields = append(fields, "group_id = ?")
        values = append(values, *upd.GroupID)
    }
    if len(fields) > 0 {
        values = append(values, groupTaskID)
        q := "UPDATE task_groups SET " + strings.Join(fields, ", ") + " WHERE group_task_id = ?"
        res, err := d.SQL.ExecContext(ctx, q, values...)
        if err != nil { return nil, err }
        if n, _ := res.RowsAffected(); n == 0 {
            return nil, fmt.Errorf("task group %d: %w", groupTaskID, ErrNotFound)
        }
    }
    return d.GroupByID(ctx, groupTaskID)
}

// UpdateTaskStatus sets the status and derives completed_at: the current
// timestamp when completing, the empty string when reopening.
func (d *DB) UpdateTaskStatus(ctx context.Context, id int64, status string) (*models.Task, error) {
    completedAt := ""
    if status == models.StatusCompleted { completedAt = Now() }
    res, err := d.SQL.ExecContext(ctx, `UPDATE tasks SET status=?, completed_at=? WHERE id=?`, status, completedAt, id)
    if err != nil { return nil, err }
    if n, _ := res.RowsAffected(); n == 0 {
        return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
    }
    return d.TaskByID(ctx, id)
}

// DeleteTask removes one task row and reports how many sibling rows remain
// in its group. The group row itself is kept even when it drops to zero.
func (d *DB) DeleteTask(ctx context.Context, id int64) (int, error) {
    var groupTaskID int64
    err := d.SQL.QueryRowContext(ctx, `SELECT group_task_id FROM tasks WHERE id=?`, id).Scan(&groupTaskID)
    if err == sql.ErrNoRows {
        return 0, fmt.Errorf("task %d: %w", id, ErrNotFound)
    }
    if err != nil { return 0, err }

    if _, err := d.SQL.ExecContext(ctx, `DELETE FROM tasks WHERE id=?`, id); err != nil {
        return 0, err
    }

    var remaining int
    err = d.SQL.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE group_task_id=?`, groupTaskID).Scan(&remaining)
    if err != nil { return 0, err }
    return remaining, nil
}

func scanTasks(rows *sql.Rows) ([]models.Task, error) {
    var out []models.Task
    for rows.Next() {
        var t models.Task
        if err := rows.Scan(&t.ID, &t.GroupTaskID, &t.AssignedTo, &t.AssignedBy, &t.Status, &t.CreatedAt, &t.CompletedAt,
            &t.TaskText, &t.Deadline, &t.GroupID); err != nil {
            return nil, err
        }
        out = append(out, t)
    }
    return out, rows.Err()
}
