package sqlite

import (
    "context"
    "database/sql"
    "errors"
    "time"

    _ "modernc.org/sqlite"
)

// ErrNotFound is returned when a task, group or user id does not exist.
// Callers distinguish it from unexpected storage errors.
var ErrNotFound = errors.New("not found")

type DB struct {
    SQL *sql.DB
}

func Open(path string) (*DB, error) {
    dsn := path + "?_pragma=busy_timeout(5000)"
    s, err := sql.Open("sqlite", dsn)
    if err != nil { return nil, err }
    s.SetMaxOpenConns(1)
    if err := migrate(context.Background(), s); err != nil {
        return nil, err
    }
    return &DB{SQL: s}, nil
}

func (d *DB) Close() error { return d.SQL.Close() }

func migrate(ctx context.Context, db *sql.DB) error {
    stmts := []string{
        `PRAGMA foreign_keys = ON;`,
        `CREATE TABLE IF NOT EXISTS task_groups (
            group_task_id INTEGER PRIMARY KEY,
            task_text TEXT NOT NULL,
            deadline TEXT NOT NULL,
            group_id TEXT NOT NULL,
            created_at TEXT NOT NULL
        );`,
        `CREATE TABLE IF NOT EXISTS tasks (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            group_task_id INTEGER NOT NULL REFERENCES task_groups(group_task_id),
            assigned_to TEXT NOT NULL,
            assigned_by TEXT NOT NULL,
            status TEXT NOT NULL,
            created_at TEXT NOT NULL,
            completed_at TEXT NOT NULL
        );`,
        `CREATE TABLE IF NOT EXISTS users (
            username TEXT PRIMARY KEY,
            full_name TEXT
        );`,
        `CREATE TABLE IF NOT EXISTS user_groups (
            username TEXT NOT NULL REFERENCES users(username) ON DELETE CASCADE,
            group_id TEXT NOT NULL
        );`,
        `CREATE TABLE IF NOT EXISTS groups (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL
        );`,
        `CREATE TABLE IF NOT EXISTS config (
            key TEXT PRIMARY KEY,
            value TEXT NOT NULL
        );`,
    }
    for _, s := range stmts {
        if _, err := db.ExecContext(ctx, s); err != nil { return err }
    }
    return nil
}

// TimeLayout is the storage format of created_at/completed_at columns.
const TimeLayout = "02.01.2006 15:04:05"

func Now() string {
    return time.Now().In(time.Local).Format(TimeLayout)
}
