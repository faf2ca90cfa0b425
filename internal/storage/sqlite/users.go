package sqlite

import (
    "context"
    "database/sql"
    "fmt"

    "taskbot/internal/models"
)

// AllUsers returns every user with their group memberships, ordered by
// username.
func (d *DB) AllUsers(ctx context.Context) ([]models.User, error) {
    rows, err := d.SQL.QueryContext(ctx, `
        SELECT u.username, COALESCE(u.full_name, ''), ug.group_id
        FROM users u
        LEFT JOIN user_groups ug ON u.username = ug.username
        ORDER BY u.username
    `)
    if err != nil { return nil, err }
    defer rows.Close()

    var out []models.User
    index := map[string]int{}
    for rows.Next() {
        var username, fullName string
        var groupID sql.NullString
        if err := rows.Scan(&username, &fullName, &groupID); err != nil { return nil, err }
        i, ok := index[username]
        if !ok {
            out = append(out, models.User{Username: username, FullName: fullName, Groups: []string{}})
            i = len(out) - 1
            index[username] = i
        }
        if groupID.Valid && groupID.String != "" {
            out[i].Groups = append(out[i].Groups, groupID.String)
        }
    }
    return out, rows.Err()
}

// UpsertUser creates or replaces a user and rewrites their group
// memberships.
func (d *DB) UpsertUser(ctx context.Context, username, fullName string, groups []string) (*models.User, error) {
    tx, err := d.SQL.BeginTx(ctx, nil)
    if err != nil { return nil, err }
    defer tx.Rollback()

    _, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO users (username, full_name) VALUES (?, ?)`, username, fullName)
    if err != nil { return nil, err }
    if err := rewriteUserGroups(ctx, tx, username, groups); err != nil { return nil, err }

    if err := tx.Commit(); err != nil { return nil, err }
    return &models.User{Username: username, FullName: fullName, Groups: groups}, nil
}

// UpdateUser patches an existing user; unknown usernames surface as
// ErrNotFound.
func (d *DB) UpdateUser(ctx context.Context, username, fullName string, groups []string) (*models.User, error) {
    tx, err := d.SQL.BeginTx(ctx, nil)
    if err != nil { return nil, err }
    defer tx.Rollback()

    var one int
    err = tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username=?`, username).Scan(&one)
    if err == sql.ErrNoRows {
        return nil, fmt.Errorf("user %s: %w", username, ErrNotFound)
    }
    if err != nil { return nil, err }

    if _, err := tx.ExecContext(ctx, `UPDATE users SET full_name=? WHERE username=?`, fullName, username); err != nil {
        return nil, err
    }
    if err := rewriteUserGroups(ctx, tx, username, groups); err != nil { return nil, err }

    if err := tx.Commit(); err != nil { return nil, err }
    return &models.User{Username: username, FullName: fullName, Groups: groups}, nil
}

func (d *DB) DeleteUser(ctx context.Context, username string) error {
    res, err := d.SQL.ExecContext(ctx, `DELETE FROM users WHERE username=?`, username)
    if err != nil { return err }
    if n, _ := res.RowsAffected(); n == 0 {
        return fmt.Errorf("user %s: %w", username, ErrNotFound)
    }
    // ON DELETE CASCADE covers user_groups; keep the explicit delete for
    // databases created before foreign keys were enforced.
    _, _ = d.SQL.ExecContext(ctx, `DELETE FROM user_groups WHERE username=?`, username)
    return nil
}

func rewriteUserGroups(ctx context.Context, tx *sql.Tx, username string, groups []string) error {
    if _, err := tx.ExecContext(ctx, `DELETE FROM user_groups WHERE username=?`, username); err != nil {
        return err
    }
    for _, groupID := range groups {
        if _, err := tx.ExecContext(ctx, `INSERT INTO user_groups (username, group_id) VALUES (?, ?)`, username, groupID); err != nil {
            return err
        }
    }
    return nil
}
