package sqlite

import (
    "context"

    "taskbot/internal/models"
)

func (d *DB) AllGroups(ctx context.Context) ([]models.Group, error) {
    rows, err := d.SQL.QueryContext(ctx, `SELECT id, name FROM groups ORDER BY name`)
    if err != nil { return nil, err }
    defer rows.Close()
    var out []models.Group
    for rows.Next() {
        var g models.Group
        if err := rows.Scan(&g.ID, &g.Name); err != nil { return nil, err }
        out = append(out, g)
    }
    return out, rows.Err()
}

func (d *DB) UpsertGroup(ctx context.Context, id, name string) (*models.Group, error) {
    _, err := d.SQL.ExecContext(ctx, `INSERT OR REPLACE INTO groups (id, name) VALUES (?, ?)`, id, name)
    if err != nil { return nil, err }
    return &models.Group{ID: id, Name: name}, nil
}
