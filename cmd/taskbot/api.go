package main

import (
    "context"
    "fmt"
    "log/slog"
    "os"

    "github.com/spf13/cobra"

    "taskbot/internal/config"
    "taskbot/internal/server"
    "taskbot/internal/storage/sqlite"
)

func newAPICmd() *cobra.Command {
    return &cobra.Command{
        Use:   "api",
        Short: "Run the REST backend",
        RunE: func(cmd *cobra.Command, args []string) error {
            cfg, err := loadConfig()
            if err != nil { return err }
            if cfg.DBPath == "" {
                return fmt.Errorf("db path is required")
            }

            logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("component", "api")

            logger.Info("opening database", "path", cfg.DBPath)
            db, err := sqlite.Open(cfg.DBPath)
            if err != nil { return err }
            defer db.Close()

            // First run only: admins, group chats and employees from env.
            err = db.SeedDefaults(context.Background(),
                config.EnvList("ADMIN_USERNAMES"),
                config.EnvList("GROUP_CHAT_IDS"),
                config.EnvList("EMPLOYEE_USERNAMES"))
            if err != nil { return err }

            return server.New(db, logger).Run(cfg.ListenAddr)
        },
    }
}
