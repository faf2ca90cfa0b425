package main

import (
    "os"

    "github.com/spf13/cobra"

    "taskbot/internal/config"
)

func loadConfig() (*config.Config, error) {
    path := os.Getenv("CONFIG_PATH")
    if path == "" { path = "config/local.yaml" }
    return config.MustLoad(path)
}

func newRootCmd() *cobra.Command {
    cmd := &cobra.Command{
        Use:   "taskbot",
        Short: "Group task tracker: REST backend and Telegram frontend",
    }
    cmd.AddCommand(
        newAPICmd(),
        newBotCmd(),
    )
    return cmd
}
