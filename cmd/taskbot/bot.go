package main

import (
    "fmt"
    "log"
    "time"

    tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
    "github.com/spf13/cobra"

    "taskbot/internal/api"
    "taskbot/internal/bot"
)

func newBotCmd() *cobra.Command {
    return &cobra.Command{
        Use:   "bot",
        Short: "Run the Telegram frontend",
        RunE: func(cmd *cobra.Command, args []string) error {
            cfg, err := loadConfig()
            if err != nil { return err }
            if cfg.BotToken == "" {
                return fmt.Errorf("bot token is required")
            }

            botAPI, err := tgbotapi.NewBotAPI(cfg.BotToken)
            if err != nil { return err }
            botAPI.Debug = false

            loc := time.Local
            if cfg.Timezone != "" {
                if l, err := time.LoadLocation(cfg.Timezone); err == nil { loc = l }
            }

            client := api.NewClient(cfg.APIURL)
            sessions := bot.NewSessions(cfg.SessionTTL())
            b := bot.NewBot(botAPI, client, sessions, loc)

            log.Printf("Bot started as @%s", botAPI.Self.UserName)
            return b.Start()
        },
    }
}
