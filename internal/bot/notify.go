package bot

import (
    "context"
    "fmt"
    "log"
    "strconv"
    "strings"
    "time"

    tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

    "taskbot/internal/models"
)

// sendToChat delivers a notification to a group chat stored as decimal text.
// Unparsable ids are skipped silently so a bad config entry cannot wedge the
// flow that triggered the notification.
func (b *Bot) sendToChat(chatID, text string) {
    id, err := strconv.ParseInt(chatID, 10, 64)
    if err != nil { return }
    if _, err := b.API.Send(tgbotapi.NewMessage(id, text)); err != nil {
        log.Println("notify chat", chatID, ":", err)
    }
}

func (b *Bot) notifyTaskCreated(ctx context.Context, draft TaskDraft, groupTaskID int64) {
    if draft.GroupID == "" { return }
    settings, err := b.Client.Settings(ctx)
    if err != nil || !settings.TaskCreated { return }
    text := fmt.Sprintf("📌 Новая задача #%d\n%s\nСрок: %s\nИсполнители: %s",
        groupTaskID, draft.TaskText, draft.Deadline, strings.Join(draft.Assignees, ", "))
    b.sendToChat(draft.GroupID, text)
}

func (b *Bot) notifyTaskCompleted(ctx context.Context, t models.Task) {
    if t.GroupID == "" { return }
    settings, err := b.Client.Settings(ctx)
    if err != nil || !settings.TaskCompleted { return }
    text := fmt.Sprintf("✅ Задача #%d выполнена\n%s\nИсполнитель: %s", t.ID, t.TaskText, t.AssignedTo)
    b.sendToChat(t.GroupID, text)
}

func (b *Bot) notifyTaskDeleted(ctx context.Context, t models.Task) {
    if t.GroupID == "" { return }
    settings, err := b.Client.Settings(ctx)
    if err != nil || !settings.TaskDeleted { return }
    text := fmt.Sprintf("🗑 Задача #%d удалена\n%s\nИсполнитель: %s", t.ID, t.TaskText, t.AssignedTo)
    b.sendToChat(t.GroupID, text)
}

// startOverdueReminderLoop fires once a day at the given hour and posts an
// overdue summary to every configured group chat.
func (b *Bot) startOverdueReminderLoop(hour int) {
    go func() {
        for {
            now := time.Now().In(b.TZ)
            next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, b.TZ)
            if !now.Before(next) { next = next.Add(24 * time.Hour) }
            time.Sleep(next.Sub(now))
            b.remindOverdue()
        }
    }()
}

func (b *Bot) remindOverdue() {
    ctx := context.Background()
    settings, err := b.Client.Settings(ctx)
    if err != nil {
        log.Println("load settings:", err)
        return
    }
    if !settings.OverdueReminder || len(settings.GroupChatIDs) == 0 { return }

    tasks, err := b.Client.AllTasks(ctx)
    if err != nil {
        log.Println("load tasks:", err)
        return
    }
    today := b.today()
    var overdue []models.Task
    for _, t := range tasks {
        if IsOverdue(t, today) { overdue = append(overdue, t) }
    }
    if len(overdue) == 0 { return }

    var sb strings.Builder
    sb.WriteString("❗ Просроченные задачи:\n")
    for _, t := range overdue {
        sb.WriteString(fmt.Sprintf("• #%d %s (до %s) — %s\n", t.ID, t.TaskText, t.Deadline, t.AssignedTo))
    }
    for _, chatID := range settings.GroupChatIDs {
        b.sendToChat(chatID, sb.String())
    }
}
