package bot

import (
    "fmt"

    tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

    "taskbot/internal/models"
)

func btn(text, data string) tgbotapi.InlineKeyboardButton {
    return tgbotapi.NewInlineKeyboardButtonData(text, data)
}

func row(buttons ...tgbotapi.InlineKeyboardButton) []tgbotapi.InlineKeyboardButton {
    return tgbotapi.NewInlineKeyboardRow(buttons...)
}

func mainMenuKB(isAdmin bool) tgbotapi.InlineKeyboardMarkup {
    rows := [][]tgbotapi.InlineKeyboardButton{
        row(btn("📋 Мои задачи", "menu:mytasks")),
    }
    if isAdmin {
        rows = append(rows, row(btn("👑 Админ панель", "menu:admin")))
    }
    return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func myTasksKB() tgbotapi.InlineKeyboardMarkup {
    return tgbotapi.NewInlineKeyboardMarkup(
        row(btn("🟡 Текущие задачи", "my:active")),
        row(btn("🟢 Выполненные задачи", "my:completed")),
        row(btn("🏠 Главное меню", "menu:main")),
    )
}

func adminPanelKB() tgbotapi.InlineKeyboardMarkup {
    return tgbotapi.NewInlineKeyboardMarkup(
        row(btn("➕ Новая задача", "admin:new")),
        row(btn("📋 Все задачи", "admin:all")),
        row(btn("❌ Просроченные", "admin:overdue")),
        row(btn("👥 Задачи по сотрудникам", "admin:by_user")),
        row(btn("🏘 Задачи по группам", "admin:by_group")),
        row(btn("🛠 Управление задачами", "admin:manage")),
        row(btn("⚙️ Настройки уведомлений", "admin:notify")),
        row(btn("👤 Управление пользователями", "admin:users")),
        row(btn("👑 Управление администраторами", "admin:admins")),
        row(btn("🏠 Главное меню", "menu:main")),
    )
}

// taskButtons builds the action row for one task card. Regular users only
// complete, reopen or delete their own tasks; admins additionally reschedule
// and reassign active ones.
func taskButtons(t models.Task, forUser bool) []tgbotapi.InlineKeyboardButton {
    completed := t.Status == models.StatusCompleted
    if forUser {
        if completed {
            return []tgbotapi.InlineKeyboardButton{
                btn("🔄 Открыть заново", fmt.Sprintf("task:reopen:%d", t.ID)),
                btn("🗑 Удалить", fmt.Sprintf("task:delete:%d", t.ID)),
            }
        }
        return []tgbotapi.InlineKeyboardButton{
            btn("✅ Завершить", fmt.Sprintf("task:complete:%d", t.ID)),
        }
    }
    if completed {
        return []tgbotapi.InlineKeyboardButton{
            btn("🔄 Открыть заново", fmt.Sprintf("admin_task:reopen:%d", t.ID)),
            btn("🗑 Удалить", fmt.Sprintf("admin_task:delete:%d", t.ID)),
        }
    }
    return []tgbotapi.InlineKeyboardButton{
        btn("✅ Завершить", fmt.Sprintf("admin_task:complete:%d", t.ID)),
        btn("⏰ Изменить срок", fmt.Sprintf("admin_task:deadline:%d", t.ID)),
        btn("👤 Переназначить", fmt.Sprintf("admin_task:reassign:%d", t.ID)),
        btn("🗑 Удалить", fmt.Sprintf("admin_task:delete:%d", t.ID)),
    }
}

// executorPickerKB lists known users two per row; toggles accumulate in the
// session draft.
func executorPickerKB(users []models.User) tgbotapi.InlineKeyboardMarkup {
    var rows [][]tgbotapi.InlineKeyboardButton
    for i, u := range users {
        if i%2 == 0 {
            rows = append(rows, []tgbotapi.InlineKeyboardButton{})
        }
        rows[len(rows)-1] = append(rows[len(rows)-1], btn(u.Username, "exec:toggle:"+u.Username))
    }
    rows = append(rows,
        row(btn("✔️ Завершить выбор", "exec:done")),
        row(btn("❌ Отмена", "exec:cancel")),
    )
    return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func groupChooseKB(groupChatIDs []string) tgbotapi.InlineKeyboardMarkup {
    var rows [][]tgbotapi.InlineKeyboardButton
    for _, g := range groupChatIDs {
        rows = append(rows, row(btn(g, "group:choose:"+g)))
    }
    rows = append(rows,
        row(btn("Без уведомлений", "group:none")),
        row(btn("❌ Отмена", "exec:cancel")),
    )
    return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func deadlineChoiceKB() tgbotapi.InlineKeyboardMarkup {
    return tgbotapi.NewInlineKeyboardMarkup(
        row(btn("⏰ Сегодня", "deadline:today")),
        row(btn("⏰ Завтра", "deadline:tomorrow")),
        row(btn("⏰ Через 3 дня", "deadline:3days")),
        row(btn("⏰ Через неделю", "deadline:week")),
        row(btn("📅 Указать дату вручную", "deadline:custom")),
        row(btn("❌ Отмена", "exec:cancel")),
    )
}

func deadlineUpdateKB(taskID int64) tgbotapi.InlineKeyboardMarkup {
    d := func(choice string) string { return fmt.Sprintf("deadline_update:%d:%s", taskID, choice) }
    return tgbotapi.NewInlineKeyboardMarkup(
        row(btn("⏰ Сегодня", d("today"))),
        row(btn("⏰ Завтра", d("tomorrow"))),
        row(btn("⏰ Через 3 дня", d("3days"))),
        row(btn("⏰ Через неделю", d("week"))),
        row(btn("📅 Указать дату", d("custom"))),
        row(btn("❌ Отмена", "admin:cancel")),
    )
}

func filtersKB() tgbotapi.InlineKeyboardMarkup {
    return tgbotapi.NewInlineKeyboardMarkup(
        row(btn("🎯 Все задачи", "filter:all")),
        row(btn("🟡 Активные", "filter:active")),
        row(btn("🟢 Выполненные", "filter:completed")),
        row(btn("🔴 Просроченные", "filter:overdue")),
        row(btn("📅 Сегодня", "filter:today")),
        row(btn("📅 Завтра", "filter:tomorrow")),
        row(btn("📅 Эта неделя", "filter:week")),
        row(btn("📅 Этот месяц", "filter:month")),
        row(btn("🔙 Назад", "admin:all")),
        row(btn("❌ Отмена", "admin:cancel")),
    )
}

func manageKB() tgbotapi.InlineKeyboardMarkup {
    return tgbotapi.NewInlineKeyboardMarkup(
        row(btn("✏️ Изменить текст задачи", "manage:edit_text")),
        row(btn("⏰ Изменить срок", "manage:deadline")),
        row(btn("👤 Переназначить исполнителя", "manage:reassign")),
        row(btn("🗑 Удалить задачу", "manage:delete")),
        row(btn("🔙 Назад", "menu:admin")),
    )
}

func notifyKB(s models.Settings) tgbotapi.InlineKeyboardMarkup {
    onOff := func(on bool, yes, no string) string {
        if on { return yes }
        return no
    }
    return tgbotapi.NewInlineKeyboardMarkup(
        row(btn(onOff(s.TaskCreated, "🔔", "🔕")+" Создание задач", "notify:task_created")),
        row(btn(onOff(s.TaskCompleted, "✅", "❌")+" Завершение задач", "notify:task_completed")),
        row(btn(onOff(s.TaskDeleted, "🗑", "📥")+" Удаление задач", "notify:task_deleted")),
        row(btn(onOff(s.OverdueReminder, "⏰", "⏳")+" Напоминания о просрочке", "notify:overdue_reminder")),
        row(btn("🔙 Назад", "menu:admin")),
    )
}

func usersMenuKB() tgbotapi.InlineKeyboardMarkup {
    return tgbotapi.NewInlineKeyboardMarkup(
        row(btn("➕ Добавить пользователя", "users:add")),
        row(btn("🗑 Удалить пользователя", "users:remove")),
        row(btn("📋 Список пользователей", "users:list")),
        row(btn("🔙 Назад", "menu:admin")),
    )
}

func adminsMenuKB() tgbotapi.InlineKeyboardMarkup {
    return tgbotapi.NewInlineKeyboardMarkup(
        row(btn("➕ Добавить администратора", "admins:add")),
        row(btn("🗑 Удалить администратора", "admins:remove")),
        row(btn("📋 Список администраторов", "admins:list")),
        row(btn("🔙 Назад", "menu:admin")),
    )
}

func cancelKB(data string) tgbotapi.InlineKeyboardMarkup {
    return tgbotapi.NewInlineKeyboardMarkup(row(btn("❌ Отмена", data)))
}
