package bot

import (
    "context"
    "fmt"
    "log"
    "sort"
    "strconv"
    "strings"
    "time"

    tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

    "taskbot/internal/api"
    "taskbot/internal/models"
)

// Bot holds the long-polling Telegram frontend. All persistence goes through
// the REST backend, never directly to the database.
type Bot struct {
    API      *tgbotapi.BotAPI
    Client   *api.Client
    Sessions *Sessions
    TZ       *time.Location
}

func NewBot(botAPI *tgbotapi.BotAPI, client *api.Client, sessions *Sessions, tz *time.Location) *Bot {
    return &Bot{API: botAPI, Client: client, Sessions: sessions, TZ: tz}
}

func (b *Bot) Start() error {
    upd := tgbotapi.NewUpdate(0)
    upd.Timeout = 30
    updates := b.API.GetUpdatesChan(upd)

    b.startSessionSweep()
    b.startOverdueReminderLoop(10)

    for update := range updates {
        if update.Message != nil { go b.handleMessage(update.Message) }
        if update.CallbackQuery != nil { go b.handleCallback(update.CallbackQuery) }
    }
    return nil
}

func (b *Bot) startSessionSweep() {
    go func() {
        ticker := time.NewTicker(5 * time.Minute)
        defer ticker.Stop()
        for range ticker.C {
            b.Sessions.Sweep()
        }
    }()
}

func (b *Bot) today() time.Time { return time.Now().In(b.TZ) }

func (b *Bot) isAdmin(ctx context.Context, username string) bool {
    if username == "" { return false }
    settings, err := b.Client.Settings(ctx)
    if err != nil {
        log.Println("load settings:", err)
        return false
    }
    handle := NormalizeHandle(username)
    for _, a := range settings.Admins {
        if a == handle { return true }
    }
    return false
}

func (b *Bot) reply(chatID int64, text string) {
    if _, err := b.API.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
        log.Println("send:", err)
    }
}

func (b *Bot) replyKB(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
    msg := tgbotapi.NewMessage(chatID, text)
    msg.ReplyMarkup = kb
    if _, err := b.API.Send(msg); err != nil { log.Println("send:", err) }
}

func (b *Bot) edit(cq *tgbotapi.CallbackQuery, text string) {
    e := tgbotapi.NewEditMessageText(cq.Message.Chat.ID, cq.Message.MessageID, text)
    if _, err := b.API.Send(e); err != nil { log.Println("edit:", err) }
}

func (b *Bot) editKB(cq *tgbotapi.CallbackQuery, text string, kb tgbotapi.InlineKeyboardMarkup) {
    e := tgbotapi.NewEditMessageTextAndMarkup(cq.Message.Chat.ID, cq.Message.MessageID, text, kb)
    if _, err := b.API.Send(e); err != nil { log.Println("edit:", err) }
}

func (b *Bot) answer(cq *tgbotapi.CallbackQuery, text string) {
    b.API.Request(tgbotapi.NewCallback(cq.ID, text))
}

func (b *Bot) alert(cq *tgbotapi.CallbackQuery, text string) {
    b.API.Request(tgbotapi.NewCallbackWithAlert(cq.ID, text))
}

func isPrivate(chat *tgbotapi.Chat) bool { return chat != nil && chat.IsPrivate() }

func (b *Bot) handleMessage(m *tgbotapi.Message) {
    ctx := context.Background()

    if m.IsCommand() {
        switch m.Command() {
        case "start":
            if !isPrivate(m.Chat) {
                b.reply(m.Chat.ID, "Используйте личный чат со мной, чтобы открыть меню.")
                return
            }
            b.Sessions.Reset(m.From.ID)
            b.replyKB(m.Chat.ID,
                "Привет! Я помогаю управлять групповыми задачами.\nИспользуйте меню ниже.",
                mainMenuKB(b.isAdmin(ctx, m.From.UserName)))
        case "menu":
            if !isPrivate(m.Chat) {
                b.reply(m.Chat.ID, "Главное меню доступно только в личном чате.")
                return
            }
            b.replyKB(m.Chat.ID, "🏠 Главное меню", mainMenuKB(b.isAdmin(ctx, m.From.UserName)))
        case "mytasks":
            b.replyKB(m.Chat.ID, "📋 Мои задачи", myTasksKB())
        case "done":
            b.cmdDone(ctx, m)
        default:
            b.reply(m.Chat.ID, "Неизвестная команда.")
        }
        return
    }

    b.handleStatefulText(ctx, m)
}

func (b *Bot) cmdDone(ctx context.Context, m *tgbotapi.Message) {
    arg := strings.TrimSpace(m.CommandArguments())
    if arg == "" {
        b.reply(m.Chat.ID, "Укажите id задачи, например: /done 15")
        return
    }
    taskID, err := strconv.ParseInt(arg, 10, 64)
    if err != nil {
        b.reply(m.Chat.ID, "Некорректный id задачи")
        return
    }
    resp, err := b.Client.UpdateTaskStatus(ctx, taskID, models.StatusCompleted)
    if err != nil {
        b.reply(m.Chat.ID, taskErrText(err, "Не удалось обновить статус задачи"))
        return
    }
    if resp.Task != nil { b.notifyTaskCompleted(ctx, *resp.Task) }
    b.reply(m.Chat.ID, fmt.Sprintf("✅ Задача #%d отмечена как выполненная", taskID))
}

// handleStatefulText routes free-text replies through the active form state.
func (b *Bot) handleStatefulText(ctx context.Context, m *tgbotapi.Message) {
    sess := b.Sessions.Get(m.From.ID)
    text := strings.TrimSpace(m.Text)

    switch sess.State {
    case StateTaskText:
        if text == "" {
            b.reply(m.Chat.ID, "Описание не может быть пустым. Введите текст.")
            return
        }
        sess.Draft.TaskText = text
        sess.State = StateChoosingGroup
        settings, err := b.Client.Settings(ctx)
        if err != nil {
            log.Println("load settings:", err)
            settings = models.DefaultSettings()
        }
        b.replyKB(m.Chat.ID, "Выберите группу/чат для уведомлений", groupChooseKB(settings.GroupChatIDs))

    case StateCustomDeadline:
        sess.Draft.Deadline = text
        b.finalizeTaskCreation(ctx, m.Chat.ID, m.From.ID, m.From.UserName)

    case StateManageText:
        taskID := sess.SelectedTask
        b.Sessions.Reset(m.From.ID)
        if taskID == 0 {
            b.reply(m.Chat.ID, "Задача не выбрана")
            return
        }
        if _, err := b.Client.UpdateGroup(ctx, taskID, models.GroupUpdate{TaskText: &text}); err != nil {
            b.reply(m.Chat.ID, taskErrText(err, "Не удалось обновить группу задачи"))
            return
        }
        b.reply(m.Chat.ID, "Текст задачи обновлен")

    case StateManageDeadline:
        taskID := sess.SelectedTask
        b.Sessions.Reset(m.From.ID)
        if taskID == 0 {
            b.reply(m.Chat.ID, "Задача не выбрана")
            return
        }
        if _, err := b.Client.UpdateGroup(ctx, taskID, models.GroupUpdate{Deadline: &text}); err != nil {
            b.reply(m.Chat.ID, taskErrText(err, "Не удалось обновить группу задачи"))
            return
        }
        b.reply(m.Chat.ID, "Срок обновлен")

    case StateAddUserUsername:
        sess.NewUser.Username = NormalizeHandle(text)
        sess.State = StateAddUserFullName
        b.reply(m.Chat.ID, "Введите полное имя пользователя")

    case StateAddUserFullName:
        sess.NewUser.FullName = text
        sess.State = StateAddUserGroups
        b.reply(m.Chat.ID, "Введите группы (через запятую)")

    case StateAddUserGroups:
        var groups []string
        for _, g := range strings.Split(text, ",") {
            if g = strings.TrimSpace(g); g != "" { groups = append(groups, g) }
        }
        user := models.User{Username: sess.NewUser.Username, FullName: sess.NewUser.FullName, Groups: groups}
        b.Sessions.Reset(m.From.ID)
        if err := b.Client.UpsertUser(ctx, user); err != nil {
            b.reply(m.Chat.ID, "Не удалось добавить пользователя")
            return
        }
        b.replyKB(m.Chat.ID, "Пользователь добавлен", adminPanelKB())

    case StateAddAdminUsername:
        handle := NormalizeHandle(text)
        b.Sessions.Reset(m.From.ID)
        settings, err := b.Client.Settings(ctx)
        if err != nil {
            b.reply(m.Chat.ID, "Не удалось загрузить настройки")
            return
        }
        exists := false
        for _, a := range settings.Admins {
            if a == handle { exists = true; break }
        }
        if !exists { settings.Admins = append(settings.Admins, handle) }
        if err := b.Client.SaveSettings(ctx, settings); err != nil {
            b.reply(m.Chat.ID, "Не удалось сохранить настройки")
            return
        }
        b.replyKB(m.Chat.ID, "Администратор добавлен", adminPanelKB())
    }
}

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
    ctx := context.Background()
    data := cq.Data

    switch {
    case data == "noop":
        b.answer(cq, "")

    case data == "menu:main":
        b.editKB(cq, "🏠 Главное меню", mainMenuKB(b.isAdmin(ctx, cq.From.UserName)))
        b.answer(cq, "")

    case data == "menu:mytasks":
        b.editKB(cq, "📋 Мои задачи", myTasksKB())
        b.answer(cq, "")

    case data == "menu:admin":
        if !b.isAdmin(ctx, cq.From.UserName) {
            b.alert(cq, "Недостаточно прав")
            return
        }
        b.editKB(cq, "👑 Админ панель", adminPanelKB())
        b.answer(cq, "")

    case strings.HasPrefix(data, "my:"):
        b.cbMyTasks(ctx, cq)

    case strings.HasPrefix(data, "task:"):
        b.cbTaskAction(ctx, cq)

    case strings.HasPrefix(data, "admin_task:"):
        b.cbAdminTaskAction(ctx, cq)

    case strings.HasPrefix(data, "admin_page:"):
        b.cbAdminPage(ctx, cq)

    case strings.HasPrefix(data, "admin:"):
        b.cbAdmin(ctx, cq)

    case strings.HasPrefix(data, "filter:"):
        sess := b.Sessions.Get(cq.From.ID)
        sess.Filter = strings.TrimPrefix(data, "filter:")
        sess.Page = 0
        b.renderTasksPage(ctx, cq)

    case strings.HasPrefix(data, "exec:"):
        b.cbExecSelection(ctx, cq)

    case strings.HasPrefix(data, "group:view:"):
        b.cbViewGroup(ctx, cq)

    case strings.HasPrefix(data, "group:"):
        b.cbChooseGroup(cq)

    case strings.HasPrefix(data, "deadline_update:"):
        b.cbDeadlineUpdate(ctx, cq)

    case strings.HasPrefix(data, "deadline:"):
        b.cbDeadlineChoice(ctx, cq)

    case strings.HasPrefix(data, "manage:"):
        b.cbManageAction(ctx, cq)

    case strings.HasPrefix(data, "select:"):
        b.cbSelectTask(ctx, cq)

    case strings.HasPrefix(data, "notify:"):
        b.cbNotifyToggle(ctx, cq)

    case strings.HasPrefix(data, "users:remove:"):
        b.cbRemoveUser(ctx, cq)

    case strings.HasPrefix(data, "users:"):
        b.cbUsersAction(ctx, cq)

    case strings.HasPrefix(data, "admins:remove:"):
        b.cbRemoveAdmin(ctx, cq)

    case strings.HasPrefix(data, "admins:"):
        b.cbAdminsAction(ctx, cq)
    }
}

func (b *Bot) cbMyTasks(ctx context.Context, cq *tgbotapi.CallbackQuery) {
    if cq.From.UserName == "" {
        b.alert(cq, "Username не найден")
        return
    }
    handle := NormalizeHandle(cq.From.UserName)
    tasks, err := b.Client.AllTasks(ctx)
    if err != nil {
        b.alert(cq, "Не удалось получить задачи")
        return
    }

    switch cq.Data {
    case "my:active":
        var mine []models.Task
        for _, t := range tasks {
            if t.AssignedTo == handle && t.Status == models.StatusActive { mine = append(mine, t) }
        }
        if len(mine) == 0 {
            b.editKB(cq, "Нет активных задач", myTasksKB())
            b.answer(cq, "")
            return
        }
        for _, t := range mine {
            kb := tgbotapi.NewInlineKeyboardMarkup(taskButtons(t, true))
            b.replyKB(cq.Message.Chat.ID, formatTaskCard(t, false), kb)
        }
        b.answer(cq, "")

    case "my:completed":
        var mine []models.Task
        for _, t := range tasks {
            if t.AssignedTo == handle && t.Status == models.StatusCompleted { mine = append(mine, t) }
        }
        sort.Slice(mine, func(i, j int) bool { return mine[i].CompletedAt > mine[j].CompletedAt })
        if len(mine) > 5 { mine = mine[:5] }
        if len(mine) == 0 {
            b.editKB(cq, "Нет выполненных задач", myTasksKB())
            b.answer(cq, "")
            return
        }
        for _, t := range mine {
            kb := tgbotapi.NewInlineKeyboardMarkup(taskButtons(t, true))
            b.replyKB(cq.Message.Chat.ID, formatTaskCard(t, true), kb)
        }
        b.answer(cq, "")
    }
}

func (b *Bot) cbTaskAction(ctx context.Context, cq *tgbotapi.CallbackQuery) {
    parts := strings.SplitN(cq.Data, ":", 3)
    if len(parts) != 3 { return }
    action := parts[1]
    taskID, _ := strconv.ParseInt(parts[2], 10, 64)

    switch action {
    case "complete":
        resp, err := b.Client.UpdateTaskStatus(ctx, taskID, models.StatusCompleted)
        if err != nil {
            b.alert(cq, taskErrText(err, "Не удалось обновить статус задачи"))
            return
        }
        if resp.Task != nil { b.notifyTaskCompleted(ctx, *resp.Task) }
        b.answer(cq, "Задача завершена")
    case "reopen":
        if _, err := b.Client.UpdateTaskStatus(ctx, taskID, models.StatusActive); err != nil {
            b.alert(cq, taskErrText(err, "Не удалось обновить статус задачи"))
            return
        }
        b.answer(cq, "Задача открыта заново")
    case "delete":
        if err := b.deleteTaskNotifying(ctx, taskID); err != nil {
            b.alert(cq, taskErrText(err, "Не удалось удалить задачу"))
            return
        }
        b.answer(cq, "Задача удалена")
    default:
        b.answer(cq, "Неизвестное действие")
        return
    }
    b.edit(cq, "Обновлено")
}

func (b *Bot) cbAdminTaskAction(ctx context.Context, cq *tgbotapi.CallbackQuery) {
    parts := strings.SplitN(cq.Data, ":", 3)
    if len(parts) != 3 { return }
    action := parts[1]
    taskID, _ := strconv.ParseInt(parts[2], 10, 64)

    switch action {
    case "complete":
        resp, err := b.Client.UpdateTaskStatus(ctx, taskID, models.StatusCompleted)
        if err != nil {
            b.alert(cq, taskErrText(err, "Не удалось обновить статус задачи"))
            return
        }
        if resp.Task != nil { b.notifyTaskCompleted(ctx, *resp.Task) }
    case "reopen":
        if _, err := b.Client.UpdateTaskStatus(ctx, taskID, models.StatusActive); err != nil {
            b.alert(cq, taskErrText(err, "Не удалось обновить статус задачи"))
            return
        }
    case "deadline":
        sess := b.Sessions.Get(cq.From.ID)
        sess.SelectedTask = taskID
        b.replyKB(cq.Message.Chat.ID, "Выберите новый срок", deadlineUpdateKB(taskID))
        b.answer(cq, "")
        return
    case "reassign":
        b.alert(cq, "Для переназначения создайте копии задачи на новых исполнителей")
        return
    case "delete":
        if err := b.deleteTaskNotifying(ctx, taskID); err != nil {
            b.alert(cq, taskErrText(err, "Не удалось удалить задачу"))
            return
        }
    default:
        b.answer(cq, "Неизвестное действие")
        return
    }
    b.answer(cq, "Готово")
}

func (b *Bot) cbAdmin(ctx context.Context, cq *tgbotapi.CallbackQuery) {
    switch strings.TrimPrefix(cq.Data, "admin:") {
    case "new":
        if !b.isAdmin(ctx, cq.From.UserName) {
            b.alert(cq, "Недостаточно прав")
            return
        }
        b.Sessions.Reset(cq.From.ID)
        sess := b.Sessions.Get(cq.From.ID)
        sess.State = StateChoosingExecs
        users, err := b.Client.AllUsers(ctx)
        if err != nil {
            b.alert(cq, "Не удалось получить пользователей")
            return
        }
        b.editKB(cq, "Выберите исполнителей", executorPickerKB(users))
        b.answer(cq, "")

    case "all":
        sess := b.Sessions.Get(cq.From.ID)
        sess.Filter = "all"
        sess.Page = 0
        b.renderTasksPage(ctx, cq)

    case "overdue":
        tasks, err := b.Client.AllTasks(ctx)
        if err != nil {
            b.alert(cq, "Не удалось получить задачи")
            return
        }
        var overdue []models.Task
        today := b.today()
        for _, t := range tasks {
            if IsOverdue(t, today) { overdue = append(overdue, t) }
        }
        if len(overdue) == 0 {
            b.editKB(cq, "Просроченных задач нет", adminPanelKB())
            b.answer(cq, "")
            return
        }
        b.sendTaskCards(cq.Message.Chat.ID, overdue)
        b.answer(cq, "")

    case "by_user":
        b.cbByUser(ctx, cq)

    case "by_group":
        b.cbByGroup(ctx, cq)

    case "manage":
        b.editKB(cq, "Управление задачами", manageKB())
        b.answer(cq, "")

    case "filters":
        b.editKB(cq, "Выберите фильтр", filtersKB())
        b.answer(cq, "")

    case "notify":
        settings, err := b.Client.Settings(ctx)
        if err != nil {
            b.alert(cq, "Не удалось загрузить настройки")
            return
        }
        b.editKB(cq, "Настройки уведомлений", notifyKB(settings))
        b.answer(cq, "")

    case "users":
        b.editKB(cq, "Управление пользователями", usersMenuKB())
        b.answer(cq, "")

    case "admins":
        b.editKB(cq, "Управление администраторами", adminsMenuKB())
        b.answer(cq, "")

    case "cancel":
        b.Sessions.Reset(cq.From.ID)
        b.editKB(cq, "Действие отменено", adminPanelKB())
        b.answer(cq, "")
    }
}

func (b *Bot) cbAdminPage(ctx context.Context, cq *tgbotapi.CallbackQuery) {
    sess := b.Sessions.Get(cq.From.ID)
    switch strings.TrimPrefix(cq.Data, "admin_page:") {
    case "next":
        sess.Page++
    case "prev":
        if sess.Page > 0 { sess.Page-- }
    }
    b.renderTasksPage(ctx, cq)
}

// renderTasksPage shows one page of the admin task list: numbered lines on
// top, then per-task action rows, then navigation.
func (b *Bot) renderTasksPage(ctx context.Context, cq *tgbotapi.CallbackQuery) {
    tasks, err := b.Client.AllTasks(ctx)
    if err != nil {
        b.alert(cq, "Не удалось получить задачи")
        return
    }
    sess := b.Sessions.Get(cq.From.ID)
    filtered := Filter(tasks, sess.Filter, b.today())
    pageTasks, hasPrev, hasNext := Paginate(filtered, sess.Page)
    if len(pageTasks) == 0 {
        b.editKB(cq, "Нет задач по выбранному фильтру", adminPanelKB())
        b.answer(cq, "")
        return
    }

    lines := []string{
        fmt.Sprintf("Страница %d", sess.Page+1),
        "Фильтр: " + sess.Filter,
    }
    for i, t := range pageTasks {
        lines = append(lines, fmt.Sprintf("%d. %s", i+1+sess.Page*TasksPerPage, formatTaskLine(t)))
    }

    var rows [][]tgbotapi.InlineKeyboardButton
    if hasPrev { rows = append(rows, row(btn("◀️ Предыдущая", "admin_page:prev"))) }
    if hasNext { rows = append(rows, row(btn("Следующая ▶️", "admin_page:next"))) }
    rows = append(rows, row(btn("🎛 Фильтры", "admin:filters")))
    for _, t := range pageTasks {
        rows = append(rows, row(btn(fmt.Sprintf("# %d", t.ID), "noop")))
        rows = append(rows, taskButtons(t, false))
    }
    rows = append(rows, row(btn("❌ Отмена", "admin:cancel")))

    b.editKB(cq, strings.Join(lines, "\n"), tgbotapi.NewInlineKeyboardMarkup(rows...))
    b.answer(cq, "")
}

func (b *Bot) sendTaskCards(chatID int64, tasks []models.Task) {
    for _, t := range tasks {
        var rows [][]tgbotapi.InlineKeyboardButton
        for _, button := range taskButtons(t, false) {
            rows = append(rows, row(button))
        }
        b.replyKB(chatID, formatTaskLine(t), tgbotapi.NewInlineKeyboardMarkup(rows...))
    }
}

func (b *Bot) cbByUser(ctx context.Context, cq *tgbotapi.CallbackQuery) {
    tasks, err := b.Client.AllTasks(ctx)
    if err != nil {
        b.alert(cq, "Не удалось получить задачи")
        return
    }
    users, err := b.Client.AllUsers(ctx)
    if err != nil {
        b.alert(cq, "Не удалось получить пользователей")
        return
    }

    today := b.today()
    var lines []string
    for _, u := range users {
        handle := NormalizeHandle(u.Username)
        var userTasks []models.Task
        for _, t := range tasks {
            if t.AssignedTo == handle { userTasks = append(userTasks, t) }
        }
        active, completed := 0, 0
        for _, t := range userTasks {
            if t.Status == models.StatusActive { active++ } else { completed++ }
        }
        lines = append(lines,
            fmt.Sprintf("%s (%s)", u.FullName, handle),
            fmt.Sprintf("Активных: %d", active),
            fmt.Sprintf("Выполнено: %d", completed),
            "Активные задачи:")
        for _, t := range userTasks {
            if t.Status != models.StatusActive { continue }
            flag := ""
            if IsOverdue(t, today) { flag = " 🔴" }
            lines = append(lines, fmt.Sprintf("- %s (%s)%s", t.TaskText, t.Deadline, flag))
        }
        lines = append(lines, "")
    }
    text := strings.Join(lines, "\n")
    if text == "" { text = "Пользователи не найдены" }
    b.editKB(cq, text, adminPanelKB())
    b.answer(cq, "")
}

func (b *Bot) cbByGroup(ctx context.Context, cq *tgbotapi.CallbackQuery) {
    tasks, err := b.Client.AllTasks(ctx)
    if err != nil {
        b.alert(cq, "Не удалось получить задачи")
        return
    }

    today := b.today()
    byGroup := map[string][]models.Task{}
    var order []string
    for _, t := range tasks {
        if _, ok := byGroup[t.GroupID]; !ok { order = append(order, t.GroupID) }
        byGroup[t.GroupID] = append(byGroup[t.GroupID], t)
    }

    lines := []string{"Сводка по группам"}
    var rows [][]tgbotapi.InlineKeyboardButton
    for _, groupID := range order {
        active, completed, overdue := 0, 0, 0
        for _, t := range byGroup[groupID] {
            switch t.Status {
            case models.StatusActive:
                active++
            case models.StatusCompleted:
                completed++
            }
            if IsOverdue(t, today) { overdue++ }
        }
        lines = append(lines, fmt.Sprintf("Группа %s: 🟡 %d / 🟢 %d / 🔴 %d", groupID, active, completed, overdue))
        rows = append(rows, row(btn("Группа "+groupID, "group:view:"+groupID)))
    }
    rows = append(rows, row(btn("🏠 Главное меню", "menu:main")))
    b.editKB(cq, strings.Join(lines, "\n"), tgbotapi.NewInlineKeyboardMarkup(rows...))
    b.answer(cq, "")
}

func (b *Bot) cbViewGroup(ctx context.Context, cq *tgbotapi.CallbackQuery) {
    groupID := strings.TrimPrefix(cq.Data, "group:view:")
    tasks, err := b.Client.AllTasks(ctx)
    if err != nil {
        b.alert(cq, "Не удалось получить задачи")
        return
    }
    var groupTasks []models.Task
    for _, t := range tasks {
        if t.GroupID == groupID { groupTasks = append(groupTasks, t) }
    }
    if len(groupTasks) == 0 {
        b.alert(cq, "Задачи не найдены")
        return
    }
    b.edit(cq, "Задачи группы "+groupID)
    b.sendTaskCards(cq.Message.Chat.ID, groupTasks)
    b.answer(cq, "")
}

func (b *Bot) cbExecSelection(ctx context.Context, cq *tgbotapi.CallbackQuery) {
    parts := strings.SplitN(cq.Data, ":", 3)
    action := parts[1]
    sess := b.Sessions.Get(cq.From.ID)

    switch action {
    case "cancel":
        b.Sessions.Reset(cq.From.ID)
        b.editKB(cq, "Создание задачи отменено", adminPanelKB())
        b.answer(cq, "")

    case "toggle":
        if len(parts) != 3 { return }
        user := NormalizeHandle(parts[2])
        found := false
        for i, a := range sess.Draft.Assignees {
            if a == user {
                sess.Draft.Assignees = append(sess.Draft.Assignees[:i], sess.Draft.Assignees[i+1:]...)
                found = true
                break
            }
        }
        if !found { sess.Draft.Assignees = append(sess.Draft.Assignees, user) }
        picked := "никто"
        if len(sess.Draft.Assignees) > 0 { picked = strings.Join(sess.Draft.Assignees, ", ") }
        b.answer(cq, "Выбрано: "+picked)

    case "done":
        if len(sess.Draft.Assignees) == 0 {
            b.alert(cq, "Нужно выбрать хотя бы одного исполнителя")
            return
        }
        sess.State = StateTaskText
        b.editKB(cq, "Введите описание задачи сообщением", cancelKB("exec:cancel"))
        b.answer(cq, "")
    }
}

func (b *Bot) cbChooseGroup(cq *tgbotapi.CallbackQuery) {
    sess := b.Sessions.Get(cq.From.ID)
    if cq.Data == "group:none" {
        sess.Draft.GroupID = ""
    } else {
        sess.Draft.GroupID = strings.TrimPrefix(cq.Data, "group:choose:")
    }
    sess.State = StateChoosingDeadline
    b.editKB(cq, "Выберите срок", deadlineChoiceKB())
    b.answer(cq, "")
}

func (b *Bot) cbDeadlineChoice(ctx context.Context, cq *tgbotapi.CallbackQuery) {
    choice := strings.TrimPrefix(cq.Data, "deadline:")
    sess := b.Sessions.Get(cq.From.ID)
    if choice == "custom" {
        sess.State = StateCustomDeadline
        b.editKB(cq, "Введите дату в формате ДД.ММ.ГГГГ", cancelKB("exec:cancel"))
        b.answer(cq, "")
        return
    }
    sess.Draft.Deadline = DeadlineFromChoice(choice, b.today())
    b.finalizeTaskCreation(ctx, cq.Message.Chat.ID, cq.From.ID, cq.From.UserName)
    b.answer(cq, "")
}

func (b *Bot) finalizeTaskCreation(ctx context.Context, chatID, userID int64, username string) {
    sess := b.Sessions.Get(userID)
    draft := sess.Draft
    b.Sessions.Reset(userID)

    assignedBy := "@web_user"
    if username != "" { assignedBy = NormalizeHandle(username) }

    resp, err := b.Client.CreateTaskGroup(ctx, models.TaskRequest{
        TaskText:   draft.TaskText,
        Deadline:   draft.Deadline,
        GroupID:    draft.GroupID,
        AssignedTo: draft.Assignees,
        AssignedBy: assignedBy,
    })
    if err != nil {
        b.reply(chatID, "Не удалось создать задачу")
        return
    }

    var executors []string
    for _, t := range resp.Tasks {
        executors = append(executors, t.AssignedTo)
    }
    b.replyKB(chatID, fmt.Sprintf(
        "Задача создана!\ngroup_task_id: %d\nИсполнители: %s\nСрок: %s",
        resp.GroupTaskID, strings.Join(executors, ", "), draft.Deadline), adminPanelKB())

    b.notifyTaskCreated(ctx, draft, resp.GroupTaskID)
}

func (b *Bot) cbDeadlineUpdate(ctx context.Context, cq *tgbotapi.CallbackQuery) {
    parts := strings.SplitN(cq.Data, ":", 3)
    if len(parts) != 3 { return }
    taskID, _ := strconv.ParseInt(parts[1], 10, 64)
    choice := parts[2]

    if choice == "custom" {
        sess := b.Sessions.Get(cq.From.ID)
        sess.SelectedTask = taskID
        sess.State = StateManageDeadline
        b.edit(cq, "Отправьте новую дату сообщением (ДД.ММ.ГГГГ)")
        b.answer(cq, "")
        return
    }

    deadline := DeadlineFromChoice(choice, b.today())
    if _, err := b.Client.UpdateGroup(ctx, taskID, models.GroupUpdate{Deadline: &deadline}); err != nil {
        b.alert(cq, taskErrText(err, "Не удалось обновить группу задачи"))
        return
    }
    b.edit(cq, "Срок обновлен")
    b.answer(cq, "")
}

func (b *Bot) cbManageAction(ctx context.Context, cq *tgbotapi.CallbackQuery) {
    action := strings.TrimPrefix(cq.Data, "manage:")
    tasks, err := b.Client.AllTasks(ctx)
    if err != nil {
        b.alert(cq, "Не удалось получить задачи")
        return
    }
    lines := []string{"Выберите задачу:"}
    var rows [][]tgbotapi.InlineKeyboardButton
    for i, t := range tasks {
        lines = append(lines, fmt.Sprintf("%d. #%d %s", i+1, t.ID, t.TaskText))
        rows = append(rows, row(btn(strconv.Itoa(i+1), fmt.Sprintf("select:%s:%d", action, t.ID))))
    }
    rows = append(rows, row(btn("❌ Отмена", "admin:cancel")))
    b.editKB(cq, strings.Join(lines, "\n"), tgbotapi.NewInlineKeyboardMarkup(rows...))
    b.answer(cq, "")
}

func (b *Bot) cbSelectTask(ctx context.Context, cq *tgbotapi.CallbackQuery) {
    parts := strings.SplitN(cq.Data, ":", 3)
    if len(parts) != 3 { return }
    action := parts[1]
    taskID, _ := strconv.ParseInt(parts[2], 10, 64)
    sess := b.Sessions.Get(cq.From.ID)

    switch action {
    case "delete":
        if err := b.deleteTaskNotifying(ctx, taskID); err != nil {
            b.alert(cq, taskErrText(err, "Не удалось удалить задачу"))
            return
        }
        b.edit(cq, "Задача удалена")
    case "edit_text":
        sess.SelectedTask = taskID
        sess.State = StateManageText
        b.edit(cq, "Введите новый текст задачи")
        b.answer(cq, "")
    case "deadline":
        sess.SelectedTask = taskID
        b.editKB(cq, "Выберите новый срок", deadlineUpdateKB(taskID))
        b.answer(cq, "")
    case "reassign":
        b.alert(cq, "Для переназначения добавьте новых исполнителей через API группы")
    }
}

func (b *Bot) cbNotifyToggle(ctx context.Context, cq *tgbotapi.CallbackQuery) {
    key := strings.TrimPrefix(cq.Data, "notify:")
    settings, err := b.Client.Settings(ctx)
    if err != nil {
        b.alert(cq, "Не удалось загрузить настройки")
        return
    }
    switch key {
    case "task_created":
        settings.TaskCreated = !settings.TaskCreated
    case "task_completed":
        settings.TaskCompleted = !settings.TaskCompleted
    case "task_deleted":
        settings.TaskDeleted = !settings.TaskDeleted
    case "overdue_reminder":
        settings.OverdueReminder = !settings.OverdueReminder
    }
    if err := b.Client.SaveSettings(ctx, settings); err != nil {
        b.alert(cq, "Не удалось сохранить настройки")
        return
    }
    b.editKB(cq, "Настройки уведомлений", notifyKB(settings))
    b.answer(cq, "")
}

func (b *Bot) cbUsersAction(ctx context.Context, cq *tgbotapi.CallbackQuery) {
    switch strings.TrimPrefix(cq.Data, "users:") {
    case "list":
        users, err := b.Client.AllUsers(ctx)
        if err != nil {
            b.alert(cq, "Не удалось получить пользователей")
            return
        }
        var lines []string
        for _, u := range users {
            lines = append(lines, fmt.Sprintf("%s (%s)", u.FullName, u.Username))
        }
        text := strings.Join(lines, "\n")
        if text == "" { text = "Нет пользователей" }
        b.edit(cq, text)
        b.answer(cq, "")

    case "add":
        sess := b.Sessions.Get(cq.From.ID)
        sess.State = StateAddUserUsername
        b.edit(cq, "Введите @username нового пользователя")
        b.answer(cq, "")

    case "remove":
        users, err := b.Client.AllUsers(ctx)
        if err != nil {
            b.alert(cq, "Не удалось получить пользователей")
            return
        }
        var rows [][]tgbotapi.InlineKeyboardButton
        for _, u := range users {
            rows = append(rows, row(btn(u.Username, "users:remove:"+u.Username)))
        }
        rows = append(rows, row(btn("❌ Отмена", "menu:admin")))
        b.editKB(cq, "Выберите пользователя для удаления", tgbotapi.NewInlineKeyboardMarkup(rows...))
        b.answer(cq, "")
    }
}

func (b *Bot) cbRemoveUser(ctx context.Context, cq *tgbotapi.CallbackQuery) {
    username := strings.TrimPrefix(cq.Data, "users:remove:")
    if err := b.Client.DeleteUser(ctx, username); err != nil {
        b.alert(cq, taskErrText(err, "Не удалось удалить пользователя"))
        return
    }
    b.edit(cq, "Пользователь удален")
    b.answer(cq, "")
}

func (b *Bot) cbAdminsAction(ctx context.Context, cq *tgbotapi.CallbackQuery) {
    switch strings.TrimPrefix(cq.Data, "admins:") {
    case "list":
        settings, err := b.Client.Settings(ctx)
        if err != nil {
            b.alert(cq, "Не удалось загрузить настройки")
            return
        }
        text := strings.Join(settings.Admins, "\n")
        if text == "" { text = "Нет администраторов" }
        b.edit(cq, text)
        b.answer(cq, "")

    case "add":
        sess := b.Sessions.Get(cq.From.ID)
        sess.State = StateAddAdminUsername
        b.edit(cq, "Введите @username администратора")
        b.answer(cq, "")

    case "remove":
        settings, err := b.Client.Settings(ctx)
        if err != nil {
            b.alert(cq, "Не удалось загрузить настройки")
            return
        }
        var rows [][]tgbotapi.InlineKeyboardButton
        for _, a := range settings.Admins {
            rows = append(rows, row(btn(a, "admins:remove:"+a)))
        }
        rows = append(rows, row(btn("❌ Отмена", "menu:admin")))
        b.editKB(cq, "Выберите администратора для удаления", tgbotapi.NewInlineKeyboardMarkup(rows...))
        b.answer(cq, "")
    }
}

func (b *Bot) cbRemoveAdmin(ctx context.Context, cq *tgbotapi.CallbackQuery) {
    username := strings.TrimPrefix(cq.Data, "admins:remove:")
    settings, err := b.Client.Settings(ctx)
    if err != nil {
        b.alert(cq, "Не удалось загрузить настройки")
        return
    }
    kept := settings.Admins[:0]
    for _, a := range settings.Admins {
        if a != username { kept = append(kept, a) }
    }
    settings.Admins = kept
    if err := b.Client.SaveSettings(ctx, settings); err != nil {
        b.alert(cq, "Не удалось сохранить настройки")
        return
    }
    b.edit(cq, "Администратор удален")
    b.answer(cq, "")
}

// deleteTaskNotifying fetches the task before removal so the group chat
// notification can still name it.
func (b *Bot) deleteTaskNotifying(ctx context.Context, taskID int64) error {
    var deleted *models.Task
    if tasks, err := b.Client.AllTasks(ctx); err == nil {
        for i := range tasks {
            if tasks[i].ID == taskID { deleted = &tasks[i]; break }
        }
    }
    if _, err := b.Client.DeleteTask(ctx, taskID); err != nil {
        return err
    }
    if deleted != nil { b.notifyTaskDeleted(ctx, *deleted) }
    return nil
}

// taskErrText keeps backend "not found" details in the user-facing message
// and hides everything else behind a generic one.
func taskErrText(err error, fallback string) string {
    if api.IsNotFound(err) {
        return "Задача не найдена"
    }
    return fallback
}
