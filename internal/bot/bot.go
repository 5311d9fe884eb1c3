// Package bot is the Telegram presentation layer. It parses commands,
// validates boundary input, and delegates every task operation to the
// lifecycle engine. No business logic lives here.
package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tasktracker/internal/config"
	"tasktracker/internal/model"
	"tasktracker/internal/repository"
	"tasktracker/internal/service"
)

const (
	cbCompletePrefix = "complete:"
	cbTogglePrefix   = "toggle:"
	cbDeletePrefix   = "delete:"
)

const (
	iconOpen      = "⬜"
	iconDone      = "✅"
	iconOverdue   = "⚠️"
	iconDueSoon   = "⏳"
	iconRecurring = "♻️"
)

// Bot aggregates the Telegram API with the task engine.
type Bot struct {
	api       *tgbotapi.BotAPI
	userRepo  *repository.UserRepository
	engine    *service.Engine
	reminders *service.ReminderService
	config    *config.Config
}

func New(token string, userRepo *repository.UserRepository, engine *service.Engine, reminders *service.ReminderService, cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:       api,
		userRepo:  userRepo,
		engine:    engine,
		reminders: reminders,
		config:    cfg,
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				log.Printf("[warn] callback: %v", err)
			}
		case update.Message != nil:
			if err := b.handleMessage(ctx, update.Message); err != nil {
				log.Printf("[warn] message: %v", err)
			}
		}
	}

	return ctx.Err()
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}
	if !msg.IsCommand() {
		return b.sendText(msg.Chat.ID, "I understand commands only. Try /help.")
	}

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	switch msg.Command() {
	case "start", "help":
		return b.sendText(msg.Chat.ID, helpText())
	case "new":
		return b.handleNew(ctx, msg, user)
	case "tasks":
		return b.handleTasks(ctx, msg, user)
	case "done":
		return b.handleDone(ctx, msg, user)
	case "toggle":
		return b.handleToggle(ctx, msg, user)
	case "edit":
		return b.handleEdit(ctx, msg, user)
	case "delete":
		return b.handleDelete(ctx, msg, user)
	case "remind":
		return b.handleRemind(ctx, msg, user)
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. Try /help.")
	}
}

// handleNew creates a task from a one-line form:
//
//	/new Pay rent | desc=transfer before noon | due=2025-11-30 09:00 | every=monthly | prio=high | tags=home,bills
func (b *Bot) handleNew(ctx context.Context, msg *tgbotapi.Message, user *model.User) error {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		return b.sendText(msg.Chat.ID, "Usage: /new Title | due=2025-11-30 | every=weekly | prio=high | tags=a,b")
	}

	input, err := parseTaskLine(args)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Cannot read that: %s", escape(err.Error())))
	}

	task, err := b.engine.CreateTask(ctx, user.ID, input)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("Created %s", formatTaskLine(*task, time.Now())))
}

func (b *Bot) handleTasks(ctx context.Context, msg *tgbotapi.Message, user *model.User) error {
	tasks, err := b.engine.ListTasks(ctx, user.ID)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	if len(tasks) == 0 {
		return b.sendText(msg.Chat.ID, "No tasks yet. Add one with /new.")
	}

	now := time.Now()
	var builder strings.Builder
	builder.WriteString("📋 <b>Your tasks</b>\n")
	for i, task := range tasks {
		builder.WriteString(fmt.Sprintf("%d. %s", i+1, formatTaskLine(task, now)))
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, strings.TrimSpace(builder.String()))
	reply.ParseMode = tgbotapi.ModeHTML
	if keyboard := taskListKeyboard(tasks); len(keyboard.InlineKeyboard) > 0 {
		reply.ReplyMarkup = keyboard
	}
	_, err = b.api.Send(reply)
	return err
}

func (b *Bot) handleDone(ctx context.Context, msg *tgbotapi.Message, user *model.User) error {
	task, err := b.resolveTask(ctx, user, msg.CommandArguments())
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.completeAndReport(ctx, msg.Chat.ID, user, task.ID)
}

func (b *Bot) handleToggle(ctx context.Context, msg *tgbotapi.Message, user *model.User) error {
	task, err := b.resolveTask(ctx, user, msg.CommandArguments())
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	updated, err := b.engine.ToggleCompletion(ctx, user.ID, task.ID)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	state := "open again"
	if updated.Completed {
		state = "done"
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("%s «%s» is %s.", iconDone, escape(updated.Title), state))
}

// handleEdit updates individual fields:
//
//	/edit 2 due=2025-12-01 15:00 | prio=low | title=New title
func (b *Bot) handleEdit(ctx context.Context, msg *tgbotapi.Message, user *model.User) error {
	args := strings.TrimSpace(msg.CommandArguments())
	ref, rest, found := strings.Cut(args, " ")
	if !found {
		return b.sendText(msg.Chat.ID, "Usage: /edit <number> field=value | field=value")
	}
	task, err := b.resolveTask(ctx, user, ref)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}

	upd, err := parseTaskUpdate(rest)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Cannot read that: %s", escape(err.Error())))
	}

	updated, err := b.engine.UpdateTask(ctx, user.ID, task.ID, upd)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("Updated %s", formatTaskLine(*updated, time.Now())))
}

func (b *Bot) handleDelete(ctx context.Context, msg *tgbotapi.Message, user *model.User) error {
	task, err := b.resolveTask(ctx, user, msg.CommandArguments())
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	if err := b.engine.DeleteTask(ctx, user.ID, task.ID); err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🗑 Deleted «%s».", escape(task.Title)))
}

func (b *Bot) handleRemind(ctx context.Context, msg *tgbotapi.Message, user *model.User) error {
	summary, err := b.reminders.Summary(ctx, user.ID, time.Now())
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	if summary == "" {
		return b.sendText(msg.Chat.ID, "Nothing due or overdue right now. 🎉")
	}
	return b.sendText(msg.Chat.ID, summary)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb.From == nil || cb.Message == nil {
		return nil
	}
	user, err := b.ensureUser(ctx, cb.From)
	if err != nil {
		return err
	}

	// Acknowledge first so the client stops the spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("[warn] ack callback: %v", err)
	}

	data := cb.Data
	chatID := cb.Message.Chat.ID
	switch {
	case strings.HasPrefix(data, cbCompletePrefix):
		return b.completeAndReport(ctx, chatID, user, strings.TrimPrefix(data, cbCompletePrefix))
	case strings.HasPrefix(data, cbTogglePrefix):
		_, err := b.engine.ToggleCompletion(ctx, user.ID, strings.TrimPrefix(data, cbTogglePrefix))
		if err != nil {
			return b.replyError(chatID, err)
		}
		return b.sendText(chatID, "Toggled.")
	case strings.HasPrefix(data, cbDeletePrefix):
		if err := b.engine.DeleteTask(ctx, user.ID, strings.TrimPrefix(data, cbDeletePrefix)); err != nil {
			return b.replyError(chatID, err)
		}
		return b.sendText(chatID, "🗑 Deleted.")
	default:
		return nil
	}
}

func (b *Bot) completeAndReport(ctx context.Context, chatID int64, user *model.User, taskID string) error {
	completed, successor, err := b.engine.CompleteTask(ctx, user.ID, taskID)
	if err != nil {
		return b.replyError(chatID, err)
	}
	if successor == nil {
		return b.sendText(chatID, fmt.Sprintf("%s «%s» done.", iconDone, escape(completed.Title)))
	}
	return b.sendText(chatID, fmt.Sprintf(
		"%s «%s» done. %s Next one is due %s.",
		iconDone, escape(completed.Title),
		iconRecurring, model.FormatDueDate(*successor.DueDate),
	))
}

// SendReminderSweeps pushes a reminder summary to every known user with
// something due or overdue. Called from the scheduler.
func (b *Bot) SendReminderSweeps(ctx context.Context) error {
	users, err := b.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		summary, err := b.reminders.Summary(ctx, user.ID, now)
		if err != nil {
			log.Printf("[warn] build summary for user %d: %v", user.TelegramID, err)
			continue
		}
		if summary == "" {
			continue
		}
		if err := b.sendText(user.TelegramID, summary); err != nil {
			log.Printf("[warn] send summary to %d: %v", user.TelegramID, err)
		}
	}
	return nil
}

func (b *Bot) resolveTask(ctx context.Context, user *model.User, ref string) (*model.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, &refError{"give me a task number from /tasks"}
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		// Not a position, try it as an id.
		return b.engine.GetTask(ctx, user.ID, ref)
	}
	tasks, err := b.engine.ListTasks(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if n < 1 || n > len(tasks) {
		return nil, service.ErrTaskNotFound
	}
	return &tasks[n-1], nil
}

type refError struct{ msg string }

func (e *refError) Error() string { return e.msg }

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.userRepo.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
}

func (b *Bot) replyError(chatID int64, err error) error {
	var ve *service.ValidationError
	var re *refError
	switch {
	case errors.As(err, &ve):
		return b.sendText(chatID, fmt.Sprintf("⚠️ %s.", escape(ve.Message)))
	case errors.As(err, &re):
		return b.sendText(chatID, fmt.Sprintf("⚠️ %s.", escape(re.msg)))
	case errors.Is(err, service.ErrTaskNotFound):
		return b.sendText(chatID, "Task not found. Check /tasks for current numbers.")
	default:
		return b.sendText(chatID, fmt.Sprintf("Something went wrong: %s", escape(err.Error())))
	}
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func escape(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

func helpText() string {
	return strings.TrimSpace(`📌 <b>Task tracker</b>

/new Title | desc=... | due=2025-11-30 09:00 | every=daily|weekly|monthly | prio=low|medium|high | tags=a,b
/tasks — list tasks
/done &lt;n&gt; — complete a task (recurring tasks reschedule)
/toggle &lt;n&gt; — flip done/open without rescheduling
/edit &lt;n&gt; field=value | field=value
/delete &lt;n&gt; — remove a task
/remind — what is overdue or due soon

Due dates accept a bare date (no reminder) or date with time.`)
}
