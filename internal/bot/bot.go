package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"planner/internal/model"
	"planner/internal/service"
	"planner/internal/store"
)

const (
	cbTogglePrefix  = "toggle:"
	cbDeletePrefix  = "delete:"
	cbConfirmPrefix = "confirm:"
	cbCancelPrefix  = "cancel:"
)

const (
	btnConfirm = "✅ Delete"
	btnCancel  = "↩️ Keep"
)

// sender is the part of the Telegram API the bot writes to.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type itemRef struct {
	kind string
	id   int
}

// Bot is a chat front-end over the planner.
type Bot struct {
	api     *tgbotapi.BotAPI
	out     sender
	planner *service.Planner
	agenda  *service.AgendaService
	clock   func() time.Time

	mu            sync.Mutex
	chats         map[int64]struct{}
	confirmations map[int64]itemRef
}

func New(token string, planner *service.Planner, agenda *service.AgendaService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	b := newBot(api, planner, agenda)
	b.api = api
	return b, nil
}

func newBot(out sender, planner *service.Planner, agenda *service.AgendaService) *Bot {
	return &Bot{
		out:           out,
		planner:       planner,
		agenda:        agenda,
		clock:         time.Now,
		chats:         make(map[int64]struct{}),
		confirmations: make(map[int64]itemRef),
	}
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
				log.Printf("handle callback: %v", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				log.Printf("handle message: %v", err)
			}
		}
	}

	return nil
}

// SendDailyReports refreshes the planner and sends the agenda to every chat
// that has talked to the bot.
func (b *Bot) SendDailyReports(ctx context.Context) error {
	if err := b.planner.Refresh(ctx); err != nil {
		log.Printf("refresh before report: %v", err)
	}
	now := b.clock()
	text := b.agenda.Summary(now)
	for _, chatID := range b.subscribers() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := b.sendText(chatID, escape(text)); err != nil {
			log.Printf("send summary to %d: %v", chatID, err)
		}
	}
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}
	b.subscribe(msg.Chat.ID)

	if !msg.IsCommand() {
		return b.sendText(msg.Chat.ID, "I only understand commands. Try /help.")
	}

	log.Printf("[info] command from %d: /%s %s", msg.From.ID, msg.Command(), msg.CommandArguments())
	return b.handleCommand(ctx, msg)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start", "help":
		return b.handleHelp(msg)
	case "today":
		return b.refreshAndSend(ctx, chatID, func(now time.Time) string { return b.agenda.Today(now) }, service.ViewToday)
	case "week":
		return b.refreshAndSend(ctx, chatID, func(now time.Time) string { return b.agenda.Week(now) }, service.ViewWeek)
	case "month":
		b.planner.CurrentMonth()
		return b.refreshAndSend(ctx, chatID, func(now time.Time) string { return b.agenda.Month(now) }, service.ViewMonth)
	case "prev":
		b.planner.PrevMonth()
		return b.sendAgenda(chatID, b.agenda.Month(b.clock()), service.ViewMonth)
	case "next":
		b.planner.NextMonth()
		return b.sendAgenda(chatID, b.agenda.Month(b.clock()), service.ViewMonth)
	case "goals":
		return b.refreshAndSend(ctx, chatID, func(time.Time) string { return b.agenda.Goals() }, "")
	case "notes":
		return b.refreshAndSend(ctx, chatID, func(time.Time) string { return b.agenda.Notes() }, "")
	case "report":
		return b.refreshAndSend(ctx, chatID, b.agenda.Summary, "")
	case "done":
		ref, err := parseItemArgs(msg.CommandArguments())
		if err != nil {
			return b.sendText(chatID, escape(err.Error()))
		}
		return b.toggle(ctx, chatID, ref)
	case "delete":
		ref, err := parseItemArgs(msg.CommandArguments())
		if err != nil {
			return b.sendText(chatID, escape(err.Error()))
		}
		return b.askDeleteConfirmation(chatID, msg.From.ID, ref)
	default:
		return b.sendText(chatID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "👋 <b>Planner</b>\n" +
		"• /today — tasks due today\n" +
		"• /week — this week\n" +
		"• /month — this month, goals and notes\n" +
		"• /prev, /next — page the displayed month\n" +
		"• /goals, /notes — the month's goals and notes\n" +
		"• /done &lt;kind&gt; &lt;id&gt; — toggle completion\n" +
		"• /delete &lt;kind&gt; &lt;id&gt; — delete after confirmation\n" +
		"• /report — the daily agenda\n" +
		"Kinds: " + strings.Join(service.KindNames, ", ")
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) refreshAndSend(ctx context.Context, chatID int64, render func(time.Time) string, view string) error {
	if err := b.planner.Refresh(ctx); err != nil {
		log.Printf("refresh planner: %v", err)
		return b.sendText(chatID, "⚠️ The planner is unreachable right now, showing the last known state.\n\n"+escape(render(b.clock())))
	}
	return b.sendAgenda(chatID, render(b.clock()), view)
}

// sendAgenda sends text with toggle and delete buttons for the tasks of view.
func (b *Bot) sendAgenda(chatID int64, text, view string) error {
	if view == "" {
		return b.sendText(chatID, escape(text))
	}
	tasks, _, _ := b.planner.Tasks.Store().View(view)
	shown, _ := service.Page(tasks, service.ItemsPerPage)
	if len(shown) == 0 {
		return b.sendText(chatID, escape(text))
	}
	return b.sendWithReplyMarkup(chatID, escape(text), taskKeyboard(shown))
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}
	if _, err := b.out.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("callback ack: %v", err)
	}

	chatID := cb.Message.Chat.ID
	data := cb.Data
	log.Printf("[info] callback user=%d data=%s", cb.From.ID, data)

	switch {
	case strings.HasPrefix(data, cbTogglePrefix):
		ref, err := parseCallback(data, cbTogglePrefix)
		if err != nil {
			return nil
		}
		return b.toggle(ctx, chatID, ref)
	case strings.HasPrefix(data, cbDeletePrefix):
		ref, err := parseCallback(data, cbDeletePrefix)
		if err != nil {
			return nil
		}
		return b.askDeleteConfirmation(chatID, cb.From.ID, ref)
	case strings.HasPrefix(data, cbConfirmPrefix):
		ref, err := parseCallback(data, cbConfirmPrefix)
		if err != nil {
			return nil
		}
		pending, ok := b.takeConfirmation(cb.From.ID)
		if !ok || pending != ref {
			return b.sendText(chatID, "Nothing to confirm.")
		}
		return b.delete(ctx, chatID, ref)
	case strings.HasPrefix(data, cbCancelPrefix):
		b.takeConfirmation(cb.From.ID)
		return b.sendText(chatID, "Kept.")
	default:
		return nil
	}
}

func (b *Bot) toggle(ctx context.Context, chatID int64, ref itemRef) error {
	if _, ok := b.planner.Label(ref.kind, ref.id); !ok {
		if err := b.planner.Refresh(ctx); err != nil {
			log.Printf("refresh planner: %v", err)
		}
	}
	done, err := b.planner.ToggleComplete(ctx, ref.kind, ref.id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return b.sendText(chatID, fmt.Sprintf("%s #%d not found.", ref.kind, ref.id))
	case errors.Is(err, service.ErrNoCompletion):
		return b.sendText(chatID, fmt.Sprintf("A %s cannot be completed.", ref.kind))
	case err != nil:
		return b.sendText(chatID, fmt.Sprintf("Could not update %s #%d: %s", ref.kind, ref.id, escape(err.Error())))
	}
	state := "open again"
	if done {
		state = "done ✅"
	}
	return b.sendText(chatID, fmt.Sprintf("%s #%d is %s", ref.kind, ref.id, state))
}

func (b *Bot) askDeleteConfirmation(chatID, userID int64, ref itemRef) error {
	name, ok := b.planner.Label(ref.kind, ref.id)
	if !ok {
		name = fmt.Sprintf("#%d", ref.id)
	}
	b.setConfirmation(userID, ref)
	text := fmt.Sprintf("Delete %s «%s» (#%d)?", ref.kind, escape(shortTitle(name, 40)), ref.id)
	return b.sendWithReplyMarkup(chatID, text, confirmKeyboard(ref))
}

func (b *Bot) delete(ctx context.Context, chatID int64, ref itemRef) error {
	if err := b.planner.Delete(ctx, ref.kind, ref.id); err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not delete %s #%d: %s", ref.kind, ref.id, escape(err.Error())))
	}
	return b.sendText(chatID, fmt.Sprintf("🗑 %s #%d deleted.", ref.kind, ref.id))
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.out.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.out.Send(msg)
	return err
}

func (b *Bot) subscribe(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chats[chatID] = struct{}{}
}

func (b *Bot) subscribers() []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]int64, 0, len(b.chats))
	for id := range b.chats {
		out = append(out, id)
	}
	return out
}

func (b *Bot) setConfirmation(userID int64, ref itemRef) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirmations[userID] = ref
}

func (b *Bot) takeConfirmation(userID int64) (itemRef, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ref, ok := b.confirmations[userID]
	delete(b.confirmations, userID)
	return ref, ok
}

func taskKeyboard(tasks []model.Task) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(tasks))
	for _, t := range tasks {
		toggleLabel := "✅ " + shortTitle(t.Title, 24)
		if t.IsCompleted {
			toggleLabel = "↩️ " + shortTitle(t.Title, 24)
		}
		data := fmt.Sprintf("%s:%d", model.Todos.Name, t.ID)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(toggleLabel, cbTogglePrefix+data),
			tgbotapi.NewInlineKeyboardButtonData("🗑", cbDeletePrefix+data),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func confirmKeyboard(ref itemRef) tgbotapi.InlineKeyboardMarkup {
	data := fmt.Sprintf("%s:%d", ref.kind, ref.id)
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(btnConfirm, cbConfirmPrefix+data),
		tgbotapi.NewInlineKeyboardButtonData(btnCancel, cbCancelPrefix+data),
	))
}

func parseCallback(data, prefix string) (itemRef, error) {
	kind, rawID, ok := strings.Cut(strings.TrimPrefix(data, prefix), ":")
	if !ok {
		return itemRef{}, fmt.Errorf("malformed callback %q", data)
	}
	return parseItem(kind, rawID)
}

// parseItemArgs reads "<kind> <id>" command arguments.
func parseItemArgs(args string) (itemRef, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return itemRef{}, fmt.Errorf("usage: <kind> <id>, kinds: %s", strings.Join(service.KindNames, ", "))
	}
	return parseItem(fields[0], fields[1])
}

func parseItem(kind, rawID string) (itemRef, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	known := false
	for _, name := range service.KindNames {
		if name == kind {
			known = true
			break
		}
	}
	if !known {
		return itemRef{}, fmt.Errorf("unknown kind %q, use one of: %s", kind, strings.Join(service.KindNames, ", "))
	}
	id, err := strconv.Atoi(strings.TrimSpace(rawID))
	if err != nil || id <= 0 {
		return itemRef{}, fmt.Errorf("id must be a positive number")
	}
	return itemRef{kind: kind, id: id}, nil
}

func shortTitle(title string, maxLen int) string {
	runes := []rune(strings.TrimSpace(title))
	if len(runes) <= maxLen {
		return string(runes)
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func escape(s string) string {
	return html.EscapeString(s)
}
