// Package bot adapts Telegram updates onto the store's domain operations:
// command dispatch, inline keyboard menus and the per-user pending intents.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/marlonpp/casabot/internal/config"
	"github.com/marlonpp/casabot/internal/db"
	"github.com/marlonpp/casabot/internal/sched"
)

// How long a "send me a value" prompt stays claimable.
const pendingIntentTTL = 5 * time.Minute

type Handler struct {
	api     *tgbotapi.BotAPI
	cfg     config.Config
	store   *db.Store
	log     *slog.Logger
	pending *PendingIntents
}

func NewHandler(api *tgbotapi.BotAPI, cfg config.Config, store *db.Store, log *slog.Logger) *Handler {
	return &Handler{
		api:     api,
		cfg:     cfg,
		store:   store,
		log:     log,
		pending: NewPendingIntents(pendingIntentTTL),
	}
}

// Send delivers plain text to a chat. Satisfies sched.Sender.
func (h *Handler) Send(chatID int64, text string) error {
	_, err := h.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

var _ sched.Sender = (*Handler)(nil)

func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		h.handleCallback(ctx, upd.CallbackQuery)
		return
	}
	if upd.Message == nil {
		return
	}

	msg := upd.Message

	// Being added to a group registers that group as the notification
	// destination.
	if len(msg.NewChatMembers) > 0 {
		for _, member := range msg.NewChatMembers {
			if member.ID == h.api.Self.ID {
				h.registerGroup(ctx, msg.Chat)
				return
			}
		}
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	switch {
	case strings.HasPrefix(text, "/start"), strings.HasPrefix(text, "/menu"):
		if msg.Chat.IsGroup() || msg.Chat.IsSuperGroup() {
			h.registerGroup(ctx, msg.Chat)
		}
		h.reply(msg.Chat.ID, fmt.Sprintf("📋 Menu Principal — %s", h.cfg.GroupName), mainMenuKeyboard())
	case strings.HasPrefix(text, "/resumo"):
		h.handleSummary(ctx, msg.Chat.ID)
	case strings.Contains(text, "|") || strings.HasPrefix(strings.ToLower(text), "/add "):
		h.handleAddTaskText(ctx, msg.Chat.ID, text)
	case strings.HasPrefix(strings.ToLower(text), "item:"), strings.HasPrefix(strings.ToLower(text), "/item "):
		h.handleAddItemText(ctx, msg.Chat.ID, text)
	case strings.HasPrefix(strings.ToLower(text), "addsave "):
		h.handleAddSavings(ctx, msg.Chat.ID, strings.TrimSpace(text[len("addsave"):]))
	case strings.HasPrefix(strings.ToLower(text), "setgoal "):
		h.handleSetGoal(ctx, msg.Chat.ID, strings.TrimSpace(text[len("setgoal"):]))
	default:
		h.handlePendingText(ctx, msg, text)
	}
}

func (h *Handler) registerGroup(ctx context.Context, chat *tgbotapi.Chat) {
	if !chat.IsGroup() && !chat.IsSuperGroup() {
		return
	}
	if err := h.store.SetSetting(ctx, db.SettingGroupChatID, fmt.Sprintf("%d", chat.ID)); err != nil {
		h.log.Error("register group", "chat_id", chat.ID, "err", err)
		return
	}
	h.log.Info("group registered for reminders", "chat_id", chat.ID, "title", chat.Title)
	h.reply(chat.ID, fmt.Sprintf("🏠 Bem-vindos ao painel %s.\nUse o menu para gerenciar tarefas, compras e poupança.", h.cfg.GroupName), mainMenuKeyboard())
}

func (h *Handler) handleAddTaskText(ctx context.Context, chatID int64, text string) {
	raw := text
	if strings.HasPrefix(strings.ToLower(text), "/add ") {
		raw = strings.TrimSpace(text[len("/add "):])
	}

	parsed, err := ParseTaskText(raw)
	if err != nil {
		h.replyText(chatID, "❌ "+err.Error())
		return
	}

	task, err := h.store.AddTask(ctx, db.TaskInput{
		Text:   parsed.Text,
		Owner:  parsed.Owner,
		Due:    parsed.Due,
		ChatID: chatID,
	})
	if err != nil {
		h.log.Error("add task", "err", err)
		h.replyText(chatID, "❌ Não consegui salvar a tarefa. Tente de novo.")
		return
	}

	h.replyText(chatID, fmt.Sprintf("✅ Tarefa adicionada: [%d] %s (op: %s)", task.ID, task.Text, task.Owner))
}

func (h *Handler) handleAddItemText(ctx context.Context, chatID int64, text string) {
	var name string
	if i := strings.Index(text, ":"); i >= 0 {
		name = strings.TrimSpace(text[i+1:])
	} else {
		name = strings.TrimSpace(text[len("/item "):])
	}
	h.addItem(ctx, chatID, name)
}

func (h *Handler) addItem(ctx context.Context, chatID int64, name string) {
	if name == "" {
		h.replyText(chatID, "❌ Nome do item vazio.")
		return
	}
	added, err := h.store.AddItem(ctx, name)
	if err != nil {
		h.log.Error("add item", "err", err)
		h.replyText(chatID, "❌ Não consegui salvar o item. Tente de novo.")
		return
	}
	if added {
		h.replyText(chatID, "Item adicionado.")
	} else {
		h.replyText(chatID, "Item já existe.")
	}
}

func (h *Handler) handleAddSavings(ctx context.Context, chatID int64, rawAmount string) {
	amount, err := ParseAmount(rawAmount)
	if err != nil {
		h.replyText(chatID, "❌ Formato inválido. Use: addsave 50.25")
		return
	}
	if amount.IsZero() {
		h.replyText(chatID, "❌ O valor precisa ser diferente de zero.")
		return
	}

	summary, err := h.store.AddSavings(ctx, amount, "")
	if err != nil {
		h.log.Error("add savings", "err", err)
		h.replyText(chatID, "❌ Não consegui registrar o valor. Tente de novo.")
		return
	}

	h.replyText(chatID, fmt.Sprintf("✅ Adicionado R$%s. Total salvo: R$%s",
		amount.StringFixed(2), summary.Saved.StringFixed(2)))
}

func (h *Handler) handleSetGoal(ctx context.Context, chatID int64, rawGoal string) {
	goal, err := ParseAmount(rawGoal)
	if err != nil {
		h.replyText(chatID, "❌ Formato inválido. Use: setgoal 500")
		return
	}

	summary, err := h.store.SetSavingsGoal(ctx, goal)
	if err != nil {
		h.log.Error("set savings goal", "err", err)
		h.replyText(chatID, "❌ Não consegui definir o objetivo. Tente de novo.")
		return
	}

	h.replyText(chatID, fmt.Sprintf("🎯 Objetivo definido: R$%s", summary.Goal.StringFixed(2)))
}

func (h *Handler) handleSummary(ctx context.Context, chatID int64) {
	summary, err := h.store.Savings(ctx)
	if err != nil {
		h.log.Error("savings summary", "err", err)
		h.replyText(chatID, "❌ Não consegui ler a poupança.")
		return
	}
	h.replyText(chatID, sched.RenderSavings(summary))
}

// handlePendingText routes free text through the user's pending intent, if a
// prompt button was pressed recently; otherwise it falls back to the menu.
func (h *Handler) handlePendingText(ctx context.Context, msg *tgbotapi.Message, text string) {
	if msg.From == nil {
		return
	}

	switch h.pending.Claim(msg.From.ID) {
	case IntentAddTask:
		h.handleAddTaskText(ctx, msg.Chat.ID, text)
	case IntentAddItem:
		h.addItem(ctx, msg.Chat.ID, text)
	case IntentAddSavings:
		h.handleAddSavings(ctx, msg.Chat.ID, text)
	case IntentSetGoal:
		h.handleSetGoal(ctx, msg.Chat.ID, text)
	default:
		h.reply(msg.Chat.ID, "Use o menu:", mainMenuKeyboard())
	}
}

func (h *Handler) reply(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := h.api.Send(msg); err != nil {
		h.log.Warn("send reply", "chat_id", chatID, "err", err)
	}
}

func (h *Handler) replyText(chatID int64, text string) {
	if _, err := h.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		h.log.Warn("send reply", "chat_id", chatID, "err", err)
	}
}
