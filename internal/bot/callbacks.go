package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/marlonpp/casabot/internal/model"
	"github.com/marlonpp/casabot/internal/sched"
)

func (h *Handler) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if _, err := h.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		h.log.Warn("answer callback", "err", err)
	}
	if query.Message == nil {
		return
	}
	chatID := query.Message.Chat.ID
	data := query.Data

	action, arg, _ := strings.Cut(data, ":")

	switch action {
	case "menu_tasks":
		h.showTasks(ctx, chatID)
	case "menu_shopping":
		h.showShopping(ctx, chatID)
	case "menu_savings":
		h.showSavings(ctx, chatID)
	case "menu_config":
		h.reply(chatID, "⚙️ Configurações\nPor enquanto nada aqui. Volte em breve.", mainMenuKeyboard())
	case "menu_back":
		h.reply(chatID, fmt.Sprintf("📋 Menu Principal — %s", h.cfg.GroupName), mainMenuKeyboard())

	case "task_add":
		h.setIntent(query, IntentAddTask)
		h.replyText(chatID, "✏️ Envie a tarefa no formato:\n<descrição> |op=Nome (opcional) |due=2025-11-21T18:00 (opcional)\nEx: Lavar louça |op=Marlon|due=2025-11-21T18:00")
	case "task_view":
		h.showTaskView(ctx, chatID, arg)
	case "task_done":
		h.completeTask(ctx, chatID, arg)
	case "task_remove":
		h.removeTask(ctx, chatID, arg)

	case "shop_add":
		h.setIntent(query, IntentAddItem)
		h.replyText(chatID, "✏️ Envie o nome do item para adicionar na lista de compras:")
	case "shop_toggle":
		h.toggleItem(ctx, chatID, arg)
	case "shop_reset":
		if err := h.store.ResetShopping(ctx); err != nil {
			h.log.Error("reset shopping", "err", err)
			h.replyText(chatID, "❌ Não consegui resetar a lista.")
			return
		}
		h.replyText(chatID, "✅ Lista zerada (itens marcados como não comprados).")
		h.showShopping(ctx, chatID)
	case "shop_clear":
		if err := h.store.ClearShopping(ctx); err != nil {
			h.log.Error("clear shopping", "err", err)
			h.replyText(chatID, "❌ Não consegui limpar a lista.")
			return
		}
		h.replyText(chatID, "🗑 Lista de compras esvaziada.")
		h.showShopping(ctx, chatID)

	case "save_add":
		h.setIntent(query, IntentAddSavings)
		h.replyText(chatID, "✏️ Envie o valor que você quer adicionar (ex: 50.25, negativo para retirada):")
	case "save_setgoal":
		h.setIntent(query, IntentSetGoal)
		h.replyText(chatID, "✏️ Envie o objetivo de meta em reais (ex: 500):")
	case "save_history":
		h.showSavingsHistory(ctx, chatID)
	}
}

func (h *Handler) setIntent(query *tgbotapi.CallbackQuery, kind IntentKind) {
	if query.From != nil {
		h.pending.Set(query.From.ID, kind)
	}
}

func (h *Handler) showTasks(ctx context.Context, chatID int64) {
	tasks, err := h.store.ListTasks(ctx, &chatID, true)
	if err != nil {
		h.log.Error("list tasks", "err", err)
		h.replyText(chatID, "❌ Não consegui listar as tarefas.")
		return
	}
	h.reply(chatID, "🧹 Tarefas pendentes:", tasksKeyboard(tasks))
}

func (h *Handler) showShopping(ctx context.Context, chatID int64) {
	items, err := h.store.ListItems(ctx)
	if err != nil {
		h.log.Error("list items", "err", err)
		h.replyText(chatID, "❌ Não consegui listar as compras.")
		return
	}
	h.reply(chatID, "🛒 Lista de Compras (mensal):", shoppingKeyboard(items))
}

func (h *Handler) showSavings(ctx context.Context, chatID int64) {
	summary, err := h.store.Savings(ctx)
	if err != nil {
		h.log.Error("savings summary", "err", err)
		h.replyText(chatID, "❌ Não consegui ler a poupança.")
		return
	}
	h.reply(chatID, sched.RenderSavings(summary), savingsKeyboard())
}

func (h *Handler) showSavingsHistory(ctx context.Context, chatID int64) {
	entries, err := h.store.ListSavingsEntries(ctx, 15)
	if err != nil {
		h.log.Error("list savings entries", "err", err)
		h.replyText(chatID, "❌ Não consegui ler o extrato.")
		return
	}
	if len(entries) == 0 {
		h.replyText(chatID, "📒 Extrato vazio.")
		return
	}

	var b strings.Builder
	b.WriteString("📒 Últimos lançamentos:\n")
	for _, e := range entries {
		sign := "+"
		if e.Amount.IsNegative() {
			sign = ""
		}
		fmt.Fprintf(&b, "%s %sR$%s (%s)\n", e.CreatedAt.Format("02/01"), sign, e.Amount.StringFixed(2), e.Kind)
	}
	h.replyText(chatID, b.String())
}

func (h *Handler) showTaskView(ctx context.Context, chatID int64, arg string) {
	id, ok := parseID(arg)
	if !ok {
		return
	}
	tasks, err := h.store.ListTasks(ctx, &chatID, false)
	if err != nil {
		h.log.Error("list tasks", "err", err)
		return
	}
	var found *model.Task
	for i := range tasks {
		if tasks[i].ID == id {
			found = &tasks[i]
			break
		}
	}
	if found == nil {
		h.replyText(chatID, "Tarefa não encontrada.")
		return
	}

	mark := "⬜"
	if found.Done {
		mark = "✅"
	}
	due := "—"
	if found.Due != nil {
		due = found.Due.Format("02/01/2006 15:04")
	}
	text := fmt.Sprintf("%s [%d] %s\nOp: %s\nAté: %s", mark, found.ID, found.Text, found.Owner, due)
	h.reply(chatID, text, taskViewKeyboard(found.ID))
}

func (h *Handler) completeTask(ctx context.Context, chatID int64, arg string) {
	id, ok := parseID(arg)
	if !ok {
		return
	}
	done, err := h.store.MarkTaskDone(ctx, id)
	if err != nil {
		h.log.Error("mark task done", "err", err)
		h.replyText(chatID, "❌ Não consegui atualizar a tarefa.")
		return
	}
	if done {
		h.replyText(chatID, "Marcado como feito.")
	} else {
		h.replyText(chatID, "Não achei essa tarefa.")
	}
	h.showTasks(ctx, chatID)
}

func (h *Handler) removeTask(ctx context.Context, chatID int64, arg string) {
	id, ok := parseID(arg)
	if !ok {
		return
	}
	removed, err := h.store.RemoveTask(ctx, id)
	if err != nil {
		h.log.Error("remove task", "err", err)
		h.replyText(chatID, "❌ Não consegui remover a tarefa.")
		return
	}
	if removed {
		h.replyText(chatID, "Removido.")
	} else {
		h.replyText(chatID, "Não achei essa tarefa.")
	}
	h.showTasks(ctx, chatID)
}

func (h *Handler) toggleItem(ctx context.Context, chatID int64, arg string) {
	id, ok := parseID(arg)
	if !ok {
		return
	}
	state, err := h.store.ToggleItem(ctx, id)
	if err != nil {
		h.log.Error("toggle item", "err", err)
		h.replyText(chatID, "❌ Não consegui atualizar o item.")
		return
	}
	switch {
	case state == nil:
		h.replyText(chatID, "Item não encontrado.")
	case *state:
		h.replyText(chatID, "Marcado.")
	default:
		h.replyText(chatID, "Desmarcado.")
	}
	h.showShopping(ctx, chatID)
}

func parseID(arg string) (int64, bool) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
