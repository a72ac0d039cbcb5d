package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/marlonpp/casabot/internal/model"
)

func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧹 Tarefas", "menu_tasks"),
			tgbotapi.NewInlineKeyboardButtonData("🛒 Compras", "menu_shopping"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💰 Poupança", "menu_savings"),
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Config", "menu_config"),
		),
	)
}

func tasksKeyboard(tasks []model.Task) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, t := range tasks {
		mark := "⬜"
		if t.Done {
			mark = "✅"
		}
		label := fmt.Sprintf("%s [%d] %s (%s)", mark, t.ID, t.Text, t.Owner)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("task_view:%d", t.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ Adicionar tarefa", "task_add"),
		tgbotapi.NewInlineKeyboardButtonData("⏮ Voltar", "menu_back"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func taskViewKeyboard(taskID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Marcar como feito", fmt.Sprintf("task_done:%d", taskID)),
			tgbotapi.NewInlineKeyboardButtonData("Remover", fmt.Sprintf("task_remove:%d", taskID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏮ Voltar", "menu_tasks"),
		),
	)
}

func shoppingKeyboard(items []model.ShoppingItem) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range items {
		mark := "⬜"
		if item.Checked {
			mark = "✅"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(mark+" "+item.Name, fmt.Sprintf("shop_toggle:%d", item.ID)),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Adicionar item", "shop_add"),
			tgbotapi.NewInlineKeyboardButtonData("🔁 Resetar mês", "shop_reset"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Limpar lista", "shop_clear"),
			tgbotapi.NewInlineKeyboardButtonData("⏮ Voltar", "menu_back"),
		),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func savingsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Adicionar valor", "save_add"),
			tgbotapi.NewInlineKeyboardButtonData("🎯 Definir objetivo", "save_setgoal"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📒 Extrato", "save_history"),
			tgbotapi.NewInlineKeyboardButtonData("⏮ Voltar", "menu_back"),
		),
	)
}
