package sched

import (
	"fmt"
	"strings"

	"github.com/marlonpp/casabot/internal/model"
)

// renderDaily builds the daily group reminder: pending tasks plus the items
// still unchecked on the shopping list.
func renderDaily(groupName string, tasks []model.Task, items []model.ShoppingItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⏰ Lembrete diário — %s\n\n", groupName)

	b.WriteString("🧹 Tarefas pendentes:\n")
	if len(tasks) == 0 {
		b.WriteString("Nenhuma tarefa pendente.")
	} else {
		lines := make([]string, 0, len(tasks))
		for _, t := range tasks {
			line := fmt.Sprintf("[%d] %s (%s)", t.ID, t.Text, t.Owner)
			if t.Due != nil {
				line += " — até " + t.Due.Format("02/01 15:04")
			}
			lines = append(lines, line)
		}
		b.WriteString(strings.Join(lines, "\n"))
	}

	b.WriteString("\n\n🛒 Itens de compras pendentes:\n")
	var unchecked []string
	for _, item := range items {
		if !item.Checked {
			unchecked = append(unchecked, "- "+item.Name)
		}
	}
	if len(unchecked) == 0 {
		b.WriteString("Nenhum item pendente.")
	} else {
		b.WriteString(strings.Join(unchecked, "\n"))
	}

	return b.String()
}

// renderMonthly builds the monthly notice sent right after the shopping list
// reset, including the household savings progress.
func renderMonthly(groupName string, summary model.SavingsSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 Lembrete mensal — %s\n", groupName)
	b.WriteString("A lista de compras do mês foi reiniciada. Revisem e atualizem os itens que precisam.\n\n")
	b.WriteString(RenderSavings(summary))
	return b.String()
}

// RenderSavings formats the savings summary. Shared between the monthly
// notice and the bot's savings menu.
func RenderSavings(summary model.SavingsSummary) string {
	if !summary.HasGoal() {
		return fmt.Sprintf("💰 Poupança\nSalvo: R$%s\nObjetivo: não definido", summary.Saved.StringFixed(2))
	}
	return fmt.Sprintf("💰 Poupança\nSalvo: R$%s\nObjetivo: R$%s\nProgresso: %s%%",
		summary.Saved.StringFixed(2),
		summary.Goal.StringFixed(2),
		summary.ProgressPercent().StringFixed(1))
}
