package bot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marlonpp/casabot/internal/db"
)

// ParsedTask is the typed result of the pipe mini-language:
//
//	<descrição> |op=Nome |due=2006-01-02T15:04
//
// Fields are pipe-delimited; op and due are optional, unknown keys are
// rejected.
type ParsedTask struct {
	Text  string
	Owner string
	Due   *time.Time
}

var errEmptyTask = errors.New("a descrição da tarefa é obrigatória")

// ParseTaskText parses the task mini-language. Errors are user-facing and in
// the household's language, matching the rest of the bot's replies.
func ParseTaskText(raw string) (ParsedTask, error) {
	parts := strings.Split(raw, "|")

	parsed := ParsedTask{Text: strings.TrimSpace(parts[0])}
	if parsed.Text == "" {
		return ParsedTask{}, errEmptyTask
	}

	for _, part := range parts[1:] {
		field := strings.TrimSpace(part)
		if field == "" {
			continue
		}
		key, value, found := strings.Cut(field, "=")
		if !found {
			return ParsedTask{}, fmt.Errorf("campo inválido %q (esperado op=... ou due=...)", field)
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "op":
			parsed.Owner = value
		case "due":
			due, err := time.Parse(db.DueLayout, value)
			if err != nil {
				return ParsedTask{}, fmt.Errorf("data inválida %q (use o formato 2025-11-21T18:00)", value)
			}
			parsed.Due = &due
		default:
			return ParsedTask{}, fmt.Errorf("campo desconhecido %q", key)
		}
	}

	return parsed, nil
}

// ParseAmount parses a decimal currency amount, accepting comma as the
// decimal separator ("50,25").
func ParseAmount(raw string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("valor inválido %q (ex: 50.25)", raw)
	}
	return amount, nil
}
