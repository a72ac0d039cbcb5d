// Package web serves a read-only status page and JSON API over the store.
// It has no mutating endpoints; all writes go through the Telegram bot.
package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/marlonpp/casabot/internal/db"
	"github.com/marlonpp/casabot/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var statusTemplate = template.Must(template.ParseFS(templateFS, "templates/status.tmpl"))

type Server struct {
	store     *db.Store
	groupName string
}

func NewServer(store *db.Store, groupName string) *Server {
	return &Server{store: store, groupName: groupName}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.statusHandler)
	mux.HandleFunc("/api/tasks", s.apiTasksHandler)
	mux.HandleFunc("/api/shopping", s.apiShoppingHandler)
	mux.HandleFunc("/api/savings", s.apiSavingsHandler)
	return mux
}

type taskJSON struct {
	ID    int64   `json:"id"`
	Text  string  `json:"text"`
	Owner string  `json:"owner"`
	Due   *string `json:"due,omitempty"`
	Done  bool    `json:"done"`
}

type itemJSON struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
}

type savingsJSON struct {
	Saved   string `json:"saved"`
	Goal    string `json:"goal"`
	Entries int    `json:"entries"`
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	tasks, err := s.store.ListTasks(r.Context(), nil, true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	items, err := s.store.ListItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	summary, err := s.store.Savings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	data := struct {
		GroupName string
		Tasks     []model.Task
		Items     []model.ShoppingItem
		Saved     string
		Goal      string
		HasGoal   bool
	}{
		GroupName: s.groupName,
		Tasks:     tasks,
		Items:     items,
		Saved:     summary.Saved.StringFixed(2),
		Goal:      summary.Goal.StringFixed(2),
		HasGoal:   summary.HasGoal(),
	}

	if err := statusTemplate.Execute(w, data); err != nil {
		writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) apiTasksHandler(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.ListTasks(r.Context(), nil, false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]taskJSON, 0, len(tasks))
	for _, t := range tasks {
		row := taskJSON{ID: t.ID, Text: t.Text, Owner: t.Owner, Done: t.Done}
		if t.Due != nil {
			due := t.Due.Format(db.DueLayout)
			row.Due = &due
		}
		out = append(out, row)
	}
	writeJSON(w, out)
}

func (s *Server) apiShoppingHandler(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]itemJSON, 0, len(items))
	for _, item := range items {
		out = append(out, itemJSON{ID: item.ID, Name: item.Name, Checked: item.Checked})
	}
	writeJSON(w, out)
}

func (s *Server) apiSavingsHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := s.store.Savings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, savingsJSON{
		Saved:   summary.Saved.StringFixed(2),
		Goal:    summary.Goal.StringFixed(2),
		Entries: summary.Entries,
	})
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
