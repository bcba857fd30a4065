// ABOUTME: Web UI server with embedded templates
// ABOUTME: Provides a read-only donor dashboard plus follow-up logging at localhost:8080
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/donorbase/contacts"
	"github.com/harperreed/donorbase/donors"
	"github.com/harperreed/donorbase/models"
	"github.com/harperreed/donorbase/query"
	"github.com/harperreed/donorbase/viz"
)

//go:embed templates/*.html templates/partials/*.html
var templatesFS embed.FS

type Server struct {
	contacts     *contacts.Service
	donors       *donors.Service
	followUpDays int
	templates    *template.Template
	logger       *zap.Logger
	mux          *http.ServeMux
}

func NewServer(cs *contacts.Service, ds *donors.Service, followUpDays int) (*Server, error) {
	funcMap := template.FuncMap{
		"money": func(v float64) string {
			return fmt.Sprintf("$%.2f", v)
		},
		"orDash": func(s string) string {
			if s == "" {
				return "-"
			}
			return s
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		contacts:     cs,
		donors:       ds,
		followUpDays: followUpDays,
		templates:    tmpl,
		logger:       cs.Logger().Named("web"),
		mux:          http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /{$}", s.handleDashboard)
	s.mux.HandleFunc("GET /contacts", s.handleContacts)
	s.mux.HandleFunc("GET /donors", s.handleDonors)
	s.mux.HandleFunc("GET /followups", s.handleFollowups)
	s.mux.HandleFunc("GET /graphs", s.handleGraphs)

	// Partials for HTMX
	s.mux.HandleFunc("GET /partials/contact-detail", s.handleContactDetail)
	s.mux.HandleFunc("GET /partials/graph", s.handleGraphPartial)
	s.mux.HandleFunc("POST /followups/log/{id}", s.handleFollowupLog)

	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.logger.Info("starting web server", zap.String("url", "http://localhost"+addr))

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	list, err := s.contacts.List(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}

	data := map[string]interface{}{
		"Stats":           viz.GenerateDashboardStats(list, s.contacts.Now()),
		"Title":           "Dashboard",
		"ContentTemplate": "dashboard-content",
	}
	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	s.renderList(w, r, "Contacts", false)
}

func (s *Server) handleDonors(w http.ResponseWriter, r *http.Request) {
	s.renderList(w, r, "Donors", true)
}

// renderList serves /contacts and /donors. Query parameters: q, level, role, tag, group,
// sort and dir.
func (s *Server) renderList(w http.ResponseWriter, r *http.Request, title string, donorsOnly bool) {
	params := r.URL.Query()
	f := query.Filter{
		Query:       params.Get("q"),
		GivingLevel: params.Get("level"),
		Role:        params.Get("role"),
		Tag:         params.Get("tag"),
		Group:       params.Get("group"),
		DonorsOnly:  donorsOnly,
	}

	key := query.SortName
	if v := params.Get("sort"); v != "" {
		parsed, err := query.ParseSortKey(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		key = parsed
	}
	dir := query.Ascending
	if v := params.Get("dir"); v != "" {
		parsed, err := query.ParseDirection(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		dir = parsed
	}

	var list []models.Contact
	var err error
	if donorsOnly {
		list, err = s.donors.Profiles(r.Context())
	} else {
		list, err = s.contacts.List(r.Context())
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	rows, err := query.Apply(list, f, key, dir)
	if err != nil {
		s.serverError(w, err)
		return
	}

	data := map[string]interface{}{
		"Contacts":        rows,
		"Filter":          f,
		"Sort":            string(key),
		"Dir":             dir.String(),
		"DonorsOnly":      donorsOnly,
		"Title":           title,
		"ContentTemplate": "contacts-content",
	}
	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleFollowups(w http.ResponseWriter, r *http.Request) {
	list, err := s.contacts.List(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}

	data := map[string]interface{}{
		"Followups":       contacts.DueFollowUps(list, s.contacts.Now()),
		"Title":           "Follow-ups",
		"ContentTemplate": "followups-content",
	}
	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleGraphs(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Title":           "Graphs",
		"ContentTemplate": "graphs-content",
	}
	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleContactDetail(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Contact ID required", http.StatusBadRequest)
		return
	}

	c, err := s.contacts.Get(r.Context(), id)
	if err != nil {
		s.lookupError(w, err)
		return
	}

	s.renderTemplate(w, "contact-detail", map[string]interface{}{"Contact": &c})
}

func (s *Server) handleGraphPartial(w http.ResponseWriter, r *http.Request) {
	graphType := r.URL.Query().Get("type")
	entityID := r.URL.Query().Get("entity_id")

	list, err := s.contacts.List(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	generator := viz.NewGraphGenerator(list)

	var dot string
	switch graphType {
	case "campaigns":
		dot, err = generator.GenerateCampaignGraph(r.Context())
	case "donor":
		if entityID == "" {
			http.Error(w, "Contact ID required", http.StatusBadRequest)
			return
		}
		dot, err = generator.GenerateDonorGraph(r.Context(), entityID)
	default:
		http.Error(w, "Invalid graph type", http.StatusBadRequest)
		return
	}
	if err != nil {
		s.lookupError(w, err)
		return
	}

	s.renderTemplate(w, "graph", map[string]interface{}{"DOT": dot})
}

func (s *Server) handleFollowupLog(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	now := s.contacts.Now()

	_, err := s.contacts.Mutate(r.Context(), func(list []models.Contact) ([]models.Contact, error) {
		return contacts.ScheduleFollowUp(list, id, s.followUpDays, now)
	})
	if err != nil {
		s.lookupError(w, err)
		return
	}

	s.logger.Info("interaction logged", zap.String("contact_id", id))
	if _, err := w.Write([]byte(`<td colspan="5" class="logged">✓ Interaction logged</td>`)); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}

// renderTemplate executes name (usually layout.html). The data map's ContentTemplate picks
// the content block.
func (s *Server) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template error", zap.String("template", name), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) lookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, models.ErrContactNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.serverError(w, err)
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	s.logger.Error("request failed", zap.Error(err))
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
