package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/deimos993/qprep/internal/bank"
	"github.com/deimos993/qprep/internal/grading"
)

// Server exposes the bank library and the grading engine over a small
// read-only HTTP API, for study-group setups where one machine hosts the
// banks. Attempt state stays client-side; the server never persists anything.
type Server struct {
	lib    *bank.Library
	engine *grading.Engine
}

// New builds the HTTP handler.
func New(lib *bank.Library, engine *grading.Engine) http.Handler {
	s := &Server{lib: lib, engine: engine}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/banks", s.handleListBanks)
		r.Get("/banks/{bankID}", s.handleGetBank)
		r.Post("/banks/{bankID}/grade", s.handleGrade)
		r.Get("/diagnostics", s.handleDiagnostics)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type bankListing struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Questions int    `json:"questions"`
}

func (s *Server) handleListBanks(w http.ResponseWriter, _ *http.Request) {
	listings := make([]bankListing, 0, len(s.lib.Banks))
	for _, b := range s.lib.Banks {
		listings = append(listings, bankListing{ID: b.ID, Name: b.Name, Questions: len(b.Questions)})
	}
	writeJSON(w, http.StatusOK, listings)
}

type servedQuestion struct {
	Index     int           `json:"index"`
	Text      string        `json:"text"`
	Options   []bank.Option `json:"options"`
	Multi     bool          `json:"multi"`
	Objective string        `json:"objective,omitempty"`
	ImageRef  string        `json:"imageRef,omitempty"`
}

// handleGetBank serves a bank's questions in canonical order with the answer
// keys stripped.
func (s *Server) handleGetBank(w http.ResponseWriter, r *http.Request) {
	b, ok := s.lib.Bank(chi.URLParam(r, "bankID"))
	if !ok {
		http.Error(w, "bank not found", http.StatusNotFound)
		return
	}

	questions := make([]servedQuestion, len(b.Questions))
	for i, q := range b.Questions {
		questions[i] = servedQuestion{
			Index:     i,
			Text:      q.Text,
			Options:   q.Options,
			Multi:     q.IsMultiAnswer(),
			Objective: q.Objective,
			ImageRef:  q.ImageRef,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":        b.ID,
		"name":      b.Name,
		"questions": questions,
	})
}

type gradeRequest struct {
	// Answers maps the question index (canonical order, as served) to the
	// selected option keys.
	Answers map[string][]string `json:"answers"`
}

func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	b, ok := s.lib.Bank(chi.URLParam(r, "bankID"))
	if !ok {
		http.Error(w, "bank not found", http.StatusNotFound)
		return
	}

	var req gradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	answers := make(map[int][]string, len(req.Answers))
	for key, keys := range req.Answers {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(b.Questions) {
			http.Error(w, "answer index out of range: "+key, http.StatusBadRequest)
			return
		}
		answers[idx] = keys
	}

	questions := make([]grading.Q, len(b.Questions))
	for i, q := range b.Questions {
		questions[i] = grading.Q{
			Text:         q.Text,
			Options:      q.Options,
			CorrectKeys:  q.CorrectKeys,
			Explanations: q.Explanations,
			Objective:    q.Objective,
		}
	}

	writeJSON(w, http.StatusOK, s.engine.Grade(questions, answers))
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, _ *http.Request) {
	diags := s.lib.Diagnostics
	if diags == nil {
		diags = []string{}
	}
	writeJSON(w, http.StatusOK, diags)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
