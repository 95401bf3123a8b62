package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"waterwise-quiz-service/internal/app"
	"waterwise-quiz-service/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const sessionCookie = "ww_session"

// Handler exposes the quiz flow over HTTP. Every recoverable participant
// error (unknown screen, locked summary) resolves to a redirect back to the
// start of the flow; the core never surfaces errors to the participant.
type Handler struct {
	service *app.QuizService
	ws      *WSHandler
}

func NewHandler(service *app.QuizService) *Handler {
	return &Handler{
		service: service,
		ws:      NewWSHandler(service),
	}
}

// Router wires the route surface: one route per core operation.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", h.loginGate).Methods(http.MethodGet)
	r.HandleFunc("/login", h.login).Methods(http.MethodPost)
	r.HandleFunc("/index", h.index).Methods(http.MethodGet)
	r.HandleFunc("/quiz/{screen}", h.viewScreen).Methods(http.MethodGet)
	r.HandleFunc("/quiz/{screen}", h.submitScreen).Methods(http.MethodPost)
	r.HandleFunc("/final_score", h.finalScore).Methods(http.MethodGet)
	r.HandleFunc("/logout", h.logout).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/ws", h.ws.ServeWS).Methods(http.MethodGet)
	return r
}

// loginGate sends participants with a live session straight to the start page.
func (h *Handler) loginGate(w http.ResponseWriter, r *http.Request) {
	if id, ok := currentSessionID(r); ok {
		if _, err := h.service.Session(r.Context(), id); err == nil {
			http.Redirect(w, r, "/index", http.StatusFound)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "post a name to /login to begin",
	})
}

// login is a pass-through: it stores the trimmed name and hands off to the
// start route. There is no authentication.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	name := loginName(r)
	sessionID := h.sessionID(w, r)
	if _, err := h.service.Start(r.Context(), sessionID, name); err != nil {
		h.serverError(w, err)
		return
	}
	http.Redirect(w, r, "/index", http.StatusSeeOther)
}

// index is the start/reset entry point: visiting it always wipes progress.
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessionID(w, r)
	session, err := h.service.Start(r.Context(), sessionID, "")
	if err != nil {
		h.serverError(w, err)
		return
	}
	catalog, err := h.service.Catalog(r.Context())
	if err != nil {
		h.serverError(w, err)
		return
	}

	type screenSummary struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		Questions int    `json:"questions"`
	}
	screens := make([]screenSummary, 0, catalog.Len())
	for _, screen := range catalog.Screens() {
		screens = append(screens, screenSummary{
			ID:        screen.ID,
			Title:     screen.Title,
			Questions: len(screen.Questions),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"displayName": session.DisplayName,
		"screens":     screens,
	})
}

func (h *Handler) viewScreen(w http.ResponseWriter, r *http.Request) {
	screenID := mux.Vars(r)["screen"]
	view, err := h.service.ViewScreen(r.Context(), screenID)
	if err != nil {
		if errors.Is(err, domain.ErrScreenNotFound) {
			http.Redirect(w, r, "/index", http.StatusFound)
			return
		}
		h.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) submitScreen(w http.ResponseWriter, r *http.Request) {
	screenID := mux.Vars(r)["screen"]
	submission, err := parseSubmission(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid submission payload"})
		return
	}

	sessionID := h.sessionID(w, r)
	session, outcome, err := h.service.SubmitScreen(r.Context(), sessionID, screenID, submission)
	if err != nil {
		if errors.Is(err, domain.ErrScreenNotFound) {
			http.Redirect(w, r, "/index", http.StatusSeeOther)
			return
		}
		h.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"displayName": session.DisplayName,
		"score":       session.Score,
		"outcome":     outcome,
	})
}

func (h *Handler) finalScore(w http.ResponseWriter, r *http.Request) {
	id, ok := currentSessionID(r)
	if !ok {
		http.Redirect(w, r, "/index", http.StatusFound)
		return
	}
	summary, err := h.service.FinalSummary(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSummaryBlocked) {
			http.Redirect(w, r, "/index", http.StatusFound)
			return
		}
		h.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if id, ok := currentSessionID(r); ok {
		if err := h.service.Reset(r.Context(), id); err != nil {
			h.serverError(w, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

// sessionID returns the participant's session ID, minting a cookie on first contact.
func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) string {
	if id, ok := currentSessionID(r); ok {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
	})
	return id
}

func currentSessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func loginName(r *http.Request) string {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			return strings.TrimSpace(body.Name)
		}
		return ""
	}
	if err := r.ParseForm(); err != nil {
		return ""
	}
	return strings.TrimSpace(r.PostFormValue("user_name"))
}

// parseSubmission accepts form posts with fields q0..qN or a JSON body of the
// shape {"answers":{"q0":"..."}}. Unanswered questions are simply absent.
func parseSubmission(r *http.Request) (domain.Submission, error) {
	submission := domain.Submission{}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Answers map[string]string `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, err
		}
		for key, answer := range body.Answers {
			if idx, ok := questionIndex(key); ok {
				submission[idx] = answer
			}
		}
		return submission, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	for key, values := range r.PostForm {
		if idx, ok := questionIndex(key); ok && len(values) > 0 {
			submission[idx] = values[0]
		}
	}
	return submission, nil
}

func questionIndex(key string) (int, bool) {
	if !strings.HasPrefix(key, "q") {
		return 0, false
	}
	idx, err := strconv.Atoi(key[1:])
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

func (h *Handler) serverError(w http.ResponseWriter, err error) {
	log.Printf("handler error: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}
