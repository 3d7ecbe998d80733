package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/auth"
	"quizmaster-service/internal/domain"
)

// Handler serves the REST surface: authoring and dashboards for creators,
// and sanitized quiz fetch plus one-shot submission for participants.
type Handler struct {
	quizzes   *app.QuizService
	authoring *app.AuthoringService
	stats     *app.StatsService
	export    *app.ExportService
	provider  auth.Provider
	origin    string
	log       *zap.Logger
}

func NewHandler(quizzes *app.QuizService, authoring *app.AuthoringService, stats *app.StatsService, export *app.ExportService, provider auth.Provider, origin string, log *zap.Logger) *Handler {
	return &Handler{
		quizzes:   quizzes,
		authoring: authoring,
		stats:     stats,
		export:    export,
		provider:  provider,
		origin:    origin,
		log:       log,
	}
}

// Register wires all routes onto the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("POST /api/auth/signin", h.signIn)

	mux.HandleFunc("GET /api/quizzes/{id}", h.participantQuiz)
	mux.HandleFunc("POST /api/quizzes/{id}/submissions", h.submit)

	mux.HandleFunc("POST /api/quizzes", h.withCreator(h.saveQuiz))
	mux.HandleFunc("POST /api/quizzes/{id}/clone", h.withCreator(h.cloneQuiz))
	mux.HandleFunc("GET /api/quizzes/{id}/edit", h.withCreator(h.editQuiz))
	mux.HandleFunc("GET /api/me/quizzes", h.withCreator(h.history))
	mux.HandleFunc("GET /api/me/stats", h.withCreator(h.dashboard))
	mux.HandleFunc("GET /api/quizzes/{id}/responses", h.withCreator(h.responses))
	mux.HandleFunc("GET /api/quizzes/{id}/summary", h.withCreator(h.summary))
	mux.HandleFunc("GET /api/quizzes/{id}/responses/export", h.withCreator(h.exportResponses))
}

type errorPayload struct {
	Message string `json:"message"`
}

type signInRequest struct {
	Credential string `json:"credential"`
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid sign-in payload"})
		return
	}
	identity, err := h.provider.SignIn(r.Context(), req.Credential)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorPayload{Message: auth.Message(err)})
		return
	}
	writeJSON(w, http.StatusOK, identity)
}

// withCreator resolves the bearer credential to a creator identity before
// invoking the wrapped handler.
func (h *Handler) withCreator(next func(http.ResponseWriter, *http.Request, auth.Identity)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, errorPayload{Message: "missing credentials"})
			return
		}
		identity, err := h.provider.SignIn(r.Context(), token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorPayload{Message: auth.Message(err)})
			return
		}
		next(w, r, identity)
	}
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}

func (h *Handler) participantQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.quizzes.ParticipantQuiz(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

type submitRequest struct {
	Responses domain.ResponseMap `json:"responses"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid submission payload"})
		return
	}
	result, err := h.quizzes.Submit(r.Context(), r.PathValue("id"), req.Responses)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

type savedQuizPayload struct {
	Quiz      domain.Quiz `json:"quiz"`
	ShareLink string      `json:"shareLink"`
}

func (h *Handler) saveQuiz(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	var draft domain.DraftQuiz
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid quiz payload"})
		return
	}
	quiz, err := h.authoring.Save(r.Context(), identity.UID, draft)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, savedQuizPayload{Quiz: quiz, ShareLink: app.ShareLink(h.origin, quiz.QuizID)})
}

func (h *Handler) cloneQuiz(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	var draft domain.DraftQuiz
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid quiz payload"})
		return
	}
	draft.QuizID = r.PathValue("id")
	quiz, err := h.authoring.SaveAsNew(r.Context(), identity.UID, draft)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, savedQuizPayload{Quiz: quiz, ShareLink: app.ShareLink(h.origin, quiz.QuizID)})
}

func (h *Handler) editQuiz(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	draft, err := h.authoring.EditView(r.Context(), identity.UID, r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	quizzes, err := h.authoring.History(r.Context(), identity.UID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	dashboard, err := h.stats.Dashboard(r.Context(), identity.UID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (h *Handler) responses(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	records, err := h.quizzes.Responses(r.Context(), identity.UID, r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	if _, err := h.quizzes.Responses(r.Context(), identity.UID, r.PathValue("id")); err != nil {
		// reuse the ownership check; summaries are creator-only
		h.writeError(w, err)
		return
	}
	summary, err := h.stats.Summarize(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) exportResponses(w http.ResponseWriter, r *http.Request, identity auth.Identity) {
	if _, err := h.quizzes.Responses(r.Context(), identity.UID, r.PathValue("id")); err != nil {
		h.writeError(w, err)
		return
	}
	file, name, err := h.export.Workbook(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := file.Write(w); err != nil {
		h.log.Warn("failed to stream export", zap.String("quizId", r.PathValue("id")), zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	switch domain.KindOf(err) {
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindIdentity:
		status = http.StatusUnauthorized
	}
	if errors.Is(err, domain.ErrNotQuizOwner) {
		status = http.StatusForbidden
	}
	if status == http.StatusBadGateway {
		h.log.Error("storage failure", zap.Error(err))
	}
	writeJSON(w, status, errorPayload{Message: domain.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
