package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"pdfmcq/internal/app"
	"pdfmcq/internal/domain"
)

// maxUploadBytes bounds in-memory multipart parsing.
const maxUploadBytes = 32 << 20

// Handler exposes the quiz service over REST.
type Handler struct {
	service        *app.QuizService
	maxQuestions   int
	maxPages       int
	frontendOrigin string
	log            zerolog.Logger
}

func NewHandler(service *app.QuizService, maxQuestions, maxPages int, frontendOrigin string, log zerolog.Logger) *Handler {
	return &Handler{
		service:        service,
		maxQuestions:   maxQuestions,
		maxPages:       maxPages,
		frontendOrigin: frontendOrigin,
		log:            log,
	}
}

// Routes builds the full handler chain: routing, CORS, request logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("POST /upload-pdf", h.uploadPDF)
	mux.HandleFunc("GET /quiz/{quizID}", h.getQuiz)
	mux.HandleFunc("POST /quiz/{quizID}/answer", h.submitAnswer)
	mux.HandleFunc("GET /config", h.getConfig)
	return h.withCORS(h.withLogging(mux))
}

func (h *Handler) uploadPDF(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid multipart body.")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Missing file field.")
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Could not read uploaded file.")
		return
	}

	requested := 0
	if raw := r.FormValue("num_questions"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			requested = n
		}
	}

	resp, err := h.service.CreateQuiz(r.Context(), header.Filename, payload, requested)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getQuiz(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.GetQuiz(r.Context(), r.PathValue("quizID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req domain.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid answer payload.")
		return
	}
	resp, err := h.service.SubmitAnswer(r.Context(), r.PathValue("quizID"), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.ConfigResponse{
		MaxQuestions: h.maxQuestions,
		MaxPages:     h.maxPages,
	})
}

// writeError maps domain sentinels onto HTTP statuses with the detail
// strings clients surface verbatim.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotPDF):
		writeDetail(w, http.StatusBadRequest, "Only PDF files are supported.")
	case errors.Is(err, domain.ErrNoText):
		writeDetail(w, http.StatusBadRequest, "Could not extract text from PDF.")
	case errors.Is(err, domain.ErrInvalidOptionIndex):
		writeDetail(w, http.StatusBadRequest, "Invalid option index.")
	case errors.Is(err, domain.ErrQuizNotFound):
		writeDetail(w, http.StatusNotFound, "Quiz not found.")
	case errors.Is(err, domain.ErrQuestionNotFound):
		writeDetail(w, http.StatusNotFound, "Question not found.")
	default:
		h.log.Error().Err(err).Msg("request failed")
		writeDetail(w, http.StatusInternalServerError, "Internal server error.")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func (h *Handler) withCORS(next http.Handler) http.Handler {
	origin := h.frontendOrigin
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
