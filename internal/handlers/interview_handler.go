package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/phanicodella/talentsync/internal/interview"
	"github.com/phanicodella/talentsync/internal/middleware"
	"github.com/phanicodella/talentsync/internal/models"
	"github.com/phanicodella/talentsync/internal/repositories"
	"github.com/phanicodella/talentsync/internal/utils"
)

// LifecycleController is the slice of the interview controller the HTTP
// layer depends on.
type LifecycleController interface {
	StartSession(ctx context.Context, name, email string) (*models.InterviewSession, error)
	SubmitAnswer(ctx context.Context, sessionID, question, answer string, duration int) (*models.InterviewSession, error)
	EndSession(ctx context.Context, sessionID string) (*models.InterviewSession, error)
	GetSession(ctx context.Context, sessionID string) (*models.InterviewSession, error)
}

// ReportRenderer renders a session into a PDF document.
type ReportRenderer interface {
	Render(session *models.InterviewSession) ([]byte, error)
}

// ResultsMailer delivers a rendered report to a recipient.
type ResultsMailer interface {
	SendInterviewResults(to string, session *models.InterviewSession, pdf []byte) error
}

type InterviewHandler struct {
	controller LifecycleController
	renderer   ReportRenderer
	mailer     ResultsMailer
	devMode    bool
	logger     *zap.Logger
}

func NewInterviewHandler(controller LifecycleController, renderer ReportRenderer, mailer ResultsMailer, devMode bool, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		controller: controller,
		renderer:   renderer,
		mailer:     mailer,
		devMode:    devMode,
		logger:     logger,
	}
}

func (h *InterviewHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CreateInterviewRequest](r)

	session, err := h.controller.StartSession(r.Context(), req.Name, req.Email)
	if err != nil {
		h.writeError(w, err, "Failed to create interview session")
		return
	}

	utils.JSON(w, http.StatusCreated, models.OK(session))
}

func (h *InterviewHandler) SubmitAnswerHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SubmitAnswerRequest](r)

	session, err := h.controller.SubmitAnswer(r.Context(), req.InterviewID, req.Question, req.Answer, req.Duration)
	if err != nil {
		h.writeError(w, err, "Failed to process answer")
		return
	}

	utils.JSON(w, http.StatusOK, models.OK(session))
}

func (h *InterviewHandler) EndHandler(w http.ResponseWriter, r *http.Request) {
	session, err := h.controller.EndSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err, "Failed to end interview")
		return
	}

	utils.JSON(w, http.StatusOK, models.OK(session))
}

func (h *InterviewHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	session, err := h.controller.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err, "Failed to retrieve interview")
		return
	}

	utils.JSON(w, http.StatusOK, models.OK(session))
}

func (h *InterviewHandler) ExportPDFHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, err := h.controller.GetSession(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Failed to retrieve interview")
		return
	}

	pdf, err := h.renderer.Render(session)
	if err != nil {
		h.logger.Error("report rendering failed", zap.String("id", id), zap.Error(err))
		h.writeError(w, err, "Failed to generate interview report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "interview-results-"+id+".pdf"))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

func (h *InterviewHandler) ShareHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ShareRequest](r)
	id := chi.URLParam(r, "id")

	session, err := h.controller.GetSession(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Failed to retrieve interview")
		return
	}

	pdf, err := h.renderer.Render(session)
	if err != nil {
		h.logger.Error("report rendering failed", zap.String("id", id), zap.Error(err))
		h.writeError(w, err, "Failed to generate interview report")
		return
	}

	if err := h.mailer.SendInterviewResults(req.Email, session, pdf); err != nil {
		h.logger.Error("result delivery failed",
			zap.String("id", id),
			zap.String("to", req.Email),
			zap.Error(err))
		h.writeError(w, err, "Failed to share interview results")
		return
	}

	utils.JSON(w, http.StatusOK, models.OK(map[string]string{
		"message": "Interview results sent to " + req.Email,
	}))
}

// writeError maps controller errors onto the uniform envelope. Validation
// and not-found messages pass through verbatim; upstream faults collapse
// into a generic operational message, with the underlying cause exposed only
// in development mode.
func (h *InterviewHandler) writeError(w http.ResponseWriter, err error, genericMsg string) {
	var validationErr *interview.ValidationError
	switch {
	case errors.As(err, &validationErr):
		utils.JSON(w, http.StatusBadRequest, models.Fail(validationErr.Message))
	case errors.Is(err, repositories.ErrNotFound):
		utils.JSON(w, http.StatusNotFound, models.Fail("Interview not found"))
	case errors.Is(err, interview.ErrNotActive):
		utils.JSON(w, http.StatusNotFound, models.Fail("Interview is not active"))
	default:
		h.logger.Error("operation failed", zap.Error(err))
		if h.devMode {
			utils.JSON(w, http.StatusInternalServerError, models.FailWithDetails(genericMsg, err.Error()))
			return
		}
		utils.JSON(w, http.StatusInternalServerError, models.Fail(genericMsg))
	}
}
