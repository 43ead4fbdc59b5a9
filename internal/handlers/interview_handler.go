package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"intervue/internal/extract"
	"intervue/internal/interview"
	"intervue/internal/llm"
	"intervue/internal/metrics"
	"intervue/internal/middleware"
	"intervue/internal/models"
	"intervue/internal/utils"
)

// maxResumeBytes caps the resume upload size.
const maxResumeBytes = 10 << 20

type InterviewHandler struct {
	manager   *interview.Manager
	provider  llm.Provider
	extractor extract.Extractor
	logger    *zap.Logger
}

func NewInterviewHandler(manager *interview.Manager, provider llm.Provider, extractor extract.Extractor, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		manager:   manager,
		provider:  provider,
		extractor: extractor,
		logger:    logger,
	}
}

// UploadResumeHandler accepts a multipart resume upload, extracts its text,
// asks the collaborator for the contact fields and starts a fresh session.
func (h *InterviewHandler) UploadResumeHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxResumeBytes); err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "invalid_multipart",
			Message: "Expected a multipart form with a 'resume' file",
		})
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "missing_file",
			Message: "A 'resume' file is required",
		})
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !extract.Supported(mimeType) {
		utils.JSON(w, http.StatusUnsupportedMediaType, models.ErrorResponse{
			Code:    "unsupported_file_type",
			Message: "Only PDF and DOCX resumes are accepted",
		})
		return
	}

	text, err := h.extractor.ExtractText(file, header.Size, mimeType)
	if err != nil {
		h.logger.Error("Resume text extraction failed", zap.Error(err),
			zap.String("filename", header.Filename),
			zap.String("mime_type", mimeType))
		metrics.ResumeExtractionFailed()
		utils.JSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{
			Code:    "extraction_failed",
			Message: "Could not read text from the uploaded resume",
		})
		return
	}

	info, err := h.provider.ExtractResumeInfo(r.Context(), text)
	if err != nil {
		h.logger.Error("Resume field extraction failed", zap.Error(err),
			zap.String("provider", h.provider.GetProviderName()))
		metrics.ResumeExtractionFailed()
		utils.JSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{
			Code:    "extraction_failed",
			Message: "Could not extract candidate details from the resume",
		})
		return
	}

	if err := h.manager.Initialize(*info); err != nil {
		if errors.Is(err, interview.ErrExtractionFailed) {
			metrics.ResumeExtractionFailed()
			utils.JSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{
				Code:    "extraction_failed",
				Message: "Could not extract candidate details from the resume",
			})
			return
		}
		h.logger.Error("Failed to initialize interview", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "session_error",
			Message: "Failed to start the interview session",
		})
		return
	}

	metrics.InterviewStarted()
	h.writeSnapshot(w, http.StatusCreated)
}

// CurrentHandler returns the active session snapshot the chat UI polls.
func (h *InterviewHandler) CurrentHandler(w http.ResponseWriter, r *http.Request) {
	h.writeSnapshot(w, http.StatusOK)
}

// MessageHandler records a free-text candidate reply during info collection.
func (h *InterviewHandler) MessageHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ChatMessageRequest](r)

	if err := h.manager.HandleCandidateMessage(req.Text); err != nil {
		if errors.Is(err, interview.ErrNotCollecting) {
			utils.JSON(w, http.StatusConflict, models.ErrorResponse{
				Code:    "not_collecting",
				Message: "The interview is not collecting candidate details right now",
			})
			return
		}
		h.logger.Error("Failed to record candidate message", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "session_error",
			Message: "Failed to record the message",
		})
		return
	}

	h.writeSnapshot(w, http.StatusOK)
}

// AnswerHandler records the selection (or timeout) for the active question.
func (h *InterviewHandler) AnswerHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.AnswerRequest](r)

	var selected *int
	if !req.TimedOut {
		selected = req.SelectedOptionIndex
	}

	if err := h.manager.SubmitAnswer(selected); err != nil {
		switch {
		case errors.Is(err, interview.ErrNoActiveQuestion):
			utils.JSON(w, http.StatusConflict, models.ErrorResponse{
				Code:    "no_active_question",
				Message: "There is no question awaiting an answer",
			})
		case errors.Is(err, interview.ErrAlreadyAnswered):
			utils.JSON(w, http.StatusConflict, models.ErrorResponse{
				Code:    "already_answered",
				Message: "The current question has already been answered",
			})
		case errors.Is(err, interview.ErrInvalidOption):
			utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
				Code:    "invalid_option_index",
				Message: "selected_option_index is out of range for this question",
			})
		default:
			h.logger.Error("Failed to record answer", zap.Error(err))
			utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
				Code:    "session_error",
				Message: "Failed to record the answer",
			})
		}
		return
	}

	h.writeSnapshot(w, http.StatusOK)
}

// ResumeSessionHandler unpauses a session restored after a restart.
func (h *InterviewHandler) ResumeSessionHandler(w http.ResponseWriter, r *http.Request) {
	h.manager.Resume()
	h.writeSnapshot(w, http.StatusOK)
}

// ResetHandler discards the active session without archiving it.
func (h *InterviewHandler) ResetHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Reset(); err != nil {
		h.logger.Error("Failed to reset session", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "session_error",
			Message: "Failed to reset the session",
		})
		return
	}
	h.writeSnapshot(w, http.StatusOK)
}

// ArchiveHandler moves the completed interview into the archive and starts a
// fresh pending session.
func (h *InterviewHandler) ArchiveHandler(w http.ResponseWriter, r *http.Request) {
	archived, err := h.manager.Archive()
	if err != nil {
		if errors.Is(err, interview.ErrNotCompleted) {
			utils.JSON(w, http.StatusConflict, models.ErrorResponse{
				Code:    "not_completed",
				Message: "Only a completed and scored interview can be archived",
			})
			return
		}
		h.logger.Error("Failed to archive interview", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "archive_error",
			Message: "Failed to archive the interview",
		})
		return
	}

	metrics.InterviewArchived()
	utils.JSON(w, http.StatusOK, models.ArchiveDetailResponse{Interview: archived})
}

func (h *InterviewHandler) writeSnapshot(w http.ResponseWriter, status int) {
	session, resumable, remaining := h.manager.Snapshot()
	utils.JSON(w, status, models.SessionResponse{
		Session:          session,
		Resumable:        resumable,
		RemainingSeconds: remaining,
		MaxScore:         len(session.Questions) * models.PointsPerQuestion,
	})
}
