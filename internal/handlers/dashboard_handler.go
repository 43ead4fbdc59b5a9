package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"intervue/internal/models"
	"intervue/internal/storage"
	"intervue/internal/utils"
)

type DashboardHandler struct {
	store  *storage.Store
	logger *zap.Logger
}

func NewDashboardHandler(store *storage.Store, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{store: store, logger: logger}
}

// ListHandler returns the archived interviews, filtered and sorted by the
// query parameters.
func (h *DashboardHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	query := models.DashboardQuery{
		Search: r.URL.Query().Get("search"),
		SortBy: r.URL.Query().Get("sort_by"),
		Order:  r.URL.Query().Get("order"),
	}
	if err := query.Validate(); err != nil {
		utils.JSON(w, http.StatusBadRequest, *err.(*models.ErrorResponse))
		return
	}

	archived, err := h.store.ListArchived()
	if err != nil {
		h.logger.Error("Failed to list archived interviews", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "storage_error",
			Message: "Failed to load the interview archive",
		})
		return
	}

	filtered := storage.FilterAndSort(archived, query.Search, query.SortBy, query.Order)
	utils.JSON(w, http.StatusOK, models.DashboardListResponse{
		Interviews: filtered,
		Total:      len(filtered),
	})
}

// DetailHandler returns one archived interview with its full transcript.
func (h *DashboardHandler) DetailHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	archived, err := h.store.GetArchived(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
				Code:    "not_found",
				Message: "No archived interview with that id",
			})
			return
		}
		h.logger.Error("Failed to load archived interview", zap.Error(err), zap.String("id", id))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "storage_error",
			Message: "Failed to load the archived interview",
		})
		return
	}

	session, err := archived.Session()
	if err != nil {
		h.logger.Error("Failed to decode archived snapshot", zap.Error(err), zap.String("id", id))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "storage_error",
			Message: "Archived interview snapshot is unreadable",
		})
		return
	}

	utils.JSON(w, http.StatusOK, models.ArchiveDetailResponse{
		Interview: archived,
		Session:   session,
	})
}
