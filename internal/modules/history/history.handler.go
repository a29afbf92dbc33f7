package history

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jus-waa/Intern-Attendance-Tracker/internal/shared/utils"
)

// Handler handles HTTP requests for archived intern records
type Handler struct {
	service   *Service
	retention time.Duration
}

func NewHandler(service *Service, retention time.Duration) *Handler {
	return &Handler{service: service, retention: retention}
}

// List godoc
// @Summary List archived interns
// @Tags History
// @Produce json
// @Success 200 {object} utils.Response{data=ListHistoryResponse}
// @Router /history [get]
func (h *Handler) List(c *gin.Context) {
	records, err := h.service.List(c.Request.Context())
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, records)
}

// ListBySchool godoc
// @Summary List a school's archived interns
// @Tags History
// @Produce json
// @Param school path string true "School name"
// @Success 200 {object} utils.Response{data=ListHistoryResponse}
// @Router /history/school/{school} [get]
func (h *Handler) ListBySchool(c *gin.Context) {
	records, err := h.service.ListBySchool(c.Request.Context(), c.Param("school"))
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, records)
}

// GetByIntern godoc
// @Summary Get an archived intern record
// @Tags History
// @Produce json
// @Param intern_id path string true "Intern ID"
// @Success 200 {object} utils.Response{data=HistoryResponse}
// @Failure 404 {object} utils.Response
// @Router /history/intern/{intern_id} [get]
func (h *Handler) GetByIntern(c *gin.Context) {
	record, err := h.service.GetByIntern(c.Request.Context(), c.Param("intern_id"))
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, record)
}

// ForceArchive godoc
// @Summary Force-archive a school's finished interns
// @Description Archives finished interns immediately, even while classmates are still active
// @Tags History
// @Produce json
// @Param school path string true "School name"
// @Success 200 {object} utils.Response{data=ArchiveResponse}
// @Router /history/school/{school}/archive [post]
func (h *Handler) ForceArchive(c *gin.Context) {
	archived, err := h.service.ForceArchive(c.Request.Context(), c.Param("school"))
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, ArchiveResponse{ArchivedCount: archived})
}

// DeleteExpired godoc
// @Summary Delete archived records past the retention window
// @Tags History
// @Produce json
// @Success 200 {object} utils.Response{data=CleanupResponse}
// @Router /history/expired [delete]
func (h *Handler) DeleteExpired(c *gin.Context) {
	deleted, err := h.service.DeleteExpired(c.Request.Context(), h.retention)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, CleanupResponse{DeletedCount: deleted})
}
