package attendance

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jus-waa/Intern-Attendance-Tracker/internal/shared/errors"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/shared/utils"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/shared/validator"
)

// Handler handles HTTP requests for attendance
type Handler struct {
	service   *Service
	validator *validator.Validator
}

// NewHandler creates a new attendance handler
func NewHandler(service *Service, validatorInstance *validator.Validator) *Handler {
	return &Handler{service: service, validator: validatorInstance}
}

// CheckIn godoc
// @Summary Check in an intern
// @Description Opens an attendance record for the intern's current shift and classifies punctuality
// @Tags Attendance
// @Accept json
// @Produce json
// @Param body body CheckInRequest true "Check-in details"
// @Success 201 {object} utils.Response{data=AttendanceResponse}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /attendance/check-in [post]
func (h *Handler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	if err := h.validator.Validate(req); err != nil {
		validationErrors := validator.TranslateValidationErrors(err)
		utils.Error(c, errors.WithDetails(errors.ErrCodeValidation, "Validation failed", validationErrors))
		return
	}

	attendance, err := h.service.CheckIn(c.Request.Context(), req.InternID, time.Now())
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusCreated, attendance)
}

// CheckOut godoc
// @Summary Check out an intern
// @Description Closes the intern's open attendance record and computes the elapsed duration
// @Tags Attendance
// @Accept json
// @Produce json
// @Param body body CheckOutRequest true "Check-out details"
// @Success 200 {object} utils.Response{data=AttendanceResponse}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /attendance/check-out [post]
func (h *Handler) CheckOut(c *gin.Context) {
	var req CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	if err := h.validator.Validate(req); err != nil {
		validationErrors := validator.TranslateValidationErrors(err)
		utils.Error(c, errors.WithDetails(errors.ErrCodeValidation, "Validation failed", validationErrors))
		return
	}

	attendance, err := h.service.CheckOut(c.Request.Context(), req.InternID, time.Now())
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, attendance)
}

// Scan godoc
// @Summary Toggle attendance by QR code
// @Description Checks in when the intern has no open record for the current shift, checks out otherwise
// @Tags Attendance
// @Accept json
// @Produce json
// @Param body body ScanRequest true "QR payload"
// @Success 200 {object} utils.Response{data=AttendanceResponse}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /attendance/scan [post]
func (h *Handler) Scan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	if err := h.validator.Validate(req); err != nil {
		validationErrors := validator.TranslateValidationErrors(err)
		utils.Error(c, errors.WithDetails(errors.ErrCodeValidation, "Validation failed", validationErrors))
		return
	}

	attendance, err := h.service.ScanToggle(c.Request.Context(), req.QrCode, time.Now())
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, attendance)
}

// GetAttendance godoc
// @Summary Get attendance record
// @Description Retrieves a single attendance record by ID
// @Tags Attendance
// @Produce json
// @Param id path string true "Attendance record ID"
// @Success 200 {object} utils.Response{data=AttendanceResponse}
// @Failure 404 {object} utils.Response
// @Router /attendance/{id} [get]
func (h *Handler) GetAttendance(c *gin.Context) {
	attendance, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, attendance)
}

// ListByIntern godoc
// @Summary List an intern's attendance
// @Description Retrieves all attendance records for one intern, newest first
// @Tags Attendance
// @Produce json
// @Param intern_id path string true "Intern ID"
// @Success 200 {object} utils.Response{data=ListAttendanceResponse}
// @Router /attendance/intern/{intern_id} [get]
func (h *Handler) ListByIntern(c *gin.Context) {
	records, err := h.service.ListByIntern(c.Request.Context(), c.Param("intern_id"))
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, records)
}

// ListBySchool godoc
// @Summary List a school's attendance
// @Description Retrieves attendance records for every intern from one school
// @Tags Attendance
// @Produce json
// @Param school path string true "School name"
// @Success 200 {object} utils.Response{data=ListAttendanceResponse}
// @Router /attendance/school/{school} [get]
func (h *Handler) ListBySchool(c *gin.Context) {
	records, err := h.service.ListBySchool(c.Request.Context(), c.Param("school"))
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, records)
}

// ListByDate godoc
// @Summary List attendance by date
// @Description Retrieves all attendance records for one calendar date
// @Tags Attendance
// @Produce json
// @Param date path string true "Attendance date (YYYY-MM-DD)"
// @Success 200 {object} utils.Response{data=ListAttendanceResponse}
// @Failure 400 {object} utils.Response
// @Router /attendance/date/{date} [get]
func (h *Handler) ListByDate(c *gin.Context) {
	day, err := time.ParseInLocation("2006-01-02", c.Param("date"), h.service.Location())
	if err != nil {
		utils.Error(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid date, expected YYYY-MM-DD"))
		return
	}

	records, err := h.service.ListByDate(c.Request.Context(), day)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, records)
}

// UpdateAttendance godoc
// @Summary Manually edit attendance
// @Description Administrative correction of times, remark, or notes on a record
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Attendance record ID"
// @Param body body ManualAttendanceRequest true "Fields to update"
// @Success 200 {object} utils.Response{data=AttendanceResponse}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /attendance/{id} [put]
func (h *Handler) UpdateAttendance(c *gin.Context) {
	var req ManualAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	if err := h.validator.Validate(req); err != nil {
		validationErrors := validator.TranslateValidationErrors(err)
		utils.Error(c, errors.WithDetails(errors.ErrCodeValidation, "Validation failed", validationErrors))
		return
	}

	attendance, err := h.service.UpdateManual(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, attendance)
}

// DeleteAttendance godoc
// @Summary Delete attendance record
// @Description Removes a single attendance record
// @Tags Attendance
// @Produce json
// @Param id path string true "Attendance record ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /attendance/{id} [delete]
func (h *Handler) DeleteAttendance(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"message": "Attendance record deleted"})
}

// MarkAbsent godoc
// @Summary Mark every active intern absent
// @Description Creates an Absent placeholder for each active intern without a record for the current shift
// @Tags Attendance
// @Produce json
// @Success 200 {object} utils.Response{data=AbsentResponse}
// @Router /attendance/mark-absent [post]
func (h *Handler) MarkAbsent(c *gin.Context) {
	marked, err := h.service.MarkAllAbsent(c.Request.Context(), time.Now())
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, AbsentResponse{MarkedCount: marked})
}

// Sweep godoc
// @Summary Close timed-out records
// @Description Closes every open record whose shift end has passed, stamping the shift end as time-out
// @Tags Attendance
// @Produce json
// @Success 200 {object} utils.Response{data=SweepResponse}
// @Router /attendance/sweep [post]
func (h *Handler) Sweep(c *gin.Context) {
	closed, err := h.service.SweepTimeouts(c.Request.Context(), time.Now())
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, SweepResponse{ClosedCount: closed})
}

// Export godoc
// @Summary Export a school timesheet
// @Description Renders all attendance records for a school as an xlsx download
// @Tags Attendance
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param school path string true "School name"
// @Success 200 {file} binary
// @Router /attendance/school/{school}/export [get]
func (h *Handler) Export(c *gin.Context) {
	buf, filename, err := h.service.ExportTimesheet(c.Request.Context(), c.Param("school"))
	if err != nil {
		utils.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
