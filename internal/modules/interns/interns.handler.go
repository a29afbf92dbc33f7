package interns

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jus-waa/Intern-Attendance-Tracker/internal/shared/errors"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/shared/utils"
	"github.com/jus-waa/Intern-Attendance-Tracker/internal/shared/validator"
)

// Handler handles HTTP requests for interns
type Handler struct {
	service   *Service
	validator *validator.Validator
}

func NewHandler(service *Service, validatorInstance *validator.Validator) *Handler {
	return &Handler{service: service, validator: validatorInstance}
}

// Create godoc
// @Summary Register an intern
// @Description Creates an intern with a shift assignment, required hours, and a generated QR code
// @Tags Interns
// @Accept json
// @Produce json
// @Param body body CreateInternRequest true "Intern details"
// @Success 201 {object} utils.Response{data=InternResponse}
// @Failure 400 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /interns [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateInternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	if err := h.validator.Validate(req); err != nil {
		validationErrors := validator.TranslateValidationErrors(err)
		utils.Error(c, errors.WithDetails(errors.ErrCodeValidation, "Validation failed", validationErrors))
		return
	}

	intern, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusCreated, intern)
}

// Get godoc
// @Summary Get an intern
// @Tags Interns
// @Produce json
// @Param id path string true "Intern ID"
// @Success 200 {object} utils.Response{data=InternResponse}
// @Failure 404 {object} utils.Response
// @Router /interns/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	intern, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, intern)
}

// List godoc
// @Summary List all interns
// @Tags Interns
// @Produce json
// @Success 200 {object} utils.Response{data=ListInternsResponse}
// @Router /interns [get]
func (h *Handler) List(c *gin.Context) {
	interns, err := h.service.List(c.Request.Context())
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, interns)
}

// ListBySchool godoc
// @Summary List interns from one school
// @Tags Interns
// @Produce json
// @Param school path string true "School name"
// @Success 200 {object} utils.Response{data=ListInternsResponse}
// @Router /interns/school/{school} [get]
func (h *Handler) ListBySchool(c *gin.Context) {
	interns, err := h.service.ListBySchool(c.Request.Context(), c.Param("school"))
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, interns)
}

// Update godoc
// @Summary Update an intern
// @Description Edits profile, shift assignment, and required hours
// @Tags Interns
// @Accept json
// @Produce json
// @Param id path string true "Intern ID"
// @Param body body UpdateInternRequest true "Fields to update"
// @Success 200 {object} utils.Response{data=InternResponse}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /interns/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	var req UpdateInternRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	if err := h.validator.Validate(req); err != nil {
		validationErrors := validator.TranslateValidationErrors(err)
		utils.Error(c, errors.WithDetails(errors.ErrCodeValidation, "Validation failed", validationErrors))
		return
	}

	intern, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, intern)
}

// UpdateStatus godoc
// @Summary Change an intern's status
// @Description Moves an intern between Active, Completed, and Terminated
// @Tags Interns
// @Accept json
// @Produce json
// @Param id path string true "Intern ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} utils.Response{data=InternResponse}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /interns/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	if err := h.validator.Validate(req); err != nil {
		validationErrors := validator.TranslateValidationErrors(err)
		utils.Error(c, errors.WithDetails(errors.ErrCodeValidation, "Validation failed", validationErrors))
		return
	}

	intern, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, intern)
}

// Delete godoc
// @Summary Delete an intern
// @Tags Interns
// @Produce json
// @Param id path string true "Intern ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /interns/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, http.StatusOK, gin.H{"message": "Intern deleted"})
}
