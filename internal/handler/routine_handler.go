package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/poly-routine-api/internal/dto"
	"github.com/noah-isme/poly-routine-api/internal/models"
	"github.com/noah-isme/poly-routine-api/internal/service"
	appErrors "github.com/noah-isme/poly-routine-api/pkg/errors"
	"github.com/noah-isme/poly-routine-api/pkg/response"
)

// RoutineHandler exposes the routine grid endpoints.
type RoutineHandler struct {
	service   *service.RoutineService
	validator *validator.Validate
}

// NewRoutineHandler constructs handler.
func NewRoutineHandler(svc *service.RoutineService, validate *validator.Validate) *RoutineHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &RoutineHandler{service: svc, validator: validate}
}

// GetStudentRoutine godoc
// @Summary Weekly routine grid for a department/semester/shift
// @Tags Routines
// @Produce json
// @Param department query string true "Department"
// @Param semester query int true "Semester (1-8)"
// @Param shift query string true "Shift (MORNING|DAY|EVENING)"
// @Param session query string true "Academic session"
// @Success 200 {object} response.Envelope
// @Router /routines [get]
func (h *RoutineHandler) GetStudentRoutine(c *gin.Context) {
	semester, _ := strconv.Atoi(c.Query("semester"))
	filter, err := models.NewStudentFilter(
		c.Query("department"),
		semester,
		models.Shift(strings.ToUpper(c.Query("shift"))),
		c.Query("session"),
	)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return
	}
	h.respondGrid(c, filter)
}

// GetTeacherRoutine godoc
// @Summary Weekly routine grid for a teacher
// @Tags Routines
// @Produce json
// @Param id path string true "Teacher ID"
// @Param shift query string true "Shift (MORNING|DAY|EVENING)"
// @Param session query string true "Academic session"
// @Success 200 {object} response.Envelope
// @Router /routines/teacher/{id} [get]
func (h *RoutineHandler) GetTeacherRoutine(c *gin.Context) {
	filter, err := models.NewTeacherFilter(
		c.Param("id"),
		models.Shift(strings.ToUpper(c.Query("shift"))),
		c.Query("session"),
		"", 0,
	)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return
	}
	h.respondGrid(c, filter)
}

func (h *RoutineHandler) respondGrid(c *gin.Context, filter models.FilterContext) {
	grid, err := h.service.GetGrid(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewRoutineGridResponse(filter, grid), nil)
}

// Save godoc
// @Summary Save an edited routine grid
// @Tags Routines
// @Accept json
// @Produce json
// @Param payload body dto.SaveRoutineRequest true "Filter context and edited grid"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope "Scheduling-rule violations"
// @Failure 409 {object} response.Envelope "Conflicts or partial batch failure"
// @Router /routines [put]
func (h *RoutineHandler) Save(c *gin.Context) {
	var req dto.SaveRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid save payload"))
		return
	}
	filter, err := req.FilterContext()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error()))
		return
	}

	outcome, err := h.service.SaveGrid(c.Request.Context(), filter, req.RoutineGrid())
	if err != nil {
		response.Error(c, err)
		return
	}
	if outcome.Saved {
		response.JSON(c, http.StatusOK, saveResponse(filter, outcome), nil)
		return
	}
	response.ErrorWithData(c, failureError(outcome), saveResponse(filter, outcome))
}

type savePayload struct {
	Saved      bool                     `json:"saved"`
	Grid       dto.RoutineGridResponse  `json:"grid"`
	Failure    service.SaveFailure      `json:"failure,omitempty"`
	Violations []service.CellViolations `json:"violations,omitempty"`
	Batch      *models.BatchResult      `json:"batch,omitempty"`
}

func saveResponse(filter models.FilterContext, outcome *service.SaveOutcome) savePayload {
	return savePayload{
		Saved:      outcome.Saved,
		Grid:       dto.NewRoutineGridResponse(filter, outcome.Grid),
		Failure:    outcome.Failure,
		Violations: outcome.Violations,
		Batch:      outcome.Batch,
	}
}

// failureError maps the save failure classification onto the HTTP error
// taxonomy. Edits are retained server-side only in session terms; the
// response always carries the edited grid back so the client keeps them.
func failureError(outcome *service.SaveOutcome) error {
	switch outcome.Failure {
	case service.FailureValidation:
		return appErrors.New(appErrors.ErrValidation.Code, http.StatusUnprocessableEntity, "scheduling-rule violations")
	case service.FailureConflict:
		return appErrors.Clone(appErrors.ErrConflict, "schedule conflict detected")
	case service.FailurePartialBatch:
		return appErrors.Clone(appErrors.ErrPartialBatch, "some operations in the batch failed")
	case service.FailureNetwork:
		return appErrors.Clone(appErrors.ErrStorage, "storage unavailable, try again")
	default:
		return appErrors.ErrInternal
	}
}
