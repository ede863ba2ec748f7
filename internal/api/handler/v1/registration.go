package v1

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hawtsauce/gatherly-api/internal/api/handler/v1/request"
	"github.com/hawtsauce/gatherly-api/internal/api/handler/v1/response"
	"github.com/hawtsauce/gatherly-api/internal/domain"
	"github.com/hawtsauce/gatherly-api/internal/service"
)

type RegistrationService interface {
	Register(ctx context.Context, userID, eventID string, admission domain.Admission) (domain.Registration, error)
	Cancel(ctx context.Context, registrationID string, actor domain.User) error
	ListForUser(ctx context.Context, userID string) ([]domain.Registration, error)
	ListForEvent(ctx context.Context, eventID string, actor domain.User) ([]domain.Registration, error)
}

type RegistrationHandler struct {
	svc  RegistrationService
	uSvc UserService
}

func NewRegistrationHandler(svc RegistrationService, uSvc UserService) *RegistrationHandler {
	return &RegistrationHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleRegister godoc
// @Summary      Register for an event
// @Description  Claims a seat at an event, optionally against a specific ticket type. A user holds at most one registration per event.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                   true   "event ID"
// @Param        request  body      request.RegisterRequest  false  "admission details"
// @Success      201      {object}  domain.Registration
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/registrations [post]
// @Security BearerAuth
func (h *RegistrationHandler) HandleRegister(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	eventID := ctx.Param("eventID")

	// The body is optional; an empty one means general admission.
	var req request.RegisterRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))

			return
		}
	}

	admission := req.ToAdmission()

	registration, err := h.svc.Register(ctx.Request.Context(), user.ID, eventID, admission)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrTicketTypeNotFound):
			response.RenderErr(ctx, response.ErrNotFound("ticket type", "ID", admission.TicketTypeID))
		case errors.Is(err, service.ErrDuplicateRegistration):
			response.RenderErr(ctx, response.ErrConflict(service.ErrDuplicateRegistration))
		case errors.Is(err, service.ErrSoldOut):
			response.RenderErr(ctx, response.ErrConflict(service.ErrSoldOut))
		default:
			err = fmt.Errorf("v1.HandleRegister -> h.svc.Register -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, registration)
}

// HandleCancelRegistration godoc
// @Summary      Cancel a registration
// @Description  Releases the seat. Allowed for the registrant, the event owner, and admins.
// @Tags         registrations
// @Produce      json
// @Param        registrationID  path  string  true  "registration ID"
// @Success      204             "No Content"
// @Failure      401             {object}  response.Err
// @Failure      403             {object}  response.Err
// @Failure      404             {object}  response.Err
// @Failure      500             {object}  response.Err
// @Router       /registrations/{registrationID} [delete]
// @Security BearerAuth
func (h *RegistrationHandler) HandleCancelRegistration(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	registrationID := ctx.Param("registrationID")

	if err := h.svc.Cancel(ctx.Request.Context(), registrationID, user); err != nil {
		switch {
		case errors.Is(err, service.ErrRegistrationNotFound):
			response.RenderErr(ctx, response.ErrNotFound("registration", "ID", registrationID))
		case errors.Is(err, service.ErrCancellationForbidden):
			response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v may not cancel registration %v", user.ID, registrationID)))
		default:
			err = fmt.Errorf("v1.HandleCancelRegistration -> h.svc.Cancel -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListMyRegistrations godoc
// @Summary      List the authenticated user's registrations
// @Description  Returns the user's registrations, newest first, with event details attached
// @Tags         registrations
// @Produce      json
// @Success      200  {array}   domain.Registration
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /registrations/mine [get]
// @Security BearerAuth
func (h *RegistrationHandler) HandleListMyRegistrations(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	registrations, err := h.svc.ListForUser(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListMyRegistrations -> h.svc.ListForUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, registrations)
}

// HandleListEventRegistrations godoc
// @Summary      List registrations for an event
// @Description  Returns an event's registrations with attendee details. Only the event owner and admins may call this.
// @Tags         registrations
// @Produce      json
// @Param        eventID  path      string  true  "event ID"
// @Success      200      {array}   domain.Registration
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/registrations [get]
// @Security BearerAuth
func (h *RegistrationHandler) HandleListEventRegistrations(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	eventID := ctx.Param("eventID")

	registrations, err := h.svc.ListForEvent(ctx.Request.Context(), eventID, user)
	if err != nil {
		h.renderListErr(ctx, err, eventID, user)

		return
	}

	ctx.JSON(http.StatusOK, registrations)
}

// HandleExportEventRegistrations godoc
// @Summary      Export an event's registrations as CSV
// @Description  Streams a CSV with one row per registration. Only the event owner and admins may call this.
// @Tags         registrations
// @Produce      text/csv
// @Param        eventID  path      string  true  "event ID"
// @Success      200      {string}  string  "CSV payload"
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/registrations/export [get]
// @Security BearerAuth
func (h *RegistrationHandler) HandleExportEventRegistrations(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	eventID := ctx.Param("eventID")

	registrations, err := h.svc.ListForEvent(ctx.Request.Context(), eventID, user)
	if err != nil {
		h.renderListErr(ctx, err, eventID, user)

		return
	}

	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=registrations-%v.csv", eventID))

	w := csv.NewWriter(ctx.Writer)

	records := [][]string{{"Name", "Registered At"}}
	for _, reg := range registrations {
		name := "Anonymous"
		if reg.Attendee != nil {
			name = reg.Attendee.Name
		}

		records = append(records, []string{name, reg.RegisteredAt.Format(time.RFC3339)})
	}

	if err = w.WriteAll(records); err != nil {
		// Headers are already out; all we can do is log.
		zap.L().Error("writing registrations CSV", zap.String("eventID", eventID), zap.Error(err))
	}
}

func (h *RegistrationHandler) renderListErr(ctx *gin.Context, err error, eventID string, user domain.User) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
	case errors.Is(err, service.ErrNotEventOwner):
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v does not own event %v", user.ID, eventID)))
	default:
		err = fmt.Errorf("v1.RegistrationHandler -> h.svc.ListForEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
