package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/hawtsauce/gatherly-api/internal/api/handler/v1/request"
	"github.com/hawtsauce/gatherly-api/internal/api/handler/v1/response"
	"github.com/hawtsauce/gatherly-api/internal/domain"
	"github.com/hawtsauce/gatherly-api/internal/service"
)

type TicketService interface {
	CreateTicketType(ctx context.Context, eventID string, actor domain.User, draft service.TicketTypeDraft) (domain.TicketType, error)
	UpdateTicketType(ctx context.Context, ticketTypeID string, actor domain.User, patch service.TicketTypePatch) (domain.TicketType, error)
	DeleteTicketType(ctx context.Context, ticketTypeID string, actor domain.User) error
	ListTicketTypes(ctx context.Context, eventID string) ([]domain.TicketType, error)
}

type TicketHandler struct {
	svc  TicketService
	uSvc UserService
}

func NewTicketHandler(svc TicketService, uSvc UserService) *TicketHandler {
	return &TicketHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListTicketTypes godoc
// @Summary      List ticket types for an event
// @Tags         tickets
// @Produce      json
// @Param        eventID  path      string  true  "event ID"
// @Success      200      {array}   domain.TicketType
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/ticket-types [get]
func (h *TicketHandler) HandleListTicketTypes(ctx *gin.Context) {
	eventID := ctx.Param("eventID")

	ticketTypes, err := h.svc.ListTicketTypes(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))

			return
		}

		err = fmt.Errorf("v1.HandleListTicketTypes -> h.svc.ListTicketTypes -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, ticketTypes)
}

// HandleCreateTicketType godoc
// @Summary      Create a ticket type
// @Description  Adds a ticket type to an event owned by the authenticated user
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                           true  "event ID"
// @Param        request  body      request.CreateTicketTypeRequest  true  "ticket type details"
// @Success      201      {object}  domain.TicketType
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/ticket-types [post]
// @Security BearerAuth
func (h *TicketHandler) HandleCreateTicketType(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	eventID := ctx.Param("eventID")

	var req request.CreateTicketTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	ticketType, err := h.svc.CreateTicketType(ctx.Request.Context(), eventID, user, req.ToDraft())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrNotEventOwner):
			response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v does not own event %v", user.ID, eventID)))
		default:
			err = fmt.Errorf("v1.HandleCreateTicketType -> h.svc.CreateTicketType -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, ticketType)
}

// HandleUpdateTicketType godoc
// @Summary      Update a ticket type
// @Description  Applies a partial update. The quantity can never drop below the number already sold.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        ticketTypeID  path      string                           true  "ticket type ID"
// @Param        request       body      request.UpdateTicketTypeRequest  true  "fields to update"
// @Success      200           {object}  domain.TicketType
// @Failure      400           {object}  response.Err
// @Failure      401           {object}  response.Err
// @Failure      403           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Failure      409           {object}  response.Err
// @Failure      500           {object}  response.Err
// @Router       /ticket-types/{ticketTypeID} [put]
// @Security BearerAuth
func (h *TicketHandler) HandleUpdateTicketType(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	ticketTypeID := ctx.Param("ticketTypeID")

	var req request.UpdateTicketTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	ticketType, err := h.svc.UpdateTicketType(ctx.Request.Context(), ticketTypeID, user, req.ToPatch())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketTypeNotFound):
			response.RenderErr(ctx, response.ErrNotFound("ticket type", "ID", ticketTypeID))
		case errors.Is(err, service.ErrNotEventOwner):
			response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v does not own ticket type %v", user.ID, ticketTypeID)))
		case errors.Is(err, service.ErrQuantityBelowSold):
			response.RenderErr(ctx, response.ErrConflict(service.ErrQuantityBelowSold))
		default:
			var vErrs validation.Errors
			if errors.As(err, &vErrs) {
				response.RenderErr(ctx, response.ErrBadRequest(err))

				return
			}

			err = fmt.Errorf("v1.HandleUpdateTicketType -> h.svc.UpdateTicketType -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, ticketType)
}

// HandleDeleteTicketType godoc
// @Summary      Delete a ticket type
// @Description  Removes a ticket type. Fails while any tickets of this type remain sold.
// @Tags         tickets
// @Produce      json
// @Param        ticketTypeID  path      string  true  "ticket type ID"
// @Success      204           "No Content"
// @Failure      401           {object}  response.Err
// @Failure      403           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Failure      409           {object}  response.Err
// @Failure      500           {object}  response.Err
// @Router       /ticket-types/{ticketTypeID} [delete]
// @Security BearerAuth
func (h *TicketHandler) HandleDeleteTicketType(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	ticketTypeID := ctx.Param("ticketTypeID")

	if err := h.svc.DeleteTicketType(ctx.Request.Context(), ticketTypeID, user); err != nil {
		switch {
		case errors.Is(err, service.ErrTicketTypeNotFound):
			response.RenderErr(ctx, response.ErrNotFound("ticket type", "ID", ticketTypeID))
		case errors.Is(err, service.ErrNotEventOwner):
			response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v does not own ticket type %v", user.ID, ticketTypeID)))
		case errors.Is(err, service.ErrTicketTypeInUse):
			response.RenderErr(ctx, response.ErrConflict(service.ErrTicketTypeInUse))
		default:
			err = fmt.Errorf("v1.HandleDeleteTicketType -> h.svc.DeleteTicketType -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.Status(http.StatusNoContent)
}
