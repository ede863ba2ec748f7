package v1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hawtsauce/gatherly-api/internal/api/handler/v1/response"
	"github.com/hawtsauce/gatherly-api/internal/service"
)

const (
	defaultDailyWindow = 7
	maxDailyWindow     = 90
)

type AnalyticsService interface {
	EventStats(ctx context.Context, organizerID string) ([]service.EventStat, error)
	OrganizerStats(ctx context.Context, organizerID string) (service.OrganizerStats, error)
	DailyRegistrations(ctx context.Context, organizerID string, days int) ([]service.DailyCount, error)
	TicketStats(ctx context.Context, organizerID string) (service.TicketStats, error)
	AttendeeInsights(ctx context.Context, organizerID string) (service.AttendeeInsights, error)
}

type AnalyticsHandler struct {
	svc  AnalyticsService
	uSvc UserService
}

func NewAnalyticsHandler(svc AnalyticsService, uSvc UserService) *AnalyticsHandler {
	return &AnalyticsHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleEventStats godoc
// @Summary      Top events by registrations
// @Description  Returns the authenticated organizer's busiest events
// @Tags         analytics
// @Produce      json
// @Success      200  {array}   service.EventStat
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /analytics/events [get]
// @Security BearerAuth
func (h *AnalyticsHandler) HandleEventStats(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	stats, err := h.svc.EventStats(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleEventStats -> h.svc.EventStats -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// HandleOrganizerStats godoc
// @Summary      Organizer dashboard counters
// @Tags         analytics
// @Produce      json
// @Success      200  {object}  service.OrganizerStats
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /analytics/stats [get]
// @Security BearerAuth
func (h *AnalyticsHandler) HandleOrganizerStats(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	stats, err := h.svc.OrganizerStats(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleOrganizerStats -> h.svc.OrganizerStats -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// HandleDailyRegistrations godoc
// @Summary      Registrations per day
// @Description  Returns one bucket per day for the trailing window, oldest first
// @Tags         analytics
// @Produce      json
// @Param        days  query     int  false  "window size in days (1-90, default 7)"
// @Success      200   {array}   service.DailyCount
// @Failure      400   {object}  response.Err
// @Failure      401   {object}  response.Err
// @Failure      500   {object}  response.Err
// @Router       /analytics/daily [get]
// @Security BearerAuth
func (h *AnalyticsHandler) HandleDailyRegistrations(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	days := defaultDailyWindow
	if raw := ctx.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxDailyWindow {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("days must be an integer between 1 and %v", maxDailyWindow)))

			return
		}
		days = parsed
	}

	counts, err := h.svc.DailyRegistrations(ctx.Request.Context(), user.ID, days)
	if err != nil {
		err = fmt.Errorf("v1.HandleDailyRegistrations -> h.svc.DailyRegistrations -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, counts)
}

// HandleTicketStats godoc
// @Summary      Ticket inventory and revenue counters
// @Tags         analytics
// @Produce      json
// @Success      200  {object}  service.TicketStats
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /analytics/tickets [get]
// @Security BearerAuth
func (h *AnalyticsHandler) HandleTicketStats(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	stats, err := h.svc.TicketStats(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleTicketStats -> h.svc.TicketStats -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// HandleAttendeeInsights godoc
// @Summary      Attendee counters
// @Tags         analytics
// @Produce      json
// @Success      200  {object}  service.AttendeeInsights
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /analytics/attendees [get]
// @Security BearerAuth
func (h *AnalyticsHandler) HandleAttendeeInsights(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	insights, err := h.svc.AttendeeInsights(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleAttendeeInsights -> h.svc.AttendeeInsights -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, insights)
}
