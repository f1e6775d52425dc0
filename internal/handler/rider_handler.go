package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"bites4life/internal/model"
	"bites4life/internal/service"
)

// RiderHandler serves the dashboard and rider-app endpoints.
type RiderHandler struct {
	riderService service.RiderService
}

// NewRiderHandler creates a new rider handler.
func NewRiderHandler(riderService service.RiderService) *RiderHandler {
	return &RiderHandler{riderService: riderService}
}

// RiderView is one row of the dispatch board.
type RiderView struct {
	Name       string           `json:"name"`
	Code       string           `json:"code"`
	Status     model.Status     `json:"status"`
	RTime      string           `json:"r_time"`
	ATime      string           `json:"a_time"`
	DeviceInfo string           `json:"device_info"`
	Device     string           `json:"device"`
	RingStatus model.RingStatus `json:"ring_status"`
}

// NewRiderView projects a rider onto the board row.
func NewRiderView(r model.Rider) RiderView {
	return RiderView{
		Name:       r.Name,
		Code:       r.Code,
		Status:     r.Status,
		RTime:      r.RTime,
		ATime:      r.ATime,
		DeviceInfo: r.DeviceInfo,
		Device:     r.DeviceInfo,
		RingStatus: r.RingStatus,
	}
}

// CodeCheckResponse is what the rider app polls.
type CodeCheckResponse struct {
	Success    bool             `json:"success"`
	Name       string           `json:"name"`
	Status     model.Status     `json:"status"`
	RingStatus model.RingStatus `json:"ring_status"`
	RTime      string           `json:"r_time"`
	ATime      string           `json:"a_time"`
}

// AddRiderRequest represents a rider registration.
type AddRiderRequest struct {
	Name string `json:"name" validate:"required"`
}

// AddRiderResponse carries the generated rider code.
type AddRiderResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
}

// UpdateStatusRequest is a rider's self-report.
type UpdateStatusRequest struct {
	Code   string `json:"code" validate:"required"`
	Status string `json:"status" validate:"required"`
}

// RiderCodeRequest addresses a single rider.
type RiderCodeRequest struct {
	Code string `json:"code" validate:"required"`
}

// GetRiders godoc
// @Summary List riders
// @Tags riders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} RiderView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /get_riders [get]
func (h *RiderHandler) GetRiders(c echo.Context) error {
	riders, err := h.riderService.ListRiders(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}

	views := make([]RiderView, 0, len(riders))
	for _, r := range riders {
		views = append(views, NewRiderView(r))
	}
	return c.JSON(http.StatusOK, views)
}

// CheckCode godoc
// @Summary Look up a rider by code
// @Description Rider-app poll endpoint. May record the caller's User-Agent as the rider's device.
// @Tags riders
// @Produce json
// @Param code path string true "Rider code"
// @Success 200 {object} CodeCheckResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /check_code/{code} [get]
func (h *RiderHandler) CheckCode(c echo.Context) error {
	rider, err := h.riderService.CheckCode(c.Request().Context(), c.Param("code"), c.Request().UserAgent())
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, CodeCheckResponse{
		Success:    true,
		Name:       rider.Name,
		Status:     rider.Status,
		RingStatus: rider.RingStatus,
		RTime:      rider.RTime,
		ATime:      rider.ATime,
	})
}

// AddRider godoc
// @Summary Register a rider
// @Tags riders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddRiderRequest true "Rider"
// @Success 200 {object} AddRiderResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /add_rider [post]
func (h *RiderHandler) AddRider(c echo.Context) error {
	var req AddRiderRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	rider, err := h.riderService.AddRider(c.Request().Context(), req.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, AddRiderResponse{Success: true, Code: rider.Code})
}

// DeleteRider godoc
// @Summary Delete a rider
// @Tags riders
// @Produce json
// @Security BearerAuth
// @Param code path string true "Rider code"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /delete_rider/{code} [delete]
func (h *RiderHandler) DeleteRider(c echo.Context) error {
	if err := h.riderService.DeleteRider(c.Request().Context(), c.Param("code")); err != nil {
		return fail(c, err)
	}
	return succeed(c)
}

// UpdateStatus godoc
// @Summary Report rider status
// @Description Any non-empty status is stored. Coming and Here stamp r_time; every report clears a pending ring.
// @Tags riders
// @Accept json
// @Produce json
// @Param request body UpdateStatusRequest true "Status report"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /update_status [post]
func (h *RiderHandler) UpdateStatus(c echo.Context) error {
	var req UpdateStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.riderService.ReportStatus(c.Request().Context(), req.Code, model.Status(req.Status)); err != nil {
		return fail(c, err)
	}
	return succeed(c)
}

// MarkOnRoute godoc
// @Summary Dispatch a rider
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RiderCodeRequest true "Rider"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/on_route [post]
func (h *RiderHandler) MarkOnRoute(c echo.Context) error {
	return h.byCode(c, h.riderService.MarkOnRoute)
}

// RingRider godoc
// @Summary Ring a rider
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RiderCodeRequest true "Rider"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/ring_rider [post]
func (h *RiderHandler) RingRider(c echo.Context) error {
	return h.byCode(c, h.riderService.Ring)
}

// StopRing godoc
// @Summary Stop ringing a rider
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RiderCodeRequest true "Rider"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/stop_ring [post]
func (h *RiderHandler) StopRing(c echo.Context) error {
	return h.byCode(c, h.riderService.StopRing)
}

func (h *RiderHandler) byCode(c echo.Context, op func(ctx context.Context, code string) error) error {
	var req RiderCodeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := op(c.Request().Context(), req.Code); err != nil {
		return fail(c, err)
	}
	return succeed(c)
}
