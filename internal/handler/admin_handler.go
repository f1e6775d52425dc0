package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"bites4life/internal/service"
)

// AdminHandler handles admin account management.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// AddAdminRequest represents a new admin account.
type AddAdminRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AddAdminResponse carries the new admin's id.
type AddAdminResponse struct {
	Success bool `json:"success"`
	ID      uint `json:"id"`
}

// AdminView is one admin as listed to the superadmin.
type AdminView struct {
	ID     uint   `json:"id"`
	Email  string `json:"email"`
	Device string `json:"device"`
}

// AddAdmin godoc
// @Summary Create an admin
// @Tags admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddAdminRequest true "Admin"
// @Success 200 {object} AddAdminResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /add_admin [post]
func (h *AdminHandler) AddAdmin(c echo.Context) error {
	var req AddAdminRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.adminService.AddAdmin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, AddAdminResponse{Success: true, ID: user.ID})
}

// GetAdmins godoc
// @Summary List admins
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Success 200 {array} AdminView
// @Router /get_admins [get]
func (h *AdminHandler) GetAdmins(c echo.Context) error {
	users, err := h.adminService.ListAdmins(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}

	views := make([]AdminView, 0, len(users))
	for _, u := range users {
		views = append(views, AdminView{ID: u.ID, Email: u.Email, Device: u.LastDevice})
	}
	return c.JSON(http.StatusOK, views)
}

// DeleteAdmin godoc
// @Summary Delete an admin
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Param id path int true "Admin ID"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /delete_admin/{id} [delete]
func (h *AdminHandler) DeleteAdmin(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return badRequest("invalid admin id")
	}

	if err := h.adminService.DeleteAdmin(c.Request().Context(), uint(id)); err != nil {
		return fail(c, err)
	}
	return succeed(c)
}
