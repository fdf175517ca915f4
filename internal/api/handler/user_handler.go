package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// GetProfile handles GET /api/users/profile.
//
// @Summary      Current user's profile
// @Tags         users
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /users/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	caller, err := sessionUser(c)
	if err != nil {
		return err
	}

	user, err := h.service.GetProfile(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateProfile handles PUT /api/users/profile. Only fields present in the
// body are changed.
//
// @Summary      Update the current user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  updateProfileResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	caller, err := sessionUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), caller.ID, req.toUserPatch())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updateProfileResponse{
		Message: "Profile updated successfully",
		User: profileSummary{
			Name:    user.Name,
			Email:   user.Email,
			Address: user.Address,
			Role:    string(user.Role),
		},
	})
}
