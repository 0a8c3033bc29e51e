package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/imagevision/vision-api/internal/api/middleware"
	"github.com/imagevision/vision-api/internal/core/domain"
	"github.com/imagevision/vision-api/internal/core/ports"
)

type UserHandler struct {
	classifyService ports.ClassifyService
}

func NewUserHandler(classifyService ports.ClassifyService) *UserHandler {
	return &UserHandler{classifyService: classifyService}
}

type userResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Active   bool   `json:"active"`
}

type historyEntry struct {
	Filename        string    `json:"filename"`
	Label           string    `json:"label"`
	Probability     *float64  `json:"probability"`
	UploadTimestamp time.Time `json:"upload_timestamp"`
}

type historyResponse struct {
	Status   string         `json:"status"`
	Username string         `json:"username"`
	History  []historyEntry `json:"history"`
}

// Me returns the authenticated account.
//
// @Summary      Current user info
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]string
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, ok := c.Get(middleware.ContextKeyUser).(*domain.User)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	return c.JSON(http.StatusOK, userResponse{
		Username: user.Username,
		Email:    user.Email,
		Active:   user.Active,
	})
}

// History returns the caller's most recent classifications.
//
// @Summary      Classification history
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Number of records to fetch"  default(5)
// @Success      200    {object}  historyResponse
// @Failure      401    {object}  map[string]string
// @Router       /users/me/history [get]
func (h *UserHandler) History(c echo.Context) error {
	user, ok := c.Get(middleware.ContextKeyUser).(*domain.User)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		limit = n
	}

	images, err := h.classifyService.History(c.Request().Context(), user.Username, limit)
	if err != nil {
		return err
	}

	history := make([]historyEntry, 0, len(images))
	for _, img := range images {
		history = append(history, historyEntry{
			Filename:        img.Filename,
			Label:           img.Label,
			Probability:     img.Probability,
			UploadTimestamp: img.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, historyResponse{
		Status:   "Success",
		Username: user.Username,
		History:  history,
	})
}
