package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/imagevision/vision-api/internal/api/metrics"
	"github.com/imagevision/vision-api/internal/api/middleware"
	"github.com/imagevision/vision-api/internal/core/ports"
)

const defaultMaxUploadBytes = 10 << 20

type MLHandler struct {
	classifyService ports.ClassifyService
	maxUploadBytes  int64
}

func NewMLHandler(classifyService ports.ClassifyService, maxUploadBytes int64) *MLHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &MLHandler{classifyService: classifyService, maxUploadBytes: maxUploadBytes}
}

type inferenceResult struct {
	Filename    string   `json:"filename"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Prediction  string   `json:"prediction"`
	Probability *float64 `json:"probability"`
}

type inferenceResponse struct {
	Status  string          `json:"status"`
	Results inferenceResult `json:"results"`
}

// Predict classifies an uploaded image and records it in the caller's history.
//
// @Summary      Classify an image
// @Tags         ml
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Image file (png, jpeg or gif)"
// @Success      200   {object}  inferenceResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      413   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /ml/predict [post]
func (h *MLHandler) Predict(c echo.Context) error {
	username, _ := c.Get(middleware.ContextKeyUsername).(string)

	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if fh.Size > h.maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file too large")
	}

	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.maxUploadBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read file")
	}
	if int64(len(data)) > h.maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file too large")
	}

	start := time.Now()
	result, err := h.classifyService.Classify(c.Request().Context(), ports.ClassifyInput{
		Filename: fh.Filename,
		Data:     data,
		Username: username,
	})
	if err != nil {
		metrics.ClassificationsTotal.WithLabelValues("error").Inc()
		metrics.ClassificationDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return err
	}

	outcome := "success"
	if result.Probability == nil {
		outcome = "unknown"
	}
	metrics.ClassificationsTotal.WithLabelValues(outcome).Inc()
	metrics.ClassificationDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	return c.JSON(http.StatusOK, inferenceResponse{
		Status: "Success",
		Results: inferenceResult{
			Filename:    result.Filename,
			Width:       result.Width,
			Height:      result.Height,
			Prediction:  result.Label,
			Probability: result.Probability,
		},
	})
}
