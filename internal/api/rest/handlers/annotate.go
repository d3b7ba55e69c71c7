package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	app "vision-overlay/internal/application"
	"vision-overlay/internal/domain/entity"
	"vision-overlay/internal/domain/port"
)

// AnnotateHandler HTTP-обвязка сервиса разметки.
type AnnotateHandler struct {
	service *app.AnnotationService
	proxy   port.Inferencer
}

// NewAnnotateHandler proxy обслуживает /api/infer и не должен возвращать ошибок.
func NewAnnotateHandler(service *app.AnnotationService, proxy port.Inferencer) *AnnotateHandler {
	return &AnnotateHandler{service: service, proxy: proxy}
}

type InferRequest struct {
	ImageBase64 string `json:"image_base64"`
}

type InferResponse struct {
	Detections []entity.Detection `json:"detections"`
}

type AnnotateRequest struct {
	ImageBase64 string `json:"image_base64"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Mode        string `json:"mode"`
}

type AnnotateResponse struct {
	Detections  []entity.Detection  `json:"detections"`
	Legend      []entity.ClassCount `json:"legend"`
	ImageBase64 string              `json:"image_base64"`
}

type CaptureRequest struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Mode   string `json:"mode"`
}

func (h *AnnotateHandler) Infer(c *gin.Context) {
	var req InferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %w", entity.ErrInvalidInput, err))
		return
	}

	data, err := decodeImage(req.ImageBase64)
	if err != nil {
		respondError(c, err)
		return
	}

	detections, _ := h.proxy.Infer(c.Request.Context(), data)
	if detections == nil {
		detections = []entity.Detection{}
	}
	c.JSON(http.StatusOK, InferResponse{Detections: detections})
}

func (h *AnnotateHandler) Annotate(c *gin.Context) {
	in, ok := h.bindAnnotate(c)
	if !ok {
		return
	}

	out, err := h.service.Annotate(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(out, "image/jpeg"))
}

func (h *AnnotateHandler) Overlay(c *gin.Context) {
	in, ok := h.bindAnnotate(c)
	if !ok {
		return
	}

	out, err := h.service.Overlay(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(out, "image/png"))
}

// Upload размечает файл из multipart-поля file и отдаёт JPEG.
func (h *AnnotateHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, fmt.Errorf("%w: file: %w", entity.ErrInvalidInput, err))
		return
	}
	file, err := header.Open()
	if err != nil {
		respondError(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, fmt.Errorf("read upload: %w", err))
		return
	}

	width, height, mode, err := viewportQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := h.service.Annotate(c.Request.Context(), app.AnnotateInput{Image: data, Width: width, Height: height, Mode: mode})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("X-Detections", strconv.Itoa(len(out.Detections)))
	c.Data(http.StatusOK, "image/jpeg", out.Image)
}

func (h *AnnotateHandler) Capture(c *gin.Context) {
	var req CaptureRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, fmt.Errorf("%w: %w", entity.ErrInvalidInput, err))
			return
		}
	}

	mode, err := parseMode(req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := h.service.CaptureAndAnnotate(c.Request.Context(), req.Width, req.Height, mode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(out, "image/jpeg"))
}

func (h *AnnotateHandler) bindAnnotate(c *gin.Context) (app.AnnotateInput, bool) {
	var req AnnotateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %w", entity.ErrInvalidInput, err))
		return app.AnnotateInput{}, false
	}

	data, err := decodeImage(req.ImageBase64)
	if err != nil {
		respondError(c, err)
		return app.AnnotateInput{}, false
	}

	mode, err := parseMode(req.Mode)
	if err != nil {
		respondError(c, err)
		return app.AnnotateInput{}, false
	}

	return app.AnnotateInput{Image: data, Width: req.Width, Height: req.Height, Mode: mode}, true
}

func viewportQuery(c *gin.Context) (int, int, entity.FitMode, error) {
	var size [2]int
	for i, key := range []string{"width", "height"} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, "", fmt.Errorf("%w: %s: %v", entity.ErrInvalidInput, key, err)
		}
		size[i] = v
	}

	mode, err := parseMode(c.Query("mode"))
	return size[0], size[1], mode, err
}

// parseMode пустая строка оставляет режим по умолчанию.
func parseMode(raw string) (entity.FitMode, error) {
	if raw == "" {
		return "", nil
	}
	return entity.ParseFitMode(raw)
}

func toResponse(out *app.AnnotateOutput, mime string) AnnotateResponse {
	return AnnotateResponse{
		Detections:  out.Detections,
		Legend:      out.Histogram.Entries(),
		ImageBase64: dataURL(mime, out.Image),
	}
}
