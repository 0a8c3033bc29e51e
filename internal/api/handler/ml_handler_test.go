package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/imagevision/vision-api/internal/api/middleware"
	"github.com/imagevision/vision-api/internal/core/domain"
	"github.com/imagevision/vision-api/internal/core/ports"
)

type stubClassifyService struct {
	classifyFn func(ctx context.Context, input ports.ClassifyInput) (*ports.ClassifyResult, error)
	historyFn  func(ctx context.Context, username string, limit int) ([]domain.Image, error)
}

func (s *stubClassifyService) Classify(ctx context.Context, input ports.ClassifyInput) (*ports.ClassifyResult, error) {
	return s.classifyFn(ctx, input)
}

func (s *stubClassifyService) History(ctx context.Context, username string, limit int) ([]domain.Image, error) {
	return s.historyFn(ctx, username, limit)
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func predictContext(t *testing.T, e *echo.Echo, body *bytes.Buffer, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/ml/predict", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextKeyUsername, "alice")
	return c, rec
}

func TestMLHandler_Predict_Success(t *testing.T) {
	e := newEcho()
	prob := 0.97
	stub := &stubClassifyService{
		classifyFn: func(_ context.Context, input ports.ClassifyInput) (*ports.ClassifyResult, error) {
			if input.Username != "alice" || input.Filename != "dog.png" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.ClassifyResult{
				Filename:    input.Filename,
				Width:       640,
				Height:      480,
				Label:       "golden retriever",
				Probability: &prob,
			}, nil
		},
	}
	h := NewMLHandler(stub, 0)

	body, contentType := multipartUpload(t, "dog.png", []byte("fake-image-bytes"))
	c, rec := predictContext(t, e, body, contentType)

	if err := h.Predict(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	results, ok := resp["results"].(map[string]any)
	if !ok {
		t.Fatalf("expected results in response")
	}
	if results["prediction"] != "golden retriever" || results["width"] != float64(640) {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestMLHandler_Predict_MissingFile(t *testing.T) {
	e := newEcho()
	stub := &stubClassifyService{
		classifyFn: func(context.Context, ports.ClassifyInput) (*ports.ClassifyResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewMLHandler(stub, 0)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.Close()
	c, _ := predictContext(t, e, &buf, w.FormDataContentType())

	err := h.Predict(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestMLHandler_Predict_FileTooLarge(t *testing.T) {
	e := newEcho()
	stub := &stubClassifyService{
		classifyFn: func(context.Context, ports.ClassifyInput) (*ports.ClassifyResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewMLHandler(stub, 16) // 16-byte cap

	body, contentType := multipartUpload(t, "big.png", bytes.Repeat([]byte("x"), 64))
	c, _ := predictContext(t, e, body, contentType)

	err := h.Predict(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 HTTPError, got %v", err)
	}
}

func TestMLHandler_Predict_ServiceErrorsPassThrough(t *testing.T) {
	e := newEcho()
	stub := &stubClassifyService{
		classifyFn: func(context.Context, ports.ClassifyInput) (*ports.ClassifyResult, error) {
			return nil, domain.ErrUnsupportedImage
		},
	}
	h := NewMLHandler(stub, 0)

	body, contentType := multipartUpload(t, "nope.txt", []byte("not an image"))
	c, _ := predictContext(t, e, body, contentType)

	if err := h.Predict(c); !errors.Is(err, domain.ErrUnsupportedImage) {
		t.Fatalf("expected ErrUnsupportedImage, got %v", err)
	}
}
