package handler

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/stemsplitter/tracker/pkg/response"
)

// StemDownloader opens one stem file on the backend
type StemDownloader interface {
	OpenStem(ctx context.Context, jobID, stem string) (io.ReadCloser, int64, error)
}

type DownloadHandler struct {
	backend StemDownloader
}

func NewDownloadHandler(backend StemDownloader) *DownloadHandler {
	return &DownloadHandler{backend: backend}
}

// Stem handles GET /api/download/:jobId/:stem
func (h *DownloadHandler) Stem(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	stem := c.Params("stem")
	if jobID == "" || stem == "" {
		return response.ValidationError(c, "Job ID and stem are required", nil)
	}

	// the backend status is known before any byte is sent
	body, size, err := h.backend.OpenStem(c.Context(), jobID, stem)
	if err != nil {
		log.Printf("[Backend] ✗ download %s/%s: %v", jobID, stem, err)
		return response.BackendError(c, fmt.Sprintf("failed to download %s: %v", stem, err))
	}

	c.Set(fiber.HeaderContentType, "audio/wav")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.wav"`, stem))
	// fasthttp closes body once it has been sent
	return c.SendStream(body, int(size))
}
