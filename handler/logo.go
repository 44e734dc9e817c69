package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// LogoStore keeps uploaded logo images
type LogoStore interface {
	PutLogo(ctx context.Context, ownerID string, reader io.Reader, size int64, contentType string) (string, error)
}

var allowedLogoTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
}

type LogoHandler struct {
	store    LogoStore
	maxBytes int64
}

func NewLogoHandler(store LogoStore, maxBytes int64) *LogoHandler {
	return &LogoHandler{store: store, maxBytes: maxBytes}
}

// Upload stores a logo image and returns a URL usable as logo_url
func (h *LogoHandler) Upload(c *gin.Context) {
	userID, ok := sessionUser(c)
	if !ok {
		return
	}
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Object storage is not configured"})
		return
	}

	file, header, err := c.Request.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Logo is too large"})
		return
	}

	// Detect from the file header, the client supplied type is not trusted
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	contentType := http.DetectContentType(buffer[:n])
	if !allowedLogoTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PNG, JPEG and GIF images are allowed"})
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	url, err := h.store.PutLogo(c.Request.Context(), userID, file, header.Size, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload logo: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"logo_url": url})
}
