package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"coal-site/internal/site"
	"coal-site/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxUploadBytes = 10 << 20

func (h *Handler) upload(c *gin.Context, file *multipart.FileHeader) (string, error) {
	if h.uploader == nil {
		return "", fmt.Errorf("image uploads are not configured")
	}
	if file.Size > maxUploadBytes {
		return "", &site.ValidationError{Field: "image", Msg: "must be at most 10 MB"}
	}
	if _, err := storage.Ext(file.Filename); err != nil {
		return "", &site.ValidationError{Field: "image", Msg: err.Error()}
	}

	f, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	url, err := h.uploader.Upload(c.Request.Context(), file.Filename, f)
	if err != nil {
		return "", err
	}
	h.log.Info("image uploaded", zap.String("url", url), zap.Int64("bytes", file.Size))
	return url, nil
}

// UploadImage stores a project image and returns its public URL.
func (h *Handler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	url, err := h.upload(c, file)
	if err != nil {
		h.jsonError(c, err)
		return
	}
	h.record(c, "image", "", "upload", url)
	c.JSON(http.StatusCreated, gin.H{"imageUrl": url})
}
