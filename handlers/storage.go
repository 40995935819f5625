package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"silverarcade/services/storage"
)

// StorageHandler exposes venue media uploads.
type StorageHandler struct {
	Media storage.MediaService
}

func NewStorageHandler(media storage.MediaService) *StorageHandler {
	return &StorageHandler{Media: media}
}

// allowedFolders are the permitted destinations for media uploads.
var allowedFolders = map[string]bool{
	"tables": true,
	"menus":  true,
	"events": true,
}

// Upload handles POST /api/storage/upload. The multipart file is staged to a
// temp path, pushed to the CDN and the delivery URL returned.
func (h *StorageHandler) Upload(c *gin.Context) {
	if h.Media == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "media storage not configured"})
		return
	}

	folder := c.DefaultPostForm("folder", "tables")
	if !allowedFolders[folder] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "folder must be tables, menus or events"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "file not provided"})
		return
	}

	tempFilePath := filepath.Join(os.TempDir(), filepath.Base(fileHeader.Filename))
	if err := c.SaveUploadedFile(fileHeader, tempFilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to stage file"})
		return
	}
	defer os.Remove(tempFilePath)

	publicID, err := h.Media.UploadFile(c.Request.Context(), tempFilePath, "venue/"+folder)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to upload file"})
		return
	}

	url, err := h.Media.GetDownloadURL(c.Request.Context(), publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to build download URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"publicId": publicID,
		"url":      url,
	})
}

// Delete handles DELETE /api/storage/:publicId.
func (h *StorageHandler) Delete(c *gin.Context) {
	if h.Media == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "media storage not configured"})
		return
	}

	publicID := c.Param("publicId")
	if err := h.Media.DeleteFile(c.Request.Context(), publicID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to delete file"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "File deleted"})
}
