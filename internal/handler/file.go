package handler

import (
	"FileVault/internal/policy"
	"FileVault/internal/service"
	"FileVault/utils"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// UploadFile stores a new file. Operations users only.
func UploadFile(c *gin.Context) {
	p := utils.CurrentPrincipal(c)
	if !policy.CanUpload(p) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only operations users can upload files"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	contentType := header.Header.Get("Content-Type")

	src, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file unreadable"})
		return
	}
	defer src.Close()

	file, err := service.UploadFile(c.Request.Context(), p, header.Filename, contentType, header.Size, src)
	if err != nil {
		if errors.Is(err, service.ErrInvalidUpload) {
			utils.Fail(c, err)
			return
		}
		log.Println("upload failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"msg":  "file uploaded",
		"file": file,
	})
}

// ListFiles returns all active files. Any authenticated user.
func ListFiles(c *gin.Context) {
	files, err := service.ListFiles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	utils.Success(c, gin.H{
		"files": files,
		"count": len(files),
	})
}

// FileDetail returns one active file by id.
func FileDetail(c *gin.Context) {
	fileID, err := parseFileID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}
	file, err := service.GetActiveFile(fileID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	utils.Success(c, gin.H{"file": file})
}

// DeleteFile soft-deletes a file. Operations owner only.
func DeleteFile(c *gin.Context) {
	p := utils.CurrentPrincipal(c)
	fileID, err := parseFileID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}
	if err := service.SoftDeleteFile(c.Request.Context(), p, fileID); err != nil {
		switch err {
		case service.ErrForbidden:
			c.JSON(http.StatusForbidden, gin.H{"error": "only the uploading operations user can delete a file"})
		case service.ErrNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		}
		return
	}
	utils.Success(c, gin.H{"msg": "file deleted"})
}

func parseFileID(c *gin.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("fileID"), 10, 64)
}
