package service

import (
	"FileVault/config"
	"FileVault/internal/policy"
	"FileVault/internal/repo"
	"FileVault/internal/storage"
	"FileVault/model"
	"FileVault/utils"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"gorm.io/gorm"
)

// ValidateUpload rejects uploads with a disallowed content type or a size
// over the configured limit.
func ValidateUpload(contentType string, size int64) error {
	if size <= 0 || size > config.AppConfig.MaxUploadBytes {
		return fmt.Errorf("%w: file size must be between 1 byte and %d bytes", ErrInvalidUpload, config.AppConfig.MaxUploadBytes)
	}
	for _, allowed := range config.AppConfig.AllowedFileTypes {
		if strings.EqualFold(contentType, allowed) {
			return nil
		}
	}
	return fmt.Errorf("%w: file type not allowed", ErrInvalidUpload)
}

// UploadFile stores the bytes in the object store and records the file.
// The stored object gets a random name so uploads never collide; the display
// name stays on the record.
func UploadFile(ctx context.Context, p policy.Principal, name, contentType string, size int64, reader io.Reader) (*model.FileRecord, error) {
	if err := ValidateUpload(contentType, size); err != nil {
		return nil, err
	}
	if storage.Default == nil {
		return nil, errors.New("storage not initialized")
	}

	objectName := utils.GetToken() + strings.ToLower(path.Ext(name))
	bucket := config.AppConfig.BucketName
	if err := storage.Default.PutObject(ctx, bucket, objectName, reader, size, storage.PutOptions{
		ContentType: contentType,
	}); err != nil {
		return nil, err
	}

	file := &model.FileRecord{
		Name:        name,
		ObjectName:  objectName,
		ContentType: contentType,
		Size:        size,
		UploaderID:  p.ID,
		Active:      true,
	}
	if err := repo.Db.Create(file).Error; err != nil {
		_ = storage.Default.RemoveObject(ctx, bucket, objectName)
		return nil, err
	}

	_ = utils.InvalidateFileListCache(ctx)
	return file, nil
}

// ListFiles returns all active files, newest first.
func ListFiles(ctx context.Context) ([]model.FileRecord, error) {
	if files, ok := utils.GetFileListFromCache(ctx); ok {
		return files, nil
	}
	var files []model.FileRecord
	if err := repo.Db.Where("active = ?", true).Order("created_at DESC").Find(&files).Error; err != nil {
		return nil, err
	}
	_ = utils.SetFileListToCache(ctx, files)
	return files, nil
}

// GetActiveFile loads an active file by id.
func GetActiveFile(fileID uint64) (*model.FileRecord, error) {
	var file model.FileRecord
	err := repo.Db.Where("id = ? AND active = ?", fileID, true).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &file, nil
}

// SoftDeleteFile flips the active flag. The row and the stored bytes stay
// because issued links still reference them.
func SoftDeleteFile(ctx context.Context, p policy.Principal, fileID uint64) error {
	file, err := GetActiveFile(fileID)
	if err != nil {
		return err
	}
	if !policy.CanDelete(p, file) {
		return ErrForbidden
	}
	if err := repo.Db.Model(file).Update("active", false).Error; err != nil {
		return err
	}
	_ = utils.InvalidateFileListCache(ctx)
	return nil
}

// GetContentType returns a content type by file extension, falling back to
// the recorded type when the extension is unknown.
func GetContentType(filename, recorded string) string {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".pptx":
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	}
	if recorded != "" {
		return recorded
	}
	return "application/octet-stream"
}
