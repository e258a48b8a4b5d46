package service

import (
	"FileVault/config"
	"FileVault/internal/policy"
	"FileVault/model"
	"bytes"
	"errors"
	"io"
	"testing"

	"golang.org/x/net/context"
)

const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var opsPrincipal = policy.Principal{ID: 1, UserName: "ops", Role: model.RoleOperations}

// TestValidateUpload covers type and size limits. Every rejection carries
// ErrInvalidUpload so handlers can tell validation from internal failures.
func TestValidateUpload(t *testing.T) {
	if err := ValidateUpload(xlsxType, 1200); err != nil {
		t.Fatalf("valid upload rejected: %v", err)
	}
	if err := ValidateUpload("application/x-msdownload", 1200); !errors.Is(err, ErrInvalidUpload) {
		t.Fatalf("disallowed type: got %v, want ErrInvalidUpload", err)
	}
	if err := ValidateUpload(xlsxType, 0); !errors.Is(err, ErrInvalidUpload) {
		t.Fatalf("empty file: got %v, want ErrInvalidUpload", err)
	}
	if err := ValidateUpload(xlsxType, config.AppConfig.MaxUploadBytes+1); !errors.Is(err, ErrInvalidUpload) {
		t.Fatalf("oversized file: got %v, want ErrInvalidUpload", err)
	}
}

// TestUploadFile stores bytes and records the file.
func TestUploadFile(t *testing.T) {
	cleanTables(t)
	content := bytes.Repeat([]byte("x"), 1200)

	file, err := UploadFile(context.Background(), opsPrincipal, "report.xlsx", xlsxType, int64(len(content)), bytes.NewReader(content))
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if !file.Active {
		t.Fatal("fresh upload not active")
	}
	if file.UploaderID != opsPrincipal.ID {
		t.Fatal("uploader not recorded")
	}

	object, info, err := testStore.GetObject(context.Background(), config.AppConfig.BucketName, file.ObjectName)
	if err != nil {
		t.Fatalf("stored object missing: %v", err)
	}
	defer object.Close()
	if info.Size != 1200 {
		t.Fatalf("unexpected stored size %d", info.Size)
	}
	data, err := io.ReadAll(object)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, content) {
		t.Fatal("stored bytes differ from upload")
	}
}

// TestListFilesSkipsInactive checks soft-deleted files disappear from the
// listing.
func TestListFilesSkipsInactive(t *testing.T) {
	cleanTables(t)
	seedFile(t, 1, "visible.xlsx", []byte("a"), true)
	seedFile(t, 1, "hidden.xlsx", []byte("b"), false)

	files, err := ListFiles(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if files[0].Name != "visible.xlsx" {
		t.Fatalf("unexpected file %q", files[0].Name)
	}
}

// TestSoftDeleteFile checks ownership gating and the active flag flip.
func TestSoftDeleteFile(t *testing.T) {
	cleanTables(t)
	file := seedFile(t, opsPrincipal.ID, "mine.xlsx", []byte("a"), true)

	foreign := policy.Principal{ID: 42, Role: model.RoleOperations}
	if err := SoftDeleteFile(context.Background(), foreign, file.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := SoftDeleteFile(context.Background(), opsPrincipal, file.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}

	if _, err := GetActiveFile(file.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted file still active: %v", err)
	}

	// Deleting again reports not found, not forbidden.
	if err := SoftDeleteFile(context.Background(), opsPrincipal, file.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestGetContentType checks extension mapping and fallbacks.
func TestGetContentType(t *testing.T) {
	if got := GetContentType("report.xlsx", ""); got != xlsxType {
		t.Fatalf("xlsx mapped to %q", got)
	}
	if got := GetContentType("weird.bin", "application/custom"); got != "application/custom" {
		t.Fatalf("recorded type not used: %q", got)
	}
	if got := GetContentType("weird.bin", ""); got != "application/octet-stream" {
		t.Fatalf("fallback not used: %q", got)
	}
}
