package service

import (
	"FileVault/config"
	"FileVault/internal/repo"
	"FileVault/internal/storage"
	"FileVault/internal/token"
	"FileVault/model"
	"bytes"
	"errors"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"golang.org/x/net/context"
)

// memStore is an in-memory Store used by the service tests.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (s *memStore) key(bucket, object string) string {
	return bucket + "/" + object
}

func (s *memStore) PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts storage.PutOptions) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[s.key(bucket, object)] = data
	return nil
}

func (s *memStore) GetObject(ctx context.Context, bucket, object string) (io.ReadCloser, storage.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[s.key(bucket, object)]
	if !ok {
		return nil, storage.ObjectInfo{}, errors.New("object not found")
	}
	info := storage.ObjectInfo{ObjectName: object, Size: int64(len(data))}
	return io.NopCloser(bytes.NewReader(data)), info, nil
}

func (s *memStore) RemoveObject(ctx context.Context, bucket, object string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, s.key(bucket, object))
	return nil
}

var testStore *memStore

// TestMain sets up the test database and an in-memory object store.
func TestMain(m *testing.M) {
	config.InitConfig()
	config.AppConfig.BucketName = config.AppConfig.BucketNameTest
	repo.InitTestDB()

	testStore = newMemStore()
	storage.Default = testStore

	os.Exit(m.Run())
}

// cleanTables clears test tables.
func cleanTables(t *testing.T) {
	t.Helper()
	for _, table := range []string{"download_link", "file_record", "user_db"} {
		if err := repo.Db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("clean %s failed: %v", table, err)
		}
	}
}

// seedFile inserts a file record and its backing bytes.
func seedFile(t *testing.T, uploaderID uint64, name string, content []byte, active bool) *model.FileRecord {
	t.Helper()
	objectName := name + "-object"
	if err := testStore.PutObject(context.Background(), config.AppConfig.BucketName, objectName, bytes.NewReader(content), int64(len(content)), storage.PutOptions{}); err != nil {
		t.Fatal(err)
	}
	file := &model.FileRecord{
		Name:        name,
		ObjectName:  objectName,
		ContentType: "application/octet-stream",
		Size:        int64(len(content)),
		UploaderID:  uploaderID,
		Active:      active,
	}
	if err := repo.Db.Create(file).Error; err != nil {
		t.Fatal(err)
	}
	return file
}

// newTestLinkService builds a link service over the shared test database.
func newTestLinkService(t *testing.T, ttl time.Duration) *LinkService {
	t.Helper()
	cipher, err := token.NewCipher("service-test-secret", "service-test-salt")
	if err != nil {
		t.Fatal(err)
	}
	return NewLinkService(repo.Db, cipher, testStore, config.AppConfig.BucketName, ttl)
}
