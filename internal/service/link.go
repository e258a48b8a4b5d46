package service

import (
	"FileVault/internal/policy"
	"FileVault/internal/storage"
	"FileVault/internal/token"
	"FileVault/model"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gorm.io/gorm"
)

// LinkService issues and redeems one-time download links. It is built once
// in main and handed to the handlers; the cipher inside never changes after
// construction.
type LinkService struct {
	db     *gorm.DB
	cipher *token.Cipher
	store  storage.Store
	bucket string
	ttl    time.Duration
}

// RedeemInfo describes the streamed file on successful redemption.
type RedeemInfo struct {
	Name        string
	ContentType string
	Size        int64
}

// NewLinkService wires the link service together.
func NewLinkService(db *gorm.DB, cipher *token.Cipher, store storage.Store, bucket string, ttl time.Duration) *LinkService {
	return &LinkService{
		db:     db,
		cipher: cipher,
		store:  store,
		bucket: bucket,
		ttl:    ttl,
	}
}

// Issue creates a download link for the given active file, bound to the
// requesting principal. The encrypted token carries the file id, the user id
// and a random nonce; the persisted row carries the expiry and used flag.
func (s *LinkService) Issue(ctx context.Context, fileID uint64, p policy.Principal) (*model.DownloadLink, error) {
	var file model.FileRecord
	err := s.db.WithContext(ctx).Where("id = ? AND active = ?", fileID, true).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	nonce, err := token.NewNonce()
	if err != nil {
		log.Println("link issue: nonce generation failed:", err)
		return nil, ErrIssuance
	}
	opaque, err := s.cipher.Encrypt(token.Payload{
		FileID: file.ID,
		UserID: p.ID,
		Nonce:  nonce,
	})
	if err != nil {
		log.Println("link issue: encrypt failed:", err)
		return nil, ErrIssuance
	}

	link := &model.DownloadLink{
		FileID:    file.ID,
		UserID:    p.ID,
		Token:     opaque,
		ExpiresAt: time.Now().Add(s.ttl),
		Used:      false,
	}
	if err := s.db.WithContext(ctx).Create(link).Error; err != nil {
		// Covers the token unique-index collision as well as a dead store.
		log.Println("link issue: persist failed:", err)
		return nil, ErrIssuance
	}
	return link, nil
}

// Redeem walks the token through the validation state machine and, when
// every check passes, consumes the link and streams the file bytes.
//
// The order of checks is fixed: decrypt, claim-vs-principal, row lookup,
// expiry, used flag. Expiry is checked before the used flag so an expired
// unused link reports expiry rather than reuse.
func (s *LinkService) Redeem(ctx context.Context, opaque string, p policy.Principal) (io.ReadCloser, *RedeemInfo, error) {
	claims, err := s.cipher.Decrypt(opaque)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	// Reject foreign tokens before touching the store so a valid token held
	// by the wrong user learns nothing about the link's state.
	if claims.UserID != p.ID {
		return nil, nil, ErrForbidden
	}

	var link model.DownloadLink
	err = s.db.WithContext(ctx).
		Where("token = ? AND user_id = ? AND file_id = ?", opaque, p.ID, claims.FileID).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, err
	}

	now := time.Now()
	if now.After(link.ExpiresAt) {
		return nil, nil, ErrLinkExpired
	}
	if link.Used {
		return nil, nil, ErrLinkUsed
	}

	// Conditional update: exactly one of any number of concurrent redeemers
	// flips the flag, the rest see zero rows affected.
	res := s.db.WithContext(ctx).Model(&model.DownloadLink{}).
		Where("id = ? AND used = ?", link.ID, false).
		Updates(map[string]interface{}{"used": true, "used_at": now})
	if res.Error != nil {
		return nil, nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil, ErrLinkUsed
	}

	var file model.FileRecord
	if err := s.db.WithContext(ctx).Where("id = ?", link.FileID).First(&file).Error; err != nil {
		// The link is consumed regardless: the recovery path for vanished
		// bytes is a fresh link, not a retry of this one.
		return nil, nil, ErrNotFound
	}

	object, info, err := s.store.GetObject(ctx, s.bucket, file.ObjectName)
	if err != nil {
		return nil, nil, ErrNotFound
	}

	return object, &RedeemInfo{
		Name:        file.Name,
		ContentType: GetContentType(file.Name, file.ContentType),
		Size:        info.Size,
	}, nil
}

// BuildDownloadURL renders a link into its absolute redemption URL.
func BuildDownloadURL(baseURL string, link *model.DownloadLink) string {
	return fmt.Sprintf("%s/api/files/secure-download/%s", baseURL, link.Token)
}
