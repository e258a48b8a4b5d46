package handler

import (
	"FileVault/internal/dto"
	"FileVault/internal/mq"
	"FileVault/internal/policy"
	"FileVault/internal/service"
	"FileVault/utils"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DownloadHandler serves download-link issuance and redemption. It carries
// the link service built in main so the cipher travels by reference instead
// of living in a package global.
type DownloadHandler struct {
	Links *service.LinkService
}

// NewDownloadHandler wires the handler to a link service.
func NewDownloadHandler(links *service.LinkService) *DownloadHandler {
	return &DownloadHandler{Links: links}
}

// GenerateDownloadLink issues a one-time download link. Client users only.
func (h *DownloadHandler) GenerateDownloadLink(c *gin.Context) {
	p := utils.CurrentPrincipal(c)
	if !policy.CanIssueLink(p) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only client users can download files"})
		return
	}

	fileID, err := parseFileID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	link, err := h.Links.Issue(c.Request.Context(), fileID, p)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "link generation failed"})
		return
	}

	url := service.BuildDownloadURL(BuildBaseURL(c), link)
	h.notifyLinkIssued(p, link.FileID, url)

	c.JSON(http.StatusOK, dto.DownloadLinkResponse{
		DownloadLink: url,
		CreatedAt:    link.CreatedAt,
		ExpiresAt:    link.ExpiresAt,
	})
}

// notifyLinkIssued sends the issued link to the user's mailbox. Best effort;
// the link is already in the response body.
func (h *DownloadHandler) notifyLinkIssued(p policy.Principal, fileID uint64, url string) {
	user, err := service.GetUserById(p.ID)
	if err != nil {
		return
	}
	file, err := service.GetActiveFile(fileID)
	if err != nil {
		return
	}
	if err := mq.PublishMail(context.Background(), mq.MailMessage{
		To:       user.Email,
		Kind:     mq.MailKindLinkIssued,
		Link:     url,
		FileName: file.Name,
	}); err != nil {
		log.Println("link issued mail enqueue failed:", err)
	}
}

// SecureDownload redeems a token and streams the file. Client users only.
func (h *DownloadHandler) SecureDownload(c *gin.Context) {
	p := utils.CurrentPrincipal(c)
	if !policy.CanRedeem(p) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only client users can access download links"})
		return
	}

	object, info, err := h.Links.Redeem(c.Request.Context(), c.Param("token"), p)
	if err != nil {
		status, msg := redeemStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	defer object.Close()

	fileName := utils.SanitizeHeaderFilename(info.Name)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Header("Content-Type", info.ContentType)
	c.Header("Content-Length", fmt.Sprintf("%d", info.Size))

	if _, err := io.Copy(c.Writer, object); err != nil {
		log.Println("secure download stream error:", err)
	}
}

// redeemStatus maps redemption outcomes to HTTP statuses. Messages stay
// generic; internals are logged server-side only.
func redeemStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusBadRequest, "invalid download token"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "access denied"
	case errors.Is(err, service.ErrLinkExpired):
		return http.StatusGone, "download link has expired"
	case errors.Is(err, service.ErrLinkUsed):
		return http.StatusGone, "download link has already been used"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "file not found"
	default:
		log.Println("secure download error:", err)
		return http.StatusInternalServerError, "download failed"
	}
}
