// Package policy holds the role checks gating uploads, deletes and
// download-link issuance. All predicates are pure.
package policy

import "FileVault/model"

// Principal is the authenticated actor extracted from the JWT.
type Principal struct {
	ID       uint64
	UserName string
	Role     string
}

// CanUpload reports whether the principal may upload files.
func CanUpload(p Principal) bool {
	return p.Role == model.RoleOperations
}

// CanDelete reports whether the principal may soft-delete the given file.
// Deletion requires the operations role and ownership.
func CanDelete(p Principal, file *model.FileRecord) bool {
	return p.Role == model.RoleOperations && file != nil && p.ID == file.UploaderID
}

// CanIssueLink reports whether the principal may request download links.
func CanIssueLink(p Principal) bool {
	return p.Role == model.RoleClient
}

// CanRedeem reports whether the principal may redeem download links.
func CanRedeem(p Principal) bool {
	return p.Role == model.RoleClient
}
