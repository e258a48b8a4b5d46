package policy

import (
	"FileVault/model"
	"testing"
)

// TestRoleGates checks every predicate against both roles.
func TestRoleGates(t *testing.T) {
	ops := Principal{ID: 1, Role: model.RoleOperations}
	client := Principal{ID: 2, Role: model.RoleClient}

	if !CanUpload(ops) {
		t.Fatal("operations user should upload")
	}
	if CanUpload(client) {
		t.Fatal("client user should not upload")
	}

	if !CanIssueLink(client) {
		t.Fatal("client user should issue links")
	}
	if CanIssueLink(ops) {
		t.Fatal("operations user should not issue links")
	}

	if !CanRedeem(client) {
		t.Fatal("client user should redeem links")
	}
	if CanRedeem(ops) {
		t.Fatal("operations user should not redeem links")
	}
}

// TestCanDeleteRequiresOwnership checks delete needs role and ownership.
func TestCanDeleteRequiresOwnership(t *testing.T) {
	owner := Principal{ID: 1, Role: model.RoleOperations}
	otherOps := Principal{ID: 9, Role: model.RoleOperations}
	client := Principal{ID: 1, Role: model.RoleClient}
	file := &model.FileRecord{ID: 10, UploaderID: 1}

	if !CanDelete(owner, file) {
		t.Fatal("uploading operations user should delete own file")
	}
	if CanDelete(otherOps, file) {
		t.Fatal("foreign operations user should not delete")
	}
	if CanDelete(client, file) {
		t.Fatal("client should not delete even as owner id match")
	}
	if CanDelete(owner, nil) {
		t.Fatal("nil file should not be deletable")
	}
}
