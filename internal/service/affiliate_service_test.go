package service

import (
	"errors"
	"testing"

	"github.com/fenxiao-mall/internal/constants"
)

func newAffiliateService(env *orderTestEnv) *AffiliateService {
	return NewAffiliateService(env.affiliates, NewTreeResolver(env.affiliates))
}

func TestCreateAffiliatePlacement(t *testing.T) {
	env := setupOrderServiceTest(t)
	svc := newAffiliateService(env)

	root, err := svc.CreateAffiliate(CreateAffiliateInput{Name: "陈远航", Email: "chenyh@example.com"})
	if err != nil {
		t.Fatalf("create root failed: %v", err)
	}
	if root.ReferralCode == "" || len(root.ReferralCode) != 8 {
		t.Fatalf("referral code = %q, want 8 chars", root.ReferralCode)
	}
	if root.Status != constants.AffiliateStatusActive {
		t.Fatalf("status = %s, want active", root.Status)
	}

	left, err := svc.CreateAffiliate(CreateAffiliateInput{
		Name: "林一苇", Email: "linyw@example.com",
		ParentID: root.ID, Position: constants.TreePositionLeft,
	})
	if err != nil {
		t.Fatalf("create left child failed: %v", err)
	}
	if left.ParentID == nil || *left.ParentID != root.ID {
		t.Fatalf("left parent = %v, want %d", left.ParentID, root.ID)
	}

	// 同一占位不能重复安置
	_, err = svc.CreateAffiliate(CreateAffiliateInput{
		Name: "赵思敏", Email: "zhaosm@example.com",
		ParentID: root.ID, Position: constants.TreePositionLeft,
	})
	if !errors.Is(err, ErrTreePositionTaken) {
		t.Fatalf("expected ErrTreePositionTaken, got: %v", err)
	}

	// 右占位仍可用
	if _, err := svc.CreateAffiliate(CreateAffiliateInput{
		Name: "赵思敏", Email: "zhaosm@example.com",
		ParentID: root.ID, Position: constants.TreePositionRight,
	}); err != nil {
		t.Fatalf("create right child failed: %v", err)
	}
}

func TestCreateAffiliateValidation(t *testing.T) {
	env := setupOrderServiceTest(t)
	svc := newAffiliateService(env)

	root, err := svc.CreateAffiliate(CreateAffiliateInput{Name: "陈远航", Email: "chenyh@example.com"})
	if err != nil {
		t.Fatalf("create root failed: %v", err)
	}

	_, err = svc.CreateAffiliate(CreateAffiliateInput{
		Name: "王可成", Email: "wangkc@example.com",
		ParentID: root.ID, Position: "middle",
	})
	if !errors.Is(err, ErrInvalidTreePosition) {
		t.Fatalf("expected ErrInvalidTreePosition, got: %v", err)
	}

	_, err = svc.CreateAffiliate(CreateAffiliateInput{
		Name: "王可成", Email: "wangkc@example.com",
		ParentID: 9999, Position: constants.TreePositionLeft,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing parent, got: %v", err)
	}
}

func TestGetTree(t *testing.T) {
	env := setupOrderServiceTest(t)
	svc := newAffiliateService(env)

	grand := createTestAffiliate(t, env, "TRGRAND0", nil, "")
	parent := createTestAffiliate(t, env, "TRPARENT", &grand.ID, constants.TreePositionLeft)
	self := createTestAffiliate(t, env, "TRSELF00", &parent.ID, constants.TreePositionRight)
	child := createTestAffiliate(t, env, "TRCHILD0", &self.ID, constants.TreePositionLeft)

	tree, err := svc.GetTree(self.ID)
	if err != nil {
		t.Fatalf("get tree failed: %v", err)
	}
	if tree.Affiliate.ID != self.ID {
		t.Fatalf("tree root = %d, want %d", tree.Affiliate.ID, self.ID)
	}
	if len(tree.Upline) != 2 {
		t.Fatalf("upline = %d, want 2", len(tree.Upline))
	}
	if tree.Upline[0].ID != parent.ID || tree.Upline[1].ID != grand.ID {
		t.Fatalf("upline order mismatch")
	}
	if tree.Downline == nil || tree.Downline.Left == nil || tree.Downline.Left.Affiliate.ID != child.ID {
		t.Fatalf("downline left child missing")
	}

	if _, err := svc.GetTree(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestUpdateAffiliateStatus(t *testing.T) {
	env := setupOrderServiceTest(t)
	svc := newAffiliateService(env)
	affiliate := createTestAffiliate(t, env, "STATUS01", nil, "")

	if err := svc.UpdateAffiliateStatus(affiliate.ID, constants.AffiliateStatusDisabled); err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	got := reloadAffiliate(t, env, affiliate.ID)
	if got.Status != constants.AffiliateStatusDisabled {
		t.Fatalf("status = %s, want disabled", got.Status)
	}

	if err := svc.UpdateAffiliateStatus(affiliate.ID, "frozen"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got: %v", err)
	}
	if err := svc.UpdateAffiliateStatus(9999, constants.AffiliateStatusActive); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}
