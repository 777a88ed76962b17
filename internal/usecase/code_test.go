package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/creamtown0420/ow-guides/internal/domain"
	"github.com/creamtown0420/ow-guides/internal/search"
)

type mockCodeRepo struct {
	codes   []domain.Code
	created *domain.Code
	updated *domain.Code
	deleted string
	err     error
}

func (m *mockCodeRepo) List(ctx context.Context) ([]domain.Code, error) {
	return m.codes, m.err
}

func (m *mockCodeRepo) Get(ctx context.Context, id string) (domain.Code, error) {
	for _, c := range m.codes {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Code{}, domain.NotFoundError{Resource: "code"}
}

func (m *mockCodeRepo) Create(ctx context.Context, code domain.Code) error {
	if m.err != nil {
		return m.err
	}
	m.created = &code
	return nil
}

func (m *mockCodeRepo) Update(ctx context.Context, code domain.Code) error {
	m.updated = &code
	return nil
}

func (m *mockCodeRepo) Delete(ctx context.Context, id string) error {
	m.deleted = id
	return nil
}

func ownedBy(id string) *string { return &id }

func TestCodeUsecaseCreateNormalizesAndValidates(t *testing.T) {
	repo := &mockCodeRepo{}
	uc := NewCodeUsecase(repo)

	created, err := uc.Create(context.Background(), CodeInput{
		Code:  "abcd12",
		Title: "  Flick drill  ",
	}, "user-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Code != "ABCD12" {
		t.Fatalf("expected normalized code ABCD12, got %s", created.Code)
	}
	if created.Title != "Flick drill" {
		t.Fatalf("expected trimmed title, got %q", created.Title)
	}
	if created.Role != domain.RoleAny || created.Mode != domain.ModeOther {
		t.Fatalf("expected enum defaults, got %s/%s", created.Role, created.Mode)
	}
	if created.ID == "" || created.Updated == "" {
		t.Fatalf("expected assigned id and updated date")
	}
	if created.OwnerID == nil || *created.OwnerID != "user-1" {
		t.Fatalf("expected owner user-1")
	}
	if repo.created == nil {
		t.Fatalf("expected repository create call")
	}
}

func TestCodeUsecaseCreateRejectsBadInput(t *testing.T) {
	uc := NewCodeUsecase(&mockCodeRepo{})

	cases := []CodeInput{
		{Code: "AB", Title: "too short"},
		{Code: "ABCDEFGHI", Title: "too long"},
		{Code: "AB CD", Title: "embedded space"},
		{Code: "ABCD12", Title: "   "},
		{Code: "ABCD12", Title: "ok", Role: domain.Role("Flex")},
		{Code: "ABCD12", Title: "ok", Mode: domain.Mode("Ranked")},
	}
	for _, in := range cases {
		if _, err := uc.Create(context.Background(), in, "user-1"); !errors.Is(err, domain.ErrInvalid) {
			t.Fatalf("input %+v: expected validation error, got %v", in, err)
		}
	}

	if _, err := uc.Create(context.Background(), CodeInput{Code: "ABCD12", Title: "ok"}, ""); !errors.Is(err, domain.ErrSignInRequired) {
		t.Fatalf("expected sign-in required, got %v", err)
	}
}

func TestCodeUsecaseCreatePassesThroughConflict(t *testing.T) {
	repo := &mockCodeRepo{err: domain.ConflictError{Resource: "code"}}
	uc := NewCodeUsecase(repo)

	_, err := uc.Create(context.Background(), CodeInput{Code: "ABCD12", Title: "dup"}, "user-1")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCodeUsecaseUpdateOwnerOnly(t *testing.T) {
	repo := &mockCodeRepo{codes: []domain.Code{
		{ID: "c1", Code: "ABCD12", Title: "mine", OwnerID: ownedBy("user-1")},
		{ID: "c2", Code: "Z9Y8X7", Title: "seed"},
	}}
	uc := NewCodeUsecase(repo)

	in := CodeInput{Code: "ABCD12", Title: "renamed"}

	if _, err := uc.Update(context.Background(), "c1", in, "user-2"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}
	// Ownerless seed rows are immutable.
	if _, err := uc.Update(context.Background(), "c2", in, "user-1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for seed record, got %v", err)
	}

	updated, err := uc.Update(context.Background(), "c1", in, "user-1")
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if updated.ID != "c1" || updated.Title != "renamed" {
		t.Fatalf("unexpected update result %+v", updated)
	}
	if repo.updated == nil {
		t.Fatalf("expected repository update call")
	}
}

func TestCodeUsecaseDeleteOwnerOnly(t *testing.T) {
	repo := &mockCodeRepo{codes: []domain.Code{
		{ID: "c1", Code: "ABCD12", Title: "mine", OwnerID: ownedBy("user-1")},
	}}
	uc := NewCodeUsecase(repo)

	if err := uc.Delete(context.Background(), "c1", "user-2"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := uc.Delete(context.Background(), "missing", "user-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := uc.Delete(context.Background(), "c1", "user-1"); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if repo.deleted != "c1" {
		t.Fatalf("expected delete of c1, got %q", repo.deleted)
	}
}

func TestCodeUsecaseBrowseFallsBackToRelated(t *testing.T) {
	repo := &mockCodeRepo{codes: []domain.Code{
		{ID: "c1", Code: "ABCD12", Title: "Tracer flick", Role: domain.RoleDPS, Mode: domain.ModeAim, Updated: "2025-08-28"},
		{ID: "c2", Code: "Z9Y8X7", Title: "Shield drill", Role: domain.RoleTank, Mode: domain.ModeScrim, Updated: "2025-08-20"},
	}}
	uc := NewCodeUsecase(repo)

	// Over-constrained: role filter excludes the only "flick" record.
	res, err := uc.Browse(context.Background(), BrowseInput{
		Filters: search.Filters{Role: domain.RoleTank},
		Query:   "flick",
		Sort:    domain.SortUpdated,
	}, domain.Engagement{})
	if err != nil {
		t.Fatalf("browse failed: %v", err)
	}
	if len(res.Items) != 0 {
		t.Fatalf("expected empty visible set, got %d items", len(res.Items))
	}
	if len(res.Related) != 1 || res.Related[0].ID != "c1" {
		t.Fatalf("expected related fallback [c1], got %+v", res.Related)
	}

	// Non-empty primary set leaves related empty.
	res, err = uc.Browse(context.Background(), BrowseInput{Sort: domain.SortUpdated}, domain.Engagement{})
	if err != nil {
		t.Fatalf("browse failed: %v", err)
	}
	if len(res.Items) != 2 || res.Related != nil {
		t.Fatalf("expected full visible set without related, got %+v", res)
	}
}
