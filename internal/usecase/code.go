package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	owguides "github.com/creamtown0420/ow-guides"
	"github.com/creamtown0420/ow-guides/internal/domain"
	"github.com/creamtown0420/ow-guides/internal/search"
)

// CodeRepository defines storage operations for practice codes.
type CodeRepository interface {
	List(ctx context.Context) ([]domain.Code, error)
	Get(ctx context.Context, id string) (domain.Code, error)
	Create(ctx context.Context, code domain.Code) error
	Update(ctx context.Context, code domain.Code) error
	Delete(ctx context.Context, id string) error
}

// CodeInput is the user-supplied portion of a practice code entry.
type CodeInput struct {
	Code        string
	Title       string
	Description string
	Heroes      []string
	Maps        []string
	Tags        []string
	Role        domain.Role
	Mode        domain.Mode
	Author      string
}

// BrowseInput bundles one catalog view request.
type BrowseInput struct {
	Filters search.Filters
	Query   string
	Sort    domain.SortKey
}

// BrowseResult carries the ordered visible set plus the relaxed related
// fallback, which is populated only when the visible set came up empty
// for a non-empty query.
type BrowseResult struct {
	Items   []domain.Code `json:"items"`
	Related []domain.Code `json:"related,omitempty"`
}

type CodeUsecase struct {
	repo CodeRepository
}

func NewCodeUsecase(repo CodeRepository) *CodeUsecase {
	return &CodeUsecase{repo: repo}
}

func (uc *CodeUsecase) Browse(ctx context.Context, in BrowseInput, eng domain.Engagement) (BrowseResult, error) {
	codes, err := uc.repo.List(ctx)
	if err != nil {
		return BrowseResult{}, err
	}

	items := search.Visible(codes, in.Filters, in.Query, in.Sort, eng)
	result := BrowseResult{Items: items}
	if len(items) == 0 {
		result.Related = search.Related(codes, in.Query, eng)
	}
	return result, nil
}

func (uc *CodeUsecase) Get(ctx context.Context, id string) (domain.Code, error) {
	return uc.repo.Get(ctx, id)
}

func (uc *CodeUsecase) Create(ctx context.Context, in CodeInput, ownerID string) (domain.Code, error) {
	if ownerID == "" {
		return domain.Code{}, domain.ErrSignInRequired
	}

	code, err := buildCode(in)
	if err != nil {
		return domain.Code{}, err
	}
	code.ID = uuid.NewString()
	code.Updated = today()
	code.OwnerID = &ownerID

	if err := uc.repo.Create(ctx, code); err != nil {
		return domain.Code{}, err
	}
	return code, nil
}

func (uc *CodeUsecase) Update(ctx context.Context, id string, in CodeInput, requesterID string) (domain.Code, error) {
	if requesterID == "" {
		return domain.Code{}, domain.ErrSignInRequired
	}

	existing, err := uc.repo.Get(ctx, id)
	if err != nil {
		return domain.Code{}, err
	}
	if existing.OwnerID == nil || *existing.OwnerID != requesterID {
		return domain.Code{}, domain.ErrForbidden
	}

	code, err := buildCode(in)
	if err != nil {
		return domain.Code{}, err
	}
	code.ID = existing.ID
	code.OwnerID = existing.OwnerID
	code.Updated = today()

	if err := uc.repo.Update(ctx, code); err != nil {
		return domain.Code{}, err
	}
	return code, nil
}

func (uc *CodeUsecase) Delete(ctx context.Context, id string, requesterID string) error {
	if requesterID == "" {
		return domain.ErrSignInRequired
	}

	existing, err := uc.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.OwnerID == nil || *existing.OwnerID != requesterID {
		return domain.ErrForbidden
	}

	return uc.repo.Delete(ctx, id)
}

// buildCode validates user input and fills enumeration defaults. No state
// is touched before every check passes.
func buildCode(in CodeInput) (domain.Code, error) {
	token := owguides.NormalizeCode(in.Code)
	if !owguides.IsValidCode(token) {
		return domain.Code{}, domain.InvalidError{Reason: "code must be 4-8 uppercase letters or digits"}
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Code{}, domain.InvalidError{Reason: "title is required"}
	}

	role := in.Role
	if role == "" {
		role = domain.RoleAny
	}
	if !role.Valid() {
		return domain.Code{}, domain.InvalidError{Reason: "unknown role"}
	}

	mode := in.Mode
	if mode == "" {
		mode = domain.ModeOther
	}
	if !mode.Valid() {
		return domain.Code{}, domain.InvalidError{Reason: "unknown mode"}
	}

	return domain.Code{
		Code:        token,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Heroes:      dropEmpty(in.Heroes),
		Maps:        dropEmpty(in.Maps),
		Tags:        dropEmpty(in.Tags),
		Role:        role,
		Mode:        mode,
		Author:      strings.TrimSpace(in.Author),
	}, nil
}

func dropEmpty(list []string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func today() string {
	return time.Now().UTC().Format("2006-01-02")
}
