package repository

import (
	"context"

	"github.com/creamtown0420/ow-guides/internal/domain"
)

// SeedCodeRepository serves the built-in sample catalog when no database
// is configured. Reads return copies; every mutation is rejected so the
// seed data stays immutable.
type SeedCodeRepository struct {
	codes []domain.Code
}

func NewSeedCodeRepository() *SeedCodeRepository {
	return &SeedCodeRepository{codes: seedCodes()}
}

func (r *SeedCodeRepository) List(ctx context.Context) ([]domain.Code, error) {
	out := make([]domain.Code, len(r.codes))
	for i, c := range r.codes {
		out[i] = cloneCode(c)
	}
	return out, nil
}

func (r *SeedCodeRepository) Get(ctx context.Context, id string) (domain.Code, error) {
	for _, c := range r.codes {
		if c.ID == id {
			return cloneCode(c), nil
		}
	}
	return domain.Code{}, domain.NotFoundError{Resource: "code"}
}

// cloneCode detaches the label slices so callers cannot reach the seed
// backing arrays through a returned record.
func cloneCode(c domain.Code) domain.Code {
	c.Heroes = append([]string(nil), c.Heroes...)
	c.Maps = append([]string(nil), c.Maps...)
	c.Tags = append([]string(nil), c.Tags...)
	return c
}

func (r *SeedCodeRepository) Create(ctx context.Context, code domain.Code) error {
	return domain.ErrReadOnly
}

func (r *SeedCodeRepository) Update(ctx context.Context, code domain.Code) error {
	return domain.ErrReadOnly
}

func (r *SeedCodeRepository) Delete(ctx context.Context, id string) error {
	return domain.ErrReadOnly
}

func seedCodes() []domain.Code {
	return []domain.Code{
		{
			ID:          "tracer-flick",
			Code:        "ABCD12",
			Title:       "Tracer フリック練習 (HS優先)",
			Description: "HS優先の近距離フリック。距離可変・速度ランダム。",
			Heroes:      []string{"Tracer"},
			Maps:        []string{"Workshop Chamber"},
			Role:        domain.RoleDPS,
			Mode:        domain.ModeAim,
			Tags:        []string{"flick", "hs", "close-range"},
			Author:      "noon",
			Updated:     "2025-08-28",
		},
		{
			ID:          "rein-shield",
			Code:        "Z9Y8X7",
			Title:       "ラインハルト 盾管理ドリル",
			Description: "盾割りと角待ちの判断反復。HP通知/音声キュー付き。",
			Heroes:      []string{"Reinhardt"},
			Maps:        []string{"King's Row"},
			Role:        domain.RoleTank,
			Mode:        domain.ModeScrim,
			Tags:        []string{"shield", "corner", "macro"},
			Author:      "noon",
			Updated:     "2025-08-20",
		},
		{
			ID:          "ana-nade",
			Code:        "N4D3E2",
			Title:       "アナ グレネード軌道練習 (Ilios)",
			Description: "固定セット＆自由投擲。命中評価とCD管理。",
			Heroes:      []string{"Ana"},
			Maps:        []string{"Ilios"},
			Role:        domain.RoleSupport,
			Mode:        domain.ModeAim,
			Tags:        []string{"nade", "lineup", "support"},
			Author:      "suzu",
			Updated:     "2025-08-15",
		},
		{
			ID:          "widow-parkour",
			Code:        "QW12ER",
			Title:       "ウィドウ移動+エイム複合",
			Description: "グラップ移動ルートとHSチェックを同時に。",
			Heroes:      []string{"Widowmaker"},
			Maps:        []string{"Workshop Chamber"},
			Role:        domain.RoleDPS,
			Mode:        domain.ModeMovement,
			Tags:        []string{"grapple", "routes", "combo"},
			Author:      "k",
			Updated:     "2025-07-30",
		},
	}
}
