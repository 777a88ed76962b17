package domain

const (
	RequesterIdCtxKey    = "ow-requesterId"
	RequesterEmailCtxKey = "ow-requesterEmail"
)

type SortKey string

const (
	SortCopies  SortKey = "copies"
	SortUpdated SortKey = "updated"
	SortLikes   SortKey = "likes"
)

// ParseSortKey falls back to copies, the catalog's default ordering.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortUpdated:
		return SortUpdated
	case SortLikes:
		return SortLikes
	default:
		return SortCopies
	}
}
