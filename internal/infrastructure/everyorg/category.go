package everyorg

import (
	"strings"

	"github.com/yourrightpocket/charityround/internal/domain/entity"
)

// MapCategory folds Every.org tag names into the local category enum.
// Earlier checks win; unmapped tags fall through to CategoryOther.
func MapCategory(tags []string) entity.Category {
	names := make(map[string]bool, len(tags))
	for _, t := range tags {
		names[strings.ToLower(t)] = true
	}
	switch {
	case names["education"]:
		return entity.CategoryEducation
	case names["health"] || names["healthcare"]:
		return entity.CategoryHealthcare
	case names["environment"]:
		return entity.CategoryEnvironment
	case names["animals"] || names["humans"] || names["community"]:
		return entity.CategoryCommunity
	default:
		return entity.CategoryOther
	}
}
