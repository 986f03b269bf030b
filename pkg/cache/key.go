package cache

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultKeyPrefix namespaces every key written through a Gateway.
const DefaultKeyPrefix = "gamepicker_"

// HistoryInvalidationPattern matches every cached history page. Like every
// pattern given to Gateway.RemoveByPattern it is relative to the key prefix.
const HistoryInvalidationPattern = "history_*"

// Lifetimes of each cache layer. Detail data rarely changes, filtered lists
// are moderately stable, and the final pick is short-lived so repeat callers
// still see variety.
const (
	RecommendationTTL = 5 * time.Minute
	FilteredGamesTTL  = 1 * time.Hour
	GameDetailsTTL    = 24 * time.Hour
	HistoryTTL        = 5 * time.Minute
)

// Defaults substituted for absent request parameters.
const (
	allPlatforms     = "all"
	anyRAM           = "any"
	defaultSortBy    = "Title"
	defaultSortOrder = "asc"
)

// NormalizeGenres trims, lowercases, de-duplicates and sorts genre names.
// Blank entries are dropped.
func NormalizeGenres(genres []string) []string {
	seen := make(map[string]struct{}, len(genres))
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		g = strings.ToLower(strings.TrimSpace(g))
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// NormalizePlatform trims and lowercases a platform, mapping "" to "all".
func NormalizePlatform(platform string) string {
	platform = strings.ToLower(strings.TrimSpace(platform))
	if platform == "" {
		return allPlatforms
	}
	return platform
}

// RecommendationKey identifies a cached pick-one result.
// Format: recommendation_{genres}_{platform|all}_{ramGB|any}
//
// Example:
//
//	recommendation_mmorpg_shooter_pc_8
func RecommendationKey(genres []string, platform string, ramGB *int) string {
	ram := anyRAM
	if ramGB != nil {
		ram = strconv.Itoa(*ramGB)
	}
	return fmt.Sprintf("recommendation_%s_%s_%s",
		strings.Join(NormalizeGenres(genres), "_"), NormalizePlatform(platform), ram)
}

// FilteredGamesKey identifies a cached candidate list.
// Format: filtered_games_{genres}_{platform|all}
func FilteredGamesKey(genres []string, platform string) string {
	return fmt.Sprintf("filtered_games_%s_%s",
		strings.Join(NormalizeGenres(genres), "_"), NormalizePlatform(platform))
}

// GameDetailsKey identifies a cached game detail.
// Format: game_details_{id}
func GameDetailsKey(id int) string {
	return "game_details_" + strconv.Itoa(id)
}

// HistoryKey identifies a cached history page.
// Format: history_{pageSize}_{pageNumber}_{sortBy|Title}_{sortOrder|asc}
func HistoryKey(pageSize, pageNumber int, sortBy, sortOrder string) string {
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	if sortOrder == "" {
		sortOrder = defaultSortOrder
	}
	return fmt.Sprintf("history_%d_%d_%s_%s", pageSize, pageNumber, sortBy, sortOrder)
}
