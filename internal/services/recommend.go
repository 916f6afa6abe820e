package services

import (
	"sort"

	"github.com/coalhq/coal-server/internal/models"
	"gorm.io/gorm"
)

// topTagLimit caps the tag profile used for scoring: only the user's most
// frequent tags participate.
const topTagLimit = 10

// RecommendationService suggests catalog games from the tag profile of a
// user's library. The ranking is fully deterministic: tag frequency ties
// break lexicographically, candidate score ties break by newest first.
type RecommendationService struct {
	db *gorm.DB
}

func NewRecommendationService(db *gorm.DB) *RecommendationService {
	return &RecommendationService{db: db}
}

// ScoredGame is a recommended game with its tag overlap score.
type ScoredGame struct {
	models.Game
	MatchingTags int `json:"matching_tags"`
}

// ForUser recommends up to n published games the user does not own, ranked
// by how many of their tags appear in the user's top tag set. A user who
// owns no tagged games gets an empty slice, not an error.
func (s *RecommendationService) ForUser(userID uint, n int) ([]ScoredGame, error) {
	var users int64
	s.db.Model(&models.User{}).Where("id = ?", userID).Count(&users)
	if users == 0 {
		return nil, notFound("user")
	}

	if n <= 0 {
		n = 10
	}

	var owned []models.Game
	if err := s.db.
		Joins("JOIN user_games ON user_games.game_id = games.id").
		Where("user_games.user_id = ?", userID).
		Find(&owned).Error; err != nil {
		return nil, err
	}

	profile := tagFrequencies(owned)
	top := topTags(profile, topTagLimit)
	if len(top) == 0 {
		return []ScoredGame{}, nil
	}

	ownedIDs := make([]uint, 0, len(owned))
	for _, g := range owned {
		ownedIDs = append(ownedIDs, g.ID)
	}

	// Candidates: published, tagged, not already owned. Tag overlap is
	// resolved in Go since tags live in a JSON column.
	query := s.db.Where("studio_id IS NOT NULL").Where("tags IS NOT NULL")
	if len(ownedIDs) > 0 {
		query = query.Where("id NOT IN ?", ownedIDs)
	}
	var candidates []models.Game
	if err := query.Find(&candidates).Error; err != nil {
		return nil, err
	}

	scored := scoreCandidates(candidates, top)
	if len(scored) > n {
		scored = scored[:n]
	}
	return scored, nil
}

// tagFrequencies counts, per tag, how many of the given games carry it.
// Games without tags contribute nothing. A tag repeated within one game's
// tag list still counts once per game.
func tagFrequencies(games []models.Game) map[string]int {
	freq := make(map[string]int)
	for _, g := range games {
		seen := make(map[string]bool)
		for _, tag := range g.TagList() {
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			freq[tag]++
		}
	}
	return freq
}

// topTags picks the k most frequent tags. Ties break by lexicographic tag
// order so repeated calls over the same library agree.
func topTags(freq map[string]int, k int) map[string]bool {
	type tagCount struct {
		tag   string
		count int
	}
	counts := make([]tagCount, 0, len(freq))
	for tag, count := range freq {
		counts = append(counts, tagCount{tag, count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].tag < counts[j].tag
	})

	if len(counts) > k {
		counts = counts[:k]
	}
	top := make(map[string]bool, len(counts))
	for _, tc := range counts {
		top[tc.tag] = true
	}
	return top
}

// scoreCandidates keeps candidates sharing at least one tag with the top
// set, scored by overlap size, ordered score descending then newest first.
func scoreCandidates(candidates []models.Game, top map[string]bool) []ScoredGame {
	scored := make([]ScoredGame, 0, len(candidates))
	for _, g := range candidates {
		score := 0
		seen := make(map[string]bool)
		for _, tag := range g.TagList() {
			if top[tag] && !seen[tag] {
				seen[tag] = true
				score++
			}
		}
		if score > 0 {
			scored = append(scored, ScoredGame{Game: g, MatchingTags: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].MatchingTags != scored[j].MatchingTags {
			return scored[i].MatchingTags > scored[j].MatchingTags
		}
		return scored[i].CreatedAt.After(scored[j].CreatedAt)
	})
	return scored
}
