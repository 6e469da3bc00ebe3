package progress

import (
	"maps"
	"slices"
)

// Field names of the save file are stable across versions.

// CoinScore is one row of the coins leaderboard.
type CoinScore struct {
	Name  string `json:"name"`
	Coins int    `json:"coins"`
}

// TimeScore is one row of a per-level times leaderboard.
type TimeScore struct {
	Name string  `json:"name"`
	Time float64 `json:"time"`
}

// HighScores holds the ranked tables.
type HighScores struct {
	Coins []CoinScore            `json:"coins"`
	Times map[string][]TimeScore `json:"times"` // Keyed by level index
}

// Record is the durable progression of one player profile.
type Record struct {
	PlayerName      string             `json:"player_name"`
	TotalCoins      int                `json:"total_coins"`
	UnlockedAvatars []string           `json:"unlocked_avatars"`
	CompletedLevels []int              `json:"completed_levels"`
	BestTimes       map[string]float64 `json:"best_times"` // Keyed by level index
	SelectedAvatar  string             `json:"selected_avatar"`
	HighScores      HighScores         `json:"high_scores"`
}

// DefaultPlayerName is used when the save file has no name.
const DefaultPlayerName = "Player"

// DefaultCosmetics are always unlocked. The first one is the fallback
// selection.
var DefaultCosmetics = []string{"avatar.png", "Blue Lightning.png", "Clown.png", "Green Eye.png"}

// DefaultRecord returns the record of a fresh profile.
func DefaultRecord() Record {
	return Record{
		PlayerName:      DefaultPlayerName,
		UnlockedAvatars: slices.Clone(DefaultCosmetics),
		CompletedLevels: []int{},
		BestTimes:       map[string]float64{},
		SelectedAvatar:  DefaultCosmetics[0],
		HighScores: HighScores{
			Coins: []CoinScore{},
			Times: map[string][]TimeScore{},
		},
	}
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	out := r
	out.UnlockedAvatars = slices.Clone(r.UnlockedAvatars)
	out.CompletedLevels = slices.Clone(r.CompletedLevels)
	out.BestTimes = maps.Clone(r.BestTimes)
	out.HighScores.Coins = slices.Clone(r.HighScores.Coins)
	out.HighScores.Times = make(map[string][]TimeScore, len(r.HighScores.Times))
	for k, v := range r.HighScores.Times {
		out.HighScores.Times[k] = slices.Clone(v)
	}
	return out
}

// normalize repairs a decoded record so the store invariants hold:
// the default cosmetics are unlocked, sets have no duplicates and nothing
// is nil.
func (r *Record) normalize() {
	if r.PlayerName == "" {
		r.PlayerName = DefaultPlayerName
	}
	r.TotalCoins = max(r.TotalCoins, 0)

	for _, id := range DefaultCosmetics {
		if !slices.Contains(r.UnlockedAvatars, id) {
			r.UnlockedAvatars = append(r.UnlockedAvatars, id)
		}
	}
	r.UnlockedAvatars = dedupe(r.UnlockedAvatars)

	if r.CompletedLevels == nil {
		r.CompletedLevels = []int{}
	}
	r.CompletedLevels = dedupe(r.CompletedLevels)

	if r.BestTimes == nil {
		r.BestTimes = map[string]float64{}
	}
	if r.HighScores.Coins == nil {
		r.HighScores.Coins = []CoinScore{}
	}
	if r.HighScores.Times == nil {
		r.HighScores.Times = map[string][]TimeScore{}
	}
}

// dedupe removes repeated values, keeping first occurrences in order.
func dedupe[T comparable](in []T) []T {
	seen := make(map[T]struct{}, len(in))
	out := in[:0]
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
