// Package progress is the durable progression of a player: coins, unlocked
// cosmetics, completed levels, best times and the ranked score tables.
//
// The record lives in memory and every mutation flushes the whole record to a
// JSON file through a temp file and rename, so an interrupted write never
// leaves a half-written save behind.
package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
)

var (
	ErrLockedCosmetic = errors.New("progress: cosmetic is not unlocked")
	ErrEmptyName      = errors.New("progress: player name is empty")
)

const (
	defaultThreshold       = 15
	defaultLeaderboardSize = 10
)

// Store owns one progression record and its file.
type Store struct {
	path      string // Empty keeps the record in memory only
	rec       Record
	catalog   Catalog
	rng       *rand.Rand
	logger    *log.Logger
	threshold int
	boardSize int
}

// Option configures a Store.
type Option func(*Store)

// WithCatalog sets the cosmetics the unlock lottery draws from.
func WithCatalog(c Catalog) Option {
	return func(s *Store) { s.catalog = c }
}

// WithRand sets the random source of the unlock lottery.
func WithRand(r *rand.Rand) Option {
	return func(s *Store) { s.rng = r }
}

// WithLogger sets the logger used for load fallbacks.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithThreshold sets the coin total that triggers the unlock lottery.
// Non-positive values keep the default, since no total could cross them.
func WithThreshold(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.threshold = n
		}
	}
}

// WithLeaderboardSize caps every ranked table.
func WithLeaderboardSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.boardSize = n
		}
	}
}

// Load reads the record at path. It never fails: a missing or unreadable
// file yields the default record, and keys missing from the file keep their
// default values.
func Load(path string, opts ...Option) *Store {
	s := &Store{
		path:      path,
		rec:       DefaultRecord(),
		catalog:   BuiltinCatalog,
		threshold: defaultThreshold,
		boardSize: defaultLeaderboardSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}

	if path == "" {
		return s
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.logger.Debug("no save file, starting fresh", "path", path)
		return s
	case err != nil:
		s.logger.Warn("could not read save file, starting fresh", "path", path, "error", err)
		return s
	}

	rec := DefaultRecord()
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.Warn("corrupt save file, starting fresh", "path", path, "error", err)
		return s
	}
	rec.normalize()
	s.rec = rec
	return s
}

// Path returns the save file location.
func (s *Store) Path() string {
	return s.path
}

// Record returns a copy of the current record.
func (s *Store) Record() Record {
	return s.rec.Clone()
}

// Save writes the whole record to disk atomically.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(s.rec, "", "  ")
	if err != nil {
		return fmt.Errorf("progress: encoding record: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("progress: cannot create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".save-*.json")
	if err != nil {
		return fmt.Errorf("progress: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // No-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("progress: writing save: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("progress: syncing save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("progress: closing save: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("progress: replacing save: %w", err)
	}
	return nil
}

// AddCoins adds n coins to the total and saves. When the total crosses the
// unlock threshold in this call the lottery runs once and its result is
// returned. Non-positive n is ignored.
func (s *Store) AddCoins(n int) (unlocked string, err error) {
	if n <= 0 {
		return "", nil
	}
	old := s.rec.TotalCoins
	s.rec.TotalCoins += n

	if old < s.threshold && s.threshold <= s.rec.TotalCoins {
		unlocked = s.unlockRandom()
	}
	return unlocked, s.Save()
}

// unlockRandom draws one locked cosmetic uniformly at random and unlocks it.
// It returns "" when nothing is left to unlock.
func (s *Store) unlockRandom() string {
	all, err := s.catalog.Cosmetics()
	if err != nil {
		s.logger.Warn("cosmetic catalog unavailable", "error", err)
		return ""
	}

	var locked []string
	for _, id := range all {
		if !slices.Contains(s.rec.UnlockedAvatars, id) {
			locked = append(locked, id)
		}
	}
	if len(locked) == 0 {
		return ""
	}
	slices.Sort(locked)
	locked = slices.Compact(locked)

	pick := locked[s.rng.Intn(len(locked))]
	s.rec.UnlockedAvatars = append(s.rec.UnlockedAvatars, pick)
	s.logger.Info("cosmetic unlocked", "id", pick)
	return pick
}

// CompleteLevel marks a level complete and updates both leaderboards.
// Completing a level twice leaves the completion set unchanged.
func (s *Store) CompleteLevel(index int, seconds float64) error {
	if !slices.Contains(s.rec.CompletedLevels, index) {
		s.rec.CompletedLevels = append(s.rec.CompletedLevels, index)
	}
	s.updateLeaderboards(index, seconds)
	return s.Save()
}

// UpdateLeaderboards upserts the current player into the coins table and the
// level's times table, then saves.
func (s *Store) UpdateLeaderboards(index int, seconds float64) error {
	s.updateLeaderboards(index, seconds)
	return s.Save()
}

func (s *Store) updateLeaderboards(index int, seconds float64) {
	name := s.rec.PlayerName

	coins := s.rec.HighScores.Coins
	if i := slices.IndexFunc(coins, func(e CoinScore) bool { return e.Name == name }); i >= 0 {
		coins[i].Coins = s.rec.TotalCoins
	} else {
		coins = append(coins, CoinScore{Name: name, Coins: s.rec.TotalCoins})
	}
	sort.SliceStable(coins, func(i, j int) bool { return coins[i].Coins > coins[j].Coins })
	s.rec.HighScores.Coins = truncate(coins, s.boardSize)

	key := strconv.Itoa(index)
	times := s.rec.HighScores.Times[key]
	if i := slices.IndexFunc(times, func(e TimeScore) bool { return e.Name == name }); i >= 0 {
		if seconds < times[i].Time {
			times[i].Time = seconds
		}
	} else {
		times = append(times, TimeScore{Name: name, Time: seconds})
	}
	sort.SliceStable(times, func(i, j int) bool { return times[i].Time < times[j].Time })
	s.rec.HighScores.Times[key] = truncate(times, s.boardSize)
}

func truncate[T any](in []T, n int) []T {
	if len(in) > n {
		return in[:n]
	}
	return in
}

// SetBestTime stores seconds as the level's best time if there is none yet
// or it is strictly smaller. It reports whether the time was stored.
func (s *Store) SetBestTime(index int, seconds float64) (bool, error) {
	key := strconv.Itoa(index)
	if cur, ok := s.rec.BestTimes[key]; ok && seconds >= cur {
		return false, nil
	}
	s.rec.BestTimes[key] = seconds
	return true, s.Save()
}

// SetSelectedCosmetic selects an unlocked cosmetic and saves.
func (s *Store) SetSelectedCosmetic(id string) error {
	if !slices.Contains(s.rec.UnlockedAvatars, id) {
		return fmt.Errorf("%w: %s", ErrLockedCosmetic, id)
	}
	s.rec.SelectedAvatar = id
	return s.Save()
}

// SetPlayerName renames the player used for leaderboard entries and saves.
func (s *Store) SetPlayerName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	s.rec.PlayerName = name
	return s.Save()
}

// TotalCoins returns the lifetime coin total.
func (s *Store) TotalCoins() int {
	return s.rec.TotalCoins
}

// PlayerName returns the name used for leaderboard entries.
func (s *Store) PlayerName() string {
	return s.rec.PlayerName
}

// Unlocked returns the unlocked cosmetic identifiers.
func (s *Store) Unlocked() []string {
	return slices.Clone(s.rec.UnlockedAvatars)
}

// IsUnlocked reports whether a cosmetic is unlocked.
func (s *Store) IsUnlocked(id string) bool {
	return slices.Contains(s.rec.UnlockedAvatars, id)
}

// Completed returns the completed level indices in ascending order.
func (s *Store) Completed() []int {
	out := slices.Clone(s.rec.CompletedLevels)
	slices.Sort(out)
	return out
}

// IsCompleted reports whether a level has been completed.
func (s *Store) IsCompleted(index int) bool {
	return slices.Contains(s.rec.CompletedLevels, index)
}

// IsLevelUnlocked reports whether a level can be played. Level 1 always can;
// level N needs level N-1 completed.
func (s *Store) IsLevelUnlocked(index int) bool {
	if index <= 1 {
		return true
	}
	return s.IsCompleted(index - 1)
}

// BestTimes returns the best completion time per level.
// Keys that are not level numbers are skipped.
func (s *Store) BestTimes() map[int]float64 {
	out := make(map[int]float64, len(s.rec.BestTimes))
	for k, v := range s.rec.BestTimes {
		if n, err := strconv.Atoi(k); err == nil {
			out[n] = v
		}
	}
	return out
}

// BestTime returns the best completion time of one level.
func (s *Store) BestTime(index int) (float64, bool) {
	t, ok := s.rec.BestTimes[strconv.Itoa(index)]
	return t, ok
}

// SelectedCosmetic returns the selected cosmetic, or the first unlocked one
// if the stored selection is not unlocked.
func (s *Store) SelectedCosmetic() string {
	if sel := s.rec.SelectedAvatar; sel != "" && s.IsUnlocked(sel) {
		return sel
	}
	if len(s.rec.UnlockedAvatars) > 0 {
		return s.rec.UnlockedAvatars[0]
	}
	return DefaultCosmetics[0]
}

// CoinsLeaderboard returns the coins table, best first.
func (s *Store) CoinsLeaderboard() []CoinScore {
	return slices.Clone(s.rec.HighScores.Coins)
}

// TimesLeaderboard returns the times table of a level, fastest first.
func (s *Store) TimesLeaderboard(index int) []TimeScore {
	return slices.Clone(s.rec.HighScores.Times[strconv.Itoa(index)])
}
