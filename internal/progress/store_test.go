package progress

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "save.json")
	opts = append([]Option{WithRand(rand.New(rand.NewSource(1)))}, opts...)
	return Load(path, opts...)
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	s := tempStore(t)
	assert.Equal(t, DefaultRecord(), s.Record())
	assert.Equal(t, "avatar.png", s.SelectedCosmetic())
	assert.True(t, s.IsLevelUnlocked(1))
	assert.False(t, s.IsLevelUnlocked(2))
}

func TestLoadCorruptFileGivesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	s := Load(path)
	assert.Equal(t, DefaultRecord(), s.Record())
}

func TestLoadBackfillsMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")
	data := `{"total_coins": 7, "unlocked_avatars": ["Rainbow.png", "Rainbow.png"], "completed_levels": [1, 1, 2]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	s := Load(path)
	rec := s.Record()

	assert.Equal(t, 7, rec.TotalCoins, "present keys survive")
	assert.Equal(t, DefaultPlayerName, rec.PlayerName)
	assert.Equal(t, "avatar.png", rec.SelectedAvatar)
	assert.NotNil(t, rec.BestTimes)
	assert.NotNil(t, rec.HighScores.Times)
	assert.Equal(t, []int{1, 2}, rec.CompletedLevels)

	assert.Equal(t, "Rainbow.png", rec.UnlockedAvatars[0])
	for _, id := range DefaultCosmetics {
		assert.Contains(t, rec.UnlockedAvatars, id, "default cosmetics are always unlocked")
	}
	assert.Len(t, rec.UnlockedAvatars, len(DefaultCosmetics)+1)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.SetPlayerName("ada"))
	_, err := s.AddCoins(20)
	require.NoError(t, err)
	_, err = s.SetBestTime(1, 12.5)
	require.NoError(t, err)
	require.NoError(t, s.CompleteLevel(1, 12.5))
	require.NoError(t, s.SetPlayerName("bob"))
	require.NoError(t, s.CompleteLevel(1, 9.25))
	require.NoError(t, s.CompleteLevel(2, 30))

	loaded := Load(s.Path())
	assert.Equal(t, s.Record(), loaded.Record())
	assert.Equal(t, []TimeScore{{"bob", 9.25}, {"ada", 12.5}}, loaded.TimesLeaderboard(1))
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Save())
	require.NoError(t, s.Save())

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "save.json", entries[0].Name())
}

func TestSaveCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "save.json")
	s := Load(path)
	require.NoError(t, s.Save())
	assert.FileExists(t, path)
}

func TestMemoryOnlyStore(t *testing.T) {
	s := Load("")
	_, err := s.AddCoins(3)
	require.NoError(t, err)
	assert.Equal(t, 3, s.TotalCoins())
}

func TestAddCoinsCrossingThresholdUnlocksOnce(t *testing.T) {
	s := tempStore(t)
	_, err := s.AddCoins(14)
	require.NoError(t, err)
	before := s.Unlocked()

	got, err := s.AddCoins(1)
	require.NoError(t, err)

	assert.Equal(t, 15, s.TotalCoins())
	require.NotEmpty(t, got)
	assert.NotContains(t, before, got, "lottery picks a locked cosmetic")
	assert.Contains(t, s.Unlocked(), got)
	assert.Len(t, s.Unlocked(), len(before)+1)

	again, err := s.AddCoins(1)
	require.NoError(t, err)
	assert.Empty(t, again, "already past the threshold")
	assert.Len(t, s.Unlocked(), len(before)+1)
}

func TestAddCoinsJumpingPastThreshold(t *testing.T) {
	s := tempStore(t)
	got, err := s.AddCoins(40)
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}

func TestNonPositiveThresholdKeepsLottery(t *testing.T) {
	for _, n := range []int{0, -3} {
		s := tempStore(t, WithThreshold(n))
		got, err := s.AddCoins(defaultThreshold)
		require.NoError(t, err)
		assert.NotEmpty(t, got, "threshold %d", n)
	}

	s := tempStore(t, WithThreshold(3))
	got, err := s.AddCoins(3)
	require.NoError(t, err)
	assert.NotEmpty(t, got, "positive thresholds apply")
}

func TestAddCoinsIgnoresNonPositive(t *testing.T) {
	s := tempStore(t)
	_, err := s.AddCoins(0)
	require.NoError(t, err)
	_, err = s.AddCoins(-5)
	require.NoError(t, err)
	assert.Zero(t, s.TotalCoins())
}

func TestLotteryExhaustion(t *testing.T) {
	s := tempStore(t, WithCatalog(StaticCatalog(DefaultCosmetics)))
	got, err := s.AddCoins(15)
	require.NoError(t, err)
	assert.Empty(t, got, "nothing left to unlock is a no-op")
	assert.ElementsMatch(t, DefaultCosmetics, s.Unlocked())
}

func TestLotteryNeverRepeats(t *testing.T) {
	catalog := StaticCatalog{"avatar.png", "a.png", "b.png", "c.png"}
	s := tempStore(t, WithCatalog(catalog))

	var drawn []string
	for i := 0; i < 5; i++ {
		if id := s.unlockRandom(); id != "" {
			drawn = append(drawn, id)
		}
	}
	assert.ElementsMatch(t, []string{"a.png", "b.png", "c.png"}, drawn)
	assert.Empty(t, s.unlockRandom())
}

func TestCompleteLevelIsIdempotentForSet(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.CompleteLevel(3, 10))
	require.NoError(t, s.CompleteLevel(3, 8))

	assert.Equal(t, []int{3}, s.Completed())
	assert.True(t, s.IsLevelUnlocked(4))
	assert.Equal(t, []TimeScore{{DefaultPlayerName, 8}}, s.TimesLeaderboard(3), "table still updates")
}

func TestBestTimeOnlyImproves(t *testing.T) {
	tests := []struct {
		name  string
		times []float64
		want  float64
	}{
		{"slower then faster", []float64{20, 10}, 10},
		{"faster then slower", []float64{10, 20}, 10},
		{"equal", []float64{10, 10}, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := tempStore(t)
			for _, v := range tc.times {
				_, err := s.SetBestTime(1, v)
				require.NoError(t, err)
			}
			got, ok := s.BestTime(1)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, map[int]float64{1: tc.want}, s.BestTimes())
		})
	}

	s := tempStore(t)
	stored, _ := s.SetBestTime(2, 5)
	assert.True(t, stored)
	stored, _ = s.SetBestTime(2, 5)
	assert.False(t, stored)
}

func TestCoinsLeaderboardInvariants(t *testing.T) {
	s := tempStore(t)
	for i := 0; i < 15; i++ {
		require.NoError(t, s.SetPlayerName(fmt.Sprintf("p%02d", i)))
		_, err := s.AddCoins(i%4 + 1)
		require.NoError(t, err)
		require.NoError(t, s.UpdateLeaderboards(1, float64(100-i)))
	}
	// Same player again must not add a row.
	require.NoError(t, s.UpdateLeaderboards(1, 1))

	board := s.CoinsLeaderboard()
	assert.Len(t, board, 10)
	assert.True(t, slices.IsSortedFunc(board, func(a, b CoinScore) int { return b.Coins - a.Coins }))

	names := map[string]bool{}
	for _, e := range board {
		assert.False(t, names[e.Name], "duplicate %s", e.Name)
		names[e.Name] = true
	}

	times := s.TimesLeaderboard(1)
	assert.Len(t, times, 10)
	assert.Equal(t, TimeScore{"p14", 1}, times[0])
	assert.True(t, slices.IsSortedFunc(times, func(a, b TimeScore) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		}
		return 0
	}))
}

func TestCoinsLeaderboardReplacesScore(t *testing.T) {
	s := tempStore(t)
	_, err := s.AddCoins(5)
	require.NoError(t, err)
	require.NoError(t, s.UpdateLeaderboards(1, 10))
	_, err = s.AddCoins(2)
	require.NoError(t, err)
	require.NoError(t, s.UpdateLeaderboards(1, 20))

	assert.Equal(t, []CoinScore{{DefaultPlayerName, 7}}, s.CoinsLeaderboard())
	assert.Equal(t, []TimeScore{{DefaultPlayerName, 10}}, s.TimesLeaderboard(1), "slower time is not stored")
}

func TestSelectedCosmetic(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.SetSelectedCosmetic("Clown.png"))
	assert.Equal(t, "Clown.png", s.SelectedCosmetic())

	err := s.SetSelectedCosmetic("Rainbow.png")
	assert.ErrorIs(t, err, ErrLockedCosmetic)

	path := filepath.Join(t.TempDir(), "save.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"selected_avatar": "Rainbow.png"}`), 0o600))
	assert.Equal(t, "avatar.png", Load(path).SelectedCosmetic(), "locked selection falls back")
}

func TestSetPlayerNameRejectsEmpty(t *testing.T) {
	s := tempStore(t)
	assert.ErrorIs(t, s.SetPlayerName(""), ErrEmptyName)
	assert.Equal(t, DefaultPlayerName, s.PlayerName())
}

func TestRecordIsACopy(t *testing.T) {
	s := tempStore(t)
	rec := s.Record()
	rec.UnlockedAvatars[0] = "hacked.png"
	rec.BestTimes["1"] = 1
	assert.Equal(t, "avatar.png", s.Unlocked()[0])
	_, ok := s.BestTime(1)
	assert.False(t, ok)
}

func TestDirCatalog(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.PNG", "a.jpg", "c.jpeg", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))

	got, err := DirCatalog{Dir: dir}.Cosmetics()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.PNG", "c.jpeg"}, got)

	_, err = DirCatalog{Dir: filepath.Join(dir, "missing")}.Cosmetics()
	assert.Error(t, err)

	got, err = DirCatalog{Dir: filepath.Join(dir, "missing"), Fallback: BuiltinCatalog}.Cosmetics()
	require.NoError(t, err)
	assert.Equal(t, []string(BuiltinCatalog), got)
}
