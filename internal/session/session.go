// Package session runs the level lifecycle: it drives the resolver tick by
// tick, records progression on a terminal event and resets into a fresh
// attempt once the player has chosen what to do next.
package session

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/jump-rush/internal/config"
	"github.com/vovakirdan/jump-rush/internal/core"
	"github.com/vovakirdan/jump-rush/internal/field"
	"github.com/vovakirdan/jump-rush/internal/level"
	"github.com/vovakirdan/jump-rush/internal/physics"
	"github.com/vovakirdan/jump-rush/internal/storage"
)

var (
	ErrLevelLocked     = errors.New("session: level is locked")
	ErrNotAtMenu       = errors.New("session: not at the menu")
	ErrNoPendingChoice = errors.New("session: no choice pending")
	ErrInvalidChoice   = errors.New("session: choice not allowed here")
	ErrQuit            = errors.New("session: player quit")
)

// State is a lifecycle state.
type State uint8

const (
	StatePlaying State = iota
	StateWon
	StateDied
	StateMenuReturn
	StateQuit
)

var stateNames = [...]string{"playing", "won", "died", "menu", "quit"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Choice is the player's answer on a terminal screen.
type Choice uint8

const (
	ChoiceNext Choice = iota // Win only
	ChoiceRetry
	ChoiceHome
	ChoiceQuit
)

func (c Choice) String() string {
	switch c {
	case ChoiceNext:
		return "next"
	case ChoiceRetry:
		return "retry"
	case ChoiceHome:
		return "home"
	case ChoiceQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// WinEvent is handed to the congratulations screen.
type WinEvent struct {
	Level      int // 1-based
	LevelName  string
	Coins      int    // Collected this attempt
	TotalCoins int    // Lifetime total
	Unlocked   string // Cosmetic unlocked this attempt, if any
	Elapsed    time.Duration
	NewBest    bool
}

// DeathEvent is handed to the game-over screen.
type DeathEvent struct {
	Level int
	Cause physics.Cause
	Score *int // Columns reached this attempt
	Best  *int // Furthest columns ever reached on the level
}

// Presenter shows a terminal screen and blocks until the player chooses.
type Presenter interface {
	Congratulate(WinEvent) Choice
	GameOver(DeathEvent) Choice
}

// Progression is the part of the progression store the lifecycle writes to.
type Progression interface {
	AddCoins(n int) (unlocked string, err error)
	SetBestTime(index int, seconds float64) (bool, error)
	CompleteLevel(index int, seconds float64) error
	IsLevelUnlocked(index int) bool
	TotalCoins() int
}

// History records finished attempts.
type History interface {
	RecordAttempt(storage.Attempt) (int64, error)
	BestDistance(level int) (int, bool, error)
}

// Session is the lifecycle of one player on one level pack.
type Session struct {
	cfg      config.Config
	pack     *level.Pack
	progress Progression
	history  History
	logger   *log.Logger
	now      func() time.Time

	state     State
	index     int
	lvl       *level.Level
	field     *field.Field
	player    physics.Player
	overrides physics.Overrides
	tick      physics.Tick
	ticks     int
	coins     int
	unlocked  string
	start     time.Time
	attempts  map[int]int
	win       *WinEvent
	death     *DeathEvent
}

// Option configures a Session.
type Option func(*Session)

// WithHistory records every finished attempt.
func WithHistory(h History) Option {
	return func(s *Session) { s.history = h }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithClock replaces time.Now for elapsed-time measurement.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithOverrides sets the initial debug toggles.
func WithOverrides(ov physics.Overrides) Option {
	return func(s *Session) { s.overrides = ov }
}

// New starts a session in the Playing state on the given level.
func New(cfg config.Config, pack *level.Pack, prog Progression, startLevel int, opts ...Option) (*Session, error) {
	if pack == nil || pack.Len() == 0 {
		return nil, fmt.Errorf("session: empty level pack")
	}
	s := &Session{
		cfg:      cfg,
		pack:     pack,
		progress: prog,
		now:      time.Now,
		attempts: make(map[int]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}

	if _, err := pack.Get(startLevel); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if !prog.IsLevelUnlocked(startLevel) {
		return nil, fmt.Errorf("%w: %d", ErrLevelLocked, startLevel)
	}

	s.index = startLevel
	s.Reset()
	return s, nil
}

// Reset starts a fresh attempt on the current level: a new obstacle field,
// cleared per-attempt counters, a new start time and a respawned player.
func (s *Session) Reset() {
	lvl, err := s.pack.Get(s.index)
	if err != nil {
		// index is validated on every path that sets it
		panic(err)
	}
	s.lvl = lvl
	s.field = field.New(lvl.Grid, s.cfg.Field.TileSize)
	s.tick = physics.NewTick(s.cfg, s.overrides)
	s.player = physics.NewPlayer(lvl.Spawn, s.cfg.Player.Size, s.tick.Tuning.JumpImpulse)
	s.coins = 0
	s.unlocked = ""
	s.ticks = 0
	s.start = s.now()
	s.win = nil
	s.death = nil
	s.attempts[s.index]++
	s.state = StatePlaying

	s.logger.Debug("attempt started", "level", s.index, "attempt", s.attempts[s.index])
}

// Tick advances one frame. It does nothing unless the session is Playing.
func (s *Session) Tick(in physics.Input) physics.Result {
	if s.state != StatePlaying {
		return physics.Result{}
	}

	res := physics.Step(&s.player, s.field, in, s.tick)
	s.ticks++

	for i := 0; i < res.Coins; i++ {
		s.coins++
		unlocked, err := s.progress.AddCoins(1)
		if err != nil {
			s.logger.Warn("could not save coins", "error", err)
		}
		if unlocked != "" {
			s.unlocked = unlocked
		}
	}

	switch res.Event {
	case physics.EventWin:
		s.onWin()
	case physics.EventDeath:
		s.onDeath(res.Cause)
	}
	return res
}

func (s *Session) onWin() {
	elapsed := s.Elapsed()
	secs := elapsed.Seconds()

	newBest, err := s.progress.SetBestTime(s.index, secs)
	if err != nil {
		s.logger.Warn("could not save best time", "level", s.index, "error", err)
	}
	if err := s.progress.CompleteLevel(s.index, secs); err != nil {
		s.logger.Warn("could not save completion", "level", s.index, "error", err)
	}
	s.record(storage.OutcomeWon, physics.CauseNone, elapsed)

	s.win = &WinEvent{
		Level:      s.index,
		LevelName:  s.lvl.Name,
		Coins:      s.coins,
		TotalCoins: s.progress.TotalCoins(),
		Unlocked:   s.unlocked,
		Elapsed:    elapsed,
		NewBest:    newBest,
	}
	s.state = StateWon
	s.logger.Debug("level won", "level", s.index, "elapsed", elapsed, "coins", s.coins)
}

func (s *Session) onDeath(cause physics.Cause) {
	score := s.Distance()
	s.record(storage.OutcomeDied, cause, s.Elapsed())

	ev := &DeathEvent{Level: s.index, Cause: cause, Score: &score}
	if s.history != nil {
		best, ok, err := s.history.BestDistance(s.index)
		if err != nil {
			s.logger.Warn("could not read best distance", "level", s.index, "error", err)
		} else if ok {
			ev.Best = &best
		}
	}

	s.death = ev
	s.state = StateDied
	s.logger.Debug("player died", "level", s.index, "cause", cause, "distance", score)
}

func (s *Session) record(outcome storage.Outcome, cause physics.Cause, elapsed time.Duration) {
	if s.history == nil {
		return
	}
	a := storage.Attempt{
		Level:     s.index,
		Outcome:   outcome,
		Coins:     s.coins,
		Distance:  s.Distance(),
		Duration:  elapsed,
		Overrides: overrideNames(s.overrides),
		CreatedAt: s.now(),
	}
	if cause != physics.CauseNone {
		a.Cause = cause.String()
	}
	if _, err := s.history.RecordAttempt(a); err != nil {
		s.logger.Warn("could not record attempt", "level", s.index, "error", err)
	}
}

func overrideNames(ov physics.Overrides) []string {
	var names []string
	if ov.NoClip {
		names = append(names, "noclip")
	}
	if ov.Invincible {
		names = append(names, "invincible")
	}
	if ov.PassSpikes {
		names = append(names, "pass-spikes")
	}
	if ov.Easy {
		names = append(names, "easy")
	}
	return names
}

// Resolve applies the player's choice on a terminal screen.
func (s *Session) Resolve(c Choice) error {
	switch s.state {
	case StateWon, StateDied:
	default:
		return fmt.Errorf("%w in state %s", ErrNoPendingChoice, s.state)
	}

	switch c {
	case ChoiceNext:
		if s.state != StateWon {
			return fmt.Errorf("%w: %s after death", ErrInvalidChoice, c)
		}
		s.index = s.pack.Next(s.index)
		s.Reset()
	case ChoiceRetry:
		s.Reset()
	case ChoiceHome:
		s.state = StateMenuReturn
	case ChoiceQuit:
		s.state = StateQuit
	default:
		return fmt.Errorf("%w: %d", ErrInvalidChoice, c)
	}

	s.logger.Debug("choice resolved", "choice", c, "state", s.state, "level", s.index)
	return nil
}

// RunChoice hands the pending event to a blocking presenter and applies the
// answer. It returns ErrNoPendingChoice when nothing is pending.
func (s *Session) RunChoice(p Presenter) (Choice, error) {
	var c Choice
	switch s.state {
	case StateWon:
		c = p.Congratulate(*s.win)
	case StateDied:
		c = p.GameOver(*s.death)
	default:
		return 0, fmt.Errorf("%w in state %s", ErrNoPendingChoice, s.state)
	}
	return c, s.Resolve(c)
}

// SelectLevel leaves the menu and starts the given level. Only unlocked
// levels can be selected.
func (s *Session) SelectLevel(index int) error {
	if s.state != StateMenuReturn {
		return fmt.Errorf("%w (state %s)", ErrNotAtMenu, s.state)
	}
	if _, err := s.pack.Get(index); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if !s.progress.IsLevelUnlocked(index) {
		return fmt.Errorf("%w: %d", ErrLevelLocked, index)
	}
	s.index = index
	s.Reset()
	return nil
}

// JumpTo restarts on any level regardless of lock state. It is the debug
// level shortcut.
func (s *Session) JumpTo(index int) error {
	if s.state == StateQuit {
		return ErrQuit
	}
	if _, err := s.pack.Get(index); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	s.index = index
	s.Reset()
	return nil
}

// Quit ends the session from any state.
func (s *Session) Quit() {
	s.state = StateQuit
}

// Overrides returns the active debug toggles.
func (s *Session) Overrides() physics.Overrides {
	return s.overrides
}

// SetOverrides replaces the debug toggles. They apply from the next tick.
func (s *Session) SetOverrides(ov physics.Overrides) {
	s.overrides = ov
	s.tick = physics.NewTick(s.cfg, ov)
	s.logger.Debug("overrides changed", "active", overrideNames(ov))
}

// ToggleNoClip flips pass-through mode and returns the new value.
func (s *Session) ToggleNoClip() bool {
	ov := s.overrides
	ov.NoClip = !ov.NoClip
	s.SetOverrides(ov)
	return ov.NoClip
}

// ToggleInvincible flips invincibility and returns the new value.
func (s *Session) ToggleInvincible() bool {
	ov := s.overrides
	ov.Invincible = !ov.Invincible
	s.SetOverrides(ov)
	return ov.Invincible
}

// TogglePassSpikes flips spike pass-through and returns the new value.
func (s *Session) TogglePassSpikes() bool {
	ov := s.overrides
	ov.PassSpikes = !ov.PassSpikes
	s.SetOverrides(ov)
	return ov.PassSpikes
}

// ToggleEasy flips easy physics and returns the new value.
func (s *Session) ToggleEasy() bool {
	ov := s.overrides
	ov.Easy = !ov.Easy
	s.SetOverrides(ov)
	return ov.Easy
}

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// LevelIndex returns the 1-based index of the current level.
func (s *Session) LevelIndex() int { return s.index }

// Level returns the current level definition.
func (s *Session) Level() *level.Level { return s.lvl }

// Pack returns the level pack.
func (s *Session) Pack() *level.Pack { return s.pack }

// Field returns the obstacle field of the current attempt.
func (s *Session) Field() *field.Field { return s.field }

// Player returns a copy of the player state.
func (s *Session) Player() physics.Player { return s.player }

// Coins returns the coins collected this attempt.
func (s *Session) Coins() int { return s.coins }

// Unlocked returns the cosmetic unlocked this attempt, if any.
func (s *Session) Unlocked() string { return s.unlocked }

// Attempt returns how many attempts have been started on the current level.
func (s *Session) Attempt() int { return s.attempts[s.index] }

// Ticks returns the frames simulated this attempt.
func (s *Session) Ticks() int { return s.ticks }

// Win returns the pending win event, or nil.
func (s *Session) Win() *WinEvent { return s.win }

// Death returns the pending death event, or nil.
func (s *Session) Death() *DeathEvent { return s.death }

// Elapsed returns the wall-clock time since the attempt started.
func (s *Session) Elapsed() time.Duration {
	return s.now().Sub(s.start)
}

// Distance returns the furthest column the player has reached.
func (s *Session) Distance() int {
	return s.player.Column(s.cfg.Field.TileSize)
}

// Progress returns how far the player is towards the End marker, in [0, 1].
func (s *Session) Progress() float64 {
	goal := s.field.Goal()
	if goal == nil || goal.Bounds.X <= 0 {
		return 0
	}
	return core.ClampF(s.player.Rect.Right()/goal.Bounds.X, 0, 1)
}
