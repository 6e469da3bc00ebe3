package core

// RuntimeConfig contains the terminal geometry and tick rate a front-end
// runs with.
type RuntimeConfig struct {
	ScreenW  int // Screen width in characters
	ScreenH  int // Screen height in characters
	TickRate int // Simulation ticks per second (default 60)
}
