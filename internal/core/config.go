package core

// RuntimeConfig contains configuration passed to a session at start.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for highlight colors
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// StepResult is returned by Session.Step after each tick.
type StepResult struct {
	Deformed int  // Chunks whose surface changed this tick
	Created  int  // Chunks added by tile extension this tick
	Quit     bool // A quit action was consumed
	Save     bool // A snapshot save was requested
}
