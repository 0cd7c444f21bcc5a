// Package config centralizes tunable parameters, rulesets and environment helpers.
package config

import "time"

// Frame pacing. The simulation advances by TickDuration of simulated time
// per frame, regardless of how long the frame actually took.
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
	TickDuration    = time.Second / TargetFPS
)

// Terminal render limits. Larger terminals get a centered render area with a border.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 60
)

// Player presentation
const (
	PlayerBlinkFrequency = 10.0 // Hz while invulnerable
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Persistence
const (
	SaveTimeout      = 3 * time.Second
	LeaderboardSize  = 10
	DefaultDataApp   = "skyraid"
	LeaderboardPoll  = 2 * time.Second
	WebsocketPing    = 25 * time.Second
	WebsocketTimeout = 60 * time.Second
)
