package config

import "time"

const (
	// External call timeouts
	GenerateTimeout = 90 * time.Second
	DispatchTimeout = 60 * time.Second

	// Upload limits
	MaxUploadBytes = 10 << 20

	// Browser session lifetime
	SessionTTL           = 30 * time.Minute
	SessionSweepInterval = 60 * time.Second

	// Session cookie
	SessionCookieName = "sid"

	// Identity cookies
	UsernameCookie = "username"
	RoleCookie     = "role"

	// HTTP server
	ReadHeaderTimeout = 10 * time.Second
	ShutdownTimeout   = 10 * time.Second
)

// SampleQuestions are the canned chat starters shown to the user.
var SampleQuestions = []string{
	"What are the symptoms of pneumonia?",
	"How can I manage sugar spikes after dinner?",
	"What are the early signs before heart attack?",
}
