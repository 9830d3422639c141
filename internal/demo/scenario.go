// Package demo records scripted sessions of the chat client for
// documentation. Scenarios run against an in-process dev server, so every
// frame comes from the real transport and server code.
package demo

import (
	"strconv"
	"time"

	"github.com/zhubert/simplechat/internal/devserver"
)

// StepType represents the type of action in a demo step.
type StepType int

const (
	// StepWait pauses for a duration (for timing/pacing).
	StepWait StepType = iota
	// StepKey sends a single key press.
	StepKey
	// StepTypeText types a string character by character.
	StepTypeText
	// StepIncoming has another user send a message to the demo user.
	StepIncoming
	// StepCapture captures the current frame (for selective capture).
	StepCapture
	// StepAnnotate adds an annotation/caption to the next frame.
	StepAnnotate
)

// Step represents a single action in a demo scenario.
type Step struct {
	Type        StepType
	Description string // Human-readable description of what this step does

	// For StepKey
	Key string

	// For StepTypeText and StepIncoming
	Text string

	// For StepIncoming
	From string

	// For StepWait
	Duration time.Duration

	// For StepAnnotate
	Annotation string
}

// Scenario defines a complete demo scenario.
type Scenario struct {
	Name        string
	Description string
	Width       int // Terminal width (default 120)
	Height      int // Terminal height (default 40)
	Setup       *ScenarioSetup
	Steps       []Step
}

// ScenarioSetup defines the server data and the account the client uses.
type ScenarioSetup struct {
	// Username is the account the client logs in as.
	Username string

	// Seed fills the server store before the client connects.
	Seed func(*devserver.Store)
}

// DefaultSetup logs in as the demo user against the demo data set.
func DefaultSetup() *ScenarioSetup {
	return &ScenarioSetup{
		Username: devserver.DemoUser,
		Seed:     devserver.SeedDemo,
	}
}

// Validate checks that the scenario is valid and fills in defaults.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "Name", Message: "scenario name is required"}
	}
	if s.Width <= 0 {
		s.Width = 120
	}
	if s.Height <= 0 {
		s.Height = 40
	}
	if s.Setup == nil {
		s.Setup = DefaultSetup()
	}
	if s.Setup.Username == "" {
		s.Setup.Username = devserver.DemoUser
	}
	for i, step := range s.Steps {
		if step.Type == StepIncoming && (step.From == "" || step.Text == "") {
			return &ValidationError{Field: "Steps", Message: "incoming step " + strconv.Itoa(i) + " needs a sender and text"}
		}
	}
	return nil
}

// ValidationError represents a scenario validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + ": " + e.Message
}

// Step builder functions for fluent scenario construction

// Wait creates a wait step.
func Wait(d time.Duration) Step {
	return Step{
		Type:     StepWait,
		Duration: d,
	}
}

// Key creates a key press step.
func Key(key string) Step {
	return Step{
		Type: StepKey,
		Key:  key,
	}
}

// KeyWithDesc creates a key press step with a description.
func KeyWithDesc(key, description string) Step {
	return Step{
		Type:        StepKey,
		Key:         key,
		Description: description,
	}
}

// Type creates a text typing step.
func Type(text string) Step {
	return Step{
		Type: StepTypeText,
		Text: text,
	}
}

// TypeWithDesc creates a text typing step with a description.
func TypeWithDesc(text, description string) Step {
	return Step{
		Type:        StepTypeText,
		Text:        text,
		Description: description,
	}
}

// Incoming has from send text to the demo user in their direct chat.
func Incoming(from, text string) Step {
	return Step{
		Type: StepIncoming,
		From: from,
		Text: text,
	}
}

// Annotate creates an annotation step.
func Annotate(text string) Step {
	return Step{
		Type:       StepAnnotate,
		Annotation: text,
	}
}

// Capture creates a frame capture step.
func Capture() Step {
	return Step{
		Type: StepCapture,
	}
}
