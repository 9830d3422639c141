package demo

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/simplechat/internal/app"
	"github.com/zhubert/simplechat/internal/config"
	"github.com/zhubert/simplechat/internal/devserver"
	"github.com/zhubert/simplechat/internal/keys"
	"github.com/zhubert/simplechat/internal/logger"
	"github.com/zhubert/simplechat/internal/transport"
)

// Frame represents a captured frame from the demo.
type Frame struct {
	Content    string        // ANSI-encoded terminal content
	Delay      time.Duration // Delay before this frame
	Annotation string        // Optional annotation/caption
	StepIndex  int           // Index of the step that produced this frame
}

// ExecutorConfig configures the demo executor.
type ExecutorConfig struct {
	// CaptureEveryStep captures a frame after every step (default: false)
	CaptureEveryStep bool

	// TypeDelay is the delay between characters when typing (default: 50ms)
	TypeDelay time.Duration

	// KeyDelay is the delay after key presses (default: 100ms)
	KeyDelay time.Duration

	// Settle is how long the executor waits for a command's reply before
	// treating the model as idle (default: 150ms). Timers outlive it.
	Settle time.Duration
}

// DefaultExecutorConfig returns the default executor configuration.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		CaptureEveryStep: false,
		TypeDelay:        50 * time.Millisecond,
		KeyDelay:         100 * time.Millisecond,
		Settle:           150 * time.Millisecond,
	}
}

// Executor runs demo scenarios and captures frames.
type Executor struct {
	config ExecutorConfig
	model  *app.Model
	store  *devserver.Store
	me     int
	frames []Frame

	shutdown func(context.Context) error

	currentAnnotation string
}

// NewExecutor creates a new demo executor.
func NewExecutor(cfg ExecutorConfig) *Executor {
	if cfg.Settle <= 0 {
		cfg.Settle = DefaultExecutorConfig().Settle
	}
	return &Executor{
		config: cfg,
		frames: []Frame{},
	}
}

// Run executes a scenario and returns the captured frames.
func (e *Executor) Run(scenario *Scenario) ([]Frame, error) {
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	if err := e.setup(scenario); err != nil {
		return nil, fmt.Errorf("setup failed: %w", err)
	}
	defer e.Cleanup()

	e.captureFrame(0, 500*time.Millisecond)

	for i, step := range scenario.Steps {
		if err := e.executeStep(i, step); err != nil {
			return nil, fmt.Errorf("step %d failed: %w", i, err)
		}
	}

	return e.frames, nil
}

// Cleanup closes the client and stops the server. It is safe to call twice.
func (e *Executor) Cleanup() {
	if e.model != nil {
		e.model.Shutdown()
	}
	if e.shutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := e.shutdown(ctx); err != nil {
			logger.WithComponent("demo").Warn("server shutdown", "error", err)
		}
		e.shutdown = nil
	}
}

// setup starts a seeded server and a client model logged in to it.
func (e *Executor) setup(scenario *Scenario) error {
	e.store = devserver.NewStore()
	if scenario.Setup.Seed != nil {
		scenario.Setup.Seed(e.store)
	}
	me, ok := e.store.UserID(scenario.Setup.Username)
	if !ok {
		return fmt.Errorf("user %q is not in the seeded store", scenario.Setup.Username)
	}
	e.me = me

	baseURL, shutdown, err := devserver.New(e.store).Listen("127.0.0.1:0")
	if err != nil {
		return err
	}
	e.shutdown = shutdown

	cfg := config.Default()
	cfg.SetServerURL(baseURL)
	cfg.SetSessionCookie(devserver.UserCookie + "=" + scenario.Setup.Username)
	// Polls only happen when a step asks for them.
	cfg.SetPollInterval(time.Hour)

	client := transport.NewHTTPClient(transport.Options{
		BaseURL: cfg.GetServerURL(),
		Cookie:  cfg.GetSessionCookie(),
	})
	e.model = app.New(cfg, client)
	e.update(tea.WindowSizeMsg{Width: scenario.Width, Height: scenario.Height})
	e.settle(e.model.Init())
	return nil
}

// executeStep executes a single demo step.
func (e *Executor) executeStep(index int, step Step) error {
	switch step.Type {
	case StepWait:
		e.captureFrame(index, step.Duration)

	case StepKey:
		e.sendKey(step.Key)
		if e.config.CaptureEveryStep {
			e.captureFrame(index, e.config.KeyDelay)
		}

	case StepTypeText:
		for _, ch := range step.Text {
			e.sendKey(string(ch))
			if e.config.CaptureEveryStep {
				e.captureFrame(index, e.config.TypeDelay)
			}
		}

	case StepIncoming:
		if err := e.simulateIncoming(step.From, step.Text); err != nil {
			return err
		}
		e.captureFrame(index, 300*time.Millisecond)

	case StepAnnotate:
		e.currentAnnotation = step.Annotation

	case StepCapture:
		e.captureFrame(index, 0)
	}

	return nil
}

// captureFrame captures the current view as a frame.
func (e *Executor) captureFrame(stepIndex int, delay time.Duration) {
	e.frames = append(e.frames, Frame{
		Content:    e.model.RenderToString(),
		Delay:      delay,
		Annotation: e.currentAnnotation,
		StepIndex:  stepIndex,
	})
	e.currentAnnotation = ""
}

// simulateIncoming stores a message from another user and pulls it into the
// client. The open chat is polled first so its messages are read before the
// chat list reloads with badges.
func (e *Executor) simulateIncoming(from, text string) error {
	sender, ok := e.store.UserID(from)
	if !ok {
		return fmt.Errorf("unknown sender %q", from)
	}
	chatID := e.store.OpenChat(sender, e.me)
	if _, _, _, err := e.store.SendMessage(sender, chatID, text); err != nil {
		return fmt.Errorf("sending as %s: %w", from, err)
	}
	e.settle(e.model.Messages().PollNow())
	e.settle(e.model.Chats().LoadChats(1))
	return nil
}

// sendKey sends a key press to the model.
func (e *Executor) sendKey(key string) {
	e.settle(e.update(keyPress(key)))
}

func (e *Executor) update(msg tea.Msg) tea.Cmd {
	result, cmd := e.model.Update(msg)
	e.model = result.(*app.Model)
	return cmd
}

// settle runs cmd and every command its messages produce until nothing
// answers within the settle window. Commands run concurrently so pending
// timers only cost one window.
func (e *Executor) settle(cmd tea.Cmd) {
	results := make(chan tea.Msg, 256)
	pending := 0
	launch := func(c tea.Cmd) {
		if c == nil {
			return
		}
		pending++
		go func() {
			msg := c()
			select {
			case results <- msg:
			default:
			}
		}()
	}
	launch(cmd)

	for steps := 0; pending > 0 && steps < 1000; steps++ {
		select {
		case msg := <-results:
			pending--
			switch msg := msg.(type) {
			case nil, tea.QuitMsg:
			case tea.BatchMsg:
				for _, c := range msg {
					launch(c)
				}
			default:
				launch(e.update(msg))
			}
		case <-time.After(e.config.Settle):
			return
		}
	}
}

// keyPress converts a key string to a tea.KeyPressMsg.
func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case keys.Enter:
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case keys.Tab:
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case keys.ShiftTab:
		return tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
	case keys.Escape, "escape":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case keys.Backspace:
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	case keys.Up:
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case keys.Down:
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case keys.Home:
		return tea.KeyPressMsg{Code: tea.KeyHome}
	case keys.End:
		return tea.KeyPressMsg{Code: tea.KeyEnd}
	case keys.PgUp:
		return tea.KeyPressMsg{Code: tea.KeyPgUp}
	case keys.PgDown:
		return tea.KeyPressMsg{Code: tea.KeyPgDown}
	case keys.Space:
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case keys.CtrlA:
		return tea.KeyPressMsg{Code: 'a', Mod: tea.ModCtrl}
	case keys.CtrlC:
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	case keys.CtrlD:
		return tea.KeyPressMsg{Code: 'd', Mod: tea.ModCtrl}
	case keys.CtrlR:
		return tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl}
	case keys.CtrlY:
		return tea.KeyPressMsg{Code: 'y', Mod: tea.ModCtrl}
	default:
		r := []rune(key)
		if len(r) == 1 {
			return tea.KeyPressMsg{Code: r[0], Text: key}
		}
		return tea.KeyPressMsg{Text: key}
	}
}
