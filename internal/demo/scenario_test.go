package demo

import (
	"testing"
	"time"

	"github.com/zhubert/simplechat/internal/devserver"
)

func TestScenarioValidate(t *testing.T) {
	tests := []struct {
		name      string
		scenario  *Scenario
		wantErr   bool
		errField  string
		wantWidth int
	}{
		{
			name: "valid scenario",
			scenario: &Scenario{
				Name:   "test",
				Width:  100,
				Height: 30,
				Setup:  DefaultSetup(),
			},
			wantWidth: 100,
		},
		{
			name:     "missing name",
			scenario: &Scenario{Description: "Test scenario"},
			wantErr:  true,
			errField: "Name",
		},
		{
			name:      "default width and height",
			scenario:  &Scenario{Name: "test"},
			wantWidth: 120,
		},
		{
			name: "incoming without sender",
			scenario: &Scenario{
				Name:  "test",
				Steps: []Step{Incoming("", "hi")},
			},
			wantErr:  true,
			errField: "Steps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scenario.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				verr, ok := err.(*ValidationError)
				if !ok {
					t.Fatalf("error is %T, want *ValidationError", err)
				}
				if verr.Field != tt.errField {
					t.Errorf("Field = %q, want %q", verr.Field, tt.errField)
				}
				return
			}
			if tt.scenario.Width != tt.wantWidth {
				t.Errorf("Width = %d, want %d", tt.scenario.Width, tt.wantWidth)
			}
			if tt.scenario.Setup == nil || tt.scenario.Setup.Username == "" {
				t.Error("Setup should be filled in")
			}
		})
	}
}

func TestDefaultSetup(t *testing.T) {
	setup := DefaultSetup()
	if setup.Username != devserver.DemoUser {
		t.Errorf("Username = %q, want %q", setup.Username, devserver.DemoUser)
	}
	if setup.Seed == nil {
		t.Error("Seed should default to the demo data set")
	}
}

func TestStepBuilders(t *testing.T) {
	tests := []struct {
		name string
		step Step
		want Step
	}{
		{"wait", Wait(time.Second), Step{Type: StepWait, Duration: time.Second}},
		{"key", Key("enter"), Step{Type: StepKey, Key: "enter"}},
		{"key with desc", KeyWithDesc("tab", "focus"), Step{Type: StepKey, Key: "tab", Description: "focus"}},
		{"type", Type("hello"), Step{Type: StepTypeText, Text: "hello"}},
		{"type with desc", TypeWithDesc("hi", "greet"), Step{Type: StepTypeText, Text: "hi", Description: "greet"}},
		{"incoming", Incoming("bob", "yo"), Step{Type: StepIncoming, From: "bob", Text: "yo"}},
		{"annotate", Annotate("note"), Step{Type: StepAnnotate, Annotation: "note"}},
		{"capture", Capture(), Step{Type: StepCapture}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.step != tt.want {
				t.Errorf("got %+v, want %+v", tt.step, tt.want)
			}
		})
	}
}
