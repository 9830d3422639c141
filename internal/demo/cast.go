package demo

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// castHeader is the first line of an asciinema v2 file.
type castHeader struct {
	Version int               `json:"version"`
	Width   int               `json:"width"`
	Height  int               `json:"height"`
	Title   string            `json:"title,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// clearScreen homes the cursor and clears the terminal before each frame.
const clearScreen = "\x1b[H\x1b[2J"

// GenerateASCIICast writes frames as an asciinema v2 recording. Each frame
// redraws the whole screen after its delay; annotations become markers.
func GenerateASCIICast(w io.Writer, frames []Frame, width, height int) error {
	enc := json.NewEncoder(w)
	header := castHeader{
		Version: 2,
		Width:   width,
		Height:  height,
		Title:   "simplechat",
		Env:     map[string]string{"TERM": "xterm-256color"},
	}
	if err := enc.Encode(header); err != nil {
		return fmt.Errorf("writing cast header: %w", err)
	}

	var at float64
	for _, f := range frames {
		at += f.Delay.Seconds()
		if f.Annotation != "" {
			if err := enc.Encode([]any{at, "m", f.Annotation}); err != nil {
				return err
			}
		}
		// Players write output without translating newlines.
		content := strings.ReplaceAll(f.Content, "\n", "\r\n")
		if err := enc.Encode([]any{at, "o", clearScreen + content}); err != nil {
			return err
		}
	}
	return nil
}
