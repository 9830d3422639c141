package scenarios

import (
	"time"

	"github.com/zhubert/simplechat/internal/demo"
)

// Contacts searches the user list and starts a chat with the result.
var Contacts = &demo.Scenario{
	Name:        "contacts",
	Description: "Search users, select one and start a chat",
	Width:       120,
	Height:      40,
	Setup:       demo.DefaultSetup(),
	Steps: []demo.Step{
		demo.Wait(1 * time.Second),
		demo.Capture(),

		demo.Annotate("Searching starts at three characters"),
		demo.TypeWithDesc("grace", "search users"),
		demo.Wait(500 * time.Millisecond),
		demo.Capture(),

		demo.KeyWithDesc("enter", "select grace"),
		demo.Wait(300 * time.Millisecond),
		demo.Capture(),

		demo.Annotate("ctrl+a creates a chat with every selected user"),
		demo.KeyWithDesc("ctrl+a", "add contacts"),
		demo.Wait(800 * time.Millisecond),
		demo.Capture(),

		// grace says hello in the new chat
		demo.Incoming("grace", "hi alice!"),
		demo.Wait(1 * time.Second),
	},
}
