package scenarios

import (
	"time"

	"github.com/zhubert/simplechat/internal/demo"
)

// Basic opens a chat with unread messages, answers it and receives a reply.
var Basic = &demo.Scenario{
	Name:        "basic",
	Description: "Open a chat, reply, receive an answer, close it",
	Width:       120,
	Height:      40,
	Setup:       demo.DefaultSetup(),
	Steps: []demo.Step{
		demo.Annotate("Users on the left, your chats below them"),
		demo.Wait(1 * time.Second),
		demo.Capture(),

		// Find carol's chat and open it
		demo.KeyWithDesc("tab", "focus the chat list"),
		demo.TypeWithDesc("carol", "search chats"),
		demo.Wait(300 * time.Millisecond),
		demo.KeyWithDesc("enter", "open the chat"),
		demo.Annotate("Opening a chat marks its messages read"),
		demo.Wait(800 * time.Millisecond),
		demo.Capture(),

		// Reply
		demo.KeyWithDesc("tab", "focus the message input"),
		demo.Type("see you there"),
		demo.Wait(300 * time.Millisecond),
		demo.Key("enter"),
		demo.Wait(500 * time.Millisecond),
		demo.Capture(),

		// carol answers
		demo.Incoming("carol", "great, I'll book a table"),
		demo.Wait(1 * time.Second),

		// Close the chat again
		demo.KeyWithDesc("esc", "close the chat"),
		demo.Wait(500 * time.Millisecond),
		demo.Capture(),
	},
}
