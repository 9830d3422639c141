package devserver

import (
	"strconv"
	"time"

	"github.com/zhubert/simplechat/internal/protocol"
)

// DemoUser is the account the demo command logs in as.
const DemoUser = "alice"

// DemoEchoUser answers every message it receives.
const DemoEchoUser = "echo"

var demoUsers = []string{
	"bob", "carol", "dave", "erin", "frank", "grace", "heidi", "ivan",
	"judy", "mallory", "niaj", "olivia", "peggy", "rupert", "sybil",
	"trent", "uma", "victor", "walter", "xena", "yves", "zoe",
}

// SeedDemo fills a store with enough users to page through, a few chats with
// history, and one chat with unread messages.
func SeedDemo(s *Store) {
	start := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return start.Add(time.Duration(tick) * 47 * time.Second)
	}
	defer func() { s.now = func() time.Time { return time.Now().UTC() } }()

	alice := userID(s.AddUser(DemoUser).UserID)
	echo := userID(s.AddUser(DemoEchoUser).UserID)
	ids := make(map[string]int, len(demoUsers))
	for _, name := range demoUsers {
		ids[name] = userID(s.AddUser(name).UserID)
	}

	bobChat := s.OpenChat(alice, ids["bob"])
	send(s, ids["bob"], bobChat, "hey alice, did the deploy go out?")
	send(s, alice, bobChat, "yes, about ten minutes ago")
	send(s, ids["bob"], bobChat, "the health check still says:\n```go\nif err != nil {\n\treturn fmt.Errorf(\"health check: %w\", err)\n}\n```")
	_ = s.Flush(alice, bobChat)

	carolChat := s.OpenChat(alice, ids["carol"])
	send(s, alice, carolChat, "lunch tomorrow?")
	send(s, ids["carol"], carolChat, "sure!")
	send(s, ids["carol"], carolChat, "12:30 at the usual place")

	echoChat := s.OpenChat(alice, echo)
	send(s, echo, echoChat, "say something and I will repeat it")
	_ = s.Flush(alice, echoChat)

	team := s.CreateGroupChat("platform team", alice, ids["bob"], ids["dave"], ids["erin"])
	send(s, ids["dave"], team, "standup moved to 10:15")
	_ = s.Flush(alice, team)
}

func userID(id protocol.ID) int {
	n, _ := strconv.Atoi(string(id))
	return n
}

func send(s *Store, from, chatID int, text string) {
	_, _, _, _ = s.SendMessage(from, chatID, text)
}
