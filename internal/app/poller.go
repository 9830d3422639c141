package app

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/simplechat/internal/protocol"
)

// PollTickMsg triggers one check_new_messages for the chat the poller was
// started for.
type PollTickMsg struct {
	ChatID protocol.ID
	Gen    uint64
}

// poller drives check_new_messages for the open chat. Every start or stop
// bumps the generation so ticks from an earlier chain are dropped, which
// leaves at most one live tick chain. run only moves on start and stop, and
// tells replies for the transcript on screen from replies for one that has
// since been replaced.
type poller struct {
	gen      uint64
	run      uint64
	chatID   protocol.ID
	active   bool
	interval time.Duration
}

func (p *poller) start(chatID protocol.ID) tea.Cmd {
	p.gen++
	p.run++
	p.chatID = chatID
	p.active = true
	return p.tick()
}

func (p *poller) stop() {
	p.gen++
	p.run++
	p.chatID = ""
	p.active = false
}

// current reports whether a tick or reply belongs to the live chain.
func (p *poller) current(chatID protocol.ID, gen uint64) bool {
	return p.active && p.gen == gen && p.chatID == chatID
}

// restart drops the pending tick without leaving the current run.
func (p *poller) restart() uint64 {
	p.gen++
	return p.gen
}

func (p *poller) tick() tea.Cmd {
	chatID, gen := p.chatID, p.gen
	return tea.Tick(p.interval, func(time.Time) tea.Msg {
		return PollTickMsg{ChatID: chatID, Gen: gen}
	})
}
