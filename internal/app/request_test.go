package app

import (
	"context"
	"testing"
)

func TestRequest_NextCancelsPrevious(t *testing.T) {
	var r request

	first, seq1 := r.next(context.Background())
	second, seq2 := r.next(context.Background())

	if first.Err() == nil {
		t.Error("starting a new request should cancel the previous one")
	}
	if second.Err() != nil {
		t.Error("the newest request should still be live")
	}
	if r.finish(seq1) {
		t.Error("an older sequence number should be stale")
	}
	if !r.finish(seq2) {
		t.Error("the newest sequence number should be current")
	}
	if second.Err() == nil {
		t.Error("finish should release the context")
	}
}

func TestPoller_Generations(t *testing.T) {
	p := poller{interval: 0}

	p.start("1")
	gen1 := p.gen
	p.start("2")

	if p.current("1", gen1) {
		t.Error("ticks for the previous chat should not be current")
	}
	if !p.current("2", p.gen) {
		t.Error("ticks for the new chat should be current")
	}

	p.stop()
	if p.current("2", p.gen) || p.active {
		t.Error("a stopped poller has no current chain")
	}
}

func TestPoller_RestartKeepsRun(t *testing.T) {
	p := poller{interval: 0}
	p.start("1")
	gen, run := p.gen, p.run

	if got := p.restart(); got == gen || p.current("1", gen) {
		t.Error("restart should drop the pending tick")
	}
	if p.run != run || !p.active {
		t.Error("restart should stay within the current run")
	}

	p.stop()
	if p.run == run {
		t.Error("stop should start a new run")
	}
}
