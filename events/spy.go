package events

import (
	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/trace"
)

// Spy collects events emitted by watched contracts. Each event is returned
// at most once across Collect calls.
type Spy struct {
	all     bool
	watched map[felt.Address]struct{}
	cursor  uint64
}

func NewSpy() *Spy {
	return &Spy{watched: make(map[felt.Address]struct{})}
}

func (s *Spy) Watch(addrs ...felt.Address) {
	for _, a := range addrs {
		s.watched[a] = struct{}{}
	}
}

func (s *Spy) WatchAll() {
	s.all = true
}

func (s *Spy) Watching(addr felt.Address) bool {
	if s.all {
		return true
	}
	_, ok := s.watched[addr]
	return ok
}

// Collect walks the traces depth first. A node's own events come before
// those of its children. Events seen in an earlier Collect are skipped.
func (s *Spy) Collect(traces ...*trace.CallTrace) []trace.Event {
	var (
		out     []trace.Event
		highest = s.cursor
	)
	for _, root := range traces {
		if root == nil {
			continue
		}
		root.Walk(func(node *trace.CallTrace, _ int) {
			for _, ev := range node.Events {
				if ev.Seq <= s.cursor {
					continue
				}
				highest = max(highest, ev.Seq)
				if s.Watching(ev.Emitter) {
					out = append(out, ev)
				}
			}
		})
	}
	s.cursor = highest
	return out
}

// Reset forgets the cursor so every event is pending again
func (s *Spy) Reset() {
	s.cursor = 0
}

// SkipTo marks every event up to and including seq as already collected
func (s *Spy) SkipTo(seq uint64) {
	s.cursor = max(s.cursor, seq)
}
