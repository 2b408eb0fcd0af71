package trace

import (
	"github.com/NethermindEth/juno-cheatnet/cheats"
	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/starknet"
	"github.com/NethermindEth/juno-cheatnet/utils"
	"github.com/jinzhu/copier"
	"go.uber.org/zap"
)

// AbortedMessage is recorded for nodes that never saw a matching Exit
const AbortedMessage = "call aborted before completion"

// Handle addresses a node in the builder's arena
type Handle int

const NoHandle Handle = -1

// Event is an emitted event tagged with its emitter and ordering
type Event struct {
	Emitter felt.Address `json:"from_address"`
	// Order is the position among the events of the emitting call
	Order uint64 `json:"order"`
	// Seq is the position among all events seen by the builder
	Seq uint64 `json:"-"`
	starknet.Event
}

type node struct {
	entry     starknet.CallEntryPoint
	cheats    cheats.Resolved
	parent    Handle
	children  []Handle
	events    []Event
	result    Result
	resources starknet.ExecutionResources
	mocked    bool
	open      bool
}

// Builder records nested invocations into an arena. It never fails: misuse
// is logged and downgraded to failed nodes.
type Builder struct {
	nodes []node
	roots []Handle
	stack []Handle
	seq   uint64
	log   utils.StructuredLogger
}

func NewBuilder(log utils.StructuredLogger) *Builder {
	return &Builder{log: log}
}

// Enter opens a node as a child of the innermost open node. Inputs are deep
// copied so later mutation by the caller does not leak into the trace.
func (b *Builder) Enter(entry *starknet.CallEntryPoint, resolved *cheats.Resolved) Handle {
	n := node{parent: NoHandle, open: true}
	if err := copier.CopyWithOption(&n.entry, entry, copier.Option{DeepCopy: true}); err != nil {
		b.log.Warn("Failed to copy entry point into trace", zap.Error(err))
		n.entry = *entry.Clone()
	}
	if resolved != nil && !resolved.Empty() {
		if err := copier.CopyWithOption(&n.cheats, resolved, copier.Option{DeepCopy: true}); err != nil {
			b.log.Warn("Failed to copy overrides into trace", zap.Error(err))
		}
	}

	h := Handle(len(b.nodes))
	if parent, ok := b.Current(); ok {
		n.parent = parent
		b.nodes[parent].children = append(b.nodes[parent].children, h)
	} else {
		b.roots = append(b.roots, h)
	}
	b.nodes = append(b.nodes, n)
	b.stack = append(b.stack, h)
	return h
}

// Current returns the innermost open node
func (b *Builder) Current() (Handle, bool) {
	if len(b.stack) == 0 {
		return NoHandle, false
	}
	return b.stack[len(b.stack)-1], true
}

func (b *Builder) MarkMocked(h Handle) {
	if b.valid(h) {
		b.nodes[h].mocked = true
	}
}

// Exit finalizes h. Any node still open above h is aborted first.
func (b *Builder) Exit(h Handle, result Result, resources *starknet.ExecutionResources) {
	if !b.valid(h) || !b.nodes[h].open {
		b.log.Warn("Exit of a call that is not open", zap.Int("handle", int(h)))
		return
	}
	for {
		top := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]
		n := &b.nodes[top]
		n.open = false
		if top == h {
			n.result = result
			if resources != nil {
				n.resources = resources.Clone()
			}
			return
		}
		b.log.Warn("Aborting unfinished call", zap.Stringer("contract", &n.entry.StorageAddress))
		n.result = Failed(AbortedMessage)
	}
}

// Abort finalizes h as failed with msg
func (b *Builder) Abort(h Handle, msg string) {
	b.Exit(h, Failed(msg), nil)
}

// Close aborts every node that is still open
func (b *Builder) Close() {
	if len(b.stack) > 0 {
		b.Exit(b.stack[0], Failed(AbortedMessage), nil)
	}
}

// Emit attaches event to the innermost open node
func (b *Builder) Emit(event *starknet.Event) {
	h, ok := b.Current()
	if !ok {
		b.log.Warn("Dropping event emitted outside of any call")
		return
	}
	n := &b.nodes[h]
	b.seq++
	n.events = append(n.events, Event{
		Emitter: n.entry.StorageAddress,
		Order:   uint64(len(n.events)),
		Seq:     b.seq,
		Event: starknet.Event{
			Keys: append([]felt.Felt(nil), event.Keys...),
			Data: append([]felt.Felt(nil), event.Data...),
		},
	})
}

// Seq returns the sequence number of the last emitted event
func (b *Builder) Seq() uint64 {
	return b.seq
}

// Roots returns the top-level invocations in call order
func (b *Builder) Roots() []Handle {
	return b.roots
}

func (b *Builder) Open(h Handle) bool {
	return b.valid(h) && b.nodes[h].open
}

func (b *Builder) valid(h Handle) bool {
	return h >= 0 && int(h) < len(b.nodes)
}

// Tree materializes the subtree rooted at h
func (b *Builder) Tree(h Handle) *CallTrace {
	if !b.valid(h) {
		return nil
	}
	n := &b.nodes[h]
	t := &CallTrace{
		EntryPoint: n.entry,
		Cheats:     n.cheats,
		Mocked:     n.mocked,
		Result:     n.result,
		Resources:  n.resources,
		Events:     n.events,
		Calls:      make([]*CallTrace, 0, len(n.children)),
	}
	if n.open {
		t.Result = Failed(AbortedMessage)
	}
	for _, child := range n.children {
		t.Calls = append(t.Calls, b.Tree(child))
	}
	return t
}
