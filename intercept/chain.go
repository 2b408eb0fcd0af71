package intercept

import (
	"context"
	"errors"
	"fmt"

	"github.com/NethermindEth/juno-cheatnet/cheats"
	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/starknet"
	"github.com/NethermindEth/juno-cheatnet/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ErrUnclaimedRequest = errors.New("no layer claimed the request")

var claims = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cheatnet",
	Subsystem: "intercept",
	Name:      "claims_total",
	Help:      "Requests claimed per layer and request kind",
}, []string{"layer", "kind"})

// Frame is one live entry point invocation
type Frame struct {
	Call      *starknet.CallEntryPoint
	ClassHash felt.ClassHash
	// Cheats are the overrides resolved when the frame was entered
	Cheats cheats.Resolved
	Info   *starknet.ExecutionInfo
	Parent *Frame
	Depth  int
	// ChildResources accumulates what nested calls spent
	ChildResources starknet.ExecutionResources
}

// Result tells the chain whether a layer claimed a request
type Result struct {
	resp    *Response
	handled bool
}

func Handled(resp *Response) Result {
	if resp == nil {
		resp = new(Response)
	}
	return Result{resp: resp, handled: true}
}

func Pass() Result {
	return Result{}
}

func (r Result) IsHandled() bool {
	return r.handled
}

func (r Result) Response() *Response {
	return r.resp
}

type Layer interface {
	Name() string
	Handle(ctx context.Context, frame *Frame, req Request) (Result, error)
}

// CallObserver is notified around every invocation, mocked or executed
type CallObserver interface {
	EnterCall(frame *Frame)
	ExitCall(frame *Frame, resp *Response, err error)
}

type layerFunc struct {
	name string
	fn   func(context.Context, *Frame, Request) (Result, error)
}

// LayerFunc adapts a function into a Layer
func LayerFunc(name string, fn func(context.Context, *Frame, Request) (Result, error)) Layer {
	return &layerFunc{name: name, fn: fn}
}

func (l *layerFunc) Name() string {
	return l.name
}

func (l *layerFunc) Handle(ctx context.Context, frame *Frame, req Request) (Result, error) {
	return l.fn(ctx, frame, req)
}

// Chain offers every request to its layers in order until one claims it
type Chain struct {
	layers    []Layer
	observers []CallObserver
	log       utils.SimpleLogger
}

func NewChain(log utils.SimpleLogger, layers ...Layer) *Chain {
	c := &Chain{log: log}
	c.Use(layers...)
	return c
}

// Use appends layers after the existing ones. Layers implementing
// CallObserver are registered as observers as well.
func (c *Chain) Use(layers ...Layer) {
	for _, l := range layers {
		c.layers = append(c.layers, l)
		if obs, ok := l.(CallObserver); ok {
			c.observers = append(c.observers, obs)
		}
	}
}

// Prepend puts layers in front of the existing ones
func (c *Chain) Prepend(layers ...Layer) {
	c.layers = append(append([]Layer(nil), layers...), c.layers...)
	var front []CallObserver
	for _, l := range layers {
		if obs, ok := l.(CallObserver); ok {
			front = append(front, obs)
		}
	}
	c.observers = append(front, c.observers...)
}

func (c *Chain) Layers() []string {
	return utils.Map(c.layers, Layer.Name)
}

func (c *Chain) Dispatch(ctx context.Context, frame *Frame, req Request) (*Response, error) {
	for _, l := range c.layers {
		res, err := l.Handle(ctx, frame, req)
		if err != nil {
			return nil, err
		}
		if res.IsHandled() {
			claims.WithLabelValues(l.Name(), req.Kind().String()).Inc()
			if req.Kind() != KindInvoke {
				c.log.Debugw("Request claimed", "layer", l.Name(), "kind", req.Kind())
			}
			return res.Response(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnclaimedRequest, req.Kind())
}

func (c *Chain) EnterCall(frame *Frame) {
	for _, obs := range c.observers {
		obs.EnterCall(frame)
	}
}

// ExitCall notifies observers in reverse registration order
func (c *Chain) ExitCall(frame *Frame, resp *Response, err error) {
	for i := len(c.observers) - 1; i >= 0; i-- {
		c.observers[i].ExitCall(frame, resp, err)
	}
}
