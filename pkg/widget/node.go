package widget

import (
	"context"
	"io"
)

// Node is a renderable fragment of the widget tree. Implementations read
// shared state from the render context rather than from parameters.
type Node interface {
	Render(ctx context.Context, w io.Writer) error
}

// NodeFunc adapts a function to the Node interface.
type NodeFunc func(ctx context.Context, w io.Writer) error

func (f NodeFunc) Render(ctx context.Context, w io.Writer) error {
	return f(ctx, w)
}

// Empty renders nothing.
func Empty() Node {
	return NodeFunc(func(context.Context, io.Writer) error { return nil })
}
