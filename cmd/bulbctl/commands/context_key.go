package commands

import (
	"context"

	"github.com/jmylchreest/bulbctl/pkg/bulb"
)

// Context keys. Each is its own named type so values never shadow each other.
type (
	senderContextKey struct{}
	configContextKey struct{}
	loggerContextKey struct{}
)

// WithSender returns a context carrying s. Commands run with it use s
// instead of creating a UDP client for the configured device.
func WithSender(ctx context.Context, s bulb.Sender) context.Context {
	return context.WithValue(ctx, senderContextKey{}, s)
}

// senderFromContext returns the Sender installed by WithSender
func senderFromContext(ctx context.Context) (bulb.Sender, bool) {
	if ctx == nil {
		return nil, false
	}
	s, ok := ctx.Value(senderContextKey{}).(bulb.Sender)
	return s, ok && s != nil
}
