// Package clientinfo carries per-request client metadata (device label,
// network address, calling app name) through context. The transport layer
// populates it; the verifier and session engine read it when stamping claims
// and session records.
package clientinfo

import "context"

type contextKey struct{ name string }

var (
	deviceKey  = contextKey{"device"}
	addressKey = contextKey{"address"}
	appKey     = contextKey{"app"}
)

// WithClient returns a context with the client's device label, network
// address, and calling application name set.
func WithClient(ctx context.Context, device, address, app string) context.Context {
	ctx = context.WithValue(ctx, deviceKey, device)
	ctx = context.WithValue(ctx, addressKey, address)
	ctx = context.WithValue(ctx, appKey, app)
	return ctx
}

// Device returns the device label from context, or "" if unset.
func Device(ctx context.Context) string {
	v, _ := ctx.Value(deviceKey).(string)
	return v
}

// Address returns the network address from context, or "" if unset.
func Address(ctx context.Context) string {
	v, _ := ctx.Value(addressKey).(string)
	return v
}

// App returns the calling application name from context, or "" if unset.
func App(ctx context.Context) string {
	v, _ := ctx.Value(appKey).(string)
	return v
}
