package fingerprint

import "context"

type fingerprintContextKey struct{}

// SetFingerprintToContext stores fp in ctx.
func SetFingerprintToContext(ctx context.Context, fp string) context.Context {
	return context.WithValue(ctx, fingerprintContextKey{}, fp)
}

// GetFingerprintFromContext returns the fingerprint stored in ctx, or "".
func GetFingerprintFromContext(ctx context.Context) string {
	fp, _ := ctx.Value(fingerprintContextKey{}).(string)
	return fp
}
