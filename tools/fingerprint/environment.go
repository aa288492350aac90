package fingerprint

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Environment exposes the host attributes a fingerprint is built from.
// Accessors may block on the host and should honour ctx.
type Environment interface {
	UserAgent(ctx context.Context) (string, error)
	Platform(ctx context.Context) (string, error)
	Languages(ctx context.Context) ([]string, error)
	ScreenWidth(ctx context.Context) (int, error)
	ScreenHeight(ctx context.Context) (int, error)
	ColorDepth(ctx context.Context) (int, error)
}

// Collect reads every attribute from env and builds the record.
// The first failing accessor aborts collection; no defaults are substituted.
func Collect(ctx context.Context, env Environment) (AttributeRecord, error) {
	if err := ctx.Err(); err != nil {
		return AttributeRecord{}, err
	}

	userAgent, err := env.UserAgent(ctx)
	if err != nil {
		return AttributeRecord{}, accessorError(MsgUserAgent, err)
	}
	platform, err := env.Platform(ctx)
	if err != nil {
		return AttributeRecord{}, accessorError(MsgPlatform, err)
	}
	languages, err := env.Languages(ctx)
	if err != nil {
		return AttributeRecord{}, accessorError(MsgLanguages, err)
	}
	width, err := env.ScreenWidth(ctx)
	if err != nil {
		return AttributeRecord{}, accessorError(MsgScreenWidth, err)
	}
	height, err := env.ScreenHeight(ctx)
	if err != nil {
		return AttributeRecord{}, accessorError(MsgScreenHeight, err)
	}
	colorDepth, err := env.ColorDepth(ctx)
	if err != nil {
		return AttributeRecord{}, accessorError(MsgColorDepth, err)
	}
	if colorDepth < 0 || uint64(colorDepth) > math.MaxUint32 {
		return AttributeRecord{}, AttributeUnavailable(MsgColorDepth, fmt.Errorf("color depth %d out of range", colorDepth))
	}

	// All-or-nothing: a cancelled caller never observes a record.
	if err := ctx.Err(); err != nil {
		return AttributeRecord{}, err
	}

	return AttributeRecord{
		UserAgent:        userAgent,
		Platform:         platform,
		Languages:        strings.Join(languages, ","),
		Timezone:         DefaultTimezone,
		ScreenResolution: fmt.Sprintf("%dx%d", width, height),
		ColorDepth:       uint32(colorDepth),
		Canvas:           DefaultCanvas,
		WebGL:            DefaultWebGL,
		TouchSupport:     DefaultTouchSupport,
	}, nil
}

// Generate collects the attributes from env and returns their fingerprint.
func Generate(ctx context.Context, env Environment) (string, error) {
	record, err := Collect(ctx, env)
	if err != nil {
		return "", err
	}
	return Compute(record)
}

// Validate regenerates the fingerprint from env and compares it with stored.
func Validate(ctx context.Context, env Environment, stored string) (bool, error) {
	current, err := Generate(ctx, env)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(current), []byte(stored)) == 1, nil
}

func accessorError(message string, err error) error {
	var fpErr *Error
	if errors.As(err, &fpErr) {
		return fpErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return AttributeUnavailable(message, err)
}
