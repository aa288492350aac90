//go:build js && wasm

package jsenv_test

import (
	"context"
	"syscall/js"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/septivank/device-fingerprint-api/internal/jsenv"
	"github.com/septivank/device-fingerprint-api/tools/fingerprint"
)

const goldenFingerprint = "a9b2ca269384d0c799c0336c19a80ef40ec5f66bd34690461bce36fa8279e4a7"

type fakeWindow struct {
	window    js.Value
	navigator js.Value
	screen    js.Value
}

func newObject() js.Value {
	return js.Global().Get("Object").New()
}

// installWindow sets a browser-like window on the JS global object and
// restores the previous value when the test ends.
func installWindow(t *testing.T) fakeWindow {
	t.Helper()

	prev := js.Global().Get("window")
	t.Cleanup(func() { js.Global().Set("window", prev) })

	w := fakeWindow{window: newObject(), navigator: newObject(), screen: newObject()}
	w.navigator.Set("userAgent", "UA1")
	w.navigator.Set("platform", "P1")
	w.navigator.Set("languages", []any{"en-US", "en"})
	w.screen.Set("width", 1920)
	w.screen.Set("height", 1080)
	w.screen.Set("colorDepth", 24)
	w.window.Set("navigator", w.navigator)
	w.window.Set("screen", w.screen)

	js.Global().Set("window", w.window)
	return w
}

func unsetWindow(t *testing.T) {
	t.Helper()
	prev := js.Global().Get("window")
	t.Cleanup(func() { js.Global().Set("window", prev) })
	js.Global().Set("window", js.Undefined())
}

func TestNew(t *testing.T) {
	t.Run("fails without window", func(t *testing.T) {
		unsetWindow(t)

		env, err := jsenv.New()
		require.Error(t, err)
		assert.Nil(t, env)
		assert.ErrorIs(t, err, fingerprint.ErrEnvironmentUnavailable)
		assert.Equal(t, "No global window available", err.Error())
	})

	t.Run("fails without screen", func(t *testing.T) {
		w := installWindow(t)
		w.window.Delete("screen")

		_, err := jsenv.New()
		require.Error(t, err)
		assert.ErrorIs(t, err, fingerprint.ErrEnvironmentUnavailable)
		assert.Equal(t, "No screen available", err.Error())
	})
}

func TestEnv_Generate(t *testing.T) {
	t.Run("matches golden digest", func(t *testing.T) {
		installWindow(t)

		env, err := jsenv.New()
		require.NoError(t, err)

		fp, err := fingerprint.Generate(context.Background(), env)
		require.NoError(t, err)
		assert.Equal(t, goldenFingerprint, fp)
	})

	t.Run("undefined languages join to empty string", func(t *testing.T) {
		w := installWindow(t)
		w.navigator.Delete("languages")

		env, err := jsenv.New()
		require.NoError(t, err)

		r, err := fingerprint.Collect(context.Background(), env)
		require.NoError(t, err)
		assert.Equal(t, "", r.Languages)
	})

	cases := []struct {
		name    string
		mutate  func(w fakeWindow)
		message string
		cause   string
	}{
		{
			name:    "non-string user agent",
			mutate:  func(w fakeWindow) { w.navigator.Set("userAgent", 42) },
			message: "Failed to get user agent",
			cause:   "userAgent is not a string",
		},
		{
			name:    "missing platform",
			mutate:  func(w fakeWindow) { w.navigator.Delete("platform") },
			message: "Failed to get platform",
			cause:   "platform is not a string",
		},
		{
			name:    "missing screen width",
			mutate:  func(w fakeWindow) { w.screen.Delete("width") },
			message: "Failed to get screen width",
			cause:   "width is not a number",
		},
		{
			name:    "string screen height",
			mutate:  func(w fakeWindow) { w.screen.Set("height", "1080") },
			message: "Failed to get screen height",
			cause:   "height is not a number",
		},
		{
			name:    "null color depth",
			mutate:  func(w fakeWindow) { w.screen.Set("colorDepth", js.Null()) },
			message: "Failed to get color depth",
			cause:   "colorDepth is not a number",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := installWindow(t)
			tc.mutate(w)

			env, err := jsenv.New()
			require.NoError(t, err)

			fp, err := fingerprint.Generate(context.Background(), env)
			require.Error(t, err)
			assert.Empty(t, fp)
			assert.ErrorIs(t, err, fingerprint.ErrAttributeUnavailable)
			assert.Equal(t, tc.message+": "+tc.cause, err.Error())
		})
	}
}
