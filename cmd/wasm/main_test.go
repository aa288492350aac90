//go:build js && wasm

package main

import (
	"context"
	"errors"
	"syscall/js"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goldenFingerprint = "a9b2ca269384d0c799c0336c19a80ef40ec5f66bd34690461bce36fa8279e4a7"

func setWindow(t *testing.T, window js.Value) {
	t.Helper()
	prev := js.Global().Get("window")
	t.Cleanup(func() { js.Global().Set("window", prev) })
	js.Global().Set("window", window)
}

func browserWindow() (window, screen js.Value) {
	object := js.Global().Get("Object")
	window, navigator, screen := object.New(), object.New(), object.New()

	navigator.Set("userAgent", "UA1")
	navigator.Set("platform", "P1")
	navigator.Set("languages", []any{"en-US", "en"})
	screen.Set("width", 1920)
	screen.Set("height", 1080)
	screen.Set("colorDepth", 24)
	window.Set("navigator", navigator)
	window.Set("screen", screen)
	return window, screen
}

type settled struct {
	value    js.Value
	rejected bool
}

func await(t *testing.T, promise js.Value) settled {
	t.Helper()

	done := make(chan settled, 1)
	onResolve := js.FuncOf(func(this js.Value, args []js.Value) any {
		done <- settled{value: args[0]}
		return nil
	})
	defer onResolve.Release()
	onReject := js.FuncOf(func(this js.Value, args []js.Value) any {
		done <- settled{value: args[0], rejected: true}
		return nil
	})
	defer onReject.Release()

	promise.Call("then", onResolve, onReject)

	select {
	case s := <-done:
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("promise did not settle")
		return settled{}
	}
}

func TestGenerate(t *testing.T) {
	t.Run("matches golden digest", func(t *testing.T) {
		window, _ := browserWindow()
		setWindow(t, window)

		fp, err := generate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, goldenFingerprint, fp)
	})

	t.Run("fails without window", func(t *testing.T) {
		setWindow(t, js.Undefined())

		_, err := generate(context.Background())
		require.Error(t, err)
		assert.Equal(t, "No global window available", err.Error())
	})
}

func TestGetBrowserFingerprint(t *testing.T) {
	t.Run("resolves with fingerprint", func(t *testing.T) {
		window, _ := browserWindow()
		setWindow(t, window)

		s := await(t, getBrowserFingerprint(js.Undefined(), nil).(js.Value))
		require.False(t, s.rejected)
		assert.Equal(t, goldenFingerprint, s.value.String())
	})

	t.Run("rejects with bare message and cause", func(t *testing.T) {
		window, screen := browserWindow()
		screen.Delete("width")
		setWindow(t, window)

		s := await(t, getBrowserFingerprint(js.Undefined(), nil).(js.Value))
		require.True(t, s.rejected)
		assert.True(t, s.value.InstanceOf(js.Global().Get("Error")))
		assert.Equal(t, "Failed to get screen width", s.value.Get("message").String())
		assert.Equal(t, "width is not a number", s.value.Get("cause").String())
	})

	t.Run("rejects without cause when none exists", func(t *testing.T) {
		setWindow(t, js.Undefined())

		s := await(t, getBrowserFingerprint(js.Undefined(), nil).(js.Value))
		require.True(t, s.rejected)
		assert.Equal(t, "No global window available", s.value.Get("message").String())
		assert.True(t, s.value.Get("cause").IsUndefined())
	})
}

func TestJSError(t *testing.T) {
	err := jsError(errors.New("context canceled"))
	assert.Equal(t, "context canceled", err.Get("message").String())
}
