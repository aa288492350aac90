//go:build js && wasm

// Package jsenv reads fingerprint attributes from the browser through syscall/js.
package jsenv

import (
	"context"
	"errors"
	"syscall/js"

	"github.com/septivank/device-fingerprint-api/tools/fingerprint"
)

// Env is a fingerprint.Environment backed by window.navigator and window.screen.
type Env struct {
	navigator js.Value
	screen    js.Value
}

var _ fingerprint.Environment = (*Env)(nil)

// New binds to the global window. It fails when there is no window or screen.
func New() (*Env, error) {
	window := js.Global().Get("window")
	if !window.Truthy() {
		return nil, fingerprint.EnvironmentUnavailable(fingerprint.MsgNoWindow)
	}
	screen := window.Get("screen")
	if !screen.Truthy() {
		return nil, fingerprint.EnvironmentUnavailable(fingerprint.MsgNoScreen)
	}
	return &Env{navigator: window.Get("navigator"), screen: screen}, nil
}

func (e *Env) UserAgent(context.Context) (string, error) {
	return stringProp(e.navigator, "userAgent")
}

func (e *Env) Platform(context.Context) (string, error) {
	return stringProp(e.navigator, "platform")
}

func (e *Env) Languages(context.Context) ([]string, error) {
	if !e.navigator.Truthy() {
		return nil, errors.New("navigator is not defined")
	}
	list := e.navigator.Get("languages")
	if list.IsUndefined() || list.IsNull() {
		return nil, nil
	}
	n := list.Length()
	languages := make([]string, 0, n)
	for i := 0; i < n; i++ {
		languages = append(languages, list.Index(i).String())
	}
	return languages, nil
}

func (e *Env) ScreenWidth(context.Context) (int, error) {
	return intProp(e.screen, "width")
}

func (e *Env) ScreenHeight(context.Context) (int, error) {
	return intProp(e.screen, "height")
}

func (e *Env) ColorDepth(context.Context) (int, error) {
	return intProp(e.screen, "colorDepth")
}

func stringProp(obj js.Value, name string) (string, error) {
	if !obj.Truthy() {
		return "", errors.New("object is not defined")
	}
	v := obj.Get(name)
	if v.Type() != js.TypeString {
		return "", errors.New(name + " is not a string")
	}
	return v.String(), nil
}

func intProp(obj js.Value, name string) (int, error) {
	v := obj.Get(name)
	if v.Type() != js.TypeNumber {
		return 0, errors.New(name + " is not a number")
	}
	return v.Int(), nil
}
