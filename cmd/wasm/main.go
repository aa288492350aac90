//go:build js && wasm

package main

import (
	"context"
	"errors"
	"syscall/js"

	"github.com/septivank/device-fingerprint-api/internal/jsenv"
	"github.com/septivank/device-fingerprint-api/tools/fingerprint"
)

func main() {
	js.Global().Set("getBrowserFingerprint", js.FuncOf(getBrowserFingerprint))

	// keep the runtime alive for callbacks
	select {}
}

// getBrowserFingerprint returns a Promise that resolves to the hex fingerprint
// or rejects with an Error carrying the failure message.
func getBrowserFingerprint(this js.Value, args []js.Value) any {
	var executor js.Func
	executor = js.FuncOf(func(this js.Value, args []js.Value) any {
		resolve, reject := args[0], args[1]
		go func() {
			defer executor.Release()

			fp, err := generate(context.Background())
			if err != nil {
				reject.Invoke(jsError(err))
				return
			}
			resolve.Invoke(fp)
		}()
		return nil
	})
	return js.Global().Get("Promise").New(executor)
}

func generate(ctx context.Context) (string, error) {
	env, err := jsenv.New()
	if err != nil {
		return "", err
	}
	return fingerprint.Generate(ctx, env)
}

// jsError converts err into a JS Error. Fingerprint errors keep their bare
// message; the underlying cause, if any, goes to Error.cause.
func jsError(err error) js.Value {
	ctor := js.Global().Get("Error")

	var fpErr *fingerprint.Error
	if !errors.As(err, &fpErr) {
		return ctor.New(err.Error())
	}
	if fpErr.Err == nil {
		return ctor.New(fpErr.Message)
	}
	return ctor.New(fpErr.Message, map[string]any{"cause": fpErr.Err.Error()})
}
