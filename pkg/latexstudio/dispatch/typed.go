package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"strings"
)

// Handle registers a typed command. The JSON argument object is decoded
// into A. Every json-tagged field of A without omitempty is a required key:
// if it is missing or null the call fails with a MissingKeyError before fn
// runs. The result R is what the caller receives.
//
// When A is a struct with no fields the arguments are never read, so a
// parameterless command behaves the same whatever the caller sends.
func Handle[A, R any](r *Registry, name string, fn func(ctx context.Context, args A) (R, error)) {
	t := reflect.TypeFor[A]()
	required := requiredKeys(t)
	ignoreArgs := t.Kind() == reflect.Struct && t.NumField() == 0
	r.Register(name, func(ctx context.Context, raw json.RawMessage) (any, error) {
		if ignoreArgs {
			var none A
			return fn(ctx, none)
		}
		args, err := decodeArgs[A](name, raw, required)
		if err != nil {
			return nil, err
		}
		return fn(ctx, args)
	})
}

// HandleVoid registers a command whose only outcome is success or an error.
// Success is reported to the caller as JSON null.
func HandleVoid[A any](r *Registry, name string, fn func(ctx context.Context, args A) error) {
	Handle(r, name, func(ctx context.Context, args A) (any, error) {
		return nil, fn(ctx, args)
	})
}

func decodeArgs[A any](command string, raw json.RawMessage, required []string) (A, error) {
	var args A

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		if len(required) > 0 {
			return args, &MissingKeyError{Command: command, Key: required[0]}
		}
		return args, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return args, &ArgsError{Command: command, Cause: err}
	}
	for _, key := range required {
		v, ok := fields[key]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return args, &MissingKeyError{Command: command, Key: key}
		}
	}

	if err := json.Unmarshal(raw, &args); err != nil {
		return args, &ArgsError{Command: command, Cause: err}
	}
	return args, nil
}

// requiredKeys lists the JSON keys of a struct type that must be present,
// in field order.
func requiredKeys(t reflect.Type) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, hasTag := f.Tag.Lookup("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if strings.Contains(opts, "omitempty") {
			continue
		}
		if !hasTag || name == "" {
			name = f.Name
		}
		keys = append(keys, name)
	}
	return keys
}
