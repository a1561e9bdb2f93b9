package hydrate

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func TestDecodeAppliesHooksInOrder(t *testing.T) {
	var calls []string
	decoder := NewDecoder[sample](
		WithPreHook[sample](func(_ Context, payload map[string]any) (map[string]any, error) {
			calls = append(calls, "pre")
			payload["name"] = strings.ToUpper(payload["name"].(string))
			return payload, nil
		}),
		WithPostHook[sample](func(_ Context, value *sample) error {
			calls = append(calls, "post")
			value.Items = append(value.Items, "tail")
			return nil
		}),
	)

	input := map[string]any{"name": "cta", "items": []any{"a"}}
	got, err := decoder.Decode(Context{Name: "texts"}, input)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "CTA" {
		t.Fatalf("expected pre-hook to run, got %q", got.Name)
	}
	if len(got.Items) != 2 || got.Items[1] != "tail" {
		t.Fatalf("expected post-hook to append, got %v", got.Items)
	}
	if strings.Join(calls, ",") != "pre,post" {
		t.Fatalf("unexpected hook order %v", calls)
	}
	if input["name"] != "cta" {
		t.Fatalf("expected caller payload untouched, got %v", input["name"])
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	decoder := NewDecoder[sample](WithDisallowUnknownFields[sample]())
	_, err := decoder.Decode(Context{Name: "texts"}, map[string]any{"name": "x", "extra": true})
	if err == nil || !strings.Contains(err.Error(), "decode \"texts\"") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestDecodePostHookErrorIsWrapped(t *testing.T) {
	sentinel := errors.New("empty")
	decoder := NewDecoder[sample](WithPostHook[sample](func(Context, *sample) error { return sentinel }))
	_, err := decoder.Decode(Context{Name: "texts", Origin: "file"}, map[string]any{})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped sentinel, got %v", err)
	}
	if !strings.Contains(err.Error(), "file:texts") {
		t.Fatalf("expected origin in message, got %v", err)
	}
}

func TestDecodeReaderNilPayload(t *testing.T) {
	decoder := NewDecoder[sample]()
	if _, err := decoder.Decode(Context{Name: "x"}, nil); err == nil {
		t.Fatalf("expected error for nil payload")
	}
	if _, err := decoder.DecodeReader(Context{Name: "x"}, strings.NewReader("null")); err == nil {
		t.Fatalf("expected error for null document")
	}
}
