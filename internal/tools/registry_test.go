package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func testTool(name string) Tool {
	return Tool{
		Name:        name,
		Description: "test tool",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"mode": map[string]any{
					"type": "string",
					"enum": []string{"fast", "slow"},
				},
				"label": map[string]any{
					"type": "string",
				},
			},
			"required": []string{"mode"},
		},
		Handler: func(_ context.Context, args map[string]any) string {
			return "ran with mode " + args["mode"].(string)
		},
	}
}

func TestDispatchRunsValidCall(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(testTool("sample")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got := r.Dispatch(context.Background(), "sample", json.RawMessage(`{"mode": "fast"}`))
	if got != "ran with mode fast" {
		t.Fatalf("unexpected dispatch result: %q", got)
	}
}

func TestDispatchUnknownToolReturnsStatusString(t *testing.T) {
	r := NewRegistry()

	got := r.Dispatch(context.Background(), "nope", nil)
	if !strings.Contains(got, "Unknown tool") {
		t.Fatalf("expected unknown-tool status, got %q", got)
	}
}

func TestDispatchMissingRequiredField(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(testTool("sample")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got := r.Dispatch(context.Background(), "sample", json.RawMessage(`{"label": "x"}`))
	if !strings.Contains(got, "missing required field") {
		t.Fatalf("expected missing-field status, got %q", got)
	}
}

func TestDispatchRejectsEnumViolation(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(testTool("sample")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got := r.Dispatch(context.Background(), "sample", json.RawMessage(`{"mode": "medium"}`))
	if !strings.Contains(got, "must be one of") {
		t.Fatalf("expected enum-violation status, got %q", got)
	}
}

func TestDispatchRejectsNonStringValue(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(testTool("sample")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got := r.Dispatch(context.Background(), "sample", json.RawMessage(`{"mode": "fast", "label": 7}`))
	if !strings.Contains(got, "must be a string") {
		t.Fatalf("expected type-violation status, got %q", got)
	}
}

func TestDispatchMalformedArguments(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(testTool("sample")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got := r.Dispatch(context.Background(), "sample", json.RawMessage(`{"mode":`))
	if !strings.Contains(got, "Invalid arguments") {
		t.Fatalf("expected invalid-arguments status, got %q", got)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(testTool("sample")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(testTool("sample")); err == nil {
		t.Fatal("expected error registering duplicate tool")
	}
}

func TestAllPreservesRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"c", "a", "b"} {
		if err := r.Register(testTool(name)); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
	}

	all := r.All()
	if len(all) != 3 || all[0].Name != "c" || all[1].Name != "a" || all[2].Name != "b" {
		t.Fatalf("unexpected tool order: %+v", all)
	}
}
