// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extraction

import (
	"testing"
)

func TestRecoverJSON(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantKey string
		wantVal any
	}{
		{
			name:    "clean object",
			text:    `{"issuer": "Acme"}`,
			wantKey: "issuer",
			wantVal: "Acme",
		},
		{
			name:    "object wrapped in prose",
			text:    "Here is the data:\n```json\n{\"year\": \"2024\"}\n```\nHope that helps!",
			wantKey: "year",
			wantVal: "2024",
		},
		{
			name:    "array wrapped under items",
			text:    `["a", "b"]`,
			wantKey: "items",
		},
		{
			name:    "unparseable text preserved raw",
			text:    "I could not find that information.",
			wantKey: RawKey,
			wantVal: "I could not find that information.",
		},
		{
			name:    "unbalanced brace preserved raw",
			text:    `{"broken": `,
			wantKey: RawKey,
		},
		{
			name:    "empty input",
			text:    "",
			wantKey: RawKey,
			wantVal: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecoverJSON(tt.text)
			val, ok := got[tt.wantKey]
			if !ok {
				t.Fatalf("key %q missing in %v", tt.wantKey, got)
			}
			if tt.wantVal != nil && val != tt.wantVal {
				t.Errorf("got[%q] = %v, want %v", tt.wantKey, val, tt.wantVal)
			}
		})
	}
}

func TestRecoverJSONNestedBraces(t *testing.T) {
	text := `Sure: {"outer": {"inner": "value"}} and some trailing text.`

	got := RecoverJSON(text)

	outer, ok := got["outer"].(map[string]any)
	if !ok {
		t.Fatalf("outer not recovered: %v", got)
	}
	if outer["inner"] != "value" {
		t.Errorf("inner = %v", outer["inner"])
	}
}

func TestFirstBalanced(t *testing.T) {
	tests := []struct {
		name, text, want string
	}{
		{"simple object", `x {"a":1} y`, `{"a":1}`},
		{"brace inside string", `{"a": "has } brace"}`, `{"a": "has } brace"}`},
		{"escaped quote inside string", `{"a": "quote \" and } here"}`, `{"a": "quote \" and } here"}`},
		{"array", `text [1, 2] more`, `[1, 2]`},
		{"first of two", `{"a":1} {"b":2}`, `{"a":1}`},
		{"never closes", `{"a": [1, 2`, ""},
		{"no json at all", "plain text", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstBalanced(tt.text); got != tt.want {
				t.Errorf("firstBalanced(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
