package utils

import (
	"encoding/json"
	"testing"

	uuid "github.com/google/uuid"
)

func TestAsJSON(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{
			name: "struct fields",
			in: struct {
				Echo string `json:"echo"`
			}{Echo: "hi"},
			want: `{"echo":"hi"}`,
		},
		{
			name: "empty struct",
			in:   struct{}{},
			want: `{}`,
		},
		{
			name: "large unsigned",
			in: struct {
				Value uint64 `json:"value"`
			}{Value: 18446744073709551615},
			want: `{"value":18446744073709551615}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := AsJSON(tt.in)
			if err != nil {
				t.Fatalf("AsJSON failed: %v", err)
			}
			got, err := json.Marshal(obj)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("AsJSON = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAsJSON_NotAnObject(t *testing.T) {
	if _, err := AsJSON([]int{1, 2}); err == nil {
		t.Fatal("expected error flattening an array")
	}
}

func TestUUIDGenerator(t *testing.T) {
	g := NewUUIDGenerator()
	a, b := g.Generate(), g.Generate()
	if a == b {
		t.Fatalf("Generate returned %q twice", a)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("Generate = %q, not a uuid: %v", a, err)
	}
}
