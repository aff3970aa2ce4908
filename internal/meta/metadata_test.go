package meta

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCloneIsIndependent(t *testing.T) {
	m := New(map[string]string{"note": "rent for may"})
	c := m.Clone()
	c["note"] = "changed"
	if m["note"] != "rent for may" {
		t.Fatalf("clone shares storage: %+v", m)
	}
	if New(nil) == nil {
		t.Fatalf("New(nil) should be empty, not nil")
	}
}

func TestValidationLimits(t *testing.T) {
	pairs := make(map[string]string)
	for i := 0; i < MaxPairs+1; i++ {
		pairs["k"+strings.Repeat("x", i)] = "v"
	}
	if err := New(pairs).Validate(); err == nil {
		t.Fatalf("expected too many pairs")
	}
	if err := New(map[string]string{strings.Repeat("k", MaxKeyLen+1): "v"}).Validate(); err == nil {
		t.Fatalf("expected key too long")
	}
	if err := New(map[string]string{"": "v"}).Validate(); err == nil {
		t.Fatalf("expected empty key rejected")
	}
	if err := New(map[string]string{"k": strings.Repeat("v", MaxValLen+1)}).Validate(); err == nil {
		t.Fatalf("expected value too long")
	}
}

func TestStableJSONAndParse(t *testing.T) {
	m := New(map[string]string{"b": "2", "a": "1"})
	b, _ := json.Marshal(m)
	if string(b) != `{"a":"1","b":"2"}` {
		t.Fatalf("unexpected stable json: %s", string(b))
	}
	got, err := Parse(b)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got["a"] != "1" || got["b"] != "2" {
		t.Fatalf("unexpected parse: %+v", got)
	}
	empty, err := Parse(nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty metadata, got %+v %v", empty, err)
	}
	if _, err := Parse([]byte("[1]")); err == nil {
		t.Fatalf("expected decode error")
	}
}
