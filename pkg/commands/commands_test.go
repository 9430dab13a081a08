package commands

import (
	"testing"
)

func TestCommandTree(t *testing.T) {
	root := New()
	for _, path := range [][]string{
		{"record"},
		{"get"},
		{"list"},
		{"delete"},
		{"schedule"},
		{"schedule", "set"},
		{"schedule", "override"},
		{"schedule", "clear"},
		{"schedule", "cleanup"},
		{"remind"},
		{"report"},
		{"serve"},
		{"mcp"},
		{"info"},
		{"version"},
	} {
		cmd, _, err := root.Find(path)
		if err != nil {
			t.Fatalf("find %v: %v", path, err)
		}
		if cmd.Name() != path[len(path)-1] {
			t.Fatalf("expected %s, got %s", path[len(path)-1], cmd.Name())
		}
	}
}

func TestRecordArgs(t *testing.T) {
	root := New()
	cmd, _, err := root.Find([]string{"record"})
	if err != nil {
		t.Fatalf("find record: %v", err)
	}
	if err := cmd.Args(cmd, []string{"morning", "7"}); err != nil {
		t.Fatalf("expected valid args, got %v", err)
	}
	for _, args := range [][]string{
		{"morning"},
		{"noon", "5"},
		{"evening", "11"},
		{"evening", "five"},
	} {
		if err := cmd.Args(cmd, args); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestParseMood(t *testing.T) {
	if v, err := parseMood("10"); err != nil || v != 10 {
		t.Fatalf("expected 10, got %d (%v)", v, err)
	}
	if _, err := parseMood("0"); err == nil {
		t.Fatalf("expected error for 0")
	}
}

func TestMCPOptions(t *testing.T) {
	o := &mcpOptions{transport: " HTTP ", host: "::1", port: 9000}
	tr, err := o.Transport()
	if err != nil || tr != "http" {
		t.Fatalf("expected http transport, got %q (%v)", tr, err)
	}
	addr, err := o.ListenAddr()
	if err != nil || addr != "[::1]:9000" {
		t.Fatalf("expected [::1]:9000, got %q (%v)", addr, err)
	}

	o = &mcpOptions{transport: "grpc", port: 70000}
	if _, err := o.Transport(); err == nil {
		t.Fatalf("expected error for unknown transport")
	}
	if _, err := o.ListenAddr(); err == nil {
		t.Fatalf("expected error for out of range port")
	}
}
