package config

import (
	"context"
	"errors"
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestNewSandboxedVM_StripsGlobals(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	for _, name := range strippedGlobals {
		if v := L.GetGlobal(name); v != lua.LNil {
			t.Errorf("global %q still set (%s)", name, v.Type())
		}
	}
	for _, name := range []string{"string", "table", "math", "pairs", "tostring", "pcall"} {
		if v := L.GetGlobal(name); v == lua.LNil {
			t.Errorf("global %q should stay available", name)
		}
	}
}

func TestSandbox_ConfigMayCompute(t *testing.T) {
	code := `
		local parts = {"", "opt", "mia"}
		mia = {
			prefix = table.concat(parts, "/"),
			version = string.format("%d.%d.%d", 1, 4, 0),
			retries = math.max(1, 3),
		}
	`

	layer, err := NewParser(linuxTriple, nil, nil).ParseString(context.Background(), code)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if layer.Prefix == nil || *layer.Prefix != "/opt/mia" {
		t.Errorf("prefix = %v, want /opt/mia", layer.Prefix)
	}
	if layer.Version == nil || *layer.Version != "1.4.0" {
		t.Errorf("version = %v, want 1.4.0", layer.Version)
	}
	if layer.Retries == nil || *layer.Retries != 3 {
		t.Errorf("retries = %v, want 3", layer.Retries)
	}
}

func TestSandbox_BlocksEscapes(t *testing.T) {
	tests := map[string]string{
		"environment":      `mia = { prefix = os.getenv("HOME") }`,
		"shell out":        `os.execute("touch /tmp/pwned"); mia = {}`,
		"read files":       `local f = io.open("/etc/passwd"); mia = {}`,
		"load modules":     `local m = require("socket"); mia = {}`,
		"compile strings":  `load("x = 1")(); mia = {}`,
		"run files":        `dofile("/tmp/other.lua"); mia = {}`,
		"debug hooks":      `debug.sethook(); mia = {}`,
		"swap metatable":   `setmetatable(platform, {}); mia = {}`,
		"bypass read-only": `rawset(platform, "is_linux", false); mia = {}`,
	}

	for name, code := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewParser(linuxTriple, nil, nil).ParseString(context.Background(), code)
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if parseErr.Message != "Lua error" {
				t.Errorf("Message = %q, want Lua error", parseErr.Message)
			}
		})
	}
}

func TestSandbox_PlatformTableIsReadOnly(t *testing.T) {
	code := `
		platform.is_linux = false
		mia = { disable_sudo = true }
	`

	_, err := NewParser(linuxTriple, nil, nil).ParseString(context.Background(), code)
	if err == nil {
		t.Fatal("expected error assigning into platform")
	}
	if !strings.Contains(err.Error(), "read-only") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSandbox_PlatformMetatableHidden(t *testing.T) {
	code := `mia = { version = tostring(getmetatable == nil) }`

	layer, err := NewParser(darwinTriple, nil, nil).ParseString(context.Background(), code)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if layer.Version == nil || *layer.Version != "true" {
		t.Errorf("getmetatable should be nil inside the sandbox, got %v", layer.Version)
	}
}

func TestSandbox_CallDepthLimited(t *testing.T) {
	code := `
		local function down(n) return down(n + 1) + 1 end
		mia = { retries = down(0) }
	`

	_, err := NewParser(linuxTriple, nil, nil).ParseString(context.Background(), code)
	if err == nil {
		t.Fatal("expected unbounded recursion to fail")
	}
}
