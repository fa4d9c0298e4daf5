package config

import (
	lua "github.com/yuin/gopher-lua"
)

// VM limits for config evaluation
const (
	callStackSize = 256
	registrySize  = 1024 * 8
)

// strippedGlobals are removed before any config code runs: process control
// and environment (os), files (io), code loading, the debug library and
// metatable access. string, table and math stay, along with the basic
// functions.
var strippedGlobals = []string{
	"os",
	"io",
	"require",
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"debug",
	"getmetatable",
	"setmetatable",
	"rawget",
	"rawset",
	"rawequal",
	"collectgarbage",
	"module",
	"package",
	"getfenv",
	"setfenv",
}

func sandboxLuaVM(L *lua.LState) {
	for _, name := range strippedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
}

// newSandboxedVM creates a Lua VM with sandboxing applied.
func newSandboxedVM() *lua.LState {
	L := lua.NewState(lua.Options{
		CallStackSize: callStackSize,
		RegistrySize:  registrySize,
	})
	sandboxLuaVM(L)
	return L
}
