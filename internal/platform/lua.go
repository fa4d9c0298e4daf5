package platform

import (
	lua "github.com/yuin/gopher-lua"
)

// InjectPlatformTable creates a read-only platform table and injects it into
// the Lua state as a global. Call it before loading any user config code.
// distro may be nil.
func InjectPlatformTable(L *lua.LState, triple Triple, distro *Distro) {
	platformTable := L.NewTable()

	L.SetField(platformTable, "triple", lua.LString(triple.String()))
	L.SetField(platformTable, "cpu", lua.LString(triple.CPU.String()))
	L.SetField(platformTable, "os", lua.LString(triple.OS.String()))

	L.SetField(platformTable, "is_linux", lua.LBool(triple.IsLinux()))
	L.SetField(platformTable, "is_macos", lua.LBool(triple.IsMacOS()))
	L.SetField(platformTable, "is_i686", lua.LBool(triple.CPU == CPUI686))
	L.SetField(platformTable, "is_x86_64", lua.LBool(triple.CPU == CPUX8664))

	if distro != nil {
		distroTable := L.NewTable()
		L.SetField(distroTable, "id", lua.LString(distro.ID))
		L.SetField(distroTable, "family", lua.LString(distro.Family))
		L.SetField(distroTable, "version", lua.LString(distro.Version))
		L.SetField(platformTable, "distro", distroTable)
	} else {
		L.SetField(platformTable, "distro", lua.LNil)
	}

	// when(condition, value) returns value if condition is true, nil otherwise
	whenFunc := L.NewFunction(func(L *lua.LState) int {
		cond := L.CheckBool(1)
		value := L.Get(2)
		if cond {
			L.Push(value)
		} else {
			L.Push(lua.LNil)
		}
		return 1
	})
	L.SetField(platformTable, "when", whenFunc)

	L.SetGlobal("platform", makeReadOnly(L, platformTable))
}

// makeReadOnly returns a proxy that redirects reads to table and rejects
// every write.
func makeReadOnly(L *lua.LState, table *lua.LTable) *lua.LTable {
	mt := L.NewTable()
	L.SetField(mt, "__index", table)
	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("platform table is read-only and cannot be modified")
		return 0
	}))
	L.SetField(mt, "__metatable", lua.LString("protected"))

	proxy := L.NewTable()
	L.SetMetatable(proxy, mt)
	return proxy
}
