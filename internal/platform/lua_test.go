package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func evalLua(t *testing.T, L *lua.LState, code string) lua.LValue {
	t.Helper()
	require.NoError(t, L.DoString(code))
	v := L.Get(-1)
	L.Pop(1)
	return v
}

func TestInjectPlatformTable_Linux(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	InjectPlatformTable(L,
		Triple{CPU: CPUX8664, OS: OSLinuxGNU},
		&Distro{ID: "ubuntu", Family: FamilyDebian, Version: "22.04"})

	tests := []struct {
		name string
		code string
		want lua.LValue
	}{
		{"triple", `return platform.triple`, lua.LString("x86_64-unknown-linux-gnu")},
		{"cpu", `return platform.cpu`, lua.LString("x86_64")},
		{"os", `return platform.os`, lua.LString("unknown-linux-gnu")},
		{"is_linux", `return platform.is_linux`, lua.LTrue},
		{"is_macos", `return platform.is_macos`, lua.LFalse},
		{"is_i686", `return platform.is_i686`, lua.LFalse},
		{"is_x86_64", `return platform.is_x86_64`, lua.LTrue},
		{"distro.id", `return platform.distro.id`, lua.LString("ubuntu")},
		{"distro.family", `return platform.distro.family`, lua.LString("debian")},
		{"distro.version", `return platform.distro.version`, lua.LString("22.04")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evalLua(t, L, tt.code)
			assert.Equal(t, tt.want.Type(), got.Type())
			assert.Equal(t, tt.want.String(), got.String())
		})
	}
}

func TestInjectPlatformTable_MacOS(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	InjectPlatformTable(L, Triple{CPU: CPUI686, OS: OSAppleDarwin}, nil)

	assert.Equal(t, lua.LTrue, evalLua(t, L, `return platform.is_macos`))
	assert.Equal(t, lua.LTrue, evalLua(t, L, `return platform.is_i686`))
	assert.Equal(t, lua.LNil, evalLua(t, L, `return platform.distro`))
}

func TestPlatformTable_ReadOnly(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	InjectPlatformTable(L, Triple{CPU: CPUX8664, OS: OSLinuxGNU}, nil)

	for _, code := range []string{
		`platform.triple = "arm64-whatever"`,
		`platform.new_field = true`,
		`platform.is_linux = false`,
	} {
		err := L.DoString(code)
		assert.Error(t, err, code)
	}

	assert.Equal(t, "x86_64-unknown-linux-gnu", evalLua(t, L, `return platform.triple`).String())
}

func TestPlatformTable_WhenHelper(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	InjectPlatformTable(L, Triple{CPU: CPUX8664, OS: OSAppleDarwin}, nil)

	assert.Equal(t, "/opt/mia", evalLua(t, L, `return platform.when(platform.is_macos, "/opt/mia")`).String())
	assert.Equal(t, lua.LNil, evalLua(t, L, `return platform.when(platform.is_linux, "/usr/local")`))
}
