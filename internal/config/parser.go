package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/algorithmiaio/mia-install/internal/platform"
)

// DefaultParseTimeout bounds config evaluation when ctx has no deadline.
const DefaultParseTimeout = 5 * time.Second

// Parser evaluates Lua config files with the resolved platform injected.
type Parser struct {
	triple platform.Triple
	distro *platform.Distro
	log    *zap.Logger
}

// NewParser creates a config parser for the given platform. distro may be nil.
func NewParser(triple platform.Triple, distro *platform.Distro, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{triple: triple, distro: distro, log: log}
}

// ParseFile reads and evaluates the config at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (Layer, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Layer{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if info.Size() > maxConfigSizeBytes {
		return Layer{}, &ParseError{
			Message: "config file too large",
			Detail:  fmt.Sprintf("%s is %d bytes, limit is %d", path, info.Size(), maxConfigSizeBytes),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Layer{}, fmt.Errorf("read config %s: %w", path, err)
	}

	p.log.Debug("evaluating config", zap.String("path", path))
	return p.ParseString(ctx, string(data))
}

// ParseString evaluates Lua config code. The code must define a global
// "mia" table; fields it leaves out stay unset in the returned Layer.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (Layer, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultParseTimeout)
		defer cancel()
	}

	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	platform.InjectPlatformTable(L, p.triple, p.distro)

	if err := L.DoString(luaCode); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Layer{}, fmt.Errorf("evaluate config: %w", ctxErr)
		}
		return Layer{}, &ParseError{
			Message: "Lua error",
			Detail:  err.Error(),
		}
	}

	return extractLayer(L)
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractLayer reads the global "mia" table.
func extractLayer(L *lua.LState) (Layer, error) {
	value := L.GetGlobal(luaGlobalMia)
	table, ok := value.(*lua.LTable)
	if !ok {
		return Layer{}, &ParseError{
			Message: "missing or invalid 'mia' table",
			Detail:  fmt.Sprintf("expected table, got %s", value.Type()),
		}
	}

	var (
		layer    Layer
		firstErr error
	)
	table.ForEach(func(key, value lua.LValue) {
		if firstErr != nil {
			return
		}
		firstErr = setField(&layer, key, value)
	})
	if firstErr != nil {
		return Layer{}, firstErr
	}

	return layer, nil
}

func setField(layer *Layer, key, value lua.LValue) error {
	name, ok := key.(lua.LString)
	if !ok {
		return &ParseError{
			Message: "invalid 'mia' table",
			Detail:  fmt.Sprintf("unexpected key %s", key.String()),
		}
	}

	switch string(name) {
	case luaFieldPrefix:
		s, err := stringField(luaFieldPrefix, value)
		layer.Prefix = &s
		return err
	case luaFieldVersion:
		s, err := stringField(luaFieldVersion, value)
		s = strings.TrimPrefix(s, "v")
		layer.Version = &s
		return err
	case luaFieldBaseURL:
		s, err := stringField(luaFieldBaseURL, value)
		layer.BaseURL = &s
		return err
	case luaFieldDisable:
		b, ok := value.(lua.LBool)
		if !ok {
			return fieldTypeError(luaFieldDisable, "boolean", value)
		}
		v := bool(b)
		layer.DisableSudo = &v
		return nil
	case luaFieldRetries:
		n, ok := value.(lua.LNumber)
		if !ok || float64(n) != float64(int(n)) {
			return fieldTypeError(luaFieldRetries, "integer", value)
		}
		v := int(n)
		layer.Retries = &v
		return nil
	default:
		return &ParseError{
			Message: "invalid 'mia' table",
			Detail:  fmt.Sprintf("unknown field %q", string(name)),
		}
	}
}

// stringField accepts strings and numbers, so version = 2 reads as "2".
func stringField(field string, value lua.LValue) (string, error) {
	switch v := value.(type) {
	case lua.LString:
		return strings.TrimSpace(string(v)), nil
	case lua.LNumber:
		return v.String(), nil
	default:
		return "", fieldTypeError(field, "string", value)
	}
}

func fieldTypeError(field, want string, got lua.LValue) error {
	return &ParseError{
		Message: fmt.Sprintf("invalid 'mia.%s'", field),
		Detail:  fmt.Sprintf("expected %s, got %s", want, got.Type()),
	}
}

// FormatError formats a config error for user display. Context wrapped
// around a ParseError is kept; the Lua stack traceback is shown only when
// verbose.
func FormatError(err error, verbose bool) string {
	msg := err.Error()
	var parseErr *ParseError
	if verbose || !errors.As(err, &parseErr) {
		return msg
	}
	if idx := strings.Index(msg, "stack traceback"); idx > 0 {
		msg = strings.TrimSpace(msg[:idx])
	}
	return msg
}
