package parser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gimmeDG/UnrealEngine5-mcp/pkg/types"
)

const fixturePath = "testdata/unreal_stub.py"

func parseString(t *testing.T, src string) *types.ParseResult {
	t.Helper()
	result, err := New().Parse(context.Background(), "test.py", []byte(src))
	require.NoError(t, err)
	return result
}

func findFunction(result *types.ParseResult, fullName string) *types.FunctionEntry {
	for i := range result.Functions {
		if result.Functions[i].FullName == fullName {
			return &result.Functions[i]
		}
	}
	return nil
}

func TestNew(t *testing.T) {
	p := New()
	assert.NotNil(t, p)
	assert.NotNil(t, p.logger)
}

func TestParse_LogsCounts(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	result, err := New(WithLogger(logger)).Parse(context.Background(), "test.py",
		[]byte("class Tool:\n    def run(self) -> None: ...\n\ndef log(arg: str) -> None: ...\n"))
	require.NoError(t, err)

	var parsed *logrus.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Message == "Parsed stub file" {
			parsed = entry
		}
	}
	require.NotNil(t, parsed)
	assert.Equal(t, result.FunctionCount(), parsed.Data["functions"])
	assert.Equal(t, result.ClassCount(), parsed.Data["classes"])
	// Tool plus the injected ScopedTransaction
	assert.Equal(t, 2, parsed.Data["classes"])
}

func TestParseFile_Fixture(t *testing.T) {
	result, err := New().ParseFile(context.Background(), fixturePath)
	require.NoError(t, err)

	// 3 declared classes plus the injected ScopedTransaction
	classNames := make([]string, 0, len(result.Classes))
	for _, c := range result.Classes {
		classNames = append(classNames, c.Name)
	}
	assert.Equal(t, []string{"Actor", "Vector", "LinearColor", "ScopedTransaction"}, classNames)

	// 8 declared functions (the setter is dropped) plus 3 injected methods
	fullNames := make([]string, 0, len(result.Functions))
	for _, f := range result.Functions {
		fullNames = append(fullNames, f.FullName)
	}
	assert.Equal(t, []string{
		"Actor.get_actor_location",
		"Actor.set_actor_location",
		"Actor.hidden",
		"Actor.static_class",
		"Vector.__init__",
		"LinearColor.__init__",
		"log",
		"spawn_actor_from_class",
		"ScopedTransaction.__init__",
		"ScopedTransaction.__enter__",
		"ScopedTransaction.__exit__",
	}, fullNames)
	assert.Equal(t, []string{"ScopedTransaction"}, result.Injected)

	for i := range result.Functions {
		assert.NoError(t, result.Functions[i].Validate())
	}
	for i := range result.Classes {
		assert.NoError(t, result.Classes[i].Validate())
	}
}

func TestParseFile_Entries(t *testing.T) {
	result, err := New().ParseFile(context.Background(), fixturePath)
	require.NoError(t, err)

	t.Run("method with docstring", func(t *testing.T) {
		fn := findFunction(result, "Actor.get_actor_location")
		require.NotNil(t, fn)
		assert.Equal(t, "get_actor_location", fn.Name)
		assert.Equal(t, "Actor", fn.ParentClass)
		assert.Equal(t, "get_actor_location() -> Vector", fn.Signature)
		assert.Equal(t, "x.get_actor_location() -> Vector\nReturns the location of the RootComponent of this Actor", fn.Docstring)
		assert.Empty(t, fn.Parameters)
	})

	t.Run("self is stripped", func(t *testing.T) {
		fn := findFunction(result, "Actor.set_actor_location")
		require.NotNil(t, fn)
		assert.Equal(t, "set_actor_location(new_location: Vector, sweep: bool, teleport: bool) -> bool", fn.Signature)
		require.Len(t, fn.Parameters, 3)
		assert.Equal(t, "new_location", fn.Parameters[0].Name)
		assert.Equal(t, types.Named("Vector"), fn.Parameters[0].Type)
		assert.Equal(t, "Move the actor instantly to the specified location.", fn.Docstring)
	})

	t.Run("property collapses to return type", func(t *testing.T) {
		fn := findFunction(result, "Actor.hidden")
		require.NotNil(t, fn)
		assert.True(t, fn.Property)
		assert.Equal(t, "bool", fn.Signature)
	})

	t.Run("classmethod prefix keeps cls", func(t *testing.T) {
		fn := findFunction(result, "Actor.static_class")
		require.NotNil(t, fn)
		assert.True(t, fn.ClassMethod)
		assert.Equal(t, "@classmethod static_class(cls) -> Class", fn.Signature)
	})

	t.Run("sanitized keyword tuple default", func(t *testing.T) {
		fn := findFunction(result, "LinearColor.__init__")
		require.NotNil(t, fn)
		assert.Equal(t, "__init__(color) -> None", fn.Signature)
	})

	t.Run("untyped parameters render bare", func(t *testing.T) {
		fn := findFunction(result, "spawn_actor_from_class")
		require.NotNil(t, fn)
		assert.Equal(t, "spawn_actor_from_class(actor_class, location: Vector, rotation) -> Actor", fn.Signature)
		assert.True(t, fn.Parameters[0].Type.IsUntyped())
		assert.Empty(t, fn.ParentClass)
		assert.Empty(t, fn.Docstring)
	})

	t.Run("class docstring", func(t *testing.T) {
		require.NotEmpty(t, result.Classes)
		assert.Equal(t, "Actor is the base class for an Object that can be placed or spawned in a level.", result.Classes[0].Docstring)
	})
}

func TestParse_ReturnDefaultsToAny(t *testing.T) {
	result := parseString(t, "def tick(delta_seconds: float):\n    ...\n")
	fn := findFunction(result, "tick")
	require.NotNil(t, fn)
	assert.Equal(t, "tick(delta_seconds: float) -> Any", fn.Signature)
	assert.Equal(t, types.TypeUntyped, fn.ReturnType.Kind)
	assert.Equal(t, "Any", fn.ReturnType.String())
}

func TestParse_SkipsVariadicAndNested(t *testing.T) {
	src := `
class Outer:
    class Inner:
        def hidden(self) -> None: ...

    def call(self, *args, key: str = "", **kwargs) -> None: ...

async def fetch() -> None: ...
`
	result := parseString(t, src)
	assert.Nil(t, findFunction(result, "Inner.hidden"))
	assert.Nil(t, findFunction(result, "fetch"))

	fn := findFunction(result, "Outer.call")
	require.NotNil(t, fn)
	assert.Equal(t, "call() -> None", fn.Signature)
}

func TestParse_OnlyPositionalOrKeywordParams(t *testing.T) {
	src := `
def keyword_only(a: int, *, b: str) -> None: ...

def positional_only(a: int, /, b: str, c=1) -> None: ...

def both(a, /, b: float, *args: int, c: str, **kwargs) -> None: ...
`
	result := parseString(t, src)

	tests := []struct {
		name string
		want string
	}{
		{"keyword_only", "keyword_only(a: int) -> None"},
		{"positional_only", "positional_only(b: str, c) -> None"},
		{"both", "both(b: float) -> None"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := findFunction(result, tt.name)
			require.NotNil(t, fn)
			assert.Equal(t, tt.want, fn.Signature)
		})
	}
}

func TestParse_WindowsLineEndings(t *testing.T) {
	src := "class Actor(Object):\r\n" +
		"    \"\"\"Base actor.\r\n" +
		"\r\n" +
		"    Second line.\r\n" +
		"    \"\"\"\r\n" +
		"\r\n" +
		"    def tick(self) -> None:\r\n" +
		"        \"\"\"Advance one frame.\r\n" +
		"            Indented detail.\r\n" +
		"          Less indented.\r\n" +
		"        \"\"\"\r\n" +
		"        ...\r\n"

	result := parseString(t, src)
	require.True(t, result.HasClass("Actor"))
	assert.Equal(t, "Base actor.\n\nSecond line.", result.Classes[0].Docstring)

	fn := findFunction(result, "Actor.tick")
	require.NotNil(t, fn)
	assert.Equal(t, "Advance one frame.\n  Indented detail.\nLess indented.", fn.Docstring)

	// A lone carriage return is a line break too
	crOnly := parseString(t, "def log(arg: str) -> None:\r    \"\"\"Log it.\r\r    More.\r    \"\"\"\r")
	logFn := findFunction(crOnly, "log")
	require.NotNil(t, logFn)
	assert.Equal(t, "Log it.\n\nMore.", logFn.Docstring)
}

func TestParse_DecoratedClass(t *testing.T) {
	result := parseString(t, "@unreal.uclass()\nclass Tool:\n    def run(self) -> None: ...\n")
	assert.True(t, result.HasClass("Tool"))
	assert.NotNil(t, findFunction(result, "Tool.run"))
}

func TestParse_Deterministic(t *testing.T) {
	content, err := os.ReadFile(fixturePath)
	require.NoError(t, err)

	first, err := New().Parse(context.Background(), fixturePath, content)
	require.NoError(t, err)
	second, err := New().Parse(context.Background(), fixturePath, content)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParse_Injection(t *testing.T) {
	t.Run("injected when absent", func(t *testing.T) {
		result := parseString(t, "def noop() -> None: ...\n")

		require.True(t, result.HasClass(ScopedTransactionClass))
		var methods []types.FunctionEntry
		for _, f := range result.Functions {
			if f.ParentClass == ScopedTransactionClass {
				methods = append(methods, f)
			}
		}
		require.Len(t, methods, 3)
		assert.Equal(t, "__init__(description: str) -> None", methods[0].Signature)
		assert.Empty(t, methods[0].Docstring)
		assert.Equal(t, "__enter__() -> ScopedTransaction", methods[1].Signature)
		assert.Equal(t, "Begin transaction", methods[1].Docstring)
		assert.Equal(t, "__exit__(type: Any, value: Any, traceback: Any) -> None", methods[2].Signature)
		assert.Equal(t, "End transaction", methods[2].Docstring)
	})

	t.Run("not duplicated when declared", func(t *testing.T) {
		result := parseString(t, "class ScopedTransaction:\n    def __enter__(self) -> ScopedTransaction: ...\n")

		count := 0
		for _, c := range result.Classes {
			if c.Name == ScopedTransactionClass {
				count++
			}
		}
		assert.Equal(t, 1, count)
		assert.Empty(t, result.Injected)
		assert.Len(t, result.Functions, 1)
	})
}

func TestParse_SyntaxError(t *testing.T) {
	src := "def ok() -> None: ...\n\ndef broken(self -> None:\n    ...\n"
	_, err := New().Parse(context.Background(), "broken.py", []byte(src))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrParse))

	var pe *types.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "broken.py", pe.File)
	assert.GreaterOrEqual(t, pe.Line, 3)
	assert.Positive(t, pe.Column)
	assert.NotEmpty(t, pe.Message)
}

func TestParseFile_NotFound(t *testing.T) {
	_, err := New().ParseFile(context.Background(), filepath.Join(t.TempDir(), "missing.py"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrSourceNotFound))
}

func TestParse_ByteOrderMark(t *testing.T) {
	result := parseString(t, "\xEF\xBB\xBFdef log(arg: str) -> None: ...\n")
	assert.NotNil(t, findFunction(result, "log"))
}
