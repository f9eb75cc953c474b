package index

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seam-dev/seam/pkg/parser"
)

func parse(t *testing.T, code string, lang parser.Language) *parser.ParseResult {
	t.Helper()
	p := parser.New()
	t.Cleanup(p.Close)

	result, err := p.Parse([]byte(code), lang, "test."+string(lang))
	require.NoError(t, err)
	return result
}

func TestBuild_Functions(t *testing.T) {
	code := `static int helper(int x) {
	return x + 1;
}

int process(int v) {
	int a = helper(v);
	return helper(a);
}
`
	ix := Build(parse(t, code, parser.LangC))

	require.Len(t, ix.Functions, 2)
	assert.Equal(t, []string{"helper", "process"}, ix.FunctionOrder)

	helper := ix.Functions["helper"]
	assert.True(t, helper.IsStatic)
	assert.Equal(t, uint32(1), helper.StartLine)
	assert.Empty(t, helper.Calls)

	process := ix.Functions["process"]
	assert.False(t, process.IsStatic)
	require.Len(t, process.Calls, 2)
	assert.Equal(t, "helper", process.Calls[0].Name)
	assert.Equal(t, "helper", process.Calls[1].Name)
	assert.Less(t, process.Calls[0].Line, process.Calls[1].Line)
}

func TestBuild_CallSitesInSourceOrder(t *testing.T) {
	code := `void run(void) {
	first();
	second();
	first();
}

void first(void) {}
void second(void) {}
`
	ix := Build(parse(t, code, parser.LangC))

	run := ix.Functions["run"]
	require.Len(t, run.Calls, 3)
	assert.Equal(t, "first", run.Calls[0].Name)
	assert.Equal(t, "second", run.Calls[1].Name)
	assert.Equal(t, "first", run.Calls[2].Name)
}

func TestBuild_FirstDefinitionWins(t *testing.T) {
	// Duplicate names can appear in headers with conditional compilation.
	code := `int dup(void) { return 1; }
int dup(void) { return 2; }
`
	ix := Build(parse(t, code, parser.LangC))

	require.Len(t, ix.Functions, 1)
	assert.Equal(t, uint32(1), ix.Functions["dup"].StartLine)
	assert.Len(t, ix.FunctionOrder, 1)
}

func TestBuild_Structures(t *testing.T) {
	code := `struct Point {
	int x;
	int y;
};

enum Color { RED, GREEN };

typedef struct {
	int id;
} Handle;

typedef unsigned int u32;

struct Forward;
`
	ix := Build(parse(t, code, parser.LangC))

	point, ok := ix.Structures["Point"]
	require.True(t, ok)
	assert.Equal(t, KindStruct, point.Kind)
	assert.Contains(t, point.Definition, "int x;")

	color, ok := ix.Structures["Color"]
	require.True(t, ok)
	assert.Equal(t, KindEnum, color.Kind)

	handle, ok := ix.Structures["Handle"]
	require.True(t, ok)
	assert.Equal(t, KindTypedef, handle.Kind)

	u32, ok := ix.Structures["u32"]
	require.True(t, ok)
	assert.Equal(t, KindTypedef, u32.Kind)

	_, ok = ix.Structures["Forward"]
	assert.False(t, ok, "forward declarations should not be indexed")
}

func TestBuild_ClassMethods(t *testing.T) {
	code := `class Device {
public:
	void open();
};

void Device::open() {
	probe();
}
`
	ix := Build(parse(t, code, parser.LangCPP))

	dev, ok := ix.Structures["Device"]
	require.True(t, ok)
	assert.Equal(t, KindClass, dev.Kind)

	open, ok := ix.Functions["open"]
	require.True(t, ok)
	require.Len(t, open.Calls, 1)
	assert.Equal(t, "probe", open.Calls[0].Name)
}

func TestBuild_DefinitionTruncated(t *testing.T) {
	var b strings.Builder
	b.WriteString("struct Big {\n")
	for i := 0; i < 100; i++ {
		b.WriteString("\tint field_with_a_rather_long_name_")
		b.WriteString(strings.Repeat("x", 10))
		b.WriteString(";\n")
	}
	b.WriteString("};\n")

	ix := Build(parse(t, b.String(), parser.LangC))

	big, ok := ix.Structures["Big"]
	require.True(t, ok)
	assert.Len(t, big.Definition, MaxDefinitionChars+3)
	assert.True(t, strings.HasSuffix(big.Definition, "..."))
}

func TestBuild_Idempotent(t *testing.T) {
	code := `int a(void) { b(); return 0; }
int b(void) { return 1; }
`
	result := parse(t, code, parser.LangC)

	first := Build(result)
	second := Build(result)

	assert.Equal(t, first.FunctionOrder, second.FunctionOrder)
	assert.Equal(t, first.Functions["a"].Calls, second.Functions["a"].Calls)
	assert.Equal(t, len(first.Structures), len(second.Structures))
}
