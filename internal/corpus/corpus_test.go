package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gimmeDG/UnrealEngine5-mcp/pkg/types"
)

func TestSplitIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"SpawnActorFromClass", []string{"spawn", "actor", "from", "class"}},
		{"spawn_actor_from_class", []string{"spawn", "actor", "from", "class"}},
		{"Actor.set_actor_location", []string{"actor", "set", "actor", "location"}},
		{"HTTPServer", []string{"h", "t", "t", "p", "server"}},
		{"__init__", []string{"init"}},
		{"List[Vector]", []string{"list[", "vector]"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitIdentifier(tt.in))
		})
	}
}

func TestTokenizeQuery(t *testing.T) {
	assert.Equal(t, []string{"spawn", "actor", "location"}, TokenizeQuery("SpawnActor  location"))
	assert.Equal(t, []string{"actor", "location"}, TokenizeQuery("actor location"))
	assert.Empty(t, TokenizeQuery("   "))
}

func TestTokenizeProse(t *testing.T) {
	assert.Equal(t, []string{"move", "the", "actor", "instantly."}, TokenizeProse("Move the Actor\n instantly."))
}

func TestFunctionDocument(t *testing.T) {
	fn := types.FunctionEntry{
		Name:        "set_actor_location",
		FullName:    "Actor.set_actor_location",
		ParentClass: "Actor",
		Parameters: []types.Param{
			{Name: "new_location", Type: types.Named("Vector")},
			{Name: "sweep", Type: types.Untyped()},
			{Name: "hit", Type: types.Unparsable()},
		},
		ReturnType: types.Named("bool"),
		Docstring:  "Move the actor",
	}

	assert.Equal(t, []string{
		"set", "actor", "location",
		"actor", "set", "actor", "location",
		"actor",
		"new", "location", "vector",
		"sweep",
		"hit", "any",
		"bool",
		"move", "the", "actor",
	}, FunctionDocument(&fn))
}

func TestFunctionDocument_UntypedReturn(t *testing.T) {
	fn := types.FunctionEntry{Name: "tick", FullName: "tick", ReturnType: types.Untyped()}
	assert.Equal(t, []string{"tick", "tick", "any"}, FunctionDocument(&fn))
}

func TestClassDocument(t *testing.T) {
	assert.Equal(t, []string{"static", "mesh", "actor"}, ClassDocument(&types.ClassEntry{Name: "StaticMeshActor"}))
	assert.Equal(t, []string{"actor", "base", "class."}, ClassDocument(&types.ClassEntry{Name: "Actor", Docstring: "Base class."}))
}

func TestBuild_Alignment(t *testing.T) {
	functions := []types.FunctionEntry{
		{Name: "a", FullName: "a"},
		{Name: "b", FullName: "b"},
	}
	classes := []types.ClassEntry{{Name: "X"}, {Name: "Y"}, {Name: "Z"}}

	fc := BuildFunctions(functions)
	cc := BuildClasses(classes)

	assert.Equal(t, len(functions), fc.Len())
	assert.Equal(t, len(classes), cc.Len())
	assert.Equal(t, []string{"b", "b", "any"}, fc[1])
	assert.Equal(t, []string{"z"}, cc[2])
}
