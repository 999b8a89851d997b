package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/metadata"
)

func service(env string, replicas int) metadata.Metadata {
	return metadata.New(
		metadata.Pair{Key: "env", Value: env},
		metadata.Pair{Key: "replicas", Value: replicas},
		metadata.Pair{Key: "tags", Value: []any{"api", "public"}},
		metadata.Pair{Key: "limits", Value: metadata.New(
			metadata.Pair{Key: "cpu", Value: int64(2)},
		)},
	)
}

func TestMatch(t *testing.T) {
	m := service("prod", 3)

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{name: "string equality", expr: `meta.env == "prod"`, want: true},
		{name: "string inequality", expr: `meta.env == "dev"`, want: false},
		{name: "number comparison", expr: `meta.replicas > 2`, want: true},
		{name: "has present", expr: `has(meta.env)`, want: true},
		{name: "has absent", expr: `has(meta.owner)`, want: false},
		{name: "list membership", expr: `"public" in meta.tags`, want: true},
		{name: "nested snapshot", expr: `meta.limits.cpu >= 2`, want: true},
		{name: "key membership", expr: `"limits" in meta`, want: true},
		{name: "combined", expr: `meta.env == "prod" && !has(meta.owner)`, want: true},
		{name: "constant", expr: `true`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := Compile(tt.expr)
			require.NoError(t, err)

			got, err := sel.Match(m)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchAllTiers(t *testing.T) {
	sel := MustCompile(`size(meta) >= 0 && !has(meta.missing)`)

	b := metadata.NewBuilder()
	for i := 0; i < 20; i++ {
		b.Set(string(rune('a'+i)), i)
	}

	for _, m := range []metadata.Metadata{metadata.Empty(), service("dev", 1), b.Build()} {
		ok, err := sel.Match(m)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr error
	}{
		{name: "empty", expr: "", wantErr: ErrEmptyExpression},
		{name: "blank", expr: "  \t", wantErr: ErrEmptyExpression},
		{name: "integer result", expr: `1 + 1`, wantErr: ErrNotBoolean},
		{name: "string result", expr: `"prod"`, wantErr: ErrNotBoolean},
		{name: "syntax error", expr: `meta.env ==`},
		{name: "undeclared variable", expr: `labels.env == "prod"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := Compile(tt.expr)
			require.Error(t, err)
			assert.Nil(t, sel)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}

	assert.Panics(t, func() { MustCompile("") })
}

func TestMatchErrors(t *testing.T) {
	m := service("prod", 3)

	// The result type is only known at evaluation time.
	_, err := MustCompile(`meta.env`).Match(m)
	assert.ErrorIs(t, err, ErrNotBoolean)

	_, err = MustCompile(`meta.owner == "team"`).Match(m)
	assert.Error(t, err, "missing keys fail evaluation")

	_, err = MustCompile(`true`).Match(nil)
	assert.ErrorIs(t, err, metadata.ErrNilArgument)
}

func TestFilter(t *testing.T) {
	items := []metadata.Metadata{
		service("prod", 3),
		service("dev", 1),
		service("prod", 1),
		service("staging", 5),
	}

	sel := MustCompile(`meta.env == "prod"`)
	got, err := sel.Filter(items)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Same(t, items[0], got[0])
	assert.Same(t, items[2], got[1])

	none, err := MustCompile(`meta.replicas > 10`).Filter(items)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = MustCompile(`meta.owner == "x"`).Filter(items)
	assert.Error(t, err)
}

func TestString(t *testing.T) {
	expr := `meta.env == "prod"`
	assert.Equal(t, expr, MustCompile(expr).String())
}
