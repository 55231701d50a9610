package servicecall

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waldt/humilis/layer"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		result any
		want   any
	}{
		{"sequence collapses to first element", []any{"a", "b"}, "a"},
		{"empty sequence becomes nil", []any{}, nil},
		{"scalar passes through", "x", "x"},
		{"mapping passes through", map[string]any{"k": "v"}, map[string]any{"k": "v"}},
		{"nil passes through", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.result))
		})
	}
}

type attrResult struct {
	id string
}

func (r attrResult) Attribute(name string) (any, bool) {
	if name == "id" {
		return r.id, true
	}
	return nil, false
}

func TestExtract(t *testing.T) {
	m := map[string]any{"OutputValue": "v1"}

	got, err := Extract(m, "", "OutputValue")
	require.NoError(t, err)
	assert.Equal(t, "v1", got)

	got, err = Extract(attrResult{id: "i-123"}, "id", "")
	require.NoError(t, err)
	assert.Equal(t, "i-123", got)

	// Both selectors empty: raw result.
	got, err = Extract(m, "", "")
	require.NoError(t, err)
	assert.Equal(t, m, got)

	_, err = Extract(m, "a", "k")
	assert.Error(t, err)

	_, err = Extract(m, "", "missing")
	assert.Error(t, err)

	_, err = Extract(attrResult{}, "bogus", "")
	assert.Error(t, err)
}

type nullFacade struct{ name string }

func (f *nullFacade) Name() string { return f.name }

func (f *nullFacade) Call(context.Context, string, []any, map[string]any) (any, error) {
	return nil, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	factory := func(_ *layer.Config) (Facade, error) {
		return &nullFacade{name: "dynamodb"}, nil
	}

	require.NoError(t, r.Register("dynamodb", factory))
	require.ErrorIs(t, r.Register("dynamodb", factory), ErrDuplicateService)

	f, err := r.Facade("dynamodb", nil)
	require.NoError(t, err)
	assert.Equal(t, "dynamodb", f.Name())

	_, err = r.Facade("kinesis", nil)
	require.ErrorIs(t, err, ErrUnsupportedService)

	assert.Equal(t, []string{"dynamodb"}, r.Services())
}
