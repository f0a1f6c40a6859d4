package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/navcache/internal/core/domain"
)

func TestContentID_CaseInsensitive(t *testing.T) {
	a := domain.NewContentID("Morrowind.ESM")
	b := domain.NewContentID(" morrowind.esm ")

	assert.Equal(t, a, b)
	assert.Equal(t, "morrowind.esm", a.String())
	assert.False(t, a.IsZero())
}

func TestContentID_Zero(t *testing.T) {
	var id domain.ContentID
	assert.True(t, id.IsZero())
	assert.Empty(t, id.String())
	assert.True(t, domain.NewContentID("  ").IsZero())
}

func TestContentID_Text(t *testing.T) {
	var id domain.ContentID
	require.NoError(t, id.UnmarshalText([]byte("Tribunal.esm")))

	out, err := id.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "tribunal.esm", string(out))
	assert.Equal(t, domain.NewContentIDs([]string{"TRIBUNAL.esm"})[0], id)
}

func TestKindFromPath(t *testing.T) {
	tests := []struct {
		path string
		want domain.ContentKind
	}{
		{"Morrowind.esm", domain.KindGameFile},
		{"data/template.OMWGAME", domain.KindGameFile},
		{"mod.esp", domain.KindAddon},
		{"mod.omwaddon", domain.KindAddon},
		{"builtin.omwscripts", domain.KindScripts},
		{"readme.txt", domain.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.KindFromPath(tt.path))
		})
	}
}

func TestLayerStack_Order(t *testing.T) {
	stack := domain.NewLayerStack(
		domain.ConfigLayer{Name: "base"},
		[]domain.ConfigLayer{{Name: "one"}, {Name: "two"}},
		domain.ConfigLayer{Name: "user"},
	)

	layers := stack.Layers()
	require.Len(t, layers, 4)
	assert.Equal(t, []string{"base", "one", "two", "user"},
		[]string{layers[0].Name, layers[1].Name, layers[2].Name, layers[3].Name})
	assert.Equal(t, domain.LayerBase, layers[0].Kind)
	assert.Equal(t, domain.LayerOther, layers[2].Kind)

	for i := range layers {
		assert.Equal(t, i == 3, stack.IsEditable(&layers[i]), layers[i].Name)
	}
	assert.Equal(t, "user", stack.User().Name)
	assert.Len(t, stack.WithoutUser(), 3)
}

func TestLayerStack_LayersIsACopy(t *testing.T) {
	stack := domain.NewLayerStack(domain.ConfigLayer{Name: "base"}, nil, domain.ConfigLayer{Name: "user"})
	layers := stack.Layers()
	layers[0].Name = "changed"

	assert.Equal(t, "base", stack.Layers()[0].Name)
}

func TestCollisionShape_ProfileID(t *testing.T) {
	shape := domain.CollisionShape{Type: domain.ShapeCylinder, HalfExtents: [3]float32{1, 2, 3.5}}
	assert.Equal(t, "cylinder:1x2x3.5", shape.ProfileID())

	other := shape
	other.Type = domain.ShapeAABB
	assert.NotEqual(t, shape.ProfileID(), other.ProfileID())
}

func TestParseShapeType(t *testing.T) {
	st, err := domain.ParseShapeType(" Rotating_Box ")
	require.NoError(t, err)
	assert.Equal(t, domain.ShapeRotatingBox, st)

	_, err = domain.ParseShapeType("sphere")
	assert.ErrorIs(t, err, domain.ErrInvalidCollisionShape)
}

func TestFingerprint_RoundTrip(t *testing.T) {
	fp := domain.Fingerprint(0xdeadbeef)
	assert.Equal(t, "00000000deadbeef", fp.String())

	parsed, err := domain.ParseFingerprint(fp.String())
	require.NoError(t, err)
	assert.Equal(t, fp, parsed)

	_, err = domain.ParseFingerprint("xyz")
	assert.ErrorIs(t, err, domain.ErrInvalidFingerprint)
}

func TestCellCoord_Less(t *testing.T) {
	a := domain.CellCoord{Worldspace: "a", X: 5, Y: 0}
	b := domain.CellCoord{Worldspace: "a", X: 0, Y: 1}
	c := domain.CellCoord{Worldspace: "b", X: -9, Y: -9}

	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.False(t, c.Less(a))
	assert.Equal(t, "a(5, 0)", a.String())
}

func TestJobState_IsTerminal(t *testing.T) {
	terminal := map[domain.JobState]bool{
		domain.JobQueued:     false,
		domain.JobRunning:    false,
		domain.JobCancelling: false,
		domain.JobCompleted:  true,
		domain.JobCancelled:  true,
		domain.JobFailed:     true,
	}
	for state, want := range terminal {
		assert.Equal(t, want, state.IsTerminal(), string(state))
	}
}

func TestDiagnostics(t *testing.T) {
	diags := []domain.Diagnostic{
		{Kind: domain.DiagParseError, Severity: domain.SeverityWarning, Path: "x.esp", Message: "truncated"},
		{
			Kind:       domain.DiagInactiveDependency,
			Severity:   domain.SeverityError,
			File:       domain.NewContentID("C"),
			Dependency: domain.NewContentID("B"),
		},
	}

	assert.True(t, domain.HasErrors(diags))
	assert.False(t, domain.HasErrors(diags[:1]))
	assert.Len(t, domain.FilterDiagnostics(diags, domain.DiagInactiveDependency), 1)
	assert.Equal(t, "InactiveDependency(c -> b)", diags[1].String())
	assert.Equal(t, "ParseError(x.esp): truncated", diags[0].String())
}

func TestLayoutPaths(t *testing.T) {
	assert.Equal(t, ".navcache", domain.DefaultCachePath())
	assert.Equal(t, filepath.Join("cache", "manifest.db"), domain.ManifestPath("cache"))
	assert.Equal(t, filepath.Join("cache", "tiles"), domain.BlobPath("cache"))
}
