package runtime_test

import (
	"testing"

	"github.com/aretw0/fomod/internal/runtime"
	"github.com/aretw0/fomod/internal/testutils"
	"github.com/aretw0/fomod/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sources(installs []domain.Install) []string {
	out := make([]string, 0, len(installs))
	for _, in := range installs {
		out = append(out, in.Source)
	}
	return out
}

func TestResolveFiles_PriorityOrder(t *testing.T) {
	doc := &domain.Document{
		Installs: []domain.Install{
			{Source: "A", Priority: "5"},
			{Source: "B", Priority: "10"},
			{Source: "C", Priority: "5"},
			{Source: "D", Priority: "0"},
		},
	}

	got := runtime.ResolveFiles(doc, domain.NewSelectionState(), nil, nil)
	assert.Equal(t, []string{"B", "A", "C", "D"}, sources(got))
}

func TestResolveFiles_Sources(t *testing.T) {
	doc := testutils.Quality()
	sel := runtime.Initialize(doc, nil)

	// Parallax selected while hidden stays dead.
	sel.Add("High Options", "Extras", 0)
	got := runtime.ResolveFiles(doc, sel, runtime.VisibleSteps(doc, sel, nil), nil)
	assert.Empty(t, got)

	require.True(t, runtime.Select(doc, sel, "Quality", "Resolution", 1))
	got = runtime.ResolveFiles(doc, sel, runtime.VisibleSteps(doc, sel, nil), nil)
	assert.Equal(t, []string{"parallax", "high/meshes", "high/parallax.esp"}, sources(got))
}

func TestResolveFiles_OnlyVisibleSteps(t *testing.T) {
	doc := testutils.CoreExtras()
	sel := runtime.Initialize(doc, nil)
	require.True(t, runtime.Select(doc, sel, "Extras", "Addons", 0))

	all := runtime.ResolveFiles(doc, sel, runtime.VisibleSteps(doc, sel, nil), nil)
	assert.Equal(t, []string{"hd/textures.bsa", "readme.txt", "core"}, sources(all))

	// Passing a narrower visible list drops that step's installs.
	onlyCore := runtime.VisibleSteps(doc, sel, nil)[:1]
	assert.Equal(t, []string{"readme.txt", "core"}, sources(runtime.ResolveFiles(doc, sel, onlyCore, nil)))
}

func TestResolveFiles_ConditionalFlagsFollowVisible(t *testing.T) {
	doc := testutils.Quality()
	sel := runtime.Initialize(doc, nil)
	require.True(t, runtime.Select(doc, sel, "Quality", "Resolution", 1))
	require.True(t, runtime.Select(doc, sel, "High Options", "Extras", 0))

	visible := runtime.VisibleSteps(doc, sel, nil)
	require.Equal(t, []string{"Quality", "High Options", "Finish"}, names(visible))
	assert.Equal(t, []string{"parallax", "high/meshes", "high/parallax.esp"}, sources(runtime.ResolveFiles(doc, sel, visible, nil)))

	// Without High Options its Parallax flag must not fire a conditional install.
	onlyQuality := visible[:1]
	assert.Equal(t, []string{"high/meshes"}, sources(runtime.ResolveFiles(doc, sel, onlyQuality, nil)))
}

func TestResolveFiles_Deterministic(t *testing.T) {
	doc := &domain.Document{
		Installs: []domain.Install{{Source: "base.esp", Priority: "1"}},
		Steps: []domain.Step{{
			Name: "Pick",
			Groups: []domain.Group{{
				Name:     "Many",
				Behavior: domain.SelectAny,
				Options: []domain.Option{
					{Name: "A", Installs: []domain.Install{{Source: "a1", Priority: "1"}, {Source: "a2", Priority: "3"}}},
					{Name: "B", Installs: []domain.Install{{Source: "b1", Priority: "1"}}},
					{Name: "C", Installs: []domain.Install{{Source: "c1", Priority: "3"}, {Source: "c2", Priority: "1"}}},
				},
			}},
		}},
	}
	sel := domain.NewSelectionState()
	for i := range doc.Steps[0].Groups[0].Options {
		require.True(t, runtime.Select(doc, sel, "Pick", "Many", i))
	}
	visible := runtime.VisibleSteps(doc, sel, nil)

	first := runtime.ResolveFiles(doc, sel, visible, nil)
	assert.Equal(t, []string{"a2", "c1", "base.esp", "a1", "b1", "c2"}, sources(first))
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, runtime.ResolveFiles(doc, sel, visible, nil))
	}
}

func TestInstallPlan(t *testing.T) {
	t.Run("first file per destination wins", func(t *testing.T) {
		plan := runtime.InstallPlan([]domain.Install{
			{Source: "high/x.esp", Destination: `Data\X.esp`, Priority: "10"},
			{Source: "low/x.esp", Destination: "data/x.esp"},
			{Source: "y.esp"},
			{Source: "other/y.esp", Destination: "./Y.esp"},
		})
		assert.Equal(t, []domain.PlanEntry{
			{Source: "high/x.esp", Destination: `Data\X.esp`},
			{Source: "y.esp", Destination: "y.esp"},
		}, plan)
	})

	t.Run("folders merge into a shared destination", func(t *testing.T) {
		plan := runtime.InstallPlan([]domain.Install{
			{Source: "core", Destination: ".", Folder: true},
			{Source: "extra", Destination: ".", Folder: true},
			{Source: "Core", Destination: "", Folder: true},
			{Source: "core", Destination: ".", Folder: true},
		})
		assert.Equal(t, []domain.PlanEntry{
			{Source: "core", Destination: ".", Folder: true},
			{Source: "extra", Destination: ".", Folder: true},
			{Source: "Core", Destination: "Core", Folder: true},
		}, plan)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, runtime.InstallPlan(nil))
	})
}

func TestInstall_Rank(t *testing.T) {
	tests := map[string]int{
		"":      0,
		"5":     5,
		" 12 ":  12,
		"-3":    -3,
		"+7":    7,
		"10abc": 10,
		"abc":   0,
		"-":     0,
		"1.5":   1,
	}
	for in, want := range tests {
		assert.Equal(t, want, domain.Install{Priority: in}.Rank(), "priority %q", in)
	}
}
