package runtime_test

import (
	"testing"

	"github.com/aretw0/fomod/internal/runtime"
	"github.com/aretw0/fomod/internal/testutils"
	"github.com/aretw0/fomod/pkg/domain"
	"github.com/stretchr/testify/assert"
)

// overrides has two options in one group writing the same flag, and a later
// step writing it again.
func overrides() *domain.Document {
	return &domain.Document{
		ModuleName: "Overrides",
		Steps: []domain.Step{
			{
				Name: "First",
				Groups: []domain.Group{{
					Name:     "Both",
					Behavior: domain.SelectAny,
					Options: []domain.Option{
						{Name: "A", Flags: []domain.Flag{{Name: "F", Value: "a"}}},
						{Name: "B", Flags: []domain.Flag{{Name: "F", Value: "b"}, {Name: "G", Value: "b"}}},
					},
				}},
			},
			{
				Name: "Second",
				Groups: []domain.Group{{
					Name:     "Late",
					Behavior: domain.SelectAny,
					Options: []domain.Option{
						{Name: "C", Flags: []domain.Flag{{Name: "F", Value: "c"}}},
					},
				}},
			},
		},
	}
}

func TestCompileFlags_LastWriteWins(t *testing.T) {
	doc := overrides()

	t.Run("document order within a group", func(t *testing.T) {
		sel := domain.NewSelectionState()
		// Insert in reverse to prove order comes from the document.
		sel.Add("First", "Both", 1)
		sel.Add("First", "Both", 0)

		flags := runtime.FinalFlags(doc, sel, nil)
		assert.Equal(t, "b", flags.Get("F"))
		assert.Equal(t, "b", flags.Get("G"))
	})

	t.Run("later step overrides", func(t *testing.T) {
		sel := domain.NewSelectionState()
		sel.Add("First", "Both", 0)
		sel.Add("Second", "Late", 0)

		assert.Equal(t, "c", runtime.FinalFlags(doc, sel, nil).Get("F"))
	})

	t.Run("upto excludes the step itself", func(t *testing.T) {
		sel := domain.NewSelectionState()
		sel.Add("First", "Both", 0)
		sel.Add("Second", "Late", 0)

		assert.Equal(t, domain.FlagMap{}, runtime.CompileFlags(doc, sel, 0, nil))
		assert.Equal(t, domain.FlagMap{"F": "a"}, runtime.CompileFlags(doc, sel, 1, nil))
		assert.Equal(t, domain.FlagMap{"F": "c"}, runtime.CompileFlags(doc, sel, 2, nil))
	})

	t.Run("out of range upto is clamped", func(t *testing.T) {
		sel := domain.NewSelectionState()
		sel.Add("Second", "Late", 0)

		assert.Equal(t, domain.FlagMap{}, runtime.CompileFlags(doc, sel, -3, nil))
		assert.Equal(t, domain.FlagMap{"F": "c"}, runtime.CompileFlags(doc, sel, 99, nil))
	})
}

func TestCompileFlags_Deterministic(t *testing.T) {
	doc := overrides()
	sel := domain.NewSelectionState()
	sel.Add("First", "Both", 0)
	sel.Add("First", "Both", 1)

	first := runtime.FinalFlags(doc, sel, nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, runtime.FinalFlags(doc, sel, nil))
	}

	// The returned map is owned by the caller.
	first["F"] = "tampered"
	assert.Equal(t, "b", runtime.FinalFlags(doc, sel, nil).Get("F"))
}

func TestCompileFlags_DeadSelectionsExcluded(t *testing.T) {
	doc := testutils.Quality()
	sel := runtime.Initialize(doc, nil)

	// Parallax is selected while its step is hidden (Quality is "low").
	sel.Add("High Options", "Extras", 0)

	flags := runtime.FinalFlags(doc, sel, nil)
	assert.Equal(t, "low", flags.Get("Quality"))
	assert.Equal(t, "", flags.Get("Parallax"))

	// Once the step is visible the same selection counts.
	assert.True(t, runtime.Select(doc, sel, "Quality", "Resolution", 1))
	assert.Equal(t, "on", runtime.FinalFlags(doc, sel, nil).Get("Parallax"))
}

func TestStepContext(t *testing.T) {
	doc := testutils.CoreExtras()
	sel := runtime.Initialize(doc, nil)

	assert.Equal(t, domain.FlagMap{}, runtime.StepContext(doc, sel, 0, nil).Flags)
	assert.Equal(t, domain.FlagMap{"HasCore": "true"}, runtime.StepContext(doc, sel, 1, nil).Flags)
}
