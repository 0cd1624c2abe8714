package fomod_test

import (
	"os"
	"testing"

	"github.com/aretw0/fomod"
	"github.com/aretw0/fomod/internal/testutils"
	"github.com/aretw0/fomod/pkg/adapters/memory"
	"github.com/aretw0/fomod/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, opts ...fomod.Option) *fomod.Session {
	t.Helper()
	sess, err := fomod.New(opts...).Load([]byte(testutils.ModuleConfigXML), []byte(testutils.InfoXML))
	require.NoError(t, err)
	return sess
}

func stepNames(refs []domain.StepRef) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		out = append(out, ref.Step.Name)
	}
	return out
}

func TestEngine_Load(t *testing.T) {
	sess := load(t)

	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "Sample Mod", sess.Document().ModuleName)
	assert.Equal(t, "Someone", sess.Info().Author)
	assert.Equal(t, []string{"Core", "Extras"}, stepNames(sess.VisibleSteps()))

	ref, ok := sess.CurrentStep()
	require.True(t, ok)
	assert.Equal(t, "Core", ref.Step.Name)

	// HD Textures turns Recommended once Core has set HasCore.
	typ, err := sess.OptionType("Extras", "Addons", "HD Textures")
	require.NoError(t, err)
	assert.Equal(t, domain.TypeRecommended, typ)
	assert.True(t, sess.IsSelected("Extras", "Addons", "HD Textures"))
	assert.Equal(t, domain.FlagMap{"HasCore": "true", "Textures": "hd"}, sess.Flags())

	_, err = sess.OptionType("Extras", "Addons", "Nope")
	assert.ErrorIs(t, err, domain.ErrUnknownOption)
}

func TestEngine_Load_Malformed(t *testing.T) {
	sess, err := fomod.New().Load([]byte(`<config><installSteps/></config>`), nil)
	assert.Nil(t, sess)
	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "module name is missing")
}

func TestEngine_Load_BadInfoIsIgnored(t *testing.T) {
	sess, err := fomod.New().Load([]byte(testutils.ModuleConfigXML), []byte("<fomod>"))
	require.NoError(t, err)
	assert.Nil(t, sess.Info())

	sess.SetArchive("sample-1.0.7z", "")
	m := sess.Manifest()
	assert.Equal(t, "sample-1.0.7z", m.Name)
	assert.Equal(t, domain.DefaultVersion, m.Version)
	assert.Equal(t, []string{}, m.Categories)
}

func TestSession_InstallPlan(t *testing.T) {
	sess := load(t)

	assert.Equal(t, []domain.PlanEntry{
		{Source: `hd\textures.bsa`, Destination: "textures.bsa"},
		{Source: `hd\extra`, Destination: `textures\extra`, Folder: true},
		{Source: "readme.txt", Destination: `docs\readme.txt`},
		{Source: "Core", Destination: ".", Folder: true},
	}, sess.InstallPlan())

	// Dropping HD Textures also drops the conditional install it enabled.
	require.True(t, sess.Deselect("Extras", "Addons", "HD Textures"))
	require.True(t, sess.Select("Extras", "Addons", "Patch"))
	assert.Equal(t, []domain.PlanEntry{
		{Source: "readme.txt", Destination: `docs\readme.txt`},
		{Source: "Core", Destination: ".", Folder: true},
		{Source: `patch\patch.esp`, Destination: `patch\patch.esp`},
	}, sess.InstallPlan())
}

func TestSession_Manifest(t *testing.T) {
	sess := load(t)
	sess.SetArchive("Sample Mod-123.7z", "Sample Mod 2.1")

	assert.Equal(t, domain.Manifest{
		Name:        "Sample Mod",
		Version:     "2.1",
		Author:      "Someone",
		Website:     "https://example.com/sample",
		Description: "A sample module.",
		Categories:  []string{"Armour", "Textures"},
		Files: []domain.PlanEntry{
			{Source: "Sample Mod 2.1/hd/textures.bsa", Destination: "textures.bsa"},
			{Source: "Sample Mod 2.1/hd/extra", Destination: "textures/extra", Folder: true},
			{Source: "Sample Mod 2.1/readme.txt", Destination: "docs/readme.txt"},
			{Source: "Sample Mod 2.1/Core", Destination: ".", Folder: true},
		},
	}, sess.Manifest())
}

func TestSession_Navigation(t *testing.T) {
	sess := load(t)

	assert.False(t, sess.IsLastStep())
	assert.False(t, sess.MoveBackward())
	assert.True(t, sess.CanContinue())
	assert.True(t, sess.MoveForward())
	assert.True(t, sess.IsLastStep())
	assert.Equal(t, 1, sess.Position())
	assert.False(t, sess.MoveForward())

	// SelectAll groups cannot be emptied, so Extras never disappears.
	assert.False(t, sess.Deselect("Core", "Essentials", "Core Files"))
	assert.Equal(t, []string{"Core", "Extras"}, stepNames(sess.VisibleSteps()))
}

func TestSession_SnapshotRestore(t *testing.T) {
	eng := fomod.New()
	sess := load(t)
	sess.SetArchive("sample.7z", "sample")
	require.True(t, sess.MoveForward())
	require.True(t, sess.Deselect("Extras", "Addons", "HD Textures"))
	require.True(t, sess.Select("Extras", "Addons", "Patch"))

	snap := sess.Snapshot()
	assert.Equal(t, sess.ID, snap.ID)
	assert.Equal(t, 1, snap.Cursor)

	restored, err := eng.Restore(snap)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, restored.ID)
	assert.Equal(t, sess.Position(), restored.Position())
	assert.Equal(t, sess.Flags(), restored.Flags())
	assert.Equal(t, sess.Manifest(), restored.Manifest())
	assert.Equal(t, "sample", restored.Root())

	t.Run("stale selections are dropped", func(t *testing.T) {
		snap := sess.Snapshot()
		snap.Selections["Extras"]["Addons"] = []int{1, 42}
		snap.Selections["Removed"] = map[string][]int{"G": {0}}

		restored, err := eng.Restore(snap)
		require.NoError(t, err)
		assert.True(t, restored.IsSelected("Extras", "Addons", "Patch"))
		assert.False(t, restored.IsSelected("Extras", "Addons", "HD Textures"))
	})

	t.Run("broken configuration", func(t *testing.T) {
		_, err := eng.Restore(&domain.Snapshot{ID: "x", ModuleConfig: []byte("nope")})
		assert.True(t, domain.IsConfigurationError(err))
	})
}

func TestEngine_LoadArchive(t *testing.T) {
	dir := testutils.SetupArchive(t, map[string]string{
		"Sample/fomod/ModuleConfig.xml": testutils.ModuleConfigXML,
		"Sample/fomod/info.xml":         testutils.InfoXML,
		"Sample/readme.txt":             "hello",
	})

	sess, err := fomod.New().LoadArchive(os.DirFS(dir), "sample.zip")
	require.NoError(t, err)
	assert.Equal(t, "Sample", sess.Root())
	assert.Equal(t, "Sample/readme.txt", sess.Manifest().Files[2].Source)

	_, err = fomod.New().LoadArchive(os.DirFS(t.TempDir()), "empty.zip")
	assert.ErrorIs(t, err, domain.ErrModuleNotFound)
}

func TestEngine_FileOracle(t *testing.T) {
	assert.False(t, load(t).RequirementsMet())

	sess := load(t, fomod.WithFileOracle(memory.NewActiveOracle("Skyrim.esm")))
	assert.True(t, sess.RequirementsMet())
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var loaded, changed int
	hooks := domain.LifecycleHooks{
		OnSessionLoaded:    func(*domain.SessionEvent) { loaded++ },
		OnSelectionChanged: func(*domain.SelectionEvent) { changed++ },
	}

	sess := load(t, fomod.WithLifecycleHooks(hooks))
	sess.Select("Extras", "Addons", "Patch")

	assert.Equal(t, 1, loaded)
	assert.Equal(t, 1, changed)
}

func TestSession_View(t *testing.T) {
	sess := load(t)

	v := sess.View()
	assert.Equal(t, sess.ID, v.SessionID)
	assert.Equal(t, "Sample Mod", v.Module)
	assert.Equal(t, "fomod/images/main.png", v.Image)
	assert.Equal(t, []string{"Core", "Extras"}, v.VisibleSteps)
	assert.True(t, v.CanContinue)
	assert.False(t, v.IsLast)
	require.NotNil(t, v.Step)
	assert.Equal(t, "Core", v.Step.Name)
	require.Len(t, v.Step.Groups, 1)
	assert.True(t, v.Step.Groups[0].Satisfied)
	assert.Equal(t, fomod.OptionView{
		Name:        "Core Files",
		Description: "The core files.\nAlways installed.",
		Image:       "fomod/images/core.png",
		Type:        domain.TypeRequired,
		Selected:    true,
	}, v.Step.Groups[0].Options[0])
}

// staticParser hands out a prebuilt document, bypassing the XML checks.
type staticParser struct {
	doc *domain.Document
}

func (p staticParser) ParseModule([]byte) (*domain.Document, error) { return p.doc, nil }

func (p staticParser) ParseInfo([]byte) (*domain.ModuleInfo, error) { return nil, nil }

func TestSession_ManifestDropsEscapingPaths(t *testing.T) {
	doc := &domain.Document{
		ModuleName: "Evil",
		Installs: []domain.Install{
			{Source: `..\..\..\home\user\.ssh\id_rsa`, Destination: "id_rsa"},
			{Source: "evil.dll", Destination: `..\..\..\..\Windows\System32\evil.dll`},
			{Source: "plugin.esp", Destination: `C:\plugin.esp`},
			{Source: `sub\..\ok.esp`},
		},
	}
	sess, err := fomod.New(fomod.WithParser(staticParser{doc: doc})).Load([]byte("<config/>"), nil)
	require.NoError(t, err)
	sess.SetArchive("evil.7z", "MyMod")

	assert.Equal(t, []domain.PlanEntry{
		{Source: "MyMod/ok.esp", Destination: "ok.esp"},
	}, sess.Manifest().Files)
}
