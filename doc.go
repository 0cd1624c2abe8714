/*
Package fomod is a deterministic engine for conditional, wizard-style mod installers.

A module archive ships a declarative configuration (fomod/ModuleConfig.xml, plus an
optional fomod/info.xml). The engine parses it, walks the user through its install steps,
and turns their choices into an ordered, deduplicated list of files to install.

# Concept

The configuration is a sequence of steps. Each step holds groups of options, and each
group constrains how many of its options may be selected. Selecting an option sets flags;
later steps are shown or hidden depending on those flags and on the state of files already
installed. Once the user is done, the install plan collects the unconditional files, the
files of every option selected on a visible step, and the conditional installs whose
dependencies hold, ordered by priority.

Everything the engine derives (flags, visible steps, the plan) is recomputed from the
document and the selections, so the same choices always yield the same plan.

# Usage

	eng := fomod.New(fomod.WithFileOracle(oracle))

	sess, err := eng.LoadArchive(os.DirFS("./extracted"), "My Mod.7z")
	if err != nil {
		log.Fatal(err) // *domain.ConfigurationError for a malformed module
	}

	sess.Select("Options", "Textures", "High Resolution")
	for sess.MoveForward() {
	}

	manifest := sess.Manifest()
	for _, f := range manifest.Files {
		fmt.Println(f.Source, "->", f.Destination)
	}

Sessions can be persisted with Snapshot and resumed with Engine.Restore, which is what the
HTTP and MCP adapters do behind pkg/session.
*/
package fomod
