package stages

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/prepdist/internal/command"
)

// RunMaintainerClean purges generated files from the source root. Its
// status is not checked by the table: an already pristine tree commonly
// reports nothing to remove.
func RunMaintainerClean(ctx context.Context, st *State) error {
	return st.Runner.Run(ctx, command.Spec{Name: st.Tools.Make, Args: []string{"maintainer-clean"}, Dir: st.SourceRoot})
}

// RunBootstrap regenerates the autotools scaffolding.
func RunBootstrap(ctx context.Context, st *State) error {
	return st.Runner.Run(ctx, command.Spec{Name: "./bootstrap", Dir: st.SourceRoot})
}

// RunConfigure configures the source tree for the current environment.
func RunConfigure(ctx context.Context, st *State) error {
	return st.Runner.Run(ctx, command.Spec{Name: "./configure", Dir: st.SourceRoot})
}

// RunDistcheck builds, self-tests and packages the distribution archive.
func RunDistcheck(ctx context.Context, st *State) error {
	if err := st.Runner.Run(ctx, command.Spec{Name: st.Tools.Make, Args: []string{"distcheck"}, Dir: st.SourceRoot}); err != nil {
		return err
	}
	archive := filepath.Join(st.SourceRoot, st.Artifacts.DistArchive)
	if _, err := os.Stat(archive); err != nil {
		return fmt.Errorf("distcheck did not produce %s: %w", st.Artifacts.DistArchive, err)
	}
	return nil
}
