package workspace

import (
	"context"
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/prepdist/internal/command"
	"git.home.luguber.info/inful/prepdist/internal/stages"
)

// Locations inside the extracted distribution.
const (
	docDir       = "doc"
	htmlDir      = "html"
	latexDir     = "latex"
	manualSource = "refman.pdf"
)

func managerFor(st *stages.State) *Manager {
	return NewManager(st.StagingRoot, st.Artifacts.DistDir)
}

// RunExtract unpacks the distribution archive into the staging root.
func RunExtract(ctx context.Context, st *stages.State) error {
	m := managerFor(st)
	if err := m.EnsureStagingRoot(); err != nil {
		return err
	}
	m.WarnIfStale()

	archive := filepath.Join(st.SourceRoot, st.Artifacts.DistArchive)
	if err := st.Runner.Run(ctx, command.Spec{Name: st.Tools.Tar, Args: []string{"-zxvf", archive}, Dir: m.StagingRoot()}); err != nil {
		return err
	}
	if !m.Exists() {
		return fmt.Errorf("archive %s did not unpack to %s", st.Artifacts.DistArchive, st.Artifacts.DistDir)
	}
	st.ExtractedRoot = m.GetPath()
	return nil
}

// RunReconfigure configures the extracted tree, proving the archive builds standalone.
func RunReconfigure(ctx context.Context, st *stages.State) error {
	return st.Runner.Run(ctx, command.Spec{Name: "./configure", Dir: managerFor(st).GetPath()})
}

// RunAPIDoc regenerates the API documentation inside the extracted tree.
func RunAPIDoc(ctx context.Context, st *stages.State) error {
	return st.Runner.Run(ctx, command.Spec{Name: st.Tools.Make, Args: []string{"apidoc"}, Dir: managerFor(st).GetPath()})
}

// RunPackageDocs archives doc/html into the source root.
func RunPackageDocs(ctx context.Context, st *stages.State) error {
	out := filepath.Join(st.SourceRoot, st.Artifacts.DocArchive)
	return st.Runner.Run(ctx, command.Spec{Name: st.Tools.Tar, Args: []string{"-zcvf", out, htmlDir}, Dir: managerFor(st).Subdir(docDir)})
}

// RunBuildManual typesets the reference manual from doc/latex.
func RunBuildManual(ctx context.Context, st *stages.State) error {
	return st.Runner.Run(ctx, command.Spec{Name: st.Tools.Make, Dir: managerFor(st).Subdir(docDir, latexDir)})
}

// RunRelocateManual moves the typeset manual into the source root.
func RunRelocateManual(_ context.Context, st *stages.State) error {
	src := managerFor(st).Subdir(docDir, latexDir, manualSource)
	return MoveFile(src, filepath.Join(st.SourceRoot, st.Artifacts.Manual))
}

// RunCleanup removes the extracted tree.
func RunCleanup(_ context.Context, st *stages.State) error {
	if err := managerFor(st).Cleanup(); err != nil {
		return err
	}
	st.ExtractedRoot = ""
	return nil
}
