package release

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"git.home.luguber.info/inful/prepdist/internal/command"
)

// toolSim imitates make, tar and the autotools scripts closely enough for
// the stage table to observe the files each stage is expected to produce.
type toolSim struct {
	mu    sync.Mutex
	calls []command.Spec
	// failOn returns a non-nil error to make a matching invocation fail.
	failOn func(command.Spec) error
	// skipManual makes the latex make succeed without producing refman.pdf.
	skipManual bool
	// distArchive is the file name make distcheck writes.
	distArchive string
}

var errToolFailed = errors.New("exit status 2")

func (s *toolSim) Run(_ context.Context, spec command.Spec) error {
	s.mu.Lock()
	s.calls = append(s.calls, spec)
	s.mu.Unlock()

	if s.failOn != nil {
		if err := s.failOn(spec); err != nil {
			return err
		}
	}

	switch {
	case spec.Name == "make" && len(spec.Args) == 1 && spec.Args[0] == "distcheck":
		return touch(filepath.Join(spec.Dir, s.distArchive))

	case spec.Name == "tar" && len(spec.Args) == 2 && spec.Args[0] == "-zxvf":
		dist := strings.TrimSuffix(filepath.Base(spec.Args[1]), ".tar.gz")
		for _, d := range []string{"doc/html", "doc/latex"} {
			if err := os.MkdirAll(filepath.Join(spec.Dir, dist, d), 0o750); err != nil {
				return err
			}
		}
		return touch(filepath.Join(spec.Dir, dist, "configure"))

	case spec.Name == "tar" && len(spec.Args) == 3 && spec.Args[0] == "-zcvf":
		return touch(spec.Args[1])

	case spec.Name == "make" && len(spec.Args) == 0 && filepath.Base(spec.Dir) == "latex":
		if s.skipManual {
			return nil
		}
		return touch(filepath.Join(spec.Dir, "refman.pdf"))
	}
	return nil
}

func (s *toolSim) invoked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, c.String())
	}
	return out
}

func touch(path string) error {
	return os.WriteFile(path, []byte(filepath.Base(path)), 0o600)
}
