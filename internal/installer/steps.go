package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/algorithmiaio/mia-install/internal/shell"
)

// install acquires the release and places it. Download and binary placement
// failures are fatal; cleanup and completion-dir creation are best effort.
func (o *Orchestrator) install(ctx context.Context, r *run) error {
	opts := r.report.Options
	layout := r.report.Layout
	triple := r.report.Triple

	staging, err := os.MkdirTemp(o.tempDir, "mia-install-")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(staging); err != nil {
			r.log.Debug("staging cleanup failed", zap.String("dir", staging), zap.Error(err))
		}
	}()

	o.printf("Downloading mia %s for %s", opts.Version, triple)
	staged, err := o.newAcquirer(opts, r.log).Acquire(ctx, triple, staging)
	if err != nil {
		return fmt.Errorf("acquire mia %s for %s: %w", opts.Version, triple, err)
	}
	r.report.Artifact = staged.Artifact

	if old := o.findOldBinary(layout); old != "" {
		if o.tryOrIgnore(r, "remove old binary "+old, func() error {
			return r.mutate(ctx, "rm", "-f", old)
		}) {
			r.report.Removed = append(r.report.Removed, old)
		}
	}

	if err := r.mutate(ctx, "mkdir", "-p", layout.BinDir()); err != nil {
		return fmt.Errorf("create %s: %w", layout.BinDir(), err)
	}
	if err := r.mutate(ctx, "install", "-m", "0755", staged.Binary, layout.BinaryPath()); err != nil {
		return fmt.Errorf("install %s: %w", layout.BinaryPath(), err)
	}
	r.report.Installed = append(r.report.Installed, layout.BinaryPath())

	for _, dir := range []string{layout.ZshCompletionDir, layout.BashCompletionDir} {
		o.tryOrIgnore(r, "create completion dir "+dir, func() error {
			return r.mutate(ctx, "mkdir", "-p", dir)
		})
	}

	completions := []struct{ src, dst string }{
		{staged.ZshCompletion, layout.ZshCompletionPath()},
		{staged.BashCompletion, layout.BashCompletionPath()},
	}
	for _, c := range completions {
		if err := r.mutate(ctx, "install", "-m", "0644", c.src, c.dst); err != nil {
			return fmt.Errorf("install %s: %w", c.dst, err)
		}
		r.report.Installed = append(r.report.Installed, c.dst)
	}

	if o.home == "" {
		r.log.Debug("home directory unknown, no legacy config to migrate")
	} else {
		migrated, err := o.migrate(o.home)
		if err != nil {
			return err
		}
		r.report.Migrated = migrated
		if migrated {
			o.printf("Moved legacy config to %s", filepath.Join(o.home, ".algorithmia", "config"))
		}
	}

	detected := o.shell
	if detected == nil {
		detected = &shell.DetectionResult{Shell: shell.ShellUnknown, ShellPath: shell.FallbackShell, Method: shell.MethodFallback}
	}
	r.report.Shell = detected
	r.report.Guidance = shell.Guidance(shell.GuidanceInput{
		Shell:          detected.Shell,
		BinDir:         layout.BinDir(),
		ZshCompletion:  layout.ZshCompletionPath(),
		BashCompletion: layout.BashCompletionPath(),
		PathEnv:        o.getenv("PATH"),
		HomeDir:        o.home,
	})

	return nil
}

// uninstall removes every installed path that exists, each independently.
func (o *Orchestrator) uninstall(ctx context.Context, r *run) error {
	targets := r.report.Layout.Targets()
	if old := o.findOldBinary(r.report.Layout); old != "" {
		targets = append(targets, old)
	}

	for _, path := range targets {
		if _, err := os.Lstat(path); err != nil {
			r.log.Debug("nothing to remove", zap.String("path", path))
			continue
		}
		if o.tryOrIgnore(r, "remove "+path, func() error {
			return r.mutate(ctx, "rm", "-f", path)
		}) {
			r.report.Removed = append(r.report.Removed, path)
		}
	}
	return nil
}

// findOldBinary returns a same-named binary on PATH other than the install
// target, or "".
func (o *Orchestrator) findOldBinary(layout Layout) string {
	path, err := o.lookPath(layout.BinName)
	if err != nil {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	if abs == filepath.Clean(layout.BinaryPath()) {
		return ""
	}
	return abs
}

func (o *Orchestrator) reportResult(r *run) {
	report := r.report

	if report.Mode == ModeUninstall {
		for _, path := range report.Removed {
			r.log.Debug("removed", zap.String("path", path))
		}
		o.printf("mia uninstalled")
		return
	}

	for _, line := range report.Guidance {
		o.printf("%s", line)
	}
	o.printf("mia %s installed to %s", report.Options.Version, report.Layout.BinaryPath())
	o.printf("Run 'mia --help' to get started")
}
