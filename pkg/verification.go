package pkg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/distbundle/pkg/binfmt"
	"github.com/provide-io/distbundle/pkg/fsutil"
	"github.com/provide-io/distbundle/pkg/logging"
	"github.com/provide-io/distbundle/pkg/platform"
)

// VerifyOptions describe the bundle layout expected in Folder.
type VerifyOptions struct {
	// Folder is {outputBase}/{platform}.
	Folder string
	Target platform.Target
	// Launchers are file names relative to Folder.
	Launchers     []string
	ExpectRuntime bool
}

// VerifyBundleWithLogger checks a created bundle and returns every problem
// found joined into one error wrapping ErrVerificationFailed.
func VerifyBundleWithLogger(opts VerifyOptions, logger hclog.Logger) error {
	logger.Info("Verifying bundle layout", "folder", opts.Folder, "target", opts.Target.String())

	var problems []error

	if fsutil.IsDir(filepath.Join(opts.Folder, "app")) {
		logger.Info("✓ App folder present")
	} else {
		problems = append(problems, fmt.Errorf("%w: %s", ErrAppFolderMissing, filepath.Join(opts.Folder, "app")))
		logger.Error("App folder missing")
	}

	for _, name := range opts.Launchers {
		if err := verifyLauncher(filepath.Join(opts.Folder, name), opts.Target.OS); err != nil {
			problems = append(problems, err)
			logger.Error("Launcher verification failed", "launcher", name, "error", err)
			continue
		}
		logger.Info("✓ Launcher valid", "launcher", name)
	}

	if opts.ExpectRuntime {
		java := filepath.Join(opts.Folder, "runtime", "bin", "java")
		if opts.Target.OS == platform.Windows {
			java += ".exe"
		}
		if res := binfmt.ProbeFor(opts.Target.OS, java); res.Class != binfmt.Bit64 {
			problems = append(problems, fmt.Errorf("%w: %s is %s", ErrRuntimeInvalid, java, res.Class))
			logger.Error("Runtime verification failed", "path", java, "class", res.Class.String())
		} else {
			logger.Info("✓ Runtime valid")
		}
	}

	if len(problems) == 0 {
		logger.Info("✓ Bundle verification passed")
		return nil
	}
	logger.Error("✗ Bundle verification failed", "error_count", len(problems))
	return fmt.Errorf("%w: %w", ErrVerificationFailed, errors.Join(problems...))
}

func verifyLauncher(path string, target platform.OS) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrLauncherMissing, path)
	}
	if res := binfmt.ProbeFor(target, path); res.Class != binfmt.Bit64 {
		return fmt.Errorf("%w: %s is %s", ErrLauncherNot64Bit, path, res.Class)
	}
	if target != platform.Windows && !fsutil.IsExecutable(info.Mode()) {
		return fmt.Errorf("%w: %s has mode %s", ErrLauncherNotExec, path, fsutil.FormatOctal(info.Mode().Perm()))
	}
	return nil
}

// VerifyBundle verifies a bundle using default logger settings
func VerifyBundle(opts VerifyOptions) error {
	logger := logging.NewLogger("distbundle-verify", logging.GetLogLevel(), nil)
	return VerifyBundleWithLogger(opts, logger)
}
