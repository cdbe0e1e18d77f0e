package toolchain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	derrors "github.com/provide-io/distbundle/pkg/errors"
	"github.com/provide-io/distbundle/pkg/fsutil"
)

// Argument placeholders replaced with the real file name.
const (
	KeystorePlaceholder = "{KEYSTORE}"
	JarPlaceholder      = "{JAR}"
)

// KeystoreOptions describes a keytool invocation creating a keystore.
type KeystoreOptions struct {
	JDKPath   string
	Keystore  string
	Overwrite bool
	Args      []string
	Verbose   bool
	// Dir is the working directory of the keytool process.
	Dir string
}

// CreateKeystore runs keytool to create opts.Keystore. An existing keystore
// is only replaced when opts.Overwrite is set.
func CreateKeystore(ctx context.Context, runner Runner, opts KeystoreOptions, logger hclog.Logger) error {
	if opts.Keystore == "" {
		return derrors.Configuration("create keystore", fmt.Errorf("no keystore location configured"))
	}
	if _, err := os.Stat(opts.Keystore); err == nil {
		if !opts.Overwrite {
			return derrors.Configurationf(derrors.ErrKeystoreExists, "%s, overwriting is not enabled", opts.Keystore)
		}
		logger.Info("♻️ Overwriting keystore", "path", opts.Keystore)
	}
	if len(opts.Args) == 0 {
		return derrors.Configuration("create keystore", fmt.Errorf("missing keytool parameters"))
	}

	keytool, err := Locate(opts.JDKPath, ToolKeytool)
	if err != nil {
		return err
	}

	keystore, err := filepath.Abs(opts.Keystore)
	if err != nil {
		keystore = opts.Keystore
	}
	if err := os.MkdirAll(filepath.Dir(keystore), fsutil.DirPerms); err != nil {
		return derrors.Execution("create keystore", err)
	}

	var args []string
	if opts.Verbose && !containsFold(opts.Args, "-v") {
		args = append(args, "-v")
	}
	args = append(args, Substitute(opts.Args, KeystorePlaceholder, keystore)...)

	cmd := Command{Path: keytool, Args: args, Dir: opts.Dir}
	logger.Debug("🔑 Creating keystore", "command", cmd.String())
	if err := runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("creating keystore %s was not successful: %w", keystore, err)
	}
	logger.Info("🔑 Keystore created", "path", keystore)
	return nil
}

// SignOptions describes a jarsigner run over an application folder.
type SignOptions struct {
	JDKPath string
	// Files are signed first, in order.
	Files []string
	// LibFolder is searched with LibFilter for further jars to sign.
	LibFolder string
	LibFilter string
	Args      []string
	Verbose   bool
	Dir       string
}

// SignJars runs jarsigner once per file. The first failure stops signing.
func SignJars(ctx context.Context, runner Runner, opts SignOptions, logger hclog.Logger) ([]string, error) {
	if len(opts.Args) == 0 {
		return nil, derrors.Configuration("sign jars", fmt.Errorf("missing jarsigner parameters"))
	}

	jarsigner, err := Locate(opts.JDKPath, ToolJarsigner)
	if err != nil {
		return nil, err
	}

	files, err := filesToSign(opts)
	if err != nil {
		return nil, err
	}

	var signed []string
	for _, file := range files {
		var args []string
		if opts.Verbose && !containsFold(opts.Args, "-verbose") {
			args = append(args, "-verbose")
		}
		args = append(args, Substitute(opts.Args, JarPlaceholder, file)...)

		logger.Debug("✍️ Signing jar", "file", file)
		if err := runner.Run(ctx, Command{Path: jarsigner, Args: args, Dir: opts.Dir}); err != nil {
			return signed, fmt.Errorf("signing %s was not successful: %w", file, err)
		}
		signed = append(signed, file)
	}
	logger.Info("✍️ Signed jar files", "count", len(signed))
	return signed, nil
}

func filesToSign(opts SignOptions) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, f := range opts.Files {
		add(f)
	}

	if opts.LibFolder != "" && fsutil.IsDir(opts.LibFolder) {
		filter := opts.LibFilter
		if filter == "" {
			filter = "*.jar"
		}
		matches, err := fsutil.Glob(opts.LibFolder, filter)
		if err != nil {
			return nil, derrors.Configuration("sign jars", err)
		}
		for _, m := range matches {
			add(m)
		}
	}
	return files, nil
}
