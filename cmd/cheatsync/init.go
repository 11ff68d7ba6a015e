package main

import (
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-cheatsync/internal/config"
	"github.com/alnah/go-cheatsync/internal/fileutil"
	"github.com/alnah/go-cheatsync/internal/yamlutil"
)

// initFlags holds flags of the init command.
type initFlags struct {
	force bool
}

// runInitCmd writes the default configuration to a file so it can be
// edited. Without argument the file is the one loaded by default.
func runInitCmd(args []string, env *Environment) error {
	f := &initFlags{}
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.BoolVarP(&f.force, "force", "f", false, "overwrite an existing file")
	rest, err := parseFlagSet(fs, args, env.Stderr, printInitUsage)
	if err != nil {
		return err
	}
	if len(rest) > 1 {
		return fmt.Errorf("%w: expected at most one config name or path", ErrUsage)
	}

	target := defaultConfigName
	if len(rest) == 1 {
		target = rest[0]
	}
	path, err := initPath(target)
	if err != nil {
		return err
	}

	if fileutil.FileExists(path) && !f.force {
		return fmt.Errorf("%w: %s already exists (use --force to overwrite)", ErrUsage, path)
	}

	data, err := yamlutil.Marshal(config.DefaultConfig())
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, string(data)); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(env.Stdout, "Created %s\n", path)
	return nil
}

// initPath maps a config name to <user config dir>/cheatsync/<name>.yaml;
// paths are used as given.
func initPath(nameOrPath string) (string, error) {
	if fileutil.IsFilePath(nameOrPath) {
		return fileutil.ExpandHome(nameOrPath), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	return filepath.Join(dir, config.AppDirName, nameOrPath+".yaml"), nil
}
