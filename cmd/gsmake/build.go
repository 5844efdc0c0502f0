package main

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/gsmake/pkg/config"
	"github.com/arthur-debert/gsmake/pkg/module"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/arthur-debert/gsmake/pkg/programs"
	"github.com/arthur-debert/gsmake/pkg/runner"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var manifest string
	cmd := &cobra.Command{
		Use:     "run [module-dir]",
		Short:   MsgRunShort,
		GroupID: "build",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := absDir(args)
			if err != nil {
				return err
			}
			if manifest == "" {
				manifest = a.settings.Manifest
			}
			m, err := config.LoadManifest(filepath.Join(dir, manifest))
			if err != nil {
				return err
			}

			b := module.New(a.exec, a.table, a.settings,
				module.WithFS(a.fs),
				module.WithRoot(a.repoRoot(cmd.Context(), dir)),
				module.WithPrinter(a.printer))
			return b.Run(cmd.Context(), m)
		},
	}
	cmd.Flags().StringVar(&manifest, "manifest", "", MsgFlagManifest)
	return cmd
}

func newRunAllCmd(a *app) *cobra.Command {
	var modules []string
	cmd := &cobra.Command{
		Use:     "run-all [repository-dir]",
		Short:   MsgRunAllShort,
		GroupID: "build",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := absDir(args)
			if err != nil {
				return err
			}
			root := a.repoRoot(cmd.Context(), dir)

			if len(modules) == 0 {
				modules, err = module.Discover(a.fs, root, a.settings.Manifest, a.settings.SkipDirs)
				if err != nil {
					return err
				}
			}
			if len(modules) == 0 {
				a.printer.Warning(MsgNoModules, root)
				return nil
			}

			table, _, err := a.userTable(root)
			if err != nil {
				return err
			}
			self, err := selfArgv(a)
			if err != nil {
				return err
			}

			resolver := programs.NewResolver(a.fs, table, paths.CurrentOS(), root)
			r := runner.New(a.exec, resolver, runner.WithFS(a.fs), runner.WithPrinter(a.printer))
			for _, name := range modules {
				if err := r.RunModule(cmd.Context(), runner.Module{Root: root, Name: name}, self); err != nil {
					return err
				}
			}
			a.printer.Success(MsgModulesDone, len(modules))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&modules, "module", nil, MsgFlagModules)
	return cmd
}

// selfArgv is the command building a module's manifest: this binary
// running `run`, forwarding the console format
func selfArgv(a *app) ([]string, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	return []string{exe, "run", "--format", a.settings.Format}, nil
}
