package main

import (
	"github.com/arthur-debert/gsmake/pkg/directive"
	"github.com/arthur-debert/gsmake/pkg/dirs"
	"github.com/arthur-debert/gsmake/pkg/linker"
	"github.com/arthur-debert/gsmake/pkg/logs"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/arthur-debert/gsmake/pkg/programs"
	"github.com/arthur-debert/gsmake/pkg/runner"
	"github.com/spf13/cobra"
)

func newLinkCmd(a *app) *cobra.Command {
	var (
		dir, into, mapLog, makelogPath string
		copyMode                       bool
	)
	cmd := &cobra.Command{
		Use:     "link <instruction-file>...",
		Short:   MsgLinkShort,
		GroupID: "steps",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workDir := paths.NormPath(dir)
			root := a.repoRoot(cmd.Context(), workDir)
			_, user, err := a.userTable(root)
			if err != nil {
				return err
			}

			p := paths.Paths{
				paths.KeyInputDir: paths.NormPathIn(workDir, into),
				paths.KeyRoot:     root,
			}
			if user != nil {
				p = p.Merge(user.External)
			}

			log, err := a.session(makelogPath, workDir)
			if err != nil {
				return err
			}
			l := linker.New(a.exec, workDir, linker.WithFS(a.fs), linker.WithPrinter(a.printer))
			var pairs directive.Map
			if copyMode {
				pairs, err = l.CopyInputs(cmd.Context(), log, p, args)
			} else {
				pairs, err = l.LinkInputs(cmd.Context(), log, p, args)
			}
			if err == nil && mapLog != "" {
				err = log.LogError(logs.New(a.fs, workDir).WriteMapLog(mapLog, pairs))
			}
			return finish(log, err)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", MsgFlagDir)
	cmd.Flags().StringVar(&into, "into", "input", MsgFlagInto)
	cmd.Flags().BoolVar(&copyMode, "copy", false, MsgFlagCopy)
	cmd.Flags().StringVar(&mapLog, "map-log", "", MsgFlagMapLog)
	cmd.Flags().StringVar(&makelogPath, "makelog", "", MsgFlagMakelog)
	return cmd
}

func newExecCmd(a *app) *cobra.Command {
	var (
		dir, makelogPath, outputDir, pdfDir string
		req                                 programs.Request
	)
	cmd := &cobra.Command{
		Use:     "exec <application> <program>",
		Short:   MsgExecShort,
		GroupID: "steps",
		Args:    cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveDefault
			}
			var names []string
			for _, app := range programs.Applications() {
				names = append(names, string(app))
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := programs.ParseApplication(args[0])
			if err != nil {
				return err
			}
			req.App = app
			req.Program = args[1]

			workDir := paths.NormPath(dir)
			table, _, err := a.userTable(a.repoRoot(cmd.Context(), workDir))
			if err != nil {
				return err
			}

			p := paths.Paths{}
			if outputDir != "" {
				p[paths.KeyOutputDir] = paths.NormPathIn(workDir, outputDir)
			}
			if pdfDir != "" {
				p[paths.KeyPDFDir] = paths.NormPathIn(workDir, pdfDir)
			}

			log, err := a.session(makelogPath, workDir)
			if err != nil {
				return err
			}
			resolver := programs.NewResolver(a.fs, table, paths.CurrentOS(), workDir)
			r := runner.New(a.exec, resolver, runner.WithFS(a.fs), runner.WithPrinter(a.printer))
			return finish(log, r.Run(cmd.Context(), log, p, req))
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", MsgFlagDir)
	cmd.Flags().StringVar(&makelogPath, "makelog", "", MsgFlagMakelog)
	cmd.Flags().StringVar(&req.Log, "log", "", MsgFlagLog)
	cmd.Flags().StringVar(&req.LST, "lst", "", MsgFlagLST)
	cmd.Flags().StringVar(&req.Args, "args", "", MsgFlagArgs)
	cmd.Flags().StringVar(&req.Executable, "executable", "", MsgFlagExecutable)
	cmd.Flags().StringVar(&req.Option, "option", "", MsgFlagOption)
	cmd.Flags().StringVar(&req.Doctype, "doctype", "", MsgFlagDoctype)
	cmd.Flags().IntVar(&req.Timeout, "timeout", 0, MsgFlagTimeout)
	cmd.Flags().StringVar(&req.Kernel, "kernel", "", MsgFlagKernel)
	cmd.Flags().StringVar(&outputDir, "output-dir", "", MsgFlagOutputDir)
	cmd.Flags().StringVar(&pdfDir, "pdf-dir", "", MsgFlagPDFDir)
	return cmd
}

func newCommandCmd(a *app) *cobra.Command {
	var dir, logPath, makelogPath string
	cmd := &cobra.Command{
		Use:     "command <command-line>",
		Short:   MsgCommandShort,
		GroupID: "steps",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workDir := paths.NormPath(dir)
			log, err := a.session(makelogPath, workDir)
			if err != nil {
				return err
			}
			resolver := programs.NewResolver(a.fs, a.table, paths.CurrentOS(), workDir)
			r := runner.New(a.exec, resolver, runner.WithFS(a.fs), runner.WithPrinter(a.printer))
			return finish(log, r.ExecuteCommand(cmd.Context(), log, workDir, args[0], logPath))
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", MsgFlagDir)
	cmd.Flags().StringVar(&logPath, "log", "", MsgFlagLog)
	cmd.Flags().StringVar(&makelogPath, "makelog", "", MsgFlagMakelog)
	return cmd
}

func newClearCmd(a *app) *cobra.Command {
	var (
		dir    string
		remove bool
	)
	cmd := &cobra.Command{
		Use:     "clear <dir>...",
		Short:   MsgClearShort,
		GroupID: "steps",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := dirs.New(a.fs, paths.NormPath(dir), dirs.WithPrinter(a.printer))
			if remove {
				return m.RemoveDir(args)
			}
			return m.ClearDir(args)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", MsgFlagDir)
	cmd.Flags().BoolVar(&remove, "remove", false, MsgFlagRemove)
	return cmd
}

func newZipCmd(a *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:     "zip <source-dir> <archive>",
		Short:   MsgZipShort,
		GroupID: "steps",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := dirs.New(a.fs, paths.NormPath(dir), dirs.WithPrinter(a.printer))
			if err := m.ZipDir(args[0], args[1]); err != nil {
				return err
			}
			a.printer.Success(MsgZipDone, args[0], args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", MsgFlagDir)
	return cmd
}

func newUnzipCmd(a *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:     "unzip <archive> <output-dir>",
		Short:   MsgUnzipShort,
		GroupID: "steps",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := dirs.New(a.fs, paths.NormPath(dir), dirs.WithPrinter(a.printer))
			if err := m.Unzip(args[0], args[1]); err != nil {
				return err
			}
			a.printer.Success(MsgUnzipDone, args[0], args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", MsgFlagDir)
	return cmd
}
