package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/gsmake/internal/version"
	"github.com/arthur-debert/gsmake/pkg/cobrax/topics"
	"github.com/arthur-debert/gsmake/pkg/config"
	"github.com/arthur-debert/gsmake/pkg/filesystem"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/arthur-debert/gsmake/pkg/setup"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func newCheckSetupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "check-setup [repository-dir]",
		Short:   MsgCheckSetupShort,
		GroupID: "misc",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := absDir(args)
			if err != nil {
				return err
			}
			root := a.repoRoot(cmd.Context(), dir)
			c := setup.New(a.exec, a.table, setup.WithFS(a.fs), setup.WithPrinter(a.printer))
			return c.Configuration(
				filepath.Join(root, a.settings.ProjectConfig),
				filepath.Join(root, a.settings.UserConfig))
		},
	}
}

func newInitConfigCmd(a *app) *cobra.Command {
	var (
		force  bool
		osName string
	)
	cmd := &cobra.Command{
		Use:     "init-config [path]",
		Short:   MsgInitConfigShort,
		GroupID: "misc",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := paths.ParseOS(osName)
			if err != nil {
				return err
			}
			var path string
			if len(args) > 0 {
				path = paths.NormPath(args[0])
			} else {
				cwd, err := os.Getwd()
				if err != nil {
					return err
				}
				path = filepath.Join(a.repoRoot(cmd.Context(), cwd), a.settings.UserConfig)
			}

			if filesystem.Exists(a.fs, path) && !force {
				a.printer.Warning(MsgUserConfigExists, path)
				return nil
			}
			if err := config.WriteUserTemplate(a.fs, path, a.table, target); err != nil {
				return err
			}
			a.printer.Success(MsgUserConfigDone, path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	cmd.Flags().StringVar(&osName, "os", string(paths.CurrentOS()), MsgFlagOS)
	return cmd
}

func newAppsCmd(a *app) *cobra.Command {
	var osName string
	cmd := &cobra.Command{
		Use:     "apps",
		Short:   MsgAppsShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := paths.ParseOS(osName)
			if err != nil {
				return err
			}
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			table, _, err := a.userTable(a.repoRoot(cmd.Context(), cwd))
			if err != nil {
				return err
			}
			out, err := table.Render(target)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&osName, "os", string(paths.CurrentOS()), MsgFlagOS)
	return cmd
}

func newTopicsCmd(tm *topics.TopicManager) *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			tm.WriteList(cmd.OutOrStdout(), cmd.Root().Name())
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: MsgCompletionShort,
		Long: `To load completions:

Bash:
  $ source <(gsmake completion bash)

Zsh:
  $ gsmake completion zsh > "${fpath[1]}/_gsmake"

Fish:
  $ gsmake completion fish | source

PowerShell:
  PS> gsmake completion powershell | Out-String | Invoke-Expression
`,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "man [output-dir]",
		Short:   MsgManShort,
		GroupID: "misc",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
			header := &doc.GenManHeader{
				Title:   "GSMAKE",
				Section: "1",
				Source:  "gsmake " + version.Version,
				Manual:  "gsmake manual",
			}
			if err := doc.GenManTree(cmd.Root(), header, dir); err != nil {
				return err
			}
			log.Info().Str("dir", dir).Msg("Man pages generated")
			_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgManDone+"\n", dir)
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
