package main

import (
	"embed"
	"io/fs"

	"github.com/arthur-debert/gsmake/internal/version"
	"github.com/arthur-debert/gsmake/pkg/cobrax/topics"
	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics
var topicFiles embed.FS

// newRootCmd creates the root command and its subcommands
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "gsmake",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]interface{}{}
			if cmd.Flags().Changed("format") {
				overrides["format"] = a.format
			}
			if err := a.setup(overrides); err != nil {
				return err
			}
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}
	rootCmd.SetOut(a.out)
	if a.help == nil {
		a.help = &topics.Markdown{}
	}

	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&a.format, "format", "auto", MsgFlagFormat)
	rootCmd.PersistentFlags().StringVar(&a.root, "root", "", MsgFlagRoot)

	rootCmd.AddGroup(&cobra.Group{ID: "build", Title: "BUILD:"})
	rootCmd.AddGroup(&cobra.Group{ID: "steps", Title: "SINGLE STEPS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(newRunCmd(a))
	rootCmd.AddCommand(newRunAllCmd(a))
	rootCmd.AddCommand(newLinkCmd(a))
	rootCmd.AddCommand(newExecCmd(a))
	rootCmd.AddCommand(newCommandCmd(a))
	rootCmd.AddCommand(newClearCmd(a))
	rootCmd.AddCommand(newZipCmd(a))
	rootCmd.AddCommand(newUnzipCmd(a))
	rootCmd.AddCommand(newCheckSetupCmd(a))
	rootCmd.AddCommand(newInitConfigCmd(a))
	rootCmd.AddCommand(newAppsCmd(a))
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())
	rootCmd.AddCommand(newVersionCmd())

	sub, err := fs.Sub(topicFiles, "topics")
	if err == nil {
		tm, err := topics.InitializeWithOptions(rootCmd, sub, topics.Options{
			Extensions: []string{".md", ".txt"},
			Renderer:   a.help,
		})
		if err == nil {
			rootCmd.AddCommand(newTopicsCmd(tm))
		}
	}

	return rootCmd
}
