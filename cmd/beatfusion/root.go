package main

import (
	"github.com/carbocation/ecgfusion/buildinfo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// log is replaced once flags are parsed.
var log = zap.NewNop().Sugar()

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "beatfusion",
		Short: "Vote, fuse and score heartbeat classifiers",
		Long: `beatfusion turns one-vs-one classifier decision values into heartbeat
class predictions, combines several classifiers with basic rules or
Dempster-Shafer evidence fusion, and scores predictions with the AAMI
N/S/V/F measures (Sens, Prec, Acc, Cohen's kappa, Ij and Ijk).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	debug := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(*debug)
		if err != nil {
			return err
		}
		log = l
		log.Infow("Starting", buildinfo.Get().Fields()...)
		return nil
	}

	cmd.AddCommand(newVoteCommand())
	cmd.AddCommand(newScoreCommand())
	cmd.AddCommand(newFuseCommand())
	cmd.AddCommand(newDSCommand())
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newSummarizeCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func newLogger(debug bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return l.Sugar(), nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write([]byte(buildinfo.Get().String() + "\n"))
			return err
		},
	}
}
