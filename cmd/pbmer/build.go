package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-pbmer/alarm"
	"github.com/forestrie/go-pbmer/dbg"
	"github.com/forestrie/go-pbmer/parallel"
	"github.com/forestrie/go-pbmer/reads"
	"github.com/spf13/cobra"
)

func buildCommand() *cobra.Command {
	var f buildFlags
	cmd := &cobra.Command{
		Use:   "build [flags] FILE...",
		Short: "Build a de Bruijn graph from FASTA/FASTQ files",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.New(f.logLevel)
			defer logger.OnExit()
			log := logger.Sugar.WithServiceName("pbmer")

			err := runBuild(cmd, &f, args, log)
			if f.alarmsFile != "" {
				if werr := alarm.WriteFile(f.alarmsFile, alarmsFor(err)); werr != nil {
					log.Errorf("writing alarms: %v", werr)
				}
			}
			return err
		},
	}
	f.register(cmd)
	return cmd
}

func runBuild(cmd *cobra.Command, f *buildFlags, files []string, log logger.Logger) error {
	cfg, err := resolveConfig(cmd, f)
	if err != nil {
		return alarm.Raise("InvalidConfiguration", err.Error(),
			alarm.WithInfo("check --config and the command line flags"), alarm.WithException(err))
	}

	src, err := reads.OpenFastx(files, cfg.Reads.Options()...)
	if errors.Is(err, reads.ErrNoInput) {
		return alarm.Raise("NoInput", "no read files given",
			alarm.WithInfo("pass one or more FASTA/FASTQ files"), alarm.WithException(err))
	}
	if err != nil {
		return alarm.Raise("UnreadableInput", err.Error(), alarm.WithException(err))
	}
	defer src.Close()

	b, err := dbg.NewBuilder(cfg.Graph, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	g, rep, err := b.Build(ctx, src)
	if err != nil {
		return err
	}
	printStats(cmd.OutOrStdout(), cfg.Graph, rep, g.Stats())
	return nil
}

func printStats(w io.Writer, cfg dbg.Config, rep dbg.Report, st dbg.Stats) {
	fmt.Fprintf(w, "build\t%s\n", rep.BuildID)
	fmt.Fprintf(w, "k\t%d\n", cfg.KmerSize)
	fmt.Fprintf(w, "reads\t%d\n", rep.Reads)
	fmt.Fprintf(w, "skipped\t%d\n", rep.Skipped)
	fmt.Fprintf(w, "kmers\t%d\n", rep.Kmers)
	fmt.Fprintf(w, "nodes\t%d\n", st.Nodes)
	fmt.Fprintf(w, "edges\t%d\n", st.Edges)
	fmt.Fprintf(w, "tips\t%d\n", st.Tips)
	fmt.Fprintf(w, "branches\t%d\n", st.Branches)
}

// alarmsFor converts a failed build into the alarms reported to the user.
func alarmsFor(err error) []alarm.Alarm {
	if err == nil {
		return nil
	}
	if ae, ok := alarm.As(err); ok {
		return []alarm.Alarm{ae.Alarm}
	}
	name := "BuildFailed"
	var te *parallel.TaskError
	if errors.As(err, &te) {
		name = "WorkerFailed"
	}
	return []alarm.Alarm{alarm.New(name, err.Error(), alarm.WithException(errors.Unwrap(err)))}
}
