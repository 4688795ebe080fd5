package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"techknowledgepills/domain/core/valueobjects"
	"techknowledgepills/pkg/client/model"
	"techknowledgepills/pkg/client/tui"
)

func stressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Stress history",
	}
	cmd.AddCommand(stressListCmd(), stressLatestCmd(), stressRecordCmd(), stressMockCmd())
	return cmd
}

func stressListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stress readings, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			vm := app.StressIndicatorViewModel()
			if err := vm.Load(ctx); err != nil {
				return err
			}
			printStressTable(cmd.OutOrStdout(), vm.Indicators.Get())
			return nil
		},
	}
}

func stressLatestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Show the latest stress reading",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			latest, err := app.Stress.GetLatest(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderStress(latest))
			return nil
		},
	}
}

func stressRecordCmd() *cobra.Command {
	var notes string
	cmd := &cobra.Command{
		Use:   "record <level>",
		Short: "Record how stressed you feel (low, medium, high, critical or 1..4)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			level, err := valueobjects.ParseStressLevel(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			vm := app.StressIndicatorViewModel()
			if err := vm.Record(ctx, level, notes); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s\n", tui.RenderStress(vm.Latest.Get()))
			return nil
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "optional note")
	return cmd
}

func stressMockCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Generate synthetic stress history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			vm := app.StressIndicatorViewModel()
			if err := vm.GenerateMock(ctx, count); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "History now holds %d readings\n", len(vm.Indicators.Get()))
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 30, "number of days to generate (1..365)")
	return cmd
}

func printStressTable(out io.Writer, list []model.StressIndicator) {
	if len(list) == 0 {
		fmt.Fprintln(out, "No stress readings yet")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tLEVEL\tSOURCE\tNOTES")
	for _, s := range list {
		notes := ""
		if s.Notes != nil {
			notes = *s.Notes
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Timestamp.Local().Format("2006-01-02 15:04"), s.StressLevel, s.Source, notes)
	}
	_ = w.Flush()
}
