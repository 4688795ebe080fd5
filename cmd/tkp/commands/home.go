package commands

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"techknowledgepills/pkg/client/tui"
)

func recommendationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "recommendations",
		Aliases: []string{"recs"},
		Short:   "Show what to read next",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			vm := app.RecommendationViewModel()
			if err := vm.Load(ctx); err != nil {
				return err
			}
			printContentTable(cmd.OutOrStdout(), vm.Recommendations.Get())
			return nil
		},
	}
}

func homeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Interactive home screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			p := tea.NewProgram(tui.NewHomeModel(app.HomeViewModel()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err := p.Run()
			return err
		},
	}
}
