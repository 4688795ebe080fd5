package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"techknowledgepills/domain/core/valueobjects"
	"techknowledgepills/pkg/client/model"
)

func contentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Browse knowledge pills",
	}
	cmd.AddCommand(contentListCmd(), contentShowCmd(), contentCompleteCmd())
	return cmd
}

func contentListCmd() *cobra.Command {
	var typeName string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List knowledge pills, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			vm := app.ContentViewModel()
			if typeName != "" {
				t, err := valueobjects.ParseContentType(typeName)
				if err != nil {
					return err
				}
				if err := vm.LoadByType(ctx, t); err != nil {
					return err
				}
			} else if err := vm.LoadAll(ctx); err != nil {
				return err
			}

			printContentTable(cmd.OutOrStdout(), vm.Contents.Get())
			return nil
		},
	}
	cmd.Flags().StringVar(&typeName, "type", "", "article, video or quiz (or 1..3)")
	return cmd
}

func contentShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one knowledge pill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			vm := app.ContentViewModel()
			if err := vm.Load(ctx, args[0]); err != nil {
				return err
			}
			printContent(cmd.OutOrStdout(), vm.Content.Get())
			return nil
		},
	}
}

func contentCompleteCmd() *cobra.Command {
	var rating int
	cmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a knowledge pill as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			var r *int
			if cmd.Flags().Changed("rating") {
				if rating < 1 || rating > 5 {
					return fmt.Errorf("rating must be between 1 and 5")
				}
				r = &rating
			}
			if err := app.ContentViewModel().Complete(ctx, args[0], r); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Completed")
			return nil
		},
	}
	cmd.Flags().IntVar(&rating, "rating", 0, "rating from 1 to 5")
	return cmd
}

func printContentTable(out io.Writer, list []model.Content) {
	if len(list) == 0 {
		fmt.Fprintln(out, "No content")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tTITLE\tTAGS")
	for _, c := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Type, c.Title, strings.Join(c.TagList(), ", "))
	}
	_ = w.Flush()
}

func printContent(out io.Writer, c *model.Content) {
	fmt.Fprintf(out, "%s [%s]\n", c.Title, c.Type)
	if tags := c.TagList(); len(tags) > 0 {
		fmt.Fprintf(out, "Tags: %s\n", strings.Join(tags, ", "))
	}
	fmt.Fprintln(out)
	if c.Body != "" {
		fmt.Fprintln(out, c.Body)
	}
	if c.VideoURL != "" {
		fmt.Fprintf(out, "Video: %s\n", c.VideoURL)
	}
	if c.Type == model.ContentTypeQuiz && c.QuizData != "" {
		quiz, err := valueobjects.ParseQuiz(c.QuizData)
		if err != nil {
			return
		}
		for i, q := range quiz.Questions {
			fmt.Fprintf(out, "\n%d. %s\n", i+1, q.Question)
			for j, opt := range q.Options {
				fmt.Fprintf(out, "   %c) %s\n", 'a'+j, opt)
			}
		}
	}
}
