package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newCommentsCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "comments",
		Aliases: []string{"comment"},
		Short:   "Read and write a route's comment thread",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <route-id>",
		Short: "Show the comment thread of a route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.appFor(cmd)
			if err != nil {
				return err
			}
			if err := app.Engine.LoadThread(cmd.Context(), args[0]); err != nil {
				return silence(err)
			}
			printThread(app)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <route-id> <text...>",
		Short: "Post a comment on a route",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.appFor(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := app.Engine.LoadThread(ctx, args[0]); err != nil {
				return silence(err)
			}
			if err := app.Engine.SubmitTopLevelComment(ctx, strings.Join(args[1:], " ")); err != nil {
				return silence(err)
			}
			printThread(app)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reply <route-id> <comment-id> <text...>",
		Short: "Reply to any comment of a route's thread",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.appFor(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := app.Engine.LoadThread(ctx, args[0]); err != nil {
				return silence(err)
			}
			if err := app.Engine.SetReplyTarget(args[1]); err != nil {
				return silence(err)
			}
			if err := app.Engine.SubmitReply(ctx, strings.Join(args[2:], " ")); err != nil {
				return silence(err)
			}
			printThread(app)
			return nil
		},
	})

	var yes bool
	del := &cobra.Command{
		Use:   "delete <route-id> <comment-id>",
		Short: "Delete a comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.appFor(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := app.Engine.LoadThread(ctx, args[0]); err != nil {
				return silence(err)
			}
			if !yes {
				ok, err := confirm(cmd, "Delete this comment?")
				if err != nil || !ok {
					return err
				}
			}
			if err := app.Engine.DeleteNode(ctx, args[1]); err != nil {
				return silence(err)
			}
			printThread(app)
			return nil
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.AddCommand(del)

	return cmd
}

func printThread(app *App) {
	snap := app.Engine.Snapshot()
	app.Printer.Thread(snap.Roots, snap.ReplyTarget)
}
