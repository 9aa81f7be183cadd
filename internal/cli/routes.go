package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"routehub-client/internal/catalog"
	"routehub-client/internal/domain"
	"routehub-client/internal/dto"
	"routehub-client/internal/notify"
	"routehub-client/internal/response"
)

func newRoutesCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "routes",
		Aliases: []string{"route"},
		Short:   "Browse and manage routes",
	}
	cmd.AddCommand(newRoutesListCmd(st))
	cmd.AddCommand(newRoutesShowCmd(st))
	cmd.AddCommand(newRoutesCreateCmd(st))
	cmd.AddCommand(newRouteStatusCmd(st, "publish", "Publish a draft route", "Route published"))
	cmd.AddCommand(newRouteStatusCmd(st, "archive", "Archive a route", "Route archived"))
	cmd.AddCommand(newRoutesDeleteCmd(st))
	return cmd
}

func newRoutesListCmd(st *state) *cobra.Command {
	var (
		category string
		search   string
		sortBy   string
		source   string
		status   string
		mine     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List routes",
		Long: `List routes. Public routes are shown by default.

Filtering by category accepts a category id or slug. Search matches the
title, description and category names.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.appFor(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			opt, err := catalog.ParseSort(sortBy)
			if err != nil {
				return app.warn(response.NewValidationError(err.Error()))
			}
			filter := catalog.Filter{Query: search, Sort: opt}

			if mine {
				id, ok := app.Session.Current()
				if !ok {
					return app.warn(response.NewAppError(response.ErrCodeUnauthorized, "Please sign in to list your routes", ""))
				}
				filter.OwnerID = id.UserID
				if source == "public" {
					source = "all"
				}
			}

			if category != "" {
				filter.CategoryID = resolveCategory(cmd, app, category)
			}

			var routes []domain.Route
			switch {
			case status != "":
				s, ok := domain.ParseRouteStatus(strings.ToLower(status))
				if !ok {
					return app.warn(response.NewValidationError(fmt.Sprintf("unknown status %q", status)))
				}
				routes, err = app.Routes.ListByStatus(ctx, s)
			case source == "public":
				routes, err = app.Routes.ListPublic(ctx)
			case source == "popular":
				routes, err = app.Routes.ListPopular(ctx)
			case source == "all":
				routes, err = app.Routes.List(ctx)
			default:
				return app.warn(response.NewValidationError(fmt.Sprintf("unknown source %q (want public, popular or all)", source)))
			}
			if err != nil {
				return app.fail(err)
			}

			app.Printer.Routes(catalog.Apply(routes, filter))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category id or slug")
	cmd.Flags().StringVarP(&search, "search", "s", "", "search text")
	cmd.Flags().StringVar(&sortBy, "sort", "newest", "sort order: newest, popular or views")
	cmd.Flags().StringVar(&source, "source", "public", "route source: public, popular or all")
	cmd.Flags().StringVar(&status, "status", "", "only routes with this status: draft, active or archived")
	cmd.Flags().BoolVar(&mine, "mine", false, "only routes you own")
	return cmd
}

// resolveCategory maps a slug to a category id. The category list is a
// secondary load: when it fails the value is used as an id.
func resolveCategory(cmd *cobra.Command, app *App, value string) string {
	cats, err := app.Categories.List(cmd.Context())
	if err != nil {
		app.Logger.Warn("Failed to load categories", zap.Error(err))
		return value
	}
	for _, c := range cats {
		if c.ID == value || strings.EqualFold(c.Slug, value) {
			return c.ID
		}
	}
	return value
}

func newRoutesShowCmd(st *state) *cobra.Command {
	var byLink, noComments bool

	cmd := &cobra.Command{
		Use:   "show <id|link>",
		Short: "Show a route with its stops and comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.appFor(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var detail *domain.RouteDetail
			if byLink {
				detail, err = app.Routes.GetByLink(ctx, args[0])
			} else {
				detail, err = app.Routes.Get(ctx, args[0])
			}
			if err != nil {
				return app.fail(err)
			}

			if err := app.Routes.IncrementView(ctx, detail.ID); err != nil {
				app.Logger.Warn("Failed to increment view count", zap.String("route_id", detail.ID), zap.Error(err))
			}

			app.Printer.RouteDetail(detail)
			if noComments {
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout())
			if err := app.Engine.LoadThread(ctx, detail.ID); err != nil {
				return silence(err)
			}
			snap := app.Engine.Snapshot()
			app.Printer.Thread(snap.Roots, snap.ReplyTarget)
			return nil
		},
	}

	cmd.Flags().BoolVar(&byLink, "link", false, "treat the argument as a route link")
	cmd.Flags().BoolVar(&noComments, "no-comments", false, "do not load the comment thread")
	return cmd
}

func newRoutesCreateCmd(st *state) *cobra.Command {
	var req dto.CreateRouteRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a route",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.appFor(cmd)
			if err != nil {
				return err
			}
			if _, ok := app.Session.Current(); !ok {
				return app.warn(response.NewAppError(response.ErrCodeUnauthorized, "Please sign in to create routes", ""))
			}

			req.Title = strings.TrimSpace(req.Title)
			if req.Title == "" {
				return app.warn(response.NewValidationError("Title is required"))
			}
			if req.RouteLink == "" {
				req.RouteLink = slugify(req.Title)
			}
			for i, c := range req.CategoryIDs {
				req.CategoryIDs[i] = resolveCategory(cmd, app, c)
			}

			id, err := app.Routes.Create(cmd.Context(), req)
			if err != nil {
				return app.fail(err)
			}
			app.Sink.Notify("Route created", notify.KindSuccess)
			if id != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "id: %s\nlink: %s\n", id, req.RouteLink)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Title, "title", "t", "", "route title")
	cmd.Flags().StringVarP(&req.Description, "description", "d", "", "route description")
	cmd.Flags().StringVar(&req.RouteLink, "link", "", "public link (derived from the title when omitted)")
	cmd.Flags().StringVar(&req.ThumbnailURL, "thumbnail", "", "thumbnail image URL")
	cmd.Flags().BoolVar(&req.IsPublic, "public", true, "make the route public")
	cmd.Flags().StringSliceVarP(&req.CategoryIDs, "category", "c", nil, "category id or slug (repeatable)")
	return cmd
}

func newRouteStatusCmd(st *state, verb, short, done string) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.appFor(cmd)
			if err != nil {
				return err
			}
			if verb == "publish" {
				err = app.Routes.Publish(cmd.Context(), args[0])
			} else {
				err = app.Routes.Archive(cmd.Context(), args[0])
			}
			if err != nil {
				return app.fail(err)
			}
			app.Sink.Notify(done, notify.KindSuccess)
			return nil
		},
	}
}

func newRoutesDeleteCmd(st *state) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.appFor(cmd)
			if err != nil {
				return err
			}
			if !yes {
				ok, err := confirm(cmd, "Delete this route?")
				if err != nil || !ok {
					return err
				}
			}
			if err := app.Routes.Delete(cmd.Context(), args[0]); err != nil {
				return app.fail(err)
			}
			app.Sink.Notify("Route deleted", notify.KindSuccess)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// slugify derives a URL-safe link from a title
func slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
