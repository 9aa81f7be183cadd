package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"routehub-client/internal/domain"
	"routehub-client/internal/dto"
	"routehub-client/internal/notify"
	"routehub-client/internal/response"
)

func newCategoriesCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Browse route categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.appFor(cmd)
			if err != nil {
				return err
			}
			cats, err := app.Categories.List(cmd.Context())
			if err != nil {
				return app.fail(err)
			}
			app.Printer.Categories(cats)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <slug>",
		Short: "Show a category and its routes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.appFor(cmd)
			if err != nil {
				return err
			}
			cat, err := app.Categories.GetBySlug(cmd.Context(), args[0])
			if err != nil {
				return app.fail(err)
			}
			routes, err := app.Routes.ListByCategory(cmd.Context(), cat.ID)
			if err != nil {
				return app.fail(err)
			}
			app.Printer.Categories([]domain.Category{cat})
			fmt.Fprintln(cmd.OutOrStdout())
			app.Printer.Routes(routes)
			return nil
		},
	})

	var req dto.CreateCategoryRequest
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.appFor(cmd)
			if err != nil {
				return err
			}
			req.Name = strings.TrimSpace(args[0])
			if req.Slug == "" {
				req.Slug = slugify(req.Name)
			}
			if req.Name == "" || req.Slug == "" {
				return app.warn(response.NewValidationError("Category name is required"))
			}
			if _, err := app.Categories.Create(cmd.Context(), req); err != nil {
				return app.fail(err)
			}
			app.Sink.Notify("Category created", notify.KindSuccess)
			return nil
		},
	}
	create.Flags().StringVar(&req.Slug, "slug", "", "URL slug (derived from the name when omitted)")
	create.Flags().StringVar(&req.Icon, "icon", "", "icon")
	cmd.AddCommand(create)

	return cmd
}

func newStopsCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stops",
		Aliases: []string{"stop"},
		Short:   "Manage the stops of a route",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <route-id>",
		Short: "List the stops of a route in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.appFor(cmd)
			if err != nil {
				return err
			}
			stops, err := app.Stops.ListByRoute(cmd.Context(), args[0])
			if err != nil {
				return app.fail(err)
			}
			app.Printer.Stops(stops)
			return nil
		},
	})

	var req dto.CreateStopRequest
	add := &cobra.Command{
		Use:   "add <route-id>",
		Short: "Add a stop to a route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.appFor(cmd)
			if err != nil {
				return err
			}
			req.RouteID = args[0]
			req.Title = strings.TrimSpace(req.Title)
			if req.Title == "" {
				return app.warn(response.NewValidationError("Stop title is required"))
			}
			if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
				return app.warn(response.NewValidationError("Coordinates are out of range"))
			}
			if req.OrderNumber == 0 {
				existing, err := app.Stops.ListByRoute(cmd.Context(), req.RouteID)
				if err != nil {
					return app.fail(err)
				}
				req.OrderNumber = len(existing) + 1
			}
			if _, err := app.Stops.Create(cmd.Context(), req); err != nil {
				return app.fail(err)
			}
			app.Sink.Notify(fmt.Sprintf("Stop %d added", req.OrderNumber), notify.KindSuccess)
			return nil
		},
	}
	add.Flags().StringVarP(&req.Title, "title", "t", "", "stop title")
	add.Flags().StringVarP(&req.Description, "description", "d", "", "stop description")
	add.Flags().Float64Var(&req.Latitude, "lat", 0, "latitude")
	add.Flags().Float64Var(&req.Longitude, "lng", 0, "longitude")
	add.Flags().StringVar(&req.Address, "address", "", "address")
	add.Flags().IntVar(&req.OrderNumber, "order", 0, "position in the route (appended when omitted)")
	add.Flags().IntVar(&req.Duration, "duration", 0, "planned stay in minutes")
	add.Flags().StringVar(&req.ImageURL, "image", "", "image URL")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <stop-id>",
		Short: "Delete a stop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := st.appFor(cmd)
			if err != nil {
				return err
			}
			if err := app.Stops.Delete(cmd.Context(), args[0]); err != nil {
				return app.fail(err)
			}
			app.Sink.Notify("Stop deleted", notify.KindSuccess)
			return nil
		},
	})

	return cmd
}
