package main

import (
	"strconv"

	"github.com/caarlos0/tablewriter"
	"github.com/dustin/go-humanize"
	"github.com/gitscope/gitscope/cmd"
	"github.com/gitscope/gitscope/pkg/backend"
	"github.com/gitscope/gitscope/pkg/db"
	"github.com/gitscope/gitscope/pkg/db/migrate"
	"github.com/gitscope/gitscope/pkg/db/models"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:     "user",
	Aliases: []string{"users"},
	Short:   "Manage forge users seen in mirrored history",
	PersistentPreRunE: func(c *cobra.Command, args []string) error {
		if err := cmd.InitBackendContext(c, args); err != nil {
			return err
		}

		ctx := c.Context()
		return migrate.Migrate(ctx, db.FromContext(ctx))
	},
	PersistentPostRunE: cmd.CloseDBContext,
}

func init() {
	userCmd.AddCommand(userListCommand())
}

func userListCommand() *cobra.Command {
	var ojson bool

	c := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List known forge users",
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)

			users, err := be.Users(ctx)
			if err != nil {
				return err
			}

			if ojson {
				out, err := json.MarshalIndent(users, "", "  ")
				if err != nil {
					return err
				}
				c.Println(string(out))
				return nil
			}

			if len(users) == 0 {
				c.Println("No users found")
				return nil
			}

			return tablewriter.Render(
				c.OutOrStdout(),
				users,
				[]string{"ID", "Login", "Remote ID", "First Seen"},
				func(u models.User) ([]string, error) {
					return []string{
						strconv.FormatInt(u.ID, 10),
						u.Login,
						strconv.FormatInt(u.RemoteID, 10),
						humanize.Time(u.CreatedAt),
					}, nil
				},
			)
		},
	}

	c.Flags().BoolVar(&ojson, "json", false, "output as JSON")

	return c
}
