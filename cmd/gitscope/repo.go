package main

import (
	"errors"
	"strconv"
	"strings"

	"github.com/caarlos0/tablewriter"
	"github.com/dustin/go-humanize"
	"github.com/gitscope/gitscope/cmd"
	"github.com/gitscope/gitscope/pkg/backend"
	"github.com/gitscope/gitscope/pkg/db"
	"github.com/gitscope/gitscope/pkg/db/migrate"
	"github.com/gitscope/gitscope/pkg/db/models"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var repoCmd = &cobra.Command{
	Use:                "repo",
	Aliases:            []string{"repos", "repository", "repositories"},
	Short:              "Manage mirrored repositories",
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
	repoCmd.AddCommand(
		repoAddCommand(),
		repoListCommand(),
		repoRemoveCommand(),
		repoRenameCommand(),
		repoShowCommand(),
		repoDescriptionCommand(),
		repoProjectNameCommand(),
	)
}

func repoAddCommand() *cobra.Command {
	var description string
	var projectName string

	c := &cobra.Command{
		Use:   "add REPOSITORY",
		Short: "Add a repository to mirror",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)

			repo, err := be.CreateRepository(ctx, args[0], projectName, description)
			if err != nil {
				if errors.Is(err, backend.ErrRepoExist) {
					return errors.New("repository already exists")
				}
				return err
			}

			c.PrintErrf("Added repository %s\n", repo.Name)
			return nil
		},
	}

	c.Flags().StringVarP(&description, "description", "d", "", "set the repository description")
	c.Flags().StringVarP(&projectName, "name", "n", "", "set the project name")

	return c
}

func repoListCommand() *cobra.Command {
	var ojson bool

	c := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List mirrored repositories",
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)

			repos, err := be.Repositories(ctx)
			if err != nil {
				return err
			}

			if ojson {
				out, err := json.MarshalIndent(repos, "", "  ")
				if err != nil {
					return err
				}
				c.Println(string(out))
				return nil
			}

			if len(repos) == 0 {
				c.Println("No repositories found")
				return nil
			}

			return tablewriter.Render(
				c.OutOrStdout(),
				repos,
				[]string{"Name", "Project", "Description", "Updated"},
				func(r models.Repo) ([]string, error) {
					return []string{
						r.Name,
						r.ProjectName,
						r.Description,
						humanize.Time(r.UpdatedAt),
					}, nil
				},
			)
		},
	}

	c.Flags().BoolVar(&ojson, "json", false, "output as JSON")

	return c
}

func repoRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove REPOSITORY",
		Aliases: []string{"rm", "delete"},
		Short:   "Remove a repository and its mirrored commits",
		Args:    cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)

			if err := be.DeleteRepository(ctx, args[0]); err != nil {
				return err
			}

			c.PrintErrf("Removed repository %s\n", args[0])
			return nil
		},
	}
}

func repoRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rename REPOSITORY NEW_NAME",
		Aliases: []string{"mv", "move"},
		Short:   "Rename an existing repository",
		Args:    cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)

			return be.RenameRepository(ctx, args[0], args[1])
		},
	}
}

func repoShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "show REPOSITORY",
		Aliases: []string{"info"},
		Short:   "Show a repository and its mirror state",
		Args:    cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)

			repo, err := be.Repository(ctx, args[0])
			if err != nil {
				return err
			}

			count, err := be.CountCommits(ctx, repo.Name)
			if err != nil {
				return err
			}

			c.Println("Name:", repo.Name)
			c.Println("Project:", repo.ProjectName)
			c.Println("Description:", repo.Description)
			c.Println("Commits:", strconv.FormatInt(count, 10))

			latest, err := be.LatestCommit(ctx, repo.Name)
			if err == nil {
				c.Println("Latest:", latest.SHA, "committed", humanize.Time(latest.CommittedAt))
			} else if !errors.Is(err, db.ErrRecordNotFound) {
				return err
			}

			return nil
		},
	}
}

func repoDescriptionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "description REPOSITORY [DESCRIPTION]",
		Short: "Set or get the repository description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)

			if len(args) == 1 {
				repo, err := be.Repository(ctx, args[0])
				if err != nil {
					return err
				}
				c.Println(repo.Description)
				return nil
			}

			return be.SetRepositoryDescription(ctx, args[0], strings.Join(args[1:], " "))
		},
	}
}

func repoProjectNameCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "project-name REPOSITORY [NAME]",
		Aliases: []string{"project"},
		Short:   "Set or get the repository project name",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			be := backend.FromContext(ctx)

			if len(args) == 1 {
				repo, err := be.Repository(ctx, args[0])
				if err != nil {
					return err
				}
				c.Println(repo.ProjectName)
				return nil
			}

			return be.SetRepositoryProjectName(ctx, args[0], strings.Join(args[1:], " "))
		},
	}
}
