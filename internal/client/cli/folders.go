package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sharesaver/internal/client/client"
	"github.com/dmitrijs2005/sharesaver/internal/client/models"
	"github.com/dmitrijs2005/sharesaver/internal/client/services"
	"github.com/spf13/cobra"
)

func (r *runner) foldersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folders",
		Short: "Inspect target folders and the default folder",
	}

	common := &cobra.Command{
		Use:   "common",
		Short: "Show the most used target folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.app.commonFolders(cmd.Context())
		},
	}

	def := &cobra.Command{
		Use:   "default",
		Short: "Show the default target folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.app.showDefaultFolder(cmd.Context())
		},
	}
	def.AddCommand(&cobra.Command{
		Use:   "set <id> [path]",
		Short: "Store the default target folder",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 2 {
				path = args[1]
			}
			return r.app.setDefaultFolder(cmd.Context(), args[0], path)
		},
	})

	find := &cobra.Command{
		Use:         "find <name>",
		Short:       "Find the first folder whose path contains name",
		Args:        cobra.ExactArgs(1),
		Annotations: serverCommand,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.findFolder(cmd.Context(), args[0])
		},
	}

	resolve := &cobra.Command{
		Use:         "resolve <id>",
		Short:       "Turn a folder id into its path",
		Args:        cobra.ExactArgs(1),
		Annotations: serverCommand,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.resolveFolder(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(common, def, find, resolve)
	return cmd
}

func (a *App) commonFolders(ctx context.Context) error {
	usage, err := a.history.CommonFolders(ctx, services.CommonFoldersLimit)
	if err != nil {
		return err
	}
	renderFolderUsage(a.out, usage)
	return nil
}

func (a *App) showDefaultFolder(ctx context.Context) error {
	def, err := a.settings.DefaultFolder(ctx)
	if err != nil {
		return err
	}
	path := def.Path
	if path == "" {
		path = "(unknown path)"
	}
	fmt.Fprintf(a.out, "Default folder: %s %s\n", def.ID, path)
	return nil
}

func (a *App) setDefaultFolder(ctx context.Context, id, path string) error {
	if err := a.settings.SetDefaultFolder(ctx, id, path); err != nil {
		return err
	}
	a.log.Info(ctx, "default folder stored", "folder_id", id, "path", path)
	fmt.Fprintf(a.out, "Default folder set to %s %s\n", id, path)
	return nil
}

func (a *App) findFolder(ctx context.Context, name string) error {
	return a.withAccount(ctx, func(c client.Client, accountID models.ID) error {
		match, err := a.folders.MatchByName(ctx, c, accountID, name)
		if err != nil {
			return fmt.Errorf("folder %q: %w", name, err)
		}
		fmt.Fprintf(a.out, "%s\t%s\n", match.ID, match.Path)
		return nil
	})
}

func (a *App) resolveFolder(ctx context.Context, id string) error {
	return a.withAccount(ctx, func(c client.Client, accountID models.ID) error {
		fmt.Fprintf(a.out, "%s\t%s\n", id, a.folders.ResolveNameByID(ctx, c, accountID, models.ID(id)))
		return nil
	})
}
