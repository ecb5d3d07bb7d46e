package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sharesaver/internal/client/services"
	"github.com/dmitrijs2005/sharesaver/internal/common"
	"github.com/spf13/cobra"
)

var errTransferFailed = errors.New("transfer failed")

type createOptions struct {
	shareLink        string
	accessCode       string
	targetFolderID   string
	targetFolderName string
	autoTarget       bool
	asJSON           bool
}

func (r *runner) createCommand() *cobra.Command {
	var opts createOptions

	cmd := &cobra.Command{
		Use:         "create",
		Short:       "Parse a share link, create transfer tasks and wait for them",
		Args:        cobra.NoArgs,
		Annotations: serverCommand,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.app.create(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.shareLink, "share-link", "", "share link ("+common.ShareLinkPrefix+"...)")
	f.StringVar(&opts.accessCode, "access-code", "", "share access code")
	f.StringVar(&opts.targetFolderID, "target-folder-id", "", "target folder id (wins over --target-folder-name)")
	f.StringVar(&opts.targetFolderName, "target-folder-name", "", "target folder name, matched against folder paths")
	f.BoolVar(&opts.autoTarget, "auto-target", false, "without a target, use the most used folder from history")
	f.BoolVar(&opts.asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("share-link")

	return cmd
}

func validateShareLink(link string) error {
	if !strings.HasPrefix(link, common.ShareLinkPrefix) {
		return fmt.Errorf("%w: %q", common.ErrInvalidShareLink, link)
	}
	return nil
}

func (a *App) create(ctx context.Context, opts createOptions) error {
	if err := validateShareLink(opts.shareLink); err != nil {
		return err
	}

	req := services.TransferRequest{
		ShareLink:        opts.shareLink,
		AccessCode:       opts.accessCode,
		TargetFolderID:   opts.targetFolderID,
		TargetFolderName: opts.targetFolderName,
	}

	if opts.autoTarget && req.TargetFolderID == "" && req.TargetFolderName == "" {
		picked, err := a.settings.PickTarget(ctx)
		if err != nil {
			return err
		}
		req.TargetFolderID = picked.ID
	}

	return a.transfer(ctx, req, opts.asJSON)
}

func (a *App) transfer(ctx context.Context, req services.TransferRequest, asJSON bool) error {
	res := a.transfers.RunWithRetry(ctx, req)

	if asJSON {
		if err := renderJSON(a.out, res); err != nil {
			return err
		}
	} else {
		renderRunResult(a.out, res)
	}

	if !res.Success {
		return fmt.Errorf("%w: %s", errTransferFailed, res.Error)
	}
	return nil
}
