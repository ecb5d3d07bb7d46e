package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sharesaver/internal/client/services"
	"github.com/dmitrijs2005/sharesaver/internal/client/trigger"
	"github.com/spf13/cobra"
)

var errUnsupportedTrigger = errors.New("trigger is recognised but not supported")

func (r *runner) handleCommand() *cobra.Command {
	var sender string
	cmd := &cobra.Command{
		Use:         "handle <text>...",
		Short:       "Act on a chat-style trigger message such as \"转存 <link> [folder]\"",
		Args:        cobra.MinimumNArgs(1),
		Annotations: serverCommand,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.handle(cmd.Context(), sender, strings.Join(args, " "))
		},
	}
	cmd.Flags().StringVar(&sender, "sender", "cli", "who sent the message")
	return cmd
}

func (a *App) handle(ctx context.Context, sender, text string) error {
	if want := a.config.TargetSender; want != "" && sender != want {
		a.log.Info(ctx, "ignoring message from other sender", "sender", sender)
		fmt.Fprintf(a.out, "Ignored: messages from %q are not handled.\n", sender)
		return nil
	}

	cmd, err := trigger.Parse(text)
	if err != nil {
		return err
	}
	a.log.Info(ctx, "trigger received", "kind", cmd.Kind, "sender", sender)

	switch cmd.Kind {
	case trigger.KindTransfer:
		return a.handleTransfer(ctx, sender, cmd)
	case trigger.KindExecuteAll:
		a.record(ctx, sender, text)
		return a.executeAll(ctx)
	case trigger.KindDeleteTasks:
		a.record(ctx, sender, text)
		return a.listTasks(ctx, "")
	case trigger.KindCommonFolders:
		a.record(ctx, sender, text)
		return a.commonFolders(ctx)
	case trigger.KindLibraryIngest:
		return fmt.Errorf("%w: %s", errUnsupportedTrigger, cmd.Kind)
	}
	return trigger.ErrUnknownTrigger
}

// handleTransfer runs a transfer into the named folder, or into the picked
// default when the message names none. History is written by the transfer
// itself on success.
func (a *App) handleTransfer(ctx context.Context, sender string, cmd trigger.Command) error {
	req := services.TransferRequest{
		ShareLink:        cmd.ShareLink,
		TargetFolderName: cmd.FolderName,
		Sender:           sender,
		Content:          cmd.Text,
	}
	if req.TargetFolderName == "" {
		picked, err := a.settings.PickTarget(ctx)
		if err != nil {
			return err
		}
		req.TargetFolderID = picked.ID
	}
	return a.transfer(ctx, req, false)
}

// record stores a non-transfer trigger without a folder.
func (a *App) record(ctx context.Context, sender, text string) {
	if err := a.history.Record(ctx, sender, text, "", ""); err != nil {
		a.log.Warn(ctx, "cannot record trigger in history", "error", err)
	}
}
