// Package trigger turns chat-style trigger text into commands.
//
// Recognised forms:
//
//	转存 <link> [folder]    /save <link> [folder]
//	全部执行                /execute
//	删除任务                /delete
//	常用目录                /commonfolders
//	入库                    /strm
package trigger

import (
	"errors"
	"regexp"
	"strings"
)

// Kind is the action a trigger asks for.
type Kind int

const (
	KindUnknown Kind = iota
	KindTransfer
	KindExecuteAll
	KindDeleteTasks
	KindCommonFolders
	// KindLibraryIngest is recognised but has no handler.
	KindLibraryIngest
)

func (k Kind) String() string {
	switch k {
	case KindTransfer:
		return "transfer"
	case KindExecuteAll:
		return "execute_all"
	case KindDeleteTasks:
		return "delete_tasks"
	case KindCommonFolders:
		return "common_folders"
	case KindLibraryIngest:
		return "library_ingest"
	default:
		return "unknown"
	}
}

const (
	keywordTransfer      = "转存"
	keywordExecuteAll    = "全部执行"
	keywordDelete        = "删除任务"
	keywordCommonFolders = "常用目录"
	keywordIngest        = "入库"
)

var (
	ErrUnknownTrigger = errors.New("unrecognised trigger")
	ErrMissingLink    = errors.New("no valid share link in message")
)

var shareLinkRe = regexp.MustCompile(`https://cloud\.189\.cn/t/[A-Za-z0-9]+`)

// Command is a parsed trigger.
type Command struct {
	Kind       Kind
	ShareLink  string
	FolderName string
	// Text is the original message, stored in history as-is.
	Text string
}

// ExtractShareLink returns the first share link in text, or "".
func ExtractShareLink(text string) string {
	return shareLinkRe.FindString(text)
}

// Parse classifies text. Transfer triggers without a usable share link
// return ErrMissingLink together with a KindTransfer command.
func Parse(text string) (Command, error) {
	text = strings.TrimSpace(text)
	cmd := Command{Text: text}

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return cmd, ErrUnknownTrigger
	}

	switch {
	case text == keywordExecuteAll || fields[0] == "/execute":
		cmd.Kind = KindExecuteAll
	case text == keywordDelete || fields[0] == "/delete":
		cmd.Kind = KindDeleteTasks
	case text == keywordCommonFolders || fields[0] == "/commonfolders":
		cmd.Kind = KindCommonFolders
	case text == keywordIngest || fields[0] == "/strm":
		cmd.Kind = KindLibraryIngest
	case strings.HasPrefix(text, keywordTransfer) || fields[0] == "/save":
		cmd.Kind = KindTransfer
		return parseTransfer(cmd, fields)
	default:
		return cmd, ErrUnknownTrigger
	}
	return cmd, nil
}

// parseTransfer reads "<keyword> <link> [folder]". The keyword may be glued
// to the link ("转存https://...").
func parseTransfer(cmd Command, fields []string) (Command, error) {
	cmd.ShareLink = ExtractShareLink(cmd.Text)
	if cmd.ShareLink == "" {
		return cmd, ErrMissingLink
	}

	args := fields[1:]
	if fields[0] != "/save" && fields[0] != keywordTransfer {
		args = fields
	}
	for i, a := range args {
		if strings.Contains(a, cmd.ShareLink) && i+1 < len(args) {
			cmd.FolderName = args[i+1]
			break
		}
	}
	return cmd, nil
}
