package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/sharesaver/internal/client/models"
)

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func renderRunResult(w io.Writer, res models.RunResult) {
	if res.Success {
		fmt.Fprintf(w, "Transfer succeeded: %d episode(s) into %s (folder %s)\n",
			res.TransferredCount, res.FolderName, res.FolderID)
	} else {
		fmt.Fprintf(w, "Transfer failed: %s\n", res.Error)
	}
	fmt.Fprintf(w, "Attempts: %d, elapsed: %s\n", res.Attempts, res.Elapsed.Round(time.Millisecond))

	if len(res.Tasks) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tSTATE\tEPISODES\tPOLLS\tERROR")
	for _, t := range res.Tasks {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", t.TaskID, t.State, t.Episodes, t.Polls, t.Error)
	}
	tw.Flush()
}

func renderTasks(w io.Writer, tasks []models.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tEPISODES\tFOLDER")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", t.ID, t.DisplayName(), t.Status, t.CurrentEpisodes, t.TargetFolder)
	}
	tw.Flush()
}

func renderDeleteReport(w io.Writer, rep models.DeleteReport) {
	fmt.Fprintf(w, "Deleted %d/%d task(s) in %s\n", rep.Deleted, rep.Total, rep.Elapsed.Round(time.Millisecond))
	for _, f := range rep.Failures {
		fmt.Fprintf(w, "  failed %s (%s): %s\n", f.TaskID, f.Name, f.Error)
	}
}

func renderFolderUsage(w io.Writer, usage []models.FolderUsage) {
	if len(usage) == 0 {
		fmt.Fprintln(w, "No folders used yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tFOLDER\tUSES")
	for i, u := range usage {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", i+1, u.FolderID, u.FolderName, u.Count)
	}
	tw.Flush()
}

func renderHistory(w io.Writer, records []models.HistoryRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No history.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSENDER\tFOLDER\tCONTENT")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Timestamp.Format(time.DateTime), r.Sender, r.TargetFolderName, r.Content)
	}
	tw.Flush()
}
