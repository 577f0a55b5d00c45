// Command replaylog reconstructs the latest run from a persisted log
// transcript and prints the result, which is the same view the server
// would serve for that file.
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/hendrikb/pipeline-monitor/internal/logstream"
	"github.com/hendrikb/pipeline-monitor/internal/pipeline"
)

func main() {
	path := flag.String("log", "data/process-log.jsonl", "path to the JSONL log transcript")
	flag.Parse()

	history, err := logstream.ReadHistory(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", *path, err)
		os.Exit(1)
	}

	set := pipeline.DefaultStageSet()
	run := logstream.SelectLatest(logstream.SplitRuns(history, set.IsRunEnd))
	state := pipeline.Reconstruct(set, run)

	fmt.Printf("records: %d (run closed: %v)\n", len(run.Records), run.Closed)
	fmt.Printf("finished: %v, errors: %v\n\n", state.Finished, state.HasErrors)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STAGE\tSTATUS\tRECORDS\tLAST MESSAGE")
	for _, st := range state.Stages {
		last := ""
		if n := len(st.Records); n > 0 {
			last = st.Records[n-1].Message
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", st.ID, st.Status, len(st.Records), last)
	}
	tw.Flush()

	if sum := state.Summary; sum.OCR != nil {
		fmt.Println()
		if sum.OCR.TotalItems != nil {
			fmt.Printf("ocr items: %d\n", *sum.OCR.TotalItems)
		}
		if sum.OCR.FirstDateFound {
			fmt.Printf("first date: %s\n", sum.OCR.FirstDate)
		}
	}
}
