package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

// invocationID correlates every log line from one fstcli run, mirroring
// the teacher's per-request tracing conventions.
var invocationID string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fstcli",
		Short: "Inspect and benchmark compiled fstbpe vocabularies",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			invocationID = uuid.New().String()
			klog.InfoS("fstcli starting", "invocation", invocationID, "command", cmd.Name())
		},
	}

	cmd.AddCommand(newBenchCmd())
	cmd.AddCommand(newInspectCmd())
	return cmd
}
