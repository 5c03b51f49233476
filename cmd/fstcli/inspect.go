package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/gomlx/go-fst-tokenizer/models/vocabfile"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <vocab-file>",
		Short: "Print a summary of a compiled vocabulary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0])
		},
	}
	return cmd
}

func runInspect(vocabPath string) error {
	reader, err := vocabfile.Open(vocabPath)
	if err != nil {
		return errors.Wrapf(err, "opening %q", vocabPath)
	}
	defer reader.Close()

	_, entries, unkID, err := vocabfile.Load[byte](reader)
	if err != nil {
		return errors.Wrap(err, "loading compiled vocabulary")
	}

	maxLen := 0
	for _, e := range entries {
		if len(e.Token) > maxLen {
			maxLen = len(e.Token)
		}
	}

	klog.InfoS("inspect complete", "invocation", invocationID, "entries", len(entries))

	heading := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(16)
	box := lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())

	body := fmt.Sprintf("%s\n%s %d\n%s %d\n%s %d",
		heading.Render(vocabPath),
		label.Render("entries"), len(entries),
		label.Render("max token len"), maxLen,
		label.Render("unk id"), unkID,
	)
	fmt.Println(box.Render(body))
	return nil
}
