package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mgessner/canopy"
	"github.com/mgessner/canopy/booster"
	"github.com/spf13/cobra"
)

type inspectCmdConfig struct {
	*rootCmdConfig
	boosterInput string
	ctx          context.Context
	cancelFunc   context.CancelFunc
}

func inspectCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &inspectCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize a serialized booster",
		Long:  `Normalize a serialized booster without compiling it and print a summary of its trees, detected encodings, classes and diagnostics`,
		Run: func(cmd *cobra.Command, args []string) {
			doc, err := config.readBooster()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			model, err := canopy.Normalize(config.Context(), doc, nil)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			printSummary(model)
		},
	}
	cmd.Flags().StringVarP(&(config.boosterInput), "input", "i", "", "path to a JSON file with the serialized booster to inspect (defaults to STDIN)")
	return cmd
}

func printSummary(model *canopy.Model) {
	f := model.Forest
	var nodes int
	var maxDepth int
	for _, t := range f.Trees {
		nodes += t.Len()
		if d := t.Depth(); d > maxDepth {
			maxDepth = d
		}
	}
	fmt.Printf("trees: %d\n", len(f.Trees))
	fmt.Printf("classes: %d\n", f.NumClasses)
	assignment := "round-robin"
	if f.ClassMap().Explicit() {
		assignment = "explicit"
	}
	fmt.Printf("class assignment: %s\n", assignment)
	fmt.Printf("nodes: %d\n", nodes)
	fmt.Printf("max depth: %d\n", maxDepth)
	counts := map[booster.Schema]int{}
	for _, s := range model.Schemas {
		counts[s]++
	}
	for _, s := range []booster.Schema{booster.FlatColumnar, booster.NestedNodeObject, booster.FlatNodeList, booster.Unrecognized} {
		if counts[s] > 0 {
			fmt.Printf("%s trees: %d\n", s, counts[s])
		}
	}
	if !model.Report.Empty() {
		fmt.Printf("diagnostics:\n%v\n", model.Report)
	}
}

func (icc *inspectCmdConfig) readBooster() ([]byte, error) {
	if icc.boosterInput == "" {
		icc.Logf("Reading booster from STDIN...")
		return io.ReadAll(os.Stdin)
	}
	doc, err := os.ReadFile(icc.boosterInput)
	if err != nil {
		return nil, fmt.Errorf("reading booster from %s: %v", icc.boosterInput, err)
	}
	return doc, nil
}

func (icc *inspectCmdConfig) setContextAndCancelFunc() {
	if icc.ctx == nil {
		icc.ctx, icc.cancelFunc = context.WithCancel(context.Background())
	}
}

func (icc *inspectCmdConfig) Context() context.Context {
	icc.setContextAndCancelFunc()
	return icc.ctx
}
