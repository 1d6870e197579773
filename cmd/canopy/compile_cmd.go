package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mgessner/canopy"
	"github.com/mgessner/canopy/featuremap"
	"github.com/spf13/cobra"
)

type compileCmdConfig struct {
	*rootCmdConfig
	boosterInput   string
	moduleOutput   string
	metadataInput  string
	workers        int
	maxDiagnostics int
	ctx            context.Context
	cancelFunc     context.CancelFunc
}

func compileCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &compileCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a serialized booster into a scoring module",
		Long:  `Compile a gradient-boosted-tree model serialized as JSON into a self-contained JavaScript module exposing a single predict function`,
		Run: func(cmd *cobra.Command, args []string) {
			doc, err := config.readBooster()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			opts := &canopy.Options{Workers: config.workers, MaxDiagnostics: config.maxDiagnostics}
			if config.metadataInput != "" {
				config.Logf("Reading feature map from metadata at %s...", config.metadataInput)
				opts.FeatureMap, err = featuremap.ReadFromFile(config.metadataInput)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(3)
				}
				config.Logf("Feature map with %d features read", len(opts.FeatureMap))
			}
			config.Logf("Compiling booster from %s...", config.describeInput())
			artifact, err := canopy.Compile(config.Context(), doc, opts)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			config.Logf("Compiled %d trees into a %d-class module", artifact.NumTrees, artifact.NumClasses)
			if !artifact.Report.Empty() {
				fmt.Fprintln(os.Stderr, artifact.Report)
			}
			err = config.writeModule(artifact.Source)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			config.Logf("Done")
		},
	}
	cmd.Flags().StringVarP(&(config.boosterInput), "input", "i", "", "path to a JSON file with the serialized booster to compile (defaults to STDIN)")
	cmd.Flags().StringVarP(&(config.moduleOutput), "output", "o", "", "path to a file to which the compiled scoring module will be written (defaults to STDOUT)")
	cmd.Flags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file mapping feature names to feature-vector indices, required for boosters that reference split features by name")
	cmd.Flags().IntVarP(&(config.workers), "workers", "w", 0, "number of trees to compile concurrently (defaults to 0: one per CPU)")
	cmd.Flags().IntVar(&(config.maxDiagnostics), "max-diagnostics", 0, "maximum number of diagnostics to report verbatim before suppressing (defaults to 0: compiler default)")
	return cmd
}

func (ccc *compileCmdConfig) describeInput() string {
	if ccc.boosterInput == "" {
		return "STDIN"
	}
	return ccc.boosterInput
}

func (ccc *compileCmdConfig) readBooster() ([]byte, error) {
	if ccc.boosterInput == "" {
		ccc.Logf("Reading booster from STDIN...")
		return io.ReadAll(os.Stdin)
	}
	doc, err := os.ReadFile(ccc.boosterInput)
	if err != nil {
		return nil, fmt.Errorf("reading booster from %s: %v", ccc.boosterInput, err)
	}
	return doc, nil
}

func (ccc *compileCmdConfig) writeModule(source []byte) error {
	if ccc.moduleOutput == "" {
		_, err := os.Stdout.Write(source)
		return err
	}
	err := os.WriteFile(ccc.moduleOutput, source, 0644)
	if err != nil {
		return fmt.Errorf("writing module to %s: %v", ccc.moduleOutput, err)
	}
	return nil
}

func (ccc *compileCmdConfig) setContextAndCancelFunc() {
	if ccc.ctx == nil {
		ccc.ctx, ccc.cancelFunc = context.WithCancel(context.Background())
	}
}

func (ccc *compileCmdConfig) Context() context.Context {
	ccc.setContextAndCancelFunc()
	return ccc.ctx
}
