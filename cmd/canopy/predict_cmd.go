package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mgessner/canopy"
	"github.com/mgessner/canopy/featuremap"
	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	*rootCmdConfig
	boosterInput  string
	metadataInput string
	features      string
	ctx           context.Context
	cancelFunc    context.CancelFunc
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score a feature vector against a serialized booster",
		Long: `Normalize a serialized booster and score a feature vector against it with the
reference interpreter, printing the resulting probability vector. Use it to
sanity-check a model without executing the compiled module. An empty value in
the feature list marks that feature as missing`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			features, err := parseFeatures(config.features)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			doc, err := config.readBooster()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			opts := &canopy.Options{}
			if config.metadataInput != "" {
				opts.FeatureMap, err = featuremap.ReadFromFile(config.metadataInput)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(4)
				}
			}
			model, err := canopy.Normalize(config.Context(), doc, opts)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			if !model.Report.Empty() {
				fmt.Fprintln(os.Stderr, model.Report)
			}
			probabilities := model.Forest.Predict(features)
			for class, p := range probabilities {
				fmt.Printf("class %d: %g\n", class, p)
			}
		},
	}
	cmd.Flags().StringVarP(&(config.boosterInput), "input", "i", "", "path to a JSON file with the serialized booster to score against (defaults to STDIN)")
	cmd.Flags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file mapping feature names to feature-vector indices")
	cmd.Flags().StringVarP(&(config.features), "features", "f", "", "comma-separated feature vector to score, indexed as during training (required)")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.features == "" {
		return fmt.Errorf("required features flag was not set")
	}
	return nil
}

// parseFeatures parses a comma-separated vector, mapping empty
// entries to NaN so they take the missing branch when scored.
func parseFeatures(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	features := make([]float64, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			features[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing feature %d: %v", i, err)
		}
		features[i] = v
	}
	return features, nil
}

func (pcc *predictCmdConfig) readBooster() ([]byte, error) {
	if pcc.boosterInput == "" {
		pcc.Logf("Reading booster from STDIN...")
		return io.ReadAll(os.Stdin)
	}
	doc, err := os.ReadFile(pcc.boosterInput)
	if err != nil {
		return nil, fmt.Errorf("reading booster from %s: %v", pcc.boosterInput, err)
	}
	return doc, nil
}

func (pcc *predictCmdConfig) setContextAndCancelFunc() {
	if pcc.ctx == nil {
		pcc.ctx, pcc.cancelFunc = context.WithCancel(context.Background())
	}
}

func (pcc *predictCmdConfig) Context() context.Context {
	pcc.setContextAndCancelFunc()
	return pcc.ctx
}
