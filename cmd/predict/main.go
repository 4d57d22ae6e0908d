package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"burnoutcheck/form"
	"burnoutcheck/logging"
	"burnoutcheck/ml"
)

const (
	exitLoadFailure       = 1
	exitPredictionFailure = 2
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		os.Exit(exitLoadFailure)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		modelPath   string
		assignments []string
		asJSON      bool
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict a burnout category from survey answers",
		Long: `predict loads a burnout classifier and prints the category for one set
of survey answers. Fields not given with --set keep their form default.

Fields: ` + fieldList(),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if verbose {
				level = "debug"
			}
			logger, err := logging.New(logging.Options{Level: level})
			if err != nil {
				return err
			}
			defer logger.Sync()

			input, err := form.ParseAssignments(assignments)
			if err != nil {
				return &exitError{code: exitPredictionFailure, err: err}
			}

			store := ml.NewStore(modelPath, logger)
			if err := store.Load(); err != nil {
				return &exitError{code: exitLoadFailure, err: fmt.Errorf("load model: %w", err)}
			}
			predictor, err := ml.NewPredictor(store, 0, logger)
			if err != nil {
				return &exitError{code: exitLoadFailure, err: err}
			}

			prediction, err := predictor.Predict(context.Background(), input)
			if err != nil {
				logger.Debug("prediction failed", zap.Error(err))
				return &exitError{code: exitPredictionFailure, err: err}
			}

			if asJSON {
				return json.NewEncoder(out).Encode(prediction)
			}
			fmt.Fprintf(out, "Predicted Burnout Category: %s\n", prediction.Label)
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelPath, "model", "m", ml.DefaultModelFile, "model artifact path")
	cmd.Flags().StringArrayVarP(&assignments, "set", "s", nil, "field value as name=value (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the prediction as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	return cmd
}

func fieldList() string {
	names := make([]string, 0)
	for _, field := range form.Fields() {
		names = append(names, field.Name)
	}
	sort.Strings(names)
	return fmt.Sprint(names)
}
