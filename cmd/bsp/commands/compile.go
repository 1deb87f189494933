package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"go.trai.ch/bsp/internal/adapters/notify"
	"go.trai.ch/bsp/internal/app"
	"go.trai.ch/bsp/internal/core/domain"
)

func (c *CLI) newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [targets...]",
		Short: "Compile the specified build targets",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}

			originID, _ := cmd.Flags().GetString("origin-id")
			arguments, _ := cmd.Flags().GetStringArray("arg")
			progress, _ := cmd.Flags().GetBool("progress")
			natsURL, _ := cmd.Flags().GetString("nats-url")
			natsSubject, _ := cmd.Flags().GetString("nats-subject")
			metricsOut, _ := cmd.Flags().GetString("metrics-out")
			trace, _ := cmd.Flags().GetBool("trace")

			res, err := c.app.Compile(cmd.Context(), args, app.CompileOptions{
				OriginID:    originID,
				Arguments:   arguments,
				Progress:    progress,
				NATSURL:     natsURL,
				NATSSubject: natsSubject,
				MetricsOut:  metricsOut,
				Trace:       trace,
			})
			if res != nil {
				if encErr := json.NewEncoder(cmd.OutOrStdout()).Encode(res); encErr != nil && err == nil {
					err = encErr
				}
			}
			if err != nil {
				return err
			}
			if !res.StatusCode.OK() {
				return domain.ErrCompileFailed
			}
			return nil
		},
	}
	cmd.Flags().String("origin-id", "", "Origin id echoed in the result and in compile reports")
	cmd.Flags().StringArray("arg", nil, "Argument passed along with every backend request (repeatable)")
	cmd.Flags().BoolP("progress", "p", false, "Render task progress to stderr")
	cmd.Flags().String("nats-url", "", "Publish task notifications to this NATS server")
	cmd.Flags().String("nats-subject", notify.DefaultSubjectPrefix, "Subject prefix for NATS notifications")
	cmd.Flags().String("metrics-out", "", "Write Prometheus metrics to this file after the run")
	cmd.Flags().Bool("trace", false, "Log every span with its duration")
	return cmd
}
