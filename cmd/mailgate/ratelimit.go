package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	mailgate "github.com/mailgate/client-go"
	"github.com/mailgate/client-go/internal/config"
)

// ratelimitCmd probes the service's request-rate ceiling with a burst of
// submissions and reports where the first 429 lands.
var ratelimitCmd = &cobra.Command{
	Use:   "ratelimit <recipient>",
	Short: "Probe the send rate limit with a submission burst",
	Long: `Probe the service's request-rate ceiling.

Issues a burst of sequential send submissions with automatic retries
disabled, so the first 429 surfaces exactly where the limit sits instead of
being masked by backoff. The burst stops at the first 429; other errors are
recorded and the burst continues.

Example:
  mailgate ratelimit test@example.com --count 35`,
	Args: cobra.ExactArgs(1),
	RunE: runRatelimit,
}

func init() {
	rootCmd.AddCommand(ratelimitCmd)

	ratelimitCmd.Flags().Int("count", 35, "number of submissions in the burst")
}

func runRatelimit(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	recipient := args[0]
	count, _ := cmd.Flags().GetInt("count")

	// Retries stay off for the whole burst; the probe is a measurement, not
	// a delivery attempt.
	client, err := mailgate.New(cfg.ConnectionString, mailgate.WithoutRetries())
	if err != nil {
		return err
	}

	fmt.Printf("Probing rate limit: %d submissions from %s to %s\n\n", count, cfg.SenderAddress, recipient)

	probe := mailgate.NewRateLimitProbe(client,
		mailgate.WithBurstSize(count),
		mailgate.WithProbeProgress(func(r mailgate.ProbeResult) {
			switch r.Outcome {
			case mailgate.ProbeAccepted:
				fmt.Printf("[%d/%d] accepted in %v (operation %s)\n", r.Sequence, count, r.Elapsed, r.OperationID)
			case mailgate.ProbeThrottled:
				fmt.Printf("[%d/%d] throttled in %v (HTTP %d)\n", r.Sequence, count, r.Elapsed, r.StatusCode)
			default:
				logger.Warn("submission failed",
					zap.Int("sequence", r.Sequence),
					zap.Error(r.Err))
			}
		}),
	)

	msg := &mailgate.Message{
		SenderAddress: cfg.SenderAddress,
		Recipients:    mailgate.Recipients{To: []mailgate.Address{{Address: recipient}}},
		Subject:       "Rate limit probe",
		PlainText:     "This is a rate limit probe message.",
	}

	report, err := probe.Run(cmd.Context(), msg)
	if err != nil {
		return err
	}

	fmt.Println("\nProbe summary")
	fmt.Println("-------------")
	fmt.Printf("Accepted: %d\n", report.Accepted)
	fmt.Printf("Failed:   %d\n", report.Failed)
	fmt.Printf("Elapsed:  %v\n", report.Elapsed)

	if report.Throttled() {
		fmt.Printf("\nThrottled at submission #%d (%d accepted before the limit)\n",
			report.ThrottledAt, report.Accepted)
		fmt.Println("Rate limit response headers:")
		printHeaders(report)
	} else {
		fmt.Println("\nBurst completed without throttling")
	}

	return nil
}

func printHeaders(report *mailgate.ProbeReport) {
	keys := make([]string, 0, len(report.Throttle.Headers))
	for k := range report.Throttle.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range report.Throttle.Headers[k] {
			fmt.Printf("  %s: %s\n", k, v)
		}
	}
}
