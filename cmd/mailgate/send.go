package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	mailgate "github.com/mailgate/client-go"
	"github.com/mailgate/client-go/internal/config"
)

const (
	defaultSubject = "MailGate test message"
	defaultBody    = "This is a test message from MailGate."

	// waitGrace bounds how long the main goroutine waits for the watch
	// goroutine beyond the poll deadline before giving up on it.
	waitGrace = 5 * time.Second
)

// sendCmd submits one message and tracks it to a terminal state.
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a message and track it to completion",
	Long: `Submit a message and track the send operation to a terminal state.

Prompts for the recipient address, subject and body on stdin. By default the
command blocks, polling until the operation succeeds, fails or the wait
timeout elapses. With --watch the polling runs on a dedicated goroutine and
every status snapshot is printed as it is observed.`,
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().Bool("watch", false, "stream every status snapshot instead of blocking")
	sendCmd.Flags().Duration("timeout", 60*time.Second, "overall wait deadline")
	sendCmd.Flags().Duration("interval", 2*time.Second, "pause between status reads")
}

func runSend(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	watch, _ := cmd.Flags().GetBool("watch")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	interval, _ := cmd.Flags().GetDuration("interval")

	msg, err := promptMessage(cfg.SenderAddress)
	if err != nil {
		return err
	}

	client, err := mailgate.New(cfg.ConnectionString)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	fmt.Printf("Submitting message from %s to %s...\n", msg.SenderAddress, msg.Recipients.To[0].Address)
	op, err := client.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fmt.Printf("Operation accepted: %s\n\n", op.ID())

	waitOpts := []mailgate.WaitOption{
		mailgate.WithWaitTimeout(timeout),
		mailgate.WithPollInterval(interval),
	}

	var snap *mailgate.SendSnapshot
	if watch {
		snap, err = watchSend(ctx, op, waitOpts, timeout, logger)
	} else {
		snap, err = op.Wait(ctx, waitOpts...)
	}
	if err != nil {
		return err
	}

	printResult(snap, logger)
	return nil
}

// watchSend runs the reactive flow: polling happens on the watcher's
// goroutine, snapshots are printed as they arrive, and the main goroutine
// blocks only on the final signal, with a bounded wait.
func watchSend(ctx context.Context, op *mailgate.SendOperation, opts []mailgate.WaitOption, timeout time.Duration, logger *zap.Logger) (*mailgate.SendSnapshot, error) {
	watcher := op.Watch(ctx, opts...)

	go func() {
		n := 0
		for {
			select {
			case <-watcher.Done():
				return
			case snap := <-watcher.Snapshots():
				n++
				fmt.Printf("[poll #%d] status=%s", n, snap.Status)
				if snap.SendStatus != "" {
					fmt.Printf(" sendStatus=%s", snap.SendStatus)
				}
				fmt.Println()
			}
		}
	}()

	waitCtx, cancel := context.WithTimeout(ctx, timeout+waitGrace)
	defer cancel()

	snap, err := watcher.Wait(waitCtx)
	if err != nil {
		if waitCtx.Err() != nil {
			// Recoverable: the watcher has been cancelled and its goroutine
			// released; report and move on to cleanup.
			logger.Warn("gave up waiting for the watch to finish",
				zap.Duration("after", timeout+waitGrace))
			return nil, err
		}
		return nil, err
	}
	return snap, nil
}

// promptMessage reads the recipient, subject and body from stdin. An empty
// recipient is a hard stop; subject and body fall back to fixed defaults.
func promptMessage(sender string) (*mailgate.Message, error) {
	in := bufio.NewScanner(os.Stdin)

	recipient := prompt(in, "Recipient address: ")
	if recipient == "" {
		return nil, fmt.Errorf("recipient address is required")
	}

	subject := prompt(in, fmt.Sprintf("Subject (default: %s): ", defaultSubject))
	if subject == "" {
		subject = defaultSubject
	}

	body := prompt(in, fmt.Sprintf("Body (default: %s): ", defaultBody))
	if body == "" {
		body = defaultBody
	}

	return &mailgate.Message{
		SenderAddress: sender,
		Recipients:    mailgate.Recipients{To: []mailgate.Address{{Address: recipient}}},
		Subject:       subject,
		PlainText:     body,
		HTML:          fmt.Sprintf("<html><body><h1>%s</h1><p>%s</p></body></html>", subject, body),
	}, nil
}

func prompt(in *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

// printResult reports the final snapshot. A timed-out wait is a warning, not
// a failure: the operation may still be progressing server-side.
func printResult(snap *mailgate.SendSnapshot, logger *zap.Logger) {
	if snap.TimedOut {
		logger.Warn("wait deadline elapsed before a terminal state",
			zap.String("operation_id", snap.OperationID),
			zap.String("last_status", string(snap.Status)))
		return
	}

	fmt.Println("\nFinal result")
	fmt.Println("------------")
	fmt.Printf("Operation ID: %s\n", snap.OperationID)
	fmt.Printf("Status:       %s\n", snap.Status)
	if snap.SendStatus != "" {
		fmt.Printf("Send status:  %s\n", snap.SendStatus)
	}
	if snap.Failed() {
		fmt.Printf("Error code:   %s\n", snap.ErrorCode)
		fmt.Printf("Error:        %s\n", snap.ErrorMessage)
	}
}
