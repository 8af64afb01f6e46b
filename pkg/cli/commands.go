// Package cli implements the opendrop commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/opendrop/pkg/errors"
	"github.com/DeBrosOfficial/opendrop/pkg/logging"
	"github.com/DeBrosOfficial/opendrop/pkg/peer"
	"github.com/DeBrosOfficial/opendrop/pkg/report"
	"github.com/DeBrosOfficial/opendrop/pkg/resolver"
)

// HandleFindCommand handles the find command
func HandleFindCommand(args []string) {
	run(NewFindCmd(), args)
}

// HandleSendCommand handles the send command
func HandleSendCommand(args []string) {
	run(NewSendCmd(), args)
}

// HandlePeersCommand handles the peers command
func HandlePeersCommand(args []string) {
	run(NewPeersCmd(), args)
}

// HandleRawCommand handles discover, ask, upload and askupload
func HandleRawCommand(name string, args []string) {
	run(NewRawCmd(name), args)
}

// HandleReceiveCommand reports that receiving is not available.
func HandleReceiveCommand(args []string) {
	exitWithError(errors.NewValidationError("command", "receive is not supported by this client", "receive"))
}

func run(cmd *cobra.Command, args []string) {
	if err := Execute(context.Background(), cmd, args); err != nil {
		exitWithError(err)
	}
}

// Execute runs cmd with args. Flag and argument errors come back as
// validation errors.
func Execute(ctx context.Context, cmd *cobra.Command, args []string) error {
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return errors.NewValidationError("flags", err.Error(), nil)
	})
	return cmd.ExecuteContext(ctx)
}

func exitWithError(err error) {
	printError(os.Stderr, err)
	os.Exit(errors.ExitCode(err))
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errorStyle.Render("Error:"), err)
	if hint := errors.Hint(err); hint != "" {
		fmt.Fprintf(w, "  %s\n", mutedStyle.Render(hint))
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return errors.NewValidationError("args", fmt.Sprintf("unexpected argument %q", args[0]), args)
	}
	return nil
}

func required(field, value string) error {
	if value == "" {
		return errors.NewValidationError(field, "is required", nil)
	}
	return nil
}

// NewFindCmd creates the find command
func NewFindCmd() *cobra.Command {
	var opts Options
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Look for receivers and save them to the discovery report",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load()
			if err != nil {
				return err
			}
			if err := e.cfg.PrepareReportDir(); err != nil {
				return errors.NewValidationError("config", err.Error(), e.cfg.Discovery.ReportPath)
			}
			// The mDNS resolver reports through package log.
			log.SetOutput(logging.NewStandardLogger(e.logger, logging.ComponentBrowser))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render("Looking for receivers. Press Ctrl+C to stop ..."))
			if err := RunDiscovery(ctx, e.cfg, newDeps(e)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Discovery report written to %s\n", e.cfg.Discovery.ReportPath)
			return nil
		},
	}

	opts.bind(cmd)
	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long (default: until interrupted)")
	return cmd
}

// NewSendCmd creates the send command
func NewSendCmd() *cobra.Command {
	var opts Options
	var file, receiver string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a file to a receiver from the last discovery report",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := required("file", file); err != nil {
				return err
			}
			if err := required("receiver", receiver); err != nil {
				return err
			}

			e, err := opts.load()
			if err != nil {
				return err
			}

			store := report.NewStore(e.cfg.Discovery.ReportPath, e.logger)
			rec, err := resolver.New(store, e.cfg.Discovery.StaleAfter, e.logger).ResolveReceiver(receiver)
			if err != nil {
				e.logger.ComponentError(logging.ComponentCLI, "Cannot resolve receiver",
					zap.String("receiver", receiver),
					zap.String("code", errors.GetErrorCode(err)),
					zap.String("reason", errors.GetErrorMessage(err)))
				return err
			}

			return askAndUpload(cmd.Context(), cmd.OutOrStdout(), e, rec.Endpoint(), rec.DisplayName(), file, "")
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVarP(&file, "file", "f", "", "file to be sent")
	cmd.Flags().StringVarP(&receiver, "receiver", "r", "", "peer to send file to (can be index, ID, or hostname)")
	return cmd
}

// askAndUpload asks the receiver at ep and uploads when it accepts. A
// declined request is not an error.
func askAndUpload(ctx context.Context, out io.Writer, e *env, ep peer.Endpoint, name, file, rawCPIO string) error {
	c := e.client

	e.logger.ComponentInfo(logging.ComponentCLI, "Asking receiver to accept",
		zap.String("receiver", name), zap.String("endpoint", ep.String()))

	accepted, err := c.Ask(ctx, ep, file, e.payload)
	if err != nil {
		return err
	}
	if !accepted {
		e.logger.ComponentWarn(logging.ComponentCLI, "Transfer has been declined",
			zap.String("receiver", name))
		fmt.Fprintln(out, warnStyle.Render("Transfer has been declined"))
		return nil
	}

	fmt.Fprintln(out, "Receiver accepted, uploading ...")
	if err := c.Upload(ctx, ep, file, rawCPIO); err != nil {
		return err
	}
	fmt.Fprintln(out, successStyle.Render("Uploaded successfully"))
	return nil
}

// NewRawCmd creates one of the commands that talk to an explicit endpoint:
// discover, ask, upload or askupload.
func NewRawCmd(name string) *cobra.Command {
	var opts Options
	var address, file, rawCPIO string
	var port int

	short := map[string]string{
		"discover":  "Send a discover request to an address",
		"ask":       "Send an ask request to an address",
		"upload":    "Upload a file to an address",
		"askupload": "Send an ask request and upload a file to an address",
	}[name]

	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := required("address", address); err != nil {
				return err
			}
			e, err := opts.load()
			if err != nil {
				return err
			}
			if port == 0 {
				port = e.cfg.Client.Port
			}
			ep := peer.Endpoint{Address: address, Port: port}
			out := cmd.OutOrStdout()
			c := e.client

			switch name {
			case "discover":
				receiver, err := c.Discover(cmd.Context(), ep, e.payload)
				if err != nil {
					return err
				}
				if receiver == "" {
					fmt.Fprintln(out, mutedStyle.Render("Receiver answered without a name"))
					return nil
				}
				fmt.Fprintf(out, "Receiver name: %s\n", receiver)
				return nil

			case "ask":
				if err := required("file", file); err != nil {
					return err
				}
				accepted, err := c.Ask(cmd.Context(), ep, file, e.payload)
				if err != nil {
					return err
				}
				if accepted {
					fmt.Fprintln(out, successStyle.Render("Receiver accepted"))
				} else {
					fmt.Fprintln(out, warnStyle.Render("Transfer has been declined"))
				}
				return nil

			case "upload":
				if file == "" && rawCPIO == "" {
					return errors.NewValidationError("file", "upload needs -f/--file or -R/--rawcpio", nil)
				}
				if err := c.Upload(cmd.Context(), ep, file, rawCPIO); err != nil {
					return err
				}
				fmt.Fprintln(out, successStyle.Render("Uploaded successfully"))
				return nil

			default:
				if err := required("file", file); err != nil {
					return err
				}
				return askAndUpload(cmd.Context(), out, e, ep, address, file, rawCPIO)
			}
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVarP(&address, "address", "A", "", "receiver address")
	cmd.Flags().IntVarP(&port, "port", "P", 0, "receiver port (default 8770)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "file to be sent")
	cmd.Flags().StringVarP(&rawCPIO, "rawcpio", "R", "", "send a prepared cpio archive as is")
	return cmd
}
