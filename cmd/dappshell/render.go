package main

import (
	"fmt"
	"log/slog"

	"dappshell/internal/appstate"
	"dappshell/internal/connector"
	"dappshell/internal/probe"
	"dappshell/internal/retry"
	"dappshell/internal/view"

	"github.com/spf13/cobra"
)

var (
	renderWidth    int
	renderConnect  bool
	renderMarkdown bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the page shell to the terminal",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().IntVar(&renderWidth, "width", 80, "Word wrap width")
	renderCmd.Flags().BoolVar(&renderConnect, "connect", false, "Bind the contract and probe it before rendering")
	renderCmd.Flags().BoolVar(&renderMarkdown, "markdown", false, "Print raw markdown instead of styled output")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	shell, err := view.NewShell()
	if err != nil {
		return err
	}

	store := appstate.NewStore()
	data := view.Data{
		RPCURL:    cfg.RPCURL,
		ChainKind: cfg.ChainKind,
	}

	if renderConnect {
		backend, err := newBackend(ctx, cfg)
		if err != nil {
			return err
		}
		defer backend.Close()

		strategy := retry.NewStrategy(cfg.Retry.Strategy())
		if err := connector.New(backend, store, strategy, cfg.WatchInterval).Connect(ctx); err != nil {
			// The shell renders regardless of contract state
			slog.Warn("Rendering without contract", "error", err)
		} else {
			outcome, err := probe.NewProber(cfg.CallTimeout).Run(ctx, store.Snapshot())
			if err != nil {
				slog.Warn("Session probe failed", "error", err)
			}
			data.Latest = outcome
		}
	}
	data.State = store.Snapshot().View()

	var out string
	if renderMarkdown {
		out, err = shell.RenderMarkdown(data)
	} else {
		out, err = shell.RenderTerminal(data, renderWidth)
	}
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
