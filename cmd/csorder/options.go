package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"csorder/internal/diag"
	"csorder/internal/driver"
	"csorder/internal/policy"
	"csorder/internal/rules"
	"csorder/internal/ui"
)

// loadPolicy reads --config or discovers the policy file next to target.
func loadPolicy(cmd *cobra.Command, target string) (*policy.Policy, error) {
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath != "" {
		cfg, err := policy.LoadFile(configPath)
		if err != nil {
			return nil, err
		}
		pol, err := policy.Resolve(cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", configPath, err)
		}
		logger.Info().Str("path", configPath).Msg("policy loaded")
		return pol, nil
	}
	pol, path, err := policy.Load(target)
	if err != nil {
		return nil, err
	}
	if path == "" {
		logger.Info().Msg("no policy file found, using defaults")
	} else {
		logger.Info().Str("path", path).Msg("policy loaded")
	}
	return pol, nil
}

// parseDisabled maps --disable IDs (SA1201, sa1210) to codes.
func parseDisabled(ids []string) ([]diag.Code, error) {
	var codes []diag.Code
	for _, raw := range ids {
		id := strings.ToUpper(strings.TrimSpace(raw))
		if id == "" {
			continue
		}
		code, ok := diag.ParseID(id)
		if !ok || !code.IsOrdering() {
			return nil, fmt.Errorf("unknown rule %q in --disable", raw)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// addRuleFlags registers the flags shared by diag and fix.
func addRuleFlags(cmd *cobra.Command) {
	cmd.Flags().String("strategy", "relocate", "member fix strategy (relocate|sort)")
	cmd.Flags().StringSlice("disable", nil, "rule IDs to disable (e.g. SA1201,SA1210)")
}

// baseDiagnoseOptions collects the options common to diag and fix.
func baseDiagnoseOptions(cmd *cobra.Command, pol *policy.Policy) (driver.DiagnoseOptions, error) {
	var opts driver.DiagnoseOptions
	root := cmd.Root().PersistentFlags()

	maxDiagnostics, err := root.GetInt("max-diagnostics")
	if err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := root.GetBool("timings")
	if err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	strategyStr, err := cmd.Flags().GetString("strategy")
	if err != nil {
		return opts, fmt.Errorf("failed to get strategy flag: %w", err)
	}
	strategy, err := rules.ParseStrategy(strategyStr)
	if err != nil {
		return opts, err
	}
	disabledIDs, err := cmd.Flags().GetStringSlice("disable")
	if err != nil {
		return opts, fmt.Errorf("failed to get disable flag: %w", err)
	}
	disabled, err := parseDisabled(disabledIDs)
	if err != nil {
		return opts, err
	}

	return driver.DiagnoseOptions{
		Stage:          driver.DiagnoseStageAll,
		Policy:         pol,
		Rules:          rules.Options{Strategy: strategy, Disabled: disabled},
		MaxDiagnostics: maxDiagnostics,
		EnableTimings:  showTimings,
	}, nil
}

func jobsFlag(cmd *cobra.Command) (int, error) {
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return 0, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	return jobs, nil
}

// wantsUI resolves --ui for the current terminal.
func wantsUI(cmd *cobra.Command) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("ui")
	if err != nil {
		return false, fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(value)
	if err != nil {
		return false, err
	}
	return shouldUseTUI(mode), nil
}

// logSink reports finished files through the CLI logger.
type logSink struct{}

func (logSink) OnEvent(ev driver.Event) {
	switch ev.Status {
	case driver.StatusError:
		logger.Warn().Str("file", ev.File).Err(ev.Err).Msg(string(ev.Stage))
	case driver.StatusDone, driver.StatusDirty:
		logger.Info().Str("file", ev.File).Str("status", string(ev.Status)).Dur("elapsed", ev.Elapsed).Msg(string(ev.Stage))
	}
}

type runOutcome[T any] struct {
	result T
	err    error
}

// runDirectory runs fn with a progress sink; with useUI the progress view
// owns the terminal until fn returns.
func runDirectory[T any](ctx context.Context, title, dir string, useUI bool, fn func(ctx context.Context, sink driver.ProgressSink) (T, error)) (T, error) {
	if !useUI {
		return fn(ctx, logSink{})
	}
	files, err := driver.ListSources(dir)
	if err != nil {
		var zero T
		return zero, err
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan runOutcome[T], 1)
	go func() {
		res, err := fn(ctx, driver.ChannelSink{Ch: events})
		outcomeCh <- runOutcome[T]{result: res, err: err}
		close(events)
	}()

	program := tea.NewProgram(ui.NewProgressModel(title, files, events), tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// view may quit early on ctrl+c: drain events so the runner does not block
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
