package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"csorder/internal/prof"
	"csorder/internal/trace"
)

// runState holds what setupRun started and teardownRun must stop.
type runState struct {
	tracer    trace.Tracer
	heartbeat *trace.Heartbeat
	profiler  *prof.Session
	done      bool
}

var (
	state runState
	// logger пишет служебные сообщения CLI в stderr
	logger = zerolog.Nop()
)

func setupRun(cmd *cobra.Command, args []string) error {
	state = runState{}
	if err := setupLogger(cmd); err != nil {
		return err
	}
	if err := setupTracing(cmd); err != nil {
		return err
	}
	return setupProfiling(cmd)
}

// setupLogger: warn по умолчанию, info с --verbose, ничего с --quiet.
func setupLogger(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	colored, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}
	level := zerolog.WarnLevel
	switch {
	case quiet:
		level = zerolog.Disabled
	case verbose:
		level = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{
		Out:        cmd.ErrOrStderr(),
		NoColor:    !colored,
		TimeFormat: time.TimeOnly,
	}
	logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
	return nil
}

// setupTracing inspects trace-related flags and attaches a tracer to the
// command context.
func setupTracing(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	traceOutput, err := flags.GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatInterval, err := flags.GetDuration("trace-heartbeat")
	if err != nil {
		return fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return fmt.Errorf("invalid trace mode: %w", err)
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: traceOutput,
		RingSize:   ringSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)
	state.tracer = tracer
	if heartbeatInterval > 0 {
		state.heartbeat = trace.StartHeartbeat(tracer, heartbeatInterval)
	}
	logger.Info().Str("level", levelStr).Str("mode", modeStr).Msg("tracing enabled")
	return nil
}

func setupProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	cpuProfile, err := flags.GetString("cpu-profile")
	if err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	memProfile, err := flags.GetString("mem-profile")
	if err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	tracePath, err := flags.GetString("runtime-trace")
	if err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	session, err := prof.Start(prof.Config{CPU: cpuProfile, Heap: memProfile, Trace: tracePath})
	if err != nil {
		return err
	}
	state.profiler = session
	return nil
}

// teardownRun stops profiling and flushes the tracer. On failure a ring
// tracer dumps its recent events to stderr. Safe to call twice.
func teardownRun(cmd *cobra.Command, runErr error) {
	if state.done {
		return
	}
	state.done = true
	if state.profiler != nil {
		if err := state.profiler.Stop(); err != nil {
			logger.Warn().Err(err).Msg("profiling")
		}
	}
	if state.heartbeat != nil {
		state.heartbeat.Stop()
	}
	if state.tracer == nil {
		return
	}
	if runErr != nil {
		if ring := trace.RingOf(state.tracer); ring != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "== trace (last events) ==")
			_ = ring.Dump(cmd.ErrOrStderr(), trace.FormatText)
		}
	}
	if err := state.tracer.Flush(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
	}
	if err := state.tracer.Close(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
	}
}
