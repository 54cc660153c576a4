package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ablpp/internal/trace"
)

type traceFlags struct {
	output   string
	level    trace.Level
	mode     trace.StorageMode
	format   trace.Format
	ringSize int
}

func readTraceFlags(cmd *cobra.Command) (traceFlags, error) {
	pf := cmd.Root().PersistentFlags()
	var tf traceFlags
	var err error
	if tf.output, err = pf.GetString("trace"); err != nil {
		return tf, fmt.Errorf("failed to get trace flag: %w", err)
	}
	str := func(name string) string {
		v, e := pf.GetString(name)
		if e != nil && err == nil {
			err = fmt.Errorf("failed to get %s flag: %w", name, e)
		}
		return v
	}
	levelStr, modeStr, formatStr := str("trace-level"), str("trace-mode"), str("trace-format")
	if err != nil {
		return tf, err
	}
	if tf.ringSize, err = pf.GetInt("trace-ring-size"); err != nil {
		return tf, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	if tf.level, err = trace.ParseLevel(levelStr); err != nil {
		return tf, err
	}
	// --trace без уровня включает фазы
	if tf.level == trace.LevelOff && tf.output != "" {
		tf.level = trace.LevelPhase
	}
	if tf.mode, err = trace.ParseMode(modeStr); err != nil {
		return tf, err
	}
	if tf.format, err = trace.ParseFormat(formatStr); err != nil {
		return tf, err
	}
	return tf, nil
}

// setupTracing builds the tracer from the persistent flags and stores it
// in the command context. The cleanup dumps the ring to stderr when the
// run failed.
func setupTracing(cmd *cobra.Command) (func(failed bool), error) {
	tf, err := readTraceFlags(cmd)
	if err != nil {
		return nil, err
	}
	root := cmd.Root()
	if tf.level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func(bool) {}, nil
	}
	interval, err := root.PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	tracer, err := trace.New(trace.Config{
		Level:      tf.level,
		Mode:       tf.mode,
		Format:     tf.format,
		OutputPath: tf.output,
		RingSize:   tf.ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	root.SetContext(ctx)

	heartbeat := trace.StartHeartbeat(tracer, interval)
	return func(failed bool) {
		heartbeat.Stop()
		if ring := trace.RingOf(tracer); failed && ring != nil {
			format := tf.format
			if format == trace.FormatAuto {
				format = trace.FormatText
			}
			fmt.Fprintln(os.Stderr, "trace: last events before failure")
			if err := ring.Dump(os.Stderr, format); err != nil {
				fmt.Fprintf(os.Stderr, "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "trace: close error: %v\n", err)
		}
	}, nil
}
