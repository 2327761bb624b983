package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"mlfq/internal/logging"
	"mlfq/internal/sched"
	"mlfq/internal/sim"
)

func newRunCmd() *cobra.Command {
	var (
		scenarioPath string
		csvPath      string
		ticks        int
		realtime     bool
		quiet        bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scenario and print the schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := sim.LoadScenario(scenarioPath)
			if err != nil {
				return err
			}
			if ticks > 0 {
				sc.Ticks = ticks
			}

			log, runID := logging.WithRunID(logger)
			out := cmd.OutOrStdout()

			var sinks []sched.EventSink
			if !quiet {
				sinks = append(sinks, &consoleSink{w: out})
			}
			if csvPath != "" {
				trace, err := sched.NewCSVTrace(csvPath, runID)
				if err != nil {
					return fmt.Errorf("open trace: %w", err)
				}
				defer trace.Close()
				sinks = append(sinks, trace)
			}

			m, err := sim.NewMachine(sc, log, sinks...)
			if err != nil {
				return err
			}

			if realtime {
				interval := time.Duration(sc.TickMS) * time.Millisecond
				if err := m.RunRealtime(cmd.Context(), interval, sc.Ticks); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
			} else {
				m.Run(sc.Ticks)
			}

			log.Info("run finished", "ticks", m.Clock().Count())
			return printReport(out, m.Report())
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "scenario.yml", "Scenario file")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Write every scheduler event to this CSV file")
	cmd.Flags().IntVar(&ticks, "ticks", 0, "Override the scenario's tick count")
	cmd.Flags().BoolVar(&realtime, "realtime", false, "Drive the clock with a real ticker (tick_ms)")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Only print the final report")
	return cmd
}

// consoleSink prints one line per scheduler event.
type consoleSink struct {
	w io.Writer
}

func (c *consoleSink) Record(ev sched.StatusEvent) {
	// an auxiliary function to center the event kind in the output
	center := func(str string, width int) string {
		spaces := (width - len(str)) / 2
		return strings.Repeat(" ", spaces) + str + strings.Repeat(" ", width-(spaces+len(str)))
	}

	fmt.Fprintf(c.w, "%s = Tick: %07d [%s] => PID: %04d %-12s level=%d quantum=%d\n",
		ev.Time.Format("Jan 02 15:04:05.000"),
		ev.Tick,
		center(ev.Kind.String(), 12),
		ev.PID,
		ev.Name,
		ev.Level,
		ev.Quantum,
	)
}

func printReport(w io.Writer, stats []sim.Stats) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PID\tNAME\tSTATE\tLEVEL\tRAN\tDISPATCHED\tSIGNALS")
	for _, st := range stats {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%d\n",
			st.PID, st.Name, st.State, st.Level, st.Ran, st.Dispatched, st.Signals)
	}
	return tw.Flush()
}
