package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/coffyg/heapsched"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a scenario file and print the timeline",
		Long: `Run the tasks of a YAML scenario through the scheduler.

Example scenario:

  end_time: 8
  tasks:
    - {id: A, priority: 5, arrival_time: 0, deadline: 10, duration: 2}
    - {id: B, priority: 9, arrival_time: 1, deadline: 5}

Any scenario key can also be set through HEAPSCHED_<KEY> environment
variables, e.g. HEAPSCHED_END_TIME=12.`,
		RunE: runSimulate,
	}

	cmd.Flags().StringP("file", "f", "", "Scenario file (YAML)")
	cmd.Flags().Int("end-time", -1, "Override the scenario end time")
	cmd.Flags().String("idle-marker", "", "Override the idle label")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the built-in four task scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			return runScenario(cmd, heapsched.DemoScenario(), verbose)
		},
	}
}

func runSimulate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	endTime, _ := cmd.Flags().GetInt("end-time")
	idle, _ := cmd.Flags().GetString("idle-marker")
	verbose, _ := cmd.Flags().GetBool("verbose")

	loader := heapsched.NewScenarioLoader()
	if endTime >= 0 {
		loader.SetOverride("end_time", endTime)
	}
	if idle != "" {
		loader.SetOverride("idle_marker", idle)
	}

	sc, err := loader.LoadFromPath(path)
	if err != nil {
		return err
	}
	return runScenario(cmd, sc, verbose)
}

func runScenario(cmd *cobra.Command, sc *heapsched.Scenario, verbose bool) error {
	logger, err := newLogger(cmd.ErrOrStderr(), sc.LogLevel, verbose)
	if err != nil {
		return err
	}

	s := heapsched.New(
		heapsched.WithLogger(&logger),
		heapsched.WithIdleMarker(sc.IdleMarker),
	)
	res, err := s.Run(sc.Tasks, sc.EndTime)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	printResult(cmd.OutOrStdout(), res)
	return nil
}

func printResult(w io.Writer, res *heapsched.Result) {
	labels := make([]string, len(res.Timeline))
	for i, label := range res.Timeline {
		if label == res.IdleMarker {
			labels[i] = color.New(color.Faint).Sprint(label)
		} else {
			labels[i] = color.CyanString(label)
		}
	}

	fmt.Fprintf(w, "Timeline: [%s]\n", strings.Join(labels, ", "))
	fmt.Fprintf(w, "Summary:  %s\n", res.Summary())
	fmt.Fprintf(w, "Busy:     %.0f%%\n", res.Utilization()*100)

	for _, d := range res.Dispatches {
		state := color.GreenString("done")
		if !d.Completed {
			state = color.YellowString("cut")
		}
		fmt.Fprintf(w, "  %-8s start=%-3d end=%-3d waited=%-3d %s\n", d.TaskID, d.Start, d.End, d.Waited(), state)
	}
	if len(res.Pending) > 0 {
		fmt.Fprintf(w, "Pending:  %s\n", color.YellowString(strings.Join(res.Pending, ", ")))
	}
	if len(res.Dropped) > 0 {
		fmt.Fprintf(w, "Dropped:  %s\n", color.RedString(strings.Join(res.Dropped, ", ")))
	}
}
