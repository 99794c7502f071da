// Command sortvis runs the instrumented sorting engine in a terminal:
// a bar-chart animation driven by the engine's step-event stream, or a
// headless run that prints final statistics.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/opd-ai/sortvis"
	"github.com/opd-ai/sortvis/element"
	"github.com/opd-ai/sortvis/engine"
	"github.com/opd-ai/sortvis/stats"
)

var flags struct {
	count      int
	algorithm  string
	descending bool
	delayMs    int
	seed       int64
	headless   bool
	verbose    bool
}

func main() {
	root := &cobra.Command{
		Use:   "sortvis",
		Short: "Sorting algorithm visualizer",
		Long: "sortvis animates sorting algorithms as a terminal bar chart,\n" +
			"driven by the engine's step-event stream. Keys: space pauses and\n" +
			"resumes, s single-steps while paused, r reshuffles, q quits.",
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.Flags().IntVarP(&flags.count, "count", "n", 64, "number of elements to sort")
	root.Flags().StringVarP(&flags.algorithm, "algorithm", "a", "bubble",
		"algorithm: "+algorithmList())
	root.Flags().BoolVar(&flags.descending, "descending", false, "sort in descending order")
	root.Flags().IntVarP(&flags.delayMs, "delay", "d", 15, "per-step delay in milliseconds")
	root.Flags().Int64Var(&flags.seed, "seed", 0, "shuffle seed (0 uses the clock)")
	root.Flags().BoolVar(&flags.headless, "headless", false,
		"run without the display at zero delay and print statistics")
	root.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sortvis:", err)
		os.Exit(1)
	}
}

func algorithmList() string {
	names := make([]string, 0, len(engine.Algorithms()))
	for _, a := range engine.Algorithms() {
		names = append(names, a.String())
	}
	return strings.Join(names, ", ")
}

func run(cmd *cobra.Command, args []string) error {
	if flags.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		// Keep the alternate screen clean; logs go to stderr only for
		// warnings and up.
		logrus.SetLevel(logrus.WarnLevel)
	}

	algo, err := engine.Parse(flags.algorithm)
	if err != nil {
		return err
	}

	opts := sortvis.NewOptions()
	opts.ElementCount = flags.count
	opts.Algorithm = algo
	opts.StepDelay = time.Duration(flags.delayMs) * time.Millisecond
	opts.Seed = flags.seed
	if flags.descending {
		opts.Direction = element.Descending
	}
	if flags.headless {
		opts.StepDelay = 0
	}

	viz, err := sortvis.New(opts)
	if err != nil {
		return err
	}

	if flags.headless {
		return runHeadless(viz)
	}

	model := newModel(viz, opts.StepDelay)
	program := tea.NewProgram(model, tea.WithAltScreen())
	viz.Subscribe(model.sink())
	viz.OnFinish(model.finish())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("display failed: %w", err)
	}
	return nil
}

// runHeadless executes the configured sort with no sink and zero delay,
// the pure-sort configuration of the same instrumented code path, then
// prints the derived statistics.
func runHeadless(viz *sortvis.Visualizer) error {
	done := make(chan engine.Outcome, 1)
	viz.OnFinish(func(outcome engine.Outcome, _ stats.Statistics) {
		done <- outcome
	})
	if err := viz.Start(); err != nil {
		return err
	}
	outcome := <-done

	s := viz.Statistics()
	fmt.Printf("%s %s: %s\n", viz.Algorithm(), viz.Direction(), outcome)
	fmt.Printf("  comparisons: %d\n", s.Comparisons)
	fmt.Printf("  swaps:       %d\n", s.Swaps)
	fmt.Printf("  accesses:    %d\n", s.ElementAccesses)
	fmt.Printf("  elapsed:     %s\n", s.Elapsed.Round(time.Microsecond))
	return nil
}
