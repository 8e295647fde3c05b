package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/eulerlab/internal/analysis"
	"github.com/san-kum/eulerlab/internal/config"
	"github.com/san-kum/eulerlab/internal/dynamo"
	"github.com/san-kum/eulerlab/internal/experiment"
	"github.com/san-kum/eulerlab/internal/logger"
	"github.com/san-kum/eulerlab/internal/metrics"
	"github.com/san-kum/eulerlab/internal/solver"
	"github.com/san-kum/eulerlab/internal/storage"
	"github.com/san-kum/eulerlab/internal/viz"
)

var (
	dataDir string
	debug   bool

	start   float64
	end     float64
	dt      float64
	x0      float64
	v0      float64
	schemes []string

	h0       float64
	duration float64
	samples  int
	scheme   string

	plots   []string
	format  string
	outDir  string
	noSave  bool
	preset  string
	cfgFile string

	plotWidth   int
	plotHeight  int
	phaseWidth  int
	phaseHeight int
	truncHeight int

	closeLog func() error
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "eulerlab",
		Short:         "euler integrators for the harmonic oscillator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			closeLog, err = logger.Setup(logger.Config{Debug: debug})
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if closeLog == nil {
				return nil
			}
			return closeLog()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate, compare against the exact solution, save and plot",
		Args:  cobra.NoArgs,
		RunE:  runExperiment,
	}
	addRangeFlags(runCmd)
	runCmd.Flags().StringSliceVar(&schemes, "schemes", []string{"explicit", "implicit", "symplectic"}, "schemes to run")
	runCmd.Flags().Float64Var(&h0, "h0", config.DefaultDt, "largest truncation step size")
	runCmd.Flags().Float64Var(&duration, "trunc-time", config.DefaultDuration, "truncation sweep duration")
	runCmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "truncation step sizes")
	runCmd.Flags().StringSliceVar(&plots, "plot", nil, "plots: position,velocity,error,energy,phase,truncation,all")
	runCmd.Flags().StringVar(&format, "format", config.DefaultFormat, "plot format: png, svg or html")
	runCmd.Flags().StringVar(&outDir, "out", "plots", "plot output directory")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().StringVar(&cfgFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "terminal plots of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&plots, "plot", []string{"position", "error", "energy"}, "plots to draw")
	plotCmd.Flags().IntVar(&plotWidth, "width", 70, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 12, "plot height")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase-space plot of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&phaseWidth, "width", 60, "plot width")
	phaseCmd.Flags().IntVar(&phaseHeight, "height", 24, "plot height")

	truncCmd := &cobra.Command{
		Use:   "truncation",
		Short: "maximum error over halving step sizes",
		Args:  cobra.NoArgs,
		RunE:  truncationSweep,
	}
	truncCmd.Flags().Float64Var(&h0, "h0", config.DefaultDt, "largest step size")
	truncCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	truncCmd.Flags().Float64Var(&x0, "x0", config.DefaultX0, "initial position")
	truncCmd.Flags().Float64Var(&v0, "v0", config.DefaultV0, "initial velocity")
	truncCmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "number of step sizes")
	truncCmd.Flags().StringVar(&scheme, "scheme", string(solver.SchemeExplicit), "scheme")
	truncCmd.Flags().IntVar(&truncHeight, "height", 10, "plot height")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare every scheme against the exact solution",
		Args:  cobra.NoArgs,
		RunE:  compareSchemes,
	}
	addRangeFlags(compareCmd)

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "print saved trajectories as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "print a saved run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, phaseCmd, truncCmd, compareCmd, exportCSVCmd, exportJSONCmd, presetsCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		// PersistentPostRunE does not run after a failed RunE.
		if closeLog != nil {
			closeLog()
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&start, "start", config.DefaultStart, "start time")
	cmd.Flags().Float64Var(&end, "end", config.DefaultEnd, "end time")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "step size")
	cmd.Flags().Float64Var(&x0, "x0", config.DefaultX0, "initial position")
	cmd.Flags().Float64Var(&v0, "v0", config.DefaultV0, "initial velocity")
}

// buildConfig layers preset, config file and explicitly set flags, in that
// order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("start") {
		cfg.Start = start
	}
	if flags.Changed("end") {
		cfg.End = end
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("x0") {
		cfg.X0 = x0
	}
	if flags.Changed("v0") {
		cfg.V0 = v0
	}
	if flags.Changed("schemes") {
		cfg.Schemes = schemes
	}
	if flags.Changed("h0") {
		cfg.Truncation.H0 = h0
	}
	if flags.Changed("trunc-time") {
		cfg.Truncation.Duration = duration
	}
	if flags.Changed("samples") {
		cfg.Truncation.Samples = samples
	}
	if flags.Changed("plot") {
		if err := cfg.EnablePlots(plots); err != nil {
			return nil, err
		}
	}
	if flags.Changed("format") {
		cfg.Output.Format = format
	}
	if flags.Changed("out") {
		cfg.Output.Dir = outDir
	}
	if flags.Changed("data") || cfg.Output.DataDir == "" {
		cfg.Output.DataDir = dataDir
	}

	return cfg, cfg.Validate()
}

func runExperiment(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("integrating x'' = -x on [%g, %g], h=%g, (x0, v0) = (%g, %g)\n", cfg.Start, cfg.End, cfg.Dt, cfg.X0, cfg.V0)
	began := time.Now()

	report, err := experiment.New(cfg).Run(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(began))

	summaries := make([]storage.SchemeSummary, 0, len(report.Runs))
	for _, run := range report.Runs {
		summaries = append(summaries, storage.SchemeSummary{
			Scheme:      run.Scheme,
			EnergyDrift: run.EnergyDrift,
			EnergyMin:   run.EnergyMin,
			EnergyMax:   run.EnergyMax,
			FinalError:  run.FinalError,
			MaxPosError: run.MaxPosError,
			Metrics:     run.Metrics,
		})
	}
	fmt.Println(viz.SchemeTable(summaries))
	for _, run := range report.Runs {
		fmt.Printf("  %-11s %s\n", run.Scheme, viz.SparklineChart(run.Energy, 50))
	}

	if report.Truncation != nil {
		fmt.Println()
		fmt.Println(viz.TruncationTable(report.Truncation))
		fmt.Printf("observed order: %s\n", viz.MetricValue.Render(fmt.Sprintf("%.3f", report.Order)))
	}

	if !noSave {
		st := storage.New(cfg.Output.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(report)
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}

	figs := viz.Figures(report, cfg.Plots)
	if len(figs) == 0 {
		return nil
	}
	paths, err := viz.Render(cfg.Output.Dir, cfg.Output.Format, figs)
	if err != nil {
		return err
	}
	fmt.Println("plots:")
	for _, p := range paths {
		fmt.Printf("  %s\n", p)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tRANGE\tDT\tX0\tV0\tSCHEMES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t[%g, %g]\t%g\t%g\t%g\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Start, run.End,
			run.Dt,
			run.X0, run.V0,
			strings.Join(run.Schemes, ","),
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	report, err := st.LoadReport(args[0])
	if err != nil {
		return err
	}

	cfg := &config.Config{}
	if err := cfg.EnablePlots(plots); err != nil {
		return err
	}

	fmt.Printf("run: %s\n", args[0])
	fmt.Printf("samples: %d\n\n", report.Analytic.Len())

	for _, fig := range viz.Figures(report, cfg.Plots) {
		if fig.Name == "truncation" {
			fmt.Println(viz.TruncationPlot(report.Truncation, plotHeight))
			continue
		}
		fmt.Println(viz.TerminalPlot(fig, plotWidth, plotHeight))
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	report, err := st.LoadReport(args[0])
	if err != nil {
		return err
	}

	figs := viz.Figures(report, config.PlotConfig{Phase: true})
	if len(figs) == 0 {
		return fmt.Errorf("no data to plot")
	}
	fmt.Print(viz.TerminalPlot(figs[0], phaseWidth, phaseHeight))
	return nil
}

func truncationSweep(cmd *cobra.Command, args []string) error {
	result, err := analysis.TruncationError(h0, duration, x0, v0, analysis.WithSamples(samples), analysis.WithScheme(scheme))
	if err != nil {
		return err
	}

	fmt.Println(viz.TruncationTable(result))
	fmt.Printf("observed order: %s\n\n", viz.MetricValue.Render(fmt.Sprintf("%.3f", analysis.ConvergenceOrder(result))))
	fmt.Print(viz.TruncationPlot(result, truncHeight))
	return nil
}

func compareSchemes(cmd *cobra.Command, args []string) error {
	r := dynamo.TimeRange{Start: start, End: end}
	exact, err := solver.Analytic(r, dt, x0, v0)
	if err != nil {
		return err
	}

	summaries := make([]storage.SchemeSummary, 0)
	for _, name := range solver.Names() {
		if name == string(solver.SchemeAnalytic) {
			continue
		}
		began := time.Now()
		traj, err := solver.Solve(name, r, dt, x0, v0)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		elapsed := time.Since(began)

		diff, err := analysis.GlobalError(exact, traj)
		if err != nil {
			return err
		}
		energy := metrics.Energy(traj)
		lo, hi := metrics.Band(energy)
		summaries = append(summaries, storage.SchemeSummary{
			Scheme:      name,
			EnergyDrift: metrics.RelativeDrift(energy),
			EnergyMin:   lo,
			EnergyMax:   hi,
			FinalError:  analysis.FinalError(diff),
			MaxPosError: analysis.MaxPositionError(diff),
			Metrics:     map[string]float64{"elapsed_us": float64(elapsed.Microseconds())},
		})
		logger.L().Debug("compare.scheme", "scheme", name, "elapsed", elapsed)
	}

	fmt.Println(viz.SchemeTable(summaries))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tRANGE\tDT\tX0\tV0\tSCHEMES")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t[%g, %g]\t%g\t%g\t%g\t%s\n", name, p.Start, p.End, p.Dt, p.X0, p.V0, strings.Join(p.Schemes, ","))
	}
	return w.Flush()
}

