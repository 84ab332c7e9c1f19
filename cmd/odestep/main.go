package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/san-kum/odestep/internal/analysis"
	"github.com/san-kum/odestep/internal/config"
	"github.com/san-kum/odestep/internal/metrics"
	"github.com/san-kum/odestep/internal/ode"
	"github.com/san-kum/odestep/internal/solver"
	"github.com/san-kum/odestep/internal/watch"
)

var (
	schemeName string
	stepsize   float64
	duration   float64
	tol        float64
	maxSteps   int
	adaptive   bool
	// Model parameters
	lambda  float64
	mu      float64
	omega   float64
	epsilon float64
	// Contact oscillator initial condition
	z0      float64
	energy0 float64
	z0dot   float64
	// Config file and preset
	configFile string
	preset     string
	verbose    bool
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "odestep",
		Short: "single step time integration lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
				Level:      level,
				TimeFormat: time.Kitchen,
			})))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "integrate a model and report metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  runModel,
	}
	addRunFlags(runCmd)

	plotCmd := &cobra.Command{
		Use:   "plot [model]",
		Short: "integrate a model and plot the trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotModel,
	}
	addRunFlags(plotCmd)

	watchCmd := &cobra.Command{
		Use:   "watch [model]",
		Short: "integrate a model with a live terminal view",
		Args:  cobra.ExactArgs(1),
		RunE:  watchModel,
	}
	addRunFlags(watchCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [model] [scheme1] [scheme2] ...",
		Short: "compare schemes on the same model",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareSchemes,
	}
	addRunFlags(compareCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list registered models and schemes",
		Run: func(cmd *cobra.Command, args []string) {
			r := config.NewRegistry()
			fmt.Println("models:")
			for _, name := range sorted(r.ListModels()) {
				fmt.Printf("  %s\n", name)
			}
			fmt.Println("schemes:")
			for _, name := range sorted(r.ListSchemes()) {
				fmt.Printf("  %s\n", name)
			}
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range sorted(presets) {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [model]",
		Short: "frequency analysis of a trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeModel,
	}
	addRunFlags(analyzeCmd)

	rootCmd.AddCommand(runCmd, plotCmd, watchCmd, compareCmd, analyzeCmd, listCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&schemeName, "scheme", "rk4", "integration scheme")
	cmd.Flags().Float64Var(&stepsize, "h", config.DefaultStepsize, "step size")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultTime, "integration horizon")
	cmd.Flags().Float64Var(&tol, "tol", config.DefaultTol, "local error tolerance (rk34)")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "step budget (0 = default)")
	cmd.Flags().BoolVar(&adaptive, "adaptive", false, "adapt the step size after each step")
	cmd.Flags().Float64Var(&lambda, "lambda", config.DefaultLambda, "decay rate (decay)")
	cmd.Flags().Float64Var(&mu, "mu", config.DefaultMu, "damping parameter (vanderpol)")
	cmd.Flags().Float64Var(&omega, "omega", config.DefaultOmega, "angular frequency (phasor)")
	cmd.Flags().Float64Var(&epsilon, "epsilon", config.DefaultEpsilon, "coupling strength (oscillator)")
	cmd.Flags().Float64Var(&z0, "z0", config.DefaultZ0, "initial height (oscillator)")
	cmd.Flags().Float64Var(&energy0, "energy", config.DefaultEnergy, "initial energy (oscillator)")
	cmd.Flags().Float64Var(&z0dot, "z0dot", 0, "initial vertical velocity (oscillator)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig resolves preset, config file and flags in increasing
// precedence for the given model.
func buildConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Model = model

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		loaded.Model = model
		cfg = loaded
	}

	if cmd.Flags().Changed("scheme") || cfg.Scheme == "" {
		cfg.Scheme = schemeName
	}
	if cmd.Flags().Changed("h") || cfg.Stepsize == 0 {
		cfg.Stepsize = stepsize
	}
	if cmd.Flags().Changed("time") || cfg.Time == 0 {
		cfg.Time = duration
	}
	if cmd.Flags().Changed("tol") {
		cfg.Tol = tol
	}
	if cmd.Flags().Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if cmd.Flags().Changed("adaptive") {
		cfg.Adaptive = adaptive
	}
	if cmd.Flags().Changed("lambda") {
		cfg.Params.Lambda = lambda
	}
	if cmd.Flags().Changed("mu") {
		cfg.Params.Mu = mu
	}
	if cmd.Flags().Changed("omega") {
		cfg.Params.Omega = omega
	}
	if cmd.Flags().Changed("epsilon") {
		cfg.Params.Epsilon = epsilon
	}
	if cmd.Flags().Changed("z0") {
		cfg.Init.Z0 = z0
	}
	if cmd.Flags().Changed("energy") {
		cfg.Init.Energy = energy0
	}
	if cmd.Flags().Changed("z0dot") {
		cfg.Init.Z0Dot = z0dot
	}
	return cfg, nil
}

// integrate runs the configured model once and returns the trajectory.
func integrate(cfg *config.Config) (*solver.Result, ode.VectorField, time.Duration, error) {
	registry := config.NewRegistry()

	field, u0, err := registry.GetModel(cfg)
	if err != nil {
		return nil, nil, 0, err
	}
	sch, err := registry.GetScheme(field, cfg)
	if err != nil {
		return nil, nil, 0, err
	}

	s := solver.New(sch)
	for _, m := range registry.DefaultMetrics(field) {
		s.AddMetric(m)
	}

	start := time.Now()
	result, err := s.Run(context.Background(), 0, u0, solver.Config{
		Time:     cfg.Time,
		MaxSteps: cfg.MaxSteps,
		Adaptive: cfg.Adaptive,
	})
	elapsed := time.Since(start)
	if err != nil {
		return nil, nil, elapsed, err
	}
	return result, field, elapsed, nil
}

func runModel(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	result, _, elapsed, err := integrate(cfg)
	if err != nil {
		return err
	}

	tf, uf := result.Final()

	fmt.Println(headerStyle.Render(strings.ToUpper(cfg.Model)))
	fmt.Println(labelStyle.Render("scheme") + valueStyle.Render(cfg.Scheme))
	fmt.Println(labelStyle.Render("steps") + valueStyle.Render(fmt.Sprintf("%d", result.StepsTaken)))
	fmt.Println(labelStyle.Render("elapsed") + valueStyle.Render(elapsed.String()))
	fmt.Println(labelStyle.Render("final time") + valueStyle.Render(fmt.Sprintf("%.6f", tf)))
	fmt.Println(labelStyle.Render("final state") + valueStyle.Render(fmt.Sprintf("%.6v", uf)))

	if len(result.Metrics) > 0 {
		fmt.Println(headerStyle.Render("metrics"))
		for _, name := range sortedKeys(result.Metrics) {
			fmt.Println(labelStyle.Render(name) + valueStyle.Render(fmt.Sprintf("%.6e", result.Metrics[name])))
		}
	}
	return nil
}

func plotModel(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	result, _, _, err := integrate(cfg)
	if err != nil {
		return err
	}
	if len(result.States) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("model: %s\n", cfg.Model)
	fmt.Printf("samples: %d\n\n", len(result.States))

	numVars := len(result.States[0])
	const maxPlots = 6
	if numVars > maxPlots {
		numVars = maxPlots
	}

	for varIdx := 0; varIdx < numVars; varIdx++ {
		data := make([]float64, len(result.States))
		for i := range result.States {
			data[i] = result.States[i][varIdx]
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("u%d vs time", varIdx)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeModel(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	result, _, _, err := integrate(cfg)
	if err != nil {
		return err
	}
	if len(result.States) < 2 {
		return fmt.Errorf("no data to analyze")
	}

	data := make([]float64, len(result.States))
	for i := range result.States {
		data[i] = result.States[i][0]
	}

	fmt.Printf("frequency analysis: %s\n", cfg.Model)
	fmt.Printf("samples: %d\n\n", len(data))

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:len(ps)/4]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (u0)"),
	)
	fmt.Println(graph)
	fmt.Println()

	dt := result.Times[1] - result.Times[0]
	freq := analysis.DominantFrequency(data, dt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func watchModel(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	registry := config.NewRegistry()
	field, u0, err := registry.GetModel(cfg)
	if err != nil {
		return err
	}
	sch, err := registry.GetScheme(field, cfg)
	if err != nil {
		return err
	}

	m, err := watch.NewModel(cfg.Model, sch, 0, u0)
	if err != nil {
		return err
	}
	if e, ok := field.(metrics.Energier); ok {
		m.SetEnergy(e)
	}
	return watch.Run(m)
}

func compareSchemes(cmd *cobra.Command, args []string) error {
	model := args[0]
	schemes := args[1:]

	cfg, err := buildConfig(cmd, model)
	if err != nil {
		return err
	}

	fmt.Printf("comparing schemes for %s (h=%.4f, time=%.1f)\n\n", model, cfg.Stepsize, cfg.Time)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCHEME\tSTEPS\tFINAL_U0\tENERGY_DRIFT\tTIME")

	for _, name := range schemes {
		cfg.Scheme = name

		result, _, elapsed, err := integrate(cfg)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		_, uf := result.Final()
		drift := "-"
		if d, ok := result.Metrics["energy_drift"]; ok {
			drift = fmt.Sprintf("%.2e", d)
		}
		fmt.Fprintf(w, "%s\t%d\t%.6f\t%s\t%v\n",
			name, result.StepsTaken, uf[0], drift, elapsed.Round(time.Microsecond))
	}
	return w.Flush()
}

func sorted(names []string) []string {
	sort.Strings(names)
	return names
}

func sortedKeys(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
