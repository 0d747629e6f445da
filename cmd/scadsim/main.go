package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/san-kum/scadsim/internal/app"
	"github.com/san-kum/scadsim/internal/config"
	"github.com/san-kum/scadsim/internal/gui"
	"github.com/san-kum/scadsim/internal/logx"
	"github.com/san-kum/scadsim/internal/physics"
	"github.com/san-kum/scadsim/internal/viz"
	"github.com/spf13/cobra"
)

// options are the values bound to the persistent flags.
type options struct {
	module   string
	shape    string
	example  string
	part     string
	material string
	physical bool

	configFile string
	preset     string
	mode       string
	steps      int
	frameRate  float64
	dropHeight float64
	dataDir    string
	record     bool

	verbose     bool
	veryVerbose bool
	quiet       bool
}

func main() {
	rootCmd, _ := newRootCmd(len(os.Args) == 1)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, viz.Failure.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. canned makes the root command ignore
// its flags and run the canned configuration; main sets it when the process
// got no arguments at all.
func newRootCmd(canned bool) (*cobra.Command, *options) {
	o := &options{}
	rootCmd := &cobra.Command{
		Use:           "scadsim",
		Short:         "drop parametric CAD shapes into a physics viewer",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logx.UserLevel = logx.LevelFromFlags(o.veryVerbose, o.verbose, o.quiet)
			logx.SetDefault(os.Stderr)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, o, canned)
			if err != nil {
				return err
			}
			_, err = newApp(cfg).Run(cmd.Context(), cfg)
			return err
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&o.module, "module", config.DefaultModule, "shape module")
	pf.StringVar(&o.shape, "shape", config.DefaultShape, "shape class")
	pf.StringVar(&o.example, "example", config.DefaultExample, "named example of the class")
	pf.StringVar(&o.part, "part", "", "only this part (default all parts)")
	pf.StringVar(&o.material, "material", "", "only parts of this material (default all)")
	pf.BoolVar(&o.physical, "physical", false, "only physical parts (--physical=false for non-physical)")
	pf.StringVar(&o.configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&o.preset, "preset", "", "use a preset of --module")
	pf.StringVar(&o.mode, "mode", config.DefaultMode, "visualizer: gui, tui or direct")
	pf.IntVar(&o.steps, "steps", config.DefaultSteps, "simulation steps")
	pf.Float64Var(&o.frameRate, "fps", config.DefaultFrameRate, "steps per second, 0 for unpaced")
	pf.Float64Var(&o.dropHeight, "drop-height", config.DefaultDropHeight, "height of the model's lowest point")
	pf.StringVar(&o.dataDir, "data", ".scadsim", "data directory for recorded runs")
	pf.BoolVar(&o.record, "record", false, "record the run into --data")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "log progress")
	pf.BoolVar(&o.veryVerbose, "vv", false, "log everything")
	pf.BoolVarP(&o.quiet, "quiet", "q", false, "log errors only")

	rootCmd.AddCommand(
		listCmd(o),
		presetsCmd(o),
		selftestCmd(o),
		exportCmd(o),
		browseCmd(o),
		settleCmd(o),
		sweepCmd(o),
		scenarioCmd(o),
		runsCmd(o),
		plotCmd(o),
		exportJSONCmd(o),
	)
	return rootCmd, o
}

// resolveConfig layers defaults, the preset, the config file and the flags
// that were set explicitly, in that order. canned short-cuts all of it.
func resolveConfig(cmd *cobra.Command, o *options, canned bool) (*config.Config, error) {
	if canned {
		return config.Canned(), nil
	}

	cfg := config.DefaultConfig()
	if o.preset != "" {
		cfg = config.GetPreset(o.module, o.preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", o.preset, config.ListPresets(o.module))
		}
	}
	if o.configFile != "" {
		loaded, err := config.LoadOver(o.configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("module") {
		cfg.Module = o.module
	}
	if flags.Changed("shape") {
		cfg.Shape = o.shape
	}
	if flags.Changed("example") {
		cfg.Example = o.example
	}
	if flags.Changed("part") {
		part := o.part
		cfg.Part = &part
	}
	if flags.Changed("material") {
		material := o.material
		cfg.Material = &material
	}
	if flags.Changed("physical") {
		physical := o.physical
		cfg.Physical = &physical
	}
	if flags.Changed("mode") {
		cfg.Sim.Mode = o.mode
	}
	if flags.Changed("steps") {
		cfg.Sim.Steps = o.steps
	}
	if flags.Changed("fps") {
		cfg.Sim.FrameRate = o.frameRate
	}
	if flags.Changed("drop-height") {
		cfg.Sim.DropHeight = o.dropHeight
	}
	if o.record {
		cfg.Record = o.dataDir
	}
	return cfg, cfg.Validate()
}

// newBackend returns an engine with the raylib window and the terminal
// dashboard registered for their modes.
func newBackend(cfg *config.Config) *physics.Engine {
	title := fmt.Sprintf("scadsim: %s/%s", cfg.Shape, cfg.Example)
	e := physics.NewEngine()
	e.RegisterVisualizer(physics.GUI, gui.Factory(gui.Options{Title: title, Steps: cfg.Sim.Steps}))
	e.RegisterVisualizer(physics.TUI, viz.Factory(viz.Options{Title: title, Steps: cfg.Sim.Steps}))
	return e
}

func newApp(cfg *config.Config) *app.App {
	return app.New(newBackend(cfg))
}
