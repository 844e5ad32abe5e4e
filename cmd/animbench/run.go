package main

import (
	"fmt"
	"io"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation_manager"
	"github.com/spf13/cobra"
)

var (
	flagAnimations int
	flagBones      int
	flagTicks      int
	flagFPS        float64
	flagFixed      bool
	flagProfile    bool
	flagSwapEvery  int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate synthetic rigs through the animation manager",
	Long: `Creates the requested number of animations on a shared synthetic rig, plays a
walk cycle with an additive wave on layer 1, and cross-fades between walk and run
while the engine loop drives the animation manager.

With --fixed the ticks run back to back at 1/fps; otherwise they run in real time.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagAnimations, "animations", 100, "Number of animated rigs")
	runCmd.Flags().IntVar(&flagBones, "bones", 64, "Bones per rig")
	runCmd.Flags().IntVar(&flagTicks, "ticks", 600, "Number of engine ticks to run")
	runCmd.Flags().Float64Var(&flagFPS, "fps", 60, "Engine tick rate (frames per second)")
	runCmd.Flags().BoolVar(&flagFixed, "fixed", false, "Step at a fixed 1/fps delta without waiting")
	runCmd.Flags().BoolVar(&flagProfile, "profile", false, "Log tick rate and memory stats every second")
	runCmd.Flags().IntVar(&flagSwapEvery, "swap-every", 120, "Cross-fade between walk and run every N ticks (0 = never)")
}

// benchResult summarizes a bench run.
type benchResult struct {
	Ticks         int64
	AnimationTime float32
	Events        int
	Stats         animation.Stats
	Elapsed       time.Duration
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagFPS <= 0 {
		return fmt.Errorf("--fps must be positive, got %v", flagFPS)
	}

	logger := newLogger(cfg)
	manager := animation_manager.NewAnimationManager(
		animation_manager.WithConfig(cfg),
		animation_manager.WithLogger(logger),
	)
	defer manager.Close()

	eng := engine.NewEngine(
		engine.WithManager(manager),
		engine.WithLogger(logger),
		engine.WithTickRate(flagFPS),
		engine.WithMaxTicks(flagTicks),
		engine.WithProfiling(flagProfile),
	)

	res, err := bench(eng, benchOptions{
		animations: flagAnimations,
		bones:      flagBones,
		ticks:      flagTicks,
		fps:        flagFPS,
		fixed:      flagFixed,
		swapEvery:  flagSwapEvery,
	})
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), res)
	return nil
}

type benchOptions struct {
	animations int
	bones      int
	ticks      int
	fps        float64
	fixed      bool
	swapEvery  int
}

// bench sets up the rigs on eng's manager and runs the engine.
func bench(eng engine.Engine, opts benchOptions) (benchResult, error) {
	r, err := buildRig(opts.bones)
	if err != nil {
		return benchResult{}, err
	}

	var res benchResult
	onEvent := func(animation.Animation, animation.FiredEvent) { res.Events++ }

	anims := make([]animation.Animation, opts.animations)
	for i := range anims {
		a := eng.Manager().NewAnimation(
			animation.WithSkeleton(r.skel),
			animation.WithEventHandler(onEvent),
		)
		a.Play(r.walk)
		if err := a.BlendAdditive(r.wave, 0.5, 0.25, 1); err != nil {
			return res, err
		}
		anims[i] = a
	}

	running := r.walk
	eng.SetTickCallback(func(float32) {
		tick := eng.Ticks()
		if opts.swapEvery <= 0 || tick == 0 || tick%int64(opts.swapEvery) != 0 {
			return
		}
		if running == r.walk {
			running = r.run
		} else {
			running = r.walk
		}
		for _, a := range anims {
			a.CrossFade(running, 0.3)
		}
	})

	start := time.Now()
	if opts.fixed {
		dt := float32(1 / opts.fps)
		for range opts.ticks {
			eng.Step(dt)
		}
		eng.Manager().PreUpdate()
	} else {
		eng.Run()
	}
	res.Elapsed = time.Since(start)

	res.Ticks = eng.Ticks()
	res.AnimationTime = eng.Manager().AnimationTime()
	for _, a := range anims {
		s := a.Proxy().Stats()
		res.Stats.SkeletonRebuilds += s.SkeletonRebuilds
		res.Stats.LayoutRebuilds += s.LayoutRebuilds
		res.Stats.ValueUpdates += s.ValueUpdates
		res.Stats.TimeUpdates += s.TimeUpdates
		res.Stats.Evaluations += s.Evaluations
		a.Destroy()
	}
	return res, nil
}

func printResult(w io.Writer, res benchResult) {
	rows := []struct {
		label string
		value any
	}{
		{"ticks", res.Ticks},
		{"animation time", fmt.Sprintf("%.3fs", res.AnimationTime)},
		{"wall time", res.Elapsed},
		{"evaluations", res.Stats.Evaluations},
		{"skeleton rebuilds", res.Stats.SkeletonRebuilds},
		{"layout rebuilds", res.Stats.LayoutRebuilds},
		{"value updates", res.Stats.ValueUpdates},
		{"time updates", res.Stats.TimeUpdates},
		{"events", res.Events},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-18s %v\n", r.label+":", r.value)
	}
}
