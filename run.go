package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/gridbot/config"
	logger "github.com/beka-birhanu/gridbot/infrastruture/log"
	"github.com/beka-birhanu/gridbot/render"
	"github.com/beka-birhanu/gridbot/sim"
	"github.com/spf13/cobra"
)

var (
	scenarioFile string
	delayMS      int
	noColor      bool
	walkHome     bool
	pngFile      string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation in the terminal",
	Args:  cobra.NoArgs,
	RunE:  runSimulation,
}

func init() {
	runCmd.Flags().StringVar(&scenarioFile, "scenario", "", "scenario file (yaml, json or toml); the built-in scenario when empty")
	runCmd.Flags().IntVar(&delayMS, "delay", 0, "pause between steps in milliseconds (default STEP_DELAY_MS)")
	runCmd.Flags().BoolVar(&noColor, "no-color", false, "draw plain characters instead of coloured cells")
	runCmd.Flags().BoolVar(&walkHome, "walk-home", false, "walk straight home when the return history runs out")
	runCmd.Flags().StringVar(&pngFile, "png", "", "write the last frame to this PNG file")
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	scenario, err := config.LoadScenario(scenarioFile)
	if err != nil {
		return err
	}
	if walkHome {
		scenario.WalkHome = true
	}

	c, err := scenario.SimConfig()
	if err != nil {
		return err
	}

	delay := config.Envs.StepDelay()
	if cmd.Flags().Changed("delay") {
		delay = time.Duration(delayMS) * time.Millisecond
	}

	simLogger, err := logger.New("SIM", config.ColorCyan, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		_ = simLogger.Sync()
	}()

	out := cmd.OutOrStdout()
	c.Renderer = render.NewTerminal(out, !noColor).ClearBetweenFrames(!noColor && delay > 0)
	c.Sleeper = sim.RealSleeper{}
	c.StepDelay = delay
	c.CellPixels = config.Envs.CellPixels
	c.MaxSteps = config.Envs.MaxSteps
	c.Logger = simLogger

	s, err := sim.New(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, runErr := s.Run(ctx)
	fmt.Fprintf(out, "%d marker(s) delivered in %d steps (%d moves, %d turns, %d history entries evicted)\n",
		summary.Delivered, summary.Steps, summary.Moves, summary.Turns, summary.Evictions)

	if pngFile != "" {
		if err := writeFramePNG(pngFile, s.Frame()); err != nil {
			return err
		}
	}
	return runErr
}

func writeFramePNG(path string, f sim.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.WritePNG(file, f); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
