package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhubert/simplechat/internal/config"
	"github.com/zhubert/simplechat/internal/demo"
	"github.com/zhubert/simplechat/internal/demo/scenarios"
	"github.com/zhubert/simplechat/internal/devserver"
	"github.com/zhubert/simplechat/internal/logger"
)

var (
	demoAddr       string
	demoOutput     string
	demoWidth      int
	demoHeight     int
	demoCaptureAll bool
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run against an in-process demo server",
	Long: `Starts a local chat server seeded with demo users and chats, logs in as
` + devserver.DemoUser + ` and runs the client against it. Messages sent to ` + devserver.DemoEchoUser + `
are answered. Nothing is written to the config file.

Available subcommands:
  list      - List available demo scenarios
  run       - Run a scenario and print its frames (for testing)
  cast      - Record a scenario as an asciinema cast file`,
	RunE: runDemo,
}

var demoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available demo scenarios",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Available demo scenarios:")
		fmt.Println()
		for _, s := range scenarios.All() {
			fmt.Printf("  %-15s %s\n", s.Name, s.Description)
		}
	},
}

var demoRunCmd = &cobra.Command{
	Use:   "run <scenario>",
	Short: "Run a scenario and print its frames (for testing)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDemoRun,
}

var demoCastCmd = &cobra.Command{
	Use:   "cast <scenario>",
	Short: "Record a scenario as an asciinema cast file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDemoCast,
}

func init() {
	demoCmd.Flags().StringVar(&demoAddr, "addr", "127.0.0.1:0", "Address for the demo server to listen on")

	for _, cmd := range []*cobra.Command{demoRunCmd, demoCastCmd} {
		cmd.Flags().StringVarP(&demoOutput, "output", "o", "", "Output file")
		cmd.Flags().IntVarP(&demoWidth, "width", "w", 120, "Terminal width")
		cmd.Flags().IntVarP(&demoHeight, "height", "H", 40, "Terminal height")
		cmd.Flags().BoolVar(&demoCaptureAll, "capture-all", false, "Capture frame after every step (for debugging)")
	}

	demoCmd.AddCommand(demoListCmd)
	demoCmd.AddCommand(demoRunCmd)
	demoCmd.AddCommand(demoCastCmd)
	rootCmd.AddCommand(demoCmd)
}

// demoConfig points a fresh config at the demo server.
func demoConfig(baseURL string) *config.Config {
	cfg := config.Default()
	cfg.SetServerURL(baseURL)
	cfg.SetSessionCookie(devserver.UserCookie + "=" + devserver.DemoUser)
	if transportName != "" {
		cfg.SetTransport(transportName)
	}
	return cfg
}

func runDemo(cmd *cobra.Command, args []string) error {
	if err := logger.Init(logger.DevServerLogPath); err != nil {
		return err
	}
	defer logger.Close()

	store := devserver.NewStore()
	devserver.SeedDemo(store)
	srv := devserver.New(store)
	srv.EchoUser = devserver.DemoEchoUser

	baseURL, shutdown, err := srv.Listen(demoAddr)
	if err != nil {
		return fmt.Errorf("error starting demo server: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = shutdown(ctx)
	}()

	cfg := demoConfig(baseURL)
	if err := cfg.Validate(); err != nil {
		return err
	}
	return runApp(cmd.Context(), cfg)
}

func getScenario(name string) (*demo.Scenario, error) {
	scenario := scenarios.Get(name)
	if scenario == nil {
		return nil, fmt.Errorf("unknown scenario %q\nRun 'simplechat demo list' to see available scenarios", name)
	}

	if demoWidth > 0 {
		scenario.Width = demoWidth
	}
	if demoHeight > 0 {
		scenario.Height = demoHeight
	}
	return scenario, nil
}

func executeScenario(scenario *demo.Scenario) ([]demo.Frame, error) {
	if err := logger.Init(logger.DevServerLogPath); err != nil {
		return nil, err
	}
	defer logger.Close()

	execCfg := demo.DefaultExecutorConfig()
	execCfg.CaptureEveryStep = demoCaptureAll
	return demo.NewExecutor(execCfg).Run(scenario)
}

func runDemoRun(cmd *cobra.Command, args []string) error {
	scenario, err := getScenario(args[0])
	if err != nil {
		return err
	}

	frames, err := executeScenario(scenario)
	if err != nil {
		return fmt.Errorf("error running scenario: %w", err)
	}

	fmt.Printf("Captured %d frames\n", len(frames))
	for i, f := range frames {
		fmt.Printf("\n=== Frame %d (delay: %v) ===\n", i, f.Delay)
		if f.Annotation != "" {
			fmt.Printf("Annotation: %s\n", f.Annotation)
		}
		fmt.Println(f.Content)
	}
	return nil
}

func runDemoCast(cmd *cobra.Command, args []string) error {
	scenarioName := args[0]
	scenario, err := getScenario(scenarioName)
	if err != nil {
		return err
	}

	frames, err := executeScenario(scenario)
	if err != nil {
		return fmt.Errorf("error running scenario: %w", err)
	}

	outputFile := demoOutput
	if outputFile == "" {
		outputFile = scenarioName + ".cast"
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer f.Close()

	if err := demo.GenerateASCIICast(f, frames, scenario.Width, scenario.Height); err != nil {
		return fmt.Errorf("error generating cast file: %w", err)
	}

	fmt.Printf("Generated %s (%d frames)\n", outputFile, len(frames))
	fmt.Printf("Play with: asciinema play %s\n", outputFile)
	return nil
}
