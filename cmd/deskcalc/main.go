// Package main is the entry point for the deskcalc calculator.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lemonberrylabs/deskcalc/pkg/api"
	"github.com/lemonberrylabs/deskcalc/pkg/expr"
	"github.com/lemonberrylabs/deskcalc/pkg/keypad"
	"github.com/lemonberrylabs/deskcalc/pkg/store"
	"github.com/lemonberrylabs/deskcalc/pkg/tui"
	"github.com/lemonberrylabs/deskcalc/pkg/types"
	"github.com/lemonberrylabs/deskcalc/web"
	"github.com/spf13/cobra"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "deskcalc",
	Short: "Desktop calculator",
	Long:  "deskcalc is a desktop calculator: build an arithmetic expression key by key and evaluate it on demand.",
	RunE:  runTUI,
}

var evalCmd = &cobra.Command{
	Use:   "eval EXPRESSION...",
	Short: "Evaluate an expression and print the result",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEval,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the calculator API and web UI server",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("deskcalc version %s (commit=%s, built=%s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.Version = version + " (commit=" + commit + ", built=" + date + ")"
	rootCmd.SetVersionTemplate("deskcalc version {{.Version}}\n")

	rootCmd.PersistentFlags().String("layout", "", "Keypad layout YAML file (env DESKCALC_LAYOUT)")

	serveCmd.Flags().Int("port", 0, "HTTP server port (default 8080, env DESKCALC_PORT)")
	serveCmd.Flags().String("host", "", "Bind address (default 0.0.0.0, env DESKCALC_HOST)")

	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	layout, err := loadLayout(cmd)
	if err != nil {
		return err
	}
	return tui.Run(layout)
}

func runEval(cmd *cobra.Command, args []string) error {
	value, err := expr.Evaluate(strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Println(types.FormatNumber(value))
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	port := envOrDefault("DESKCALC_PORT", "8080")
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		port = fmt.Sprintf("%d", v)
	}

	host := envOrDefault("DESKCALC_HOST", "0.0.0.0")
	if v, _ := cmd.Flags().GetString("host"); v != "" {
		host = v
	}

	layout, err := loadLayout(cmd)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	s := store.New()
	server := api.New(s, layout)

	// Register the web UI (non-fatal if template parsing fails)
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Warning: web UI disabled due to template error: %v", r)
			}
		}()
		ui := web.New(layout)
		ui.Register(server.App())
	}()

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down deskcalc...")
		if err := server.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("deskcalc listening on %s (layout=%s)", addr, layout.Name)
	return server.Listen(addr)
}

// loadLayout picks the keypad layout: --layout flag, then DESKCALC_LAYOUT,
// then the embedded default.
func loadLayout(cmd *cobra.Command) (*keypad.Layout, error) {
	path, _ := cmd.Flags().GetString("layout")
	if path == "" {
		path = os.Getenv("DESKCALC_LAYOUT")
	}
	if path == "" {
		return keypad.Default(), nil
	}
	return keypad.Load(path)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
