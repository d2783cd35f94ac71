// Package main is the headless deskcalc API server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lemonberrylabs/deskcalc/pkg/api"
	"github.com/lemonberrylabs/deskcalc/pkg/keypad"
	"github.com/lemonberrylabs/deskcalc/pkg/store"
	"github.com/lemonberrylabs/deskcalc/web"
)

func main() {
	portFlag := flag.Int("port", 0, "HTTP server port (default 8080, env DESKCALC_PORT)")
	hostFlag := flag.String("host", "", "Bind address (default 0.0.0.0, env DESKCALC_HOST)")
	layoutFlag := flag.String("layout", "", "Keypad layout YAML file (env DESKCALC_LAYOUT)")
	flag.Parse()

	port := envOrDefault("DESKCALC_PORT", "8080")
	if *portFlag != 0 {
		port = fmt.Sprintf("%d", *portFlag)
	}

	host := envOrDefault("DESKCALC_HOST", "0.0.0.0")
	if *hostFlag != "" {
		host = *hostFlag
	}

	layoutPath := os.Getenv("DESKCALC_LAYOUT")
	if *layoutFlag != "" {
		layoutPath = *layoutFlag
	}

	layout := keypad.Default()
	if layoutPath != "" {
		loaded, err := keypad.Load(layoutPath)
		if err != nil {
			log.Fatalf("Failed to load keypad layout: %v", err)
		}
		layout = loaded
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
		log.Println("Shutting down deskcalcd...")
		if err := server.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("deskcalcd listening on %s (layout=%s)", addr, layout.Name)
	if err := server.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
