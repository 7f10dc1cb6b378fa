package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/ironsheep/poisson-blend/internal/blend"
	"github.com/ironsheep/poisson-blend/internal/cli"
	"github.com/ironsheep/poisson-blend/internal/imaging"
	"github.com/ironsheep/poisson-blend/internal/pipeline"
	"github.com/ironsheep/poisson-blend/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	serve := false
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("poisson-blend %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			cli.Usage(os.Stdout)
			fmt.Println()
			fmt.Println("Modes:")
			fmt.Println("  serve, --serve    Run as an MCP server over stdin/stdout")
			fmt.Println("  --version, -v     Print version information")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  POISSON_BLEND_LOG_LEVEL=debug    Enable debug logging")
			return
		case "serve", "--serve", "-serve":
			serve = true
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	debug := os.Getenv("POISSON_BLEND_LOG_LEVEL") == "debug"
	if debug {
		log.Printf("Poisson Blend v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		blend.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if serve {
		srv := server.New(Version)
		if debug {
			srv.SetProgressLog(func(msg string) { log.Print(msg) })
		}
		if err := srv.Run(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
		return
	}

	cfg, err := cli.Parse(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			cli.Usage(os.Stdout)
			return
		}
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		cli.Usage(os.Stderr)
		os.Exit(2)
	}

	rep, err := pipeline.Run(cfg, imaging.NewImageCache(), func(msg string) { log.Print(msg) })
	if err != nil {
		log.Fatalf("Blend failed: %v", err)
	}
	for _, line := range rep.Summary() {
		fmt.Println(line)
	}
}
