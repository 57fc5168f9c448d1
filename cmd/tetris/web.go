package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/platform/web"
)

var flagWebAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the websocket server",
	Long: `Start an HTTP server with a websocket endpoint at /ws.

Each connection plays its own game. Clients send {"t":"left"},
{"t":"right"}, {"t":"rotate"}, {"t":"drop"}, {"t":"hard_drop"} or
{"t":"restart"} and receive {"t":"state","m":{...}} frames. Pass
?name=<player> on the /ws URL to record scores under a name.

Examples:
  tetris web
  tetris web --addr :9000
  tetris web --difficulty hard --seed 7`,
	Args: cobra.NoArgs,
	Run:  runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address (host:port)")
}

func runWeb(_ *cobra.Command, _ []string) {
	tetrisCfg, err := config.LoadTetris(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if preset, ok := config.ParsePreset(flagDifficulty); ok {
		config.ApplyTetrisPreset(&tetrisCfg, preset)
	}

	server, err := web.NewServer(web.ServerConfig{
		Address: flagWebAddr,
		DBPath:  flagDBPath,
		Tetris:  tetrisCfg,
		Seed:    flagSeed,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting tetris web server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
