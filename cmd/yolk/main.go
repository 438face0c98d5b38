// yolk runs JavaScript and Lua games on a fixed-timestep loop.
//
// Usage:
//
//	yolk [flags] [entry path]
//
// The entry path is a script, a directory, or a game.egg bundle. With no
// path, yolk looks for game.egg, then main.js, then main.lua in the working
// directory.
//
// Flags:
//
//	-b, --buffer <shift>       - Audio buffer is 1<<shift frames (default: 11)
//	-d, --debug                - Debug overlay and debug logging
//	-i, --initial-heap <MB>    - Heap the scripts may fill before a collection (default: 100)
//	-r, --record [path]        - Record a GIF (default: yolk.gif)
//	-v, --version              - Print the version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import runtimes to register them
	_ "github.com/vovakirdan/yolk/internal/script/js"
	_ "github.com/vovakirdan/yolk/internal/script/lua"
)

// version is set at build time.
var version = "0.1.0-dev"

var (
	flagBuffer      int
	flagDebug       bool
	flagInitialHeap int
	flagRecord      string
	flagConfig      string
	flagHeadless    bool
	flagFrames      int
	flagLockstep    bool
	flagNoAudio     bool
	flagLogFile     string
)

func main() {
	code, err := execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(code)
}

// execute runs the root command and returns the process exit code.
func execute() (int, error) {
	var code int
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, err := run(cmd, args)
		code = c
		return err
	}
	if err := rootCmd.Execute(); err != nil {
		if code == 0 {
			code = 1
		}
		return code, err
	}
	return code, nil
}

var rootCmd = &cobra.Command{
	Use:   "yolk [flags] [entry path]",
	Short: "yolk - a tiny engine for scripted games",
	Long: `yolk loads a game written in JavaScript or Lua and runs it on a
fixed 60 Hz update loop, drawing into a 320x240 canvas.

The game script defines a Game object with init, update and draw.

Controls:
  F2       - Save screenshot.png next to the game
  F3       - Toggle the debug overlay
  Ctrl+C   - Quit

Examples:
  yolk
  yolk ./mygame
  yolk game.egg
  yolk -d -r main.js
  yolk --headless --frames 600 --record=out.gif main.lua`,
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	flags := rootCmd.Flags()
	flags.IntVarP(&flagBuffer, "buffer", "b", 0, "Audio buffer size as a power of two (invalid values use 11)")
	flags.BoolVarP(&flagDebug, "debug", "d", false, "Show the debug overlay and log at debug level")
	flags.IntVarP(&flagInitialHeap, "initial-heap", "i", 0, "Initial script heap in MB (invalid values use 100)")
	flags.StringVarP(&flagRecord, "record", "r", "", "Record a GIF to the given path")
	flags.Lookup("record").NoOptDefVal = recordDefault
	flags.StringVar(&flagConfig, "config", "", "Path to a config YAML")
	flags.BoolVar(&flagHeadless, "headless", false, "Run without a terminal window")
	flags.IntVar(&flagFrames, "frames", 0, "Stop after this many frames in headless mode (0 = no limit)")
	flags.BoolVar(&flagLockstep, "lockstep", false, "Run at most one update per frame")
	flags.BoolVar(&flagNoAudio, "no-audio", false, "Disable the audio mixer")
	flags.StringVar(&flagLogFile, "log-file", "", "Log file for the terminal backend (default: yolk.log in the temp dir)")
}
