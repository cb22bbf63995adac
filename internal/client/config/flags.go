package config

import (
	"flag"
	"os"
	"time"

	"github.com/merrycards/merry/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the API
//	-t int      request timeout in seconds
//	-d string   data directory
//	-w int      working width photos are resized to (0 keeps the size)
//	-cw float   fraction of the width kept by the crop
//	-ch float   fraction of the height kept by the crop
//	-l string   log level
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-d", "-w", "-cw", "-ch", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.IntVar(&cfg.Crop.WorkingWidth, "w", cfg.Crop.WorkingWidth, "working width in pixels")
	fs.Float64Var(&cfg.Crop.WidthFraction, "cw", cfg.Crop.WidthFraction, "crop width fraction")
	fs.Float64Var(&cfg.Crop.HeightFraction, "ch", cfg.Crop.HeightFraction, "crop height fraction")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only an explicit -t replaces a sub-second timeout from earlier sources
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
