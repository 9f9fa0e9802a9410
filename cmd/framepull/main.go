// Package main provides the CLI entry point for framepull.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/framepull/pkg/adapters/filesink"
	"github.com/user/framepull/pkg/adapters/ggsurface"
	"github.com/user/framepull/pkg/adapters/logger"
	"github.com/user/framepull/pkg/adapters/mp4source"
	"github.com/user/framepull/pkg/adapters/nullsink"
	"github.com/user/framepull/pkg/adapters/queuecodec"
	"github.com/user/framepull/pkg/codecs"
	"github.com/user/framepull/pkg/config"
	"github.com/user/framepull/pkg/decodesource"
	"github.com/user/framepull/pkg/ports"
)

var version = "dev"

func init() {
	// The passthrough device is the only built-in codec; real decoders
	// register themselves the same way.
	codecs.Register(codecs.Candidate{
		Name: "passthrough",
		New: func() ports.AsyncCodec {
			return queuecodec.New(queuecodec.Options{})
		},
	})
}

func main() {
	app := &cli.App{
		Name:    "framepull",
		Usage:   l10n.T("Pull decoded frames out of MP4 files one read at a time"),
		Version: version,
		Commands: []*cli.Command{
			decodeCommand(),
			probeCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     l10n.T("Decode a fragmented MP4 and drain the units to a sink"),
		ArgsUsage: "INPUT",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"C"}, Usage: l10n.T("YAML configuration file")},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: l10n.T("Raw output file path (omit to discard)")},
			&cli.StringFlag{Name: "codec", Usage: l10n.T("Preferred codec component name")},
			&cli.Int64Flag{Name: "seek-ms", Value: -1, Usage: l10n.T("Seek to this position before the first read")},
			&cli.BoolFlag{Name: "render", Usage: l10n.T("Render units to a canvas surface instead of copying them out")},
			&cli.IntFlag{Name: "input-timeout-ms", Usage: l10n.T("Wait for a free input buffer in milliseconds")},
			&cli.IntFlag{Name: "output-timeout-ms", Usage: l10n.T("Wait for a decoded buffer in milliseconds")},
			&cli.IntFlag{Name: "max-retries", Usage: l10n.T("Feed/drain iterations per read")},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: l10n.T("Log level (debug, info, warn, error, quiet)")},
		},
		Action: runDecode,
	}
}

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     l10n.T("Print the negotiated output format of an MP4 file"),
		ArgsUsage: "INPUT",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "codec", Usage: l10n.T("Preferred codec component name")},
		},
		Action: runProbe,
	}
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		var err error
		cfg, err = config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
	}

	if c.IsSet("output") {
		cfg.OutputPath = c.String("output")
	}
	if c.IsSet("codec") {
		cfg.Codec = c.String("codec")
	}
	if c.IsSet("seek-ms") {
		cfg.SeekToMs = c.Int64("seek-ms")
	}
	if c.IsSet("render") {
		cfg.Render.Enabled = c.Bool("render")
	}
	if c.IsSet("input-timeout-ms") {
		cfg.InputTimeoutMs = c.Int("input-timeout-ms")
	}
	if c.IsSet("output-timeout-ms") {
		cfg.OutputTimeoutMs = c.Int("output-timeout-ms")
	}
	if c.IsSet("max-retries") {
		cfg.MaxRetries = c.Int("max-retries")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runDecode(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one INPUT argument")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	cfg.InputPath = c.Args().First()

	log := logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
	log.Info("Decoding %s", cfg.InputPath)

	source, err := mp4source.Open(cfg.InputPath)
	if err != nil {
		log.Error("Failed to open input: %s", err)
		return err
	}

	opts := decodesource.Options{
		PreferredCodec: cfg.Codec,
		InputTimeout:   cfg.InputTimeout(),
		OutputTimeout:  cfg.OutputTimeout(),
		MaxRetries:     cfg.MaxRetries,
		Logger:         log,
	}

	if cfg.Render.Enabled {
		streamFormat := source.Format()
		surface, err := ggsurface.New(ggsurface.Options{
			CanvasWidth:  cfg.Render.CanvasWidth,
			CanvasHeight: cfg.Render.CanvasHeight,
			FrameWidth:   streamFormat.Width,
			FrameHeight:  streamFormat.Height,
			Caption:      cfg.Render.Caption,
		})
		if err != nil {
			return err
		}
		opts.Surface = surface
	}

	src, err := decodesource.Create(source, opts)
	if err != nil {
		return err
	}
	defer src.Release()

	var sink ports.UnitSink
	if cfg.OutputPath != "" {
		fs, err := filesink.New(cfg.OutputPath)
		if err != nil {
			return err
		}
		sink = fs
	} else {
		sink = nullsink.New()
	}
	defer sink.Close()

	if err := src.Start(); err != nil {
		return err
	}

	// A second signal falls through to the default handler.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupt
		signal.Stop(interrupt)
		log.Info("Interrupted, shutting down...")
		src.Stop()
	}()

	var readOpts *ports.ReadOptions
	if cfg.SeekToMs >= 0 {
		readOpts = &ports.ReadOptions{
			Seek: &ports.SeekRequest{TimeUs: cfg.SeekToMs * 1000, Mode: ports.SeekPreviousSync},
		}
	}

	start := time.Now()
	units := 0
	for {
		unit, err := src.Read(readOpts)
		readOpts = nil

		if errors.Is(err, ports.ErrEndOfStream) {
			break
		}
		if errors.Is(err, ports.ErrFormatChanged) {
			format, ferr := src.Format()
			if ferr == nil {
				log.Info("Format changed to %s %dx%d", format.MediaType, format.Width, format.Height)
			}
			continue
		}
		if err != nil {
			log.Error("Decode failed: %s", err)
			return err
		}

		if werr := sink.WriteUnit(unit); werr != nil {
			log.Error("Failed to write output: %s", werr)
			return werr
		}
		units++
	}

	if err := src.Stop(); err != nil && !errors.Is(err, ports.ErrInvalidState) {
		return err
	}

	log.Info("Decoded %d units in %d ms", units, time.Since(start).Milliseconds())
	if cfg.OutputPath != "" {
		log.Info("Output saved to %s", cfg.OutputPath)
	}
	return nil
}

func runProbe(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one INPUT argument")
	}

	source, err := mp4source.Open(c.Args().First())
	if err != nil {
		return err
	}

	src, err := decodesource.Create(source, decodesource.Options{
		PreferredCodec: c.String("codec"),
	})
	if err != nil {
		return err
	}
	defer src.Release()

	format, err := src.Format()
	if err != nil {
		return err
	}

	fmt.Printf("media type:   %s\n", format.MediaType)
	fmt.Printf("codec:        %s\n", format.Codec)
	fmt.Printf("dimensions:   %dx%d\n", format.Width, format.Height)
	fmt.Printf("frame rate:   %.2f fps\n", format.FrameRate)
	fmt.Printf("pixel format: %s\n", format.PixelFormat)
	fmt.Printf("samples:      %d\n", source.Samples())
	return nil
}
