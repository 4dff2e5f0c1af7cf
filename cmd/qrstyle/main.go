// Package main provides the CLI entry point for qrstyle.
package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/qrstyle/pkg/adapters/callbackoutput"
	"github.com/user/qrstyle/pkg/adapters/fileoutput"
	"github.com/user/qrstyle/pkg/adapters/filesink"
	"github.com/user/qrstyle/pkg/adapters/ggrenderer"
	"github.com/user/qrstyle/pkg/adapters/logger"
	"github.com/user/qrstyle/pkg/adapters/nullsink"
	"github.com/user/qrstyle/pkg/adapters/osfilesystem"
	"github.com/user/qrstyle/pkg/config"
	"github.com/user/qrstyle/pkg/ports"
	"github.com/user/qrstyle/pkg/qrstyle"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newApp builds the CLI. Usage strings are translated here, after the
// lexicons are registered.
func newApp() *cli.App {
	return &cli.App{
		Name:        "qrstyle",
		Usage:       l10n.T("Render stylized QR codes"),
		Description: l10n.T("qrstyle renders QR codes with styled modules, eyes, backgrounds and logos."),
		HideVersion: true,
		Commands: []*cli.Command{
			{
				Name:      "render",
				Usage:     l10n.T("Render one QR code to an image file"),
				ArgsUsage: "TEXT",
				Flags:     append(styleFlags(), renderFlags()...),
				Action:    runRender,
			},
			{
				Name:      "batch",
				Usage:     l10n.T("Render many QR codes in parallel"),
				ArgsUsage: "[TEXT...]",
				Flags:     append(styleFlags(), batchFlags()...),
				Action:    runBatch,
			},
			{
				Name:  "version",
				Usage: l10n.T("Show version information"),
				Action: func(c *cli.Context) error {
					fmt.Println(l10n.F("qrstyle version %s", version))
					return nil
				},
			},
		},
	}
}

// styleFlags are shared by render and batch. They override config file values.
func styleFlags() []cli.Flag {
	return []cli.Flag{
		// Input
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("YAML config file"), Category: l10n.T("Input")},

		// Encoding
		&cli.StringFlag{Name: "profile", Aliases: []string{"p"}, Usage: l10n.T("Style profile (classic, vector, awesome)"), Category: l10n.T("Encoding")},
		&cli.StringFlag{Name: "engine", Usage: l10n.T("QR engine (yeqown, skip2, rsc)"), Category: l10n.T("Encoding")},
		&cli.StringFlag{Name: "ec-level", Aliases: []string{"e"}, Usage: l10n.T("Error correction level (L, M, Q, H)"), Category: l10n.T("Encoding")},

		// Geometry
		&cli.IntFlag{Name: "size", Aliases: []string{"s"}, Usage: l10n.T("Output side in pixels"), Category: l10n.T("Layout and Style")},
		&cli.IntFlag{Name: "margin", Usage: l10n.T("Quiet zone in pixels"), Category: l10n.T("Layout and Style")},
		&cli.Float64Flag{Name: "border-radius", Usage: l10n.T("Outer corner radius in pixels"), Category: l10n.T("Layout and Style")},
		&cli.Float64Flag{Name: "dot-scale", Usage: l10n.T("Module dot scale in (0, 1]"), Category: l10n.T("Layout and Style")},
		&cli.StringFlag{Name: "block", Usage: l10n.T("Module shape (square, circle)"), Category: l10n.T("Layout and Style")},

		// Colors
		&cli.StringFlag{Name: "dark", Usage: l10n.T("Dark module color (hex, e.g., #000000)"), Category: l10n.T("Layout and Style")},
		&cli.StringFlag{Name: "light", Usage: l10n.T("Light module color (hex, e.g., #ffffff)"), Category: l10n.T("Layout and Style")},
		&cli.StringFlag{Name: "eyes", Usage: l10n.T("Finder eye color (hex)"), Category: l10n.T("Layout and Style")},
		&cli.StringFlag{Name: "background", Usage: l10n.T("Background color (hex or transparent)"), Category: l10n.T("Layout and Style")},
		&cli.StringSliceFlag{Name: "gradient", Usage: l10n.T("Gradient stop as OFFSET:COLOR, repeatable"), Category: l10n.T("Layout and Style")},

		// Background image
		&cli.StringFlag{Name: "background-image", Usage: l10n.T("Background image file"), Category: l10n.T("Background")},
		&cli.BoolFlag{Name: "auto-color", Usage: l10n.T("Take the dark color from the background image"), Category: l10n.T("Background")},
		&cli.BoolFlag{Name: "masked-dots", Usage: l10n.T("Paint modules from the background image"), Category: l10n.T("Background")},
		&cli.BoolFlag{Name: "mask-grayscale", Usage: l10n.T("Use a grayscale mask for masked dots"), Category: l10n.T("Background")},

		// Logo
		&cli.StringFlag{Name: "logo", Usage: l10n.T("Logo image file"), Category: l10n.T("Logo")},
		&cli.Float64Flag{Name: "logo-scale", Usage: l10n.T("Logo size relative to the viewport"), Category: l10n.T("Logo")},
		&cli.Float64Flag{Name: "logo-margin", Usage: l10n.T("Logo plate margin in pixels"), Category: l10n.T("Logo")},
		&cli.Float64Flag{Name: "logo-corner-radius", Usage: l10n.T("Logo corner radius (negative for a circle)"), Category: l10n.T("Logo")},
		&cli.StringFlag{Name: "logo-badge", Usage: l10n.T("Service badge image file"), Category: l10n.T("Logo")},

		// Eyes
		&cli.StringFlag{Name: "outer-eye", Usage: l10n.T("Outer eye image file"), Category: l10n.T("Eyes")},
		&cli.StringFlag{Name: "inner-eye", Usage: l10n.T("Inner eye image file"), Category: l10n.T("Eyes")},
		&cli.Float64SliceFlag{Name: "eye-rotation", Usage: l10n.T("Eye rotations in degrees: top-left, top-right, bottom-left"), Category: l10n.T("Eyes")},

		// Export
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: l10n.T("Output format (png, jpeg, svg)"), Category: l10n.T("Output")},
		&cli.IntFlag{Name: "quality", Aliases: []string{"q"}, Usage: l10n.T("JPEG quality (1-100)"), Category: l10n.T("Output")},

		// Debug
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: l10n.T("Enable debug output"), Category: l10n.T("Debug")},
		&cli.StringFlag{Name: "debug-dir", Usage: l10n.T("Directory for debug output"), Category: l10n.T("Debug")},

		// Logging
		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Value: "info", Usage: l10n.T("Log level (debug, info, warn, error)"), Category: l10n.T("Logging")},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: l10n.T("Suppress all log output"), Category: l10n.T("Logging")},
	}
}

func renderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: l10n.T("Output file path (default: qr-code.png)"), Category: l10n.T("Output")},
		&cli.BoolFlag{Name: "data-uri", Usage: l10n.T("Print the output as a data URI"), Category: l10n.T("Output")},
	}
}

func batchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: l10n.T("File with one text per line"), Category: l10n.T("Input")},
		&cli.StringFlag{Name: "out-dir", Aliases: []string{"o"}, Value: ".", Usage: l10n.T("Output directory"), Category: l10n.T("Output")},
		&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: l10n.T("Number of workers (default: CPU count)"), Category: l10n.T("Output")},
	}
}

// runRender executes the render command.
func runRender(c *cli.Context) error {
	log := newLogger(c)
	ctx, cancel := signalContext(log)
	defer cancel()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.Args().Len() > 0 {
		cfg.Text = strings.Join(c.Args().Slice(), " ")
	}
	if cfg.Text == "" {
		return fmt.Errorf("%s", l10n.T("TEXT argument is required"))
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if !c.IsSet("format") {
		if f := formatFromExt(cfg.Output); f != "" {
			cfg.Format = f
		}
	}

	// Create adapters
	fs := osfilesystem.New()
	renderer := ggrenderer.New()

	// Create debug sink
	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	opts, err := cfg.ToOptions(fs, renderer)
	if err != nil {
		return err
	}
	if c.Bool("data-uri") {
		opts.Outputs = append(opts.Outputs, callbackoutput.New(func(out ports.Output) {
			fmt.Println(out.DataURI)
		}))
	}

	gen := qrstyle.NewGenerator(renderer, sink, log)
	result, err := gen.Render(ctx, cfg.Text, opts)
	if err != nil {
		return err
	}

	if err := fileoutput.New(cfg.Output, fs).Accept(ctx, result.Output); err != nil {
		return err
	}
	log.Info(l10n.F("Output saved to %s", cfg.Output))
	return nil
}

// runBatch executes the batch command.
func runBatch(c *cli.Context) error {
	log := newLogger(c)
	ctx, cancel := signalContext(log)
	defer cancel()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	texts := c.Args().Slice()
	if path := c.String("input"); path != "" {
		lines, err := readLines(path)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		texts = append(texts, lines...)
	}
	if len(texts) == 0 {
		return fmt.Errorf("%s", l10n.T("At least one text is required"))
	}

	workers := cfg.Workers
	if c.IsSet("workers") {
		workers = c.Int("workers")
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	fs := osfilesystem.New()
	opts, err := cfg.ToOptions(fs, ggrenderer.New())
	if err != nil {
		return err
	}

	jobs := make([]qrstyle.Job, len(texts))
	for i, text := range texts {
		jobs[i] = qrstyle.Job{Text: text, Options: opts}
	}

	log.Info(l10n.F("Rendering %d codes with %d workers", len(jobs), workers))
	// Workers report warnings and errors only.
	workerLog := logger.AtLeast(log.WithComponent("batch"), ports.LevelWarn)
	results, err := qrstyle.Batch(ctx, jobs, workers, func() *qrstyle.Generator {
		return qrstyle.NewGenerator(ggrenderer.New(), nullsink.New(), workerLog)
	})
	if err != nil {
		return err
	}

	outDir := c.String("out-dir")
	ext := extForFormat(opts.Format)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			log.Warn(l10n.F("Failed to render %q: %s", r.Text, r.Err))
			continue
		}
		path := filepath.Join(outDir, fmt.Sprintf("qr-%03d%s", r.Index+1, ext))
		if err := fileoutput.New(path, fs).Accept(ctx, r.Result.Output); err != nil {
			return err
		}
		log.Info(l10n.F("Output saved to %s", path))
	}

	if failed > 0 {
		return fmt.Errorf("%s", l10n.F("%d of %d codes failed", failed, len(results)))
	}
	return nil
}

func newLogger(c *cli.Context) ports.Logger {
	if c.Bool("quiet") {
		return logger.New(ports.LevelQuiet)
	}
	return logger.New(ports.ParseLogLevel(c.String("log-level")))
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Warn(l10n.T("Interrupted, shutting down..."))
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	setString := func(name string, dst *string) {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	// Flag paths are relative to the working directory, not the config file.
	setPath := func(name string, dst *string) error {
		if !c.IsSet(name) {
			return nil
		}
		abs, err := filepath.Abs(c.String(name))
		if err != nil {
			return fmt.Errorf("--%s: %w", name, err)
		}
		*dst = abs
		return nil
	}
	setFloat := func(name string, dst **float64) {
		if c.IsSet(name) {
			v := c.Float64(name)
			*dst = &v
		}
	}

	// Encoding
	setString("profile", &cfg.Profile)
	setString("engine", &cfg.Engine)
	setString("ec-level", &cfg.ECLevel)

	// Geometry
	if c.IsSet("size") {
		v := c.Int("size")
		cfg.Size = &v
	}
	if c.IsSet("margin") {
		v := c.Int("margin")
		cfg.Margin = &v
	}
	setFloat("border-radius", &cfg.BorderRadius)
	setFloat("dot-scale", &cfg.DotScale)
	setString("block", &cfg.BlockStyle)

	// Colors
	setString("dark", &cfg.Colors.Dark)
	setString("light", &cfg.Colors.Light)
	setString("eyes", &cfg.Colors.Eyes)
	setString("background", &cfg.Colors.Background)
	if c.IsSet("gradient") {
		stops, err := parseStops(c.StringSlice("gradient"))
		if err != nil {
			return cfg, err
		}
		cfg.Gradient = stops
	}

	// Background
	if err := setPath("background-image", &cfg.BackgroundImage); err != nil {
		return cfg, err
	}
	if c.IsSet("auto-color") {
		v := c.Bool("auto-color")
		cfg.AutoColor = &v
	}
	if c.IsSet("masked-dots") {
		cfg.MaskedDots = c.Bool("masked-dots")
	}
	if c.IsSet("mask-grayscale") {
		cfg.MaskGrayscale = c.Bool("mask-grayscale")
	}

	// Logo
	setFloat("logo-scale", &cfg.Logo.Scale)
	setFloat("logo-margin", &cfg.Logo.Margin)
	setFloat("logo-corner-radius", &cfg.Logo.CornerRadius)

	// Images
	for name, dst := range map[string]*string{
		"logo":       &cfg.Logo.Image,
		"logo-badge": &cfg.Logo.Badge,
		"outer-eye":  &cfg.Eyes.OuterImage,
		"inner-eye":  &cfg.Eyes.InnerImage,
	} {
		if err := setPath(name, dst); err != nil {
			return cfg, err
		}
	}

	// Eyes
	if c.IsSet("eye-rotation") {
		rot := c.Float64Slice("eye-rotation")
		dst := []*float64{&cfg.Eyes.Rotation.TopLeft, &cfg.Eyes.Rotation.TopRight, &cfg.Eyes.Rotation.BottomLeft}
		for i := 0; i < len(rot) && i < len(dst); i++ {
			*dst[i] = rot[i]
		}
	}

	// Export
	setString("format", &cfg.Format)
	if c.IsSet("quality") {
		cfg.Quality = c.Int("quality")
	}

	// Debug
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	setString("debug-dir", &cfg.DebugDir)

	return cfg, nil
}

// parseStops parses OFFSET:COLOR pairs such as "0:#ff0000".
func parseStops(values []string) ([]config.StopConfig, error) {
	stops := make([]config.StopConfig, 0, len(values))
	for _, v := range values {
		offset, col, ok := strings.Cut(v, ":")
		if !ok {
			return nil, fmt.Errorf("invalid gradient stop %q", v)
		}
		var f float64
		if _, err := fmt.Sscanf(offset, "%g", &f); err != nil {
			return nil, fmt.Errorf("invalid gradient offset %q: %w", offset, err)
		}
		stops = append(stops, config.StopConfig{Offset: f, Color: col})
	}
	return stops, nil
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".svg":
		return "svg"
	case ".png":
		return "png"
	default:
		return ""
	}
}

func extForFormat(f ports.ImageFormat) string {
	switch f {
	case ports.FormatJPEG:
		return ".jpg"
	case ports.FormatSVG:
		return ".svg"
	default:
		return ".png"
	}
}

// readLines returns the non-blank lines of a file.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
