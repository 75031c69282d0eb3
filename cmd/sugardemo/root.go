package main

import (
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"

	"github.com/gogpu/sugarloaf"
	"github.com/gogpu/sugarloaf/components/layer"
	"github.com/gogpu/sugarloaf/font"
	"github.com/gogpu/sugarloaf/render"
)

// config is the demo configuration, read from flags, SUGARDEMO_* variables
// and an optional YAML file.
type config struct {
	Output          string  `mapstructure:"output"`
	Width           int     `mapstructure:"width"`
	Height          int     `mapstructure:"height"`
	Scale           float32 `mapstructure:"scale"`
	FontSize        float32 `mapstructure:"font_size"`
	LineHeight      float32 `mapstructure:"line_height"`
	Background      string  `mapstructure:"background"`
	BackgroundImage string  `mapstructure:"background_image"`
	FontDir         string  `mapstructure:"font_dir"`
	FontFamily      string  `mapstructure:"font_family"`
	Frames          int     `mapstructure:"frames"`
	Text            string  `mapstructure:"text"`
	Trace           bool    `mapstructure:"trace"`
	Verbose         bool    `mapstructure:"verbose"`
}

func defaults() config {
	return config{
		Output:     "sugarloaf.png",
		Width:      800,
		Height:     480,
		Scale:      1,
		FontSize:   sugarloaf.DefaultFontSize,
		LineHeight: sugarloaf.DefaultLineHeight,
		Background: "#1d1f21",
		Frames:     1,
		Text:       "sugarloaf: cells, runs, rects and spans",
	}
}

var (
	cfgFile string
	cfg     config
)

var rootCmd = &cobra.Command{
	Use:          "sugardemo",
	Short:        "Render a sample cell grid to a PNG",
	Long:         `sugardemo pushes a few styled rows through sugarloaf on the software device and writes the presented frame to a PNG file.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	cobra.OnInitialize(initConfig)

	d := defaults()
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML)")
	flags := rootCmd.Flags()
	flags.StringP("output", "o", d.Output, "output PNG file")
	flags.Int("width", d.Width, "surface width in physical pixels")
	flags.Int("height", d.Height, "surface height in physical pixels")
	flags.Float32("scale", d.Scale, "device scale factor")
	flags.Float32("font-size", d.FontSize, "font size in logical pixels")
	flags.Float32("line-height", d.LineHeight, "line height multiplier")
	flags.String("background", d.Background, "background color")
	flags.String("background-image", "", "background image file")
	flags.String("font-dir", "", "directory with additional font files")
	flags.String("font-family", "", "regular font family")
	flags.Int("frames", d.Frames, "number of frames to render")
	flags.String("text", d.Text, "text of the first row")
	flags.Bool("trace", false, "print frame spans to stdout")
	flags.BoolP("verbose", "v", false, "debug logging")

	for key, flag := range map[string]string{
		"output":           "output",
		"width":            "width",
		"height":           "height",
		"scale":            "scale",
		"font_size":        "font-size",
		"line_height":      "line-height",
		"background":       "background",
		"background_image": "background-image",
		"font_dir":         "font-dir",
		"font_family":      "font-family",
		"frames":           "frames",
		"text":             "text",
		"trace":            "trace",
		"verbose":          "verbose",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

func initConfig() {
	viper.SetEnvPrefix("sugardemo")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "sugardemo: reading config: %v\n", err)
		}
	}
	cfg = defaults()
	_ = viper.Unmarshal(&cfg)
}

func run(cmd *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	sugarloaf.SetLogger(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	tp, err := newTracerProvider(cfg.Trace, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	dev := render.NewSoftwareDevice(cfg.Width, cfg.Height)
	s, err := newSugarloaf(dev, cfg, tp.Tracer("sugardemo"))
	if err != nil {
		return err
	}
	defer s.Close()

	var state sugarloaf.FrameState
	for range max(cfg.Frames, 1) {
		pushDemo(s, cfg.Text)
		state = s.Render(ctx)
	}
	if state != sugarloaf.StatePresented {
		return fmt.Errorf("last frame was %s", state)
	}

	if err := writePNG(cfg.Output, dev); err != nil {
		return err
	}
	logger.Info("sugardemo: frame saved", "output", cfg.Output, "frames", s.Frames())
	return nil
}

// newSugarloaf builds the compositor from the demo configuration.
func newSugarloaf(dev render.Device, c config, tracer trace.Tracer) (*sugarloaf.Sugarloaf, error) {
	bg, err := render.ParseColor(c.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}

	db := font.NewDatabase()
	if c.FontDir != "" {
		n, err := db.LoadDir(c.FontDir)
		if err != nil {
			sugarloaf.Logger().Warn("sugardemo: some fonts failed to load", "dir", c.FontDir, "err", err)
		}
		sugarloaf.Logger().Debug("sugardemo: fonts loaded", "dir", c.FontDir, "count", n)
	}
	families := font.DefaultFamilies()
	if c.FontFamily != "" {
		families = font.Families{Regular: font.Font{Family: c.FontFamily}}
	}

	layout := sugarloaf.DefaultLayout(c.Width, c.Height, c.Scale)
	layout.FontSize = c.FontSize
	layout.LineHeight = c.LineHeight
	layout.BackgroundColor = bg
	if c.BackgroundImage != "" {
		layout.BackgroundImage = &layer.Image{Path: c.BackgroundImage}
	}
	layout.Update()

	s, err := sugarloaf.New(dev, layout, families,
		sugarloaf.WithDatabase(db),
		sugarloaf.WithTracer(tracer),
	)
	if s == nil {
		return nil, err
	}
	if err != nil {
		sugarloaf.Logger().Warn("sugardemo: using fallback fonts", "err", err)
	}
	return s, nil
}

func writePNG(path string, dev *render.SoftwareDevice) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, dev.Image()); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
