package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/handiism/jimeng-imagegen/internal/config"
	"github.com/handiism/jimeng-imagegen/internal/generate"
	"github.com/handiism/jimeng-imagegen/internal/logging"
	"github.com/handiism/jimeng-imagegen/internal/model"
)

// override is one settings field set from the command line.
type override struct {
	field config.Field
	value string
}

func main() {
	// Command line flags
	var (
		configFlag        = flag.String("config", config.DefaultPath(), "Path to settings file (.json, .yaml or .yml)")
		promptFlag        = flag.String("prompt", "", "Prompt text (or pass it as the first argument)")
		akFlag            = flag.String("ak", "", "Access key (overrides settings)")
		skFlag            = flag.String("sk", "", "Secret key (overrides settings)")
		outputFlag        = flag.String("output", "", "Output directory (overrides settings)")
		ratioFlag         = flag.String("ratio", "", "Aspect ratio: "+ratioList()+" or custom")
		widthFlag         = flag.Int("width", 0, "Custom width in pixels, at least 500 (implies -ratio custom)")
		heightFlag        = flag.Int("height", 0, "Custom height in pixels, at least 500 (implies -ratio custom)")
		defaultPromptFlag = flag.Bool("default-prompt", false, "Use the built-in sample prompt when no prompt is given")
		saveFlag          = flag.Bool("save", false, "Persist the effective settings to the settings file")
		attemptsFlag      = flag.Int("attempts", generate.DefaultMaxAttempts, "Maximum number of status polls")
		intervalFlag      = flag.Duration("interval", generate.DefaultPollInterval, "Pause between status polls")
		logLevelFlag      = flag.String("log-level", "info", "Log level: debug, info, warn, error")
		logFormatFlag     = flag.String("log-format", "console", "Log format: console or json")
	)

	flag.Parse()

	logger := logging.New(logging.Config{Level: *logLevelFlag, Format: *logFormatFlag})

	// Prompt
	prompt := *promptFlag
	if prompt == "" && flag.NArg() > 0 {
		prompt = strings.Join(flag.Args(), " ")
	}
	if prompt == "" && *defaultPromptFlag {
		prompt = config.DefaultPrompt
	}
	if strings.TrimSpace(prompt) == "" && !*saveFlag {
		fmt.Println("Jimeng Image Generator - Generate images from text prompts")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  imagegen -prompt <text> [options]")
		fmt.Println("  imagegen <text> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: imagegen-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load settings and apply flags
	settings := config.Load(*configFlag)

	overrides := []override{
		{config.FieldAccessKey, *akFlag},
		{config.FieldSecretKey, *skFlag},
		{config.FieldOutputDirectory, *outputFlag},
		{config.FieldAspectRatio, *ratioFlag},
	}
	if *widthFlag != 0 || *heightFlag != 0 {
		if *ratioFlag == "" {
			overrides = append(overrides, override{config.FieldAspectRatio, string(model.RatioCustom)})
		}
		if *widthFlag != 0 {
			overrides = append(overrides, override{config.FieldCustomWidth, strconv.Itoa(*widthFlag)})
		}
		if *heightFlag != 0 {
			overrides = append(overrides, override{config.FieldCustomHeight, strconv.Itoa(*heightFlag)})
		}
	}

	for _, o := range overrides {
		if o.value == "" {
			continue
		}
		var err error
		settings, err = settings.With(o.field, o.value)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *saveFlag {
		if err := config.Save(*configFlag, settings); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving settings: %v\n", err)
			os.Exit(1)
		}
		logger.Info().Str("path", *configFlag).Msg("Settings saved")
		if strings.TrimSpace(prompt) == "" {
			return
		}
	}

	// Handle interrupts
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	width, height := settings.Dimensions()
	logger.Debug().
		Str("access_key", logging.Redact(settings.AccessKey)).
		Str("output", settings.OutputDirectory).
		Str("ratio", string(settings.AspectRatio)).
		Int("width", width).
		Int("height", height).
		Msg("Effective settings")

	executor := generate.NewExecutor(generate.Options{
		MaxAttempts:  *attemptsFlag,
		PollInterval: *intervalFlag,
	})

	handle := executor.Start(ctx, settings, prompt, func(ev generate.Event) {
		logging.LogEvent(logger, ev)
	})
	outcome := handle.Wait()

	if outcome.State == generate.StateFailed {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "\nInterrupted, generation cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Generation failed: %v\n", outcome.Err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("Complete! Saved %d/%d images\n", outcome.Saved, len(outcome.Results))
	for _, r := range outcome.Results {
		if r.Success {
			fmt.Println("  " + r.LocalPath)
		}
	}
}

func ratioList() string {
	ratios := model.AspectRatios()
	names := make([]string, 0, len(ratios))
	for _, r := range ratios {
		if r != model.RatioCustom {
			names = append(names, string(r))
		}
	}
	return strings.Join(names, ", ")
}
