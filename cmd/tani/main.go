package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dimiro1/banner"

	"github.com/harunnryd/tani/pkg/errorsx"
	"github.com/harunnryd/tani/pkg/logging"
	"github.com/harunnryd/tani/pkg/tani"
)

const version = "dev"

func printBanner() {
	tpl := "{{ .Title \"TANI\" \"\" 0 }}\nVersion: " + version + "\n"
	banner.Init(os.Stdout, true, true, bytes.NewBufferString(tpl))
}

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to YAML config")
		imagePath  = flag.String("image", "", "path to the crop photo")
		text       = flag.String("text", "", "the farmer's problem description")
		audioPath  = flag.String("audio", "", "path to a recorded spoken question, used when -text is empty")
		lat        = flag.Float64("lat", 0, "plot latitude for weather context")
		lon        = flag.Float64("lon", 0, "plot longitude for weather context")
	)
	flag.Parse()

	printBanner()

	cfg, err := tani.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.InitLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	slog.SetDefault(logger)

	assistant, err := tani.NewAssistant(cfg, nil, logger)
	if err != nil {
		logger.Error("failed to build assistant", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, errorsx.UserMessage(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := assistant.Advise(ctx, tani.AdvisoryRequest{
		ImagePath:       *imagePath,
		FarmerText:      *text,
		FarmerAudioPath: *audioPath,
		Latitude:        *lat,
		Longitude:       *lon,
	})
	if err != nil {
		logger.Error("advisory failed",
			slog.String("reason", string(errorsx.Reason(err))),
			slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, errorsx.UserMessage(err))
		os.Exit(1)
	}

	fmt.Printf("\nDetected crop: %s (part: %s, severity: %s)\n\n",
		result.Crop, result.PlantPart, result.Severity)
	fmt.Println(result.Advice)
	if result.AudioPath != "" {
		fmt.Printf("\nSpoken reply: %s\n", result.AudioPath)
	}
	if result.TranscriptPath != "" {
		fmt.Printf("Transcript:   %s\n", result.TranscriptPath)
	}
}
