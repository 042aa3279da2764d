package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"smart-tutor-pipeline/audio"
	"smart-tutor-pipeline/cache"
	"smart-tutor-pipeline/export"
	"smart-tutor-pipeline/logger"
	"smart-tutor-pipeline/media"
	"smart-tutor-pipeline/pipeline"
	"smart-tutor-pipeline/script"
)

var skipExport bool

var generateCmd = &cobra.Command{
	Use:   "generate [topic]",
	Short: "Generate an explainer video for a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := args[0]
		ctx := cmd.Context()

		geminiKey := os.Getenv("GEMINI_API_KEY")
		if geminiKey == "" {
			return fmt.Errorf("GEMINI_API_KEY not set")
		}
		pexelsKey := os.Getenv("PEXELS_API_KEY")
		if pexelsKey == "" {
			return fmt.Errorf("PEXELS_API_KEY not set")
		}

		// The cache is never a hard dependency: an unreachable backend
		// degrades to a permanent miss.
		var gateway *cache.Gateway
		if store, err := cache.NewRedisStore(cfg.Cache); err != nil {
			logger.Warn("media cache unavailable, continuing without it", logger.Err(err))
			gateway = cache.New(nil, cfg.Cache.KeyPrefix)
		} else {
			defer store.Close()
			gateway = cache.New(store, cfg.Cache.KeyPrefix)
		}

		var images media.ImageSearcher
		if key := os.Getenv("GOOGLE_SEARCH_API_KEY"); key != "" && cfg.Media.SearchCX != "" {
			search, err := media.NewImageSearch(ctx, key, cfg.Media.SearchCX)
			if err != nil {
				logger.Warn("image search unavailable", logger.Err(err))
			} else {
				images = search
			}
		}

		resolver := media.NewResolver(gateway, media.NewPexelsClient(pexelsKey), images, cfg.Media.PlaceholderURL)
		enricher := media.NewEnricher(resolver, media.NewHTTPImageLoader(),
			cfg.Media.ProxyBaseURL, cfg.Media.ProxyWidth, cfg.Media.ProxyHeight)

		gen := pipeline.New(
			script.New(geminiKey, cfg.Script),
			enricher,
			audio.New(geminiKey, cfg.Speech),
			cfg.Paths.Output,
		)

		result, err := gen.Generate(ctx, topic)
		if err != nil {
			return err
		}

		fmt.Printf("Session ready: %d segments, %.1fs narration (%s)\n",
			len(result.Session.Segments), result.Session.DurationSec, result.Session.AudioPath)

		if skipExport {
			return nil
		}

		outPath := filepath.Join(filepath.Dir(result.Track.Path),
			fmt.Sprintf("explainer.%s", cfg.Export.Format))
		rec := export.NewFFmpegRecorder(cfg.Export.Width, cfg.Export.Height, cfg.Export.FPS,
			result.Track.Path, outPath)

		file, err := export.New(cfg.Export).Export(ctx, result.Session, rec)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Printf("Video ready: %s\n", file)
		return nil
	},
}

func init() {
	generateCmd.Flags().BoolVar(&skipExport, "no-export", false, "skip rendering the downloadable file")
	rootCmd.AddCommand(generateCmd)
}
