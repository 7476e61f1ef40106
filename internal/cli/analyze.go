package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"linkshield/internal/cache"
	"linkshield/internal/classify"
	"linkshield/internal/llm"
	"linkshield/internal/model"
	"linkshield/internal/pipeline"
	"linkshield/internal/reputation"
	"linkshield/internal/whois"
)

var (
	analyzeTimeout time.Duration
	artifactPath   string
	noCache        bool
	noFetch        bool
	outputJSON     bool
	llmProvider    string
	llmModel       string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Analyze a single URL and print its risk verdict",
	Long: `Analyze fetches the page, extracts features, runs the heuristic
detectors, queries the reputation service when configured, scores the
classifier, and fuses everything into one verdict.

Example:
  linkshield analyze https://example.com/login
  linkshield analyze suspicious-site.tk --json
  linkshield analyze https://example.com --llm openai`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 30*time.Second, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&artifactPath, "model", "", "path to the model artifact (overrides config)")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the verdict cache")
	analyzeCmd.Flags().BoolVar(&noFetch, "no-fetch", false, "skip page fetching (lexical and heuristic signals only)")
	analyzeCmd.Flags().BoolVar(&outputJSON, "json", false, "print the verdict as JSON")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm", "", "generate a natural-language summary with this provider (openai)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	analyzer, cfg, err := buildAnalyzer()
	if err != nil {
		return err
	}

	verdict, err := analyzer.Analyze(ctx, model.AnalysisRequest{URL: args[0]})
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	if err := renderVerdict(os.Stdout, verdict, outputJSON); err != nil {
		return err
	}

	if llmProvider != "" {
		summary, err := summarize(ctx, cfg, verdict)
		if err != nil {
			fmt.Fprintf(os.Stderr, "summary unavailable: %v\n", err)
		} else {
			fmt.Printf("\n%s\n", summary)
		}
	}
	return nil
}

// buildAnalyzer assembles the pipeline from configuration: the model
// artifact, the page fetcher, the whois oracle, the reputation provider
// and the verdict cache.
func buildAnalyzer() (*pipeline.Analyzer, *model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	applyFlags(cfg)

	artifact, err := classify.LoadArtifact(cfg.Classifier.ArtifactPath)
	if err != nil {
		return nil, nil, err
	}

	deps := pipeline.Deps{
		Oracle: whois.NewOracle(cfg.Whois),
		Logger: newLogger(cfg.Output.Verbose),
	}
	if !noFetch {
		deps.Fetcher = pipeline.NewHTTPFetcher(cfg.HTTP)
	}
	if provider := reputation.NewHTTPProvider(cfg.Reputation); provider != nil {
		deps.Reputation = provider
	}
	if cfg.Cache.Enabled {
		deps.Cache = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}

	return pipeline.NewAnalyzer(cfg, artifact, deps), cfg, nil
}

func applyFlags(cfg *model.Config) {
	if artifactPath != "" {
		cfg.Classifier.ArtifactPath = artifactPath
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
}

func summarize(ctx context.Context, cfg *model.Config, verdict *model.RiskVerdict) (string, error) {
	cfg.LLM.Provider = llmProvider
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	summarizer, err := llm.NewSummarizer(cfg.LLM)
	if err != nil {
		return "", err
	}
	if summarizer == nil {
		return "", fmt.Errorf("no LLM provider configured")
	}
	return summarizer.Summarize(ctx, verdict)
}
