package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/openguard/openguard/internal/config"
	"github.com/openguard/openguard/internal/core"
	"github.com/openguard/openguard/internal/github"
	"github.com/openguard/openguard/internal/llm"
	"github.com/openguard/openguard/internal/logger"
	"github.com/openguard/openguard/internal/review"
)

var outputDir string

// Color definitions
var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	infoColor    = color.New(color.FgWhite)
	dimColor     = color.New(color.FgHiBlack)
	boldColor    = color.New(color.Bold)
)

var reviewCmd = &cobra.Command{
	Use:   "review [pr-url]",
	Short: "Run a code-quality review for a GitHub Pull Request",
	Long: `Run a code-quality review for a GitHub Pull Request.

The review command fetches the changed files at the PR's head ref, asks the
model for a structured analysis plus corrected file contents, and prints a
scored problem list. When an output directory is given, the markdown report,
the how-to guide, and the corrected files are written there.

Examples:
  openguard review https://github.com/owner/repo/pull/123
  openguard review -o ./review-out https://github.com/owner/repo/pull/123`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	reviewCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to write the report, how-to, and corrected files to")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	prURL := args[0]

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	// Keep the terminal output readable: only warnings and errors from the
	// pipeline, everything else goes through the colored printer.
	log := logger.NewLogger(slog.LevelWarn, cfg.LogFormat, os.Stderr)

	titleColor.Println("🛡️  OpenGuard - PR Review")
	dimColor.Printf("   Target: %s\n\n", prURL)

	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set\n\nTip: Set the GEMINI_API_KEY environment variable or pass --gemini-api-key")
	}

	ghClient := github.NewClient(ctx, cfg.GitHubToken, log)
	completer := llm.NewClient(llm.ClientConfig{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		Model:      cfg.GeminiModel,
		Timeout:    cfg.GeminiTimeout,
		MaxRetries: cfg.GeminiMaxRetries,
	}, log)
	prompts, err := llm.NewPromptManager()
	if err != nil {
		return fmt.Errorf("failed to initialize prompt manager: %w", err)
	}
	svc := review.NewService(ghClient, completer, prompts, log)

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Suffix = fmt.Sprintf(" Analyzing with %s...", cfg.GeminiModel)
	s.Start()

	start := time.Now()
	result, err := svc.AnalyzePR(ctx, prURL)
	s.Stop()
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	dimColor.Printf("   Completed in %s\n", time.Since(start).Round(time.Millisecond))
	printResult(result)

	if outputDir != "" {
		if err := writeOutputs(outputDir, result); err != nil {
			return fmt.Errorf("failed to write outputs: %w", err)
		}
		fmt.Println()
		successColor.Printf("📁 Outputs written to %s\n", outputDir)
	}
	return nil
}

func printResult(result *review.Result) {
	separator := strings.Repeat("═", 60)
	thinSeparator := strings.Repeat("─", 60)

	fmt.Println()
	titleColor.Println(separator)
	titleColor.Printf("📋 PR #%d: %s\n", result.PRInfo.Number, result.PRInfo.Title)
	titleColor.Println(separator)
	fmt.Println()
	infoColor.Println(result.Analysis.Summary)
	fmt.Println()
	printScore(result.Analysis.Score)

	if result.Analysis.TotalProblems == 0 {
		fmt.Println()
		successColor.Println("✅ No problems found!")
		return
	}

	fmt.Println()
	warnColor.Println(thinSeparator)
	warnColor.Printf("💡 PROBLEMS (%d)\n", result.Analysis.TotalProblems)
	warnColor.Println(thinSeparator)

	for _, fa := range result.Analysis.FileAnalyses {
		fmt.Println()
		boldColor.Printf("%s (%d)\n", fa.Filename, len(fa.Problems))
		for _, p := range fa.Problems {
			fmt.Println()
			printSeverityBadge(p.Severity)
			dimColor.Printf(" line %d", p.Line)
			dimColor.Printf("  [%s]\n", p.Category)
			infoColor.Printf("   %s\n", p.Message)
			if p.Suggestion != "" {
				dimColor.Printf("   Suggestion: %s\n", p.Suggestion)
			}
		}
	}

	fmt.Println()
	if result.CorrectionsApplied {
		successColor.Println("🔧 Corrected versions of the files were generated.")
	} else {
		dimColor.Println("No corrections were generated for this PR.")
	}
}

func printScore(score int) {
	switch {
	case score >= 80:
		successColor.Printf("Score: %d/100\n", score)
	case score >= 50:
		warnColor.Printf("Score: %d/100\n", score)
	default:
		color.New(color.FgRed, color.Bold).Printf("Score: %d/100\n", score)
	}
}

func printSeverityBadge(severity string) {
	switch severity {
	case core.SeverityError:
		color.New(color.BgRed, color.FgWhite, color.Bold).Printf(" %s ", severity)
	case core.SeverityWarning:
		color.New(color.BgYellow, color.FgBlack).Printf(" %s ", severity)
	default:
		color.New(color.BgWhite, color.FgBlack).Printf(" %s ", severity)
	}
}

// writeOutputs materializes the downloadable artifacts on disk: the analysis
// report, the how-to guide, and the corrected files archive when corrections
// were applied.
func writeOutputs(dir string, result *review.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if result.ReportMarkdown != "" {
		if err := os.WriteFile(filepath.Join(dir, "report.md"), []byte(result.ReportMarkdown), 0o644); err != nil {
			return err
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "howto.md"), []byte(result.HowtoMarkdown), 0o644); err != nil {
		return err
	}

	if result.CorrectionsApplied && result.ZipBase64 != "" {
		archive, err := base64.StdEncoding.DecodeString(result.ZipBase64)
		if err != nil {
			return fmt.Errorf("decoding corrected files archive: %w", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "corrected-code.zip"), archive, 0o644); err != nil {
			return err
		}
	}
	return nil
}
