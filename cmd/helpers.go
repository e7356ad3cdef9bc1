package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sanigam/video-learning/internal"
)

// buildApp constructs the application for a command. Generation commands
// validate the API key and model up front; transcript-only commands skip
// that so the pipeline can still fall back to demo mode.
func buildApp(cmd *cobra.Command, requireGemini bool) (*internal.App, error) {
	if requireGemini {
		if err := internal.ValidateGeminiRequirements(cmd, config); err != nil {
			return nil, err
		}
		model, err := internal.ResolveModelFlag(cmd, config)
		if err != nil {
			return nil, err
		}
		config.Model = model
	}

	return internal.NewApp(config)
}

// resolveSummaryLength picks the summary detail level: the --length flag when
// set, otherwise the user's stored preference, otherwise Moderate.
func resolveSummaryLength(cmd *cobra.Command, app *internal.App) internal.SummaryLength {
	if flag := cmd.Flags().Lookup("length"); flag != nil && flag.Changed {
		return internal.ParseSummaryLength(flag.Value.String())
	}

	if config.UserEmail != "" {
		if settings, err := app.Settings().Load(config.UserEmail); err == nil {
			return settings.SummaryLength
		}
	}
	return internal.LengthModerate
}

// printDemoNotice warns when the transcript is the built-in sample.
func printDemoNotice(video *internal.ProcessedVideo) {
	if video.Transcript.Degraded && !config.Quiet {
		fmt.Fprint(os.Stderr, internal.DemoNotice)
	}
}

// printSummary renders a summary as markdown on a terminal, plain text otherwise.
func printSummary(video *internal.ProcessedVideo, summary *internal.Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", video.Info.Title)
	b.WriteString(summary.SummaryText)
	b.WriteString("\n\n## Key Points\n\n")
	for _, kp := range summary.KeyPoints {
		fmt.Fprintf(&b, "- %s\n", kp)
	}
	fmt.Fprintf(&b, "\n**Topics:** %s\n", strings.Join(summary.Topics, ", "))

	return printMarkdown(b.String())
}

// printMarkdown renders with glamour when stdout is a terminal.
func printMarkdown(content string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Println(content)
		return nil
	}

	rendered, err := internal.RenderMarkdown(content)
	if err != nil {
		fmt.Println(content)
		return nil
	}
	fmt.Println(rendered)
	return nil
}

// printJSON writes a value as indented JSON to stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
