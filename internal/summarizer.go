package internal

import (
	"context"
	"strings"
)

// SummaryLength controls how detailed a summary should be.
type SummaryLength string

const (
	LengthConcise       SummaryLength = "Concise"
	LengthModerate      SummaryLength = "Moderate"
	LengthComprehensive SummaryLength = "Comprehensive"
)

type lengthBudget struct {
	words  int
	points int
}

var lengthBudgets = map[SummaryLength]lengthBudget{
	LengthConcise:       {words: 150, points: 3},
	LengthModerate:      {words: 300, points: 5},
	LengthComprehensive: {words: 500, points: 8},
}

// ParseSummaryLength normalizes a user-supplied length name. Unknown values
// fall back to Moderate.
func ParseSummaryLength(s string) SummaryLength {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "concise", "short":
		return LengthConcise
	case "comprehensive", "long", "detailed":
		return LengthComprehensive
	default:
		return LengthModerate
	}
}

// Summary is the structured output of the summarizer agent.
type Summary struct {
	SummaryText string   `json:"summary_text"`
	KeyPoints   []string `json:"key_points"`
	Topics      []string `json:"topics"`

	Status ArtifactStatus `json:"status"`
}

// VideoOverview is a short structural description of the video, generated
// from an excerpt before full summarization.
type VideoOverview struct {
	Description    string `json:"description"`
	PrimaryTopic   string `json:"primary_topic"`
	TargetAudience string `json:"target_audience"`
	ContentType    string `json:"content_type"`

	Status ArtifactStatus `json:"status"`
}

// Summarizer produces overviews and summaries of video transcripts.
type Summarizer struct {
	generator *TextGenerator
	prompts   *PromptBuilder
	minChars  int
}

// NewSummarizer creates a summarizer backed by the given generator. minChars
// is the minimum trimmed transcript length accepted for generation.
func NewSummarizer(generator *TextGenerator, prompts *PromptBuilder, minChars int) *Summarizer {
	if minChars <= 0 {
		minChars = DefaultTranscriptMinChars
	}
	return &Summarizer{generator: generator, prompts: prompts, minChars: minChars}
}

// Overview generates a short description of the video from a transcript
// excerpt. On any failure it returns a degraded placeholder.
func (s *Summarizer) Overview(ctx context.Context, transcript string, info *VideoInfo) *VideoOverview {
	if issue := transcriptIssue(transcript, s.minChars); issue != "" {
		ov := unusableTranscriptOverview(issue)
		ov.Status = degradedStatus(ReasonInvalidInput, issue)
		return ov
	}

	prompt, err := s.prompts.Build("overview", PromptData{
		Transcript: OverviewExcerpt(transcript, overviewTranscriptLimit),
	}.withVideo(info))
	if err != nil {
		ov := fallbackOverview()
		ov.Status = degradedStatus(ReasonProvider, err.Error())
		return ov
	}

	out, status := generateJSON[VideoOverview](ctx, s.generator, GenerationRequest{
		Prompt:       prompt,
		SystemPrompt: s.prompts.System("overview"),
		Temperature:  0.3,
	})
	if status != nil {
		ov := fallbackOverview()
		ov.Status = *status
		return ov
	}

	repairOverview(out)
	out.Status = validatedStatus()
	return out
}

// Summarize generates a summary at the requested detail level. It never
// returns an error: invalid input and provider failures both yield a degraded
// summary with an explanatory status.
func (s *Summarizer) Summarize(ctx context.Context, transcript string, info *VideoInfo, length SummaryLength) *Summary {
	if issue := transcriptIssue(transcript, s.minChars); issue != "" {
		return unusableTranscriptSummary(issue)
	}

	budget, ok := lengthBudgets[length]
	if !ok {
		budget = lengthBudgets[LengthModerate]
		length = LengthModerate
	}

	prompt, err := s.prompts.Build("summary", PromptData{
		Transcript: TruncateWithNote(transcript, summaryTranscriptLimit),
		Length:     string(length),
		WordLimit:  budget.words,
		PointLimit: budget.points,
	}.withVideo(info))
	if err != nil {
		sum := fallbackSummary()
		sum.Status = degradedStatus(ReasonProvider, err.Error())
		return sum
	}

	out, status := generateJSON[Summary](ctx, s.generator, GenerationRequest{
		Prompt:       prompt,
		SystemPrompt: s.prompts.System("summary"),
		Temperature:  0.5,
	})
	if status != nil {
		sum := fallbackSummary()
		sum.Status = *status
		return sum
	}

	repairSummary(out)
	out.Status = validatedStatus()
	return out
}

// Refine regenerates a summary incorporating user feedback. The previous
// summary text anchors the revision so unrelated content is not introduced.
func (s *Summarizer) Refine(ctx context.Context, transcript string, info *VideoInfo, previous *Summary, feedback string) *Summary {
	if issue := transcriptIssue(transcript, s.minChars); issue != "" {
		return unusableTranscriptSummary(issue)
	}
	if previous == nil || strings.TrimSpace(feedback) == "" {
		return s.Summarize(ctx, transcript, info, LengthModerate)
	}

	prompt, err := s.prompts.Build("refine_summary", PromptData{
		Transcript: TruncateWithNote(transcript, summaryTranscriptLimit),
		Summary:    previous.SummaryText,
		Feedback:   feedback,
	}.withVideo(info))
	if err != nil {
		sum := fallbackSummary()
		sum.Status = degradedStatus(ReasonProvider, err.Error())
		return sum
	}

	out, status := generateJSON[Summary](ctx, s.generator, GenerationRequest{
		Prompt:       prompt,
		SystemPrompt: s.prompts.System("refine_summary"),
		Temperature:  0.5,
	})
	if status != nil {
		// Keep the previous summary rather than replacing it with a canned one.
		kept := *previous
		kept.Status = *status
		return &kept
	}

	repairSummary(out)
	out.Status = validatedStatus()
	return out
}

// repairSummary fills missing fields with defaults so downstream rendering
// never sees empty slots.
func repairSummary(sum *Summary) {
	if strings.TrimSpace(sum.SummaryText) == "" {
		sum.SummaryText = "Summary not available."
	}
	if len(sum.KeyPoints) == 0 {
		sum.KeyPoints = []string{"Key points not available."}
	}
	if len(sum.Topics) == 0 {
		sum.Topics = []string{"Topics not available."}
	}
}

func repairOverview(ov *VideoOverview) {
	if strings.TrimSpace(ov.Description) == "" {
		ov.Description = "Description not available."
	}
	if strings.TrimSpace(ov.PrimaryTopic) == "" {
		ov.PrimaryTopic = "General"
	}
	if strings.TrimSpace(ov.TargetAudience) == "" {
		ov.TargetAudience = "General audience"
	}
	if strings.TrimSpace(ov.ContentType) == "" {
		ov.ContentType = "Educational video"
	}
}

func fallbackSummary() *Summary {
	return &Summary{
		SummaryText: "Summary not available.",
		KeyPoints:   []string{"Key points not available."},
		Topics:      []string{"Topics not available."},
	}
}

func fallbackOverview() *VideoOverview {
	return &VideoOverview{
		Description:    "Description not available.",
		PrimaryTopic:   "General",
		TargetAudience: "General audience",
		ContentType:    "Educational video",
	}
}

// unusableTranscriptSummary is the fixed payload for transcript input that
// fails validation: one variant for empty input, one for input below the
// minimum length.
func unusableTranscriptSummary(issue string) *Summary {
	if issue == "empty transcript" {
		return &Summary{
			SummaryText: "Unable to generate summary: Invalid transcript format.",
			KeyPoints:   []string{"Invalid transcript data", "Please ensure the video has captions available"},
			Topics:      []string{"Error: Invalid Input"},
			Status:      degradedStatus(ReasonInvalidInput, issue),
		}
	}
	return &Summary{
		SummaryText: "Unable to generate summary: Transcript too short or empty.",
		KeyPoints:   []string{"Insufficient transcript content", "The video may have limited or no captions"},
		Topics:      []string{"Error: Insufficient Content"},
		Status:      degradedStatus(ReasonInvalidInput, issue),
	}
}

func unusableTranscriptOverview(issue string) *VideoOverview {
	description := "Unable to generate overview: Transcript too short or empty."
	if issue == "empty transcript" {
		description = "Unable to generate overview: Invalid transcript format."
	}
	return &VideoOverview{
		Description:    description,
		PrimaryTopic:   "Unknown",
		TargetAudience: "Unknown",
		ContentType:    "Unknown",
	}
}
