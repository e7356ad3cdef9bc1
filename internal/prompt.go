package internal

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"
)

// Transcript budgets per prompt kind. Long transcripts are cut to keep the
// request inside the model context window.
const (
	summaryTranscriptLimit   = 7500
	quizTranscriptLimit      = 8000
	flashcardTranscriptLimit = 8000
	overviewTranscriptLimit  = 2000
	chatTranscriptLimit      = 2000

	truncationNote = "[Note: This is a portion of the full transcript due to length constraints]"
)

// runeSafeCut returns the longest prefix of s within limit bytes that does
// not split a UTF-8 sequence.
func runeSafeCut(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

// TruncateWithNote cuts text to at most limit bytes and appends a visible
// marker so the model knows it is working from a partial transcript.
func TruncateWithNote(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return runeSafeCut(text, limit) + "\n\n" + truncationNote
}

// TruncateHard cuts text to at most limit bytes with no marker.
func TruncateHard(text string, limit int) string {
	return runeSafeCut(text, limit)
}

// OverviewExcerpt composes a short excerpt for overview prompts: the head of
// the transcript plus a slice from the middle, so the model sees both the
// introduction and representative body content.
func OverviewExcerpt(text string, limit int) string {
	if len(text) <= limit {
		return text
	}

	headLen := limit * 70 / 100
	midLen := limit - headLen
	head := runeSafeCut(text, headLen)

	midStart := len(text) / 2
	for midStart < len(text) && !utf8.RuneStart(text[midStart]) {
		midStart++
	}
	mid := runeSafeCut(text[midStart:], midLen)

	return head + "..." + mid
}

// PromptData carries the fields prompt templates may reference.
type PromptData struct {
	Title       string
	Channel     string
	Transcript  string
	Length      string
	WordLimit   int
	PointLimit  int
	NumItems    int
	Difficulty  string
	Summary     string
	Feedback    string
	Question    string
	History     string
	CurrentPath string
	Progress    string
	Learner     string
}

// withVideo fills the video metadata fields, tolerating a missing info.
func (d PromptData) withVideo(info *VideoInfo) PromptData {
	d.Title = "Unknown"
	d.Channel = "Unknown"
	if info != nil {
		if info.Title != "" {
			d.Title = info.Title
		}
		if info.Channel != "" {
			d.Channel = info.Channel
		}
	}
	return d
}

// PromptBuilder renders agent prompt templates and serves the fixed system
// prompt paired with each of them.
type PromptBuilder struct {
	templates map[string]*template.Template
}

// NewPromptBuilder parses the built-in prompt templates. Parsing happens once
// at startup; a bad template is a programming error.
func NewPromptBuilder() (*PromptBuilder, error) {
	pb := &PromptBuilder{templates: make(map[string]*template.Template)}
	for name, text := range promptTexts {
		tmpl, err := template.New(name).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parsing prompt template %q: %w", name, err)
		}
		pb.templates[name] = tmpl
	}
	return pb, nil
}

// Build renders the named user-prompt template with the given data.
func (pb *PromptBuilder) Build(name string, data PromptData) (string, error) {
	tmpl, ok := pb.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt template %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing prompt template %q: %w", name, err)
	}
	return buf.String(), nil
}

// System returns the fixed system prompt for the named task. Task
// instructions and output schemas live here; the user prompt carries the
// video metadata and content.
func (pb *PromptBuilder) System(name string) string {
	return systemTexts[name]
}

// FormatChatHistory renders the most recent turns of a conversation for
// inclusion in a chat prompt. Only the last maxTurns exchanges are kept.
func FormatChatHistory(history []ChatTurn, maxTurns int) string {
	if len(history) == 0 {
		return ""
	}
	if maxTurns > 0 && len(history) > maxTurns {
		history = history[len(history)-maxTurns:]
	}

	var b strings.Builder
	for _, turn := range history {
		fmt.Fprintf(&b, "User: %s\nAssistant: %s\n", turn.Question, turn.Answer)
	}
	return b.String()
}

var systemTexts = map[string]string{
	"overview": `You are an expert educational content analyzer. Create a brief overview of a video based on its transcript, identifying what the video is about in a succinct manner.

Return a JSON object with these keys:
- "description": one or two sentences describing the video
- "primary_topic": the main subject covered
- "target_audience": who the video is for
- "content_type": the kind of video (tutorial, lecture, demonstration, etc.)`,

	"summary": `You are an expert educational content summarizer. Create a clear, insightful summary of a video transcript, focusing on the main ideas and key takeaways.

Return a JSON object with these keys:
- "summary_text": the summary prose
- "key_points": an array of the most important takeaways
- "topics": an array of topics covered`,

	"refine_summary": `You are an expert educational content summarizer revising an earlier summary. Address the feedback while staying grounded in the transcript, and keep the same output structure.

Return a JSON object with these keys:
- "summary_text": the revised summary prose
- "key_points": an array of the most important takeaways
- "topics": an array of topics covered`,

	"quiz": `You are an expert educational quiz creator. Create engaging multiple-choice questions that test understanding of video content at the requested difficulty.

Return a JSON array. Each element must have these keys:
- "question": the question text
- "options": an array of exactly 4 answer choices
- "correct_answer": the correct choice, copied verbatim from "options"
- "correct_feedback": shown when the learner answers correctly
- "incorrect_feedback": shown when the learner answers incorrectly, explaining the right answer`,

	"flashcards": `You are an expert educational content creator specializing in effective flashcards. Create clear, concise cards that test recall of the video's material.

Return a JSON array. Each element must have these keys:
- "front": a term, concept, or question
- "back": the definition, explanation, or answer`,

	"learning_path": `You are an expert educational advisor creating personalized learning paths. Tailor the plan to the learner's interests, goals, learning style, and skill level.

Return a JSON object with these keys:
- "next_steps": an array of concrete study actions
- "recommended_videos": an array of objects with "title" and "description"
- "additional_resources": an array of objects with "title" and "type"
- "milestones": an array of objects with "name", "progress" (0-100), and "objective"
- "skill_assessments": an array of objects with "skill", "current_level", "next_goal", and "recommended_practice"`,

	"update_path": `You are an expert educational advisor revising a learner's study plan. Keep recommendations that are still relevant and adjust the rest. Only include keys you want to change; omitted keys keep their current values.

Return a JSON object with any of these keys:
- "next_steps": an array of concrete study actions
- "recommended_videos": an array of objects with "title" and "description"
- "additional_resources": an array of objects with "title" and "type"
- "milestones": an array of objects with "name", "progress" (0-100), and "objective"
- "skill_assessments": an array of objects with "skill", "current_level", "next_goal", and "recommended_practice"`,

	"chat": `You are a helpful tutor answering questions about an educational video. Ground your answers in the transcript; if the transcript does not cover the question, say so. Be concise and keep a friendly, educational tone.`,
}

var promptTexts = map[string]string{
	"overview": `Video Title: {{.Title}}
Video Channel: {{.Channel}}

Transcript excerpt:
{{.Transcript}}

Provide a brief overview of this video content.`,

	"summary": `Video Title: {{.Title}}
Video Channel: {{.Channel}}

Transcript:
{{.Transcript}}

Provide a {{.Length}} summary of this video content. Keep the summary under {{.WordLimit}} words and list at most {{.PointLimit}} key points.`,

	"refine_summary": `Video Title: {{.Title}}

Current summary:
{{.Summary}}

Feedback:
{{.Feedback}}

Transcript:
{{.Transcript}}

Revise the summary to address this feedback.`,

	"quiz": `Video Title: {{.Title}}
Video Channel: {{.Channel}}

Transcript:
{{.Transcript}}

Create {{.NumItems}} {{.Difficulty}} difficulty multiple-choice questions based on this content.`,

	"flashcards": `Video Title: {{.Title}}
Video Channel: {{.Channel}}

Transcript:
{{.Transcript}}

Create {{.NumItems}} flashcards covering the most important material in this content.`,

	"learning_path": `Learner profile:
{{.Learner}}

Video summary:
{{.Summary}}

Create a personalized learning path for this learner with concrete next steps, recommended videos, additional resources, milestones, and skill assessments.`,

	"update_path": `Current learning path:
{{.CurrentPath}}

Progress update:
{{.Progress}}

Update the learning path to reflect this progress.`,

	"chat": `Video Title: {{.Title}}

Relevant part of transcript:
{{.Transcript}}
{{if .History}}
Conversation so far:
{{.History}}{{end}}
User Question: {{.Question}}`,
}
