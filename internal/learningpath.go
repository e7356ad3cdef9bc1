package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RecommendedVideo is a follow-up video suggestion.
type RecommendedVideo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Resource is a non-video study material suggestion.
type Resource struct {
	Title string `json:"title"`
	Type  string `json:"type,omitempty"`
}

// Milestone is a checkpoint in a learning path with a progress percentage.
type Milestone struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Progress  int    `json:"progress"`
	Objective string `json:"objective,omitempty"`
}

// UnmarshalJSON accepts either a milestone object or a bare string, which
// terse model responses and older stored paths use for the milestone name.
func (m *Milestone) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*m = Milestone{Name: name}
		return nil
	}

	type milestoneAlias Milestone
	var a milestoneAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*m = Milestone(a)
	return nil
}

// SkillAssessment tracks one skill with its current level and next goal.
type SkillAssessment struct {
	Skill               string `json:"skill"`
	CurrentLevel        string `json:"current_level,omitempty"`
	NextGoal            string `json:"next_goal,omitempty"`
	RecommendedPractice string `json:"recommended_practice,omitempty"`
}

// UnmarshalJSON accepts either an assessment object or a bare string naming
// the skill.
func (s *SkillAssessment) UnmarshalJSON(data []byte) error {
	var skill string
	if err := json.Unmarshal(data, &skill); err == nil {
		*s = SkillAssessment{Skill: skill}
		return nil
	}

	type assessmentAlias SkillAssessment
	var a assessmentAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*s = SkillAssessment(a)
	return nil
}

// LearningPath is the structured output of the learning-path agent.
type LearningPath struct {
	NextSteps           []string           `json:"next_steps"`
	RecommendedVideos   []RecommendedVideo `json:"recommended_videos"`
	AdditionalResources []Resource         `json:"additional_resources"`
	Milestones          []Milestone        `json:"milestones"`
	SkillAssessments    []SkillAssessment  `json:"skill_assessments"`

	Status ArtifactStatus `json:"status"`
}

// LearnerProfile carries the personalization inputs for path generation,
// typically taken from the user's stored settings.
type LearnerProfile struct {
	Interests           []string
	Goals               string
	LearningStyle       string
	SkillLevel          string
	Progress            int
	CompletedMilestones []string
}

// PathGenerator produces and updates learning paths from video summaries.
type PathGenerator struct {
	generator *TextGenerator
	prompts   *PromptBuilder
}

// NewPathGenerator creates a learning-path generator backed by the given generator.
func NewPathGenerator(generator *TextGenerator, prompts *PromptBuilder) *PathGenerator {
	return &PathGenerator{generator: generator, prompts: prompts}
}

// Generate builds a learning path from a video summary, tailored to the
// learner's profile when one is available. On failure a canned path is
// returned with a degraded status.
func (p *PathGenerator) Generate(ctx context.Context, summary *Summary, profile *LearnerProfile) *LearningPath {
	if summary == nil || strings.TrimSpace(summary.SummaryText) == "" {
		path := fallbackLearningPath()
		path.Status = degradedStatus(ReasonInvalidInput, "no summary available")
		return path
	}

	prompt, err := p.prompts.Build("learning_path", PromptData{
		Summary: renderSummaryForPrompt(summary),
		Learner: renderLearnerForPrompt(profile),
	})
	if err != nil {
		path := fallbackLearningPath()
		path.Status = degradedStatus(ReasonProvider, err.Error())
		return path
	}

	out, status := generateJSON[LearningPath](ctx, p.generator, GenerationRequest{
		Prompt:       prompt,
		SystemPrompt: p.prompts.System("learning_path"),
		Temperature:  0.7,
	})
	if status != nil {
		path := fallbackLearningPath()
		path.Status = *status
		return path
	}

	repairLearningPath(out)
	out.Status = validatedStatus()
	return out
}

// Update revises an existing path with a progress note. Fields the model
// omits entirely keep their previous values, so a terse model response never
// wipes out the learner's plan.
func (p *PathGenerator) Update(ctx context.Context, current *LearningPath, progress string) *LearningPath {
	if current == nil {
		current = fallbackLearningPath()
	}
	if strings.TrimSpace(progress) == "" {
		kept := *current
		kept.Status = degradedStatus(ReasonInvalidInput, "empty progress update")
		return &kept
	}

	currentJSON, err := json.Marshal(current)
	if err != nil {
		kept := *current
		kept.Status = degradedStatus(ReasonProvider, err.Error())
		return &kept
	}

	prompt, err := p.prompts.Build("update_path", PromptData{
		CurrentPath: string(currentJSON),
		Progress:    progress,
	})
	if err != nil {
		kept := *current
		kept.Status = degradedStatus(ReasonProvider, err.Error())
		return &kept
	}

	req := GenerationRequest{
		Prompt:       prompt,
		SystemPrompt: p.prompts.System("update_path"),
		Temperature:  0.5,
		Format:       FormatJSON,
	}
	resp, genErr := p.generator.Generate(ctx, req)
	if genErr != nil {
		kept := *current
		kept.Status = degradedStatus(ReasonProvider, genErr.Error())
		return &kept
	}

	merged, mergeErr := mergeLearningPath(current, resp.Text)
	if mergeErr != nil {
		kept := *current
		kept.Status = degradedStatus(ReasonParse, mergeErr.Error())
		return &kept
	}

	repairLearningPath(merged)
	merged.Status = validatedStatus()
	return merged
}

// mergeLearningPath overlays the model's JSON onto the current path. Only
// keys present in the response replace existing values.
func mergeLearningPath(current *LearningPath, responseJSON string) (*LearningPath, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(responseJSON), &raw); err != nil {
		return nil, err
	}

	merged := *current
	if msg, ok := raw["next_steps"]; ok {
		var steps []string
		if err := json.Unmarshal(msg, &steps); err == nil && len(steps) > 0 {
			merged.NextSteps = steps
		}
	}
	if msg, ok := raw["recommended_videos"]; ok {
		var videos []RecommendedVideo
		if err := json.Unmarshal(msg, &videos); err == nil && len(videos) > 0 {
			merged.RecommendedVideos = videos
		}
	}
	if msg, ok := raw["additional_resources"]; ok {
		var resources []Resource
		if err := json.Unmarshal(msg, &resources); err == nil && len(resources) > 0 {
			merged.AdditionalResources = resources
		}
	}
	if msg, ok := raw["milestones"]; ok {
		var milestones []Milestone
		if err := json.Unmarshal(msg, &milestones); err == nil && len(milestones) > 0 {
			merged.Milestones = milestones
		}
	}
	if msg, ok := raw["skill_assessments"]; ok {
		var assessments []SkillAssessment
		if err := json.Unmarshal(msg, &assessments); err == nil && len(assessments) > 0 {
			merged.SkillAssessments = assessments
		}
	}
	return &merged, nil
}

// repairLearningPath fills missing sections and assigns stable IDs to
// recommended videos and milestones that arrived without one.
func repairLearningPath(path *LearningPath) {
	if len(path.NextSteps) == 0 {
		path.NextSteps = []string{"Review the video summary and key points."}
	}
	if len(path.Milestones) == 0 {
		path.Milestones = []Milestone{
			{Name: "Core concepts", Objective: "Explain the main topic in your own words."},
		}
	}
	if len(path.SkillAssessments) == 0 {
		path.SkillAssessments = []SkillAssessment{
			{Skill: "Recall", NextGoal: "Answer the generated quiz without mistakes", RecommendedPractice: "Take the quiz and review missed questions"},
		}
	}
	for i := range path.RecommendedVideos {
		if path.RecommendedVideos[i].ID == "" {
			path.RecommendedVideos[i].ID = uuid.NewString()
		}
	}
	for i := range path.Milestones {
		if path.Milestones[i].ID == "" {
			path.Milestones[i].ID = uuid.NewString()
		}
	}
}

func renderSummaryForPrompt(summary *Summary) string {
	var b strings.Builder
	b.WriteString(summary.SummaryText)
	if len(summary.KeyPoints) > 0 {
		b.WriteString("\n\nKey points:\n")
		for _, kp := range summary.KeyPoints {
			b.WriteString("- " + kp + "\n")
		}
	}
	if len(summary.Topics) > 0 {
		b.WriteString("\nTopics: " + strings.Join(summary.Topics, ", "))
	}
	return b.String()
}

// renderLearnerForPrompt formats the profile for the prompt. Missing fields
// get the same neutral defaults a brand-new user would have.
func renderLearnerForPrompt(profile *LearnerProfile) string {
	if profile == nil {
		profile = &LearnerProfile{}
	}

	interests := "Not specified"
	if len(profile.Interests) > 0 {
		interests = strings.Join(profile.Interests, ", ")
	}
	goals := profile.Goals
	if goals == "" {
		goals = "Not specified"
	}
	style := profile.LearningStyle
	if style == "" {
		style = "Visual"
	}
	level := profile.SkillLevel
	if level == "" {
		level = "Beginner"
	}
	completed := "None"
	if len(profile.CompletedMilestones) > 0 {
		completed = strings.Join(profile.CompletedMilestones, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Interests: %s\n", interests)
	fmt.Fprintf(&b, "Goals: %s\n", goals)
	fmt.Fprintf(&b, "Learning style: %s\n", style)
	fmt.Fprintf(&b, "Skill level: %s\n", level)
	fmt.Fprintf(&b, "Progress: %d%%\n", profile.Progress)
	fmt.Fprintf(&b, "Completed milestones: %s", completed)
	return b.String()
}

func fallbackLearningPath() *LearningPath {
	return &LearningPath{
		NextSteps: []string{
			"Review the video summary and key points.",
			"Practice with the generated quiz and flashcards.",
		},
		RecommendedVideos: []RecommendedVideo{
			{ID: uuid.NewString(), Title: "Related topics on this subject", Description: "Search for follow-up videos covering the same topics in more depth."},
		},
		AdditionalResources: []Resource{
			{Title: "Introductory article on the topic", Type: "article"},
		},
		Milestones: []Milestone{
			{ID: uuid.NewString(), Name: "Core concepts", Objective: "Explain the main topic in your own words."},
			{ID: uuid.NewString(), Name: "Applied practice", Objective: "Work through an exercise using the ideas from the video."},
		},
		SkillAssessments: []SkillAssessment{
			{Skill: "Recall", CurrentLevel: "Beginner", NextGoal: "Answer the generated quiz without mistakes", RecommendedPractice: "Take the quiz and review missed questions"},
		},
	}
}
