package internal

import (
	"context"
	"encoding/json"
	"strings"
)

// AgentStage tracks where an agent run ended. Every run terminates in
// StageValidated or StageDegraded; there is no implicit catch-all.
type AgentStage int

const (
	StageValidating AgentStage = iota
	StagePrompting
	StageParsing
	StageValidated
	StageDegraded
)

// String returns the stage name
func (s AgentStage) String() string {
	switch s {
	case StageValidating:
		return "validating"
	case StagePrompting:
		return "prompting"
	case StageParsing:
		return "parsing"
	case StageValidated:
		return "validated"
	case StageDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// DegradeReason explains a degraded terminal state.
type DegradeReason int

const (
	ReasonNone DegradeReason = iota
	ReasonInvalidInput
	ReasonProvider
	ReasonParse
	ReasonSchema
)

// String returns the reason code name
func (r DegradeReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonInvalidInput:
		return "invalid_input"
	case ReasonProvider:
		return "provider_error"
	case ReasonParse:
		return "parse_error"
	case ReasonSchema:
		return "schema_repair"
	default:
		return "unknown"
	}
}

// ArtifactStatus is attached to every agent artifact so callers can tell a
// validated result from a degraded fallback, and why it degraded.
type ArtifactStatus struct {
	Stage  AgentStage    `json:"stage"`
	Reason DegradeReason `json:"reason,omitempty"`
	Detail string        `json:"detail,omitempty"`
}

// Validated reports whether the artifact came from a successful model run
// (possibly with field-level default repair).
func (s ArtifactStatus) Validated() bool {
	return s.Stage == StageValidated
}

func validatedStatus() ArtifactStatus {
	return ArtifactStatus{Stage: StageValidated}
}

func degradedStatus(reason DegradeReason, detail string) ArtifactStatus {
	return ArtifactStatus{Stage: StageDegraded, Reason: reason, Detail: detail}
}

// transcriptIssue classifies unusable transcript input during the validating
// stage. It returns an empty string when the transcript is usable, otherwise
// a short detail for the degraded status. Unlike the pipeline's sufficiency
// gate, exactly minChars trimmed characters is acceptable here.
func transcriptIssue(transcript string, minChars int) string {
	trimmed := strings.TrimSpace(transcript)
	if trimmed == "" {
		return "empty transcript"
	}
	if len(trimmed) < minChars {
		return "transcript too short"
	}
	return ""
}

// generateJSON runs the shared Prompting→Parsing stages: one generation call
// with JSON formatting, then a decode into T. A nil status means success;
// otherwise the status carries the degraded terminal state and the agent
// substitutes its canned artifact.
func generateJSON[T any](ctx context.Context, generator *TextGenerator, req GenerationRequest) (*T, *ArtifactStatus) {
	req.Format = FormatJSON

	resp, err := generator.Generate(ctx, req)
	if err != nil {
		status := degradedStatus(ReasonProvider, err.Error())
		return nil, &status
	}

	var out T
	if err := json.Unmarshal([]byte(resp.Text), &out); err != nil {
		status := degradedStatus(ReasonParse, err.Error())
		return nil, &status
	}

	return &out, nil
}
