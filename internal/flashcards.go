package internal

import (
	"context"
	"strings"
)

// Flashcard is a single front/back study card.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// FlashcardSet is the structured output of the flashcard agent.
type FlashcardSet struct {
	Cards []Flashcard `json:"cards"`

	Status ArtifactStatus `json:"status"`
}

const DefaultFlashcardCount = 10

// FlashcardGenerator produces study flashcards from transcripts.
type FlashcardGenerator struct {
	generator *TextGenerator
	prompts   *PromptBuilder
	minChars  int
}

// NewFlashcardGenerator creates a flashcard generator backed by the given generator.
func NewFlashcardGenerator(generator *TextGenerator, prompts *PromptBuilder, minChars int) *FlashcardGenerator {
	if minChars <= 0 {
		minChars = DefaultTranscriptMinChars
	}
	return &FlashcardGenerator{generator: generator, prompts: prompts, minChars: minChars}
}

// Generate builds numCards flashcards. Cards missing a front or back are
// dropped; if nothing valid survives, the canned set is cycled to the
// requested count.
func (f *FlashcardGenerator) Generate(ctx context.Context, transcript string, info *VideoInfo, numCards int) *FlashcardSet {
	if numCards <= 0 {
		numCards = DefaultFlashcardCount
	}
	if issue := transcriptIssue(transcript, f.minChars); issue != "" {
		set := cannedFlashcards(numCards)
		set.Status = degradedStatus(ReasonInvalidInput, issue)
		return set
	}

	prompt, err := f.prompts.Build("flashcards", PromptData{
		Transcript: TruncateHard(transcript, flashcardTranscriptLimit),
		NumItems:   numCards,
	}.withVideo(info))
	if err != nil {
		set := cannedFlashcards(numCards)
		set.Status = degradedStatus(ReasonProvider, err.Error())
		return set
	}

	items, status := generateJSON[[]Flashcard](ctx, f.generator, GenerationRequest{
		Prompt:       prompt,
		SystemPrompt: f.prompts.System("flashcards"),
		Temperature:  0.7,
	})
	if status != nil {
		set := cannedFlashcards(numCards)
		set.Status = *status
		return set
	}

	var valid []Flashcard
	for _, card := range *items {
		if strings.TrimSpace(card.Front) == "" || strings.TrimSpace(card.Back) == "" {
			continue
		}
		valid = append(valid, card)
	}
	if len(valid) == 0 {
		set := cannedFlashcards(numCards)
		set.Status = degradedStatus(ReasonSchema, "no valid cards in model output")
		return set
	}
	if len(valid) > numCards {
		valid = valid[:numCards]
	}

	return &FlashcardSet{Cards: valid, Status: validatedStatus()}
}

var cannedFlashcardSet = []Flashcard{
	{Front: "Active recall", Back: "A study technique where you retrieve information from memory rather than rereading it."},
	{Front: "Spaced repetition", Back: "Reviewing material at increasing intervals to move it into long-term memory."},
	{Front: "Chunking", Back: "Breaking complex material into smaller pieces that are easier to learn."},
}

// cannedFlashcards cycles the built-in card set to the requested count.
func cannedFlashcards(numCards int) *FlashcardSet {
	cards := make([]Flashcard, 0, numCards)
	for i := 0; i < numCards; i++ {
		cards = append(cards, cannedFlashcardSet[i%len(cannedFlashcardSet)])
	}
	return &FlashcardSet{Cards: cards}
}
