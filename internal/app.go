package internal

import (
	"context"
	"fmt"
	"os"
)

// App holds the application state and dependencies
type App struct {
	pipeline   *Pipeline
	generator  *TextGenerator
	prompts    *PromptBuilder
	summarizer *Summarizer
	quiz       *QuizGenerator
	flashcards *FlashcardGenerator
	path       *PathGenerator
	chat       *ChatAgent
	settings   *SettingsStore
	config     *Config
	ui         UIManager
}

// NewApp initializes the application
func NewApp(config *Config, options ...AppOption) (*App, error) {
	prompts, err := NewPromptBuilder()
	if err != nil {
		return nil, err
	}

	generator := NewTextGeneratorWithKey(config.GeminiAPIKey, config.Model, config.GenerateTimeout)
	captions := NewCaptionClient("en")
	transcriber := NewModelTranscriber(generator)

	settings, err := NewSettingsStore(config.UserDataDir)
	if err != nil {
		return nil, err
	}

	app := &App{
		pipeline:   NewPipeline(captions, transcriber, config.TranscriptMinChars),
		generator:  generator,
		prompts:    prompts,
		summarizer: NewSummarizer(generator, prompts, config.TranscriptMinChars),
		quiz:       NewQuizGenerator(generator, prompts, config.TranscriptMinChars),
		flashcards: NewFlashcardGenerator(generator, prompts, config.TranscriptMinChars),
		path:       NewPathGenerator(generator, prompts),
		chat:       NewChatAgent(generator, prompts),
		settings:   settings,
		config:     config,
		ui:         NewUIManager(config.Verbose, config.Quiet),
	}

	// Apply any custom options
	for _, option := range options {
		option(app)
	}

	return app, nil
}

// AppOption customizes App creation
type AppOption func(*App)

// WithPipeline sets a custom transcript pipeline
func WithPipeline(pipeline *Pipeline) AppOption {
	return func(a *App) {
		a.pipeline = pipeline
	}
}

// WithGenerator sets a custom text generator
func WithGenerator(generator *TextGenerator) AppOption {
	return func(a *App) {
		a.generator = generator
		minChars := 0
		if a.config != nil {
			minChars = a.config.TranscriptMinChars
		}
		a.summarizer = NewSummarizer(generator, a.prompts, minChars)
		a.quiz = NewQuizGenerator(generator, a.prompts, minChars)
		a.flashcards = NewFlashcardGenerator(generator, a.prompts, minChars)
		a.path = NewPathGenerator(generator, a.prompts)
		a.chat = NewChatAgent(generator, a.prompts)
	}
}

// WithSettingsStore sets a custom settings store
func WithSettingsStore(store *SettingsStore) AppOption {
	return func(a *App) {
		a.settings = store
	}
}

// WithUI sets a custom UI manager
func WithUI(ui UIManager) AppOption {
	return func(a *App) {
		a.ui = ui
	}
}

// Settings returns the settings store
func (app *App) Settings() *SettingsStore {
	return app.settings
}

// UI returns the UI manager
func (app *App) UI() UIManager {
	return app.ui
}

// ProcessedVideo is the result of resolving a video reference: its derived
// info plus a transcript, which is always present but possibly degraded.
type ProcessedVideo struct {
	Info       *VideoInfo
	Transcript *TranscriptResult
	FromCache  bool
}

// ProcessVideo resolves a video reference to a transcript, using the cache
// when a previous run already stored one.
func (app *App) ProcessVideo(ctx context.Context, arg string, showStatus bool) (*ProcessedVideo, error) {
	_, videoID, err := ParseArg(arg)
	if err != nil {
		return nil, err
	}

	if err := EnsureDirs(app.config.TranscriptsDir); err != nil {
		return nil, fmt.Errorf("creating transcripts directory: %w", err)
	}

	info := BuildVideoInfo(videoID)

	var spinner ProgressBar
	if showStatus {
		spinner = app.ui.NewSpinner("Checking for cached transcript...")
		defer spinner.Finish()
	}

	// Check for cached transcript
	if cached, meta := app.loadCached(videoID); cached != "" {
		if spinner != nil {
			spinner.Describe("Found cached transcript")
		}
		app.ui.Verbose("Using cached transcript for %s (source: %s)\n", videoID, meta.Source)

		source := ParseTranscriptSource(meta.Source)
		return &ProcessedVideo{
			Info:       info,
			Transcript: &TranscriptResult{Text: cached, Source: source, Degraded: meta.Degraded},
			FromCache:  true,
		}, nil
	}

	if spinner != nil {
		spinner.Describe("Acquiring transcript...")
	}

	result := app.pipeline.Acquire(ctx, videoID)

	// Only real transcripts are cached; a sample fallback should be retried
	// live on the next run.
	if result.Source != SourceSample {
		if err := SaveTranscript(videoID, result.Text, app.config.TranscriptsDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		} else if err := SaveTranscriptMeta(videoID, result, app.config.TranscriptsDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	return &ProcessedVideo{Info: info, Transcript: result}, nil
}

func (app *App) loadCached(videoID string) (string, *TranscriptMeta) {
	text, err := LoadCachedTranscript(videoID, app.config.TranscriptsDir)
	if err != nil {
		return "", nil
	}

	meta, err := LoadTranscriptMeta(videoID, app.config.TranscriptsDir)
	if err != nil {
		// Transcript without sidecar: treat as captions from an older cache.
		meta = &TranscriptMeta{VideoID: videoID, Source: SourceCaptions.String()}
	}
	return text, meta
}

// Summarize generates a summary for a processed video, with a spinner when
// status output is enabled.
func (app *App) Summarize(ctx context.Context, video *ProcessedVideo, length SummaryLength, showStatus bool) *Summary {
	var spinner ProgressBar
	if showStatus {
		spinner = app.ui.NewSpinner("Generating summary...")
		defer spinner.Finish()
	}
	return app.summarizer.Summarize(ctx, video.Transcript.Text, video.Info, length)
}

// RefineSummary revises a summary using feedback.
func (app *App) RefineSummary(ctx context.Context, video *ProcessedVideo, previous *Summary, feedback string, showStatus bool) *Summary {
	var spinner ProgressBar
	if showStatus {
		spinner = app.ui.NewSpinner("Refining summary...")
		defer spinner.Finish()
	}
	return app.summarizer.Refine(ctx, video.Transcript.Text, video.Info, previous, feedback)
}

// Overview generates a short structural description of the video.
func (app *App) Overview(ctx context.Context, video *ProcessedVideo) *VideoOverview {
	return app.summarizer.Overview(ctx, video.Transcript.Text, video.Info)
}

// GenerateQuiz builds a quiz for a processed video.
func (app *App) GenerateQuiz(ctx context.Context, video *ProcessedVideo, numQuestions int, difficulty string, showStatus bool) *Quiz {
	var spinner ProgressBar
	if showStatus {
		spinner = app.ui.NewSpinner("Generating quiz...")
		defer spinner.Finish()
	}
	return app.quiz.Generate(ctx, video.Transcript.Text, video.Info, numQuestions, difficulty)
}

// EvaluateAnswer scores a quiz answer.
func (app *App) EvaluateAnswer(question QuizQuestion, answer string) (bool, string) {
	return app.quiz.EvaluateAnswer(question, answer)
}

// GenerateFlashcards builds flashcards for a processed video.
func (app *App) GenerateFlashcards(ctx context.Context, video *ProcessedVideo, numCards int, showStatus bool) *FlashcardSet {
	var spinner ProgressBar
	if showStatus {
		spinner = app.ui.NewSpinner("Generating flashcards...")
		defer spinner.Finish()
	}
	return app.flashcards.Generate(ctx, video.Transcript.Text, video.Info, numCards)
}

// GenerateLearningPath builds a learning path from a summary and stores it in
// the user's settings when an email is configured.
func (app *App) GenerateLearningPath(ctx context.Context, summary *Summary, showStatus bool) (*LearningPath, error) {
	var spinner ProgressBar
	if showStatus {
		spinner = app.ui.NewSpinner("Generating learning path...")
		defer spinner.Finish()
	}

	path := app.path.Generate(ctx, summary, app.learnerProfile())
	if err := app.storeLearningPath(path); err != nil {
		return path, err
	}
	return path, nil
}

// UpdateLearningPath revises the stored learning path with a progress note.
func (app *App) UpdateLearningPath(ctx context.Context, progress string, showStatus bool) (*LearningPath, error) {
	var spinner ProgressBar
	if showStatus {
		spinner = app.ui.NewSpinner("Updating learning path...")
		defer spinner.Finish()
	}

	var current *LearningPath
	if app.config.UserEmail != "" {
		settings, err := app.settings.Load(app.config.UserEmail)
		if err != nil {
			return nil, err
		}
		current = settings.LearningPath
	}

	updated := app.path.Update(ctx, current, progress)
	if err := app.storeLearningPath(updated); err != nil {
		return updated, err
	}
	return updated, nil
}

// learnerProfile reads the configured user's stored settings so learning
// paths reflect their interests, goals, and progress. Without an email, or
// when loading fails, paths are generated with neutral defaults.
func (app *App) learnerProfile() *LearnerProfile {
	if app.config.UserEmail == "" {
		return nil
	}
	settings, err := app.settings.Load(app.config.UserEmail)
	if err != nil {
		log.WithError(err).Debug("loading settings for learner profile")
		return nil
	}
	return settings.Profile()
}

func (app *App) storeLearningPath(path *LearningPath) error {
	if app.config.UserEmail == "" {
		return nil
	}

	settings, err := app.settings.Load(app.config.UserEmail)
	if err != nil {
		return err
	}
	settings.LearningPath = path
	return app.settings.Save(settings)
}

// Ask answers a question about a processed video.
func (app *App) Ask(ctx context.Context, video *ProcessedVideo, question string, history []ChatTurn) (string, ArtifactStatus) {
	transcript := ""
	if video != nil && video.Transcript != nil {
		transcript = video.Transcript.Text
	}
	var info *VideoInfo
	if video != nil {
		info = video.Info
	}
	return app.chat.Ask(ctx, transcript, info, question, history)
}
