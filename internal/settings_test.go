package internal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SettingsStore {
	t.Helper()
	store, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "learner_at_example_dot_com", SanitizeEmail("learner@example.com"))
	assert.Equal(t, "first_dot_last_at_example_dot_org", SanitizeEmail(" First.Last@Example.Org "))
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	settings := DefaultUserSettings("learner@example.com")
	settings.SummaryLength = LengthComprehensive
	settings.QuizQuestions = 7
	require.NoError(t, store.Save(settings))

	loaded, err := store.Load("learner@example.com")
	require.NoError(t, err)
	assert.Equal(t, "learner@example.com", loaded.Email)
	assert.Equal(t, LengthComprehensive, loaded.SummaryLength)
	assert.Equal(t, 7, loaded.QuizQuestions)
}

func TestSaveRejectsEmptyEmail(t *testing.T) {
	store := newTestStore(t)

	assert.ErrorIs(t, store.Save(&UserSettings{}), ErrEmptyEmail)
	assert.ErrorIs(t, store.Save(nil), ErrEmptyEmail)
}

func TestLoadUnknownUserReturnsDefaults(t *testing.T) {
	store := newTestStore(t)

	settings, err := store.Load("new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", settings.Email)
	assert.Equal(t, LengthModerate, settings.SummaryLength)
	assert.Equal(t, DefaultQuizQuestions, settings.QuizQuestions)
}

func TestSettingsFilenameUsesSanitizedEmail(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(DefaultUserSettings("learner@example.com")))
	assert.FileExists(t, filepath.Join(dir, "learner_at_example_dot_com.json"))
}

func TestLegacyLearningRecommendationsKey(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	// A settings file written by an older version used the
	// learning_recommendations key.
	legacy := map[string]any{
		"email": "learner@example.com",
		"learning_recommendations": map[string]any{
			"next_steps": []string{"legacy step"},
		},
	}
	data, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "learner_at_example_dot_com.json"), data, 0644))

	settings, err := store.Load("learner@example.com")
	require.NoError(t, err)
	require.NotNil(t, settings.LearningPath)
	assert.Equal(t, []string{"legacy step"}, settings.LearningPath.NextSteps)

	// Saving rewrites under the canonical key.
	require.NoError(t, store.Save(settings))
	raw, err := os.ReadFile(filepath.Join(dir, "learner_at_example_dot_com.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"learning_path"`)
	assert.NotContains(t, string(raw), `"learning_recommendations"`)
}

func TestDefaultsIncludeAccessibilityAndProfile(t *testing.T) {
	settings := DefaultUserSettings("learner@example.com")

	assert.Equal(t, "Medium", settings.FontSize)
	assert.Equal(t, "Default", settings.ColorScheme)
	assert.Equal(t, 1.0, settings.DefaultSpeed)
	assert.True(t, settings.AutoCaptions)
	assert.Equal(t, "Visual", settings.LearningStyle)
	assert.Equal(t, "Beginner", settings.SkillLevel)
}

func TestLoadPreservesStoredLearningPathDetail(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	stored := map[string]any{
		"email": "learner@example.com",
		"learning_path": map[string]any{
			"next_steps": []string{"step"},
			"milestones": []map[string]any{
				{"id": "m1", "name": "Core concepts", "progress": 30, "objective": "explain it"},
			},
			"skill_assessments": []map[string]any{
				{"skill": "Recall", "current_level": "Beginner", "next_goal": "Intermediate"},
			},
		},
	}
	data, err := json.Marshal(stored)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "learner_at_example_dot_com.json"), data, 0644))

	settings, err := store.Load("learner@example.com")
	require.NoError(t, err)
	require.NotNil(t, settings.LearningPath)
	require.Len(t, settings.LearningPath.Milestones, 1)
	assert.Equal(t, "Core concepts", settings.LearningPath.Milestones[0].Name)
	assert.Equal(t, 30, settings.LearningPath.Milestones[0].Progress)
	assert.Equal(t, "explain it", settings.LearningPath.Milestones[0].Objective)
	require.Len(t, settings.LearningPath.SkillAssessments, 1)
	assert.Equal(t, "Intermediate", settings.LearningPath.SkillAssessments[0].NextGoal)

	// A save and reload keeps the detail intact.
	require.NoError(t, store.Save(settings))
	again, err := store.Load("learner@example.com")
	require.NoError(t, err)
	require.Len(t, again.LearningPath.Milestones, 1)
	assert.Equal(t, 30, again.LearningPath.Milestones[0].Progress)
}

func TestLoadOldFileDefaultsAutoCaptionsOn(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	// A file written before the accessibility fields existed.
	data := []byte(`{"email": "learner@example.com", "quiz_questions": 4}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "learner_at_example_dot_com.json"), data, 0644))

	settings, err := store.Load("learner@example.com")
	require.NoError(t, err)
	assert.True(t, settings.AutoCaptions)
	assert.Equal(t, "Medium", settings.FontSize)
	assert.Equal(t, 1.0, settings.DefaultSpeed)
	assert.Equal(t, 4, settings.QuizQuestions)
}

func TestAutoCaptionsOffSurvivesRoundTrip(t *testing.T) {
	store := newTestStore(t)

	settings := DefaultUserSettings("learner@example.com")
	settings.AutoCaptions = false
	require.NoError(t, store.Save(settings))

	loaded, err := store.Load("learner@example.com")
	require.NoError(t, err)
	assert.False(t, loaded.AutoCaptions)
}

func TestProfileFromSettings(t *testing.T) {
	settings := DefaultUserSettings("learner@example.com")
	settings.LearningInterests = []string{"robotics"}
	settings.LearningGoals = "build a robot"
	settings.SkillLevel = "Intermediate"
	settings.UserProgress = 25
	settings.CompletedMilestones = []string{"Basics"}

	profile := settings.Profile()
	require.NotNil(t, profile)
	assert.Equal(t, []string{"robotics"}, profile.Interests)
	assert.Equal(t, "build a robot", profile.Goals)
	assert.Equal(t, "Visual", profile.LearningStyle)
	assert.Equal(t, "Intermediate", profile.SkillLevel)
	assert.Equal(t, 25, profile.Progress)
	assert.Equal(t, []string{"Basics"}, profile.CompletedMilestones)

	var none *UserSettings
	assert.Nil(t, none.Profile())
}

func TestUpdateEmailMovesSettings(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	settings := DefaultUserSettings("old@example.com")
	settings.QuizQuestions = 9
	require.NoError(t, store.Save(settings))

	moved, err := store.UpdateEmail("old@example.com", "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", moved.Email)
	assert.Equal(t, 9, moved.QuizQuestions)

	assert.NoFileExists(t, filepath.Join(dir, "old_at_example_dot_com.json"))
	assert.FileExists(t, filepath.Join(dir, "new_at_example_dot_com.json"))
}

func TestUpdateEmailRejectsManagedIdentity(t *testing.T) {
	store := newTestStore(t)

	settings := DefaultUserSettings("managed@example.com")
	settings.AuthSource = AuthSourceIAP
	require.NoError(t, store.Save(settings))

	_, err := store.UpdateEmail("managed@example.com", "other@example.com")
	assert.ErrorIs(t, err, ErrEmailManaged)
}

func TestResetMarkerConsumedOnLoad(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	settings := DefaultUserSettings("learner@example.com")
	settings.QuizQuestions = 9
	require.NoError(t, store.Save(settings))

	require.NoError(t, store.RequestReset("learner@example.com"))
	pending, err := store.ResetPending("learner@example.com")
	require.NoError(t, err)
	assert.True(t, pending)
	assert.FileExists(t, filepath.Join(dir, "learner_at_example_dot_com.reset"))

	// The next load consumes the marker and returns defaults.
	loaded, err := store.Load("learner@example.com")
	require.NoError(t, err)
	assert.Equal(t, DefaultQuizQuestions, loaded.QuizQuestions)

	pending, err = store.ResetPending("learner@example.com")
	require.NoError(t, err)
	assert.False(t, pending, "marker is consumed by the load")

	// Subsequent loads are unaffected.
	again, err := store.Load("learner@example.com")
	require.NoError(t, err)
	assert.Equal(t, DefaultQuizQuestions, again.QuizQuestions)
}

func TestLoadCorruptFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSettingsStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "learner_at_example_dot_com.json"), []byte("{broken"), 0644))

	settings, err := store.Load("learner@example.com")
	require.NoError(t, err)
	assert.Equal(t, LengthModerate, settings.SummaryLength)
}
