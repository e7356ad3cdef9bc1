package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// AuthSourceIAP marks settings provisioned by an identity-aware proxy; the
// email on such settings is externally managed and cannot be changed here.
const AuthSourceIAP = "iap"

var (
	ErrEmptyEmail   = errors.New("email is required")
	ErrEmailManaged = errors.New("email is managed by the identity provider and cannot be changed")
	ErrInvalidEmail = errors.New("email contains path separators")
)

// UserSettings holds per-user preferences: profile fields, accessibility
// settings, the learning profile that personalizes path generation, and the
// stored learning path itself.
type UserSettings struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	AuthSource  string `json:"auth_source,omitempty"`

	FontSize     string  `json:"font_size"`
	ColorScheme  string  `json:"color_scheme"`
	DefaultSpeed float64 `json:"default_speed"`
	AutoCaptions bool    `json:"auto_captions"`

	SummaryLength  SummaryLength `json:"summary_length"`
	QuizQuestions  int           `json:"quiz_questions"`
	FlashcardCount int           `json:"flashcard_count"`

	LearningInterests   []string `json:"learning_interests,omitempty"`
	LearningGoals       string   `json:"learning_goals,omitempty"`
	LearningStyle       string   `json:"preferred_learning_style"`
	SkillLevel          string   `json:"skill_level"`
	CompletedMilestones []string `json:"completed_milestones,omitempty"`
	UserProgress        int      `json:"user_progress"`

	LearningPath *LearningPath `json:"learning_path,omitempty"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// settingsJSON mirrors UserSettings for unmarshalling so that the legacy
// "learning_recommendations" key is still accepted on read. AutoCaptions is a
// pointer so files written before the field existed keep the enabled default.
type settingsJSON struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	AuthSource  string `json:"auth_source,omitempty"`

	FontSize     string  `json:"font_size"`
	ColorScheme  string  `json:"color_scheme"`
	DefaultSpeed float64 `json:"default_speed"`
	AutoCaptions *bool   `json:"auto_captions"`

	SummaryLength  SummaryLength `json:"summary_length"`
	QuizQuestions  int           `json:"quiz_questions"`
	FlashcardCount int           `json:"flashcard_count"`

	LearningInterests   []string `json:"learning_interests,omitempty"`
	LearningGoals       string   `json:"learning_goals,omitempty"`
	LearningStyle       string   `json:"preferred_learning_style"`
	SkillLevel          string   `json:"skill_level"`
	CompletedMilestones []string `json:"completed_milestones,omitempty"`
	UserProgress        int      `json:"user_progress"`

	LearningPath *LearningPath `json:"learning_path,omitempty"`
	LegacyPath   *LearningPath `json:"learning_recommendations,omitempty"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// UnmarshalJSON accepts both the canonical "learning_path" key and the legacy
// "learning_recommendations" alias. The canonical key wins when both appear.
func (s *UserSettings) UnmarshalJSON(data []byte) error {
	var raw settingsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.Email = raw.Email
	s.DisplayName = raw.DisplayName
	s.AuthSource = raw.AuthSource
	s.FontSize = raw.FontSize
	s.ColorScheme = raw.ColorScheme
	s.DefaultSpeed = raw.DefaultSpeed
	s.AutoCaptions = raw.AutoCaptions == nil || *raw.AutoCaptions
	s.SummaryLength = raw.SummaryLength
	s.QuizQuestions = raw.QuizQuestions
	s.FlashcardCount = raw.FlashcardCount
	s.LearningInterests = raw.LearningInterests
	s.LearningGoals = raw.LearningGoals
	s.LearningStyle = raw.LearningStyle
	s.SkillLevel = raw.SkillLevel
	s.CompletedMilestones = raw.CompletedMilestones
	s.UserProgress = raw.UserProgress
	s.UpdatedAt = raw.UpdatedAt
	s.LearningPath = raw.LearningPath
	if s.LearningPath == nil {
		s.LearningPath = raw.LegacyPath
	}
	return nil
}

// DefaultUserSettings returns fresh settings for a new user.
func DefaultUserSettings(email string) *UserSettings {
	return &UserSettings{
		Email:          email,
		FontSize:       "Medium",
		ColorScheme:    "Default",
		DefaultSpeed:   1.0,
		AutoCaptions:   true,
		SummaryLength:  LengthModerate,
		QuizQuestions:  DefaultQuizQuestions,
		FlashcardCount: DefaultFlashcardCount,
		LearningStyle:  "Visual",
		SkillLevel:     "Beginner",
		UpdatedAt:      time.Now().UTC(),
	}
}

// Profile extracts the personalization inputs consumed by the learning-path
// agent.
func (s *UserSettings) Profile() *LearnerProfile {
	if s == nil {
		return nil
	}
	return &LearnerProfile{
		Interests:           s.LearningInterests,
		Goals:               s.LearningGoals,
		LearningStyle:       s.LearningStyle,
		SkillLevel:          s.SkillLevel,
		Progress:            s.UserProgress,
		CompletedMilestones: s.CompletedMilestones,
	}
}

// SanitizeEmail converts an email address into a filesystem-safe token used
// as the settings filename stem.
func SanitizeEmail(email string) string {
	s := strings.TrimSpace(strings.ToLower(email))
	s = strings.ReplaceAll(s, "@", "_at_")
	s = strings.ReplaceAll(s, ".", "_dot_")
	return s
}

// SettingsStore persists user settings as JSON files under a directory, one
// file per sanitized email.
type SettingsStore struct {
	dir string
}

// NewSettingsStore creates a store rooted at dir, creating it if needed.
func NewSettingsStore(dir string) (*SettingsStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating settings directory: %w", err)
	}
	return &SettingsStore{dir: dir}, nil
}

func (st *SettingsStore) settingsPath(email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", ErrEmptyEmail
	}
	stem := SanitizeEmail(email)
	if strings.ContainsAny(stem, "/\\") {
		return "", ErrInvalidEmail
	}
	return filepath.Join(st.dir, stem+".json"), nil
}

func (st *SettingsStore) resetMarkerPath(email string) (string, error) {
	path, err := st.settingsPath(email)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(path, ".json") + ".reset", nil
}

// Load reads the settings for an email. A pending reset marker is consumed
// first: the stored settings are discarded and defaults returned. If no file
// exists, defaults are returned without error.
func (st *SettingsStore) Load(email string) (*UserSettings, error) {
	path, err := st.settingsPath(email)
	if err != nil {
		return nil, err
	}

	if consumed, err := st.consumeResetMarker(email); err != nil {
		return nil, err
	} else if consumed {
		settings := DefaultUserSettings(email)
		if err := st.Save(settings); err != nil {
			return nil, err
		}
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultUserSettings(email), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	var settings UserSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		log.WithField("path", path).WithError(err).Warn("settings file unreadable, using defaults")
		return DefaultUserSettings(email), nil
	}
	if settings.Email == "" {
		settings.Email = email
	}
	applySettingsDefaults(&settings)
	return &settings, nil
}

// Save writes settings to disk. Settings without an email are rejected.
func (st *SettingsStore) Save(settings *UserSettings) error {
	if settings == nil || strings.TrimSpace(settings.Email) == "" {
		return ErrEmptyEmail
	}

	path, err := st.settingsPath(settings.Email)
	if err != nil {
		return err
	}

	settings.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// UpdateEmail moves a user's settings to a new email address. Settings
// provisioned through an identity-aware proxy refuse the change.
func (st *SettingsStore) UpdateEmail(oldEmail, newEmail string) (*UserSettings, error) {
	if strings.TrimSpace(newEmail) == "" {
		return nil, ErrEmptyEmail
	}

	settings, err := st.Load(oldEmail)
	if err != nil {
		return nil, err
	}
	if settings.AuthSource == AuthSourceIAP {
		return nil, ErrEmailManaged
	}

	oldPath, err := st.settingsPath(oldEmail)
	if err != nil {
		return nil, err
	}

	settings.Email = newEmail
	if err := st.Save(settings); err != nil {
		return nil, err
	}

	// Remove the old file only after the new one is on disk.
	newPath, _ := st.settingsPath(newEmail)
	if oldPath != newPath {
		if err := os.Remove(oldPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.WithField("path", oldPath).WithError(err).Warn("could not remove old settings file")
		}
	}
	return settings, nil
}

// RequestReset records a reset marker so the next Load for this email starts
// from default settings.
func (st *SettingsStore) RequestReset(email string) error {
	marker, err := st.resetMarkerPath(email)
	if err != nil {
		return err
	}
	stamp := time.Now().UTC().Format(time.RFC3339)
	if err := os.WriteFile(marker, []byte(stamp+"\n"), 0644); err != nil {
		return fmt.Errorf("recording reset marker: %w", err)
	}
	return nil
}

// ResetPending reports whether a reset marker exists for this email.
func (st *SettingsStore) ResetPending(email string) (bool, error) {
	marker, err := st.resetMarkerPath(email)
	if err != nil {
		return false, err
	}
	_, statErr := os.Stat(marker)
	if errors.Is(statErr, os.ErrNotExist) {
		return false, nil
	}
	if statErr != nil {
		return false, statErr
	}
	return true, nil
}

// consumeResetMarker deletes a pending marker and the stored settings file.
func (st *SettingsStore) consumeResetMarker(email string) (bool, error) {
	pending, err := st.ResetPending(email)
	if err != nil || !pending {
		return false, err
	}

	marker, _ := st.resetMarkerPath(email)
	path, _ := st.settingsPath(email)
	if err := os.Remove(marker); err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("consuming reset marker: %w", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("removing settings for reset: %w", err)
	}
	log.WithField("email", email).Debug("consumed settings reset marker")
	return true, nil
}

func applySettingsDefaults(settings *UserSettings) {
	if settings.FontSize == "" {
		settings.FontSize = "Medium"
	}
	if settings.ColorScheme == "" {
		settings.ColorScheme = "Default"
	}
	if settings.DefaultSpeed <= 0 {
		settings.DefaultSpeed = 1.0
	}
	if settings.SummaryLength == "" {
		settings.SummaryLength = LengthModerate
	}
	if settings.QuizQuestions <= 0 {
		settings.QuizQuestions = DefaultQuizQuestions
	}
	if settings.FlashcardCount <= 0 {
		settings.FlashcardCount = DefaultFlashcardCount
	}
	if settings.LearningStyle == "" {
		settings.LearningStyle = "Visual"
	}
	if settings.SkillLevel == "" {
		settings.SkillLevel = "Beginner"
	}
}
