package internal

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config holds application settings
type Config struct {
	// User configurable settings
	Model              string
	TranscriptsDir     string
	UserDataDir        string
	GenerateTimeout    time.Duration
	TranscriptMinChars int
	Verbose            bool
	Quiet              bool
	GeminiAPIKey       string
	UserEmail          string
	MCPLogEnabled      bool

	// Fixed XDG paths (not configurable)
	ConfigDir string
	DataDir   string
	CacheDir  string
}

//go:embed config.toml sample_transcript.txt
var defaultFS embed.FS

// ensureDefaultFile checks if a file exists in the specified directory
// and creates it from the embedded default if it doesn't exist
func ensureDefaultFile(configDir, embedFilename, description string) error {
	filePath := filepath.Join(configDir, embedFilename)

	if FileExists(filePath) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultContent, err := defaultFS.ReadFile(embedFilename)
	if err != nil {
		return fmt.Errorf("reading embedded default %s: %w", description, err)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default %s: %w", description, err)
	}

	fmt.Printf("Created default %s at %s\n", description, filePath)
	return nil
}

// EnsureDefaultConfig checks if a config file exists in the XDG config directory
// and creates it from the embedded default if it doesn't exist
func EnsureDefaultConfig(configDir string) error {
	return ensureDefaultFile(configDir, "config.toml", "configuration")
}

// InitConfig initializes Viper and loads configuration
func InitConfig() *Config {
	// XDG standard directories
	configDir := filepath.Join(xdg.ConfigHome, "vlearn")
	dataDir := filepath.Join(xdg.DataHome, "vlearn")
	cacheDir := filepath.Join(xdg.CacheHome, "vlearn")

	transcriptsDir := filepath.Join(dataDir, "transcripts")
	userDataDir := filepath.Join(dataDir, "users")

	v := viper.New()

	// Set default values for configurable settings
	v.SetDefault("model", DefaultModel)
	v.SetDefault("transcripts_dir", transcriptsDir)
	v.SetDefault("user_data_dir", userDataDir)
	v.SetDefault("generate_timeout", 2*time.Minute)
	// Minimum trimmed characters for a transcript tier to count as usable.
	// Tunable heuristic carried over from the original pipeline.
	v.SetDefault("transcript_min_chars", 50)
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("user_email", "")
	v.SetDefault("mcp_log", false)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("VLEARN")
	v.AutomaticEnv()

	// Provider key lives outside the VLEARN prefix; accept both common names.
	_ = v.BindEnv("gemini_api_key", "GEMINI_API_KEY", "GOOGLE_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	config := &Config{
		Model:              v.GetString("model"),
		TranscriptsDir:     v.GetString("transcripts_dir"),
		UserDataDir:        v.GetString("user_data_dir"),
		GenerateTimeout:    v.GetDuration("generate_timeout"),
		TranscriptMinChars: v.GetInt("transcript_min_chars"),
		Verbose:            v.GetBool("verbose"),
		Quiet:              v.GetBool("quiet"),
		GeminiAPIKey:       v.GetString("gemini_api_key"),
		UserEmail:          v.GetString("user_email"),
		MCPLogEnabled:      v.GetBool("mcp_log"),

		ConfigDir: configDir,
		DataDir:   dataDir,
		CacheDir:  cacheDir,
	}

	if config.Verbose {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	return config
}
