package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Config holds the bot settings loaded from ~/.config/mediabot/config.json.
// The bot token is always taken from the BOT_TOKEN environment variable so it
// never ends up in a config file.
type Config struct {
	AdminID int64 `json:"admin_id"`

	// Extraction thresholds. Zero values are replaced with defaults on load.
	StaticEarlyStop  int `json:"static_early_stop"`  // stop after fast scan when this many candidates found
	BrowserEarlyStop int `json:"browser_early_stop"` // stop after the early in-page probe
	MaxGallerySteps  int `json:"max_gallery_steps"`  // gallery walker "next" click limit
	ScrollStep       int `json:"scroll_step"`        // px per lazy-load scroll increment
	ScrollCeiling    int `json:"scroll_ceiling"`     // px total scroll before giving up

	// Delivery pacing between album batches and fallback documents.
	GroupPacingMs    int `json:"group_pacing_ms"`
	DocumentPacingMs int `json:"document_pacing_ms"`

	// StrictObjectScope controls the easyhata filter: when true, CDN matches
	// without the object id in the path are rejected. The original behaviour
	// (false) accepts them.
	StrictObjectScope bool `json:"strict_object_scope"`

	// Hosts where video discovery is skipped entirely.
	PhotoOnlyHosts []string `json:"photo_only_hosts"`
}

// Defaults mirror the values the bot has always used.
func defaults() Config {
	return Config{
		StaticEarlyStop:  6,
		BrowserEarlyStop: 12,
		MaxGallerySteps:  40,
		ScrollStep:       400,
		ScrollCeiling:    12000,
		GroupPacingMs:    400,
		DocumentPacingMs: 200,
		PhotoOnlyHosts:   []string{"easyhata.site"},
	}
}

// GroupPacing returns the delay between album batch sends.
func (c Config) GroupPacing() time.Duration {
	return time.Duration(c.GroupPacingMs) * time.Millisecond
}

// DocumentPacing returns the delay between fallback document sends.
func (c Config) DocumentPacing() time.Duration {
	return time.Duration(c.DocumentPacingMs) * time.Millisecond
}

// BotToken reads the bot token from the environment.
func BotToken() (string, error) {
	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return "", fmt.Errorf("BOT_TOKEN environment variable is not set")
	}
	return token, nil
}

// Load reads the config file, creating a template with defaults on first run.
// Errors fall back to defaults so a broken config never stops the bot.
func Load() Config {
	configFile, err := verifyConfigFiles()
	if err != nil {
		log.Printf("[Config] error verifying config files: %v", err)
		return defaults()
	}

	file, err := os.Open(configFile)
	if err != nil {
		log.Printf("[Config] error opening config file: %v", err)
		return defaults()
	}
	defer file.Close()

	byteValues, err := io.ReadAll(file)
	if err != nil {
		log.Printf("[Config] error reading config file: %v", err)
		return defaults()
	}

	cfg := defaults()
	if err := json.Unmarshal(byteValues, &cfg); err != nil {
		log.Printf("[Config] error unmarshalling config: %v", err)
		return defaults()
	}

	return applyDefaults(cfg)
}

// applyDefaults fills zeroed threshold fields so a hand-edited config with
// missing keys still behaves.
func applyDefaults(cfg Config) Config {
	def := defaults()
	if cfg.StaticEarlyStop <= 0 {
		cfg.StaticEarlyStop = def.StaticEarlyStop
	}
	if cfg.BrowserEarlyStop <= 0 {
		cfg.BrowserEarlyStop = def.BrowserEarlyStop
	}
	if cfg.MaxGallerySteps <= 0 {
		cfg.MaxGallerySteps = def.MaxGallerySteps
	}
	if cfg.ScrollStep <= 0 {
		cfg.ScrollStep = def.ScrollStep
	}
	if cfg.ScrollCeiling <= 0 {
		cfg.ScrollCeiling = def.ScrollCeiling
	}
	if cfg.GroupPacingMs <= 0 {
		cfg.GroupPacingMs = def.GroupPacingMs
	}
	if cfg.DocumentPacingMs <= 0 {
		cfg.DocumentPacingMs = def.DocumentPacingMs
	}
	if cfg.PhotoOnlyHosts == nil {
		cfg.PhotoOnlyHosts = def.PhotoOnlyHosts
	}
	return cfg
}

// Save writes the config back to ~/.config/mediabot/config.json.
func Save(cfg Config) error {
	configDir, err := verifyConfigDirectory()
	if err != nil {
		return fmt.Errorf("error verifying config directory: %w", err)
	}

	configFile := filepath.Join(configDir, "config.json")

	jsonData, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configFile, jsonData, 0644)
}

// check config directory exists or create it
func verifyConfigDirectory() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve home directory: %w", err)
	}
	configDirectory := filepath.Join(home, ".config", "mediabot")

	_, err = os.Stat(configDirectory)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(configDirectory, 0755); err != nil {
			return "", fmt.Errorf("error creating directory %s: %w", configDirectory, err)
		}
		log.Printf("[Config] Directory %s created successfully.\n", configDirectory)
	} else if err != nil {
		return "", fmt.Errorf("error checking directory %s: %w", configDirectory, err)
	}

	return configDirectory, nil
}

// check config file exists or create a template
func verifyConfigFiles() (string, error) {
	configDir, err := verifyConfigDirectory()
	if err != nil {
		return "", err
	}

	configFile := filepath.Join(configDir, "config.json")

	_, err = os.Stat(configFile)
	if os.IsNotExist(err) {
		log.Printf("[Config] Config file not found, creating template at '%s'\n", configFile)
		if saveErr := Save(defaults()); saveErr != nil {
			return "", fmt.Errorf("error creating config file: %w", saveErr)
		}
	} else if err != nil {
		return "", fmt.Errorf("error checking file existence: %w", err)
	}

	return configFile, nil
}
