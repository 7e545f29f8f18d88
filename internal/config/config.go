package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Profile names, one per course family.
const (
	ProfileLI        = "li"
	ProfileTPV       = "tpv"
	ProfileSentences = "sentences"
	ProfileStories   = "stories"
)

const (
	defaultArtist        = "Mandarin Blueprint"
	defaultGenre         = "Language Learning"
	defaultExcludeMarker = ".git"
	defaultID3Version    = 3
	methodComment        = "The Mandarin Blueprint Method"
)

type Config struct {
	Artist          string             `koanf:"artist"`
	Genre           string             `koanf:"genre"`
	ExcludeMarker   string             `koanf:"exclude_marker"`   // directories whose path contains this are never walked
	ID3Version      int                `koanf:"id3_version"`      // 3 or 4
	AudioExtensions []string           `koanf:"audio_extensions"` // lowercase, with leading dot
	VideoExtensions []string           `koanf:"video_extensions"`
	Profiles        map[string]Profile `koanf:"profiles"`
}

// Profile holds the fixed strings written for one course family.
type Profile struct {
	Comment string `koanf:"comment"`
	Album   string `koanf:"album"` // only used by families whose album is not derived
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Artist:          defaultArtist,
		Genre:           defaultGenre,
		ExcludeMarker:   defaultExcludeMarker,
		ID3Version:      defaultID3Version,
		AudioExtensions: []string{".mp3"},
		VideoExtensions: []string{".mp4"},
		Profiles:        defaultProfiles(),
	}
}

func defaultProfiles() map[string]Profile {
	return map[string]Profile{
		ProfileLI:        {Comment: "Language Islands", Album: "LI IMMERSION"},
		ProfileTPV:       {Comment: "The Phrase Vault"},
		ProfileSentences: {Comment: methodComment},
		ProfileStories:   {Comment: methodComment},
	}
}

// Load reads the layered configuration. explicit, when set, must exist and
// is applied last.
func Load(explicit string) (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	if explicit != "" {
		path := expandPath(explicit)
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.AudioExtensions = normalizeExtensions(cfg.AudioExtensions)
	cfg.VideoExtensions = normalizeExtensions(cfg.VideoExtensions)

	if cfg.ID3Version != 3 && cfg.ID3Version != 4 {
		return nil, fmt.Errorf("id3_version must be 3 or 4, got %d", cfg.ID3Version)
	}

	return cfg, nil
}

// Profile returns the named profile with built-in defaults filling any
// field a config file left empty.
func (c *Config) Profile(name string) Profile {
	p := c.Profiles[name]
	def := defaultProfiles()[name]
	if p.Comment == "" {
		p.Comment = def.Comment
	}
	if p.Album == "" {
		p.Album = def.Album
	}
	return p
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/mbtag/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "mbtag", "config.toml"))
	}

	// 2. ./mbtag.toml (pwd, highest priority)
	paths = append(paths, "mbtag.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
