package cadmus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

const (
	settingsDirName    = "Settings"
	manifestFileName   = ".cadmus-index.toml"
	legacySettingsFile = "Settings.toml"
	settingsRetention  = 5
)

// Settings is the on-disk configuration snapshot. The host loop loads it at
// startup and carries a copy in the Context; views read it and request
// changes via command events executed outside the engine.
type Settings struct {
	LibraryPath string `toml:"library-path"`
	// FullRefreshInterval is how many partial refreshes may pass before the
	// next page turn is promoted to a full flash to clear ghosting.
	FullRefreshInterval int             `toml:"full-refresh-interval"`
	Fonts               FontSettings    `toml:"fonts"`
	Logging             LoggingSettings `toml:"logging"`
	OTA                 OTASettings     `toml:"ota"`
}

// FontSettings points at the OpenType files to load.
type FontSettings struct {
	Normal string `toml:"normal"`
	Bold   string `toml:"bold"`
}

// LoggingSettings controls the structured log output.
type LoggingSettings struct {
	Enabled      bool   `toml:"enabled"`
	Level        string `toml:"level"`
	MaxFiles     int    `toml:"max-files"`
	Directory    string `toml:"directory"`
	OTLPEndpoint string `toml:"otlp-endpoint"`
}

// OTASettings configures the update downloader.
type OTASettings struct {
	Repo  string `toml:"repo"`
	Token string `toml:"token"`
}

// DefaultSettings returns the configuration used when no file exists yet.
func DefaultSettings() Settings {
	return Settings{
		LibraryPath:         "Library",
		FullRefreshInterval: 8,
		Logging: LoggingSettings{
			Enabled:   true,
			Level:     "info",
			MaxFiles:  3,
			Directory: "logs",
		},
		OTA: OTASettings{Repo: "ogkevin/cadmus"},
	}
}

// settingsEntry is one version record in the manifest.
type settingsEntry struct {
	Version string `toml:"version"`
	UUID    string `toml:"uuid"`
	File    string `toml:"file"`
	SavedAt string `toml:"saved-at,omitempty"`
}

// settingsManifest tracks every known settings version, oldest first.
type settingsManifest struct {
	Entries []settingsEntry `toml:"entries"`
}

// SettingsStore manages versioned settings files under root/Settings.
// Each application version writes its own Settings-<version>.toml; a
// manifest records them so downgrades keep working, and files beyond the
// retention limit are pruned. A legacy root-level Settings.toml is migrated
// on first load.
type SettingsStore struct {
	root    string
	version string
}

// NewSettingsStore creates a store for the given data root and application
// version string.
func NewSettingsStore(root, version string) *SettingsStore {
	return &SettingsStore{root: root, version: version}
}

func (s *SettingsStore) dir() string {
	return filepath.Join(s.root, settingsDirName)
}

func (s *SettingsStore) manifestPath() string {
	return filepath.Join(s.dir(), manifestFileName)
}

func (s *SettingsStore) versionFile() string {
	return fmt.Sprintf("Settings-%s.toml", s.version)
}

// Load returns the settings for the current version. Resolution order:
// migrate a legacy Settings.toml if present, otherwise load the most recent
// manifest entry, otherwise defaults. When the loaded entry belongs to an
// older version the settings are immediately re-saved under the current
// one.
func (s *SettingsStore) Load() (Settings, error) {
	if err := os.MkdirAll(s.dir(), 0o755); err != nil {
		return Settings{}, fmt.Errorf("settings: mkdir %s: %w", s.dir(), err)
	}

	legacy := filepath.Join(s.root, legacySettingsFile)
	if _, err := os.Stat(legacy); err == nil {
		settings, err := readSettingsFile(legacy)
		if err != nil {
			return Settings{}, err
		}
		if err := s.Save(settings); err != nil {
			return Settings{}, err
		}
		if err := os.Remove(legacy); err != nil {
			return Settings{}, fmt.Errorf("settings: remove legacy file: %w", err)
		}
		return settings, nil
	}

	manifest, err := s.readManifest()
	if err != nil {
		return Settings{}, err
	}
	if len(manifest.Entries) == 0 {
		return DefaultSettings(), nil
	}

	latest := manifest.Entries[len(manifest.Entries)-1]
	settings, err := readSettingsFile(filepath.Join(s.dir(), latest.File))
	if err != nil {
		return Settings{}, err
	}
	if latest.Version != s.version {
		if err := s.Save(settings); err != nil {
			return Settings{}, err
		}
	}
	return settings, nil
}

// Save writes the settings under the current version, updates the manifest,
// and prunes files beyond the retention limit.
func (s *SettingsStore) Save(settings Settings) error {
	if err := os.MkdirAll(s.dir(), 0o755); err != nil {
		return fmt.Errorf("settings: mkdir %s: %w", s.dir(), err)
	}
	path := filepath.Join(s.dir(), s.versionFile())
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("settings: create %s: %w", path, err)
	}
	if err := toml.NewEncoder(f).Encode(settings); err != nil {
		f.Close()
		return fmt.Errorf("settings: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("settings: close %s: %w", path, err)
	}

	manifest, err := s.readManifest()
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)

	updated := false
	for i := range manifest.Entries {
		if manifest.Entries[i].Version == s.version {
			manifest.Entries[i].SavedAt = now
			// Move to the end: most recent last.
			entry := manifest.Entries[i]
			manifest.Entries = append(manifest.Entries[:i], manifest.Entries[i+1:]...)
			manifest.Entries = append(manifest.Entries, entry)
			updated = true
			break
		}
	}
	if !updated {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("settings: uuid: %w", err)
		}
		manifest.Entries = append(manifest.Entries, settingsEntry{
			Version: s.version,
			UUID:    id.String(),
			File:    s.versionFile(),
			SavedAt: now,
		})
	}

	manifest.Entries = s.prune(manifest.Entries)
	return s.writeManifest(manifest)
}

// prune removes entries and files beyond the retention limit, oldest first.
// The current version's file is always kept.
func (s *SettingsStore) prune(entries []settingsEntry) []settingsEntry {
	for len(entries) > settingsRetention {
		victim := entries[0]
		if victim.Version == s.version {
			// Never drop the active version; skip it by rotating.
			entries = append(entries[1:], victim)
			continue
		}
		entries = entries[1:]
		_ = os.Remove(filepath.Join(s.dir(), victim.File))
	}
	return entries
}

func (s *SettingsStore) readManifest() (settingsManifest, error) {
	var manifest settingsManifest
	data, err := os.ReadFile(s.manifestPath())
	if os.IsNotExist(err) {
		return manifest, nil
	}
	if err != nil {
		return manifest, fmt.Errorf("settings: read manifest: %w", err)
	}
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return manifest, fmt.Errorf("settings: parse manifest: %w", err)
	}
	return manifest, nil
}

func (s *SettingsStore) writeManifest(manifest settingsManifest) error {
	f, err := os.Create(s.manifestPath())
	if err != nil {
		return fmt.Errorf("settings: create manifest: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(manifest); err != nil {
		f.Close()
		return fmt.Errorf("settings: encode manifest: %w", err)
	}
	return f.Close()
}

// Versions lists the known settings versions, most recent last.
func (s *SettingsStore) Versions() ([]string, error) {
	manifest, err := s.readManifest()
	if err != nil {
		return nil, err
	}
	versions := make([]string, 0, len(manifest.Entries))
	for _, e := range manifest.Entries {
		versions = append(versions, e.Version)
	}
	return versions, nil
}

func readSettingsFile(path string) (Settings, error) {
	settings := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("settings: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("settings: parse %s: %w", path, err)
	}
	return settings, nil
}

// sortedVersionFiles returns Settings-*.toml files in the store directory,
// lexically sorted. Used by cleanup tooling and tests.
func (s *SettingsStore) sortedVersionFiles() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir(), "Settings-*.toml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
