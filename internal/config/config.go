package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete driveprep configuration
type Config struct {
	Source Source `yaml:"source"`
	Audit  Audit  `yaml:"audit"`
	Rules  Rules  `yaml:"rules"`
	Limits Limits `yaml:"limits"`
	Prune  Prune  `yaml:"prune"`
}

// Source configures the tree to normalize
type Source struct {
	Root string `yaml:"root"`
}

// Audit configures the append-only audit log
type Audit struct {
	LogFile string `yaml:"log_file"`
}

// Rules configures the prune rule sets. Extensions include the leading
// dot and match case-insensitively.
type Rules struct {
	DisallowedExtensions []string `yaml:"disallowed_extensions"`
	DisallowedNames      []string `yaml:"disallowed_names"`
	LockFilePrefixes     []string `yaml:"lock_file_prefixes"`
	VendorExtensions     []string `yaml:"vendor_extensions"`
	ArchiveExtensions    []string `yaml:"archive_extensions"`
}

// Limits configures destination-platform limits
type Limits struct {
	MaxPathLength int `yaml:"max_path_length"`
}

// Prune configures optional pruning behavior
type Prune struct {
	// EmptyDirs is a pointer so an omitted setting is distinguishable
	// from an explicit false; use EmptyDirsEnabled.
	EmptyDirs *bool `yaml:"empty_dirs"`
}

// EmptyDirsEnabled reports whether directories left empty by prior
// removals should be pruned. Enabled unless explicitly switched off.
func (p Prune) EmptyDirsEnabled() bool {
	if p.EmptyDirs == nil {
		return true
	}
	return *p.EmptyDirs
}

// Defaults applied when the corresponding rule list is empty.
var (
	DefaultDisallowedExtensions = []string{".tmp", ".lnk"}
	DefaultDisallowedNames      = []string{"thumbs.db", "desktop.ini", ".ds_store"}
	DefaultLockFilePrefixes     = []string{"~$"}
	DefaultVendorExtensions     = []string{
		".qbw", ".qbb", ".qbm", ".qbx", ".qba",
		".qby", ".nd", ".tlg", ".des", ".qbr",
	}
	DefaultArchiveExtensions = []string{
		".tar.gz", ".zip", ".7z", ".rar", ".tar", ".gz", ".tgz", ".bz2",
	}
)

// DefaultMaxPathLength mirrors the classic Windows MAX_PATH limit that
// most document-management platforms inherited.
const DefaultMaxPathLength = 260

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Expand environment variables in string fields
	cfg.expandEnv()

	// Apply defaults
	cfg.applyDefaults()

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// expandEnv expands environment variables in all path fields
func (c *Config) expandEnv() {
	c.Source.Root = os.ExpandEnv(c.Source.Root)
	c.Audit.LogFile = os.ExpandEnv(c.Audit.LogFile)
}

// applyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) applyDefaults() {
	if len(c.Rules.DisallowedExtensions) == 0 {
		c.Rules.DisallowedExtensions = DefaultDisallowedExtensions
	}
	if len(c.Rules.DisallowedNames) == 0 {
		c.Rules.DisallowedNames = DefaultDisallowedNames
	}
	if len(c.Rules.LockFilePrefixes) == 0 {
		c.Rules.LockFilePrefixes = DefaultLockFilePrefixes
	}
	if len(c.Rules.VendorExtensions) == 0 {
		c.Rules.VendorExtensions = DefaultVendorExtensions
	}
	if len(c.Rules.ArchiveExtensions) == 0 {
		c.Rules.ArchiveExtensions = DefaultArchiveExtensions
	}
	if c.Limits.MaxPathLength == 0 {
		c.Limits.MaxPathLength = DefaultMaxPathLength
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	// Validate source
	if c.Source.Root == "" {
		return fmt.Errorf("source.root is required")
	}
	if !filepath.IsAbs(c.Source.Root) {
		return fmt.Errorf("source.root must be an absolute path: %s", c.Source.Root)
	}

	// Validate audit log destination
	if c.Audit.LogFile == "" {
		return fmt.Errorf("audit.log_file is required")
	}
	if !filepath.IsAbs(c.Audit.LogFile) {
		return fmt.Errorf("audit.log_file must be an absolute path: %s", c.Audit.LogFile)
	}

	// Validate limits
	if c.Limits.MaxPathLength < 0 {
		return fmt.Errorf("limits.max_path_length must not be negative: %d", c.Limits.MaxPathLength)
	}

	// Extensions must carry their leading dot so matching stays unambiguous
	for _, set := range [][]string{
		c.Rules.DisallowedExtensions,
		c.Rules.VendorExtensions,
		c.Rules.ArchiveExtensions,
	} {
		for _, ext := range set {
			if !strings.HasPrefix(ext, ".") {
				return fmt.Errorf("extension must start with a dot: %s", ext)
			}
		}
	}

	return nil
}
