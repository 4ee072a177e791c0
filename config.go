package database

import (
	"fmt"
	"math/rand/v2"
	"regexp"

	"github.com/goforj/database/dbcore"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const (
	defaultQueryCacheSize = 50
	defaultDriver         = dbcore.DriverMySQL
)

var tablePrefixRE = regexp.MustCompile(`^[A-Za-z0-9_]*$`)

// Config describes the endpoints and caching policy of a Database.
type Config struct {
	Driver dbcore.Driver `toml:"driver"`

	// TablePrefix replaces "prefix_" in scripts and names the datalists table.
	TablePrefix string `toml:"prefix"`

	// General endpoint, used for every role unless Split is set.
	Host     string `toml:"host"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`

	// Split routes reads and writes to the Read and Write endpoint lists.
	Split bool                      `toml:"split"`
	Read  []dbcore.ConnectionConfig `toml:"read"`
	Write []dbcore.ConnectionConfig `toml:"write"`

	DisableQueryCache bool `toml:"disable_query_cache"`
	// QueryCacheSize bounds the result cache. Zero means 50.
	QueryCacheSize int `toml:"query_cache_size"`

	pick func(n int) int
}

// ParseConfig decodes a TOML document into a Config.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, newError(ErrConfig, "Unable to parse the database settings.", "", err)
	}
	return cfg, nil
}

// LoadConfig reads and decodes the TOML file at path.
func LoadConfig(fs afero.Fs, path string) (Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Config{}, newError(ErrConfig, fmt.Sprintf("Couldn't read the database settings at %s.", path), "", err)
	}
	return ParseConfig(data)
}

func (c Config) withDefaults() Config {
	if c.Driver == "" {
		c.Driver = defaultDriver
	}
	if c.QueryCacheSize <= 0 {
		c.QueryCacheSize = defaultQueryCacheSize
	}
	if c.pick == nil {
		c.pick = rand.IntN
	}
	return c
}

// Validate checks the settings that do not depend on a role.
func (c Config) Validate() error {
	if !tablePrefixRE.MatchString(c.TablePrefix) {
		return newError(ErrConfig, fmt.Sprintf("Invalid table prefix %q.", c.TablePrefix), "", nil)
	}
	if c.QueryCacheSize < 0 {
		return newError(ErrConfig, "Query cache size cannot be negative.", "", nil)
	}
	return nil
}

// QueryCacheEnabled reports whether the configuration allows a result cache.
func (c Config) QueryCacheEnabled() bool { return !c.DisableQueryCache }

// General returns the endpoint used when reads and writes are not split.
func (c Config) General() dbcore.ConnectionConfig {
	return dbcore.ConnectionConfig{Host: c.Host, User: c.User, Password: c.Password, Database: c.Database}
}

// ConnectionConfig resolves the endpoint for role. With several endpoints
// configured for a split role one is picked at random on every call.
func (c Config) ConnectionConfig(role dbcore.Role) (dbcore.ConnectionConfig, error) {
	var cc dbcore.ConnectionConfig
	switch role {
	case dbcore.Read, dbcore.Write:
		if !c.Split {
			cc = c.General()
			break
		}
		endpoints := c.Read
		if role == dbcore.Write {
			endpoints = c.Write
		}
		switch len(endpoints) {
		case 0:
			return cc, newError(ErrConfig, fmt.Sprintf("No %s database is configured.", role), "", nil)
		case 1:
			cc = endpoints[0]
		default:
			cc = endpoints[c.index(len(endpoints))]
		}
	case dbcore.ReadWrite:
		cc = c.General()
	default:
		return cc, newError(ErrConfig, fmt.Sprintf("Unknown link role %q.", role), "", nil)
	}
	if err := c.validateEndpoint(cc); err != nil {
		return dbcore.ConnectionConfig{}, errors.WithMessagef(err, "%s endpoint", role)
	}
	return cc, nil
}

func (c Config) index(n int) int {
	pick := c.pick
	if pick == nil {
		pick = rand.IntN
	}
	i := pick(n)
	if i < 0 || i >= n {
		return 0
	}
	return i
}

// validateEndpoint requires host, user and database. SQLite only needs a
// database path.
func (c Config) validateEndpoint(cc dbcore.ConnectionConfig) error {
	if cc.Database == "" {
		return newError(ErrConfig, "The database name is missing from the settings.", "", nil)
	}
	if c.Driver == dbcore.DriverSQLite {
		return nil
	}
	if cc.Host == "" || cc.User == "" {
		return newError(ErrConfig, "The database host or user is missing from the settings.", "", nil)
	}
	return nil
}
