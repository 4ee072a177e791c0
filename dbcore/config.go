package dbcore

// ConnectionConfig holds the parameters needed to open one link.
type ConnectionConfig struct {
	Host     string `toml:"host"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
}

// String renders the config without the password.
func (c ConnectionConfig) String() string {
	return c.User + "@" + c.Host + "/" + c.Database
}
