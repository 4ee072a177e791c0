package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goforj/database"
	"github.com/goforj/database/dbcore"
	"github.com/jessevdk/go-flags"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// baseConfig holds the options shared by every sub-command.
type baseConfig struct {
	Config string    `long:"config" env:"DBSCRIPT_CONFIG" default:"database.toml" description:"Path to the TOML database settings"`
	Driver string    `long:"driver" env:"DBSCRIPT_DRIVER" choice:"mysql" choice:"postgres" choice:"sqlite" description:"Overrides the driver named in the settings"`
	Log    LogConfig `group:"Logging" namespace:"log" env-namespace:"LOG"`
}

var base = new(baseConfig)

type cmdRun struct {
	Args struct {
		Script string `positional-arg-name:"script" required:"yes" description:"SQL script to run"`
	} `positional-args:"yes"`
}

func (cmd *cmdRun) Execute([]string) error {
	InitLog(base.Log)
	db, err := openDatabase(base)
	if err != nil {
		return err
	}
	defer db.Close()

	err = db.RunSQLScript(context.Background(), cmd.Args.Script)
	var scriptErr *database.ScriptError
	if errors.As(err, &scriptErr) {
		for _, failure := range scriptErr.Failures {
			fields := log.Fields{"err": failure}
			var dbErr *database.Error
			if errors.As(failure, &dbErr) {
				fields["query"] = dbErr.Query
			}
			log.WithFields(fields).Error("statement failed")
		}
		return fmt.Errorf("%d statements of %s failed", len(scriptErr.Failures), cmd.Args.Script)
	} else if err != nil {
		return err
	}
	log.WithFields(log.Fields{"script": cmd.Args.Script, "queries": db.QueryCount()}).Info("script complete")
	return nil
}

type cmdCheck struct{}

func (cmd *cmdCheck) Execute([]string) error {
	InitLog(base.Log)
	db, err := openDatabase(base)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.AssertInstalled(context.Background()); err != nil {
		return err
	}
	fmt.Println("installed")
	return nil
}

type cmdPrintConfig struct{}

func (cmd *cmdPrintConfig) Execute([]string) error {
	InitLog(base.Log)
	cfg, err := loadConfig(afero.NewOsFs(), base)
	if err != nil {
		return err
	}
	out, err := toml.Marshal(maskPasswords(cfg))
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func loadConfig(fs afero.Fs, base *baseConfig) (database.Config, error) {
	cfg, err := database.LoadConfig(fs, base.Config)
	if err != nil {
		return database.Config{}, err
	}
	if base.Driver != "" {
		cfg.Driver = dbcore.Driver(base.Driver)
	}
	return cfg, nil
}

func openDatabase(base *baseConfig) (*database.Database, error) {
	fs := afero.NewOsFs()
	cfg, err := loadConfig(fs, base)
	if err != nil {
		return nil, err
	}
	logger := database.NewLogger(log.StandardLogger(), nil)
	logger.SetLevel(engineLevel(base.Log.Level))
	return database.New(cfg, database.WithLogger(logger), database.WithFs(fs))
}

const maskedPassword = "********"

func maskPasswords(cfg database.Config) database.Config {
	mask := func(p string) string {
		if p == "" {
			return ""
		}
		return maskedPassword
	}
	maskAll := func(endpoints []dbcore.ConnectionConfig) []dbcore.ConnectionConfig {
		out := append([]dbcore.ConnectionConfig(nil), endpoints...)
		for i := range out {
			out[i].Password = mask(out[i].Password)
		}
		return out
	}
	cfg.Password = mask(cfg.Password)
	cfg.Read = maskAll(cfg.Read)
	cfg.Write = maskAll(cfg.Write)
	return cfg
}

func newParser() *flags.Parser {
	parser := flags.NewParser(base, flags.Default)
	parser.LongDescription = `dbscript runs SQL scripts and installation checks against the
database described by a TOML settings file.

Every "prefix_" in a script is replaced with the configured table prefix.`

	mustAddCmd(parser, "run", "Run a SQL script", `
Run each statement of the script in order. Failing statements are logged
and do not stop the run; the command fails if any statement failed.`, &cmdRun{})
	mustAddCmd(parser, "check", "Check that the site is installed", `
Query the datalists table for the installation marker.`, &cmdCheck{})
	mustAddCmd(parser, "print-config", "Print the resolved settings", `
Print the settings as TOML with passwords masked.`, &cmdPrintConfig{})
	return parser
}

func mustAddCmd(parser *flags.Parser, name, short, long string, cfg interface{}) {
	if _, err := parser.AddCommand(name, short, long, cfg); err != nil {
		panic(err)
	}
}

func main() {
	// flags.Default prints parse and command errors.
	if _, err := newParser().Parse(); err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
