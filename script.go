package database

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

const scriptPrefixPlaceholder = "prefix_"

var (
	scriptCommentRE = regexp.MustCompile(`--[^\n\r]*`)
	scriptSplitRE   = regexp.MustCompile(`;[ \t]*[\n\r]+`)
)

// RunSQLScript runs the statements of the script at path through UpdateData,
// one after another. Every "prefix_" is replaced with the table prefix.
// Failing statements do not stop the run; they are collected in a
// *ScriptError.
// @group Scripts
//
// Example: install the schema
//
//	if err := db.RunSQLScript(ctx, "install/schema.sql"); err != nil {
//		var scriptErr *database.ScriptError
//		if errors.As(err, &scriptErr) {
//			fmt.Println(len(scriptErr.Failures), "statements failed")
//		}
//	}
func (d *Database) RunSQLScript(ctx context.Context, path string) error {
	body, err := afero.ReadFile(d.fs, path)
	if err != nil {
		return newError(ErrDatabase, fmt.Sprintf("Couldn't find the requested database script at %s.", path), "", err)
	}
	return d.runScript(ctx, string(body))
}

// RunSQLScriptReader is RunSQLScript for a script held in memory.
// @group Scripts
func (d *Database) RunSQLScriptReader(ctx context.Context, r io.Reader) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return newError(ErrDatabase, "Couldn't read the requested database script.", "", err)
	}
	return d.runScript(ctx, string(body))
}

func (d *Database) runScript(ctx context.Context, script string) error {
	var failures []error
	for _, stmt := range splitScript(script) {
		stmt = strings.ReplaceAll(stmt, scriptPrefixPlaceholder, d.cfg.TablePrefix)
		if _, err := d.UpdateData(ctx, stmt); err != nil {
			failures = append(failures, err)
		}
	}
	if len(failures) > 0 {
		return &ScriptError{Failures: failures}
	}
	return nil
}

// splitScript drops "--" comments and splits on semicolons that end a line.
func splitScript(script string) []string {
	script = scriptCommentRE.ReplaceAllString(script, "")
	var stmts []string
	for _, stmt := range scriptSplitRE.Split(script, -1) {
		stmt = strings.TrimSpace(stmt)
		stmt = strings.TrimSpace(strings.TrimSuffix(stmt, ";"))
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
