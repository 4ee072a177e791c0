package database

import (
	"context"
	"fmt"

	"github.com/goforj/database/dbcore"
)

// AssertInstalled checks that the datalists table records an installation.
// A successful check is remembered; failures are retried on the next call.
// @group Lifecycle
func (d *Database) AssertInstalled(ctx context.Context) error {
	if d.installed.Load() {
		return nil
	}
	query := fmt.Sprintf("SELECT value FROM %sdatalists WHERE name = 'installed'", d.cfg.TablePrefix)
	if _, err := d.execute(ctx, query, roleLink{m: d.links, role: dbcore.Read}); err != nil {
		return newError(ErrInstallation, msgNotInstalled, "", err)
	}
	d.installed.Store(true)
	return nil
}
