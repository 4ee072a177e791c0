package database

import (
	"context"
	"sync"

	"github.com/goforj/database/dbcore"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// linkManager owns at most one live link per role.
type linkManager struct {
	cfg       Config
	connector dbcore.Connector
	log       *Logger

	mu    sync.Mutex
	links map[dbcore.Role]dbcore.Link
	group singleflight.Group
}

func newLinkManager(cfg Config, connector dbcore.Connector, logger *Logger) *linkManager {
	return &linkManager{
		cfg:       cfg,
		connector: connector,
		log:       logger,
		links:     make(map[dbcore.Role]dbcore.Link, len(dbcore.Roles)),
	}
}

// get returns the link for role, establishing it when needed.
func (m *linkManager) get(ctx context.Context, role dbcore.Role) (dbcore.Link, error) {
	if _, err := dbcore.ParseRole(string(role)); err != nil {
		return nil, newError(ErrConfig, err.Error(), "", err)
	}
	if l := m.lookup(role); l != nil {
		return l, nil
	}
	if !m.cfg.Split {
		return m.establish(ctx, dbcore.ReadWrite)
	}

	target, sibling := dbcore.Write, dbcore.Read
	if role == dbcore.Read {
		target, sibling = dbcore.Read, dbcore.Write
	}
	l, err := m.establish(ctx, target)
	if err != nil {
		return nil, err
	}
	if m.lookup(sibling) == nil {
		if _, err := m.establish(ctx, sibling); err != nil {
			m.log.log(LevelWarning, "Couldn't establish the "+string(sibling)+" link; it will be retried on demand.",
				log.Fields{"role": sibling, "err": err})
		}
	}
	return l, nil
}

// lookup returns the link for role, falling back to the read-write link.
func (m *linkManager) lookup(role dbcore.Role) dbcore.Link {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l := m.links[role]; l != nil {
		return l
	}
	return m.links[dbcore.ReadWrite]
}

// establish opens the link for role once, however many callers ask at the
// same time. The connection outlives the caller that started it, so it is
// opened with cancellation detached; each caller still stops waiting when
// its own ctx is done.
func (m *linkManager) establish(ctx context.Context, role dbcore.Role) (dbcore.Link, error) {
	connectCtx := context.WithoutCancel(ctx)
	ch := m.group.DoChan(string(role), func() (any, error) {
		m.mu.Lock()
		existing := m.links[role]
		m.mu.Unlock()
		if existing != nil {
			return existing, nil
		}

		cc, err := m.cfg.ConnectionConfig(role)
		if err != nil {
			return nil, err
		}
		link, err := m.connector.Connect(connectCtx, cc)
		if err != nil {
			return nil, newError(ErrDatabase, msgConnect, "", err)
		}
		if stmt := m.connector.CharsetStatement(); stmt != "" {
			if _, err := link.Query(connectCtx, stmt); err != nil {
				_ = link.Close()
				return nil, newError(ErrDatabase, msgConnect, "", err)
			}
		}

		m.mu.Lock()
		m.links[role] = link
		m.mu.Unlock()
		m.log.log(LevelInfo, "Established "+string(role)+" link", log.Fields{"endpoint": cc.String()})
		return link, nil
	})
	select {
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(dbcore.Link), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// close closes every link and forgets them. The first close error is returned.
func (m *linkManager) close() error {
	m.mu.Lock()
	links := m.links
	m.links = make(map[dbcore.Role]dbcore.Link, len(dbcore.Roles))
	m.mu.Unlock()

	var first error
	for _, role := range dbcore.Roles {
		l := links[role]
		if l == nil {
			continue
		}
		if err := l.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// linkSource yields the link a query runs on, possibly after waiting for it.
type linkSource interface {
	resolve(ctx context.Context) (dbcore.Link, error)
}

type readyLink struct{ link dbcore.Link }

func (r readyLink) resolve(context.Context) (dbcore.Link, error) { return r.link, nil }

type pendingLink struct{ future *Future[dbcore.Link] }

func (p pendingLink) resolve(ctx context.Context) (dbcore.Link, error) { return p.future.Wait(ctx) }

type roleLink struct {
	m    *linkManager
	role dbcore.Role
}

func (r roleLink) resolve(ctx context.Context) (dbcore.Link, error) { return r.m.get(ctx, r.role) }
