package pgsql

import (
	portsrepo "github.com/SscSPs/loan_dashboard/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewThemeStore returns the Postgres-backed preference store. The opportunity
// and document repositories live upstream; only preferences are kept locally.
func NewThemeStore(dbPool *pgxpool.Pool) portsrepo.ThemeRepositoryFacade {
	return newPgxThemeRepository(dbPool)
}
