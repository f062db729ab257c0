package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"yatube/internal/middleware"

	"gorm.io/gorm"
)

// Migration is one versioned pair of up/down SQL scripts.
type Migration struct {
	Version    int
	Name       string
	UpScript   string
	DownScript string
}

func (m Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

//go:embed migrations/*.sql
var migrationFS embed.FS

// MigrationLog represents a record of an applied migration in the database.
type MigrationLog struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the database table name for MigrationLog.
func (MigrationLog) TableName() string {
	return "migration_logs"
}

// LoadMigrations reads NNNNNN_name.up.sql / .down.sql pairs from fsys, sorted by version.
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var out []Migration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}

		base := strings.TrimSuffix(name, ".up.sql")
		parts := strings.SplitN(base, "_", 2)
		if len(parts) != 2 {
			middleware.Logger.Warn("Skipping migration with invalid naming", slog.String("file", name))
			continue
		}
		version, err := strconv.Atoi(parts[0])
		if err != nil {
			middleware.Logger.Warn("Skipping migration with invalid version", slog.String("file", name))
			continue
		}

		up, err := fs.ReadFile(fsys, path.Join("migrations", name))
		if err != nil {
			return nil, fmt.Errorf("failed to read up migration %s: %w", name, err)
		}
		down, err := fs.ReadFile(fsys, path.Join("migrations", base+".down.sql"))
		if err != nil {
			return nil, fmt.Errorf("failed to read down migration for %s: %w", name, err)
		}

		out = append(out, Migration{
			Version:    version,
			Name:       parts[1],
			UpScript:   string(up),
			DownScript: string(down),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Migrations returns the migrations embedded in the binary.
func Migrations() ([]Migration, error) {
	return LoadMigrations(migrationFS)
}

// Migrator applies versioned SQL migrations and tracks them in migration_logs.
type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

// NewMigrator builds a Migrator over the embedded migrations.
func NewMigrator(db *gorm.DB) (*Migrator, error) {
	ms, err := Migrations()
	if err != nil {
		return nil, err
	}
	return &Migrator{db: db, migrations: ms}, nil
}

func (m *Migrator) applied(ctx context.Context) (map[int]bool, error) {
	if err := m.db.WithContext(ctx).AutoMigrate(&MigrationLog{}); err != nil {
		return nil, fmt.Errorf("failed to ensure migration logs table: %w", err)
	}
	var versions []int
	if err := m.db.WithContext(ctx).Model(&MigrationLog{}).Order("version ASC").Pluck("version", &versions).Error; err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	set := make(map[int]bool, len(versions))
	for _, v := range versions {
		set[v] = true
	}
	return set, nil
}

// Up applies every pending migration in order and returns how many ran.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, mig := range m.migrations {
		if applied[mig.Version] {
			continue
		}
		middleware.Logger.InfoContext(ctx, "Applying migration", slog.String("migration", mig.String()))
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(mig.UpScript).Error; err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", mig, err)
			}
			return tx.Create(&MigrationLog{Version: mig.Version, Name: mig.Name}).Error
		})
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Down rolls back the most recently applied migration. It returns false when nothing was applied.
func (m *Migrator) Down(ctx context.Context) (bool, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return false, err
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		mig := m.migrations[i]
		if !applied[mig.Version] {
			continue
		}
		middleware.Logger.InfoContext(ctx, "Rolling back migration", slog.String("migration", mig.String()))
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(mig.DownScript).Error; err != nil {
				return fmt.Errorf("failed to roll back migration %s: %w", mig, err)
			}
			return tx.Where("version = ?", mig.Version).Delete(&MigrationLog{}).Error
		})
		return err == nil, err
	}
	return false, nil
}

// Status lists every known migration with whether it has been applied.
func (m *Migrator) Status(ctx context.Context) (map[string]bool, error) {
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(m.migrations))
	for _, mig := range m.migrations {
		out[mig.String()] = applied[mig.Version]
	}
	return out, nil
}
