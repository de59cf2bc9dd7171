package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"rental-booking/internal/pkg/config"
	"rental-booking/internal/pkg/errs"

	"ariga.io/atlas-go-sdk/atlasexec"
)

const migrateTimeout = 2 * time.Minute

func main() {
	var (
		dir        = flag.String("dir", "migrations", "directory holding the versioned SQL files")
		atlasBin   = flag.String("atlas", "atlas", "path to the atlas binary")
		status     = flag.Bool("status", false, "print migration status instead of applying")
		dryRun     = flag.Bool("dry-run", false, "print pending statements without executing them")
		allowDirty = flag.Bool("allow-dirty", false, "allow applying on a schema not managed by atlas")
	)
	flag.Parse()

	if err := run(*dir, *atlasBin, *status, *dryRun, *allowDirty); err != nil {
		slog.Error("migration failed", "error", err, "stack", errs.ExtractStackLines(err, 5))
		os.Exit(1)
	}
}

func run(dir, atlasBin string, status, dryRun, allowDirty bool) error {
	cfg, err := config.LoadDBConfig()
	if err != nil {
		return errs.Wrap(err, "load database config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()

	m, err := newMigrator(dir, atlasBin, cfg.MigrationURL())
	if err != nil {
		return err
	}
	defer m.Close()

	if status {
		return m.Status(ctx)
	}
	return m.Apply(ctx, dryRun, allowDirty)
}

type migrator struct {
	workdir *atlasexec.WorkingDir
	client  *atlasexec.Client
	url     string
}

// newMigrator copies dir into a temporary working directory owned by atlas.
func newMigrator(dir, atlasBin, url string) (*migrator, error) {
	workdir, err := atlasexec.NewWorkingDir(atlasexec.WithMigrations(os.DirFS(dir)))
	if err != nil {
		return nil, errs.Wrap(err, "load migration dir "+dir)
	}

	client, err := atlasexec.NewClient(workdir.Path(), atlasBin)
	if err != nil {
		_ = workdir.Close()
		return nil, errs.Wrap(err, "init atlas client")
	}

	return &migrator{workdir: workdir, client: client, url: url}, nil
}

func (m *migrator) Close() {
	if err := m.workdir.Close(); err != nil {
		slog.Warn("failed to remove atlas working dir", "error", err)
	}
}

func (m *migrator) Apply(ctx context.Context, dryRun, allowDirty bool) error {
	res, err := m.client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{
		URL:        m.url,
		DryRun:     dryRun,
		AllowDirty: allowDirty,
	})
	if err != nil {
		return errs.Wrap(err, "migrate apply")
	}

	for _, f := range res.Applied {
		slog.Info("applied migration", "version", f.Version, "name", f.Name, "dry_run", dryRun)
	}
	slog.Info("migrations done", "applied", len(res.Applied), "current", res.Current, "target", res.Target)
	return nil
}

func (m *migrator) Status(ctx context.Context) error {
	st, err := m.client.MigrateStatus(ctx, &atlasexec.MigrateStatusParams{URL: m.url})
	if err != nil {
		return errs.Wrap(err, "migrate status")
	}

	for _, f := range st.Pending {
		slog.Info("pending migration", "version", f.Version, "name", f.Name)
	}
	slog.Info("migration status", "status", st.Status, "current", st.Current, "pending", len(st.Pending))
	return nil
}
