package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/openbrine/brine/pkg/artifacts"
	"github.com/openbrine/brine/pkg/brinefile"
	"github.com/openbrine/brine/pkg/manifest"
	"github.com/openbrine/brine/pkg/stores"
	"github.com/openbrine/brine/pkg/telemetry"
	"github.com/openbrine/brine/pkg/workspace"
)

func newGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Compile the Brinefile into init.sls and its artifacts",
		Long: `Compile the Brinefile in the working directory.

The pipeline runs to completion or fails before anything is written:
lex the sections, interpret them into a document, validate it, render
the manifest and README, and merge this document's pinned versions into
the version map.`,
		Example: `  # Generate from ./Brinefile
  brine generate

  # Generate from another directory
  brine generate -C roles/queue/mq-service`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGeneration(cmd.Context())
		},
	}
}

// runGeneration is the whole pipeline: read, parse, render, write,
// record. Shared by `brine`, `brine generate` and `brine watch`.
func runGeneration(ctx context.Context) error {
	logger := telemetry.FromContext(ctx)
	ws := workspace.New(workDir)

	doc, manifestText, err := compile(ws)
	if err != nil {
		return err
	}

	readme := artifacts.RenderReadme(doc)
	versions := artifacts.CollectVersions(doc)

	if err := ws.Write(ctx, workspace.Artifacts{
		Manifest:     manifestText,
		Readme:       readme,
		Versions:     versions,
		WantFilesDir: len(doc.Files) > 0,
	}); err != nil {
		return err
	}

	logger.WithField("kind", string(doc.Kind)).
		WithField("name", doc.Name).
		WithField("packages", len(doc.Packages)).
		Info("generated manifest")

	recordRun(ctx, doc, manifestText)
	return nil
}

// compile covers the read-only half of the pipeline: source text to
// validated document and rendered manifest. No artifact is touched yet,
// so a failing Brinefile leaves the working directory as it was.
func compile(ws *workspace.Workspace) (*brinefile.Document, string, error) {
	src, err := ws.ReadSource(sourceFile)
	if err != nil {
		return nil, "", err
	}

	doc, err := brinefile.Parse(src)
	if err != nil {
		return nil, "", err
	}

	manifestText, err := manifest.Generate(doc)
	if err != nil {
		return nil, "", err
	}

	return doc, manifestText, nil
}

// recordRun appends this generation to the run history. Best effort:
// history is an audit trail, so failures warn and nothing more.
func recordRun(ctx context.Context, doc *brinefile.Document, manifestText string) {
	logger := telemetry.FromContext(ctx).NewComponentLogger("history")

	path, err := historyDBPath()
	if err != nil {
		logger.WithError(err).Warn("skipping run history")
		return
	}

	store, err := stores.NewSQLiteStore(stores.Config{Path: path})
	if err != nil {
		logger.WithError(err).Warn("skipping run history")
		return
	}
	if err := store.Init(ctx); err != nil {
		logger.WithError(err).Warn("skipping run history")
		return
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		logger.WithError(err).Warn("skipping run history")
		return
	}

	sum := sha256.Sum256([]byte(manifestText))
	run := &stores.GenerationRun{
		ID:             uuid.New().String(),
		Kind:           string(doc.Kind),
		Name:           doc.Name,
		Packages:       len(doc.Packages),
		Files:          len(doc.Files),
		Services:       len(doc.Services),
		ManifestSHA256: hex.EncodeToString(sum[:]),
		CreatedAt:      time.Now().UTC(),
	}
	if err := store.RecordRun(ctx, run); err != nil {
		logger.WithError(err).Warn("failed to record run")
	}
}

// historyDBPath resolves the run-history database location under the
// user cache directory.
func historyDBPath() (string, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(cache, "brine")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}
