package service

import (
	"context"
	"fmt"

	repository "github.com/okian/morsel/internal/adapters/repository"
	"github.com/okian/morsel/internal/domain/ingest"
	"github.com/okian/morsel/pkg/metrics"
)

// RunIngest reads sources in order and publishes the resulting dataset to
// artifactPath. Nothing is written when ingestion fails, so a previous
// artifact survives a bad run.
func RunIngest(ctx context.Context, sources []string, artifactPath string, opts ...ingest.Option) (ingest.Result, error) {
	res, err := ingest.New(opts...).Ingest(ctx, ingest.FileSources(sources...))
	if err != nil {
		return ingest.Result{}, err
	}
	if err := repository.WriteFile(artifactPath, res.Dataset); err != nil {
		metrics.RecordErrorByComponent("pipeline", "artifact_write")
		return ingest.Result{}, fmt.Errorf("write artifact %s: %w", artifactPath, err)
	}
	metrics.RecordArtifactWrite()
	return res, nil
}
