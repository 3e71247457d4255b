package repository

import (
	"errors"
	"fmt"
)

// ErrArtifactFormat is the sentinel kind of every ArtifactFormatError.
var ErrArtifactFormat = errors.New("artifact format")

// ArtifactFormatError reports an artifact whose header or rows do not match
// the canonical sales,date,region schema.
type ArtifactFormatError struct {
	Line   int
	Reason string
}

func (e *ArtifactFormatError) Error() string {
	return fmt.Sprintf("artifact line %d: %s", e.Line, e.Reason)
}

func (e *ArtifactFormatError) Unwrap() error { return ErrArtifactFormat }
