package camera

import (
	"context"
	"image"
	"time"
)

// Facing selects which camera the session asks for.
type Facing string

const (
	FacingUser        Facing = "user"
	FacingEnvironment Facing = "environment"
)

// SourceConfig carries the acquisition constraints for one start
// attempt. Width and height are ideals, not requirements; the source
// picks the nearest mode the hardware offers.
type SourceConfig struct {
	Device      string
	Facing      Facing
	IdealWidth  int
	IdealHeight int
	ReadTimeout time.Duration
}

// Source is a live camera stream. ReadFrame returns the most recent
// decoded frame.
type Source interface {
	ReadFrame(ctx context.Context) (image.Image, error)
	Close() error
}

// Factory acquires a stream. Acquisition may block on hardware or
// permission prompts; the session discards the result if the attempt
// was superseded while waiting.
type Factory func(ctx context.Context, cfg SourceConfig) (Source, error)
