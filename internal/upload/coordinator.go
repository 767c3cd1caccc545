// Package upload converts a completed session into durable artifacts:
// four object uploads with retry, then one record row. Upload is
// best-effort telemetry; it never gates the user-visible flow.
package upload

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/carsonSgit/cusec-photobooth/internal/retry"
	"github.com/carsonSgit/cusec-photobooth/internal/storage"
	"github.com/carsonSgit/cusec-photobooth/internal/types"
	"github.com/carsonSgit/cusec-photobooth/shared/logger"
)

var (
	// ErrDuplicateTrigger means the upload for this session id already
	// ran or is running; re-entrant initialization must not start a
	// second sequence.
	ErrDuplicateTrigger = errors.New("upload already triggered for this session")

	// ErrNotConfigured means the object store or record table is
	// missing, so no delivery was attempted.
	ErrNotConfigured = errors.New("upload backend is not configured")

	// ErrRecordWrite is the partial-success outcome: all four artifacts
	// exist remotely but the record row could not be written.
	ErrRecordWrite = errors.New("uploads succeeded but the session record write failed")

	// ErrIncompleteSession means the session has no id, fewer than
	// three photos, or no strip yet.
	ErrIncompleteSession = errors.New("session is not ready to upload")
)

// RecordStore writes the one row per session and keyed email updates.
type RecordStore interface {
	UpsertSessionRecord(ctx context.Context, rec types.SessionRecord) error
	UpdateSessionEmail(ctx context.Context, sessionID, email string) error
}

// Result carries the resulting object locations after a successful (or
// partially successful) upload.
type Result struct {
	SessionID     string
	PhotoURLs     [3]string
	PhotostripURL string
}

// Coordinator uploads session artifacts at most once per session id.
type Coordinator struct {
	objects storage.ObjectStore
	records RecordStore
	policy  retry.Policy
	now     func() time.Time

	mu        sync.Mutex
	triggered map[string]bool
}

type Options struct {
	Objects storage.ObjectStore
	Records RecordStore
	Policy  retry.Policy
	Now     func() time.Time
}

func NewCoordinator(opts Options) *Coordinator {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	policy := opts.Policy
	if policy.Attempts == 0 {
		policy = retry.DefaultPolicy()
	}
	return &Coordinator{
		objects:   opts.Objects,
		records:   opts.Records,
		policy:    policy,
		now:       now,
		triggered: make(map[string]bool),
	}
}

// Upload runs the full sequence for one session: the three photos and
// the strip are uploaded concurrently, each with sequential
// retry/backoff, and only after all four succeed is the record row
// written. A second trigger for the same id returns
// ErrDuplicateTrigger without any network activity.
func (c *Coordinator) Upload(ctx context.Context, sess types.Session) (*Result, error) {
	if sess.ID == "" || len(sess.Photos) != 3 || sess.Strip == nil {
		return nil, ErrIncompleteSession
	}

	c.mu.Lock()
	if c.triggered[sess.ID] {
		c.mu.Unlock()
		return nil, ErrDuplicateTrigger
	}
	c.triggered[sess.ID] = true
	c.mu.Unlock()

	if c.objects == nil || c.records == nil {
		return nil, ErrNotConfigured
	}

	logger.Info(ctx, "starting session upload", logger.Fields{
		"orientation": string(sess.Orientation),
	})

	now := c.now()
	jobs := []struct {
		key         string
		contentType string
		data        []byte
	}{
		{storage.PhotoKey(now, sess.ID, 1), sess.Photos[0].Mime, sess.Photos[0].Data},
		{storage.PhotoKey(now, sess.ID, 2), sess.Photos[1].Mime, sess.Photos[1].Data},
		{storage.PhotoKey(now, sess.ID, 3), sess.Photos[2].Mime, sess.Photos[2].Data},
		{storage.StripKey(now, sess.ID), sess.Strip.Mime, sess.Strip.Data},
	}

	urls := make([]string, len(jobs))
	errs := make([]error, len(jobs))

	var wg sync.WaitGroup
	wg.Add(len(jobs))
	for i, job := range jobs {
		go func(i int, key, contentType string, data []byte) {
			defer wg.Done()
			errs[i] = c.policy.Do(ctx, func(ctx context.Context) error {
				url, err := c.objects.Put(ctx, key, contentType, data)
				if err != nil {
					return err
				}
				urls[i] = url
				return nil
			})
		}(i, job.key, job.contentType, job.data)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			logger.Error(ctx, "session upload failed", err, logger.Fields{
				"object_key": jobs[i].key,
			})
			return nil, fmt.Errorf("failed to upload %s: %w", jobs[i].key, err)
		}
	}

	result := &Result{
		SessionID:     sess.ID,
		PhotoURLs:     [3]string{urls[0], urls[1], urls[2]},
		PhotostripURL: urls[3],
	}

	rec := types.SessionRecord{
		SessionID:     sess.ID,
		Orientation:   sess.Orientation,
		Photo1URL:     urls[0],
		Photo2URL:     urls[1],
		Photo3URL:     urls[2],
		PhotostripURL: urls[3],
		Status:        "completed",
	}
	if err := c.records.UpsertSessionRecord(ctx, rec); err != nil {
		// The artifacts already exist remotely; report the distinct
		// partial outcome rather than total failure.
		logger.Error(ctx, "session record write failed after uploads", err)
		return result, fmt.Errorf("%w: %v", ErrRecordWrite, err)
	}

	logger.Info(ctx, "session upload completed", logger.Fields{
		"photostrip_url": result.PhotostripURL,
	})
	return result, nil
}

// AttachEmail adds an email address to an already-written record.
func (c *Coordinator) AttachEmail(ctx context.Context, sessionID, email string) error {
	if c.records == nil {
		return ErrNotConfigured
	}
	if err := c.records.UpdateSessionEmail(ctx, sessionID, email); err != nil {
		return fmt.Errorf("failed to attach email: %w", err)
	}
	return nil
}
