package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/wolfman30/coaching-intake/internal/intake"
	"github.com/wolfman30/coaching-intake/internal/submission"
	"github.com/wolfman30/coaching-intake/pkg/logging"
)

// S3API is the subset of the S3 client used by Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store archives accepted intake submissions to S3.
type Store struct {
	bucket   string
	s3Client S3API
	logger   *logging.Logger
	now      func() time.Time
}

// NewStore creates an archive Store. If bucket is empty, all operations are no-ops.
func NewStore(s3Client S3API, bucket string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{bucket: strings.TrimSpace(bucket), s3Client: s3Client, logger: logger, now: time.Now}
}

// Enabled returns true if archival is configured (bucket is set).
func (s *Store) Enabled() bool {
	return s != nil && s.bucket != "" && s.s3Client != nil
}

// Hook adapts the store to the form's post-submit hook.
func (s *Store) Hook() intake.SubmitHook {
	return s.ArchiveSubmission
}

// SubmissionKey is the object key for a submission made at t.
func SubmissionKey(sessionID string, t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("intake/v1/by-date/%d/%02d/%02d/%s.json", t.Year(), t.Month(), t.Day(), sessionID)
}

// ManifestKey is the monthly manifest covering t.
func ManifestKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("intake/v1/manifests/%d-%02d.jsonl", t.Year(), t.Month())
}

// ArchiveSubmission writes the submitted payload as JSON to S3 and appends to the manifest.
func (s *Store) ArchiveSubmission(ctx context.Context, sub intake.Submission) error {
	if !s.Enabled() {
		return nil
	}

	at := sub.SubmittedAt
	if at.IsZero() {
		at = s.now().UTC()
	}
	payload := submission.BuildPayload(sub.Record, at)
	record := SubmissionRecord{
		Version:     RecordVersion,
		SessionID:   sub.SessionID,
		EmailHash:   HashEmail(sub.Record.Email),
		SubmittedAt: at,
		Payload:     payload,
		SheetRow:    submission.SheetRow(payload),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("archive: marshal record: %w", err)
	}

	key := SubmissionKey(sub.SessionID, at)
	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("archive: s3 put %s: %w", key, err)
	}

	s.logger.Info("archived submission to S3", "session_id", sub.SessionID, "s3_key", key)

	entry := ManifestEntry{
		SessionID:     sub.SessionID,
		S3Key:         key,
		EmailHash:     record.EmailHash,
		CoachingType:  sub.Record.CoachingType,
		StartTimeline: sub.Record.StartTimeline,
		SubmittedAt:   at.Format(time.RFC3339),
	}
	if err := s.AppendManifest(ctx, at, entry); err != nil {
		// The submission object is already written.
		s.logger.Warn("failed to append manifest", "error", err, "session_id", sub.SessionID)
	}
	return nil
}

// AppendManifest appends a JSONL line to the monthly manifest file.
// S3 has no append, so the manifest is read, extended and rewritten.
func (s *Store) AppendManifest(ctx context.Context, at time.Time, entry ManifestEntry) error {
	if !s.Enabled() {
		return nil
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("archive: marshal manifest entry: %w", err)
	}

	manifestKey := ManifestKey(at)

	var existing []byte
	getResp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(manifestKey),
	})
	switch {
	case err == nil:
		existing, err = io.ReadAll(getResp.Body)
		_ = getResp.Body.Close()
		if err != nil {
			return fmt.Errorf("archive: read manifest: %w", err)
		}
	case isNotFound(err):
		s.logger.Debug("manifest not found, creating new", "key", manifestKey)
	default:
		return fmt.Errorf("archive: s3 get manifest: %w", err)
	}

	var buf bytes.Buffer
	if len(existing) > 0 {
		buf.Write(existing)
		if existing[len(existing)-1] != '\n' {
			buf.WriteByte('\n')
		}
	}
	buf.Write(line)
	buf.WriteByte('\n')

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(manifestKey),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/x-ndjson"),
	})
	if err != nil {
		return fmt.Errorf("archive: s3 put manifest: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var notFound *s3types.NotFound
	if errors.As(err, &notFound) {
		return true
	}
	return strings.Contains(err.Error(), "NoSuchKey")
}
