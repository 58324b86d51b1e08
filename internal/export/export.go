// Package export writes a point-in-time snapshot of one account to a local
// file or to an S3 object. Paths ending in .gz are gzip-compressed and paths
// ending in .zst are zstd-compressed.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/mmynk/freelancepay/internal/app"
	"github.com/mmynk/freelancepay/internal/models"
)

var (
	ErrNoSession  = errors.New("export requires a logged in user")
	ErrNoS3Client = errors.New("S3 client not configured")
)

// Snapshot is everything exported for one account.
type Snapshot struct {
	ExportedAt time.Time        `json:"exported_at"`
	User       models.User      `json:"user"`
	Stats      models.Stats     `json:"stats"`
	Clients    []models.Client  `json:"clients"`
	Invoices   []models.Invoice `json:"invoices"`
}

// FromState copies the cached data of a logged in App.
func FromState(st app.State, at time.Time) (Snapshot, error) {
	if st.User == nil {
		return Snapshot{}, ErrNoSession
	}
	snap := Snapshot{
		ExportedAt: at.UTC(),
		User:       *st.User,
		Stats:      st.Stats,
		Clients:    append([]models.Client{}, st.Clients...),
		Invoices:   append([]models.Invoice{}, st.Invoices...),
	}
	return snap, nil
}

// Compression is the encoding applied on top of the JSON document.
type Compression int

const (
	None Compression = iota
	Gzip
	Zstd
)

// CompressionFor picks the compression from a file name's extension.
func CompressionFor(name string) Compression {
	switch {
	case strings.HasSuffix(name, ".gz"):
		return Gzip
	case strings.HasSuffix(name, ".zst"):
		return Zstd
	}
	return None
}

func (c Compression) contentType() string {
	switch c {
	case Gzip:
		return "application/gzip"
	case Zstd:
		return "application/zstd"
	}
	return "application/json"
}

// Encode writes snap as indented JSON.
func Encode(w io.Writer, snap Snapshot, c Compression) error {
	var (
		out    io.Writer = w
		closer io.Closer
	)
	switch c {
	case Gzip:
		zw := gzip.NewWriter(w)
		out, closer = zw, zw
	case Zstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("failed to create zstd writer: %w", err)
		}
		out, closer = zw, zw
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("failed to finish compression: %w", err)
		}
	}
	return nil
}

// Decode reads a snapshot written by Encode.
func Decode(r io.Reader, c Compression) (Snapshot, error) {
	in := r
	switch c {
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer zr.Close()
		in = zr
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		defer zr.Close()
		in = zr
	}

	var snap Snapshot
	if err := json.NewDecoder(in).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}

// Target is where a snapshot goes: a local path or an S3 bucket and key.
type Target struct {
	Path   string
	Bucket string
	Key    string
}

// ParseTarget accepts a file path or s3://bucket/key.
func ParseTarget(dest string) (Target, error) {
	dest = strings.TrimSpace(dest)
	if dest == "" {
		return Target{}, errors.New("export destination is required")
	}
	rest, ok := strings.CutPrefix(dest, "s3://")
	if !ok {
		return Target{Path: dest}, nil
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return Target{}, fmt.Errorf("invalid S3 destination %q: want s3://bucket/key", dest)
	}
	return Target{Bucket: bucket, Key: key}, nil
}

// IsS3 reports whether the target is an S3 object.
func (t Target) IsS3() bool { return t.Bucket != "" }

func (t Target) String() string {
	if t.IsS3() {
		return "s3://" + t.Bucket + "/" + t.Key
	}
	return t.Path
}

func (t Target) name() string {
	if t.IsS3() {
		return t.Key
	}
	return t.Path
}

// PutObjectAPI is the part of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Exporter writes snapshots to targets.
type Exporter struct {
	s3     PutObjectAPI
	logger *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithS3 enables s3:// targets.
func WithS3(api PutObjectAPI) Option {
	return func(e *Exporter) { e.s3 = api }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

// New creates an Exporter.
func New(opts ...Option) *Exporter {
	e := &Exporter{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes snap to t.
func (e *Exporter) Export(ctx context.Context, t Target, snap Snapshot) error {
	c := CompressionFor(t.name())
	if t.IsS3() {
		return e.upload(ctx, t, snap, c)
	}
	return e.writeFile(t.Path, snap, c)
}

// writeFile writes to a temporary file next to path and renames it into
// place, so a failed export never leaves a truncated file behind.
func (e *Exporter) writeFile(path string, snap Snapshot, c Compression) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	f, err := os.CreateTemp(dir, ".freelancepay-export-*")
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer os.Remove(f.Name())

	if err := Encode(f, snap, c); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("failed to move export into place: %w", err)
	}

	e.logger.Info("Snapshot exported", "path", path, "clients", len(snap.Clients), "invoices", len(snap.Invoices))
	return nil
}

func (e *Exporter) upload(ctx context.Context, t Target, snap Snapshot, c Compression) error {
	if e.s3 == nil {
		return ErrNoS3Client
	}
	var buf bytes.Buffer
	if err := Encode(&buf, snap, c); err != nil {
		return err
	}
	_, err := e.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(t.Bucket),
		Key:           aws.String(t.Key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(int64(buf.Len())),
		ContentType:   aws.String(c.contentType()),
		Metadata: map[string]string{
			"user-id":     fmt.Sprint(snap.User.ID),
			"exported-at": snap.ExportedAt.Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot to %s: %w", t, err)
	}

	e.logger.Info("Snapshot exported", "target", t.String(), "bytes", buf.Len())
	return nil
}
