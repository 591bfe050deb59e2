// Package storage writes case document blobs to the configured bucket and
// issues the durable download URLs recorded on the document ledger.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	cloudstorage "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// BlobUploader is the storage-facing contract the document service uses.
type BlobUploader interface {
	// Upload streams the blob and returns its public download URL. The
	// progress callback, when non-nil, receives monotonically increasing
	// values in [0,100]. On error no URL is returned; an already-written
	// partial blob is left orphaned (no cleanup pass exists).
	Upload(ctx context.Context, caseID, fileName, contentType string, size int64, r io.Reader, onProgress func(pct float64)) (string, error)
}

// Uploader implements BlobUploader against a Cloud Storage bucket.
type Uploader struct {
	bucket     *cloudstorage.BucketHandle
	bucketName string
	clock      func() time.Time
}

// NewUploader creates an Uploader for the given bucket.
func NewUploader(bucket *cloudstorage.BucketHandle, bucketName string) *Uploader {
	return &Uploader{bucket: bucket, bucketName: bucketName, clock: time.Now}
}

// ObjectPath builds the storage path for a case document. The epoch-millis
// prefix keeps same-named files from colliding.
func ObjectPath(caseID, fileName string, at time.Time) string {
	return fmt.Sprintf("cases/%s/%d_%s", caseID, at.UnixMilli(), fileName)
}

// Upload writes the blob via a resumable writer and attaches a Firebase
// download token so the stored URL stays publicly fetchable.
func (u *Uploader) Upload(ctx context.Context, caseID, fileName, contentType string, size int64, r io.Reader, onProgress func(pct float64)) (string, error) {
	if u.bucket == nil {
		return "", errors.New("storage bucket is not initialized")
	}
	if caseID == "" || fileName == "" {
		return "", errors.New("caseID and fileName are required for upload")
	}

	objectPath := ObjectPath(caseID, fileName, u.clock())
	token := uuid.NewString()

	w := u.bucket.Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": token,
	}

	tracker := NewProgressTracker(size, onProgress)
	if _, err := io.Copy(w, tracker.Wrap(r)); err != nil {
		w.Close() // best effort; the partial object may remain
		return "", fmt.Errorf("failed to stream blob to '%s': %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize blob '%s': %w", objectPath, err)
	}
	tracker.Finish()

	return DownloadURL(u.bucketName, objectPath, token), nil
}

// DownloadURL builds the token-based public URL stored verbatim on the
// CaseDocument record.
func DownloadURL(bucketName, objectPath, token string) string {
	return fmt.Sprintf(
		"https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucketName, url.QueryEscape(objectPath), token,
	)
}
