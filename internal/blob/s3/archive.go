package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// HistoryArchive writes one JSON object per completed draft. It implements
// session.HistorySink.
type HistoryArchive struct {
	up     uploader
	bucket string
	prefix string
}

func NewHistoryArchive(c *Client, prefix string) *HistoryArchive {
	return &HistoryArchive{
		up:     manager.NewUploader(c.S3()),
		bucket: c.Bucket(),
		prefix: prefix,
	}
}

// ObjectKey places a record under its completion date:
// {prefix}/YYYY/MM/DD/{code}-{session_id}.json
func ObjectKey(prefix string, rec domain.HistoryRecord) string {
	day := rec.CompletedAt.UTC().Format("2006/01/02")
	name := fmt.Sprintf("%s-%s.json", rec.Code, rec.SessionID)
	return path.Join(strings.Trim(prefix, "/"), day, name)
}

func (a *HistoryArchive) Save(ctx context.Context, rec domain.HistoryRecord) error {
	if rec.SessionID == "" {
		return fmt.Errorf("s3blob: history record has no session id")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("s3blob: marshal draft %s: %w", rec.SessionID, err)
	}

	key := ObjectKey(a.prefix, rec)
	_, err = a.up.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3blob: upload %s: %w", key, err)
	}
	return nil
}
