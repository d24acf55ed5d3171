package s3blob

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DoyleJ11/lol-draft-advisor/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	key, bucket, contentType string
	body                     []byte
	err                      error
}

func (f *fakeUploader) Upload(_ context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.key = aws.ToString(in.Key)
	f.bucket = aws.ToString(in.Bucket)
	f.contentType = aws.ToString(in.ContentType)
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &manager.UploadOutput{}, nil
}

func testRecord() domain.HistoryRecord {
	return domain.HistoryRecord{
		SessionID:   "7d1f",
		Code:        "ZED123",
		Format:      "tournament",
		CompletedAt: time.Date(2026, 3, 1, 23, 30, 0, 0, time.FixedZone("PST", -8*3600)),
	}
}

func TestObjectKey(t *testing.T) {
	rec := testRecord()
	// Completion time is bucketed by its UTC date.
	assert.Equal(t, "drafts/2026/03/02/ZED123-7d1f.json", ObjectKey("drafts/", rec))
	assert.Equal(t, "drafts/2026/03/02/ZED123-7d1f.json", ObjectKey("/drafts", rec))
	assert.Equal(t, "2026/03/02/ZED123-7d1f.json", ObjectKey("", rec))
}

func TestHistoryArchive_Save(t *testing.T) {
	up := &fakeUploader{}
	a := &HistoryArchive{up: up, bucket: "drafts-bucket", prefix: "history"}

	rec := testRecord()
	require.NoError(t, a.Save(context.Background(), rec))
	assert.Equal(t, "drafts-bucket", up.bucket)
	assert.Equal(t, "history/2026/03/02/ZED123-7d1f.json", up.key)
	assert.Equal(t, "application/json", up.contentType)

	var got domain.HistoryRecord
	require.NoError(t, json.Unmarshal(up.body, &got))
	assert.Equal(t, rec.SessionID, got.SessionID)
	assert.Equal(t, rec.Code, got.Code)
}

func TestHistoryArchive_SaveErrors(t *testing.T) {
	a := &HistoryArchive{up: &fakeUploader{err: errors.New("boom")}, bucket: "b"}
	err := a.Save(context.Background(), testRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	assert.Error(t, a.Save(context.Background(), domain.HistoryRecord{}))
}

func TestNormaliseEndpoint(t *testing.T) {
	assert.Equal(t, "http://localhost:9000", normaliseEndpoint("http://localhost:9000"))
	assert.Equal(t, "https://s3.example.com", normaliseEndpoint("s3.example.com"))
	assert.Equal(t, "https://localhost:9000", normaliseEndpoint("localhost:9000"))
}
