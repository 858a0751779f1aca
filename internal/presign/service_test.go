package presign

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cloudrelay/uploader/internal/apperr"
	"github.com/cloudrelay/uploader/internal/storage"
	"github.com/cloudrelay/uploader/internal/storage/storagetest"
)

type fixture struct {
	svc   *Service
	fakes map[storage.ProviderID]*storagetest.Fake
	logs  *observer.ObservedLogs
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)

	fakes := make(map[storage.ProviderID]*storagetest.Fake)
	var clients []*storage.Client
	for _, id := range storage.Providers {
		fakes[id] = storagetest.New()
		clients = append(clients, storage.Ready(id, fakes[id]))
	}

	return &fixture{
		svc:   NewService(storage.NewRegistry(clients...), zap.New(core), opts...),
		fakes: fakes,
		logs:  logs,
	}
}

func size(n int64) *int64 { return &n }

func TestIssueEveryProviderAndOperation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, id := range storage.Providers {
		t.Run(string(id), func(t *testing.T) {
			fake := f.fakes[id]
			fake.AddObject("report.png", []byte("png"), "image/png", time.Now())

			up, err := f.svc.IssueUpload(ctx, string(id), UploadRequest{
				FileName: "cat.jpg",
				FileType: "image/jpeg",
				FileSize: size(2048),
			})
			require.NoError(t, err)
			assert.NotEmpty(t, up.URL)
			assert.Equal(t, storage.OpUpload, up.Operation)
			assert.Equal(t, 3600, up.ExpiresInSeconds())

			down, err := f.svc.IssueDownload(ctx, string(id), "report.png")
			require.NoError(t, err)
			assert.NotEmpty(t, down.URL)
			assert.Equal(t, "report.png", down.ObjectKey)
			assert.Equal(t, 900, down.ExpiresInSeconds())

			del, err := f.svc.IssueDelete(ctx, string(id), "report.png")
			require.NoError(t, err)
			assert.NotEmpty(t, del.URL)
			assert.Equal(t, storage.OpDelete, del.Operation)
			assert.Equal(t, 300, del.ExpiresInSeconds())

			assert.Equal(t, 3, fake.Calls("Sign"))
			assert.True(t, fake.Has("report.png"), "issuing a delete URL must not delete")
		})
	}
}

func TestIssueMissingFileNameMakesNoProviderCall(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, id := range storage.Providers {
		p := string(id)
		calls := map[string]func() error{
			"upload": func() error {
				_, err := f.svc.IssueUpload(ctx, p, UploadRequest{FileType: "image/png"})
				return err
			},
			"download": func() error {
				_, err := f.svc.IssueDownload(ctx, p, "")
				return err
			},
			"delete": func() error {
				_, err := f.svc.IssueDelete(ctx, p, "  ")
				return err
			},
		}
		for op, call := range calls {
			err := call()
			require.Error(t, err, "%s %s", p, op)
			assert.Equal(t, apperr.KindClientInput, apperr.KindOf(err), "%s %s", p, op)
		}
		assert.Zero(t, f.fakes[id].TotalCalls())
	}
}

func TestIssueUploadRejectsBeforeSigning(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name string
		req  UploadRequest
	}{
		{"missing type", UploadRequest{FileName: "cat.jpg"}},
		{"disallowed type", UploadRequest{FileName: "page.html", FileType: "text/html"}},
		{"pdf", UploadRequest{FileName: "doc.pdf", FileType: "application/pdf"}},
		{"oversized", UploadRequest{FileName: "big.png", FileType: "image/png", FileSize: size(10*1024*1024 + 1)}},
		{"negative size", UploadRequest{FileName: "neg.png", FileType: "image/png", FileSize: size(-5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.IssueUpload(ctx, "s3", tt.req)
			require.Error(t, err)
			assert.Equal(t, apperr.KindClientInput, apperr.KindOf(err))
		})
	}
	assert.Zero(t, f.fakes[storage.ProviderS3].TotalCalls())
}

func TestIssueUploadAcceptsLimitSize(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.IssueUpload(context.Background(), "minio", UploadRequest{
		FileName: "exact.png",
		FileType: "image/png",
		FileSize: size(10 * 1024 * 1024),
	})
	assert.NoError(t, err)
}

func TestIssueTwiceGivesIndependentGrants(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	fake := f.fakes[storage.ProviderGCS]
	fake.AddObject("photo.png", []byte("data"), "image/png", time.Now())

	first, err := f.svc.IssueDownload(ctx, "gcs", "photo.png")
	require.NoError(t, err)
	second, err := f.svc.IssueDownload(ctx, "gcs", "photo.png")
	require.NoError(t, err)

	assert.NotEqual(t, first.URL, second.URL)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.ObjectKey, second.ObjectKey)

	// redeeming one does not invalidate the other, in either order
	require.NoError(t, fake.Redeem(second.URL, nil))
	require.NoError(t, fake.Redeem(first.URL, nil))
	require.NoError(t, fake.Redeem(second.URL, nil))
}

func TestIssueUploadKeys(t *testing.T) {
	ctx := context.Background()

	t.Run("DifferentMilliseconds", func(t *testing.T) {
		tick := time.UnixMilli(1760702400000)
		f := newFixture(t, WithClock(func() time.Time {
			tick = tick.Add(time.Millisecond)
			return tick
		}))

		a, err := f.svc.IssueUpload(ctx, "s3", UploadRequest{FileName: "photo.png", FileType: "image/png"})
		require.NoError(t, err)
		b, err := f.svc.IssueUpload(ctx, "s3", UploadRequest{FileName: "photo.png", FileType: "image/png"})
		require.NoError(t, err)

		assert.NotEqual(t, a.ObjectKey, b.ObjectKey)
		assert.Regexp(t, `-photo\.png$`, a.ObjectKey)
	})

	// Known weakness: uniqueness is timestamp based, so uploads of the same
	// name in the same millisecond share a key.
	t.Run("SameMillisecondCollides", func(t *testing.T) {
		frozen := time.UnixMilli(1760702400000)
		f := newFixture(t, WithClock(func() time.Time { return frozen }))

		a, err := f.svc.IssueUpload(ctx, "s3", UploadRequest{FileName: "photo.png", FileType: "image/png"})
		require.NoError(t, err)
		b, err := f.svc.IssueUpload(ctx, "s3", UploadRequest{FileName: "photo.png", FileType: "image/png"})
		require.NoError(t, err)

		assert.Equal(t, "1760702400000-photo.png", a.ObjectKey)
		assert.Equal(t, a.ObjectKey, b.ObjectKey)
		assert.NotEqual(t, a.URL, b.URL)
	})
}

func TestIssueWithUnconfiguredProvider(t *testing.T) {
	ctx := context.Background()
	fake := storagetest.New()
	client := storage.NewClient(ctx, storage.ProviderMinio, func(string) (string, bool) {
		return "", false
	}, func(context.Context, storage.ProviderConfig) (storage.Adapter, error) {
		return fake, nil
	})
	svc := NewService(storage.NewRegistry(client), zap.NewNop())

	_, err := svc.IssueUpload(ctx, "minio", UploadRequest{FileName: "cat.jpg", FileType: "image/jpeg"})
	assert.Equal(t, apperr.KindConfiguration, apperr.KindOf(err))

	_, err = svc.IssueDownload(ctx, "minio", "cat.jpg")
	assert.Equal(t, apperr.KindConfiguration, apperr.KindOf(err))

	_, err = svc.IssueDelete(ctx, "minio", "cat.jpg")
	assert.Equal(t, apperr.KindConfiguration, apperr.KindOf(err))

	assert.Zero(t, fake.TotalCalls())
}

func TestIssueUploadEndToEnd(t *testing.T) {
	f := newFixture(t)

	grant, err := f.svc.IssueUpload(context.Background(), "s3", UploadRequest{
		FileName: "cat.jpg",
		FileType: "image/jpeg",
		FileSize: size(1048576),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, grant.URL)
	assert.Regexp(t, regexp.MustCompile(`^\d{13}-cat\.jpg$`), grant.ObjectKey)
	assert.Equal(t, 3600, grant.ExpiresInSeconds())

	require.NoError(t, f.fakes[storage.ProviderS3].Redeem(grant.URL, []byte("jpeg bytes")))
	assert.True(t, f.fakes[storage.ProviderS3].Has(grant.ObjectKey))
}

func TestIssueDeleteMissingObject(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.IssueDelete(context.Background(), "s3", "missing.png")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	fake := f.fakes[storage.ProviderS3]
	assert.Equal(t, 1, fake.Calls("Exists"))
	assert.Zero(t, fake.Calls("Sign"))
}

func TestIssueProviderFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	fake := f.fakes[storage.ProviderMinio]

	fake.SignErr = errors.New("RequestTimeTooSkewed")
	_, err := f.svc.IssueDownload(ctx, "minio", "a.png")
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindProvider, appErr.Kind)
	assert.Equal(t, "RequestTimeTooSkewed", appErr.Details())
	assert.Equal(t, 1, fake.Calls("Sign"), "no retry")

	fake.ExistsErr = errors.New("access denied")
	_, err = f.svc.IssueDelete(ctx, "minio", "a.png")
	assert.Equal(t, apperr.KindProvider, apperr.KindOf(err))
	assert.Equal(t, 1, fake.Calls("Sign"))

	assert.Equal(t, 1, f.logs.FilterMessage("presign failed").Len())
	assert.Equal(t, 1, f.logs.FilterMessage("existence check failed").Len())
}

func TestIssueUnknownProvider(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.IssueDownload(context.Background(), "azure", "a.png")
	assert.Equal(t, apperr.KindClientInput, apperr.KindOf(err))
}

func TestIssueLogsAuditLine(t *testing.T) {
	f := newFixture(t)

	grant, err := f.svc.IssueUpload(context.Background(), "gcs", UploadRequest{
		FileName: "dog.png",
		FileType: "image/png",
	})
	require.NoError(t, err)

	entries := f.logs.FilterMessage("presigned url issued").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, grant.ID, fields["grant_id"])
	assert.Equal(t, "gcs", fields["provider"])
	assert.Equal(t, "upload", fields["operation"])
	assert.Equal(t, grant.ObjectKey, fields["key"])
	assert.EqualValues(t, 3600, fields["expires_in"])
}

func TestRecordCompletion(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	f := newFixture(t, WithClock(func() time.Time { return now }))

	ack, err := f.svc.RecordCompletion(context.Background(), "s3", Notice{
		FileName:   "1760702400000-cat.jpg",
		FileSize:   size(1048576),
		UploadTime: "2026-10-17T09:29:58Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "1760702400000-cat.jpg", ack.FileName)
	assert.Equal(t, now, ack.RecordedAt)
	assert.NotEmpty(t, ack.Message)

	entries := f.logs.FilterMessage("upload completed").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 1048576, entries[0].ContextMap()["size"])
	assert.Zero(t, f.fakes[storage.ProviderS3].TotalCalls())

	_, err = f.svc.RecordCompletion(context.Background(), "s3", Notice{})
	assert.Equal(t, apperr.KindClientInput, apperr.KindOf(err))
}
