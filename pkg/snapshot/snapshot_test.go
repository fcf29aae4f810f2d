package snapshot

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/retain/internal/config"
	"github.com/vango-dev/retain/internal/errors"
)

func TestDiskStoreRoundTrip(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	key, err := store.Save(ctx, Snapshot{Name: "demo app", HTML: "<p>x</p>", Seq: 7, TakenAt: at})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(key, "demoapp-20260102T030405Z-") {
		t.Errorf("key = %q", key)
	}

	got, err := store.Load(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if got.HTML != "<p>x</p>" || got.Seq != 7 || !got.TakenAt.Equal(at) || got.Name != "demo app" {
		t.Errorf("Load() = %+v", got)
	}

	for _, bad := range []string{"missing", "../etc/passwd"} {
		if _, err := store.Load(ctx, bad); !stderrors.Is(err, ErrNotFound) {
			t.Errorf("Load(%q) err = %v, want ErrNotFound", bad, err)
		}
	}
}

type fakeS3 struct {
	objects map[string][]byte
	meta    map[string]map[string]string
	lastPut *s3.PutObjectInput
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, meta: map[string]map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = body
	f.meta[key] = in.Metadata
	f.lastPut = in
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	body, ok := f.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:     io.NopCloser(bytes.NewReader(body)),
		Metadata: f.meta[key],
	}, nil
}

func TestS3StoreRoundTrip(t *testing.T) {
	fake := newFakeS3()
	store := NewS3Store(fake, "snaps", "retain/")
	ctx := context.Background()

	key, err := store.Save(ctx, Snapshot{Name: "demo", HTML: "<b>1</b>", Seq: 3})
	if err != nil {
		t.Fatal(err)
	}
	put := fake.lastPut
	if aws.ToString(put.Key) != "retain/"+key+".html" || aws.ToString(put.Bucket) != "snaps" {
		t.Errorf("put bucket/key = %s/%s", aws.ToString(put.Bucket), aws.ToString(put.Key))
	}
	if aws.ToString(put.ContentType) != "text/html; charset=utf-8" {
		t.Errorf("content type = %s", aws.ToString(put.ContentType))
	}

	got, err := store.Load(ctx, key)
	if err != nil {
		t.Fatal(err)
	}
	if got.HTML != "<b>1</b>" || got.Seq != 3 || got.Name != "demo" || got.TakenAt.IsZero() {
		t.Errorf("Load() = %+v", got)
	}

	if _, err := store.Load(ctx, "nope"); !stderrors.Is(err, ErrNotFound) {
		t.Errorf("missing key err = %v", err)
	}
}

func TestFromConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.SnapshotConfig
		want string
	}{
		{"disk", config.SnapshotConfig{Dir: t.TempDir()}, "*snapshot.DiskStore"},
		{"s3 wins", config.SnapshotConfig{Dir: t.TempDir(), Bucket: "b", Region: "us-east-1"}, "*snapshot.S3Store"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := FromConfig(tt.cfg)
			if err != nil {
				t.Fatal(err)
			}
			switch store.(type) {
			case *DiskStore:
				if tt.want != "*snapshot.DiskStore" {
					t.Errorf("got DiskStore, want %s", tt.want)
				}
			case *S3Store:
				if tt.want != "*snapshot.S3Store" {
					t.Errorf("got S3Store, want %s", tt.want)
				}
			}
		})
	}

	if _, err := FromConfig(config.SnapshotConfig{}); !errors.HasCode(err, "E220") {
		t.Errorf("empty config err = %v, want E220", err)
	}
	if _, err := FromConfig(config.SnapshotConfig{Bucket: "b"}); err == nil {
		t.Error("bucket without region should fail")
	}
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	if _, err := envCredentials(context.Background()); err == nil {
		t.Error("missing credentials should fail")
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_SESSION_TOKEN", "tok")
	creds, err := envCredentials(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if creds.AccessKeyID != "id" || creds.SecretAccessKey != "secret" || creds.SessionToken != "tok" {
		t.Errorf("creds = %+v", creds)
	}
}
