package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/adapters/storage"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = b
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func TestCleanKey(t *testing.T) {
	Convey("Given storage keys", t, func() {
		k, err := storage.CleanKey("reports/ana.html")
		So(err, ShouldBeNil)
		So(k, ShouldEqual, "reports/ana.html")
		k, err = storage.CleanKey(`a\b/../c.json`)
		So(err, ShouldBeNil)
		So(k, ShouldEqual, "a/c.json")

		for _, bad := range []string{"", "/etc/passwd", "../x", "a/../../x", "."} {
			_, err := storage.CleanKey(bad)
			So(errors.Is(err, storage.ErrInvalidKey), ShouldBeTrue)
		}
	})
}

func TestLocal(t *testing.T) {
	Convey("Given a local sink", t, func() {
		sink := storage.NewLocal(t.TempDir())
		ctx := context.Background()

		Convey("An artifact round-trips", func() {
			n, err := sink.Put(ctx, "jobs/1.html", "text/html", strings.NewReader("<p>ok</p>"))
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 9)
			rc, err := sink.Open(ctx, "jobs/1.html")
			So(err, ShouldBeNil)
			defer rc.Close()
			b, _ := io.ReadAll(rc)
			So(string(b), ShouldEqual, "<p>ok</p>")
		})

		Convey("A missing artifact is ErrNotFound", func() {
			_, err := sink.Open(ctx, "jobs/none.html")
			So(errors.Is(err, storage.ErrNotFound), ShouldBeTrue)
		})

		Convey("Escaping keys are refused", func() {
			_, err := sink.Put(ctx, "../evil", "text/plain", strings.NewReader("x"))
			So(errors.Is(err, storage.ErrInvalidKey), ShouldBeTrue)
		})
	})
}

func TestS3(t *testing.T) {
	Convey("Given an S3 sink with a prefix", t, func() {
		fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
		sink := storage.NewS3WithClient(fake, "bucket", "/reports/")
		ctx := context.Background()

		Convey("Objects are stored under the prefix", func() {
			n, err := sink.Put(ctx, "1.json", "application/json", strings.NewReader("{}"))
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)
			So(fake.objects, ShouldContainKey, "bucket/reports/1.json")
			So(fake.types["reports/1.json"], ShouldEqual, "application/json")

			rc, err := sink.Open(ctx, "1.json")
			So(err, ShouldBeNil)
			b, _ := io.ReadAll(rc)
			So(string(b), ShouldEqual, "{}")
		})

		Convey("A missing object is ErrNotFound", func() {
			_, err := sink.Open(ctx, "nope.json")
			So(errors.Is(err, storage.ErrNotFound), ShouldBeTrue)
		})
	})
}
