package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeS3 answers the subset of the S3 REST API used by the driver.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]fakeObject
}

type fakeObject struct {
	body        []byte
	contentType string
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	if req.Method == http.MethodGet && req.URL.Query().Get("list-type") == "2" {
		prefix := req.URL.Query().Get("prefix")
		var keys []string
		for k := range f.objects {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><ListBucketResult><IsTruncated>false</IsTruncated>`)
		for _, k := range keys {
			fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>%d</Size><LastModified>2026-01-01T00:00:00Z</LastModified></Contents>", k, len(f.objects[k].body))
		}
		b.WriteString("</ListBucketResult>")
		return respond(req, http.StatusOK, []byte(b.String()), http.Header{"Content-Type": {"application/xml"}}), nil
	}

	switch req.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		f.objects[key] = fakeObject{body: body, contentType: req.Header.Get("Content-Type")}
		return respond(req, http.StatusOK, nil, http.Header{"Etag": {`"etag-1"`}}), nil
	case http.MethodGet, http.MethodHead:
		obj, ok := f.objects[key]
		if !ok {
			body := []byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			if req.Method == http.MethodHead {
				body = nil
			}
			return respond(req, http.StatusNotFound, body, http.Header{"Content-Type": {"application/xml"}}), nil
		}
		header := http.Header{
			"Content-Length": {fmt.Sprint(len(obj.body))},
			"Content-Type":   {obj.contentType},
			"Etag":           {`"etag-1"`},
			"Last-Modified":  {time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Format(http.TimeFormat)},
		}
		body := obj.body
		if req.Method == http.MethodHead {
			body = nil
		}
		return respond(req, http.StatusOK, body, header), nil
	case http.MethodDelete:
		delete(f.objects, key)
		return respond(req, http.StatusNoContent, nil, http.Header{}), nil
	}
	return respond(req, http.StatusNotImplemented, nil, http.Header{}), nil
}

func respond(req *http.Request, status int, body []byte, header http.Header) *http.Response {
	return &http.Response{
		StatusCode:    status,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}

func newFakeS3Store(t *testing.T, prefix string) (*S3, *fakeS3) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	fake := &fakeS3{objects: make(map[string]fakeObject)}
	store, err := NewS3(context.Background(), S3Config{
		Bucket:          "edits",
		Region:          "us-east-1",
		Endpoint:        "http://s3.test.local",
		Prefix:          prefix,
		PathStyle:       true,
		AccessKeyID:     "AKIDTEST",
		SecretAccessKey: "secret",
		HTTPClient:      &http.Client{Transport: fake},
	})
	if err != nil {
		t.Fatalf("NewS3: %v", err)
	}
	return store, fake
}

func TestS3Store(t *testing.T) {
	store, _ := newFakeS3Store(t, "")
	if store.Driver() != DriverS3 {
		t.Fatalf("unexpected driver %q", store.Driver())
	}
	exerciseStore(t, store)
}

func TestS3StorePrefixesKeys(t *testing.T) {
	store, fake := newFakeS3Store(t, "/team/")
	ctx := context.Background()
	if _, err := store.Put(ctx, "demo.json", strings.NewReader("{}"), PutOptions{}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok := fake.objects["team/demo.json"]; !ok {
		t.Fatalf("expected prefixed object, have %v", fake.objects)
	}
	infos, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 1 || infos[0].Key != "demo.json" {
		t.Fatalf("unexpected listing: %+v", infos)
	}
}

func TestS3RequiresBucket(t *testing.T) {
	if _, err := NewS3(context.Background(), S3Config{}); err == nil {
		t.Fatal("expected error without bucket")
	}
}
