// Package storagetest provides an in-memory storage.Adapter for tests.
package storagetest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/cloudrelay/uploader/internal/storage"
)

// Fake is an in-memory adapter that counts every call. Objects are listed in
// insertion order. Set the *Err fields to make the matching method fail.
type Fake struct {
	SignErr   error
	ListErr   error
	ExistsErr error
	DeleteErr error
	GetErr    error
	PutErr    error

	mu      sync.Mutex
	order   []string
	objects map[string]fakeObject
	issued  map[string]issuedURL
	calls   map[string]int
	seq     int
}

type fakeObject struct {
	body        []byte
	contentType string
	modified    time.Time
}

type issuedURL struct {
	op      storage.Operation
	key     string
	expires time.Time
}

var _ storage.Adapter = (*Fake)(nil)

// New returns an empty Fake.
func New() *Fake {
	return &Fake{
		objects: make(map[string]fakeObject),
		issued:  make(map[string]issuedURL),
		calls:   make(map[string]int),
	}
}

// AddObject stores an object without counting a call.
func (f *Fake) AddObject(key string, body []byte, contentType string, modified time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[key]; !ok {
		f.order = append(f.order, key)
	}
	f.objects[key] = fakeObject{body: body, contentType: contentType, modified: modified}
}

// Has reports whether key is stored, without counting a call.
func (f *Fake) Has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

// Calls returns how often method was invoked.
func (f *Fake) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// TotalCalls returns the number of adapter calls of any kind.
func (f *Fake) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *Fake) record(method string) {
	f.mu.Lock()
	f.calls[method]++
	f.mu.Unlock()
}

// Sign returns a unique URL and remembers what it authorizes.
func (f *Fake) Sign(_ context.Context, op storage.Operation, key, _ string, ttl time.Duration) (string, error) {
	f.record("Sign")
	if f.SignErr != nil {
		return "", f.SignErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	u := fmt.Sprintf("https://fake.storage.test/bucket/%s?op=%s&expires=%d&signature=%d",
		url.PathEscape(key), op, int(ttl.Seconds()), f.seq)
	f.issued[u] = issuedURL{op: op, key: key, expires: time.Now().Add(ttl)}
	return u, nil
}

// Redeem performs the action a signed URL authorizes, as the provider would
// when the browser uses it. Uploads store body; deletes of missing objects fail.
func (f *Fake) Redeem(rawURL string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	grant, ok := f.issued[rawURL]
	if !ok {
		return errors.New("signature does not match")
	}
	if time.Now().After(grant.expires) {
		return errors.New("request has expired")
	}

	switch grant.op {
	case storage.OpUpload:
		if _, ok := f.objects[grant.key]; !ok {
			f.order = append(f.order, grant.key)
		}
		f.objects[grant.key] = fakeObject{body: body, modified: time.Now()}
	case storage.OpDownload:
		if _, ok := f.objects[grant.key]; !ok {
			return storage.ErrNotFound
		}
	case storage.OpDelete:
		if _, ok := f.objects[grant.key]; !ok {
			return storage.ErrNotFound
		}
		f.removeLocked(grant.key)
	}
	return nil
}

// List returns the stored objects in insertion order.
func (f *Fake) List(context.Context) ([]storage.ObjectSummary, error) {
	f.record("List")
	if f.ListErr != nil {
		return nil, f.ListErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]storage.ObjectSummary, 0, len(f.order))
	for _, key := range f.order {
		obj := f.objects[key]
		out = append(out, storage.ObjectSummary{
			Name:         key,
			Size:         int64(len(obj.body)),
			LastModified: obj.modified,
		})
	}
	return out, nil
}

// Exists reports whether key is stored.
func (f *Fake) Exists(_ context.Context, key string) (bool, error) {
	f.record("Exists")
	if f.ExistsErr != nil {
		return false, f.ExistsErr
	}
	return f.Has(key), nil
}

// Delete removes key; missing keys are a no-op like S3.
func (f *Fake) Delete(_ context.Context, key string) error {
	f.record("Delete")
	if f.DeleteErr != nil {
		return f.DeleteErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeLocked(key)
	return nil
}

// Get returns a reader over the stored body.
func (f *Fake) Get(_ context.Context, key string) (*storage.Object, error) {
	f.record("Get")
	if f.GetErr != nil {
		return nil, f.GetErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("get %q: %w", key, storage.ErrNotFound)
	}
	return &storage.Object{
		Body:        io.NopCloser(bytes.NewReader(obj.body)),
		ContentType: obj.contentType,
		Size:        int64(len(obj.body)),
	}, nil
}

// Put stores the contents of r under key.
func (f *Fake) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	f.record("Put")
	if f.PutErr != nil {
		return f.PutErr
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.AddObject(key, body, contentType, time.Now())
	return nil
}

func (f *Fake) removeLocked(key string) {
	if _, ok := f.objects[key]; !ok {
		return
	}
	delete(f.objects, key)
	for i, k := range f.order {
		if k == key {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}
