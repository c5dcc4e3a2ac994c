package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rendis/firmap/internal/engine/topology"
)

var log = logrus.WithField("module", "loader")

// Resource is one of the static topology documents.
type Resource string

const (
	World Resource = "/world.json"
	FIRs  Resource = "/worldfirs.json"
)

// Resources lists the documents a map needs.
var Resources = []Resource{World, FIRs}

const zstdExt = ".zst"

// Loader fetches topology documents from a base that is either an http(s)
// URL or a local directory.
type Loader struct {
	base   string
	client *http.Client
}

// New returns a loader for base. client may be nil for local directories.
func New(base string, client *http.Client) *Loader {
	if client == nil {
		client = NewClient(ClientOptions{})
	}
	return &Loader{base: base, client: client}
}

// Remote reports whether the base is an http(s) URL.
func (l *Loader) Remote() bool {
	return strings.HasPrefix(l.base, "http://") || strings.HasPrefix(l.base, "https://")
}

// Location resolves a resource against the base.
func (l *Loader) Location(r Resource) string {
	if l.Remote() {
		return strings.TrimRight(l.base, "/") + string(r)
	}
	return filepath.Join(l.base, filepath.FromSlash(strings.TrimPrefix(string(r), "/")))
}

// Fetch loads and decodes one resource. It issues a single request and
// never retries. A done ctx aborts the fetch with ctx's error.
func (l *Loader) Fetch(ctx context.Context, r Resource) (*topology.Topology, error) {
	loc := l.Location(r)

	var (
		rc  io.ReadCloser
		err error
	)
	if l.Remote() {
		rc, err = l.get(ctx, loc)
	} else {
		rc, err = l.open(ctx, loc)
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	topo, err := topology.Decode(rc)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%s: %w", loc, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{"resource": string(r), "arcs": topo.ArcCount()}).Debug("topology loaded")
	return topo, nil
}

// FetchAll loads the world and FIR documents concurrently.
func (l *Loader) FetchAll(ctx context.Context) (world, firs *topology.Topology, err error) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		world, err = l.Fetch(ctx, World)
		return err
	})
	g.Go(func() error {
		var err error
		firs, err = l.Fetch(ctx, FIRs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return world, firs, nil
}

func (l *Loader) get(ctx context.Context, loc string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "zstd, identity")

	resp, err := l.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("GET %s: %w", loc, err)
	}
	if resp.StatusCode != http.StatusOK {
		// drain for connection reuse; the status is the error either way
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, &StatusError{URL: loc, StatusCode: resp.StatusCode}
	}

	if resp.Header.Get("Content-Encoding") == "zstd" || strings.HasSuffix(loc, zstdExt) {
		return decompress(resp.Body)
	}
	return resp.Body, nil
}

// open reads a local document, falling back to its .zst sibling.
func (l *Loader) open(ctx context.Context, loc string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(loc)
	if errors.Is(err, os.ErrNotExist) && !strings.HasSuffix(loc, zstdExt) {
		f, err = os.Open(loc + zstdExt)
	}
	if err != nil {
		return nil, fmt.Errorf("opening topology: %w", err)
	}

	if strings.HasSuffix(f.Name(), zstdExt) {
		return decompress(f)
	}
	return f, nil
}

func decompress(rc io.ReadCloser) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(rc, zstd.WithDecoderConcurrency(0))
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("zstd: %w", err)
	}
	return &zstdReadCloser{dec: dec, src: rc}, nil
}

type zstdReadCloser struct {
	dec *zstd.Decoder
	src io.Closer
}

func (z *zstdReadCloser) Read(p []byte) (int, error) { return z.dec.Read(p) }

func (z *zstdReadCloser) Close() error {
	z.dec.Close()
	return z.src.Close()
}
