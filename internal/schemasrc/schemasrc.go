// Package schemasrc fetches record schema documents from a
// GitHub-hosted schema registry repository.
package schemasrc

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/go-github/v63/github"
	"github.com/natefinch/atomic"
)

// Client fetches schema documents from a GitHub repository. The zero
// value is usable, but will fail to resolve an owner/repo until both
// are set.
type Client struct {
	// Owner is the github account that owns the schema registry.
	Owner string
	// Repo is the repository holding schema documents.
	Repo string
	// Path is the repository-relative path of the schema document to
	// fetch, e.g. "schemas/orders.json".
	Path string

	client *github.Client
}

func (c *Client) apiClient() *github.Client {
	if c.client == nil {
		c.client = github.NewClient(nil)
		if token := os.Getenv("GITHUB_TOKEN"); token != "" {
			c.client = c.client.WithAuthToken(token)
		}
	}
	return c.client
}

// SchemaAtHash returns the raw schema document at the given git
// commit hash, consulting the on-disk cache first. A schema fetched
// for an immutable commit hash never changes, so once fetched it is
// cached indefinitely, keyed by owner, repo, path and hash. Any other
// ref (a branch, a tag, HEAD) can move, so it is always fetched and
// never cached.
func (c *Client) SchemaAtHash(ctx context.Context, hash string) ([]byte, error) {
	cacheKey := filepath.Join(c.Owner, c.Repo, c.Path)
	immutable := len(hash) == 40 && strings.Trim(hash, "0123456789abcdef") == ""
	if immutable {
		if cached, ok := getCachedSchema(cacheKey, hash); ok {
			return cached, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := &github.RepositoryContentGetOptions{Ref: hash}
	content, _, _, err := c.apiClient().Repositories.GetContents(ctx, c.Owner, c.Repo, c.Path, opts)
	if err != nil {
		return nil, fmt.Errorf("getting schema %q at commit %q: %w", c.Path, hash, err)
	}
	ret, err := content.GetContent()
	if err != nil {
		return nil, err
	}

	bs := []byte(ret)
	if immutable {
		putCachedSchema(cacheKey, hash, bs)
	}
	return bs, nil
}

type schemaCacheEntry struct {
	Content []byte
}

func getCachedSchema(repo, hash string) ([]byte, bool) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, false
	}

	cachePath := filepath.Join(cacheDir, "recordctl/schema-ref", repo, hash+".json.gz")
	bs, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, false
	}

	gr, err := gzip.NewReader(bytes.NewReader(bs))
	if err != nil {
		return nil, false
	}

	var ent schemaCacheEntry
	if err := json.NewDecoder(gr).Decode(&ent); err != nil {
		return nil, false
	}

	return ent.Content, true
}

func putCachedSchema(repo, hash string, content []byte) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return
	}
	cachePath := filepath.Join(cacheDir, "recordctl/schema-ref", repo, hash+".json.gz")
	if _, err := os.Stat(cachePath); err == nil {
		return
	}

	if err := os.MkdirAll(filepath.Dir(cachePath), 0700); err != nil {
		return
	}

	ent := schemaCacheEntry{Content: content}

	var bs bytes.Buffer
	gw := gzip.NewWriter(&bs)
	if err := json.NewEncoder(gw).Encode(ent); err != nil {
		return
	}
	if err := gw.Close(); err != nil {
		return
	}

	atomic.WriteFile(cachePath, &bs)
}
