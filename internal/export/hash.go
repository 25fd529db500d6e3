package export

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sensai-ai/hubkit/internal/export/types"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/crypto/argon2"
	"golang.org/x/text/cases"
)

var (
	ErrUnknownHashType = errors.New("unknown hash type")
	ErrMissingSalt     = errors.New("a salt is required to pseudonymize authors")
)

// HashType represents the different hashing algorithms available.
type HashType string

const (
	// HashTypeArgon2id uses the Argon2id algorithm for hashing.
	HashTypeArgon2id HashType = "argon2id"
	// HashTypeSHA256 uses the SHA256 algorithm for hashing.
	HashTypeSHA256 HashType = "sha256"
)

// HashOptions configures author pseudonymization.
type HashOptions struct {
	Salt        string
	Type        HashType
	Iterations  uint32
	Memory      uint32 // MiB, argon2id only
	Concurrency int
}

// Validate fills defaults and rejects unusable options.
func (o *HashOptions) Validate() error {
	if o.Salt == "" {
		return ErrMissingSalt
	}

	if o.Type == "" {
		o.Type = HashTypeSHA256
	}

	if o.Type != HashTypeSHA256 && o.Type != HashTypeArgon2id {
		return fmt.Errorf("%w: %s", ErrUnknownHashType, o.Type)
	}

	o.Iterations = max(o.Iterations, 1)
	o.Memory = max(o.Memory, 1)
	o.Concurrency = max(o.Concurrency, 1)
	return nil
}

// HashAuthor converts an author identity to a hash using the specified
// algorithm and salt. Identities are case-folded first so the same address
// always maps to the same pseudonym.
func HashAuthor(author, salt string, hashType HashType, iterations, memory uint32) string {
	input := []byte(cases.Fold().String(strings.TrimSpace(author)))

	var hash []byte

	switch hashType {
	case HashTypeArgon2id:
		hash = argon2.IDKey(input, []byte(salt), iterations, memory*1024, 1, 32)
	case HashTypeSHA256:
		// Iterative SHA256 hashing with salt
		hash = []byte(salt)

		h := sha256.New()
		for range iterations {
			h.Reset()
			h.Write(input)
			h.Write(hash)
			hash = h.Sum(nil)
		}
	}

	return hex.EncodeToString(hash)
}

// Pseudonymize replaces every author in the archive with its hash. Each
// distinct author is hashed once.
func Pseudonymize(ctx context.Context, archive *types.Archive, opts HashOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	var distinct []string

	seen := make(map[string]bool)
	for _, post := range archive.Posts {
		if !seen[post.Author] {
			seen[post.Author] = true
			distinct = append(distinct, post.Author)
		}
	}

	for _, comment := range archive.Comments {
		if !seen[comment.Author] {
			seen[comment.Author] = true
			distinct = append(distinct, comment.Author)
		}
	}

	var mu sync.Mutex

	hashed := make(map[string]string, len(distinct))

	p := pool.New().WithContext(ctx).WithMaxGoroutines(opts.Concurrency)
	for _, author := range distinct {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}

			hash := HashAuthor(author, opts.Salt, opts.Type, opts.Iterations, opts.Memory)

			mu.Lock()
			hashed[author] = hash
			mu.Unlock()
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return err
	}

	for _, post := range archive.Posts {
		post.Author = hashed[post.Author]
	}

	for _, comment := range archive.Comments {
		comment.Author = hashed[comment.Author]
	}

	return nil
}
