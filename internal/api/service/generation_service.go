package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"blockgen"
	"blockgen/internal/gen"
	"blockgen/internal/gen/block"
	"blockgen/pkg"

	"github.com/rs/zerolog"
)

const emptyGraph = `{"blocks":[]}`

// GenerationService runs backends over raw graph documents and caches the
// results by graph hash.
type GenerationService struct {
	cache    Cache
	ttl      time.Duration
	defaults gen.Options
	logger   zerolog.Logger
}

func NewGenerationService() *GenerationService {
	cfg := blockgen.GetConfig().GeneratorConfig
	var cache Cache
	if blockgen.Redis != nil {
		cache = pkg.NewRedisCache(blockgen.Redis, "blockgen:gen")
	}
	return &GenerationService{
		cache: cache,
		ttl:   cfg.CacheTTL,
		defaults: gen.Options{
			CommentWrap:   cfg.CommentWrap,
			LoopTrap:      cfg.LoopTrap,
			LoopTrapLimit: cfg.LoopTrapLimit,
			Format:        cfg.Format,
		},
		logger: blockgen.Logger,
	}
}

// NewGenerationServiceWith builds a service on explicit dependencies. cache
// may be nil.
func NewGenerationServiceWith(cache Cache, defaults gen.Options, ttl time.Duration, logger zerolog.Logger) *GenerationService {
	return &GenerationService{cache: cache, ttl: ttl, defaults: defaults, logger: logger}
}

// Defaults returns the configured options a request starts from
func (slf *GenerationService) Defaults() gen.Options {
	return slf.defaults
}

func (slf *GenerationService) Backends() []string {
	return gen.DefaultRegistry.Names()
}

// Generate decodes raw and emits it with one backend. It returns the result
// and the graph hash the result is cached under.
func (slf *GenerationService) Generate(ctx context.Context, raw []byte, backend string, opts gen.Options) (*gen.Result, string, error) {
	generator, err := gen.NewGenerator(backend, opts)
	if err != nil {
		return nil, "", err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte(emptyGraph)
	}

	hash, err := GraphHash(raw, backend, opts)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidGraph, err)
	}

	if slf.cache != nil {
		var cached gen.Result
		found, err := slf.cache.Get(ctx, hash, &cached)
		if err != nil {
			slf.logger.Warn().Err(err).Str("hash", hash).Msg("Generation cache lookup failed")
		} else if found {
			slf.logger.Debug().Str("backend", backend).Str("hash", hash).Msg("Generation cache hit")
			return &cached, hash, nil
		}
	}

	graph, err := block.ParseBytes(raw)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidGraph, err)
	}

	result, err := generator.Generate(graph)
	if err != nil {
		if errors.Is(err, gen.ErrCyclicGraph) || errors.Is(err, gen.ErrSlotMismatch) || errors.Is(err, block.ErrUnknownKind) {
			return nil, "", fmt.Errorf("%w: %w", ErrInvalidGraph, err)
		}
		slf.logger.Error().Err(err).Str("backend", backend).Msg("Generation failed")
		return nil, "", err
	}

	if slf.cache != nil {
		if err := slf.cache.Set(ctx, hash, result, slf.ttl); err != nil {
			slf.logger.Warn().Err(err).Str("hash", hash).Msg("Failed to cache generation result")
		}
	}

	slf.logger.Info().
		Str("backend", backend).
		Str("passId", result.PassID).
		Int("diagnostics", len(result.Diagnostics)).
		Msg("Graph generated")
	return result, hash, nil
}

// GraphHash identifies a generation request: the compacted graph document,
// the backend and the options.
func GraphHash(raw []byte, backend string, opts gen.Options) (string, error) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return "", err
	}
	optsJSON, err := json.Marshal(opts)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	h.Write([]byte(backend))
	h.Write([]byte{0})
	h.Write(optsJSON)
	h.Write([]byte{0})
	h.Write(compact.Bytes())
	return hex.EncodeToString(h.Sum(nil)), nil
}
