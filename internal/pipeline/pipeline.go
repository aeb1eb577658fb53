// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"grnafinder/internal/candidate"
	"grnafinder/internal/casoffinder"
	"grnafinder/internal/classify"
	"grnafinder/internal/config"
	"grnafinder/internal/dna"
	"grnafinder/internal/fasta"
)

// ErrNoPamFound means candidate generation ran over the whole target
// without finding a single PAM-adjacent window. Reported distinctly from a
// run whose candidates were all filtered out.
var ErrNoPamFound = errors.New("no PAM-adjacent candidates found in target")

// Intermediate file names used when the caller asks to keep them.
const (
	requestFileName = "cas-offinder_input.txt"
	outputFileName  = "cas-offinder_output.txt"
)

// Result is the outcome of one run. Verdicts are in candidate input order.
type Result struct {
	RunID      string
	Candidates int
	Hits       int
	Kept       int
	OnTargets  int
	Verdicts   []classify.Verdict
}

// Run executes the full batch: load targets, generate candidates, call the
// external search once, classify every hit, and judge every candidate.
// Any taxonomy error aborts before a single verdict is produced, so no
// partial (falsely reassuring) report can be written from a failed scan.
func Run(ctx context.Context, targetPath string, cfg config.Config, log *zap.Logger) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	log = log.With(zap.String("run_id", res.RunID))

	records, err := fasta.ReadTargetsPath(targetPath)
	if err != nil {
		return res, err
	}

	cands, err := generate(records, cfg.Guide.Length, log)
	if err != nil {
		return res, err
	}
	if len(cands) == 0 {
		return res, fmt.Errorf("%w (guide length %d)", ErrNoPamFound, cfg.Guide.Length)
	}
	res.Candidates = len(cands)
	log.Info("candidates generated", zap.Int("count", len(cands)))

	hits, err := search(ctx, cfg, cands, log)
	if err != nil {
		return res, err
	}
	res.Hits = len(hits)
	log.Info("off-target sites parsed", zap.Int("hits", len(hits)))

	verdicts, err := judgeAll(ctx, cands, hits, cfg, log)
	if err != nil {
		return res, err
	}
	res.Verdicts = verdicts
	for _, v := range verdicts {
		if v.Kept {
			res.Kept++
		}
		res.OnTargets += v.OnTargets
	}

	switch {
	case res.Kept == 0:
		// Valid empty result, distinct from NoPamFound.
		log.Warn("all candidates rejected by stringency filter",
			zap.Int("candidates", res.Candidates),
			zap.String("stringency", cfg.Guide.Stringency))
	default:
		log.Info("filtering complete",
			zap.Int("kept", res.Kept),
			zap.Int("rejected", res.Candidates-res.Kept),
			zap.Int("on_target_hits", res.OnTargets))
	}
	return res, nil
}

// generate emits candidates per record, assigning ids g1..gN in input
// order. Records too short for a single window are skipped with a warning
// as long as at least one record is usable.
func generate(records []fasta.Record, length int, log *zap.Logger) ([]candidate.Candidate, error) {
	var (
		out      []candidate.Candidate
		shortErr error
		usable   int
	)
	for _, rec := range records {
		norm, err := dna.Validate(string(rec.Seq))
		if err != nil {
			return nil, fmt.Errorf("target %q: %w", rec.ID, err)
		}
		rec.Seq = []byte(norm)
		cands, err := candidate.Generate(rec, length)
		if err != nil {
			if errors.Is(err, candidate.ErrInsufficientSequenceLength) && len(records) > 1 {
				log.Warn("skipping short target record", zap.String("record", rec.ID), zap.Error(err))
				shortErr = err
				continue
			}
			return nil, err
		}
		usable++
		out = append(out, cands...)
	}
	if usable == 0 {
		return nil, shortErr
	}
	for i := range out {
		out[i].ID = fmt.Sprintf("g%d", i+1)
	}
	return out, nil
}

// search serializes the request, invokes the engine once, and parses its
// output. Intermediate files live in a throwaway temp dir unless KeepTemp
// pins them to the working directory.
func search(ctx context.Context, cfg config.Config, cands []candidate.Candidate, log *zap.Logger) ([]casoffinder.Hit, error) {
	dir := "."
	if !cfg.Search.KeepTemp {
		tmp, err := os.MkdirTemp("", "grnafinder-*")
		if err != nil {
			return nil, err
		}
		defer func() { _ = os.RemoveAll(tmp) }()
		dir = tmp
	}
	requestPath := filepath.Join(dir, requestFileName)
	outputPath := filepath.Join(dir, outputFileName)

	fh, err := os.Create(requestPath)
	if err != nil {
		return nil, err
	}
	req := casoffinder.Request{
		GenomePath:  cfg.Search.Genome,
		GuideLength: cfg.Guide.Length,
		Mismatches:  cfg.Search.Mismatches,
		Bulge:       cfg.Search.Bulge,
	}
	if err := casoffinder.WriteRequest(fh, req, cands); err != nil {
		_ = fh.Close()
		return nil, err
	}
	if err := fh.Close(); err != nil {
		return nil, err
	}

	runner := casoffinder.Runner{Path: cfg.Search.CasOffinder, Device: cfg.Search.Device, Log: log}
	if err := runner.Search(ctx, requestPath, outputPath); err != nil {
		return nil, err
	}

	out, err := os.Open(outputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", casoffinder.ErrExternalSearchFailure, err)
	}
	defer func() { _ = out.Close() }()

	byID := make(map[string]candidate.Candidate, len(cands))
	for _, c := range cands {
		byID[c.ID] = c
	}
	hits, err := casoffinder.ParseHits(out, byID)
	if err != nil {
		return nil, err
	}
	if cfg.Search.KeepTemp {
		log.Info("intermediate files retained",
			zap.String("request", requestPath), zap.String("output", outputPath))
	}
	return hits, nil
}

// judgeAll scores candidates concurrently. Verdicts land at their
// candidate's index, so input order is preserved for reproducible output.
func judgeAll(ctx context.Context, cands []candidate.Candidate, hits []casoffinder.Hit, cfg config.Config, log *zap.Logger) ([]classify.Verdict, error) {
	groups := casoffinder.GroupByCandidate(hits)
	level := cfg.Stringency()

	g, _ := errgroup.WithContext(ctx)
	if cfg.Search.Threads > 0 {
		g.SetLimit(cfg.Search.Threads)
	}
	verdicts := make([]classify.Verdict, len(cands))
	for i, c := range cands {
		i, c := i, c
		g.Go(func() error {
			v, err := classify.Judge(c, groups[c.ID], level)
			if err != nil {
				return fmt.Errorf("candidate %s: %w", c.ID, err)
			}
			verdicts[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Debug("verdicts computed", zap.Int("candidates", len(cands)), zap.String("stringency", string(level)))
	return verdicts, nil
}
