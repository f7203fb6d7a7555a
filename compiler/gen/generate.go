package gen

import (
	"context"
	"fmt"
	"go/token"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/oneshot/compiler/scan"
)

// Generator drives generation rounds: scan, group, and per-group
// validate/resolve/synthesize/write with group-level error isolation.
// A Generator holds no state across rounds beyond the writer's dependency
// manifest; every round recomputes groups from the current snapshot.
type Generator struct {
	cfg    *Config
	writer *Writer
}

// NewGenerator creates a generator for the given config.
func NewGenerator(cfg *Config) *Generator {
	return &Generator{
		cfg:    cfg,
		writer: NewWriter(cfg.Target),
	}
}

// Writer exposes the artifact writer, mainly for watch mode and metrics.
func (g *Generator) Writer() *Writer {
	return g.writer
}

// Generate runs up to Config.Rounds scan-and-generate passes. A round
// processes every owner group independently; one group's failure becomes
// a diagnostic, never an abort. Deferred symbols trigger another round,
// since artifacts written this round may resolve them; rounds stop early
// when nothing is deferred or a round makes no progress. Only a scanner
// failure, which happens before any group exists to isolate, is returned
// as an error.
func (g *Generator) Generate(ctx context.Context) error {
	sink := g.cfg.Sink
	var remaining []*scan.Field
	prev := -1
	for round := 1; round <= g.cfg.Rounds; round++ {
		res, err := scan.Load(ctx, g.cfg.Dir, g.cfg.Patterns...)
		if err != nil {
			return NewScanError(g.cfg.Patterns, err)
		}
		reportf(sink, Info, token.Position{},
			"round %d: %d marked fields, %d deferred", round, len(res.Valid), len(res.Deferred))
		if err := g.processRound(ctx, res.Valid); err != nil {
			return err
		}
		remaining = res.Deferred
		if len(remaining) == 0 {
			break
		}
		if prev >= 0 && len(remaining) >= prev {
			// No progress; more rounds cannot help.
			break
		}
		prev = len(remaining)
	}
	for _, f := range remaining {
		reportf(sink, Info, f.Pos,
			"symbol %s still deferred: type information unavailable", f.Name)
	}
	return g.writer.Flush()
}

func (g *Generator) processRound(ctx context.Context, valid []*scan.Field) error {
	ready := g.resolveRound(BuildGroups(valid))
	errg, _ := errgroup.WithContext(ctx)
	errg.SetLimit(g.cfg.Workers)
	for _, rg := range ready {
		rg := rg
		errg.Go(func() error {
			g.emitGroup(rg)
			return nil
		})
	}
	return errg.Wait()
}

// resolvedGroup is a group that passed validation and configuration
// resolution and claimed its generated names; only these are synthesized.
type resolvedGroup struct {
	group *Group
	cfgs  []*FieldConfig
}

// resolveRound validates every group and resolves its field configs,
// sequentially and in deterministic group order. All groups emit into one
// generated package, so top-level names and artifact files must be unique
// across groups, not just within one: each group claims its names here and
// a claim held by an earlier group rejects the later one with an error
// diagnostic. The earlier declaration always wins, so reruns reject the
// same group.
func (g *Generator) resolveRound(groups []*Group) []*resolvedGroup {
	taken := make(map[string]string)
	ready := make([]*resolvedGroup, 0, len(groups))
	for _, grp := range groups {
		if rg := g.resolveGroup(taken, grp); rg != nil {
			ready = append(ready, rg)
		}
	}
	return ready
}

func (g *Generator) resolveGroup(taken map[string]string, grp *Group) *resolvedGroup {
	sink := g.cfg.Sink
	defer func() {
		if v := recover(); v != nil {
			reportf(sink, Internal, grp.Owner.Pos,
				"resolving %s panicked: %v", grp.Key(), v)
		}
	}()
	if err := Validate(grp); err != nil {
		reportf(sink, Error, errPos(grp, err), "%v", err)
		return nil
	}
	cfgs, err := ResolveConfigs(grp, sink)
	if err != nil {
		reportf(sink, Error, errPos(grp, err), "%v", err)
		return nil
	}
	if err := claimNames(taken, grp, cfgs); err != nil {
		reportf(sink, Error, errPos(grp, err), "%v", err)
		return nil
	}
	return &resolvedGroup{group: grp, cfgs: cfgs}
}

// claimNames registers the group's generated top-level identifiers and
// artifact file names. A name already claimed by another group would be a
// duplicate declaration (or an overwritten file) in the generated package.
func claimNames(taken map[string]string, grp *Group, cfgs []*FieldConfig) error {
	claim := func(name, field string) error {
		if other, ok := taken[name]; ok {
			return NewOwnerError(grp.Owner.Name, field,
				"generated name "+name+" collides with one generated for "+other)
		}
		taken[name] = grp.Key()
		return nil
	}
	if err := claim(dispatcherName(grp), ""); err != nil {
		return err
	}
	for _, a := range artifactNames(grp) {
		if err := claim(a, ""); err != nil {
			return err
		}
	}
	for _, cfg := range cfgs {
		if err := claim(cfg.ConsumeName, cfg.Field.Name); err != nil {
			return err
		}
	}
	return nil
}

// emitGroup synthesizes and writes one resolved group, converting every
// failure into a diagnostic. A panic during synthesis is recovered here so
// a defective group cannot take down its siblings.
func (g *Generator) emitGroup(rg *resolvedGroup) {
	grp, sink := rg.group, g.cfg.Sink
	defer func() {
		if v := recover(); v != nil {
			reportf(sink, Internal, grp.Owner.Pos,
				"processing %s panicked: %v", grp.Key(), v)
		}
	}()
	artifacts, err := Synthesize(g.cfg, grp, rg.cfgs)
	if err != nil {
		reportf(sink, Internal, grp.Owner.Pos, "%v", err)
		return
	}
	written := 0
	for _, a := range artifacts {
		ok, err := g.writer.Write(a)
		if err != nil {
			reportf(sink, Error, grp.Owner.Pos, "%s: %v", grp.Key(), err)
			return
		}
		if ok {
			written++
		}
	}
	reportf(sink, Info, token.Position{},
		"%s: %d artifact(s), %d written", grp.Key(), len(artifacts), written)
}

// errPos attaches an owner error to the offending field declaration when
// it names one, and to the owner declaration otherwise.
func errPos(grp *Group, err error) token.Position {
	if oe, ok := err.(*OwnerError); ok && oe.Field != "" {
		for _, f := range grp.Fields {
			if f.Name == oe.Field {
				return f.Pos
			}
		}
	}
	return grp.Owner.Pos
}

// Generate is a convenience wrapper: build a config from options, run one
// generation pass, and return collected error diagnostics as one error.
func Generate(ctx context.Context, opts ...Option) error {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return err
	}
	if err := NewGenerator(cfg).Generate(ctx); err != nil {
		return err
	}
	if c, ok := cfg.Sink.(*Collector); ok {
		if errs := c.Errors(); len(errs) > 0 {
			return NewGenerationError("", "", fmt.Sprintf("%d group(s) failed; see diagnostics", len(errs)), nil)
		}
	}
	return nil
}
