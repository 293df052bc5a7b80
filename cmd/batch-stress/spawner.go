package main

import (
	"github.com/plus3/colbatch/ecs"
	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

type plan struct {
	kinds []componentKind
	seq   ecs.TypeSequence
}

// spawner pushes column batches into a storage, cycling through a fixed list
// of component sets.
type spawner struct {
	storage  *ecs.Storage
	plans    []plan
	parallel bool
	maxRows  int
}

func newSpawner(storage *ecs.Storage, cfg Config) *spawner {
	s := &spawner{
		storage:  storage,
		plans:    make([]plan, cfg.Archetypes),
		parallel: cfg.Parallel,
		maxRows:  cfg.MaxRows,
	}
	for i := range s.plans {
		builder := ecs.NewTypeSet()
		kinds := archetypeKinds(i)
		for _, kind := range kinds {
			builder.Add(kind.info)
		}
		s.plans[i] = plan{kinds: kinds, seq: builder.Finalize()}
	}
	return s
}

// spawn commits n entities into the archetype of plan i. Archetypes that would
// grow past maxRows are cleared first so memory stays bounded.
func (s *spawner) spawn(i, n int) error {
	p := s.plans[i%len(s.plans)]
	batch := ecs.NewColumnBatch(s.storage, p.seq)
	if batch.Len()+n > s.maxRows {
		batch.Archetype().Clear()
	}

	start := batch.Len()
	if err := batch.Reserve(n); err != nil {
		return eris.Wrapf(err, "reserve %d rows for %s", n, p.seq)
	}

	// Every column is its own memory region, so columns can be filled
	// concurrently as long as all writers finish before SetLen.
	var g errgroup.Group
	if !s.parallel {
		g.SetLimit(1)
	}
	for _, kind := range p.kinds {
		g.Go(func() error {
			if !kind.fill(batch, start, n) {
				return eris.Errorf("%s is not part of %s", kind.info, p.seq)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	batch.SetLen(start + n)
	return nil
}
