package stack

import (
	"github.com/wfstgo/wfst/combinator"
	"github.com/wfstgo/wfst/topology"
)

func opCompose(e *Engine, _ string) error {
	g, err := e.pop()
	if err != nil {
		return err
	}
	f, err := e.pop()
	if err != nil {
		return err
	}
	out, err := combinator.Compose(e.ctx, f, g, topology.SumSilentCycles)
	if err != nil {
		return err
	}
	e.push(out)

	return nil
}

func opConcatenate(e *Engine, _ string) error {
	r, err := e.pop()
	if err != nil {
		return err
	}
	l, err := e.pop()
	if err != nil {
		return err
	}
	e.push(combinator.Concatenate(e.ctx, l, r))

	return nil
}

func opIntersect(e *Engine, _ string) error {
	g, err := e.pop()
	if err != nil {
		return err
	}
	f, err := e.pop()
	if err != nil {
		return err
	}
	out, err := combinator.Intersect(e.ctx, f, g, topology.SumSilentCycles)
	if err != nil {
		return err
	}
	e.push(out)

	return nil
}

func opUnion(e *Engine, _ string) error {
	b, err := e.pop()
	if err != nil {
		return err
	}
	a, err := e.pop()
	if err != nil {
		return err
	}
	half := e.ctx.Double(0.5)
	e.push(combinator.TakeUnion(e.ctx, a, b, half, half))

	return nil
}

func opLoop(e *Engine, _ string) error {
	l, err := e.pop()
	if err != nil {
		return err
	}
	m, err := e.pop()
	if err != nil {
		return err
	}
	e.push(combinator.KleeneLoop(e.ctx, m, l))

	return nil
}
