package main

import (
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/stealthrocket/coro"
)

type config struct {
	start    int
	count    int
	hops     int
	parallel int
}

func (c config) validate() error {
	switch {
	case c.count < 0:
		return fmt.Errorf("invalid -count: %d", c.count)
	case c.hops < 0:
		return fmt.Errorf("invalid -hops: %d", c.hops)
	case c.parallel < 1:
		return fmt.Errorf("invalid -parallel: %d", c.parallel)
	}
	return nil
}

var scenarios = map[string]func(io.Writer, config) error{
	"generator": runGenerator,
	"pingpong":  runPingPong,
	"symmetric": runSymmetric,
	"soak":      runSoak,
}

func runGenerator(w io.Writer, cfg config) error {
	numbers := coro.GeneratorFunc(func(y *coro.Yielder[int], start int) error {
		for i := 0; i < cfg.count; i++ {
			y.Yield(start + i)
		}
		return nil
	}, coro.WithName("numbers"))

	g := numbers(cfg.start)
	for v := range g.All() {
		fmt.Fprintln(w, v)
	}
	return g.Err()
}

func runPingPong(w io.Writer, cfg config) error {
	producer := coro.New(func(s *coro.Scope[struct{}, int], _ struct{}) (int, error) {
		for i := 0; i < cfg.count; i++ {
			fmt.Fprintf(w, "produced: %d\n", i)
			s.Yield(i)
		}
		return -1, nil
	}, coro.WithName("producer"))

	consumer := coro.New(func(s *coro.Scope[int, struct{}], v int) (struct{}, error) {
		fmt.Fprintf(w, "consumer started with %d\n", v)
		for i := 0; i < cfg.count; i++ {
			v = s.Yield(struct{}{})
			fmt.Fprintf(w, "consumed: %d\n", v)
		}
		return struct{}{}, nil
	}, coro.WithName("consumer"))

	defer producer.Stop()
	defer consumer.Stop()

	for producer.Active() && consumer.Active() {
		v, err := producer.Resume(struct{}{})
		if err != nil {
			return err
		}
		if _, err := consumer.Resume(v); err != nil {
			return err
		}
	}
	return nil
}

func runSymmetric(w io.Writer, _ config) error {
	g := coro.NewGroup[int]()
	var p0, p1, p2 *coro.Symmetric[int]

	p0 = g.Create(func(s *coro.SymScope[int], v int) (int, error) {
		fmt.Fprintf(w, "p0 started with %d\n", v)
		v, err := s.Transfer(p2, 0)
		if err != nil {
			return 0, err
		}
		fmt.Fprintf(w, "p0 resumed with %d\n", v)
		return s.Transfer(s.Main(), v+100)
	}, coro.WithName("p0"))

	p1 = g.Create(func(s *coro.SymScope[int], v int) (int, error) {
		fmt.Fprintf(w, "p1 started with %d\n", v)
		return s.Transfer(p0, 1)
	}, coro.WithName("p1"))

	p2 = g.Create(func(s *coro.SymScope[int], v int) (int, error) {
		fmt.Fprintf(w, "p2 started with %d\n", v)
		v, err := s.Transfer(p1, 2)
		if err != nil {
			return 0, err
		}
		fmt.Fprintf(w, "p2 resumed with %d\n", v)
		return s.Transfer(p0, 2)
	}, coro.WithName("p2"))

	defer g.Stop()

	result, err := g.Main(func(s *coro.SymScope[int], v int) (int, error) {
		fmt.Fprintf(w, "main started with %d\n", v)
		return s.Transfer(p2, 3)
	}, 0, coro.WithName("main"))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "main ended with %d\n", result)
	return nil
}

func runSoak(w io.Writer, cfg config) error {
	var eg errgroup.Group
	results := make([]int, cfg.parallel)

	for i := range results {
		eg.Go(func() (err error) {
			results[i], err = soak(cfg.hops)
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for i, r := range results {
		fmt.Fprintf(w, "group %d: %d hops\n", i, r)
	}
	return nil
}

// soak bounces a counter between two peers until it reaches hops, then hands
// it back to main.
func soak(hops int) (int, error) {
	g := coro.NewGroup[int]()
	defer g.Stop()

	var a, b *coro.Symmetric[int]

	bounce := func(other func() *coro.Symmetric[int]) func(*coro.SymScope[int], int) (int, error) {
		return func(s *coro.SymScope[int], n int) (int, error) {
			for {
				var err error
				if n >= hops {
					n, err = s.Transfer(s.Main(), n)
				} else {
					n, err = s.Transfer(other(), n+1)
				}
				if err != nil {
					return 0, err
				}
			}
		}
	}

	a = g.Create(bounce(func() *coro.Symmetric[int] { return b }), coro.WithName("a"))
	b = g.Create(bounce(func() *coro.Symmetric[int] { return a }), coro.WithName("b"))

	return g.Main(func(s *coro.SymScope[int], n int) (int, error) {
		return s.Transfer(a, n)
	}, 0)
}
