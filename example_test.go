package coro_test

import (
	"fmt"

	"github.com/stealthrocket/coro"
)

func ExampleGeneratorFunc() {
	numbers := coro.GeneratorFunc(func(y *coro.Yielder[int], start int) error {
		for i := 0; i <= 5; i++ {
			y.Yield(start + i)
		}
		return nil
	})

	for v := range numbers(10).All() {
		fmt.Println(v)
	}
	// Output:
	// 10
	// 11
	// 12
	// 13
	// 14
	// 15
}

func ExampleCoroutine_Resume() {
	echo := coro.New(func(s *coro.Scope[string, int], p string) (int, error) {
		for p != "" {
			p = s.Yield(len(p))
		}
		return -1, nil
	})

	for _, p := range []string{"a", "bb", "ccc", ""} {
		n, _ := echo.Resume(p)
		fmt.Println(n, echo.Active())
	}
	// Output:
	// 1 true
	// 2 true
	// 3 true
	// -1 false
}

func ExampleGroup() {
	g := coro.NewGroup[string]()
	defer g.Stop()

	var ping, pong *coro.Symmetric[string]
	ping = g.Create(func(s *coro.SymScope[string], v string) (string, error) {
		fmt.Println("ping got", v)
		v, _ = s.Transfer(pong, v+" ping")
		fmt.Println("ping got", v)
		return s.Transfer(s.Main(), v+" done")
	})
	pong = g.Create(func(s *coro.SymScope[string], v string) (string, error) {
		fmt.Println("pong got", v)
		return s.Transfer(ping, v+" pong")
	})

	result, err := g.Main(func(s *coro.SymScope[string], v string) (string, error) {
		return s.Transfer(ping, v)
	}, "serve")
	fmt.Println(result, err)
	// Output:
	// ping got serve
	// pong got serve ping
	// ping got serve ping pong
	// serve ping pong done <nil>
}
