package pool_test

import (
	"fmt"
	"time"

	"github.com/utkarsh5026/threadkit/pool"
)

func Example() {
	tp, err := pool.New(pool.WithSize(4))
	if err != nil {
		panic(err)
	}
	defer tp.Destroy()

	square := func(_ *pool.CancelToken, n int) (int, int) {
		return n * n, 0
	}

	futures := make([]*pool.Future[int], 5)
	for i := range futures {
		futures[i], _ = pool.Submit(tp, square, i+1)
	}
	for _, f := range futures {
		v, _, _ := f.Wait(time.Second)
		fmt.Println(v)
	}
	// Output:
	// 1
	// 4
	// 9
	// 16
	// 25
}

func ExampleFuture_Cancel() {
	f := pool.NewFuture[string]()

	fmt.Println(f.Cancel())
	_, _, err := f.Wait(time.Second)
	fmt.Println(err)
	fmt.Println(f.Token().IsCancelled())
	// Output:
	// true
	// future cancelled
	// true
}
