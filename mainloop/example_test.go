package mainloop_test

import (
	"context"
	"fmt"

	"github.com/darkedge/FloatMagic/mainloop"
	"github.com/darkedge/FloatMagic/task"
)

func Example() {
	pool, err := task.NewPool(task.WithWorkers(2))
	if err != nil {
		panic(err)
	}
	completions := make(chan *task.Task, 4)
	if err := pool.Init(completions); err != nil {
		panic(err)
	}
	defer pool.Destroy(context.Background())

	queue := mainloop.NewQueue(4)
	loop, err := mainloop.New(
		mainloop.WithCompletions(completions),
		mainloop.WithQueue(queue),
	)
	if err != nil {
		panic(err)
	}

	tsk, sum := task.Create[int64](pool)
	tsk.Execute = func() error {
		for i := int64(1); i <= 100; i++ {
			*sum += i // worker-exclusive until completion delivery
		}
		return nil
	}
	tsk.OnDone = func(r *task.Resources) {
		r.Provide(`sum`, *sum)
		queue.PostQuit(0)
	}
	if err := pool.Submit(tsk); err != nil {
		panic(err)
	}

	code, err := loop.Run(context.Background())
	if err != nil {
		panic(err)
	}
	v, _ := task.Resource[int64](loop.Resources(), `sum`)
	fmt.Println(code, v)

	//output:
	//0 5050
}
