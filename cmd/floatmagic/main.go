// Command floatmagic demonstrates the startup sequence of the core: a pool
// of workers acquiring startup resources off-thread, publishing them to the
// main thread through completion phases, with the main loop multiplexing
// completions and queued messages until everything is in.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"

	"github.com/darkedge/FloatMagic/alloc"
	"github.com/darkedge/FloatMagic/arraylist"
	"github.com/darkedge/FloatMagic/mainloop"
	"github.com/darkedge/FloatMagic/membuf"
	"github.com/darkedge/FloatMagic/task"
)

const kindResourceReady mainloop.Kind = 1

// startupResources is the number of resources the tasks below publish; the
// loop quits once all of them are in.
const startupResources = 3

// lineSpan is one entry of the line index: a byte offset and length into
// the loaded file.
type lineSpan struct {
	Off uint32
	Len uint32
}

// byteStats is a typed task payload, allocated from the pool's allocator.
type byteStats struct {
	Total    int64
	Lines    int64
	Controls int64
}

// device simulates an externally acquired handle, released deterministically
// by the resource registry at teardown.
type device struct {
	logger *logiface.Logger[logiface.Event]
	opened time.Time
}

func (x *device) Close() error {
	x.logger.Debug().
		Dur(`lifetime`, time.Since(x.opened)).
		Log(`device released`)
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	workers := flag.Int(`workers`, 0, `worker goroutines (0 = GOMAXPROCS)`)
	debug := flag.Bool(`debug`, false, `enable debug logging`)
	flag.Parse()
	path := flag.Arg(0)
	if path == `` {
		fmt.Fprintln(os.Stderr, `usage: floatmagic [-workers n] [-debug] <file>`)
		return 2
	}

	level := logiface.LevelInformational
	if *debug {
		level = logiface.LevelDebug
	}
	logger := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(os.Stderr)),
		stumpy.L.WithLevel(level),
	).Logger()

	resources := task.NewResources()
	defer func() {
		if err := resources.Close(); err != nil {
			logger.Err().Err(err).Log(`resource teardown failed`)
		}
	}()

	heap := alloc.NewHeap()
	pool, err := task.NewPool(
		task.WithWorkers(*workers),
		task.WithLogger(logger),
		task.WithAllocator(heap),
	)
	if err != nil {
		logger.Err().Err(err).Log(`pool construction failed`)
		return 2
	}
	completions := make(chan *task.Task, 16)
	if err := pool.Init(completions); err != nil {
		logger.Err().Err(err).Log(`pool init failed`)
		return 2
	}
	defer func() {
		if err := pool.Destroy(context.Background()); err != nil {
			logger.Err().Err(err).Log(`pool teardown failed`)
		}
	}()

	queue := mainloop.NewQueue(0)
	ready := 0
	loop, err := mainloop.New(
		mainloop.WithCompletions(completions),
		mainloop.WithQueue(queue),
		mainloop.WithResources(resources),
		mainloop.WithLogger(logger),
		mainloop.WithHandler(func(m mainloop.Message) {
			if m.Kind != kindResourceReady {
				return
			}
			name, _ := m.Data.(string)
			logger.Info().Str(`resource`, name).Log(`resource ready`)
			if ready++; ready == startupResources {
				queue.PostQuit(0)
			}
		}),
	)
	if err != nil {
		logger.Err().Err(err).Log(`loop construction failed`)
		return 2
	}

	// the startup tasks run under the default fatal policy: failure to
	// acquire any of these is not survivable
	if err := submitLineIndex(pool, heap, queue, logger, path); err != nil {
		logger.Err().Err(err).Log(`line index submission failed`)
		return 2
	}
	if err := submitByteStats(pool, queue, logger, path); err != nil {
		logger.Err().Err(err).Log(`byte stats submission failed`)
		return 2
	}
	if err := submitDevice(pool, queue, logger); err != nil {
		logger.Err().Err(err).Log(`device submission failed`)
		return 2
	}

	code, err := loop.Run(context.Background())
	if err != nil {
		logger.Err().Err(err).Log(`loop failed`)
		return 2
	}
	return code
}

// submitLineIndex reads the file into allocator-backed scratch off-thread,
// then, at completion, parses the scratch through a buffer cursor into a
// line index published to the registry. The scratch is carved out on the
// main thread; the worker only fills it.
func submitLineIndex(pool *task.Pool, heap *alloc.Heap, queue *mainloop.Queue, logger *logiface.Logger[logiface.Event], path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	scratch := alloc.NewSlice[byte](heap, int(info.Size())+1)
	if scratch == nil {
		return fmt.Errorf(`floatmagic: scratch allocation of %d bytes failed`, info.Size()+1)
	}

	tsk, size := task.Create[int64](pool)
	if tsk == nil {
		alloc.FreeSlice(heap, scratch)
		return fmt.Errorf(`floatmagic: task allocation failed`)
	}
	tsk.Name = `line-index`
	tsk.Execute = func() error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		n, err := io.ReadFull(f, scratch)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return err
		}
		*size = int64(n)
		return nil
	}
	tsk.OnDone = func(r *task.Resources) {
		defer alloc.FreeSlice(heap, scratch)

		index := new(arraylist.List[lineSpan])
		index.Init(heap)
		cur := membuf.Wrap(scratch[:*size])
		start := 0
		for off := 0; cur.SizeLeft() > 0; off++ {
			var b byte
			membuf.Read(&cur, &b)
			if b == '\n' {
				index.Add(lineSpan{Off: uint32(start), Len: uint32(off - start)})
				start = off + 1
			}
		}
		if start < int(*size) {
			index.Add(lineSpan{Off: uint32(start), Len: uint32(int(*size) - start)})
		}

		r.Provide(`lines`, index)
		logger.Debug().
			Int(`lines`, index.Len()).
			Int64(`bytes`, *size).
			Log(`line index built`)
		queue.Post(mainloop.Message{Kind: kindResourceReady, Data: `lines`})
	}
	return pool.Submit(tsk)
}

// submitByteStats gathers byte statistics off-thread into a typed payload,
// publishing a copy at completion (the payload itself is reclaimed when the
// task is released).
func submitByteStats(pool *task.Pool, queue *mainloop.Queue, logger *logiface.Logger[logiface.Event], path string) error {
	tsk, stats := task.Create[byteStats](pool)
	if tsk == nil {
		return fmt.Errorf(`floatmagic: task allocation failed`)
	}
	tsk.Name = `byte-stats`
	tsk.Execute = func() error {
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		stats.Total = int64(len(b))
		for _, c := range b {
			switch {
			case c == '\n':
				stats.Lines++
			case c < 0x20 && c != '\t' && c != '\r':
				stats.Controls++
			}
		}
		return nil
	}
	tsk.OnDone = func(r *task.Resources) {
		r.Provide(`stats`, *stats)
		logger.Debug().
			Int64(`total`, stats.Total).
			Int64(`lines`, stats.Lines).
			Int64(`controls`, stats.Controls).
			Log(`byte stats gathered`)
		queue.Post(mainloop.Message{Kind: kindResourceReady, Data: `stats`})
	}
	return pool.Submit(tsk)
}

// submitDevice simulates acquiring an external device handle off-thread; the
// handle is owned by the task until completion, then by the registry, which
// closes it on exit.
func submitDevice(pool *task.Pool, queue *mainloop.Queue, logger *logiface.Logger[logiface.Event]) error {
	tsk := pool.CreateTask()
	if tsk == nil {
		return fmt.Errorf(`floatmagic: task allocation failed`)
	}
	var handle *device
	tsk.Name = `device`
	tsk.Execute = func() error {
		time.Sleep(time.Millisecond) // non-reentrant factory construction
		handle = &device{logger: logger, opened: time.Now()}
		return nil
	}
	tsk.OnDone = func(r *task.Resources) {
		r.Provide(`device`, handle)
		queue.Post(mainloop.Message{Kind: kindResourceReady, Data: `device`})
	}
	return pool.Submit(tsk)
}
