package aio

// Executor spawns task according to whatever scheduling policy a caller
// wants (a worker pool, a test harness that runs things inline, etc). The
// zero value, used wherever a nil Executor is passed, just does `go task()`.
type Executor func(task func())

// Run spawns task, falling back to a bare goroutine if e is nil.
func (e Executor) Run(task func()) {
	if e == nil {
		go task()
		return
	}
	e(task)
}
