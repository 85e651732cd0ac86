package render

import (
	"container/heap"
	"errors"
	"math"
)

var ErrDraining = errors.New("render: queue is draining")

type job struct {
	depth    int
	seq      uint64
	drawable Drawable
}

// jobHeap is a min-heap on (depth, seq).
type jobHeap []job

func (h jobHeap) Len() int { return len(h) }
func (h jobHeap) Less(i, j int) bool {
	if h[i].depth != h[j].depth {
		return h[i].depth < h[j].depth
	}
	return h[i].seq < h[j].seq
}
func (h jobHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *jobHeap) Push(x any) { *h = append(*h, x.(job)) }
func (h *jobHeap) Pop() any {
	old := *h
	n := len(old) - 1
	j := old[n]
	old[n] = job{}
	*h = old[:n]
	return j
}

// Queue collects drawables during a draw pass and presents them by ascending
// depth. Lower depth is drawn first, i.e. further behind. Jobs with equal
// depth are presented in submission order. Nothing survives a drain.
type Queue struct {
	presenter Presenter
	jobs      jobHeap
	seq       uint64
	smallest  int
	draining  bool
}

// NewQueue returns an empty queue. A nil presenter drops every job on drain.
func NewQueue(p Presenter) *Queue {
	return &Queue{
		presenter: p,
		jobs:      make(jobHeap, 0, 256),
		smallest:  math.MaxInt,
	}
}

// SetPresenter swaps the presenter used by the next drain.
func (q *Queue) SetPresenter(p Presenter) { q.presenter = p }

// Len returns the number of queued jobs.
func (q *Queue) Len() int { return len(q.jobs) }

// Submit queues d one step behind everything submitted so far this frame.
func (q *Queue) Submit(d Drawable) error {
	depth := q.smallest
	if depth > math.MinInt {
		depth--
	}
	return q.SubmitAt(d, depth)
}

// SubmitAt queues d at depth.
func (q *Queue) SubmitAt(d Drawable, depth int) error {
	if q.draining {
		return ErrDraining
	}
	if depth < q.smallest {
		q.smallest = depth
	}
	heap.Push(&q.jobs, job{depth: depth, seq: q.seq, drawable: d})
	q.seq++
	return nil
}

// DrainAndPresent pops every job in depth order and hands it to the
// presenter, then resets the queue for the next frame. It returns the number
// of jobs presented.
func (q *Queue) DrainAndPresent() (int, error) {
	if q.draining {
		return 0, ErrDraining
	}
	q.draining = true
	defer q.reset()

	hooks, _ := q.presenter.(FrameHooks)
	if hooks != nil {
		hooks.BeginFrame()
	}
	n := 0
	for q.jobs.Len() > 0 {
		j := heap.Pop(&q.jobs).(job)
		if q.presenter != nil {
			q.presenter.Present(j.drawable, j.depth)
		}
		n++
	}
	if hooks != nil {
		hooks.EndFrame()
	}
	return n, nil
}

// reset leaves the queue idle and empty even if a presenter panicked.
func (q *Queue) reset() {
	clear(q.jobs)
	q.jobs = q.jobs[:0]
	q.smallest = math.MaxInt
	q.seq = 0
	q.draining = false
}
