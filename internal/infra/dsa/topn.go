package dsa

// ─── Bounded Top-N Selector (Min-Heap) ──────────────────────────────────────
// Leaderboard builds keep only the best N candidates out of an arbitrarily
// large snapshot set. A bounded min-heap of the current winners does this in
// O(m log n) for m candidates instead of sorting the full set.
//
// Operations:
//   Push:   O(log n) — evicts the weakest item once at capacity
//   Sorted: O(n log n) — drains the heap, best first
//   Len:    O(1)

// TopN keeps the N greatest items according to a caller-supplied ordering.
// better(a, b) must report whether a outranks b. Not safe for concurrent use;
// callers hold one per build.
type TopN[T any] struct {
	limit  int
	better func(a, b T) bool
	heap   []T // Min-heap: heap[0] is the weakest of the kept items
}

// NewTopN creates a selector that retains at most limit items.
func NewTopN[T any](limit int, better func(a, b T) bool) *TopN[T] {
	if limit < 1 {
		limit = 1
	}
	return &TopN[T]{limit: limit, better: better}
}

// Push offers an item. If the selector is full and the item does not outrank
// the current weakest, it is dropped.
func (t *TopN[T]) Push(item T) {
	if len(t.heap) < t.limit {
		t.heap = append(t.heap, item)
		t.siftUp(len(t.heap) - 1)
		return
	}
	if !t.better(item, t.heap[0]) {
		return
	}
	t.heap[0] = item
	t.siftDown(0)
}

// Len returns the number of retained items.
func (t *TopN[T]) Len() int { return len(t.heap) }

// Sorted drains the selector and returns the retained items best-first.
// The selector is empty afterwards.
func (t *TopN[T]) Sorted() []T {
	out := make([]T, len(t.heap))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = t.pop()
	}
	return out
}

func (t *TopN[T]) pop() T {
	top := t.heap[0]
	last := len(t.heap) - 1
	t.heap[0] = t.heap[last]
	t.heap = t.heap[:last]
	if len(t.heap) > 0 {
		t.siftDown(0)
	}
	return top
}

// weaker orders the internal min-heap: i sits above j when i is NOT better.
func (t *TopN[T]) weaker(i, j int) bool {
	return !t.better(t.heap[i], t.heap[j])
}

func (t *TopN[T]) siftUp(idx int) {
	for idx > 0 {
		parent := (idx - 1) / 2
		if t.weaker(idx, parent) {
			t.heap[idx], t.heap[parent] = t.heap[parent], t.heap[idx]
			idx = parent
		} else {
			break
		}
	}
}

func (t *TopN[T]) siftDown(idx int) {
	n := len(t.heap)
	for {
		weakest := idx
		left := 2*idx + 1
		right := 2*idx + 2

		if left < n && t.weaker(left, weakest) {
			weakest = left
		}
		if right < n && t.weaker(right, weakest) {
			weakest = right
		}
		if weakest == idx {
			break
		}
		t.heap[idx], t.heap[weakest] = t.heap[weakest], t.heap[idx]
		idx = weakest
	}
}
