package asyncworker

// queue is a FIFO backed by a slice whose capacity is fixed at creation.
// Pop shifts elements down instead of reslicing so the backing array is
// reused and pushing never allocates while Len() < cap.
type queue[T comparable] []T

func newQueue[T comparable](capacity int) queue[T] {
	return make(queue[T], 0, capacity)
}

func (q *queue[T]) Len() int { return len(*q) }

func (q *queue[T]) Pop() T {
	old := *q
	x := old[0]
	copy(old, old[1:])
	var zero T
	old[len(old)-1] = zero
	*q = old[:len(old)-1]
	return x
}

func (q *queue[T]) Push(t T) {
	*q = append(*q, t)
}

func (q *queue[T]) Contains(t T) bool {
	for _, v := range *q {
		if v == t {
			return true
		}
	}
	return false
}

// Remove deletes the first occurrence of t, keeping the order of the others.
func (q *queue[T]) Remove(t T) bool {
	old := *q
	for i, v := range old {
		if v != t {
			continue
		}
		copy(old[i:], old[i+1:])
		var zero T
		old[len(old)-1] = zero
		*q = old[:len(old)-1]
		return true
	}
	return false
}
