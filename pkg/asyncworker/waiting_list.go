package asyncworker

// waitingList holds the tokens of callers that asked for a job while the
// pool was exhausted. Length never exceeds capacity.
type waitingList struct {
	q        queue[Token]
	capacity int
}

func newWaitingList(capacity int) *waitingList {
	return &waitingList{q: newQueue[Token](capacity), capacity: capacity}
}

// TryEnqueue appends token at the tail. It refuses when the list is full or
// when the token is already waiting.
func (w *waitingList) TryEnqueue(token Token) bool {
	if w.q.Len() >= w.capacity || w.q.Contains(token) {
		return false
	}
	w.q.Push(token)
	return true
}

// Dequeue pops the oldest waiting token.
func (w *waitingList) Dequeue() (Token, bool) {
	if w.q.Len() == 0 {
		return 0, false
	}
	return w.q.Pop(), true
}

// Remove drops token from the list when its caller gives up.
func (w *waitingList) Remove(token Token) bool {
	return w.q.Remove(token)
}

func (w *waitingList) Contains(token Token) bool {
	return w.q.Contains(token)
}

func (w *waitingList) Len() int { return w.q.Len() }

func (w *waitingList) Cap() int { return w.capacity }

// drain empties the list and returns the tokens in arrival order.
func (w *waitingList) drain() []Token {
	tokens := make([]Token, 0, w.q.Len())
	for w.q.Len() > 0 {
		tokens = append(tokens, w.q.Pop())
	}
	return tokens
}
