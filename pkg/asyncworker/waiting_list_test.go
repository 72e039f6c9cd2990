package asyncworker

import (
	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = ginkgo.Describe("waitingList", func() {
	ginkgo.It("should dequeue tokens in arrival order", func() {
		w := newWaitingList(3)
		Expect(w.TryEnqueue(7)).To(BeTrue())
		Expect(w.TryEnqueue(3)).To(BeTrue())
		Expect(w.TryEnqueue(9)).To(BeTrue())

		for _, want := range []Token{7, 3, 9} {
			got, ok := w.Dequeue()
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(want))
		}
		_, ok := w.Dequeue()
		Expect(ok).To(BeFalse())
	})

	ginkgo.It("should refuse a token when full", func() {
		w := newWaitingList(1)
		Expect(w.TryEnqueue(1)).To(BeTrue())
		Expect(w.TryEnqueue(2)).To(BeFalse())
		Expect(w.Len()).To(Equal(1))
	})

	ginkgo.It("should refuse a token that is already waiting", func() {
		w := newWaitingList(4)
		Expect(w.TryEnqueue(1)).To(BeTrue())
		Expect(w.TryEnqueue(1)).To(BeFalse())
	})

	ginkgo.It("should keep the order of the remaining tokens on removal", func() {
		w := newWaitingList(4)
		for _, t := range []Token{1, 2, 3, 4} {
			Expect(w.TryEnqueue(t)).To(BeTrue())
		}
		Expect(w.Remove(2)).To(BeTrue())
		Expect(w.Remove(2)).To(BeFalse())

		Expect(w.drain()).To(Equal([]Token{1, 3, 4}))
		Expect(w.Len()).To(Equal(0))
	})

	ginkgo.It("should never accept a token with zero capacity", func() {
		w := newWaitingList(0)
		Expect(w.TryEnqueue(1)).To(BeFalse())
	})
})

var _ = ginkgo.Describe("jobPool", func() {
	ginkgo.It("should hand out every slot once before running dry", func() {
		p := newJobPool[int](3)
		seen := map[*Job[int]]bool{}
		for i := 0; i < 3; i++ {
			j := p.get()
			Expect(j).NotTo(BeNil())
			Expect(seen[j]).To(BeFalse())
			seen[j] = true
		}
		Expect(p.get()).To(BeNil())
		Expect(p.busyCount()).To(Equal(3))
	})

	ginkgo.It("should reuse a slot that was put back", func() {
		p := newJobPool[int](2)
		a := p.get()
		_ = p.get()
		p.put(a)
		Expect(p.owns(a)).To(BeFalse())
		Expect(p.get()).To(BeIdenticalTo(a))
	})
})
