package asyncworker_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/async-worker/pkg/asyncworker"
	srvErrors "github.com/kubev2v/async-worker/pkg/errors"
)

var _ = Describe("Call", func() {
	var (
		rt     *asyncworker.ChannelRuntime
		engine *asyncworker.Engine[params]
	)

	newEngine := func(jobs, waiting int) {
		var err error
		engine, err = asyncworker.New[params]("call", asyncworker.Config{JobCount: jobs, WaitingListSize: waiting}, rt)
		Expect(err).NotTo(HaveOccurred())
	}

	double := asyncworker.ActionFunc[params](func(p *params) error {
		p.Out = p.In * 2
		return nil
	})

	BeforeEach(func() {
		rt = asyncworker.NewChannelRuntime()
	})

	AfterEach(func() {
		if engine != nil {
			engine.Close()
		}
	})

	It("should return the result written by the action", func() {
		newEngine(4, 16)

		var out int
		err := asyncworker.Call(context.Background(), engine, rt, asyncworker.Request[params]{
			Prepare: func(p *params) error {
				p.In = 21
				return nil
			},
			Action: double,
			Completion: asyncworker.CompletionFunc[params](func(p *params, err error) error {
				out = p.Out
				return err
			}),
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(42))
		Expect(engine.Stats().Busy).To(Equal(0))
	})

	It("should free the job when Prepare fails", func() {
		newEngine(1, 0)
		errPrepare := errors.New("does not fit")

		err := asyncworker.Call(context.Background(), engine, rt, asyncworker.Request[params]{
			Prepare:    func(p *params) error { return errPrepare },
			Action:     double,
			Completion: noopCompletion,
		})

		Expect(err).To(MatchError(errPrepare))
		Expect(engine.Stats().Busy).To(Equal(0))
		Expect(engine.Stats().Submitted).To(Equal(int64(0)))
	})

	// Given many more callers than job slots and waiting positions
	// When they all call concurrently
	// Then every call eventually completes with its own result
	It("should serve concurrent callers beyond pool capacity", func() {
		newEngine(2, 4)

		const callers = 40
		results := make([]int, callers)
		errs := make([]error, callers)

		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer GinkgoRecover()
				defer wg.Done()

				errs[i] = asyncworker.Call(context.Background(), engine, rt, asyncworker.Request[params]{
					Prepare: func(p *params) error {
						p.In = i
						return nil
					},
					Action: asyncworker.ActionFunc[params](func(p *params) error {
						time.Sleep(time.Millisecond)
						p.Out = p.In * 2
						return nil
					}),
					Completion: asyncworker.CompletionFunc[params](func(p *params, err error) error {
						results[i] = p.Out
						return err
					}),
				}, asyncworker.WithBackOff(backoff.NewConstantBackOff(2*time.Millisecond)))
			}(i)
		}
		wg.Wait()

		for i := 0; i < callers; i++ {
			Expect(errs[i]).NotTo(HaveOccurred())
			Expect(results[i]).To(Equal(i * 2))
		}

		stats := engine.Stats()
		Expect(stats.Busy).To(Equal(0))
		Expect(stats.Waiting).To(Equal(0))
		Expect(stats.Submitted).To(Equal(int64(callers)))
		Expect(stats.Completed).To(Equal(int64(callers)))
	})

	// Given every job slot filled by concurrent callers
	// When their actions run
	// Then no two actions ever overlap
	It("should run one action at a time", func() {
		newEngine(4, 8)

		const callers = 40
		var inFlight, maxInFlight atomic.Int32
		action := asyncworker.ActionFunc[params](func(p *params) error {
			n := inFlight.Add(1)
			for {
				m := maxInFlight.Load()
				if n <= m || maxInFlight.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(100 * time.Microsecond)
			inFlight.Add(-1)
			return nil
		})

		var wg sync.WaitGroup
		errs := make(chan error, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()

				errs <- asyncworker.Call(context.Background(), engine, rt, asyncworker.Request[params]{
					Action: action,
					Completion: asyncworker.CompletionFunc[params](func(_ *params, err error) error {
						return err
					}),
				}, asyncworker.WithBackOff(backoff.NewConstantBackOff(time.Millisecond)))
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(maxInFlight.Load()).To(Equal(int32(1)))
		Expect(engine.Stats().Completed).To(Equal(int64(callers)))
	})

	It("should give up on back-pressure once the elapsed time is over", func() {
		newEngine(1, 0)

		// hold the only slot
		_, err := engine.Allocate(1_000_000)
		Expect(err).NotTo(HaveOccurred())

		err = asyncworker.Call(context.Background(), engine, rt, asyncworker.Request[params]{
			Action:     double,
			Completion: noopCompletion,
		},
			asyncworker.WithBackOff(backoff.NewConstantBackOff(5*time.Millisecond)),
			asyncworker.WithMaxElapsedTime(50*time.Millisecond),
		)

		Expect(srvErrors.IsPoolExhaustedError(err)).To(BeTrue())
	})

	// Given an action that outlives the caller's deadline
	// When the caller gives up
	// Then the completion still runs exactly once and the slot is freed
	It("should abandon the job when the context expires", func() {
		newEngine(1, 0)
		unblock := make(chan struct{})
		var completions atomic.Int32

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err := asyncworker.Call(ctx, engine, rt, asyncworker.Request[params]{
			Action: asyncworker.ActionFunc[params](func(p *params) error {
				<-unblock
				return nil
			}),
			Completion: asyncworker.CompletionFunc[params](func(p *params, err error) error {
				completions.Add(1)
				return err
			}),
		})
		Expect(err).To(MatchError(context.DeadlineExceeded))

		close(unblock)
		Eventually(completions.Load).Should(Equal(int32(1)))
		Eventually(func() int { return engine.Stats().Busy }).Should(Equal(0))
		Consistently(completions.Load, 100*time.Millisecond).Should(Equal(int32(1)))
	})

	It("should leave the waiting list when the context expires", func() {
		newEngine(1, 2)

		_, err := engine.Allocate(1_000_000)
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		err = asyncworker.Call(ctx, engine, rt, asyncworker.Request[params]{
			Action:     double,
			Completion: noopCompletion,
		})
		Expect(err).To(MatchError(context.DeadlineExceeded))
		Expect(engine.Stats().Waiting).To(Equal(0))
	})

	It("should fail immediately on a closed engine", func() {
		newEngine(1, 0)
		engine.Close()

		err := asyncworker.Call(context.Background(), engine, rt, asyncworker.Request[params]{
			Action:     double,
			Completion: noopCompletion,
		})
		Expect(srvErrors.IsEngineClosedError(err)).To(BeTrue())
	})
})

var _ = Describe("ChannelRuntime", func() {
	It("should deliver events to the waiting token only", func() {
		rt := asyncworker.NewChannelRuntime()
		a := rt.NewToken()
		b := rt.NewToken()
		Expect(a).NotTo(Equal(b))

		rt.Retry(b)
		rt.Resume(a)

		ev, err := rt.Wait(context.Background(), a)
		Expect(err).NotTo(HaveOccurred())
		Expect(ev).To(Equal(asyncworker.EventResumed))

		ev, err = rt.Wait(context.Background(), b)
		Expect(err).NotTo(HaveOccurred())
		Expect(ev).To(Equal(asyncworker.EventRetry))
	})

	It("should drop events for released tokens", func() {
		rt := asyncworker.NewChannelRuntime()
		a := rt.NewToken()
		rt.Release(a)

		rt.Resume(a)
		_, err := rt.Wait(context.Background(), a)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("should stop waiting when the context is done", func() {
		rt := asyncworker.NewChannelRuntime()
		a := rt.NewToken()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := rt.Wait(ctx, a)
		Expect(err).To(MatchError(context.Canceled))
	})
})
