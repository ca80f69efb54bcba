package profiling

import (
	"time"

	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/callprof/hooking"
)

var _ = ginkgo.Describe("Profiler lifecycle", func() {
	var (
		clock    *stubTimeTeller
		p        *Profiler
		released int
		frame    hooking.FrameInfo
	)

	ginkgo.BeforeEach(func() {
		clock = &stubTimeTeller{now: time.Unix(100, 0)}
		released = 0
		p = MakeBuilder().
			WithClock(clock).
			WithReleaseFunc(func() { released++ }).
			Build()
		p.Start()

		frame = callFrame("f1", "main.work")
	})

	ginkgo.It("should reject a nil clock", func() {
		err := p.SetClock(nil)

		Expect(err).To(MatchError(ErrInvalidArgument))
	})

	ginkgo.It("should close open windows on stop as an implicit return", func() {
		emitCall(p, frame)
		emitCall(p, frame)
		clock.advance(7 * time.Millisecond)

		p.Stop()

		rec := p.Records()[0]
		Expect(rec.CallCount).To(Equal(uint64(2)))
		Expect(rec.Elapsed).To(Equal(7 * time.Millisecond))
		Expect(released).To(Equal(1))
	})

	ginkgo.It("should keep counters across stop and restart", func() {
		emitCall(p, frame)
		clock.advance(time.Millisecond)
		emitReturn(p, frame)

		p.Stop()
		p.Start()

		emitCall(p, frame)
		clock.advance(time.Millisecond)
		emitReturn(p, frame)

		rec := p.Records()[0]
		Expect(rec.CallCount).To(Equal(uint64(2)))
		Expect(rec.Elapsed).To(Equal(2 * time.Millisecond))
	})

	ginkgo.It("should zero counters but keep metadata on reset", func() {
		emitCall(p, frame)
		clock.advance(time.Millisecond)
		emitReturn(p, frame)

		p.Reset()

		rec := p.Records()[0]
		Expect(rec.CallCount).To(Equal(uint64(0)))
		Expect(rec.Elapsed).To(Equal(time.Duration(0)))
		Expect(rec.Label).To(Equal("main.work"))
		Expect(rec.DefSite).To(Equal("/src/app/main.go:42"))

		// The record still shows up in a query, with zero counts.
		ranking := p.Query(SortByCalls, NoLimit)
		entry, ok := ranking.Next()
		Expect(ok).To(BeTrue())
		Expect(entry.DisplayName).To(Equal("main.work"))
		Expect(entry.CallCount).To(Equal(uint64(0)))
		Expect(released).To(Equal(1))
	})
})

var _ = ginkgo.Describe("Filter policy", func() {
	var (
		clock *stubTimeTeller
		p     *Profiler
	)

	ginkgo.BeforeEach(func() {
		clock = &stubTimeTeller{now: time.Unix(100, 0)}
		p = MakeBuilder().
			WithClock(clock).
			WithReleaseFunc(func() {}).
			Build()
		p.Start()
	})

	ginkgo.It("should reject include and exclude of an empty identity", func() {
		err := p.Include(hooking.FrameInfo{})
		Expect(err).To(MatchError(ErrInvalidArgument))

		err = p.Exclude(hooking.FrameInfo{})
		Expect(err).To(MatchError(ErrInvalidArgument))

		err = p.Include(callFrame("f1", ""), "")
		Expect(err).To(MatchError(ErrInvalidArgument))
	})

	ginkgo.It("should narrow the filter to hooked-only on include", func() {
		hooked := callFrame("f1", "main.hooked")
		other := callFrame("f2", "main.other")

		err := p.Include(hooked)
		Expect(err).ToNot(HaveOccurred())

		emitCall(p, hooked)
		emitReturn(p, hooked)
		emitCall(p, other)
		emitReturn(p, other)

		Expect(p.Records()).To(HaveLen(1))
		Expect(p.Records()[0].CallCount).To(Equal(uint64(1)))
	})

	ginkgo.It("should assign the label on include when absent", func() {
		frame := callFrame("f1", "")

		err := p.Include(frame, "main.named")
		Expect(err).ToNot(HaveOccurred())

		Expect(p.Records()[0].Label).To(Equal("main.named"))
	})

	ginkgo.It("should let exclusion win over every mode", func() {
		frame := callFrame("f1", "main.noisy")

		err := p.Exclude(frame)
		Expect(err).ToNot(HaveOccurred())

		emitCall(p, frame)
		emitReturn(p, frame)

		rec := p.Records()[0]
		Expect(rec.CallCount).To(Equal(uint64(0)))
		Expect(rec.Label).To(Equal(""))
	})

	ginkgo.It("should retain counters when excluding a tracked function", func() {
		frame := callFrame("f1", "main.noisy")

		emitCall(p, frame)
		clock.advance(time.Millisecond)
		emitReturn(p, frame)

		err := p.Exclude(frame)
		Expect(err).ToNot(HaveOccurred())

		emitCall(p, frame)
		emitReturn(p, frame)

		rec := p.Records()[0]
		Expect(rec.CallCount).To(Equal(uint64(1)))
		Expect(rec.Elapsed).To(Equal(time.Millisecond))
	})

	ginkgo.It("should filter by kind", func() {
		p.SetFilterMode(FilterByKind)
		p.SetKindFilter(hooking.KindClosure)

		declared := callFrame("f1", "main.declared")
		closure := callFrame("f2", "main.declared.func1")
		closure.Kind = hooking.KindClosure

		emitCall(p, declared)
		emitReturn(p, declared)
		emitCall(p, closure)
		emitReturn(p, closure)

		Expect(p.Records()).To(HaveLen(1))
		Expect(p.Records()[0].Kind).To(Equal(hooking.KindClosure))
	})

	ginkgo.It("should observe only internal routines in internal-only mode", func() {
		RegisterInternalRoutine("profiling.selfCheck")

		internal := callFrame("f1", "profiling.selfCheck")
		external := callFrame("f2", "main.work")

		emitCall(p, internal)
		emitReturn(p, internal)

		p.SetFilterMode(FilterInternalOnly)

		emitCall(p, internal)
		emitReturn(p, internal)
		emitCall(p, external)
		emitReturn(p, external)

		Expect(p.Records()).To(HaveLen(1))

		rec := p.Records()[0]
		Expect(rec.Label).To(Equal("profiling.selfCheck"))
		Expect(rec.CallCount).To(Equal(uint64(2)))
		Expect(rec.hookState).To(Equal(HookStateIncluded))
	})
})
