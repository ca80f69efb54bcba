package hooking

import (
	gomock "go.uber.org/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("HookableBase", func() {
	var (
		mockCtrl *gomock.Controller
		hookable *HookableBase
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		hookable = &HookableBase{}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should register hooks", func() {
		hook := NewMockHook(mockCtrl)

		hookable.AcceptHook(hook)

		Expect(hookable.NumHooks()).To(Equal(1))
		Expect(hookable.Hooks()).To(HaveLen(1))
	})

	It("should panic on duplicated hooks", func() {
		hook := NewMockHook(mockCtrl)

		hookable.AcceptHook(hook)

		Expect(func() { hookable.AcceptHook(hook) }).To(Panic())
	})

	It("should invoke all registered hooks", func() {
		hook1 := NewMockHook(mockCtrl)
		hook2 := NewMockHook(mockCtrl)
		hookable.AcceptHook(hook1)
		hookable.AcceptHook(hook2)

		ctx := HookCtx{
			Pos: HookPosFuncCall,
			Item: FrameInfo{
				ID:    "1",
				Label: "main.fib",
			},
		}

		hook1.EXPECT().Func(ctx)
		hook2.EXPECT().Func(ctx)

		hookable.InvokeHook(ctx)
	})
})

var _ = Describe("FuncKind", func() {
	It("should render kind names", func() {
		Expect(KindFunction.String()).To(Equal("function"))
		Expect(KindClosure.String()).To(Equal("closure"))
		Expect(KindUnknown.String()).To(Equal("unknown"))
	})
})
