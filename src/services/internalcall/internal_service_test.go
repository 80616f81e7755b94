package internalcall_test

import (
	"bytes"
	"context"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"webservicepoc/src/services/internalcall"
	"webservicepoc/src/trace"
)

var _ = Describe("Internal calls", func() {
	var (
		buffer   *bytes.Buffer
		logger   *slog.Logger
		logTrace *trace.LogTrace
		ctx      context.Context
	)

	BeforeEach(func() {
		buffer = &bytes.Buffer{}
		logger = slog.New(slog.NewTextHandler(buffer, nil))
		logTrace = trace.NewLogTrace(logger)
		ctx = context.Background()
	})

	It("should log the fixed message", func() {
		internalcall.NewInternalService(logger).Internal(ctx)

		Expect(buffer.String()).To(ContainSubstring(`msg="call internal"`))
	})

	When("the call goes through the decorator", func() {
		It("should trace Internal", func() {
			traced := internalcall.NewTracedInternal(internalcall.NewInternalService(logger), logTrace)
			internalcall.NewCallService(logger, traced).External(ctx)

			Expect(buffer.String()).To(ContainSubstring("call external"))
			Expect(buffer.String()).To(ContainSubstring("InternalService.Internal()"))
			Expect(buffer.String()).To(ContainSubstring("call internal"))
		})
	})

	When("the call is made on the receiver itself", func() {
		It("should bypass the decorator", func() {
			selfCall := internalcall.NewSelfCallService(logger)
			traced := internalcall.NewTracedInternal(selfCall, logTrace)

			selfCall.External(ctx)

			Expect(buffer.String()).To(ContainSubstring("call internal"))
			Expect(buffer.String()).ToNot(ContainSubstring("InternalService.Internal()"))

			traced.Internal(ctx)
			Expect(buffer.String()).To(ContainSubstring("InternalService.Internal()"))
		})
	})
})
