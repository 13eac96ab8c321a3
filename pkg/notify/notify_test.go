package notify_test

import (
	"context"
	"errors"

	"github.com/catalogfi/comitkit/pkg/notify"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type failingNotifier struct{ err error }

func (n failingNotifier) Notify(context.Context, string) error { return n.err }

var _ = Describe("Notifiers", func() {
	It("should log notifications", func() {
		core, logs := observer.New(zapcore.InfoLevel)
		notifier := notify.NewLogNotifier(zap.New(core))

		Expect(notifier.Notify(context.Background(), "swap accepted")).Should(Succeed())
		Expect(logs.FilterMessage("swap accepted").Len()).Should(Equal(1))
	})

	It("should require discord credentials", func() {
		_, err := notify.NewDiscord("", "channel")
		Expect(err).ShouldNot(BeNil())
		_, err = notify.NewDiscord("token", "")
		Expect(err).ShouldNot(BeNil())

		notifier, err := notify.NewDiscord("token", "channel")
		Expect(err).Should(BeNil())
		Expect(notifier).ShouldNot(BeNil())
	})

	It("should notify every notifier and join their errors", func() {
		core, logs := observer.New(zapcore.InfoLevel)
		failure := errors.New("unreachable")
		multi := notify.Multi{
			failingNotifier{err: failure},
			notify.NewLogNotifier(zap.New(core)),
		}

		err := multi.Notify(context.Background(), "order taken")
		Expect(errors.Is(err, failure)).Should(BeTrue())
		Expect(logs.Len()).Should(Equal(1))
	})
})
