// Copyright (c) 2025 Neomantra Corp

package wpilog_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frc-utils/wpilog-go"
)

var _ = Describe("Helpers", func() {
	Context("timestamp conversion", func() {
		It("converts microseconds to seconds correctly", func() {
			Expect(wpilog.TimestampUsToSeconds(1_000_000)).To(Equal(1.0))
			Expect(wpilog.TimestampUsToSeconds(0)).To(Equal(0.0))
		})
		It("converts microseconds to time.Time correctly", func() {
			Expect(wpilog.TimestampUsToTime(0).UTC()).To(Equal(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)))
			Expect(wpilog.TimestampUsToTime(1_500_000).UTC()).To(Equal(time.Date(1970, 1, 1, 0, 0, 1, 500000000, time.UTC)))
		})
	})
	Context("modification", func() {
		It("trims null bytes correctly", func() {
			Expect(wpilog.TrimNullBytes([]byte("hello\x00\x00\x00\x00"))).To(Equal("hello"))
		})
		It("does not malform regular strings", func() {
			Expect(wpilog.TrimNullBytes([]byte("hello"))).To(Equal("hello"))
		})
	})
})
