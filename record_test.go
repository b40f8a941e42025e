// Copyright (c) 2025 Neomantra Corp

package wpilog_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frc-utils/wpilog-go"
)

var _ = Describe("Record framing", func() {
	Context("header field widths", func() {
		for entryLen := 1; entryLen <= 4; entryLen++ {
			for sizeLen := 1; sizeLen <= 4; sizeLen++ {
				for tsLen := 1; tsLen <= 8; tsLen++ {
					entryLen, sizeLen, tsLen := entryLen, sizeLen, tsLen
					It("decodes a record framed with the given field widths", func() {
						rec := buildRecordWidths(entryLen, sizeLen, tsLen, 1, 42, []byte("hi"))
						file := buildFile(rec)
						r, err := wpilog.FromBytes(file)
						Expect(err).NotTo(HaveOccurred())

						rr := r.LowLevelRecords()
						Expect(rr.Next()).To(BeTrue())
						got := rr.Record()
						Expect(got.EntryID).To(Equal(uint32(1)))
						Expect(got.Payload).To(Equal([]byte("hi")))
						Expect(rr.Next()).To(BeFalse())
						Expect(rr.Err()).NotTo(HaveOccurred())
					})
				}
			}
		}
	})

	Context("truncation", func() {
		It("succeeds when a record ends exactly at file end", func() {
			file := buildFile(buildRecord(1, 0, []byte("exact")))
			r, _ := wpilog.FromBytes(file)
			rr := r.LowLevelRecords()
			Expect(rr.Next()).To(BeTrue())
			Expect(rr.Next()).To(BeFalse())
			Expect(rr.Err()).NotTo(HaveOccurred())
		})

		It("fails when the payload is one byte short", func() {
			file := buildFile(buildRecord(1, 0, []byte("exact")))
			file = file[:len(file)-1]
			r, _ := wpilog.FromBytes(file)
			rr := r.LowLevelRecords()
			Expect(rr.Next()).To(BeFalse())
			Expect(rr.Err()).To(HaveOccurred())
		})
	})

	Context("zero-length payload", func() {
		It("produces an empty payload, not a missing record", func() {
			file := buildFile(buildRecord(1, 0, []byte{}))
			r, _ := wpilog.FromBytes(file)
			rr := r.LowLevelRecords()
			Expect(rr.Next()).To(BeTrue())
			Expect(rr.Record().Payload).To(BeEmpty())
		})
	})

	Context("control records", func() {
		It("identifies entry id 0 as control", func() {
			file := buildFile(buildRecord(0, 0, controlFinishPayload(1)))
			r, _ := wpilog.FromBytes(file)
			rr := r.LowLevelRecords()
			Expect(rr.Next()).To(BeTrue())
			Expect(rr.Record().IsControl()).To(BeTrue())
		})
	})
})
