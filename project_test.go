// Copyright (c) 2025 Neomantra Corp

package wpilog_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/frc-utils/wpilog-go"
)

var _ = Describe("Wide-row projector", func() {
	Context("string[] payloads", func() {
		It("decodes each length-prefixed element", func() {
			var payload []byte
			payload = append(payload, leBytes(2, 4)...)
			payload = append(payload, lenPrefixed("alpha")...)
			payload = append(payload, lenPrefixed("beta")...)

			file := buildFile(
				buildRecord(0, 0, controlStartPayload(1, "/names", "string[]", "")),
				buildRecord(1, 1, payload),
			)
			r, _ := wpilog.FromBytes(file)
			rows, err := r.ReadAll()
			Expect(err).NotTo(HaveOccurred())
			arr := rows[0].Data["/names"].A
			Expect(arr).To(HaveLen(2))
			Expect(arr[0].S).To(Equal("alpha"))
			Expect(arr[1].S).To(Equal("beta"))
		})

		It("produces an empty array, not null, for a zero-length int64[]", func() {
			file := buildFile(
				buildRecord(0, 0, controlStartPayload(1, "/empty", "int64[]", "")),
				buildRecord(1, 1, []byte{}),
			)
			r, _ := wpilog.FromBytes(file)
			rows, err := r.ReadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(rows[0].Data["/empty"].Kind).To(Equal(wpilog.ValueArray))
			Expect(rows[0].Data["/empty"].A).To(BeEmpty())
		})
	})

	Context("unknown types", func() {
		It("preserves unrecognized type strings as raw/hex columns", func() {
			file := buildFile(
				buildRecord(0, 0, controlStartPayload(1, "/weird", "something-custom", "")),
				buildRecord(1, 1, []byte{0xDE, 0xAD, 0xBE, 0xEF}),
			)
			r, _ := wpilog.FromBytes(file)
			rows, err := r.ReadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(rows[0].Data["/weird"].S).To(Equal("deadbeef"))
		})
	})

	Context("msgpack payloads", func() {
		It("flattens a nested map into dotted columns", func() {
			body, err := msgpack.Marshal(map[string]any{
				"speed": 4.5,
				"pose": map[string]any{
					"x": 1.0,
					"y": 2.0,
				},
			})
			Expect(err).NotTo(HaveOccurred())

			file := buildFile(
				buildRecord(0, 0, controlStartPayload(1, "/telemetry", "msgpack", "")),
				buildRecord(1, 1, body),
			)
			r, _ := wpilog.FromBytes(file)
			rows, err := r.ReadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(rows[0].Data["/telemetry.speed"].F).To(Equal(4.5))
			Expect(rows[0].Data["/telemetry.pose.x"].F).To(Equal(1.0))
			Expect(rows[0].Data["/telemetry.pose.y"].F).To(Equal(2.0))
		})
	})

	Context("schema conflicts", func() {
		It("fails the read on a conflicting schema redefinition", func() {
			file := buildFile(
				buildRecord(0, 0, controlStartPayload(4, "/.schema/struct:Pose2d", "structschema:Pose2d", "")),
				buildRecord(4, 0, []byte("double x;double y")),
				buildRecord(4, 1, []byte("double x;double y;double theta")),
			)
			r, _ := wpilog.FromBytes(file)
			_, err := r.ReadAll()
			Expect(err).To(HaveOccurred())
		})

		It("accepts an identical redefinition", func() {
			file := buildFile(
				buildRecord(0, 0, controlStartPayload(4, "/.schema/struct:Pose2d", "structschema:Pose2d", "")),
				buildRecord(4, 0, []byte("double x;double y")),
				buildRecord(4, 1, []byte("double x;double y")),
			)
			r, _ := wpilog.FromBytes(file)
			_, err := r.ReadAll()
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
