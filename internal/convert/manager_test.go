// Copyright (c) 2025 Neomantra Corp

package convert_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frc-utils/wpilog-go/internal/convert"
)

var _ = Describe("ConversionManager", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "convert-manager-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	writeInput := func(name string) string {
		buf := buildFile(
			buildRecord(0, 0, controlStartPayload(1, "/x", "double", "")),
			buildRecord(1, 1_000_000, float64Bytes(1.5)),
		)
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, buf, 0o644)).To(Succeed())
		return path
	}

	It("drains queued jobs through to completion", func() {
		cm := convert.NewConversionManager(2)
		defer cm.Close()

		opts1 := convert.Options{InputPath: writeInput("a.wpilog"), OutputDir: filepath.Join(dir, "out-a")}
		opts2 := convert.Options{InputPath: writeInput("b.wpilog"), OutputDir: filepath.Join(dir, "out-b")}

		Expect(cm.QueueFile(opts1)).To(BeTrue())
		Expect(cm.QueueFile(opts2)).To(BeTrue())

		seen := map[string]convert.JobState{}
		timeout := time.After(5 * time.Second)
		for len(seen) < 2 {
			select {
			case msg := <-cm.ProgressChannel():
				if msg.State == convert.JobComplete || msg.State == convert.JobFailed {
					seen[msg.Opts.InputPath] = msg.State
				}
			case <-timeout:
				Fail("timed out waiting for conversions to complete")
			}
		}

		Expect(seen[opts1.InputPath]).To(Equal(convert.JobComplete))
		Expect(seen[opts2.InputPath]).To(Equal(convert.JobComplete))

		_, _, past := cm.Counts()
		Expect(past).To(Equal(2))
	})

	It("rejects a duplicate Options already queued", func() {
		cm := convert.NewConversionManager(1)
		defer cm.Close()

		opts := convert.Options{InputPath: writeInput("dup.wpilog"), OutputDir: filepath.Join(dir, "out-dup")}
		Expect(cm.QueueFile(opts)).To(BeTrue())
		Expect(cm.QueueFile(opts)).To(BeFalse())
	})
})
