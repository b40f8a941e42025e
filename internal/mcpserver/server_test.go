// Copyright (c) 2025 Neomantra Corp

package mcpserver_test

import (
	"log/slog"
	"os"
	"path/filepath"

	mcp_server "github.com/mark3labs/mcp-go/server"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frc-utils/wpilog-go/internal/mcpserver"
)

var _ = Describe("Server", func() {
	It("creates its output directory and registers its tools without error", func() {
		dir := filepath.Join(os.TempDir(), "mcpserver-test-output")
		defer os.RemoveAll(dir)

		s, err := mcpserver.NewServer(dir, slog.Default())
		Expect(err).NotTo(HaveOccurred())
		defer s.Close()

		_, err = os.Stat(dir)
		Expect(err).NotTo(HaveOccurred())

		Expect(s.InitQueryEngine()).To(Succeed())

		mcpSrv := mcp_server.NewMCPServer("wpilog-test", "0.0.0")
		Expect(func() { s.RegisterTools(mcpSrv) }).NotTo(Panic())
	})
})
