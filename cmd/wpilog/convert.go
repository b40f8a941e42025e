// Copyright (c) 2025 Neomantra Corp

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/frc-utils/wpilog-go/internal/convert"
	"github.com/frc-utils/wpilog-go/internal/tui"
)

var (
	convertOutDir    string
	convertChunkSize int
	convertMaxActive int
	convertZstd      bool
	convertUseTUI    bool
	convertYes       bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [wpilog files...]",
	Short: "Convert wpilog files to chunked Parquet files",
	Args:  cobra.MinimumNArgs(1),
	Run:   runConvert,
}

func runConvert(cmd *cobra.Command, args []string) {
	jobs := make([]convert.Options, 0, len(args))
	for _, path := range args {
		base := filepath.Base(path)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		jobs = append(jobs, convert.Options{
			InputPath: path,
			OutputDir: filepath.Join(convertOutDir, base),
			ChunkSize: convertChunkSize,
			UseZstd:   convertZstd,
		})
	}

	if !convertYes && len(jobs) > 1 {
		requireHumanConfirmation(
			fmt.Sprintf("Convert %d files into %s?", len(jobs), convertOutDir), "convert")
	}

	if convertUseTUI {
		err := tui.Run(tui.Config{Jobs: jobs, MaxActiveJobs: convertMaxActive})
		requireNoError(err)
		return
	}

	mgr := convert.NewConversionManager(convertMaxActive)
	defer mgr.Close()
	for _, opts := range jobs {
		mgr.QueueFile(opts)
	}

	remaining := len(jobs)
	failed := 0
	for remaining > 0 {
		msg := <-mgr.ProgressChannel()
		switch msg.State {
		case convert.JobComplete:
			fmt.Printf("%s: %d records, %d chunks, %d skipped -> %s\n",
				msg.Opts.InputPath, msg.Result.NumRecords, msg.Result.NumChunks,
				msg.Result.SkippedRecords, msg.Opts.OutputDir)
			remaining--
		case convert.JobFailed:
			fmt.Fprintf(os.Stderr, "%s: %s\n", msg.Opts.InputPath, msg.Error)
			remaining--
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

///////////////////////////////////////////////////////////////////////////////

func requireHumanConfirmation(promptTitle string, verbName string) {
	doVerb := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Affirmative(fmt.Sprintf("Yes, %s", verbName)).
				Negative("No, cancel").
				Title(promptTitle).
				Value(&doVerb),
		))
	err := form.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "confirmation error: %s\n", err.Error())
		os.Exit(1)
	}
	if !doVerb {
		os.Exit(0)
	}
}
