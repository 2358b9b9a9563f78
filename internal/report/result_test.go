package report_test

import (
	"fmt"
	"sync"
	"testing"

	"dirsort/internal/category"
	"dirsort/internal/report"
)

func TestRecordMoveSplitsKnownAndUnknown(t *testing.T) {
	r := report.NewResult()
	r.RecordMove(category.Documents, ".docx")
	r.RecordMove(category.Images, ".JPG")
	r.RecordMove(category.Images, "jpg")
	r.RecordMove(category.Archives, "zip")
	r.RecordMove(category.Other, ".exe")
	r.RecordMove(category.Other, "")

	if got := fmt.Sprint(r.Extensions(report.KnownExtensions)); got != "[docx jpg zip]" {
		t.Fatalf("unexpected known extensions %s", got)
	}
	if got := fmt.Sprint(r.Extensions(report.UnknownExtensions)); got != "[(none) exe]" {
		t.Fatalf("unexpected unknown extensions %s", got)
	}
}

func TestRenderFormats(t *testing.T) {
	r := report.NewResult()
	if r.Render() != report.NoChangesMessage || r.RenderInline() != report.NoChangesMessage {
		t.Fatal("expected no-changes message for empty result")
	}
	if !r.Empty() {
		t.Fatal("expected empty result")
	}

	r.RecordMove(category.Images, "jpg")
	r.RecordMove(category.Documents, "docx")
	r.RecordMove(category.Archives, "zip")

	want := "known_extentions:\n\t\tdocx\n\t\tjpg\n\t\tzip\n"
	if got := r.Render(); got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
	if got := r.RenderInline(); got != "known_extentions: docx, jpg, zip" {
		t.Fatalf("RenderInline() = %q", got)
	}

	r.RecordMove(category.Other, "bin")
	if got := r.RenderInline(); got != "known_extentions: docx, jpg, zip\nunknown_extentions: bin" {
		t.Fatalf("RenderInline() with unknown = %q", got)
	}
	if got := r.Extensions(report.UnknownExtensions); len(got) != 1 || got[0] != "bin" {
		t.Fatalf("unexpected unknown extensions %v", got)
	}
}

func TestConcurrentRecordingIsOrderIndependent(t *testing.T) {
	exts := []string{"jpg", "png", "docx", "mp3", "zip", "exe", "bin"}
	build := func(reverse bool) string {
		r := report.NewResult()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			for j := range exts {
				idx := j
				if reverse {
					idx = len(exts) - 1 - j
				}
				ext := exts[idx]
				wg.Add(1)
				go func() {
					defer wg.Done()
					r.RecordMove(category.Default().ClassifyExt(ext), ext)
				}()
			}
		}
		wg.Wait()
		return r.Render()
	}
	if a, b := build(false), build(true); a != b {
		t.Fatalf("summary depends on ordering:\n%s\nvs\n%s", a, b)
	}
}
