package services_test

import (
	"context"
	"testing"

	"dirsort/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithPass(ctx, "walk")
	ctx = services.WithCategory(ctx, "images")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if pass, ok := services.PassFromContext(ctx); !ok || pass != "walk" {
		t.Fatalf("unexpected pass: %v %v", pass, ok)
	}
	if category, ok := services.CategoryFromContext(ctx); !ok || category != "images" {
		t.Fatalf("unexpected category: %v %v", category, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithPass(ctx, "")
	ctx = services.WithRunID(ctx, "")
	if _, ok := services.PassFromContext(ctx); ok {
		t.Fatal("expected no pass value")
	}
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id value")
	}
}
