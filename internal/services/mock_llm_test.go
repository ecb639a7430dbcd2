package services

import (
	"context"
	"errors"
	"testing"
)

func TestMockLLM_ResponsesInOrder(t *testing.T) {
	mock := NewMockLLM("first", "second")
	ctx := context.Background()

	resp, err := mock.Complete(ctx, "prompt 1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp != "first" {
		t.Errorf("Expected 'first', got %q", resp)
	}

	resp, _ = mock.Complete(ctx, "prompt 2")
	if resp != "second" {
		t.Errorf("Expected 'second', got %q", resp)
	}

	// Past the end of the queue, the last response repeats.
	resp, _ = mock.Complete(ctx, "prompt 3")
	if resp != "second" {
		t.Errorf("Expected 'second' again, got %q", resp)
	}

	if mock.CallCount() != 3 {
		t.Errorf("Expected 3 calls, got %d", mock.CallCount())
	}
	if mock.CompleteCalls[0] != "prompt 1" {
		t.Errorf("Prompts should be recorded, got %q", mock.CompleteCalls[0])
	}
}

func TestMockLLM_EmptyQueueErrors(t *testing.T) {
	mock := NewMockLLM()

	if _, err := mock.Complete(context.Background(), "prompt"); !errors.Is(err, ErrServiceUnavailable) {
		t.Errorf("Expected ErrServiceUnavailable, got %v", err)
	}
}

func TestMockLLM_CompleteFuncOverride(t *testing.T) {
	mock := NewMockLLM("queued")
	mock.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
		return "override", nil
	}

	resp, err := mock.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp != "override" {
		t.Errorf("CompleteFunc should take precedence, got %q", resp)
	}
}

func TestMockLLM_InitModel(t *testing.T) {
	mock := NewMockLLM()

	if err := mock.InitModel(context.Background(), "test-model"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(mock.InitModelCalls) != 1 || mock.InitModelCalls[0] != "test-model" {
		t.Errorf("Init calls should be recorded, got %v", mock.InitModelCalls)
	}

	mock.InitModelFunc = func(ctx context.Context, modelName string) error {
		return errors.New("boom")
	}
	if err := mock.InitModel(context.Background(), "test-model"); err == nil {
		t.Error("Expected configured error")
	}
}
