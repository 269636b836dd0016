package kafka

import (
	"context"
	"errors"
	"testing"
)

func TestNewProducerValidatesArguments(t *testing.T) {
	if _, err := NewProducer(nil, "reservations"); err == nil {
		t.Error("expected error for empty broker list")
	}
	if _, err := NewProducer([]string{"localhost:9092"}, ""); err == nil {
		t.Error("expected error for empty topic")
	}
}

func TestProducerPublishRejectsEmptyFields(t *testing.T) {
	producer, err := NewProducer([]string{"localhost:9092"}, "reservations")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer producer.Close()

	if err := producer.Publish(context.Background(), Message{Value: []byte("{}")}); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("expected ErrEmptyKey, got: %v", err)
	}
	if err := producer.Publish(context.Background(), Message{Key: "venue-1"}); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("expected ErrEmptyValue, got: %v", err)
	}
}

func TestProducerClose(t *testing.T) {
	producer, err := NewProducer([]string{"localhost:9092"}, "reservations")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := producer.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := producer.Close(); err != nil {
		t.Errorf("second close should be a no-op, got: %v", err)
	}

	err = producer.Publish(context.Background(), Message{Key: "venue-1", Value: []byte("{}")})
	if !errors.Is(err, ErrProducerClosed) {
		t.Errorf("expected ErrProducerClosed, got: %v", err)
	}
}
