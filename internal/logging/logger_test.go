package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLevel(t *testing.T) {
	if got := New("debug").GetLevel(); got != logrus.DebugLevel {
		t.Fatalf("expected debug got %s", got)
	}
	if got := New("loud").GetLevel(); got != logrus.InfoLevel {
		t.Fatalf("expected invalid level to fall back to info got %s", got)
	}
	if _, ok := New("info").Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatal("expected JSON formatter")
	}
}
