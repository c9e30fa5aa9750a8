package main

import (
	"testing"
	"time"

	"github.com/jgoulah/energyadvisor/internal/llm"
)

func TestWriteTimeout_OutlastsGateway(t *testing.T) {
	tests := []struct {
		gemini time.Duration
		want   time.Duration
	}{
		{0, 2 * time.Minute},
		{30 * time.Second, 2 * time.Minute},
		{5 * time.Minute, 5*time.Minute + 30*time.Second},
	}
	for _, tt := range tests {
		got := writeTimeout(tt.gemini)
		if got != tt.want {
			t.Errorf("writeTimeout(%v) = %v, want %v", tt.gemini, got, tt.want)
		}
		effective := tt.gemini
		if effective <= 0 {
			effective = llm.DefaultTimeout
		}
		if got <= effective {
			t.Errorf("writeTimeout(%v) = %v does not outlast the gateway", tt.gemini, got)
		}
	}
}
