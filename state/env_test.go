package state

import (
	"context"
	"log"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"textpdf/common"
)

func TestContextWithEnv(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))

	if env.start.IsZero() {
		t.Error("start time not set")
	}
	if env.Log == nil {
		t.Error("logger must be usable before configuration is loaded")
	}
	if env.Format != common.OutputFmtPdf {
		t.Errorf("Format = %s, want pdf", env.Format)
	}
}

func TestEnvFromContext_Missing(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic when env not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := &LocalEnv{start: time.Now().Add(-time.Minute)}
	if up := env.Uptime(); up < time.Minute {
		t.Errorf("Uptime() = %v, expected at least a minute", up)
	}
}

func TestLocalEnv_StdLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	env := &LocalEnv{Log: zap.New(core)}

	for i := range 2 {
		env.RedirectStdLog()
		log.Print("from std log")
		env.RestoreStdLog()
		if env.restoreStdLog != nil {
			t.Errorf("cycle %d: restore function kept", i)
		}
	}
	if n := logs.FilterMessage("from std log").Len(); n != 2 {
		t.Errorf("captured %d std log messages, want 2", n)
	}
}

func TestLocalEnv_NilLogger(t *testing.T) {
	env := &LocalEnv{}
	env.RedirectStdLog()
	if env.restoreStdLog != nil {
		t.Error("nothing to redirect to")
	}
	env.RestoreStdLog()
}
