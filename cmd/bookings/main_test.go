package main

import (
	"testing"
	"time"

	"seatplan/pkg/config"
	"seatplan/pkg/logger"
)

func pollConfig(write, request, poll time.Duration) *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		WriteTimeout:      write,
		RequestTimeout:    request,
		ChangePollTimeout: poll,
	}
}

func TestEnsureLongPollHeadroom_RaisesBothTimeouts(t *testing.T) {
	cfg := pollConfig(15*time.Second, 30*time.Second, 55*time.Second)

	ensureLongPollHeadroom(cfg)

	if cfg.WriteTimeout <= cfg.ChangePollTimeout {
		t.Errorf("WriteTimeout %v must outlast the poll window %v", cfg.WriteTimeout, cfg.ChangePollTimeout)
	}
	if cfg.RequestTimeout <= cfg.ChangePollTimeout {
		t.Errorf("RequestTimeout %v must outlast the poll window %v", cfg.RequestTimeout, cfg.ChangePollTimeout)
	}
	if want := 60 * time.Second; cfg.WriteTimeout != want || cfg.RequestTimeout != want {
		t.Errorf("expected both timeouts at %v, got write %v request %v", want, cfg.WriteTimeout, cfg.RequestTimeout)
	}
}

func TestEnsureLongPollHeadroom_LeavesAmpleTimeoutsAlone(t *testing.T) {
	cfg := pollConfig(2*time.Minute, 90*time.Second, 55*time.Second)

	ensureLongPollHeadroom(cfg)

	if cfg.WriteTimeout != 2*time.Minute {
		t.Errorf("WriteTimeout changed to %v", cfg.WriteTimeout)
	}
	if cfg.RequestTimeout != 90*time.Second {
		t.Errorf("RequestTimeout changed to %v", cfg.RequestTimeout)
	}
}
