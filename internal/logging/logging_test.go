package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"

	"vision-overlay/config"
)

func TestServiceLogger_AddsFields(t *testing.T) {
	prev := log.Logger
	defer func() { log.Logger = prev }()

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	l := WithRequest(NewServiceLogger("renderer"), "req-1")
	l.Info().Msg("hello")

	require.Contains(t, buf.String(), `"service":"renderer"`)
	require.Contains(t, buf.String(), `"request_id":"req-1"`)
}

func TestSetup_InvalidLevelFallsBackToInfo(t *testing.T) {
	prev, prevLevel := log.Logger, zerolog.GlobalLevel()
	defer func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	}()

	Setup(&config.Config{Environment: "production", LogLevel: "loud"})
	require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	Setup(&config.Config{Environment: "production", LogLevel: "debug"})
	require.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}
