// SPDX-License-Identifier: MIT

package log

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSetLevel(t *testing.T) {
	orig := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(orig)

	SetLevel("debug")
	if got := zerolog.GlobalLevel(); got != zerolog.DebugLevel {
		t.Errorf("global level: got %s, want %s", got, zerolog.DebugLevel)
	}

	SetLevel("warn")
	if got := zerolog.GlobalLevel(); got != zerolog.WarnLevel {
		t.Errorf("global level: got %s, want %s", got, zerolog.WarnLevel)
	}
}

func TestSetLevelIgnoresInvalid(t *testing.T) {
	orig := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(orig)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	SetLevel("chatty")
	if got := zerolog.GlobalLevel(); got != zerolog.InfoLevel {
		t.Errorf("global level changed on invalid input: got %s", got)
	}
}
