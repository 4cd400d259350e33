package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	var (
		addr    = "localhost:8080"
		static  = "./public"
		bot     = "Local Time"
		welcome = "hello there"
		orig    = []string{"http://localhost:3000"}
	)

	tcases := []struct {
		name            string
		addr            string
		bot             string
		welcome         string
		expectedWelcome string
		err             bool
	}{
		{
			name:            "valid config",
			addr:            addr,
			bot:             bot,
			welcome:         welcome,
			expectedWelcome: welcome,
		},
		{
			name:            "default welcome message",
			addr:            addr,
			bot:             bot,
			welcome:         "",
			expectedWelcome: DefaultWelcomeMessage,
		},
		{
			name:            "port only address",
			addr:            ":8000",
			bot:             bot,
			expectedWelcome: DefaultWelcomeMessage,
		},
		{
			name: "empty address",
			addr: "",
			bot:  bot,
			err:  true,
		},
		{
			name: "address without port",
			addr: "localhost",
			bot:  bot,
			err:  true,
		},
		{
			name: "blank bot name",
			addr: addr,
			bot:  "  ",
			err:  true,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			config, err := NewConfig(tc.addr, static, tc.bot, tc.welcome, orig)
			if tc.err {
				assert.Error(t, err, "expected error for config: %s", tc.name)
				return
			}
			assert.NoError(t, err, "expected no error for config: %s", tc.name)

			assert.Equal(t, tc.addr, config.ServerAddr, "expected server address to match")
			assert.Equal(t, static, config.StaticDir, "expected static dir to match")
			assert.Equal(t, tc.bot, config.BotName, "expected bot name to match")
			assert.Equal(t, tc.expectedWelcome, config.WelcomeMessage, "expected welcome message to match")
			assert.Equal(t, orig, config.AllowedOrigins, "expected allowed origins to match")
		})
	}
}
