package config

import (
	"fmt"
	"net"
	"strings"
)

const DefaultWelcomeMessage = "You have now entered Pangea!"

type Config struct {
	ServerAddr     string
	StaticDir      string
	BotName        string
	WelcomeMessage string
	AllowedOrigins []string
}

func validateAddr(addr string) error {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("invalid server address %q: %w", addr, err)
	}

	return nil
}

func NewConfig(serverAddr, staticDir, botName, welcome string, allowedOrigins []string) (*Config, error) {
	if serverAddr == "" {
		return nil, fmt.Errorf("server address cannot be empty")
	}
	if err := validateAddr(serverAddr); err != nil {
		return nil, err
	}
	if strings.TrimSpace(botName) == "" {
		return nil, fmt.Errorf("bot name cannot be empty")
	}
	if welcome == "" {
		welcome = DefaultWelcomeMessage
	}

	return &Config{
		ServerAddr:     serverAddr,
		StaticDir:      staticDir,
		BotName:        botName,
		WelcomeMessage: welcome,
		AllowedOrigins: allowedOrigins,
	}, nil
}
