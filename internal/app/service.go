package app

import (
	"fmt"

	"github.com/shrimpsizemoose/skolklocka/internal/store"
)

// Service owns the process-wide collaborators: config, the single store
// handle and the credential check.
type Service struct {
	Config *Config
	Store  store.ScheduleStore
	Auth   *Auth
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewServiceFromConfig(config)
}

func NewServiceFromConfig(config *Config) (*Service, error) {
	st, err := NewStore(store.DBConfig{
		DSN:           config.Database.DSN,
		MigrationsDir: config.Database.MigrationsDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	auth, err := NewAuth(config)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to init auth: %w", err)
	}

	return &Service{
		Config: config,
		Store:  st,
		Auth:   auth,
	}, nil
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Auth.Close(); err != nil {
		errs = append(errs, fmt.Errorf("auth: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
