package service

import (
	"fmt"

	"github.com/MKhiriev/go-note-keeper/internal/config"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/realtime"
	"github.com/MKhiriev/go-note-keeper/internal/store"
)

type Services struct {
	AuthService          AuthService
	NoteService          NoteService
	CollaborationService CollaborationService
	AppInfoService       AppInfoService
}

// NewServices wires every service to the shared storages and the single
// process-wide publisher.
func NewServices(storages *store.Storages, publisher realtime.Publisher, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	collaboration := NewCollaborationService(storages.NoteRepository, storages.UserRepository, publisher, logger)

	return &Services{
		AuthService:          NewAuthService(storages.UserRepository, cfg.App, logger),
		NoteService:          NewNoteService(storages.NoteRepository, storages.UserRepository, storages.AssetStorage, publisher, collaboration, logger),
		CollaborationService: collaboration,
		AppInfoService:       appInfo,
	}, nil
}
