package service

import (
	"github.com/MKhiriev/go-cookie-sync/internal/adapter"
	"github.com/MKhiriev/go-cookie-sync/internal/cookies"
	"github.com/MKhiriev/go-cookie-sync/internal/crypto"
	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/MKhiriev/go-cookie-sync/internal/store"
)

// ClientServices groups every client-side service.
type ClientServices struct {
	CredentialService ClientCredentialService
	PolicyService     ClientPolicyService
	SyncService       ClientSyncService
	SyncJob           ClientSyncJob
}

// ClientDeps are the collaborators the services are built on.
type ClientDeps struct {
	Storages *store.ClientStorages
	Remote   adapter.RemoteStore
	Jar      cookies.Store
	Engine   crypto.Engine
	Session  *crypto.Session
	// FixedToken overrides the saved token when set.
	FixedToken string
	// JobSink receives stages of scheduled syncs; nil discards them.
	JobSink StageSink
}

func NewClientServices(deps ClientDeps, logger *logger.Logger) *ClientServices {
	credentials := NewClientCredentialService(deps.Storages.Tokens, deps.Session, deps.FixedToken, logger)
	syncSvc := NewClientSyncService(deps.Storages.Settings, credentials, deps.Remote, deps.Jar, deps.Engine, logger)

	return &ClientServices{
		CredentialService: credentials,
		PolicyService:     NewClientPolicyService(deps.Storages.Settings, logger),
		SyncService:       syncSvc,
		SyncJob:           NewClientSyncJob(syncSvc, deps.JobSink, logger),
	}
}
