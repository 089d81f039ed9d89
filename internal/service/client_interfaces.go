package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-cookie-sync/models"
)

// ClientSyncService runs sync operations between the local cookie jar and
// the remote encrypted blob.
type ClientSyncService interface {
	// SyncNow runs one sync in the given direction and reports every stage
	// transition to sink before the matching work starts.
	//
	// If another sync is already in flight the call does nothing and
	// returns a report with Dropped set and a nil error. Failures are
	// returned as *StageError naming the last entered stage; the same
	// message is emitted to sink as an error stage.
	SyncNow(ctx context.Context, direction models.SyncDirection, sink StageSink) (models.SyncReport, error)

	// Status returns the persisted sync metadata and whether a sync is
	// currently running.
	Status(ctx context.Context) (models.SyncMetadata, bool, error)

	// Reset forgets the remote object id, ETag and last pushed hash.
	Reset(ctx context.Context) error
}

// ClientSyncJob runs auto syncs on an interval.
type ClientSyncJob interface {
	// Start launches the background loop, stopping any previous one. A
	// non-positive interval falls back to the job's default.
	Start(ctx context.Context, interval time.Duration)

	// Stop cancels the loop and waits for it to exit.
	Stop()
}

// ClientPolicyService edits the sync preferences stored in settings.
type ClientPolicyService interface {
	Preferences(ctx context.Context) (models.Preferences, error)

	// SetDomainPolicy adds or replaces the policy for pattern. The pattern
	// is normalized to start with ".".
	SetDomainPolicy(ctx context.Context, pattern string, mode models.PolicyMode) (models.DomainPolicy, error)
	RemoveDomainPolicy(ctx context.Context, pattern string) (bool, error)

	// SetCookiePolicy adds or replaces the policy for id ("name@domain").
	SetCookiePolicy(ctx context.Context, id string, mode models.PolicyMode) error
	RemoveCookiePolicy(ctx context.Context, id string) (bool, error)

	// SetFilters replaces the literal allow/block domain lists.
	SetFilters(ctx context.Context, filters models.DomainFilters) error

	// SetSchedule stores the auto-sync interval in whole minutes. Zero
	// restores the configured default.
	SetSchedule(ctx context.Context, minutes int) error
}

// ClientCredentialService manages the token and the session passphrase.
type ClientCredentialService interface {
	SaveToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error

	// Unlock keeps passphrase in memory for this process only.
	Unlock(passphrase string) error
	// Lock wipes the in-memory passphrase.
	Lock()

	// Credentials returns both secrets or [ErrCredentialsMissing].
	Credentials(ctx context.Context) (models.Credentials, error)
}
