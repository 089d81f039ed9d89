package service

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-cookie-sync/internal/cookies"
	"github.com/MKhiriev/go-cookie-sync/models"
)

// memSettings: потокобезопасное хранилище настроек в памяти.
type memSettings struct {
	mu    sync.Mutex
	meta  models.SyncMetadata
	prefs models.Preferences
	err   error
}

func (m *memSettings) LoadMeta(context.Context) (models.SyncMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meta, m.err
}

func (m *memSettings) UpdateMeta(_ context.Context, fn func(*models.SyncMetadata) error) (models.SyncMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.SyncMetadata{}, m.err
	}
	next := m.meta
	if err := fn(&next); err != nil {
		return models.SyncMetadata{}, err
	}
	m.meta = next
	return next, nil
}

func (m *memSettings) ClearMeta(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meta = models.SyncMetadata{}
	return m.err
}

func (m *memSettings) LoadPrefs(context.Context) (models.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prefs, m.err
}

func (m *memSettings) UpdatePrefs(_ context.Context, fn func(*models.Preferences) error) (models.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.Preferences{}, m.err
	}
	next := m.prefs
	next.DomainPolicies = append([]models.DomainPolicy(nil), m.prefs.DomainPolicies...)
	next.CookiePolicies = append([]models.CookiePolicy(nil), m.prefs.CookiePolicies...)
	if err := fn(&next); err != nil {
		return models.Preferences{}, err
	}
	m.prefs = next
	return next, nil
}

func (m *memSettings) snapshot() models.SyncMetadata {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meta
}

// memTokens хранит токен в памяти.
type memTokens struct {
	mu    sync.Mutex
	token string
	err   error
}

func (m *memTokens) Token(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.err
}

func (m *memTokens) SetToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.token = token
	return nil
}

func (m *memTokens) ClearToken(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return m.err
}

// memJar: локальная «банка» cookie. Записи с именами из failNames не
// применяются и считаются как Failed.
type memJar struct {
	mu        sync.Mutex
	cookies   []models.Cookie
	failNames map[string]bool
	listErr   error
	applyErr  error
	onList    func()
}

func newMemJar(cs ...models.Cookie) *memJar {
	return &memJar{cookies: cs, failNames: map[string]bool{}}
}

func (j *memJar) ListAll(context.Context) ([]models.Cookie, error) {
	if j.onList != nil {
		j.onList()
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.listErr != nil {
		return nil, j.listErr
	}
	return append([]models.Cookie(nil), j.cookies...), nil
}

func (j *memJar) Apply(_ context.Context, cs []models.Cookie) (cookies.ApplyResult, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.applyErr != nil {
		return cookies.ApplyResult{Failed: len(cs)}, j.applyErr
	}

	var res cookies.ApplyResult
	for _, c := range cs {
		if j.failNames[c.Name] {
			res.Failed++
			continue
		}
		j.upsert(c)
		res.Applied++
	}
	return res, nil
}

func (j *memJar) upsert(c models.Cookie) {
	for i, existing := range j.cookies {
		if existing.Domain == c.Domain && existing.Path == c.Path && existing.Name == c.Name {
			j.cookies[i] = c
			return
		}
	}
	j.cookies = append(j.cookies, c)
}

func (j *memJar) add(c models.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.upsert(c)
}

func (j *memJar) names() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, 0, len(j.cookies))
	for _, c := range j.cookies {
		out = append(out, c.Name)
	}
	return out
}

// recordingSink запоминает все сообщения о стадиях.
type recordingSink struct {
	mu   sync.Mutex
	msgs []models.StageMessage
}

func (r *recordingSink) Emit(msg models.StageMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recordingSink) stages() []models.Stage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Stage, 0, len(r.msgs))
	for _, m := range r.msgs {
		out = append(out, m.Stage)
	}
	return out
}

func (r *recordingSink) last() models.StageMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.msgs) == 0 {
		return models.StageMessage{}
	}
	return r.msgs[len(r.msgs)-1]
}
