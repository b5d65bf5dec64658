package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/auction1/pto-backend-go/internal/domain/pto"
	"github.com/auction1/pto-backend-go/internal/domain/user"
	"github.com/auction1/pto-backend-go/internal/pkg/storage"
)

// credentialDoc is one entry of user_db.json. Older documents carry the
// password under "pw".
type credentialDoc struct {
	Password   string     `json:"password,omitempty"`
	LegacyPW   string     `json:"pw,omitempty"`
	FirstLogin *bool      `json:"first_login,omitempty"`
	Role       string     `json:"role,omitempty"`
	Title      string     `json:"title,omitempty"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

func (d credentialDoc) toUser(name string) user.User {
	u := user.User{
		Name:         name,
		PasswordHash: d.Password,
		FirstLogin:   true,
		Role:         user.ParseRole(d.Role),
		Title:        d.Title,
	}
	if u.PasswordHash == "" {
		u.PasswordHash = d.LegacyPW
	}
	if d.FirstLogin != nil {
		u.FirstLogin = *d.FirstLogin
	}
	if d.UpdatedAt != nil {
		u.UpdatedAt = *d.UpdatedAt
	}
	return u
}

func newCredentialDoc(u user.User) credentialDoc {
	firstLogin := u.FirstLogin
	doc := credentialDoc{
		Password:   u.PasswordHash,
		FirstLogin: &firstLogin,
		Role:       string(u.Role),
		Title:      u.Title,
	}
	if !u.UpdatedAt.IsZero() {
		updated := u.UpdatedAt.UTC()
		doc.UpdatedAt = &updated
	}
	return doc
}

// userRepositoryImpl keeps credentials in user_db.json. Save rewrites the
// whole document; concurrent writers from other processes race and the
// last write wins.
type userRepositoryImpl struct {
	store storage.BlobStore
	mu    sync.Mutex
}

func NewUserRepository(store storage.BlobStore) user.UserRepository {
	return &userRepositoryImpl{store: store}
}

// GetByName implements user.UserRepository.
func (r *userRepositoryImpl) GetByName(ctx context.Context, name string) (user.User, error) {
	doc, _, err := r.load(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return user.User{}, user.ErrUserNotFound
	}
	if err != nil {
		return user.User{}, err
	}

	raw, ok := doc[name]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	var entry credentialDoc
	if err := json.Unmarshal(raw, &entry); err != nil {
		return user.User{}, fmt.Errorf("%w: decode %s: %v", user.ErrCredentialStore, name, err)
	}
	return entry.toUser(name), nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	doc, _, err := r.load(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return []user.User{}, nil
	}
	if err != nil {
		return nil, err
	}

	users := make([]user.User, 0, len(doc))
	for name, raw := range doc {
		var entry credentialDoc
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		users = append(users, entry.toUser(name))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

// Save implements user.UserRepository.
func (r *userRepositoryImpl) Save(ctx context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, id, err := r.load(ctx)
	missing := errors.Is(err, storage.ErrNotFound)
	if missing {
		doc = map[string]json.RawMessage{}
	} else if err != nil {
		return err
	}

	entry, err := json.Marshal(newCredentialDoc(u))
	if err != nil {
		return fmt.Errorf("encode %s: %w", u.Name, err)
	}
	doc[u.Name] = entry

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", pto.UserDBFile, err)
	}
	if missing {
		if _, err := r.store.Create(ctx, pto.UserDBFile, bytes.NewReader(body), "application/json"); err != nil {
			return fmt.Errorf("%w: create: %v", user.ErrCredentialStore, err)
		}
		return nil
	}
	if err := r.store.Upload(ctx, id, bytes.NewReader(body), "application/json"); err != nil {
		return fmt.Errorf("%w: upload: %v", user.ErrCredentialStore, err)
	}
	return nil
}

// load returns the raw document and its file id. A missing document is
// reported as storage.ErrNotFound wrapped in user.ErrCredentialStore.
func (r *userRepositoryImpl) load(ctx context.Context) (map[string]json.RawMessage, string, error) {
	objects, err := r.store.List(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("%w: list: %v", user.ErrCredentialStore, err)
	}
	obj, ok := storage.FindByName(objects, pto.UserDBFile)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s: %w", user.ErrCredentialStore, pto.UserDBFile, storage.ErrNotFound)
	}

	data, err := storage.ReadAll(ctx, r.store, obj.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: download: %v", user.ErrCredentialStore, err)
	}

	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, "", fmt.Errorf("%w: decode %s: %v", user.ErrCredentialStore, pto.UserDBFile, err)
	}
	return doc, obj.ID, nil
}
