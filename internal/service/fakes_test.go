package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/HilaBluman/CEOS/internal/model"
)

// In-memory store fakes. All of them are safe for concurrent use so the
// concurrency-sensitive tests can hammer them from multiple goroutines.

type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]model.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user model.User) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Username == user.Username {
			return model.User{}, model.ErrConflict
		}
	}

	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

type fakeDocumentStore struct {
	mu        sync.Mutex
	nextID    int64
	documents map[int64]model.Document

	permissions *fakePermissionStore
	changes     *fakeChangeLogStore
	versions    *fakeVersionStore
}

func newFakeDocumentStore() *fakeDocumentStore {
	return &fakeDocumentStore{documents: make(map[int64]model.Document)}
}

func (f *fakeDocumentStore) CreateWithOwner(_ context.Context, document model.Document) (model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.documents {
		if existing.OwnerID == document.OwnerID && existing.Filename == document.Filename {
			return model.Document{}, model.ErrConflict
		}
	}

	f.nextID++
	document.FileID = f.nextID
	document.CreatedAt = time.Now()
	document.UpdatedAt = document.CreatedAt
	f.documents[document.FileID] = document

	if f.permissions != nil {
		f.permissions.setRole(document.FileID, document.OwnerID, model.RoleOwner)
	}
	return document, nil
}

func (f *fakeDocumentStore) GetByID(_ context.Context, fileID int64) (model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	document, ok := f.documents[fileID]
	if !ok {
		return model.Document{}, model.ErrNotFound
	}
	return document, nil
}

func (f *fakeDocumentStore) GetByOwnerAndName(_ context.Context, ownerID int64, filename string) (model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, document := range f.documents {
		if document.OwnerID == ownerID && document.Filename == filename {
			return document, nil
		}
	}
	return model.Document{}, model.ErrNotFound
}

func (f *fakeDocumentStore) Delete(_ context.Context, fileID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.documents[fileID]; !ok {
		return model.ErrNotFound
	}
	delete(f.documents, fileID)

	if f.permissions != nil {
		f.permissions.dropFile(fileID)
	}
	if f.changes != nil {
		f.changes.dropFile(fileID)
	}
	if f.versions != nil {
		f.versions.dropFile(fileID)
	}
	return nil
}

type roleKey struct {
	fileID int64
	userID int64
}

type fakePermissionStore struct {
	mu    sync.Mutex
	roles map[roleKey]model.Role
	users *fakeUserStore
	docs  *fakeDocumentStore
}

func newFakePermissionStore() *fakePermissionStore {
	return &fakePermissionStore{roles: make(map[roleKey]model.Role)}
}

func (f *fakePermissionStore) setRole(fileID, userID int64, role model.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[roleKey{fileID, userID}] = role
}

func (f *fakePermissionStore) dropFile(fileID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key := range f.roles {
		if key.fileID == fileID {
			delete(f.roles, key)
		}
	}
}

func (f *fakePermissionStore) Grant(_ context.Context, fileID, userID int64, role model.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := roleKey{fileID, userID}
	if _, ok := f.roles[key]; ok {
		return model.ErrConflict
	}
	f.roles[key] = role
	return nil
}

func (f *fakePermissionStore) Revoke(_ context.Context, fileID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := roleKey{fileID, userID}
	if _, ok := f.roles[key]; !ok {
		return model.ErrNotFound
	}
	delete(f.roles, key)
	return nil
}

func (f *fakePermissionStore) GetRole(_ context.Context, fileID, userID int64) (model.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	role, ok := f.roles[roleKey{fileID, userID}]
	if !ok {
		return "", model.ErrNotFound
	}
	return role, nil
}

func (f *fakePermissionStore) ListForFile(ctx context.Context, fileID int64) ([]model.AccessEntry, error) {
	f.mu.Lock()
	entries := make([]model.AccessEntry, 0)
	userIDs := make([]int64, 0)
	for key, role := range f.roles {
		if key.fileID == fileID {
			userIDs = append(userIDs, key.userID)
			entries = append(entries, model.AccessEntry{Role: role})
		}
	}
	f.mu.Unlock()

	for i, userID := range userIDs {
		if f.users != nil {
			user, err := f.users.GetByID(ctx, userID)
			if err == nil {
				entries[i].Username = user.Username
			}
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Username < entries[j].Username })
	return entries, nil
}

func (f *fakePermissionStore) ListForUser(ctx context.Context, userID int64) ([]model.DocumentRef, error) {
	f.mu.Lock()
	fileIDs := make([]int64, 0)
	for key := range f.roles {
		if key.userID == userID {
			fileIDs = append(fileIDs, key.fileID)
		}
	}
	f.mu.Unlock()

	sort.Slice(fileIDs, func(i, j int) bool { return fileIDs[i] < fileIDs[j] })

	refs := make([]model.DocumentRef, 0, len(fileIDs))
	for _, fileID := range fileIDs {
		ref := model.DocumentRef{FileID: fileID}
		if f.docs != nil {
			document, err := f.docs.GetByID(ctx, fileID)
			if err == nil {
				ref.Filename = document.Filename
			}
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

type fakeChangeLogStore struct {
	mu      sync.Mutex
	nextID  int64
	changes []model.Change
}

func newFakeChangeLogStore() *fakeChangeLogStore {
	return &fakeChangeLogStore{}
}

func (f *fakeChangeLogStore) dropFile(fileID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.changes[:0]
	for _, change := range f.changes {
		if change.FileID != fileID {
			kept = append(kept, change)
		}
	}
	f.changes = kept
}

func (f *fakeChangeLogStore) Append(_ context.Context, change model.Change) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	change.ModID = f.nextID
	change.CreatedAt = time.Now()
	f.changes = append(f.changes, change)
	return change.ModID, nil
}

func (f *fakeChangeLogStore) LastModID(_ context.Context, fileID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var last int64
	for _, change := range f.changes {
		if change.FileID == fileID && change.ModID > last {
			last = change.ModID
		}
	}
	return last, nil
}

func (f *fakeChangeLogStore) ChangesSince(_ context.Context, fileID, lastModID, excludingUserID int64) ([]model.Change, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]model.Change, 0)
	for _, change := range f.changes {
		if change.FileID == fileID && change.ModID > lastModID && change.UserID != excludingUserID {
			result = append(result, change)
		}
	}
	return result, nil
}

type versionKey struct {
	fileID int64
	number int
}

type fakeVersionStore struct {
	mu       sync.Mutex
	versions map[versionKey]model.Version
}

func newFakeVersionStore() *fakeVersionStore {
	return &fakeVersionStore{versions: make(map[versionKey]model.Version)}
}

func (f *fakeVersionStore) dropFile(fileID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key := range f.versions {
		if key.fileID == fileID {
			delete(f.versions, key)
		}
	}
}

func (f *fakeVersionStore) MaxVersion(_ context.Context, fileID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	max := 0
	for key := range f.versions {
		if key.fileID == fileID && key.number > max {
			max = key.number
		}
	}
	return max, nil
}

func (f *fakeVersionStore) Create(_ context.Context, version model.Version) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := versionKey{version.FileID, version.Number}
	if _, ok := f.versions[key]; ok {
		return model.ErrConflict
	}
	version.CreatedAt = time.Now()
	f.versions[key] = version
	return nil
}

func (f *fakeVersionStore) Get(_ context.Context, fileID int64, number int) (model.Version, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	version, ok := f.versions[versionKey{fileID, number}]
	if !ok {
		return model.Version{}, model.ErrNotFound
	}
	return version, nil
}

func (f *fakeVersionStore) Delete(_ context.Context, fileID int64, number int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := versionKey{fileID, number}
	if _, ok := f.versions[key]; !ok {
		return model.ErrNotFound
	}
	delete(f.versions, key)
	return nil
}

func (f *fakeVersionStore) List(_ context.Context, fileID int64) ([]model.Version, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]model.Version, 0)
	for key, version := range f.versions {
		if key.fileID == fileID {
			result = append(result, version)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte

	uploadErr   error
	downloadErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Upload(_ context.Context, key string, reader io.Reader) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.objects[key]
	if !ok {
		return nil, model.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok, nil
}

type fakeTokenManager struct{}

func (fakeTokenManager) GenerateAccessToken(userID int64) (string, error) {
	return "token-for-user", nil
}

func (fakeTokenManager) ParseAccessToken(string) (int64, error) {
	return 1, nil
}

// env bundles a fully wired set of fakes for scenario-style tests.
type env struct {
	users       *fakeUserStore
	documents   *fakeDocumentStore
	permissions *fakePermissionStore
	changes     *fakeChangeLogStore
	versions    *fakeVersionStore
	storage     *fakeStorage
}

func newEnv() *env {
	e := &env{
		users:       newFakeUserStore(),
		documents:   newFakeDocumentStore(),
		permissions: newFakePermissionStore(),
		changes:     newFakeChangeLogStore(),
		versions:    newFakeVersionStore(),
		storage:     newFakeStorage(),
	}
	e.documents.permissions = e.permissions
	e.documents.changes = e.changes
	e.documents.versions = e.versions
	e.permissions.users = e.users
	e.permissions.docs = e.documents
	return e
}
