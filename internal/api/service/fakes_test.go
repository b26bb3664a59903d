package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"blockgen"
	"blockgen/internal/api/handler/mapper"
	"blockgen/internal/api/models"
	"blockgen/internal/gen"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type fakeUserStore struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint]*models.User{}}
}

func (f *fakeUserStore) FindByEmail(email string) (models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) FindByID(id uint) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return *u, nil
}

func (f *fakeUserStore) Create(user *models.User) error {
	f.nextID++
	user.ID = f.nextID
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserStore) Update(user *models.User) error {
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserStore) ExistsByEmail(email string) (bool, error) {
	_, err := f.FindByEmail(email)
	return err == nil, nil
}

type fakeProjectStore struct {
	projects map[uint]models.Project
	nextID   uint
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: map[uint]models.Project{}}
}

func (f *fakeProjectStore) FindByID(id uint) (models.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return models.Project{}, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeProjectStore) FindAllByOwner(ownerID uint) ([]models.Project, error) {
	var out []models.Project
	for id := uint(1); id <= f.nextID; id++ {
		if p, ok := f.projects[id]; ok && p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProjectStore) Create(project *models.Project) error {
	f.nextID++
	project.ID = f.nextID
	f.projects[project.ID] = *project
	return nil
}

func (f *fakeProjectStore) Update(project *models.Project) error {
	f.projects[project.ID] = *project
	return nil
}

func (f *fakeProjectStore) Delete(id uint) error {
	delete(f.projects, id)
	return nil
}

type fakeArtifactStore struct {
	artifacts []models.Artifact
	failNext  bool
}

func (f *fakeArtifactStore) CreateBatch(artifacts []models.Artifact) error {
	if f.failNext {
		f.failNext = false
		return errors.New("insert failed")
	}
	for i := range artifacts {
		artifacts[i].ID = uint(len(f.artifacts) + 1)
		f.artifacts = append(f.artifacts, artifacts[i])
	}
	return nil
}

func (f *fakeArtifactStore) FindByProject(projectID uint) ([]models.Artifact, error) {
	var out []models.Artifact
	for _, a := range f.artifacts {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeArtifactStore) FindByID(projectID, id uint) (models.Artifact, error) {
	for _, a := range f.artifacts {
		if a.ID == id && a.ProjectID == projectID {
			return a, nil
		}
	}
	return models.Artifact{}, gorm.ErrRecordNotFound
}

// fakeCache stores JSON like pkg.RedisCache does
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (f *fakeCache) Get(_ context.Context, key string, dest any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	data, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = data
	return nil
}

type publishedMsg struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	messages []publishedMsg
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	f.messages = append(f.messages, publishedMsg{subject: subject, data: data})
	return nil
}

func newTestGenerationService(cache Cache) *GenerationService {
	return NewGenerationServiceWith(cache, gen.DefaultOptions(), time.Minute, zerolog.Nop())
}

func newTestProjectService() (*ProjectService, *fakeProjectStore, *fakeArtifactStore, *fakePublisher) {
	projects := newFakeProjectStore()
	artifacts := &fakeArtifactStore{}
	events := &fakePublisher{}
	return &ProjectService{
		projects:   projects,
		artifacts:  artifacts,
		generation: newTestGenerationService(newFakeCache()),
		events:     events,
		tenantID:   "acme",
		mapper:     mapper.NewProjectMapper(),
		logger:     zerolog.Nop(),
	}, projects, artifacts, events
}

func testConfig() blockgen.AppConfig {
	var cfg blockgen.AppConfig
	cfg.JWTConfig.Secret = "test-secret"
	cfg.JWTConfig.Expiration = 15
	cfg.JWTConfig.RefreshExpiration = 30
	cfg.SmtpConfig.Host = "smtp.example.com"
	cfg.SmtpConfig.Port = 587
	cfg.SmtpConfig.Username = "robot@example.com"
	cfg.SmtpConfig.From = "blockgen@example.com"
	return cfg
}
