package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	apikeydomain "github.com/smallbiznis/workforcekpi/internal/apikey/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	apiKeySecretBytes         = 32
	apiKeyRotationGracePeriod = 24 * time.Hour
	bootstrapKeyName          = "bootstrap"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  apikeydomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  apikeydomain.Repository
	genID *snowflake.Node
	now   func() time.Time
}

func New(p Params) apikeydomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("apikey.service"),
		repo:  p.Repo,
		genID: p.GenID,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) List(ctx context.Context) ([]apikeydomain.Response, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]apikeydomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Create(ctx context.Context, req apikeydomain.CreateRequest) (*apikeydomain.SecretResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apikeydomain.ErrInvalidName
	}
	role, err := apikeydomain.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	key, plain, err := s.newKey(name, role, nil)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, s.db, key); err != nil {
		return nil, err
	}

	s.log.Info("api key created", zap.String("key_id", key.KeyID), zap.String("role", string(role)))
	return &apikeydomain.SecretResponse{KeyID: key.KeyID, Role: role, APIKey: plain}, nil
}

// Rotate issues a replacement key. The old key keeps working for a grace
// period so clients can switch over.
func (s *Service) Rotate(ctx context.Context, keyID string) (*apikeydomain.SecretResponse, error) {
	trimmed := strings.TrimSpace(keyID)
	if trimmed == "" {
		return nil, apikeydomain.ErrInvalidKeyID
	}

	var result *apikeydomain.SecretResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.repo.FindByKeyID(ctx, tx, trimmed)
		if err != nil {
			return err
		}
		now := s.now()
		if !current.Usable(now) {
			return apikeydomain.ErrNotFound
		}

		current.ExpiresAt = ptrTime(now.Add(apiKeyRotationGracePeriod))
		current.UpdatedAt = now
		if err := s.repo.Update(ctx, tx, current); err != nil {
			return err
		}

		rotatedFrom := current.KeyID
		next, plain, err := s.newKey(current.Name, current.Role, &rotatedFrom)
		if err != nil {
			return err
		}
		if err := s.repo.Insert(ctx, tx, next); err != nil {
			return err
		}

		result = &apikeydomain.SecretResponse{KeyID: next.KeyID, Role: next.Role, APIKey: plain}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) Revoke(ctx context.Context, keyID string) error {
	trimmed := strings.TrimSpace(keyID)
	if trimmed == "" {
		return apikeydomain.ErrInvalidKeyID
	}

	key, err := s.repo.FindByKeyID(ctx, s.db, trimmed)
	if err != nil {
		return err
	}
	if key == nil {
		return apikeydomain.ErrNotFound
	}

	now := s.now()
	key.IsActive = false
	key.UpdatedAt = now
	if key.ExpiresAt == nil || key.ExpiresAt.After(now) {
		key.ExpiresAt = &now
	}
	return s.repo.Update(ctx, s.db, key)
}

func (s *Service) Authenticate(ctx context.Context, raw string) (*apikeydomain.APIKey, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, apikeydomain.ErrUnauthorized
	}

	key, err := s.repo.FindByHash(ctx, s.db, apikeydomain.HashAPIKey(raw))
	if err != nil {
		return nil, err
	}
	now := s.now()
	if key == nil || !key.Usable(now) {
		if keyID, ok := apikeydomain.KeyIDFromToken(raw); ok {
			s.log.Debug("api key rejected", zap.String("key_id", keyID))
		}
		return nil, apikeydomain.ErrUnauthorized
	}

	if err := s.repo.TouchLastUsed(ctx, s.db, key.KeyID, now); err != nil {
		s.log.Warn("update api key last_used_at", zap.String("key_id", key.KeyID), zap.Error(err))
	}
	return key, nil
}

func (s *Service) EnsureBootstrap(ctx context.Context, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	existing, err := s.repo.FindByHash(ctx, s.db, apikeydomain.HashAPIKey(raw))
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	now := s.now()
	id := s.genID.Generate()
	key := &apikeydomain.APIKey{
		ID:        id,
		KeyID:     newKeyID(id),
		Name:      bootstrapKeyName,
		Role:      apikeydomain.RoleAdmin,
		KeyHash:   apikeydomain.HashAPIKey(raw),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, key); err != nil {
		return err
	}
	s.log.Info("bootstrap api key registered", zap.String("key_id", key.KeyID))
	return nil
}

func (s *Service) newKey(name string, role apikeydomain.Role, rotatedFrom *string) (*apikeydomain.APIKey, string, error) {
	now := s.now()
	id := s.genID.Generate()
	keyID := newKeyID(id)
	plain, hash, err := generateAPIKey(keyID)
	if err != nil {
		return nil, "", err
	}
	return &apikeydomain.APIKey{
		ID:               id,
		KeyID:            keyID,
		Name:             name,
		Role:             role,
		KeyHash:          hash,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
		RotatedFromKeyID: rotatedFrom,
	}, plain, nil
}

func toResponse(key *apikeydomain.APIKey) apikeydomain.Response {
	return apikeydomain.Response{
		KeyID:            key.KeyID,
		Name:             key.Name,
		Role:             key.Role,
		IsActive:         key.IsActive,
		CreatedAt:        key.CreatedAt,
		LastUsedAt:       key.LastUsedAt,
		ExpiresAt:        key.ExpiresAt,
		RotatedFromKeyID: key.RotatedFromKeyID,
	}
}

func generateAPIKey(keyID string) (string, string, error) {
	secret := make([]byte, apiKeySecretBytes)
	if _, err := rand.Read(secret); err != nil {
		return "", "", err
	}

	plain := apikeydomain.FormatToken(keyID, hex.EncodeToString(secret))
	return plain, apikeydomain.HashAPIKey(plain), nil
}

func newKeyID(id snowflake.ID) string {
	return "key_" + strings.ToUpper(strconv.FormatInt(int64(id), 36))
}

func ptrTime(value time.Time) *time.Time {
	return &value
}
