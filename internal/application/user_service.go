package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vidtube/backend/internal/domain/entity"
	repo "github.com/vidtube/backend/internal/domain/repository"
	"github.com/vidtube/backend/pkg/helpers"
	"github.com/vidtube/backend/pkg/mailer"
	"github.com/vidtube/backend/pkg/media"
)

// EmailEnqueuer publishes email jobs to the async worker queue.
// *helpers.RabbitPublisher satisfies it; a nil enqueuer disables email.
type EmailEnqueuer interface {
	PublishJSON(ctx context.Context, body any) error
}

// UserService implements the account and session use cases.
type UserService struct {
	Users   repo.UserRepository
	Subs    repo.SubscriptionRepository
	JWT     *helpers.JWTManager
	Media   media.Uploader
	Mail    EmailEnqueuer
	Logger  *logrus.Logger
	AppName string
}

func NewUserService(users repo.UserRepository, subs repo.SubscriptionRepository, jwt *helpers.JWTManager, uploader media.Uploader, mail EmailEnqueuer, logger *logrus.Logger, appName string) *UserService {
	return &UserService{Users: users, Subs: subs, JWT: jwt, Media: uploader, Mail: mail, Logger: logger, AppName: appName}
}

// TokenPair is an issued access/refresh token set.
type TokenPair struct {
	AccessToken        string    `json:"accessToken"`
	AccessTokenExpiry  time.Time `json:"accessTokenExpiry"`
	RefreshToken       string    `json:"refreshToken"`
	RefreshTokenExpiry time.Time `json:"refreshTokenExpiry"`
}

type RegisterInput struct {
	FullName string
	Email    string
	Username string
	Password string

	// Local paths of the uploaded form files. Avatar is mandatory; both are
	// consumed (deleted) by the media collaborator on every path.
	AvatarPath     string
	CoverImagePath string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.PublicUser, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if fullName == "" || email == "" || username == "" || strings.TrimSpace(in.Password) == "" {
		return nil, ErrMissingFields
	}

	exists, err := s.Users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	// Avatar must land in storage before the record exists.
	avatar, err := s.Media.Upload(ctx, in.AvatarPath, "avatars")
	if err != nil {
		return nil, errors.Join(ErrUploadFailed, err)
	}

	u := &entity.User{
		Username:      username,
		Email:         email,
		FullName:      fullName,
		Password:      hash,
		AvatarURL:     avatar.URL,
		AvatarAssetID: avatar.AssetID,
	}
	if in.CoverImagePath != "" {
		cover, cerr := s.Media.Upload(ctx, in.CoverImagePath, "covers")
		if cerr != nil {
			// The avatar asset is already durable; drop it rather than leak it.
			if derr := s.Media.Delete(ctx, avatar.AssetID); derr != nil && s.Logger != nil {
				s.Logger.WithError(derr).WithField("asset_id", avatar.AssetID).Warn("asset delete failed")
			}
			return nil, errors.Join(ErrUploadFailed, cerr)
		}
		u.CoverImageURL = cover.URL
		u.CoverImageAssetID = cover.AssetID
	}

	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.enqueueWelcome(ctx, u)

	pub := u.Public()
	return &pub, nil
}

func (s *UserService) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Mail == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data: map[string]any{
			"AppName":  s.AppName,
			"FullName": u.FullName,
			"Username": u.Username,
		},
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue welcome email failed")
	}
}

// Login authenticates by username or email and issues a fresh token pair,
// persisting the refresh-token digest on the user row.
func (s *UserService) Login(ctx context.Context, username, email, password string) (*entity.PublicUser, TokenPair, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" && email == "" {
		return nil, TokenPair{}, ErrMissingFields
	}

	u, err := s.Users.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, TokenPair{}, ErrUserNotFound
		}
		return nil, TokenPair{}, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pub := u.Public()
	return &pub, pair, nil
}

func (s *UserService) issueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, u.Email, u.Username, u.FullName)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.Users.SetRefreshToken(ctx, u.ID, helpers.HashToken(refresh)); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Logout unsets the persisted refresh-token digest, invalidating the session
// even though the outstanding JWTs remain signature-valid until expiry.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	err := s.Users.ClearRefreshToken(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// Refresh rotates the token pair. The presented token must match the
// persisted digest; the swap is atomic so a stale or reused token can never
// displace a concurrent rotation.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidToken
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, ErrInvalidToken
	}
	oldHash := helpers.HashToken(refreshToken)
	if u.RefreshTokenHash == "" || u.RefreshTokenHash != oldHash {
		return TokenPair{}, ErrInvalidToken
	}

	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, u.Email, u.Username, u.FullName)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.Users.RotateRefreshToken(ctx, u.ID, oldHash, helpers.HashToken(refresh)); err != nil {
		if errors.Is(err, repo.ErrStaleData) {
			return TokenPair{}, ErrInvalidToken
		}
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.PublicUser, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	pub := u.Public()
	return &pub, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !helpers.CompareHashAndPassword(u.Password, oldPassword) {
		return ErrInvalidCredentials
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, userID, hash)
}

// UpdateProfile changes fullName and email, both mandatory.
func (s *UserService) UpdateProfile(ctx context.Context, userID, fullName, email string) (*entity.PublicUser, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	if fullName == "" || email == "" {
		return nil, ErrMissingFields
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u.FullName = fullName
	u.Email = email
	if err := s.Users.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	pub := u.Public()
	return &pub, nil
}

// UpdateAvatar replaces the avatar with a freshly uploaded file. The previous
// asset is intentionally left in storage.
func (s *UserService) UpdateAvatar(ctx context.Context, userID, localPath string) (*entity.PublicUser, error) {
	return s.updateImage(ctx, userID, localPath, "avatars", func(u *entity.User, a *media.Asset) {
		u.AvatarURL = a.URL
		u.AvatarAssetID = a.AssetID
	})
}

// UpdateCoverImage replaces the cover image with a freshly uploaded file.
func (s *UserService) UpdateCoverImage(ctx context.Context, userID, localPath string) (*entity.PublicUser, error) {
	return s.updateImage(ctx, userID, localPath, "covers", func(u *entity.User, a *media.Asset) {
		u.CoverImageURL = a.URL
		u.CoverImageAssetID = a.AssetID
	})
}

func (s *UserService) updateImage(ctx context.Context, userID, localPath, folder string, apply func(*entity.User, *media.Asset)) (*entity.PublicUser, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	asset, err := s.Media.Upload(ctx, localPath, folder)
	if err != nil {
		return nil, errors.Join(ErrUploadFailed, err)
	}
	if asset.URL == "" {
		return nil, ErrUploadFailed
	}
	apply(u, asset)
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	pub := u.Public()
	return &pub, nil
}

// ChannelProfile returns the public channel aggregation for username as seen
// by viewerID (may be empty for anonymous requests).
func (s *UserService) ChannelProfile(ctx context.Context, username, viewerID string) (*entity.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, ErrMissingFields
	}
	p, err := s.Users.ChannelProfile(ctx, username, viewerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *UserService) WatchHistory(ctx context.Context, userID string) ([]entity.WatchHistoryEntry, error) {
	return s.Users.GetWatchHistory(ctx, userID)
}

// ToggleSubscription flips the subscription of subscriberID to channelID and
// reports the resulting state.
func (s *UserService) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error) {
	if _, err := uuid.Parse(channelID); err != nil {
		return false, ErrInvalidID
	}
	if subscriberID == channelID {
		return false, ErrSelfSubscription
	}
	if _, err := s.Users.GetByID(ctx, channelID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	return s.Subs.Toggle(ctx, subscriberID, channelID)
}
