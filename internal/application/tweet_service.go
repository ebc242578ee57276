package application

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/domain/entity"
	repo "github.com/vidtube/backend/internal/domain/repository"
)

// TweetService implements community-post use cases.
type TweetService struct {
	Tweets repo.TweetRepository
}

func NewTweetService(tweets repo.TweetRepository) *TweetService {
	return &TweetService{Tweets: tweets}
}

func (s *TweetService) Create(ctx context.Context, ownerID, content string) (*entity.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrMissingFields
	}
	t := &entity.Tweet{OwnerID: ownerID, Content: content}
	if err := s.Tweets.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TweetService) ListByUser(ctx context.Context, userID string) ([]entity.Tweet, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrInvalidID
	}
	return s.Tweets.ListByOwner(ctx, userID)
}

func (s *TweetService) Update(ctx context.Context, tweetID, requesterID, content string) (*entity.Tweet, error) {
	t, err := s.ownedTweet(ctx, tweetID, requesterID)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrMissingFields
	}
	t.Content = content
	if err := s.Tweets.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TweetService) Delete(ctx context.Context, tweetID, requesterID string) error {
	t, err := s.ownedTweet(ctx, tweetID, requesterID)
	if err != nil {
		return err
	}
	return s.Tweets.Delete(ctx, t.ID)
}

func (s *TweetService) ownedTweet(ctx context.Context, tweetID, requesterID string) (*entity.Tweet, error) {
	if _, err := uuid.Parse(tweetID); err != nil {
		return nil, ErrInvalidID
	}
	t, err := s.Tweets.GetByID(ctx, tweetID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTweetNotFound
		}
		return nil, err
	}
	if t.OwnerID != requesterID {
		return nil, ErrNotOwner
	}
	return t, nil
}
