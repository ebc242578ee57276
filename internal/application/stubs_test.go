package application

import (
	"context"
	"fmt"

	"github.com/vidtube/backend/internal/domain/entity"
	repo "github.com/vidtube/backend/internal/domain/repository"
	"github.com/vidtube/backend/pkg/media"
)

// In-memory repository doubles. They honor the repository sentinel errors so
// services exercise the same error paths as against Postgres.

type fakeUserRepo struct {
	users   map[string]*entity.User
	nextID  int
	history []string // videoIDs in watch order

	createErr error
	rotateErr error

	rotateCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, e := range r.users {
		if e.Username == u.Username || e.Email == u.Email {
			return repo.ErrConflict
		}
	}
	r.nextID++
	u.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", r.nextID)
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsernameOrEmail(_ context.Context, username, email string) (*entity.User, error) {
	for _, u := range r.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *fakeUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	_, err := r.GetByUsernameOrEmail(context.Background(), username, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Password = passwordHash
	return nil
}

func (r *fakeUserRepo) SetRefreshToken(_ context.Context, id, tokenHash string) error {
	u, ok := r.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.RefreshTokenHash = tokenHash
	return nil
}

func (r *fakeUserRepo) ClearRefreshToken(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.RefreshTokenHash = ""
	return nil
}

func (r *fakeUserRepo) RotateRefreshToken(_ context.Context, id, oldHash, newHash string) error {
	r.rotateCalls++
	if r.rotateErr != nil {
		return r.rotateErr
	}
	u, ok := r.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	if u.RefreshTokenHash != oldHash {
		return repo.ErrStaleData
	}
	u.RefreshTokenHash = newHash
	return nil
}

func (r *fakeUserRepo) AddWatchHistory(_ context.Context, userID, videoID string) error {
	r.history = append(r.history, userID+":"+videoID)
	return nil
}

func (r *fakeUserRepo) GetWatchHistory(_ context.Context, _ string) ([]entity.WatchHistoryEntry, error) {
	return nil, nil
}

func (r *fakeUserRepo) ChannelProfile(_ context.Context, username, viewerID string) (*entity.ChannelProfile, error) {
	for _, u := range r.users {
		if u.Username == username {
			return &entity.ChannelProfile{
				ID:       u.ID,
				Username: u.Username,
				FullName: u.FullName,
			}, nil
		}
	}
	return nil, repo.ErrNotFound
}

var _ repo.UserRepository = (*fakeUserRepo)(nil)

type fakeSubRepo struct {
	links map[string]bool // subscriberID:channelID
}

func newFakeSubRepo() *fakeSubRepo {
	return &fakeSubRepo{links: map[string]bool{}}
}

func (r *fakeSubRepo) Toggle(_ context.Context, subscriberID, channelID string) (bool, error) {
	key := subscriberID + ":" + channelID
	if r.links[key] {
		delete(r.links, key)
		return false, nil
	}
	r.links[key] = true
	return true, nil
}

func (r *fakeSubRepo) IsSubscribed(_ context.Context, subscriberID, channelID string) (bool, error) {
	return r.links[subscriberID+":"+channelID], nil
}

var _ repo.SubscriptionRepository = (*fakeSubRepo)(nil)

type fakeVideoRepo struct {
	videos map[string]*entity.Video
	owners map[string]entity.VideoOwner
	nextID int

	lastList repo.VideoListParams
	listErr  error
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: map[string]*entity.Video{}, owners: map[string]entity.VideoOwner{}}
}

func (r *fakeVideoRepo) Create(_ context.Context, v *entity.Video) error {
	r.nextID++
	v.ID = fmt.Sprintf("10000000-0000-0000-0000-%012d", r.nextID)
	cp := *v
	r.videos[v.ID] = &cp
	return nil
}

func (r *fakeVideoRepo) GetByID(_ context.Context, id string) (*entity.Video, error) {
	v, ok := r.videos[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVideoRepo) GetByIDWithOwner(_ context.Context, id string) (*entity.VideoWithOwner, error) {
	v, err := r.GetByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	return &entity.VideoWithOwner{Video: *v, Owner: r.owners[v.OwnerID]}, nil
}

func (r *fakeVideoRepo) Update(_ context.Context, v *entity.Video) error {
	if _, ok := r.videos[v.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *v
	r.videos[v.ID] = &cp
	return nil
}

func (r *fakeVideoRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.videos[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.videos, id)
	return nil
}

func (r *fakeVideoRepo) SetPublished(_ context.Context, id string, published bool) error {
	v, ok := r.videos[id]
	if !ok {
		return repo.ErrNotFound
	}
	v.IsPublished = published
	return nil
}

func (r *fakeVideoRepo) IncrementViews(_ context.Context, id string) error {
	v, ok := r.videos[id]
	if !ok {
		return repo.ErrNotFound
	}
	v.Views++
	return nil
}

func (r *fakeVideoRepo) List(_ context.Context, p repo.VideoListParams) ([]entity.VideoWithOwner, int64, error) {
	r.lastList = p
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	var out []entity.VideoWithOwner
	for _, v := range r.videos {
		if !v.IsPublished {
			continue
		}
		if p.OwnerID != "" && v.OwnerID != p.OwnerID {
			continue
		}
		if len(p.MatchIDs) > 0 {
			hit := false
			for _, id := range p.MatchIDs {
				if id == v.ID {
					hit = true
					break
				}
			}
			if !hit {
				continue
			}
		}
		out = append(out, entity.VideoWithOwner{Video: *v, Owner: r.owners[v.OwnerID]})
	}
	return out, int64(len(out)), nil
}

var _ repo.VideoRepository = (*fakeVideoRepo)(nil)

type fakeTweetRepo struct {
	tweets map[string]*entity.Tweet
	nextID int
}

func newFakeTweetRepo() *fakeTweetRepo {
	return &fakeTweetRepo{tweets: map[string]*entity.Tweet{}}
}

func (r *fakeTweetRepo) Create(_ context.Context, t *entity.Tweet) error {
	r.nextID++
	t.ID = fmt.Sprintf("20000000-0000-0000-0000-%012d", r.nextID)
	cp := *t
	r.tweets[t.ID] = &cp
	return nil
}

func (r *fakeTweetRepo) GetByID(_ context.Context, id string) (*entity.Tweet, error) {
	t, ok := r.tweets[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTweetRepo) ListByOwner(_ context.Context, ownerID string) ([]entity.Tweet, error) {
	var out []entity.Tweet
	for _, t := range r.tweets {
		if t.OwnerID == ownerID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTweetRepo) Update(_ context.Context, t *entity.Tweet) error {
	if _, ok := r.tweets[t.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *t
	r.tweets[t.ID] = &cp
	return nil
}

func (r *fakeTweetRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tweets[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.tweets, id)
	return nil
}

var _ repo.TweetRepository = (*fakeTweetRepo)(nil)

// fakeUploader fabricates assets without touching the filesystem. failFolder
// makes uploads into that folder fail, to exercise cleanup paths.
type fakeUploader struct {
	uploads    []string // folders in upload order
	deleted    []string // asset ids
	failFolder string
	seq        int
}

func (u *fakeUploader) Upload(_ context.Context, localPath, folder string) (*media.Asset, error) {
	if folder == u.failFolder {
		return nil, fmt.Errorf("upload to %s failed", folder)
	}
	u.seq++
	u.uploads = append(u.uploads, folder)
	id := fmt.Sprintf("%s/asset-%d", folder, u.seq)
	return &media.Asset{URL: "https://cdn.test/" + id, AssetID: id}, nil
}

func (u *fakeUploader) Delete(_ context.Context, assetID string) error {
	u.deleted = append(u.deleted, assetID)
	return nil
}

var _ media.Uploader = (*fakeUploader)(nil)

type fakeSearcher struct {
	ids     []string
	err     error
	queries []string
	sizes   []int
	upserts []string
	removes []string
}

func (s *fakeSearcher) Search(_ context.Context, query string, size int) ([]string, error) {
	s.queries = append(s.queries, query)
	s.sizes = append(s.sizes, size)
	if s.err != nil {
		return nil, s.err
	}
	return s.ids, nil
}

func (s *fakeSearcher) Upsert(_ context.Context, v *entity.Video) { s.upserts = append(s.upserts, v.ID) }
func (s *fakeSearcher) Remove(_ context.Context, videoID string)  { s.removes = append(s.removes, videoID) }

var _ VideoSearcher = (*fakeSearcher)(nil)

type fakeEnqueuer struct {
	jobs []any
	err  error
}

func (e *fakeEnqueuer) PublishJSON(_ context.Context, body any) error {
	if e.err != nil {
		return e.err
	}
	e.jobs = append(e.jobs, body)
	return nil
}
