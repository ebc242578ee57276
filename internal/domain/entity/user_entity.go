package entity

import "time"

// User is the aggregate root for the account domain.
// Password holds a bcrypt hash; RefreshTokenHash holds the SHA-256 digest of
// the single active refresh token, empty when no session exists.
type User struct {
	ID                string
	Username          string
	Email             string
	FullName          string
	Password          string
	AvatarURL         string
	AvatarAssetID     string
	CoverImageURL     string
	CoverImageAssetID string
	RefreshTokenHash  string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PublicUser is the sanitized projection returned by the API. It never
// carries the password hash or refresh-token state.
type PublicUser struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.AvatarURL,
		CoverImage: u.CoverImageURL,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// VideoOwner is the compact owner projection joined into listings and
// watch history.
type VideoOwner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

// ChannelProfile is the aggregation returned for a channel page.
type ChannelProfile struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	FullName        string `json:"fullName"`
	Avatar          string `json:"avatar"`
	CoverImage      string `json:"coverImage,omitempty"`
	SubscriberCount int64  `json:"subscriberCount"`
	SubscribedTo    int64  `json:"channelsSubscribedToCount"`
	IsSubscribed    bool   `json:"isSubscribed"`
}
