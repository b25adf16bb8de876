// Package oauth resolves social-provider access tokens into user identities.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"carelink-backend/internal/models"

	"github.com/valyala/fasthttp"
)

const DefaultKakaoAPIURL = "https://kapi.kakao.com"

var ErrRejected = errors.New("provider rejected the access token")

// Kakao fetches the caller's profile from the Kakao user API.
type Kakao struct {
	baseURL string
	client  *fasthttp.Client
	timeout time.Duration
}

func NewKakao(baseURL string, client *fasthttp.Client) *Kakao {
	if baseURL == "" {
		baseURL = DefaultKakaoAPIURL
	}
	if client == nil {
		client = &fasthttp.Client{Name: "carelink-backend"}
	}
	return &Kakao{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		timeout: 5 * time.Second,
	}
}

type kakaoUser struct {
	ID         int64 `json:"id"`
	Properties struct {
		Nickname     string `json:"nickname"`
		ProfileImage string `json:"profile_image"`
	} `json:"properties"`
	KakaoAccount struct {
		Email   string `json:"email"`
		Profile struct {
			Nickname        string `json:"nickname"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

func (k *Kakao) FetchIdentity(ctx context.Context, accessToken string) (*models.Identity, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(k.baseURL + "/v2/user/me")
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+accessToken)

	timeout := k.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := k.client.DoTimeout(req, resp, timeout); err != nil {
		return nil, fmt.Errorf("kakao user request: %w", err)
	}

	switch status := resp.StatusCode(); {
	case status == fasthttp.StatusUnauthorized:
		return nil, ErrRejected
	case status != fasthttp.StatusOK:
		return nil, fmt.Errorf("kakao user request: status %d", status)
	}

	var u kakaoUser
	if err := json.Unmarshal(resp.Body(), &u); err != nil {
		return nil, fmt.Errorf("decode kakao user: %w", err)
	}
	if u.ID == 0 {
		return nil, errors.New("kakao user has no id")
	}
	return u.identity(), nil
}

// Account profile fields win over the legacy properties block.
func (u kakaoUser) identity() *models.Identity {
	id := &models.Identity{
		Provider:   models.ProviderKakao,
		ExternalID: strconv.FormatInt(u.ID, 10),
		Name:       firstNonEmpty(u.KakaoAccount.Profile.Nickname, u.Properties.Nickname),
	}
	if email := u.KakaoAccount.Email; email != "" {
		id.Email = &email
	}
	if avatar := firstNonEmpty(u.KakaoAccount.Profile.ProfileImageURL, u.Properties.ProfileImage); avatar != "" {
		id.AvatarURL = &avatar
	}
	return id
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
