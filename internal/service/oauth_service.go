package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"golang.org/x/oauth2"

	config "github.com/maheshrc27/instaflow/configs"
	"github.com/maheshrc27/instaflow/internal/graph"
	"github.com/maheshrc27/instaflow/internal/models"
	"github.com/maheshrc27/instaflow/internal/transfer"
)

const (
	FlowFeed      = "feed"
	FlowStory     = "story"
	FlowMessage   = "message"
	FlowInsight   = "insight"
	FlowSubscribe = "subscribe"
)

var pageScopes = []string{
	"instagram_basic",
	"instagram_manage_messages",
	"instagram_content_publish",
	"pages_read_engagement",
	"pages_show_list",
	"business_management",
}

var subscribeScopes = []string{
	"pages_show_list",
	"pages_messaging",
	"instagram_basic",
	"instagram_manage_messages",
	"business_management",
}

var directScopes = []string{
	"instagram_business_basic",
	"instagram_business_manage_messages",
	"instagram_business_manage_comments",
	"instagram_business_content_publish",
	"instagram_business_manage_insights",
}

type OAuthService interface {
	LoginURL(flow, state string) (string, error)
	Authorize(ctx context.Context, code, flow string) (*models.Account, error)
}

type oauthService struct {
	cfg config.Config
	fb  *graph.Client
	ig  *graph.Client

	// Endpoints are fields so tests can point them at a local server.
	fbEndpoint oauth2.Endpoint
	igEndpoint oauth2.Endpoint
}

func NewOAuthService(cfg config.Config, fb, ig *graph.Client) OAuthService {
	return &oauthService{
		cfg: cfg,
		fb:  fb,
		ig:  ig,
		fbEndpoint: oauth2.Endpoint{
			AuthURL:   "https://www.facebook.com/v24.0/dialog/oauth",
			TokenURL:  "https://graph.facebook.com/v24.0/oauth/access_token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		igEndpoint: oauth2.Endpoint{
			AuthURL:   "https://www.instagram.com/oauth/authorize",
			TokenURL:  "https://api.instagram.com/oauth/access_token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// flowConfig describes one login flow: where the provider should redirect,
// which scopes to request, and how the target asset is resolved afterwards.
type flowConfig struct {
	redirectURI  string
	scopes       []string
	direct       bool
	wantBusiness bool
}

func (s *oauthService) flowConfig(flow string) (*flowConfig, error) {
	direct := s.cfg.Variant == string(models.VariantDirect)

	switch flow {
	case FlowFeed:
		return &flowConfig{
			redirectURI:  s.cfg.RedirectURIFeed,
			scopes:       variantScopes(direct),
			direct:       direct,
			wantBusiness: !direct,
		}, nil
	case FlowStory:
		return &flowConfig{
			redirectURI:  s.cfg.RedirectURIStory,
			scopes:       variantScopes(direct),
			direct:       direct,
			wantBusiness: !direct,
		}, nil
	case FlowMessage:
		// Instagram-platform conversations list the page side under its
		// business-account id, so recipient filtering needs it resolved.
		return &flowConfig{
			redirectURI:  s.cfg.RedirectURIMessage,
			scopes:       variantScopes(direct),
			direct:       direct,
			wantBusiness: !direct,
		}, nil
	case FlowInsight:
		return &flowConfig{
			redirectURI:  s.cfg.RedirectURIInsight,
			scopes:       variantScopes(direct),
			direct:       direct,
			wantBusiness: !direct,
		}, nil
	case FlowSubscribe:
		// Page subscription only exists on the page variant.
		return &flowConfig{
			redirectURI: s.cfg.RedirectURISubscribe,
			scopes:      subscribeScopes,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFlow, flow)
	}
}

func variantScopes(direct bool) []string {
	if direct {
		return directScopes
	}
	return pageScopes
}

func (s *oauthService) oauthConfig(fc *flowConfig) *oauth2.Config {
	if fc.direct {
		return &oauth2.Config{
			ClientID:     s.cfg.InstagramClientID,
			ClientSecret: s.cfg.InstagramClientSecret,
			RedirectURL:  fc.redirectURI,
			Scopes:       fc.scopes,
			Endpoint:     s.igEndpoint,
		}
	}
	return &oauth2.Config{
		ClientID:     s.cfg.AppID,
		ClientSecret: s.cfg.AppSecret,
		RedirectURL:  fc.redirectURI,
		Scopes:       fc.scopes,
		Endpoint:     s.fbEndpoint,
	}
}

func (s *oauthService) LoginURL(flow, state string) (string, error) {
	fc, err := s.flowConfig(flow)
	if err != nil {
		return "", err
	}
	return s.oauthConfig(fc).AuthCodeURL(state), nil
}

func (s *oauthService) Authorize(ctx context.Context, code, flow string) (*models.Account, error) {
	if code == "" {
		slog.Info(ErrEmptyCode.Error())
		return nil, &AuthError{Stage: "exchange", Err: ErrEmptyCode}
	}

	fc, err := s.flowConfig(flow)
	if err != nil {
		return nil, err
	}

	if fc.direct {
		return s.authorizeDirect(ctx, code, fc)
	}
	return s.authorizePage(ctx, code, fc)
}

// authorizePage exchanges the code for a user token, picks the first page
// from the caller's accounts list, and optionally resolves the linked
// Instagram business account.
func (s *oauthService) authorizePage(ctx context.Context, code string, fc *flowConfig) (*models.Account, error) {
	token, err := s.oauthConfig(fc).Exchange(ctx, code)
	if err != nil {
		return nil, &AuthError{Stage: "exchange", Err: err}
	}

	params := url.Values{}
	params.Set("access_token", token.AccessToken)

	var pages transfer.PagesResponse
	if err := s.fb.Get(ctx, "me/accounts", params, &pages); err != nil {
		return nil, &AuthError{Stage: "pages", Err: err}
	}
	if len(pages.Data) == 0 {
		return nil, &AuthError{Stage: "pages", Err: ErrNoPages}
	}

	page := pages.Data[0]
	slog.Info("resolved page", "page_id", page.ID, "page_name", page.Name)

	account := &models.Account{
		Variant:   models.VariantPage,
		AssetID:   page.ID,
		AssetName: page.Name,
		Credential: models.Credential{
			Token:     page.AccessToken,
			Kind:      models.TokenKindShortLived,
			SubjectID: page.ID,
		},
	}

	if fc.wantBusiness {
		businessID, err := s.resolveBusinessAccount(ctx, page.ID, page.AccessToken)
		if err != nil {
			return nil, &AuthError{Stage: "business_account", Err: err}
		}
		account.BusinessID = businessID
	}

	return account, nil
}

// authorizeDirect exchanges the code for a short-lived token, trades it for
// a long-lived one, and loads the authenticated profile.
func (s *oauthService) authorizeDirect(ctx context.Context, code string, fc *flowConfig) (*models.Account, error) {
	token, err := s.oauthConfig(fc).Exchange(ctx, code)
	if err != nil {
		return nil, &AuthError{Stage: "exchange", Err: err}
	}

	params := url.Values{}
	params.Set("grant_type", "ig_exchange_token")
	params.Set("client_secret", s.cfg.InstagramClientSecret)
	params.Set("access_token", token.AccessToken)

	var longLived transfer.LongLivedTokenResponse
	if err := s.ig.Get(ctx, "access_token", params, &longLived); err != nil {
		return nil, &AuthError{Stage: "long_lived", Err: err}
	}

	profileParams := url.Values{}
	profileParams.Set("fields", "id,username,account_type,media_count")
	profileParams.Set("access_token", longLived.AccessToken)

	var profile transfer.InstagramProfile
	if err := s.ig.Get(ctx, "me", profileParams, &profile); err != nil {
		return nil, &AuthError{Stage: "profile", Err: err}
	}

	slog.Info("resolved instagram profile", "user_id", profile.ID, "username", profile.Username)

	return &models.Account{
		Variant:     models.VariantDirect,
		AssetID:     profile.ID,
		Username:    profile.Username,
		AccountType: profile.AccountType,
		Credential: models.Credential{
			Token:     longLived.AccessToken,
			Kind:      models.TokenKindLongLived,
			SubjectID: profile.ID,
		},
	}, nil
}

func (s *oauthService) resolveBusinessAccount(ctx context.Context, pageID, pageToken string) (string, error) {
	params := url.Values{}
	params.Set("fields", "instagram_business_account")
	params.Set("access_token", pageToken)

	var resp transfer.BusinessAccountResponse
	if err := s.fb.Get(ctx, pageID, params, &resp); err != nil {
		return "", err
	}

	if resp.InstagramBusinessAccount.ID == "" {
		return "", ErrNoLinkedAccount
	}

	slog.Info("resolved instagram business account", "ig_account_id", resp.InstagramBusinessAccount.ID)
	return resp.InstagramBusinessAccount.ID, nil
}
