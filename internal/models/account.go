package models

// Variant selects which provider flavor an account was authorized through:
// a Facebook page acting for a linked Instagram business account, or an
// Instagram account authorized directly.
type Variant string

const (
	VariantPage   Variant = "page"
	VariantDirect Variant = "direct"
)

type TokenKind string

const (
	TokenKindShortLived TokenKind = "short_lived"
	TokenKindLongLived  TokenKind = "long_lived"
)

// Credential is an access token obtained from the provider. It lives for one
// request only and is never persisted.
type Credential struct {
	Token     string    `json:"-"`
	Kind      TokenKind `json:"kind"`
	SubjectID string    `json:"subject_id"`
}

// Account is the asset a flow acts on behalf of: a Facebook page with an
// optionally linked Instagram business account, or a directly authorized
// Instagram account.
type Account struct {
	Variant     Variant    `json:"variant"`
	AssetID     string     `json:"asset_id"`
	AssetName   string     `json:"asset_name,omitempty"`
	Username    string     `json:"username,omitempty"`
	AccountType string     `json:"account_type,omitempty"`
	BusinessID  string     `json:"business_id,omitempty"`
	Credential  Credential `json:"credential"`
}

// PublishTarget returns the id media operations should be issued against.
func (a *Account) PublishTarget() string {
	if a.BusinessID != "" {
		return a.BusinessID
	}
	return a.AssetID
}
