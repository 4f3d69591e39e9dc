package transfer

type Page struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
}

type PagesResponse struct {
	Data []Page `json:"data"`
}

type BusinessAccountResponse struct {
	InstagramBusinessAccount struct {
		ID string `json:"id"`
	} `json:"instagram_business_account"`
	ID string `json:"id"`
}

type InstagramProfile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	AccountType string `json:"account_type"`
	MediaCount  int    `json:"media_count"`
}

type LongLivedTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// CreatedResource is the single-id envelope most Graph write calls return.
type CreatedResource struct {
	ID string `json:"id"`
}

type ContainerStatusResponse struct {
	ID         string `json:"id"`
	StatusCode string `json:"status_code"`
}

type Conversation struct {
	ID string `json:"id"`
}

type ConversationsResponse struct {
	Data []Conversation `json:"data"`
}

type Participant struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type ParticipantsResponse struct {
	ID           string `json:"id"`
	Participants struct {
		Data []Participant `json:"data"`
	} `json:"participants"`
}

type MediaItem struct {
	ID            string `json:"id"`
	Caption       string `json:"caption"`
	MediaType     string `json:"media_type"`
	MediaURL      string `json:"media_url"`
	Timestamp     string `json:"timestamp"`
	Permalink     string `json:"permalink"`
	LikeCount     int    `json:"like_count"`
	CommentsCount int    `json:"comments_count"`
}

type MediaListResponse struct {
	Data []MediaItem `json:"data"`
}

type SendMessageResponse struct {
	RecipientID string `json:"recipient_id"`
	MessageID   string `json:"message_id"`
}

type SubscribeResponse struct {
	Success bool `json:"success"`
}
