package transfer

import "github.com/golang-jwt/jwt/v5"

type CustomClaims struct {
	Flow string `json:"flow"`
	jwt.RegisteredClaims
}

type FeedPostRequest struct {
	PageID    string `json:"pageId"`
	PageToken string `json:"pageToken"`
	ImageURL  string `json:"imageUrl"`
	Caption   string `json:"caption"`
}

type StoryPostRequest struct {
	PageID    string `json:"pageId"`
	PageToken string `json:"pageToken"`
	ImageURL  string `json:"imageUrl"`
}

type SendMessageRequest struct {
	PageID      string `json:"pageId"`
	PageToken   string `json:"pageToken"`
	RecipientID string `json:"recipientId"`
	Text        string `json:"text"`
}
