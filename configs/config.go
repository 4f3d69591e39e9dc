package config

import "os"

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Config struct {
	AppID                 string
	AppSecret             string
	RedirectURIFeed       string
	RedirectURIStory      string
	RedirectURIMessage    string
	RedirectURIInsight    string
	RedirectURISubscribe  string
	InstagramClientID     string
	InstagramClientSecret string
	Variant               string
	VerifyToken           string
	RedisURI              string
	Port                  string
	SecretKey             string
	R2                    R2
}

func LoadConfig() *Config {
	return &Config{
		AppID:                 getEnv("APP_ID", ""),
		AppSecret:             getEnv("APP_SECRET", ""),
		RedirectURIFeed:       getEnv("REDIRECT_URI_FEED", ""),
		RedirectURIStory:      getEnv("REDIRECT_URI_STORY", ""),
		RedirectURIMessage:    getEnv("REDIRECT_URI_MESSAGE", ""),
		RedirectURIInsight:    getEnv("REDIRECT_URI_INSIGHT", ""),
		RedirectURISubscribe:  getEnv("REDIRECT_URI_SUBSCRIBE", ""),
		InstagramClientID:     getEnv("INSTAGRAM_CLIENT_ID", ""),
		InstagramClientSecret: getEnv("INSTAGRAM_CLIENT_SECRET", ""),
		Variant:               getEnv("AUTH_VARIANT", "page"),
		VerifyToken:           getEnv("VERIFY_TOKEN", ""),
		RedisURI:              getEnv("REDIS_URI", ""),
		Port:                  getEnv("PORT", "3000"),
		SecretKey:             getEnv("SECRET_KEY", ""),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
