package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	def := defaultConfig()
	return &Config{
		Database: DatabaseConfig{
			Path:    ":memory:",
			Timeout: 1 * time.Second,
		},
		Search: SearchConfig{
			APIURL:         "http://127.0.0.1:0/api",
			FeedURL:        "http://127.0.0.1:0/feed",
			UploaderSource: SourceAPI,
			MaxResults:     5,
			SearchOrder:    "relevance",
			UserOrder:      "published",
			HTTPTimeout:    5 * time.Second,
			UserAgent:      "vidr-test/1.0",
		},
		UI:    def.UI,
		Media: def.Media,
		Keys:  def.Keys,
		Log:   LogConfig{Level: "off"},
	}
}
